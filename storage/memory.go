package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"salonbook-backend/models"
)

// table is one entity map with its id counter. Iteration follows insertion
// order, which is also id order.
type table[T any] struct {
	rows  map[uint]T
	order []uint
	next  uint
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[uint]T), next: 1}
}

func (t *table[T]) nextID() uint {
	id := t.next
	t.next++
	return id
}

func (t *table[T]) put(id uint, v T) {
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = v
}

func (t *table[T]) get(id uint) (T, bool) {
	v, ok := t.rows[id]
	return v, ok
}

func (t *table[T]) filter(keep func(*T) bool) []T {
	out := make([]T, 0)
	for _, id := range t.order {
		v := t.rows[id]
		if keep == nil || keep(&v) {
			out = append(out, v)
		}
	}
	return out
}

func (t *table[T]) find(match func(*T) bool) (T, bool) {
	for _, id := range t.order {
		v := t.rows[id]
		if match(&v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// MemStorage keeps every entity in process memory. Data lives as long as the
// process does.
type MemStorage struct {
	mu  sync.RWMutex
	now func() time.Time

	users        *table[models.User]
	salons       *table[models.Salon]
	services     *table[models.Service]
	bookings     *table[models.Booking]
	reviews      *table[models.Review]
	staff        *table[models.Staff]
	promotions   *table[models.Promotion]
	tiers        *table[models.MembershipTier]
	transactions *table[models.PaymentTransaction]
}

func NewMemStorage() *MemStorage {
	return &MemStorage{
		now:          time.Now,
		users:        newTable[models.User](),
		salons:       newTable[models.Salon](),
		services:     newTable[models.Service](),
		bookings:     newTable[models.Booking](),
		reviews:      newTable[models.Review](),
		staff:        newTable[models.Staff](),
		promotions:   newTable[models.Promotion](),
		tiers:        newTable[models.MembershipTier](),
		transactions: newTable[models.PaymentTransaction](),
	}
}

// User operations

func (s *MemStorage) GetUser(_ context.Context, id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemStorage) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users.find(func(u *models.User) bool { return u.Username == username })
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemStorage) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.users.find(func(u *models.User) bool {
		return u.Username == user.Username || strings.EqualFold(u.Email, user.Email)
	}); taken {
		return ErrDuplicate
	}
	now := s.now()
	user.ID = s.users.nextID()
	if user.Role == "" {
		user.Role = models.RoleCustomer
	}
	user.CreatedAt, user.UpdatedAt = now, now
	s.users.put(user.ID, *user)
	return nil
}

func (s *MemStorage) UpdateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.users.get(user.ID)
	if !ok {
		return ErrNotFound
	}
	if _, taken := s.users.find(func(u *models.User) bool {
		return u.ID != user.ID && (u.Username == user.Username || strings.EqualFold(u.Email, user.Email))
	}); taken {
		return ErrDuplicate
	}
	user.LoyaltyPoints = current.LoyaltyPoints
	user.MembershipType = current.MembershipType
	user.LastLoginAt = current.LastLoginAt
	user.CreatedAt = current.CreatedAt
	user.UpdatedAt = s.now()
	s.users.put(user.ID, *user)
	return nil
}

func (s *MemStorage) TouchLastLogin(_ context.Context, userID uint, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users.get(userID)
	if !ok {
		return ErrNotFound
	}
	u.LastLoginAt = &at
	s.users.put(u.ID, u)
	return nil
}

func (s *MemStorage) SetMembership(_ context.Context, userID uint, membership string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users.get(userID)
	if !ok {
		return ErrNotFound
	}
	u.MembershipType = membership
	u.UpdatedAt = s.now()
	s.users.put(u.ID, u)
	return nil
}

func (s *MemStorage) AddLoyaltyPoints(_ context.Context, userID uint, points int) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addPointsLocked(userID, points)
}

func (s *MemStorage) addPointsLocked(userID uint, points int) (*models.User, error) {
	u, ok := s.users.get(userID)
	if !ok {
		return nil, ErrNotFound
	}
	u.LoyaltyPoints += points
	u.UpdatedAt = s.now()
	s.users.put(u.ID, u)
	return &u, nil
}

// Salon operations

func (s *MemStorage) ListSalons(_ context.Context, f SalonFilter) ([]models.Salon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	salons := s.salons.filter(nil)
	if f.Gender != "" {
		salons = narrow(salons, func(x *models.Salon) bool {
			return x.Gender == f.Gender || x.Gender == models.GenderBoth
		})
	}
	if f.City != "" {
		salons = narrow(salons, func(x *models.Salon) bool {
			return strings.EqualFold(x.City, f.City) || strings.EqualFold(x.CityEn, f.City)
		})
	}
	if f.HasPrivateRooms {
		salons = narrow(salons, func(x *models.Salon) bool { return x.HasPrivateRooms })
	}
	if f.HasFemaleStaffOnly {
		salons = narrow(salons, func(x *models.Salon) bool { return x.HasFemaleStaffOnly })
	}
	if f.ProvidesHomeService {
		salons = narrow(salons, func(x *models.Salon) bool { return x.ProvidesHomeService })
	}
	if f.Category != "" {
		salons = narrow(salons, func(x *models.Salon) bool { return x.HasCategory(f.Category) })
	}
	return salons, nil
}

func narrow[T any](in []T, keep func(*T) bool) []T {
	out := in[:0]
	for i := range in {
		if keep(&in[i]) {
			out = append(out, in[i])
		}
	}
	return out
}

func (s *MemStorage) GetSalon(_ context.Context, id uint) (*models.Salon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.salons.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &v, nil
}

func (s *MemStorage) ListSalonsByOwner(_ context.Context, ownerID uint) ([]models.Salon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.salons.filter(func(x *models.Salon) bool { return x.OwnerID == ownerID }), nil
}

func (s *MemStorage) CreateSalon(_ context.Context, salon *models.Salon) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	salon.ID = s.salons.nextID()
	salon.Rating, salon.ReviewCount = 0, 0
	salon.CreatedAt, salon.UpdatedAt = now, now
	s.salons.put(salon.ID, *salon)
	return nil
}

func (s *MemStorage) UpdateSalon(_ context.Context, salon *models.Salon) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.salons.get(salon.ID)
	if !ok {
		return ErrNotFound
	}
	// rating is derived from reviews and never taken from the caller
	salon.Rating, salon.ReviewCount = current.Rating, current.ReviewCount
	salon.UpdatedAt = s.now()
	s.salons.put(salon.ID, *salon)
	return nil
}

// Service operations

func (s *MemStorage) ListServices(_ context.Context, salonID uint, f ServiceFilter) ([]models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	services := s.services.filter(func(x *models.Service) bool { return x.SalonID == salonID })
	if f.Category != "" {
		services = narrow(services, func(x *models.Service) bool { return x.Category == f.Category })
	}
	if f.IsAvailable != nil {
		services = narrow(services, func(x *models.Service) bool { return x.IsAvailable == *f.IsAvailable })
	}
	return services, nil
}

func (s *MemStorage) ListAllServices(_ context.Context) ([]models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.services.filter(nil), nil
}

func (s *MemStorage) GetService(_ context.Context, id uint) (*models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.services.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &v, nil
}

func (s *MemStorage) ListFeaturedServices(_ context.Context, salonID uint) ([]models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.services.filter(func(x *models.Service) bool { return x.SalonID == salonID && x.Featured }), nil
}

func (s *MemStorage) ListPromotedServices(_ context.Context) ([]models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.services.filter(func(x *models.Service) bool { return x.IsPromoted }), nil
}

func (s *MemStorage) CreateService(_ context.Context, service *models.Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	service.ID = s.services.nextID()
	service.CreatedAt, service.UpdatedAt = now, now
	s.services.put(service.ID, *service)
	return nil
}

func (s *MemStorage) UpdateService(_ context.Context, service *models.Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.services.get(service.ID); !ok {
		return ErrNotFound
	}
	service.UpdatedAt = s.now()
	s.services.put(service.ID, *service)
	return nil
}

// Booking operations

func (s *MemStorage) ListBookingsByUser(_ context.Context, userID uint) ([]models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bookings.filter(func(b *models.Booking) bool { return b.UserID == userID }), nil
}

func (s *MemStorage) ListBookingsBySalon(_ context.Context, salonID uint) ([]models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bookings.filter(func(b *models.Booking) bool { return b.SalonID == salonID }), nil
}

func (s *MemStorage) ListBookingsByService(_ context.Context, serviceID uint) ([]models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bookings.filter(func(b *models.Booking) bool { return b.ServiceID == serviceID }), nil
}

func (s *MemStorage) ListBookings(_ context.Context, f BookingFilter) ([]models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bookings.filter(func(b *models.Booking) bool {
		if f.Status != "" && b.Status != f.Status {
			return false
		}
		if !f.DateFrom.IsZero() && b.Date.Before(f.DateFrom) {
			return false
		}
		if !f.DateTo.IsZero() && !b.Date.Before(f.DateTo) {
			return false
		}
		if !f.CreatedBefore.IsZero() && !b.CreatedAt.Before(f.CreatedBefore) {
			return false
		}
		if f.ReminderSent != nil && b.ReminderSent != *f.ReminderSent {
			return false
		}
		return true
	}), nil
}

func (s *MemStorage) GetBooking(_ context.Context, id uint) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.bookings.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &v, nil
}

func (s *MemStorage) CreateBooking(_ context.Context, booking *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertBookingLocked(booking)
	return nil
}

func (s *MemStorage) insertBookingLocked(booking *models.Booking) {
	now := s.now()
	booking.ID = s.bookings.nextID()
	if booking.Status == "" {
		booking.Status = models.BookingPending
	}
	if booking.PaymentStatus == "" {
		booking.PaymentStatus = models.PaymentPending
	}
	booking.CreatedAt, booking.UpdatedAt = now, now
	s.bookings.put(booking.ID, *booking)
}

func (s *MemStorage) UpdateBookingStatus(_ context.Context, id uint, status string) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	now := s.now()
	b.Status = status
	b.UpdatedAt = now
	if status == models.BookingCancelled {
		b.CancelledAt = &now
	}
	s.bookings.put(id, b)
	return &b, nil
}

func (s *MemStorage) MarkReminderSent(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings.get(id)
	if !ok {
		return ErrNotFound
	}
	b.ReminderSent = true
	b.UpdatedAt = s.now()
	s.bookings.put(id, b)
	return nil
}

// Review operations

func (s *MemStorage) ListReviewsBySalon(_ context.Context, salonID uint, includeHidden bool) ([]models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reviews.filter(func(r *models.Review) bool {
		return r.SalonID == salonID && (includeHidden || !r.IsHidden)
	}), nil
}

func (s *MemStorage) ListReviewsByUser(_ context.Context, userID uint) ([]models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reviews.filter(func(r *models.Review) bool { return r.UserID == userID }), nil
}

func (s *MemStorage) GetReview(_ context.Context, id uint) (*models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.reviews.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &v, nil
}

func (s *MemStorage) CreateReview(_ context.Context, review *models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.salons.get(review.SalonID); !ok {
		return ErrNotFound
	}
	now := s.now()
	review.ID = s.reviews.nextID()
	review.CreatedAt, review.UpdatedAt = now, now
	s.reviews.put(review.ID, *review)

	s.updateSalonRatingLocked(review.SalonID)
	if review.BookingID != nil {
		if b, ok := s.bookings.get(*review.BookingID); ok {
			b.IsRated = true
			s.bookings.put(b.ID, b)
		}
	}
	return nil
}

func (s *MemStorage) RespondToReview(_ context.Context, id uint, response string) (*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reviews.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	now := s.now()
	r.OwnerResponse = response
	r.OwnerResponseAt = &now
	r.UpdatedAt = now
	s.reviews.put(id, r)
	return &r, nil
}

func (s *MemStorage) SetReviewHidden(_ context.Context, id uint, hidden bool) (*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reviews.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	r.IsHidden = hidden
	r.UpdatedAt = s.now()
	s.reviews.put(id, r)
	s.updateSalonRatingLocked(r.SalonID)
	return &r, nil
}

func (s *MemStorage) updateSalonRatingLocked(salonID uint) {
	salon, ok := s.salons.get(salonID)
	if !ok {
		return
	}
	salon.Rating, salon.ReviewCount = averageRating(
		s.reviews.filter(func(r *models.Review) bool { return r.SalonID == salonID }),
	)
	s.salons.put(salonID, salon)
}

// Staff operations

func (s *MemStorage) ListStaffBySalon(_ context.Context, salonID uint) ([]models.Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.staff.filter(func(x *models.Staff) bool { return x.SalonID == salonID }), nil
}

func (s *MemStorage) GetStaff(_ context.Context, id uint) (*models.Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.staff.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &v, nil
}

func (s *MemStorage) CreateStaff(_ context.Context, staff *models.Staff) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	staff.ID = s.staff.nextID()
	staff.CreatedAt, staff.UpdatedAt = now, now
	s.staff.put(staff.ID, *staff)
	return nil
}

func (s *MemStorage) UpdateStaff(_ context.Context, staff *models.Staff) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.staff.get(staff.ID); !ok {
		return ErrNotFound
	}
	staff.UpdatedAt = s.now()
	s.staff.put(staff.ID, *staff)
	return nil
}

// Promotion operations

func (s *MemStorage) ListPromotions(_ context.Context, f PromotionFilter) ([]models.Promotion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.promotions.filter(func(p *models.Promotion) bool {
		if f.IsActive != nil && p.IsActive != *f.IsActive {
			return false
		}
		if f.SalonID != nil && (p.SalonID == nil || *p.SalonID != *f.SalonID) {
			return false
		}
		return true
	}), nil
}

func (s *MemStorage) GetPromotion(_ context.Context, id uint) (*models.Promotion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.promotions.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &v, nil
}

func (s *MemStorage) GetPromotionByCode(_ context.Context, code string) (*models.Promotion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.promotions.find(func(p *models.Promotion) bool { return p.Code == code })
	if !ok {
		return nil, ErrNotFound
	}
	return &v, nil
}

func (s *MemStorage) CreatePromotion(_ context.Context, promotion *models.Promotion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.promotions.find(func(p *models.Promotion) bool { return p.Code == promotion.Code }); taken {
		return ErrDuplicate
	}
	now := s.now()
	promotion.ID = s.promotions.nextID()
	promotion.CreatedAt, promotion.UpdatedAt = now, now
	s.promotions.put(promotion.ID, *promotion)
	return nil
}

func (s *MemStorage) UpdatePromotion(_ context.Context, promotion *models.Promotion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.promotions.get(promotion.ID); !ok {
		return ErrNotFound
	}
	if _, taken := s.promotions.find(func(p *models.Promotion) bool {
		return p.Code == promotion.Code && p.ID != promotion.ID
	}); taken {
		return ErrDuplicate
	}
	promotion.UpdatedAt = s.now()
	s.promotions.put(promotion.ID, *promotion)
	return nil
}

// Membership operations

func (s *MemStorage) ListMembershipTiers(_ context.Context) ([]models.MembershipTier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tiers.filter(nil), nil
}

func (s *MemStorage) GetMembershipTier(_ context.Context, id uint) (*models.MembershipTier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.tiers.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &v, nil
}

// TierForPoints returns the highest tier whose threshold the points reach.
func (s *MemStorage) TierForPoints(_ context.Context, points int) (*models.MembershipTier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tiers := s.tiers.filter(func(t *models.MembershipTier) bool { return points >= t.PointsThreshold })
	if len(tiers) == 0 {
		return nil, ErrNotFound
	}
	sort.SliceStable(tiers, func(i, j int) bool { return tiers[i].PointsThreshold > tiers[j].PointsThreshold })
	return &tiers[0], nil
}

func (s *MemStorage) CreateMembershipTier(_ context.Context, tier *models.MembershipTier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	tier.ID = s.tiers.nextID()
	tier.CreatedAt, tier.UpdatedAt = now, now
	s.tiers.put(tier.ID, *tier)
	return nil
}

// Payment operations

func (s *MemStorage) CreatePaymentTransaction(_ context.Context, txn *models.PaymentTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertTransactionLocked(txn)
}

func (s *MemStorage) insertTransactionLocked(txn *models.PaymentTransaction) error {
	if _, taken := s.transactions.find(func(t *models.PaymentTransaction) bool {
		return t.GatewayID == txn.GatewayID
	}); taken {
		return ErrDuplicate
	}
	now := s.now()
	txn.ID = s.transactions.nextID()
	txn.CreatedAt, txn.UpdatedAt = now, now
	s.transactions.put(txn.ID, *txn)
	return nil
}

func (s *MemStorage) ListTransactionsByUser(_ context.Context, userID uint) ([]models.PaymentTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transactions.filter(func(t *models.PaymentTransaction) bool { return t.UserID == userID }), nil
}

func (s *MemStorage) ListTransactionsByBooking(_ context.Context, bookingID uint) ([]models.PaymentTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transactions.filter(func(t *models.PaymentTransaction) bool { return t.BookingID == bookingID }), nil
}

func (s *MemStorage) GetTransactionByGatewayID(_ context.Context, gatewayID string) (*models.PaymentTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.transactions.find(func(t *models.PaymentTransaction) bool { return t.GatewayID == gatewayID })
	if !ok {
		return nil, ErrNotFound
	}
	return &v, nil
}

func (s *MemStorage) RecordPaidBooking(_ context.Context, booking *models.Booking, txn *models.PaymentTransaction, points int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.transactions.find(func(t *models.PaymentTransaction) bool {
		return t.GatewayID == txn.GatewayID
	}); taken {
		return ErrDuplicate
	}
	if _, ok := s.users.get(booking.UserID); !ok {
		return ErrNotFound
	}
	s.insertBookingLocked(booking)
	txn.BookingID = booking.ID
	if err := s.insertTransactionLocked(txn); err != nil {
		return err
	}
	_, err := s.addPointsLocked(booking.UserID, points)
	return err
}
