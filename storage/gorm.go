package storage

import (
	"context"
	"errors"
	"time"

	"salonbook-backend/models"

	"gorm.io/gorm"
)

// GormStorage implements Storage on a relational database. The *gorm.DB should
// be opened with TranslateError enabled so unique violations surface as
// gorm.ErrDuplicatedKey.
type GormStorage struct {
	db *gorm.DB
}

func NewGormStorage(db *gorm.DB) (*GormStorage, error) {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Salon{},
		&models.Service{},
		&models.Booking{},
		&models.Review{},
		&models.Staff{},
		&models.Promotion{},
		&models.MembershipTier{},
		&models.PaymentTransaction{},
	); err != nil {
		return nil, err
	}
	return &GormStorage{db: db}, nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

func first[T any](db *gorm.DB, query string, args ...interface{}) (*T, error) {
	var v T
	if err := db.Where(query, args...).First(&v).Error; err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

func list[T any](db *gorm.DB) ([]T, error) {
	out := make([]T, 0)
	if err := db.Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// save updates an existing row and reports ErrNotFound when nothing matched.
func save(db *gorm.DB, v interface{}) error {
	res := db.Save(v)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// User operations

func (s *GormStorage) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return first[models.User](s.db.WithContext(ctx), "id = ?", id)
}

func (s *GormStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return first[models.User](s.db.WithContext(ctx), "username = ?", username)
}

func (s *GormStorage) CreateUser(ctx context.Context, user *models.User) error {
	if user.Role == "" {
		user.Role = models.RoleCustomer
	}
	return translate(s.db.WithContext(ctx).Create(user).Error)
}

// userProfileColumns are the columns UpdateUser may write.
var userProfileColumns = []string{
	"username", "password", "name", "email", "phone_number", "role", "gender",
	"language", "preferences", "private_profile", "profile_image", "updated_at",
}

func (s *GormStorage) UpdateUser(ctx context.Context, user *models.User) error {
	db := s.db.WithContext(ctx)
	res := db.Model(&models.User{}).Where("id = ?", user.ID).
		Select(userProfileColumns).Updates(user)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	stored, err := s.GetUser(ctx, user.ID)
	if err != nil {
		return err
	}
	*user = *stored
	return nil
}

func (s *GormStorage) TouchLastLogin(ctx context.Context, userID uint, at time.Time) error {
	return updateColumns(s.db.WithContext(ctx), &models.User{}, userID, map[string]interface{}{
		"last_login_at": at,
	})
}

func (s *GormStorage) SetMembership(ctx context.Context, userID uint, membership string) error {
	return updateColumns(s.db.WithContext(ctx), &models.User{}, userID, map[string]interface{}{
		"membership_type": membership,
		"updated_at":      time.Now(),
	})
}

func updateColumns(db *gorm.DB, model interface{}, id uint, values map[string]interface{}) error {
	res := db.Model(model).Where("id = ?", id).UpdateColumns(values)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStorage) AddLoyaltyPoints(ctx context.Context, userID uint, points int) (*models.User, error) {
	if err := addPoints(s.db.WithContext(ctx), userID, points); err != nil {
		return nil, err
	}
	return s.GetUser(ctx, userID)
}

func addPoints(db *gorm.DB, userID uint, points int) error {
	res := db.Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{
			"loyalty_points": gorm.Expr("loyalty_points + ?", points),
			"updated_at":     time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Salon operations

func (s *GormStorage) ListSalons(ctx context.Context, f SalonFilter) ([]models.Salon, error) {
	q := s.db.WithContext(ctx)
	if f.Gender != "" {
		q = q.Where("(gender = ? OR gender = ?)", f.Gender, models.GenderBoth)
	}
	if f.City != "" {
		q = q.Where("(LOWER(city) = LOWER(?) OR LOWER(city_en) = LOWER(?))", f.City, f.City)
	}
	if f.HasPrivateRooms {
		q = q.Where("has_private_rooms = ?", true)
	}
	if f.HasFemaleStaffOnly {
		q = q.Where("has_female_staff_only = ?", true)
	}
	if f.ProvidesHomeService {
		q = q.Where("provides_home_service = ?", true)
	}
	salons, err := list[models.Salon](q)
	if err != nil || f.Category == "" {
		return salons, err
	}
	// categories is a comma separated column; match elements like MemStorage does
	out := salons[:0]
	for i := range salons {
		if salons[i].HasCategory(f.Category) {
			out = append(out, salons[i])
		}
	}
	return out, nil
}

func (s *GormStorage) GetSalon(ctx context.Context, id uint) (*models.Salon, error) {
	return first[models.Salon](s.db.WithContext(ctx), "id = ?", id)
}

func (s *GormStorage) ListSalonsByOwner(ctx context.Context, ownerID uint) ([]models.Salon, error) {
	return list[models.Salon](s.db.WithContext(ctx).Where("owner_id = ?", ownerID))
}

func (s *GormStorage) CreateSalon(ctx context.Context, salon *models.Salon) error {
	salon.Rating, salon.ReviewCount = 0, 0
	return translate(s.db.WithContext(ctx).Create(salon).Error)
}

func (s *GormStorage) UpdateSalon(ctx context.Context, salon *models.Salon) error {
	current, err := s.GetSalon(ctx, salon.ID)
	if err != nil {
		return err
	}
	salon.Rating, salon.ReviewCount = current.Rating, current.ReviewCount
	return save(s.db.WithContext(ctx), salon)
}

// Service operations

func (s *GormStorage) ListServices(ctx context.Context, salonID uint, f ServiceFilter) ([]models.Service, error) {
	q := s.db.WithContext(ctx).Where("salon_id = ?", salonID)
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.IsAvailable != nil {
		q = q.Where("is_available = ?", *f.IsAvailable)
	}
	return list[models.Service](q)
}

func (s *GormStorage) ListAllServices(ctx context.Context) ([]models.Service, error) {
	return list[models.Service](s.db.WithContext(ctx))
}

func (s *GormStorage) GetService(ctx context.Context, id uint) (*models.Service, error) {
	return first[models.Service](s.db.WithContext(ctx), "id = ?", id)
}

func (s *GormStorage) ListFeaturedServices(ctx context.Context, salonID uint) ([]models.Service, error) {
	return list[models.Service](s.db.WithContext(ctx).Where("salon_id = ? AND featured = ?", salonID, true))
}

func (s *GormStorage) ListPromotedServices(ctx context.Context) ([]models.Service, error) {
	return list[models.Service](s.db.WithContext(ctx).Where("is_promoted = ?", true))
}

func (s *GormStorage) CreateService(ctx context.Context, service *models.Service) error {
	return translate(s.db.WithContext(ctx).Create(service).Error)
}

func (s *GormStorage) UpdateService(ctx context.Context, service *models.Service) error {
	if _, err := s.GetService(ctx, service.ID); err != nil {
		return err
	}
	return save(s.db.WithContext(ctx), service)
}

// Booking operations

func (s *GormStorage) ListBookingsByUser(ctx context.Context, userID uint) ([]models.Booking, error) {
	return list[models.Booking](s.db.WithContext(ctx).Where("user_id = ?", userID))
}

func (s *GormStorage) ListBookingsBySalon(ctx context.Context, salonID uint) ([]models.Booking, error) {
	return list[models.Booking](s.db.WithContext(ctx).Where("salon_id = ?", salonID))
}

func (s *GormStorage) ListBookingsByService(ctx context.Context, serviceID uint) ([]models.Booking, error) {
	return list[models.Booking](s.db.WithContext(ctx).Where("service_id = ?", serviceID))
}

func (s *GormStorage) ListBookings(ctx context.Context, f BookingFilter) ([]models.Booking, error) {
	q := s.db.WithContext(ctx)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if !f.DateFrom.IsZero() {
		q = q.Where("date >= ?", f.DateFrom)
	}
	if !f.DateTo.IsZero() {
		q = q.Where("date < ?", f.DateTo)
	}
	if !f.CreatedBefore.IsZero() {
		q = q.Where("created_at < ?", f.CreatedBefore)
	}
	if f.ReminderSent != nil {
		q = q.Where("reminder_sent = ?", *f.ReminderSent)
	}
	return list[models.Booking](q)
}

func (s *GormStorage) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	return first[models.Booking](s.db.WithContext(ctx), "id = ?", id)
}

func (s *GormStorage) CreateBooking(ctx context.Context, booking *models.Booking) error {
	defaultBooking(booking)
	return translate(s.db.WithContext(ctx).Create(booking).Error)
}

func defaultBooking(b *models.Booking) {
	if b.Status == "" {
		b.Status = models.BookingPending
	}
	if b.PaymentStatus == "" {
		b.PaymentStatus = models.PaymentPending
	}
}

func (s *GormStorage) UpdateBookingStatus(ctx context.Context, id uint, status string) (*models.Booking, error) {
	now := time.Now()
	updates := map[string]interface{}{"status": status, "updated_at": now}
	if status == models.BookingCancelled {
		updates["cancelled_at"] = now
	}
	res := s.db.WithContext(ctx).Model(&models.Booking{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetBooking(ctx, id)
}

func (s *GormStorage) MarkReminderSent(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Model(&models.Booking{}).Where("id = ?", id).
		Updates(map[string]interface{}{"reminder_sent": true, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Review operations

func (s *GormStorage) ListReviewsBySalon(ctx context.Context, salonID uint, includeHidden bool) ([]models.Review, error) {
	q := s.db.WithContext(ctx).Where("salon_id = ?", salonID)
	if !includeHidden {
		q = q.Where("is_hidden = ?", false)
	}
	return list[models.Review](q)
}

func (s *GormStorage) ListReviewsByUser(ctx context.Context, userID uint) ([]models.Review, error) {
	return list[models.Review](s.db.WithContext(ctx).Where("user_id = ?", userID))
}

func (s *GormStorage) GetReview(ctx context.Context, id uint) (*models.Review, error) {
	return first[models.Review](s.db.WithContext(ctx), "id = ?", id)
}

func (s *GormStorage) CreateReview(ctx context.Context, review *models.Review) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := first[models.Salon](tx, "id = ?", review.SalonID); err != nil {
			return err
		}
		if err := tx.Create(review).Error; err != nil {
			return translate(err)
		}
		if review.BookingID != nil {
			if err := tx.Model(&models.Booking{}).Where("id = ?", *review.BookingID).
				Update("is_rated", true).Error; err != nil {
				return err
			}
		}
		return updateSalonRating(tx, review.SalonID)
	})
}

func updateSalonRating(tx *gorm.DB, salonID uint) error {
	var reviews []models.Review
	if err := tx.Where("salon_id = ?", salonID).Find(&reviews).Error; err != nil {
		return err
	}
	rating, count := averageRating(reviews)
	return tx.Model(&models.Salon{}).Where("id = ?", salonID).
		Updates(map[string]interface{}{"rating": rating, "review_count": count}).Error
}

func (s *GormStorage) RespondToReview(ctx context.Context, id uint, response string) (*models.Review, error) {
	now := time.Now()
	res := s.db.WithContext(ctx).Model(&models.Review{}).Where("id = ?", id).
		Updates(map[string]interface{}{"owner_response": response, "owner_response_at": now, "updated_at": now})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetReview(ctx, id)
}

func (s *GormStorage) SetReviewHidden(ctx context.Context, id uint, hidden bool) (*models.Review, error) {
	var review *models.Review
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := first[models.Review](tx, "id = ?", id)
		if err != nil {
			return err
		}
		if err := tx.Model(r).Updates(map[string]interface{}{"is_hidden": hidden, "updated_at": time.Now()}).Error; err != nil {
			return err
		}
		review = r
		review.IsHidden = hidden
		return updateSalonRating(tx, r.SalonID)
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

// Staff operations

func (s *GormStorage) ListStaffBySalon(ctx context.Context, salonID uint) ([]models.Staff, error) {
	return list[models.Staff](s.db.WithContext(ctx).Where("salon_id = ?", salonID))
}

func (s *GormStorage) GetStaff(ctx context.Context, id uint) (*models.Staff, error) {
	return first[models.Staff](s.db.WithContext(ctx), "id = ?", id)
}

func (s *GormStorage) CreateStaff(ctx context.Context, staff *models.Staff) error {
	return translate(s.db.WithContext(ctx).Create(staff).Error)
}

func (s *GormStorage) UpdateStaff(ctx context.Context, staff *models.Staff) error {
	if _, err := s.GetStaff(ctx, staff.ID); err != nil {
		return err
	}
	return save(s.db.WithContext(ctx), staff)
}

// Promotion operations

func (s *GormStorage) ListPromotions(ctx context.Context, f PromotionFilter) ([]models.Promotion, error) {
	q := s.db.WithContext(ctx)
	if f.IsActive != nil {
		q = q.Where("is_active = ?", *f.IsActive)
	}
	if f.SalonID != nil {
		q = q.Where("salon_id = ?", *f.SalonID)
	}
	return list[models.Promotion](q)
}

func (s *GormStorage) GetPromotion(ctx context.Context, id uint) (*models.Promotion, error) {
	return first[models.Promotion](s.db.WithContext(ctx), "id = ?", id)
}

func (s *GormStorage) GetPromotionByCode(ctx context.Context, code string) (*models.Promotion, error) {
	return first[models.Promotion](s.db.WithContext(ctx), "code = ?", code)
}

func (s *GormStorage) CreatePromotion(ctx context.Context, promotion *models.Promotion) error {
	return translate(s.db.WithContext(ctx).Create(promotion).Error)
}

func (s *GormStorage) UpdatePromotion(ctx context.Context, promotion *models.Promotion) error {
	if _, err := s.GetPromotion(ctx, promotion.ID); err != nil {
		return err
	}
	return save(s.db.WithContext(ctx), promotion)
}

// Membership operations

func (s *GormStorage) ListMembershipTiers(ctx context.Context) ([]models.MembershipTier, error) {
	return list[models.MembershipTier](s.db.WithContext(ctx))
}

func (s *GormStorage) GetMembershipTier(ctx context.Context, id uint) (*models.MembershipTier, error) {
	return first[models.MembershipTier](s.db.WithContext(ctx), "id = ?", id)
}

func (s *GormStorage) TierForPoints(ctx context.Context, points int) (*models.MembershipTier, error) {
	var tier models.MembershipTier
	err := s.db.WithContext(ctx).Where("points_threshold <= ?", points).
		Order("points_threshold DESC").First(&tier).Error
	if err != nil {
		return nil, translate(err)
	}
	return &tier, nil
}

func (s *GormStorage) CreateMembershipTier(ctx context.Context, tier *models.MembershipTier) error {
	return translate(s.db.WithContext(ctx).Create(tier).Error)
}

// Payment operations

func (s *GormStorage) CreatePaymentTransaction(ctx context.Context, txn *models.PaymentTransaction) error {
	return translate(s.db.WithContext(ctx).Create(txn).Error)
}

func (s *GormStorage) ListTransactionsByUser(ctx context.Context, userID uint) ([]models.PaymentTransaction, error) {
	return list[models.PaymentTransaction](s.db.WithContext(ctx).Where("user_id = ?", userID))
}

func (s *GormStorage) ListTransactionsByBooking(ctx context.Context, bookingID uint) ([]models.PaymentTransaction, error) {
	return list[models.PaymentTransaction](s.db.WithContext(ctx).Where("booking_id = ?", bookingID))
}

func (s *GormStorage) GetTransactionByGatewayID(ctx context.Context, gatewayID string) (*models.PaymentTransaction, error) {
	return first[models.PaymentTransaction](s.db.WithContext(ctx), "gateway_id = ?", gatewayID)
}

func (s *GormStorage) RecordPaidBooking(ctx context.Context, booking *models.Booking, txn *models.PaymentTransaction, points int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.PaymentTransaction{}).Where("gateway_id = ?", txn.GatewayID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrDuplicate
		}
		defaultBooking(booking)
		if err := tx.Create(booking).Error; err != nil {
			return translate(err)
		}
		txn.BookingID = booking.ID
		if err := tx.Create(txn).Error; err != nil {
			return translate(err)
		}
		return addPoints(tx, booking.UserID, points)
	})
}
