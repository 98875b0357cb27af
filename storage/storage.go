// Package storage holds the repository used by every handler and service.
// MemStorage keeps everything in process memory; GormStorage persists to
// Postgres. Both satisfy Storage and behave the same for callers.
package storage

import (
	"context"
	"errors"
	"math"
	"time"

	"salonbook-backend/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// SalonFilter narrows ListSalons. Zero values mean "no filter"; the boolean
// privacy flags only filter when true.
type SalonFilter struct {
	Gender              string
	City                string
	HasPrivateRooms     bool
	HasFemaleStaffOnly  bool
	ProvidesHomeService bool
	Category            string
}

type ServiceFilter struct {
	Category    string
	IsAvailable *bool
}

// BookingFilter is used by the background jobs. Date bounds are half open: [DateFrom, DateTo).
type BookingFilter struct {
	Status        string
	DateFrom      time.Time
	DateTo        time.Time
	CreatedBefore time.Time
	ReminderSent  *bool
}

type PromotionFilter struct {
	SalonID  *uint
	IsActive *bool
}

type Storage interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	// UpdateUser writes profile fields only. Loyalty points, membership and
	// last login keep their stored values and are refreshed on user.
	UpdateUser(ctx context.Context, user *models.User) error
	TouchLastLogin(ctx context.Context, userID uint, at time.Time) error
	SetMembership(ctx context.Context, userID uint, membership string) error
	AddLoyaltyPoints(ctx context.Context, userID uint, points int) (*models.User, error)

	ListSalons(ctx context.Context, filter SalonFilter) ([]models.Salon, error)
	GetSalon(ctx context.Context, id uint) (*models.Salon, error)
	ListSalonsByOwner(ctx context.Context, ownerID uint) ([]models.Salon, error)
	CreateSalon(ctx context.Context, salon *models.Salon) error
	UpdateSalon(ctx context.Context, salon *models.Salon) error

	ListServices(ctx context.Context, salonID uint, filter ServiceFilter) ([]models.Service, error)
	ListAllServices(ctx context.Context) ([]models.Service, error)
	GetService(ctx context.Context, id uint) (*models.Service, error)
	ListFeaturedServices(ctx context.Context, salonID uint) ([]models.Service, error)
	ListPromotedServices(ctx context.Context) ([]models.Service, error)
	CreateService(ctx context.Context, service *models.Service) error
	UpdateService(ctx context.Context, service *models.Service) error

	ListBookingsByUser(ctx context.Context, userID uint) ([]models.Booking, error)
	ListBookingsBySalon(ctx context.Context, salonID uint) ([]models.Booking, error)
	ListBookingsByService(ctx context.Context, serviceID uint) ([]models.Booking, error)
	ListBookings(ctx context.Context, filter BookingFilter) ([]models.Booking, error)
	GetBooking(ctx context.Context, id uint) (*models.Booking, error)
	CreateBooking(ctx context.Context, booking *models.Booking) error
	UpdateBookingStatus(ctx context.Context, id uint, status string) (*models.Booking, error)
	MarkReminderSent(ctx context.Context, id uint) error

	ListReviewsBySalon(ctx context.Context, salonID uint, includeHidden bool) ([]models.Review, error)
	ListReviewsByUser(ctx context.Context, userID uint) ([]models.Review, error)
	GetReview(ctx context.Context, id uint) (*models.Review, error)
	CreateReview(ctx context.Context, review *models.Review) error
	RespondToReview(ctx context.Context, id uint, response string) (*models.Review, error)
	SetReviewHidden(ctx context.Context, id uint, hidden bool) (*models.Review, error)

	ListStaffBySalon(ctx context.Context, salonID uint) ([]models.Staff, error)
	GetStaff(ctx context.Context, id uint) (*models.Staff, error)
	CreateStaff(ctx context.Context, staff *models.Staff) error
	UpdateStaff(ctx context.Context, staff *models.Staff) error

	ListPromotions(ctx context.Context, filter PromotionFilter) ([]models.Promotion, error)
	GetPromotion(ctx context.Context, id uint) (*models.Promotion, error)
	GetPromotionByCode(ctx context.Context, code string) (*models.Promotion, error)
	CreatePromotion(ctx context.Context, promotion *models.Promotion) error
	UpdatePromotion(ctx context.Context, promotion *models.Promotion) error

	ListMembershipTiers(ctx context.Context) ([]models.MembershipTier, error)
	GetMembershipTier(ctx context.Context, id uint) (*models.MembershipTier, error)
	TierForPoints(ctx context.Context, points int) (*models.MembershipTier, error)
	CreateMembershipTier(ctx context.Context, tier *models.MembershipTier) error

	CreatePaymentTransaction(ctx context.Context, txn *models.PaymentTransaction) error
	ListTransactionsByUser(ctx context.Context, userID uint) ([]models.PaymentTransaction, error)
	ListTransactionsByBooking(ctx context.Context, bookingID uint) ([]models.PaymentTransaction, error)
	GetTransactionByGatewayID(ctx context.Context, gatewayID string) (*models.PaymentTransaction, error)

	// RecordPaidBooking stores a paid booking, its transaction and the loyalty
	// points earned as one unit. txn.GatewayID is the idempotency key: a second
	// call with the same id returns ErrDuplicate and writes nothing.
	RecordPaidBooking(ctx context.Context, booking *models.Booking, txn *models.PaymentTransaction, points int) error
}

// averageRating returns the mean of the visible ratings rounded to one decimal
// place together with the number of ratings counted.
func averageRating(reviews []models.Review) (float64, int) {
	var sum float64
	count := 0
	for _, r := range reviews {
		if r.IsHidden {
			continue
		}
		sum += r.Rating
		count++
	}
	if count == 0 {
		return 0, 0
	}
	return math.Round(sum/float64(count)*10) / 10, count
}
