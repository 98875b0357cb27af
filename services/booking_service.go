package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salonbook-backend/models"
	"salonbook-backend/storage"

	"go.uber.org/zap"
)

type BookingService struct {
	store  storage.Storage
	events EventPublisher
	log    *zap.Logger
	now    func() time.Time
}

func NewBookingService(store storage.Storage, events EventPublisher, log *zap.Logger) *BookingService {
	if events == nil {
		events = NopPublisher{}
	}
	return &BookingService{store: store, events: events, log: log, now: time.Now}
}

// BookingInput is the client supplied part of a booking. Salon and service
// are expected to belong together but this is not checked.
type BookingInput struct {
	SalonID       uint
	ServiceID     uint
	StaffID       *uint
	Date          time.Time
	Time          string
	TotalPrice    float64
	PaymentMethod string
	Notes         string
}

func (in BookingInput) booking(userID uint) *models.Booking {
	return &models.Booking{
		UserID:        userID,
		SalonID:       in.SalonID,
		ServiceID:     in.ServiceID,
		StaffID:       in.StaffID,
		Date:          in.Date,
		Time:          in.Time,
		TotalPrice:    in.TotalPrice,
		PaymentMethod: in.PaymentMethod,
		Notes:         in.Notes,
	}
}

// Create stores a new pending, unpaid booking.
func (s *BookingService) Create(ctx context.Context, userID uint, in BookingInput) (*models.Booking, error) {
	b := in.booking(userID)
	b.Status = models.BookingPending
	b.PaymentStatus = models.PaymentPending
	if err := s.store.CreateBooking(ctx, b); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	publishEvent(ctx, s.events, s.log, EventBookingCreated, b)
	return b, nil
}

func (s *BookingService) Get(ctx context.Context, actor *models.User, id uint) (*models.Booking, error) {
	b, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, b); err != nil {
		return nil, err
	}
	return b, nil
}

// UpdateStatus moves a booking to any of the four statuses. The value is
// checked before the booking is loaded so an invalid request never writes.
func (s *BookingService) UpdateStatus(ctx context.Context, actor *models.User, id uint, status string) (*models.Booking, error) {
	if !models.ValidBookingStatus(status) {
		return nil, ErrInvalidStatus
	}
	b, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, b); err != nil {
		return nil, err
	}
	updated, err := s.store.UpdateBookingStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	publishEvent(ctx, s.events, s.log, EventBookingStatusChanged, updated)
	return updated, nil
}

func (s *BookingService) Cancel(ctx context.Context, actor *models.User, id uint) (*models.Booking, error) {
	return s.UpdateStatus(ctx, actor, id, models.BookingCancelled)
}

func (s *BookingService) ListMine(ctx context.Context, userID uint) ([]models.Booking, error) {
	return s.store.ListBookingsByUser(ctx, userID)
}

// ListForOwner returns the bookings of every salon the owner runs.
func (s *BookingService) ListForOwner(ctx context.Context, ownerID uint) ([]models.Booking, error) {
	salons, err := s.store.ListSalonsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]models.Booking, 0)
	for _, salon := range salons {
		bookings, err := s.store.ListBookingsBySalon(ctx, salon.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, bookings...)
	}
	return out, nil
}

// ExpireStalePending cancels pending bookings created more than ttl ago and
// returns how many were cancelled.
func (s *BookingService) ExpireStalePending(ctx context.Context, ttl time.Duration) (int, error) {
	if ttl <= 0 {
		return 0, nil
	}
	stale, err := s.store.ListBookings(ctx, storage.BookingFilter{
		Status:        models.BookingPending,
		CreatedBefore: s.now().Add(-ttl),
	})
	if err != nil {
		return 0, err
	}
	expired := 0
	for _, b := range stale {
		updated, err := s.store.UpdateBookingStatus(ctx, b.ID, models.BookingCancelled)
		if err != nil {
			s.log.Error("expire pending booking failed", zap.Uint("booking_id", b.ID), zap.Error(err))
			continue
		}
		expired++
		publishEvent(ctx, s.events, s.log, EventBookingStatusChanged, updated)
	}
	return expired, nil
}

// authorize allows the customer who booked, the owner of the salon and admins.
func (s *BookingService) authorize(ctx context.Context, actor *models.User, b *models.Booking) error {
	if actor.Role == models.RoleAdmin || actor.ID == b.UserID {
		return nil
	}
	if actor.Role != models.RoleSalonOwner {
		return ErrForbidden
	}
	salon, err := s.store.GetSalon(ctx, b.SalonID)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrForbidden
	}
	if err != nil {
		return err
	}
	if salon.OwnerID != actor.ID {
		return ErrForbidden
	}
	return nil
}
