package storage

import (
	"context"
	"testing"

	"salonbook-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newGormTestStorage(t *testing.T) *GormStorage {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	s, err := NewGormStorage(db)
	require.NoError(t, err)
	require.NoError(t, Seed(context.Background(), s, plainHash))
	return s
}

func TestGormListSalonsFilters(t *testing.T) {
	ctx := context.Background()
	s := newGormTestStorage(t)

	got, err := s.ListSalons(ctx, SalonFilter{Gender: models.GenderFemaleOnly})
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = s.ListSalons(ctx, SalonFilter{City: "RIYADH"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = s.ListSalons(ctx, SalonFilter{Category: "spa", HasPrivateRooms: true})
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, salon := range got {
		assert.True(t, salon.HasCategory("spa"))
		assert.True(t, salon.HasPrivateRooms)
	}

	got, err = s.ListSalons(ctx, SalonFilter{Category: "sp"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGormReviewRating(t *testing.T) {
	ctx := context.Background()
	s := newGormTestStorage(t)

	b := &models.Booking{UserID: 4, SalonID: 2, ServiceID: 6, Time: "10:00", TotalPrice: 200}
	require.NoError(t, s.CreateBooking(ctx, b))

	require.NoError(t, s.CreateReview(ctx, &models.Review{UserID: 4, SalonID: 2, BookingID: &b.ID, Rating: 5}))
	require.NoError(t, s.CreateReview(ctx, &models.Review{UserID: 5, SalonID: 2, Rating: 2}))

	salon, err := s.GetSalon(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 3.5, salon.Rating)
	assert.Equal(t, 2, salon.ReviewCount)

	booking, err := s.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, booking.IsRated)

	_, err = s.SetReviewHidden(ctx, 2, true)
	require.NoError(t, err)
	salon, err = s.GetSalon(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 5.0, salon.Rating)

	assert.ErrorIs(t, s.CreateReview(ctx, &models.Review{UserID: 4, SalonID: 42, Rating: 3}), ErrNotFound)
}

func TestGormRecordPaidBooking(t *testing.T) {
	ctx := context.Background()
	s := newGormTestStorage(t)

	newPair := func() (*models.Booking, *models.PaymentTransaction) {
		return &models.Booking{UserID: 4, SalonID: 1, ServiceID: 1, Time: "10:00", TotalPrice: 150,
				Status: models.BookingConfirmed, PaymentStatus: models.PaymentPaid},
			&models.PaymentTransaction{UserID: 4, Amount: 150, Currency: "sar", GatewayID: "pi_abc", Status: "succeeded"}
	}

	b, txn := newPair()
	require.NoError(t, s.RecordPaidBooking(ctx, b, txn, 10))
	assert.Equal(t, b.ID, txn.BookingID)

	b2, txn2 := newPair()
	assert.ErrorIs(t, s.RecordPaidBooking(ctx, b2, txn2, 10), ErrDuplicate)

	bookings, err := s.ListBookingsByUser(ctx, 4)
	require.NoError(t, err)
	assert.Len(t, bookings, 1)

	user, err := s.GetUser(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, 10, user.LoyaltyPoints)

	found, err := s.GetTransactionByGatewayID(ctx, "pi_abc")
	require.NoError(t, err)
	assert.Equal(t, b.ID, found.BookingID)
}

func TestGormUniqueAndMissing(t *testing.T) {
	ctx := context.Background()
	s := newGormTestStorage(t)

	err := s.CreateUser(ctx, &models.User{Username: "customer", Name: "x", Email: "other@example.com", PhoneNumber: "1"})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = s.GetSalon(ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.UpdateBookingStatus(ctx, 404, models.BookingConfirmed)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.UpdateService(ctx, &models.Service{ID: 404}), ErrNotFound)

	tier, err := s.TierForPoints(ctx, 150)
	require.NoError(t, err)
	assert.Equal(t, "Gold", tier.NameEn)
}
