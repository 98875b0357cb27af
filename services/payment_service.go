package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"salonbook-backend/models"
	"salonbook-backend/storage"

	"go.uber.org/zap"
)

// LoyaltyPointsPerBooking is credited for every paid booking.
const LoyaltyPointsPerBooking = 10

const IntentSucceeded = "succeeded"

// Intent is the gateway's view of a charge. Amount is in minor units.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	Amount       int64
	Currency     string
	Metadata     map[string]string
}

type IntentRequest struct {
	Amount   int64
	Currency string
	Metadata map[string]string
}

// Gateway is the external payment provider.
type Gateway interface {
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
	GetIntent(ctx context.Context, id string) (*Intent, error)
}

type PaymentService struct {
	gateway  Gateway
	store    storage.Storage
	events   EventPublisher
	log      *zap.Logger
	currency string
}

// NewPaymentService accepts a nil gateway; every payment call then fails
// with ErrPaymentsDisabled.
func NewPaymentService(gateway Gateway, store storage.Storage, events EventPublisher, log *zap.Logger, currency string) *PaymentService {
	if events == nil {
		events = NopPublisher{}
	}
	return &PaymentService{gateway: gateway, store: store, events: events, log: log, currency: currency}
}

type IntentResult struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
}

// CreateIntent asks the gateway for an intent of amount (major units, e.g.
// riyals) tagged with the booking context.
func (s *PaymentService) CreateIntent(ctx context.Context, user *models.User, amount float64, details BookingInput) (*IntentResult, error) {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, ErrInvalidAmount
	}
	if s.gateway == nil {
		return nil, ErrPaymentsDisabled
	}

	intent, err := s.gateway.CreateIntent(ctx, IntentRequest{
		Amount:   toMinorUnits(amount),
		Currency: s.currency,
		Metadata: map[string]string{
			"userId":    strconv.FormatUint(uint64(user.ID), 10),
			"serviceId": strconv.FormatUint(uint64(details.ServiceID), 10),
			"salonId":   strconv.FormatUint(uint64(details.SalonID), 10),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	return &IntentResult{ClientSecret: intent.ClientSecret, PaymentIntentID: intent.ID}, nil
}

// ConfirmBooking re-reads the intent from the gateway and, when it has
// succeeded, records a confirmed paid booking with its transaction and
// loyalty points. Nothing is written for an intent in any other state, and
// an intent can be turned into a booking only once.
func (s *PaymentService) ConfirmBooking(ctx context.Context, user *models.User, intentID string, details BookingInput) (*models.Booking, *models.PaymentTransaction, error) {
	if s.gateway == nil {
		return nil, nil, ErrPaymentsDisabled
	}
	if _, err := s.store.GetTransactionByGatewayID(ctx, intentID); err == nil {
		return nil, nil, ErrAlreadyProcessed
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, nil, err
	}

	intent, err := s.gateway.GetIntent(ctx, intentID)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve payment intent: %w", err)
	}
	if intent.Status != IntentSucceeded {
		return nil, nil, ErrPaymentNotSucceeded
	}
	if owner := intent.Metadata["userId"]; owner != "" && owner != strconv.FormatUint(uint64(user.ID), 10) {
		return nil, nil, ErrForbidden
	}
	if details.ServiceID == 0 {
		details.ServiceID = metadataID(intent.Metadata, "serviceId")
	}
	if details.SalonID == 0 {
		details.SalonID = metadataID(intent.Metadata, "salonId")
	}

	amount := float64(intent.Amount) / 100
	booking := details.booking(user.ID)
	booking.Status = models.BookingConfirmed
	booking.PaymentStatus = models.PaymentPaid
	booking.TotalPrice = amount

	txn := &models.PaymentTransaction{
		UserID:        user.ID,
		Amount:        amount,
		Currency:      intent.Currency,
		GatewayID:     intent.ID,
		Status:        intent.Status,
		PaymentMethod: booking.PaymentMethod,
	}

	if err := s.store.RecordPaidBooking(ctx, booking, txn, LoyaltyPointsPerBooking); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, nil, ErrAlreadyProcessed
		}
		return nil, nil, fmt.Errorf("record paid booking: %w", err)
	}

	s.refreshMembership(ctx, user.ID)
	publishEvent(ctx, s.events, s.log, EventBookingPaid, booking)
	return booking, txn, nil
}

func (s *PaymentService) Transactions(ctx context.Context, userID uint) ([]models.PaymentTransaction, error) {
	return s.store.ListTransactionsByUser(ctx, userID)
}

// refreshMembership moves the user to the tier their points now reach.
func (s *PaymentService) refreshMembership(ctx context.Context, userID uint) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		s.log.Warn("reload user after payment", zap.Uint("user_id", userID), zap.Error(err))
		return
	}
	tier, err := s.store.TierForPoints(ctx, user.LoyaltyPoints)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Warn("lookup membership tier", zap.Uint("user_id", userID), zap.Error(err))
		}
		return
	}
	if user.MembershipType == tier.NameEn {
		return
	}
	if err := s.store.SetMembership(ctx, userID, tier.NameEn); err != nil {
		s.log.Warn("update membership", zap.Uint("user_id", userID), zap.Error(err))
	}
}

func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func metadataID(md map[string]string, key string) uint {
	v, err := strconv.ParseUint(md[key], 10, 64)
	if err != nil {
		return 0
	}
	return uint(v)
}
