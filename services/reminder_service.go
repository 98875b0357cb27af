// services/reminder_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salonbook-backend/models"
	"salonbook-backend/storage"
	"salonbook-backend/utils"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// SMSSender delivers a text message to a phone number.
type SMSSender interface {
	Send(ctx context.Context, to, body string) error
}

type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSender(accountSid, authToken, from string) *TwilioSender {
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		from: from,
	}
}

func (t *TwilioSender) Send(_ context.Context, to, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.from)
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return err
	}
	if resp.ErrorMessage != nil && *resp.ErrorMessage != "" {
		return errors.New(*resp.ErrorMessage)
	}
	return nil
}

// LogSender writes messages to the log instead of sending them. Used when
// Twilio is not configured.
type LogSender struct {
	Log *zap.Logger
}

func (s LogSender) Send(_ context.Context, to, body string) error {
	s.Log.Info("sms (not sent)", zap.String("to", to), zap.String("body", body))
	return nil
}

type ReminderOptions struct {
	Schedule       string
	PendingTTL     time.Duration
	ExpirySchedule string
}

// ReminderService runs the background jobs: appointment reminders for
// tomorrow's confirmed bookings and, when enabled, expiry of stale pending
// bookings.
type ReminderService struct {
	store    storage.Storage
	sender   SMSSender
	bookings *BookingService
	log      *zap.Logger
	opts     ReminderOptions
	cron     *cron.Cron
	now      func() time.Time
}

func NewReminderService(store storage.Storage, sender SMSSender, bookings *BookingService, log *zap.Logger, opts ReminderOptions) *ReminderService {
	return &ReminderService{
		store:    store,
		sender:   sender,
		bookings: bookings,
		log:      log,
		opts:     opts,
		cron:     cron.New(),
		now:      time.Now,
	}
}

func (s *ReminderService) Start() error {
	if _, err := s.cron.AddFunc(s.opts.Schedule, func() {
		if _, err := s.SendDailyReminders(context.Background()); err != nil {
			s.log.Error("daily reminders failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("reminder schedule %q: %w", s.opts.Schedule, err)
	}

	if s.opts.PendingTTL > 0 {
		if _, err := s.cron.AddFunc(s.opts.ExpirySchedule, func() {
			n, err := s.bookings.ExpireStalePending(context.Background(), s.opts.PendingTTL)
			if err != nil {
				s.log.Error("expire pending bookings failed", zap.Error(err))
				return
			}
			if n > 0 {
				s.log.Info("expired stale pending bookings", zap.Int("count", n))
			}
		}); err != nil {
			return fmt.Errorf("expiry schedule %q: %w", s.opts.ExpirySchedule, err)
		}
	}

	s.cron.Start()
	s.log.Info("reminder scheduler started",
		zap.String("schedule", s.opts.Schedule),
		zap.Duration("pending_ttl", s.opts.PendingTTL))
	return nil
}

// Stop waits for running jobs to finish or ctx to expire.
func (s *ReminderService) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SendDailyReminders texts every customer with a confirmed booking tomorrow
// who has not been reminded yet. A failed booking is logged and skipped.
func (s *ReminderService) SendDailyReminders(ctx context.Context) (int, error) {
	from, to := utils.Tomorrow(s.now().UTC())
	notSent := false
	bookings, err := s.store.ListBookings(ctx, storage.BookingFilter{
		Status:       models.BookingConfirmed,
		DateFrom:     from,
		DateTo:       to,
		ReminderSent: &notSent,
	})
	if err != nil {
		return 0, fmt.Errorf("list bookings for reminders: %w", err)
	}

	sent := 0
	for i := range bookings {
		if err := s.remind(ctx, &bookings[i]); err != nil {
			s.log.Warn("send reminder failed", zap.Uint("booking_id", bookings[i].ID), zap.Error(err))
			continue
		}
		sent++
	}
	s.log.Info("daily reminders processed", zap.Int("candidates", len(bookings)), zap.Int("sent", sent))
	return sent, nil
}

func (s *ReminderService) remind(ctx context.Context, b *models.Booking) error {
	user, err := s.store.GetUser(ctx, b.UserID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if user.PhoneNumber == "" || !utils.ValidatePhone(user.PhoneNumber) {
		return fmt.Errorf("user %d has no valid phone number", user.ID)
	}
	salon, err := s.store.GetSalon(ctx, b.SalonID)
	if err != nil {
		return fmt.Errorf("load salon: %w", err)
	}
	service, err := s.store.GetService(ctx, b.ServiceID)
	if err != nil {
		return fmt.Errorf("load service: %w", err)
	}

	if err := s.sender.Send(ctx, user.PhoneNumber, reminderText(user, salon, service, b)); err != nil {
		return err
	}
	return s.store.MarkReminderSent(ctx, b.ID)
}

func reminderText(user *models.User, salon *models.Salon, service *models.Service, b *models.Booking) string {
	if user.PrefersArabic() {
		return fmt.Sprintf("تذكير: لديك موعد في %s غداً الساعة %s لخدمة %s.", salon.Name, b.Time, service.Name)
	}
	salonName := salon.NameEn
	if salonName == "" {
		salonName = salon.Name
	}
	return fmt.Sprintf("Reminder: you have an appointment at %s tomorrow at %s for %s.", salonName, b.Time, service.DisplayName())
}
