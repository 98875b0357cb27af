package main

import (
	"context"
	"errors"
	"fmt"

	"salonbook-backend/config"
	"salonbook-backend/routes"
	"salonbook-backend/services"
	"salonbook-backend/storage"
	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// app holds everything built from the configuration at startup.
type app struct {
	cfg       *config.Config
	log       *zap.Logger
	store     storage.Storage
	redis     *redis.Client
	bookings  *services.BookingService
	payments  *services.PaymentService
	recs      *services.RecommendationService
	reminders *services.ReminderService
	closers   []func()
}

func newApp(ctx context.Context) (*app, error) {
	cfg, envLoaded := config.Load()
	log, err := config.NewLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	if !envLoaded {
		log.Info("no .env file found, using process environment")
	}
	if cfg.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET must be set outside development")
	}
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := utils.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}

	a := &app{cfg: cfg, log: log}
	a.closers = append(a.closers, func() { _ = log.Sync() })

	if err := a.openStorage(ctx); err != nil {
		a.close()
		return nil, err
	}

	a.redis = config.NewRedisClient(cfg)
	if a.redis != nil {
		a.closers = append(a.closers, func() { _ = a.redis.Close() })
		log.Info("rate limiting enabled", zap.String("redis", cfg.Redis.Addr))
	} else {
		log.Info("redis not available, rate limiting disabled")
	}

	var events services.EventPublisher = services.NopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		events = services.NewAMQPPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue)
		log.Info("publishing booking events", zap.String("queue", cfg.RabbitMQ.Queue))
	}

	a.bookings = services.NewBookingService(a.store, events, log)

	var gateway services.Gateway
	if cfg.Payment.StripeSecretKey != "" {
		gateway = services.NewStripeGateway(cfg.Payment.StripeSecretKey)
	} else {
		log.Warn("STRIPE_SECRET_KEY not set, card payments disabled")
	}
	a.payments = services.NewPaymentService(gateway, a.store, events, log, cfg.Payment.Currency)

	var generator services.TextGenerator
	if cfg.AI.APIKey != "" {
		g, err := services.NewGenAIGenerator(ctx, cfg.AI.APIKey, cfg.AI.Model, cfg.AI.Timeout)
		if err != nil {
			log.Warn("AI client unavailable, using fallback recommendations", zap.Error(err))
		} else {
			generator = g
		}
	}
	a.recs = services.NewRecommendationService(a.store, generator, log)

	var sender services.SMSSender = services.LogSender{Log: log}
	if cfg.Twilio.AccountSID != "" && cfg.Twilio.AuthToken != "" {
		sender = services.NewTwilioSender(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.PhoneNumber)
	}
	a.reminders = services.NewReminderService(a.store, sender, a.bookings, log, services.ReminderOptions{
		Schedule:       cfg.Reminders.Schedule,
		PendingTTL:     cfg.Reminders.PendingTTL,
		ExpirySchedule: cfg.Reminders.ExpirySchedule,
	})

	return a, nil
}

// openStorage uses Postgres when DB_URL is set and memory otherwise.
func (a *app) openStorage(ctx context.Context) error {
	if a.cfg.Database.URL == "" {
		a.store = storage.NewMemStorage()
		a.log.Info("using in-memory storage")
	} else {
		db, err := config.OpenDatabase(a.cfg)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			a.closers = append(a.closers, func() { _ = sqlDB.Close() })
		}
		store, err := storage.NewGormStorage(db)
		if err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		a.store = store
		a.log.Info("connected to database")
	}

	if a.cfg.Database.Seed {
		if err := storage.Seed(ctx, a.store, utils.HashPassword); err != nil {
			return fmt.Errorf("seed data: %w", err)
		}
	}
	return nil
}

func (a *app) deps() routes.Dependencies {
	return routes.Dependencies{
		Config:   a.cfg,
		Log:      a.log,
		Store:    a.store,
		Redis:    a.redis,
		Bookings: a.bookings,
		Payments: a.payments,
		Recs:     a.recs,
	}
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
