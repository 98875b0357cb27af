package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"salonbook-backend/models"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	EventBookingCreated       = "booking.created"
	EventBookingStatusChanged = "booking.status_changed"
	EventBookingPaid          = "booking.paid"
)

type BookingEvent struct {
	Type          string    `json:"type"`
	BookingID     uint      `json:"bookingId"`
	UserID        uint      `json:"userId"`
	SalonID       uint      `json:"salonId"`
	ServiceID     uint      `json:"serviceId"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`
	TotalPrice    float64   `json:"totalPrice"`
	OccurredAt    time.Time `json:"occurredAt"`
}

func newBookingEvent(eventType string, b *models.Booking) BookingEvent {
	return BookingEvent{
		Type:          eventType,
		BookingID:     b.ID,
		UserID:        b.UserID,
		SalonID:       b.SalonID,
		ServiceID:     b.ServiceID,
		Status:        b.Status,
		PaymentStatus: b.PaymentStatus,
		TotalPrice:    b.TotalPrice,
		OccurredAt:    time.Now().UTC(),
	}
}

type EventPublisher interface {
	Publish(ctx context.Context, event BookingEvent) error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, BookingEvent) error { return nil }

// publishTimeout bounds one publish, dial included.
const publishTimeout = 2 * time.Second

// AMQPPublisher sends events to a durable RabbitMQ queue, opening a new
// connection for every publish.
type AMQPPublisher struct {
	url     string
	queue   string
	timeout time.Duration
}

func NewAMQPPublisher(url, queue string) *AMQPPublisher {
	return &AMQPPublisher{url: url, queue: queue, timeout: publishTimeout}
}

func (p *AMQPPublisher) Publish(ctx context.Context, event BookingEvent) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(p.timeout),
	})
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt,
		Type:         event.Type,
		Body:         body,
	})
}

// publishEvent never fails the caller; a lost event is only logged.
func publishEvent(ctx context.Context, pub EventPublisher, log *zap.Logger, eventType string, b *models.Booking) {
	event := newBookingEvent(eventType, b)
	if err := pub.Publish(ctx, event); err != nil {
		log.Warn("publish booking event failed",
			zap.String("type", eventType),
			zap.Uint("booking_id", b.ID),
			zap.Error(err))
	}
}

// EventConsumer reads booking events from the queue and hands them to Handle.
type EventConsumer struct {
	URL    string
	Queue  string
	Handle func(BookingEvent) error
	Log    *zap.Logger
}

// Run consumes until ctx is cancelled, reconnecting with exponential backoff.
func (c *EventConsumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			c.Log.Warn("event consumer dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleepCtx(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.Log.Warn("event consumer stopped, reconnecting", zap.Error(err))
		if !sleepCtx(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *EventConsumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.Log.Warn("set QoS failed", zap.Error(err))
	}
	if _, err := ch.QueueDeclare(c.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(c.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.handle(d.Body); err != nil {
				c.Log.Error("handle booking event failed", zap.Error(err))
				// reject without requeue so a bad message cannot loop
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *EventConsumer) handle(body []byte) error {
	var event BookingEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	return c.Handle(event)
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
