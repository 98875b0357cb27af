package models

import "time"

const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"

	PaymentPending = "pending"
	PaymentPaid    = "paid"
)

const (
	PaymentMethodCard     = "card"
	PaymentMethodMada     = "mada"
	PaymentMethodApplePay = "applepay"
	PaymentMethodCash     = "cash"
)

var BookingStatuses = []string{BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled}

func ValidBookingStatus(status string) bool {
	for _, s := range BookingStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Booking struct {
	ID        uint  `gorm:"primaryKey" json:"id"`
	UserID    uint  `gorm:"index;not null" json:"userId"`
	SalonID   uint  `gorm:"index;not null" json:"salonId"`
	ServiceID uint  `gorm:"index;not null" json:"serviceId"`
	StaffID   *uint `json:"staffId,omitempty"`

	Status string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Date   time.Time `gorm:"index;not null" json:"date"`
	Time   string    `gorm:"type:varchar(10);not null" json:"time"`

	TotalPrice    float64 `gorm:"type:decimal(10,2);not null" json:"totalPrice"`
	PaymentMethod string  `gorm:"type:varchar(20)" json:"paymentMethod"`
	PaymentStatus string  `gorm:"type:varchar(20);default:'pending'" json:"paymentStatus"`
	Notes         string  `json:"notes,omitempty"`

	ReminderSent bool       `gorm:"default:false" json:"reminderSent"`
	IsRated      bool       `gorm:"default:false" json:"isRated"`
	CancelledAt  *time.Time `json:"cancelledAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
