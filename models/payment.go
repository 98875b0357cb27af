package models

import "time"

type PaymentTransaction struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	UserID    uint `gorm:"index;not null" json:"userId"`
	BookingID uint `gorm:"index;not null" json:"bookingId"`

	Amount        float64 `gorm:"type:decimal(10,2);not null" json:"amount"`
	Currency      string  `gorm:"type:varchar(3);not null" json:"currency"`
	GatewayID     string  `gorm:"uniqueIndex;not null" json:"gatewayId"`
	Status        string  `gorm:"type:varchar(20);not null" json:"status"`
	PaymentMethod string  `gorm:"type:varchar(20)" json:"paymentMethod"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
