package models

import "time"

type Review struct {
	ID        uint  `gorm:"primaryKey" json:"id"`
	UserID    uint  `gorm:"index;not null" json:"userId"`
	SalonID   uint  `gorm:"index;not null" json:"salonId"`
	ServiceID *uint `json:"serviceId,omitempty"`
	BookingID *uint `json:"bookingId,omitempty"`

	Rating  float64 `gorm:"not null" json:"rating"`
	Comment string  `json:"comment,omitempty"`

	OwnerResponse   string     `json:"ownerResponse,omitempty"`
	OwnerResponseAt *time.Time `json:"ownerResponseAt,omitempty"`
	IsHidden        bool       `gorm:"default:false" json:"isHidden"`

	CreatedAt time.Time `json:"date"`
	UpdatedAt time.Time `json:"updatedAt"`
}
