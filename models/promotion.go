package models

import "time"

type Promotion struct {
	ID      uint  `gorm:"primaryKey" json:"id"`
	SalonID *uint `gorm:"index" json:"salonId,omitempty"`

	Code            string  `gorm:"uniqueIndex;not null" json:"code"`
	Title           string  `gorm:"not null" json:"title"`
	TitleEn         string  `json:"titleEn,omitempty"`
	DiscountPercent float64 `gorm:"not null" json:"discountPercent"`

	StartsAt time.Time `json:"startsAt"`
	EndsAt   time.Time `json:"endsAt"`
	IsActive bool      `json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type MembershipTier struct {
	ID              uint    `gorm:"primaryKey" json:"id" yaml:"-"`
	Name            string  `gorm:"not null" json:"name" yaml:"name"`
	NameEn          string  `json:"nameEn,omitempty" yaml:"nameEn"`
	PointsThreshold int     `gorm:"not null" json:"pointsThreshold" yaml:"pointsThreshold"`
	DiscountPercent float64 `json:"discountPercent" yaml:"discountPercent"`
	Benefits        string  `json:"benefits,omitempty" yaml:"benefits"`

	CreatedAt time.Time `json:"createdAt" yaml:"-"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"-"`
}
