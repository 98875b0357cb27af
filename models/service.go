package models

import "time"

type Service struct {
	ID      uint `gorm:"primaryKey" json:"id" yaml:"-"`
	SalonID uint `gorm:"index;not null" json:"salonId" yaml:"salonId"`

	Name          string `gorm:"not null" json:"name" yaml:"name"`
	NameEn        string `json:"nameEn,omitempty" yaml:"nameEn"`
	Description   string `json:"description,omitempty" yaml:"description"`
	DescriptionEn string `json:"descriptionEn,omitempty" yaml:"descriptionEn"`

	Price           float64  `gorm:"type:decimal(10,2);not null" json:"price" yaml:"price"`
	DiscountedPrice *float64 `gorm:"type:decimal(10,2)" json:"discountedPrice,omitempty" yaml:"discountedPrice"`
	Category        string   `gorm:"index;not null" json:"category" yaml:"category"`
	Duration        int      `gorm:"not null" json:"duration" yaml:"duration"` // in minutes
	Image           string   `json:"image,omitempty" yaml:"image"`

	Featured    bool `gorm:"default:false" json:"featured" yaml:"featured"`
	IsPromoted  bool `gorm:"default:false" json:"isPromoted" yaml:"isPromoted"`
	IsAvailable bool `json:"isAvailable" yaml:"isAvailable"`

	CreatedAt time.Time `json:"createdAt" yaml:"-"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"-"`
}

// DisplayName prefers the English name, as the recommendation prompts do.
func (s *Service) DisplayName() string {
	if s.NameEn != "" {
		return s.NameEn
	}
	return s.Name
}

// EffectivePrice is the discounted price when one is set.
func (s *Service) EffectivePrice() float64 {
	if s.DiscountedPrice != nil {
		return *s.DiscountedPrice
	}
	return s.Price
}
