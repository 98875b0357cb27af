package models

import "time"

type Staff struct {
	ID      uint `gorm:"primaryKey" json:"id" yaml:"-"`
	SalonID uint `gorm:"index;not null" json:"salonId" yaml:"salonId"`

	Name           string `gorm:"not null" json:"name" yaml:"name"`
	NameEn         string `json:"nameEn,omitempty" yaml:"nameEn"`
	Specialization string `json:"specialization,omitempty" yaml:"specialization"`
	Bio            string `json:"bio,omitempty" yaml:"bio"`
	BioEn          string `json:"bioEn,omitempty" yaml:"bioEn"`
	Gender         string `gorm:"type:varchar(10)" json:"gender,omitempty" yaml:"gender"`
	IsAvailable    bool   `json:"isAvailable" yaml:"isAvailable"`

	CreatedAt time.Time `json:"createdAt" yaml:"-"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"-"`
}

func (Staff) TableName() string {
	return "staff"
}
