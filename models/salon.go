package models

import (
	"strings"
	"time"
)

const (
	GenderFemaleOnly = "female_only"
	GenderMaleOnly   = "male_only"
	GenderBoth       = "both"
)

type Salon struct {
	ID      uint `gorm:"primaryKey" json:"id" yaml:"-"`
	OwnerID uint `gorm:"index;not null" json:"ownerId" yaml:"ownerId"`

	Name          string `gorm:"not null" json:"name" yaml:"name"`
	NameEn        string `json:"nameEn,omitempty" yaml:"nameEn"`
	Description   string `json:"description,omitempty" yaml:"description"`
	DescriptionEn string `json:"descriptionEn,omitempty" yaml:"descriptionEn"`
	Address       string `gorm:"not null" json:"address" yaml:"address"`
	AddressEn     string `json:"addressEn,omitempty" yaml:"addressEn"`
	City          string `gorm:"index;not null" json:"city" yaml:"city"`
	CityEn        string `json:"cityEn,omitempty" yaml:"cityEn"`
	District      string `json:"district,omitempty" yaml:"district"`
	DistrictEn    string `json:"districtEn,omitempty" yaml:"districtEn"`
	PhoneNumber   string `gorm:"not null" json:"phoneNumber" yaml:"phoneNumber"`
	Email         string `json:"email,omitempty" yaml:"email"`

	Gender              string `gorm:"type:varchar(20);not null" json:"gender" yaml:"gender"`
	HasPrivateRooms     bool   `gorm:"default:false" json:"hasPrivateRooms" yaml:"hasPrivateRooms"`
	HasFemaleStaffOnly  bool   `gorm:"default:false" json:"hasFemaleStaffOnly" yaml:"hasFemaleStaffOnly"`
	ProvidesHomeService bool   `gorm:"default:false" json:"providesHomeService" yaml:"providesHomeService"`
	Verified            bool   `gorm:"default:false" json:"verified" yaml:"verified"`
	IsActive            bool   `json:"isActive" yaml:"isActive"`

	OpeningHours string  `json:"openingHours,omitempty" yaml:"openingHours"`
	Categories   string  `json:"categories,omitempty" yaml:"categories"`
	Amenities    string  `json:"amenities,omitempty" yaml:"amenities"`
	CoverImage   string  `json:"coverImage,omitempty" yaml:"coverImage"`
	Latitude     float64 `json:"latitude,omitempty" yaml:"latitude"`
	Longitude    float64 `json:"longitude,omitempty" yaml:"longitude"`

	Rating      float64 `gorm:"default:0" json:"rating" yaml:"-"`
	ReviewCount int     `gorm:"default:0" json:"reviewCount" yaml:"-"`

	CreatedAt time.Time `json:"createdAt" yaml:"-"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"-"`
}

// HasCategory reports whether category is one of the salon's comma separated categories.
func (s *Salon) HasCategory(category string) bool {
	for _, c := range strings.Split(s.Categories, ",") {
		if strings.EqualFold(strings.TrimSpace(c), category) {
			return true
		}
	}
	return false
}

func ValidSalonGender(g string) bool {
	return g == GenderFemaleOnly || g == GenderMaleOnly || g == GenderBoth
}
