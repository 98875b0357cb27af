package models

import (
	"strings"
	"time"
)

const (
	RoleCustomer   = "customer"
	RoleSalonOwner = "salon_owner"
	RoleAdmin      = "admin"
)

type User struct {
	ID          uint   `gorm:"primaryKey" json:"id" yaml:"-"`
	Username    string `gorm:"uniqueIndex;not null" json:"username" yaml:"username"`
	Password    string `gorm:"not null" json:"-" yaml:"password"`
	Name        string `gorm:"not null" json:"name" yaml:"name"`
	Email       string `gorm:"uniqueIndex;not null" json:"email" yaml:"email"`
	PhoneNumber string `gorm:"not null" json:"phoneNumber" yaml:"phoneNumber"`

	Role     string `gorm:"type:varchar(20);not null;default:'customer'" json:"role" yaml:"role"`
	Gender   string `gorm:"type:varchar(10)" json:"gender,omitempty" yaml:"gender"`
	Language string `gorm:"type:varchar(5);default:'ar'" json:"language" yaml:"language"`

	// Comma separated, e.g. "female_only,arabic"
	Preferences    string `json:"preferences,omitempty" yaml:"preferences"`
	PrivateProfile bool   `gorm:"default:false" json:"privateProfile" yaml:"privateProfile"`
	ProfileImage   string `json:"profileImage,omitempty" yaml:"profileImage"`

	LoyaltyPoints  int    `gorm:"default:0" json:"loyaltyPoints" yaml:"loyaltyPoints"`
	MembershipType string `json:"membershipType,omitempty" yaml:"membershipType"`

	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" yaml:"-"`
	CreatedAt   time.Time  `json:"createdAt" yaml:"-"`
	UpdatedAt   time.Time  `json:"updatedAt" yaml:"-"`
}

// PrefersArabic reports whether messages for the user should be written in Arabic.
func (u *User) PrefersArabic() bool {
	if u.Language == "ar" {
		return true
	}
	return strings.Contains(strings.ToLower(u.Preferences), "arabic")
}
