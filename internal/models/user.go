package models

import "time"

// MinPasswordLength is the shortest password accepted at sign-up.
const MinPasswordLength = 6

// User is the authenticated principal that owns vendors, budgets and charges.
type User struct {
	Base
	Email            string     `gorm:"uniqueIndex;not null" json:"email"`
	Password         string     `gorm:"not null" json:"-"`
	RefreshTokenHash string     `gorm:"size:64" json:"-"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`
	Vendors          []Vendor   `gorm:"foreignKey:OwnerID" json:"vendors,omitempty"`
}
