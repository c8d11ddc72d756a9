package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name            string     `json:"name" gorm:"default:''"`
	Email           string     `json:"email" gorm:"unique;not null"`
	Role            string     `json:"role" gorm:"default:'USER'"` // USER, ADMIN
	Password        string     `json:"-" gorm:"not null"`
	ProfileImage    string     `json:"profile_image" gorm:"default:''"`
	Locale          string     `json:"locale" gorm:"default:'fr'"` // UI language: fr, en, ln
	IsEmailVerified bool       `json:"is_email_verified" gorm:"default:false"`
	LastLogin       *time.Time `json:"last_login"`
	StripeCustomer  string     `json:"-" gorm:"default:''"` // Stripe customer id
	IsDeleted       bool       `json:"-" gorm:"default:false"`
}
