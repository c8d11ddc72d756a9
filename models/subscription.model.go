package models

import (
	"time"

	"gorm.io/gorm"
)

// SubscriptionStatus enum values
const (
	SubscriptionActive    = "ACTIVE"
	SubscriptionPastDue   = "PAST_DUE"
	SubscriptionCancelled = "CANCELLED"
	SubscriptionExpired   = "EXPIRED"
)

// Subscription tracks a user's recurring premium plan. Rows are written by
// the Stripe webhook handler and the expiry scheduler; everything else only
// reads them.
type Subscription struct {
	gorm.Model
	UserID               uint      `json:"user_id" gorm:"not null;index"`
	StripeSubscriptionID string    `json:"stripe_subscription_id" gorm:"unique;not null"`
	Status               string    `json:"status" gorm:"not null;type:varchar(20);default:'ACTIVE'"`
	CurrentPeriodStart   time.Time `json:"current_period_start"`
	CurrentPeriodEnd     time.Time `json:"current_period_end"`
	ReminderSent         bool      `json:"-" gorm:"default:false"` // Expiry reminder already emailed
	IsDeleted            bool      `json:"-" gorm:"default:false"`
}

// IsActive reports whether the subscription currently grants access: status
// ACTIVE and the clock inside the paid period.
func (s *Subscription) IsActive(now time.Time) bool {
	if s.Status != SubscriptionActive {
		return false
	}
	if s.CurrentPeriodEnd.IsZero() {
		return false
	}
	return !now.Before(s.CurrentPeriodStart) && now.Before(s.CurrentPeriodEnd)
}
