package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WebhookEvent stores every Stripe event we have already handled, keyed by
// the provider's event id. Stripe redelivers events on slow responses, so the
// unique EventID is what makes the payment handlers safe to retry.
type WebhookEvent struct {
	gorm.Model
	EventID     string         `json:"event_id" gorm:"unique;not null"`
	Type        string         `json:"type" gorm:"index;not null"`
	Payload     datatypes.JSON `json:"payload"`
	ProcessedAt time.Time      `json:"processed_at"`
}
