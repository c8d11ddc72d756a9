package course

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment grants a user access to one course, created by a one-time
// purchase or a manual admin grant. A user can hold at most one enrollment
// per course; the composite unique index rejects duplicates at write time.
type Enrollment struct {
	gorm.Model
	UserID      uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_user_course"`
	CourseID    uint       `json:"course_id" gorm:"not null;uniqueIndex:idx_user_course"`
	EnrolledAt  time.Time  `json:"enrolled_at" gorm:"not null"`
	CompletedAt *time.Time `json:"completed_at"`
	PaymentID   string     `json:"payment_id"` // Stripe checkout session / payment intent id
	Source      string     `json:"source" gorm:"default:'PURCHASE'"` // PURCHASE, ADMIN_GRANT
	IsDeleted   bool       `json:"-" gorm:"default:false"`

	Course Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}

func (Enrollment) TableName() string {
	return "user_enrollments"
}
