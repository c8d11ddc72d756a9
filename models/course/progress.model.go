package course

import (
	"time"

	"gorm.io/gorm"
)

// Completion threshold: a lesson counts as watched once the viewer has seen
// this share of the video, even without an explicit mark-complete.
const CompletionThresholdPercent = 90.0

// LessonProgress is the per-user-per-lesson record of playback position and
// completion state. The composite unique index on (user_id, lesson_id) backs
// the atomic upsert in the progress controller; there is never more than one
// row per user and lesson.
type LessonProgress struct {
	gorm.Model
	UserID             uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_user_lesson"`
	LessonID           uint       `json:"lesson_id" gorm:"not null;uniqueIndex:idx_user_lesson"`
	CourseID           uint       `json:"course_id" gorm:"index;not null"`
	CurrentTime        float64    `json:"current_time" gorm:"default:0"` // Playback position, seconds
	Duration           float64    `json:"duration" gorm:"default:0"`     // Video duration, seconds
	ProgressPercentage float64    `json:"progress_percentage" gorm:"default:0"`
	WatchTimeSeconds   int        `json:"watch_time_seconds" gorm:"default:0"` // Furthest position reached
	IsCompleted        bool       `json:"is_completed" gorm:"default:false"`
	CompletedAt        *time.Time `json:"completed_at"`
}

func (LessonProgress) TableName() string {
	return "user_progress"
}
