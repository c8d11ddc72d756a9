package course

import "gorm.io/gorm"

// VideoStatus enum values
const (
	VideoNone       = "NONE"
	VideoProcessing = "PROCESSING"
	VideoReady      = "READY"
	VideoFailed     = "FAILED"
)

// Lesson represents a single lesson within a module
type Lesson struct {
	gorm.Model
	ModuleID        uint   `json:"module_id" gorm:"index;not null"`
	CourseID        uint   `json:"course_id" gorm:"index;not null"` // Denormalized for course-level queries
	Title           string `json:"title"`
	Content         string `json:"content" gorm:"type:text"`
	VideoURL        string `json:"video_url"` // HLS manifest URL once transcoded
	VideoStatus     string `json:"video_status" gorm:"default:'NONE'"`
	TranscodeJobID  string `json:"-" gorm:"default:''"`
	DurationMinutes int    `json:"duration_minutes" gorm:"default:0"`
	FreePreview     bool   `json:"free_preview" gorm:"default:false"` // Watchable without auth or payment
	OrderIndex      int    `json:"order_index" gorm:"default:0"`
	IsPublished     bool   `json:"is_published" gorm:"default:false"`
	IsDeleted       bool   `json:"-" gorm:"default:false"`
}
