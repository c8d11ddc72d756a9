package course

import "gorm.io/gorm"

// Course represents a Lingala course in the catalog
type Course struct {
	gorm.Model
	Title        string `json:"title"`
	Description  string `json:"description" gorm:"type:text"`
	Level        string `json:"level" gorm:"default:'BEGINNER'"` // BEGINNER, INTERMEDIATE, ADVANCED
	PriceCents   int64  `json:"price_cents" gorm:"default:0"`    // One-time purchase price
	Currency     string `json:"currency" gorm:"default:'usd'"`
	ThumbnailURL string `json:"thumbnail_url"`
	IsPublished  bool   `json:"is_published" gorm:"default:false"`
	IsDeleted    bool   `json:"-" gorm:"default:false"`
}
