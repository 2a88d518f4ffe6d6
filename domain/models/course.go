package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

type Course struct {
	ID            string         `gorm:"primaryKey;size:24"`
	Title         string         `gorm:"size:200;not null"`
	Slug          string         `gorm:"size:220;uniqueIndex;not null"`
	Description   string         `gorm:"type:text"`
	Category      string         `gorm:"size:100;index"`
	Level         string         `gorm:"size:20;index"`
	Language      string         `gorm:"size:50"`
	Price         float64        `gorm:"not null;default:0"`
	Currency      string         `gorm:"size:3;not null"`
	DurationHours int            `gorm:"default:0"`
	TrainerID     string         `gorm:"size:24;index"`
	Tags          pq.StringArray `gorm:"type:text[]"`
	ThumbnailURL  string
	ThumbnailPath string  // storage key of ThumbnailURL
	IsPublished   bool    `gorm:"not null;index"`
	AverageRating float64 `gorm:"not null;default:0"`
	ReviewCount   int64   `gorm:"not null;default:0"`
	CreatedBy     string  `gorm:"size:24"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (Course) TableName() string {
	return "courses"
}
