package models

import (
	"time"
)

type Review struct {
	ID         string `gorm:"primaryKey;size:24"`
	CourseID   string `gorm:"size:24;not null;uniqueIndex:idx_reviews_course_student"`
	StudentID  string `gorm:"size:24;not null;uniqueIndex:idx_reviews_course_student;index"`
	Rating     int    `gorm:"not null"`
	Comment    string `gorm:"type:text"`
	IsApproved bool   `gorm:"not null;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Review) TableName() string {
	return "reviews"
}
