package models

import (
	"time"
)

const (
	ClassStatusScheduled = "scheduled"
	ClassStatusCancelled = "cancelled"
	ClassStatusCompleted = "completed"

	ClassModeOnline  = "online"
	ClassModeOffline = "offline"

	EnrollmentEnrolled   = "enrolled"
	EnrollmentWaitlisted = "waitlisted"
)

// ScheduleClass is one session of a course led by a trainer. StartsAt and
// EndsAt are absolute instants built from the class date and HH:MM times.
type ScheduleClass struct {
	ID             string    `gorm:"primaryKey;size:24"`
	CourseID       string    `gorm:"size:24;not null;index"`
	TrainerID      string    `gorm:"size:24;not null;index:idx_classes_trainer_start"`
	Title          string    `gorm:"size:200;not null"`
	Description    string    `gorm:"type:text"`
	StartsAt       time.Time `gorm:"not null;index:idx_classes_trainer_start"`
	EndsAt         time.Time `gorm:"not null"`
	Mode           string    `gorm:"size:10;not null"`
	MeetingLink    string
	Location       string `gorm:"size:255"`
	Capacity       int    `gorm:"not null"`
	AvailableSeats int    `gorm:"not null"`
	Status         string `gorm:"size:20;not null;index"`
	CancelReason   string `gorm:"size:500"`
	CreatedBy      string `gorm:"size:24"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Enrollments []ClassEnrollment `gorm:"foreignKey:ClassID;constraint:OnDelete:CASCADE"`
}

func (ScheduleClass) TableName() string {
	return "schedule_classes"
}

// Overlaps reports whether the two time ranges intersect. Touching ranges
// (one ends when the other starts) do not overlap.
func (s *ScheduleClass) Overlaps(startsAt, endsAt time.Time) bool {
	return s.StartsAt.Before(endsAt) && startsAt.Before(s.EndsAt)
}

// ClassEnrollment is a student's seat or waitlist entry in a class.
// Position orders the waitlist and is 0 for enrolled students.
type ClassEnrollment struct {
	ID         string    `gorm:"primaryKey;size:24"`
	ClassID    string    `gorm:"size:24;not null;uniqueIndex:idx_enrollments_class_student"`
	StudentID  string    `gorm:"size:24;not null;uniqueIndex:idx_enrollments_class_student;index"`
	Status     string    `gorm:"size:20;not null"`
	Position   int       `gorm:"not null;default:0"`
	EnrolledAt time.Time `gorm:"not null"`
}

func (ClassEnrollment) TableName() string {
	return "class_enrollments"
}
