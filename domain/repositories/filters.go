package repositories

import "time"

// ListOptions pages and orders a list. SortBy uses API field names
// (createdAt, title, ...); each repository maps them to its columns.
type ListOptions struct {
	Offset int
	Limit  int
	SortBy string
	Desc   bool
}

type UserFilter struct {
	Role           string
	IsActive       *bool
	Search         string
	Specialization string
	ListOptions
}

type CourseFilter struct {
	Category    string
	Level       string
	TrainerID   string
	IsPublished *bool
	Search      string
	ListOptions
}

type ReviewFilter struct {
	CourseID  string
	StudentID string
	Rating    int
	Approved  *bool
	ListOptions
}

type ScheduleClassFilter struct {
	CourseID  string
	TrainerID string
	StudentID string // classes the student is enrolled or waitlisted in
	Status    string
	Mode      string
	From      *time.Time
	To        *time.Time
	ListOptions
}

type TrainerSalaryFilter struct {
	TrainerID string
	Month     int
	Year      int
	Status    string
	ListOptions
}
