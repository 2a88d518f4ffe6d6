package dto

import (
	"strings"
	"time"

	"github.com/f2expert/f2expert-sub001/domain/models"
)

// === Requests ===

type CreateCourseRequest struct {
	Title         string   `json:"title" validate:"required,min=3,max=200"`
	Description   string   `json:"description" validate:"max=5000"`
	Category      string   `json:"category" validate:"required,max=100"`
	Level         string   `json:"level" validate:"required,oneof=beginner intermediate advanced"`
	Language      string   `json:"language" validate:"max=50"`
	Price         float64  `json:"price" validate:"min=0"`
	Currency      string   `json:"currency" validate:"len=3,alpha"`
	DurationHours int      `json:"durationHours" validate:"min=0,max=1000"`
	TrainerID     string   `json:"trainerId" validate:"required,objectid"`
	Tags          []string `json:"tags" validate:"max=20,dive,min=1,max=50"`
	IsPublished   bool     `json:"isPublished"`
}

func (r *CreateCourseRequest) ApplyDefaults() {
	if r.Language == "" {
		r.Language = "English"
	}
	if r.Currency == "" {
		r.Currency = "INR"
	}
	r.Currency = strings.ToUpper(r.Currency)
}

type UpdateCourseRequest struct {
	Title         *string   `json:"title" validate:"omitempty,min=3,max=200"`
	Description   *string   `json:"description" validate:"omitempty,max=5000"`
	Category      *string   `json:"category" validate:"omitempty,min=1,max=100"`
	Level         *string   `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Language      *string   `json:"language" validate:"omitempty,max=50"`
	Price         *float64  `json:"price" validate:"omitempty,min=0"`
	Currency      *string   `json:"currency" validate:"omitempty,len=3,alpha"`
	DurationHours *int      `json:"durationHours" validate:"omitempty,min=0,max=1000"`
	TrainerID     *string   `json:"trainerId" validate:"omitempty,objectid"`
	Tags          *[]string `json:"tags" validate:"omitempty,max=20,dive,min=1,max=50"`
}

type PublishCourseRequest struct {
	IsPublished *bool `json:"isPublished" validate:"required"`
}

type CourseListQuery struct {
	PageQuery
	Category    string `query:"category" json:"category" validate:"max=100"`
	Level       string `query:"level" json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	TrainerID   string `query:"trainerId" json:"trainerId" validate:"omitempty,objectid"`
	IsPublished *bool  `query:"isPublished" json:"isPublished"`
	Search      string `query:"search" json:"search" validate:"max=100"`
	SortBy      string `query:"sortBy" json:"sortBy" validate:"omitempty,oneof=title price createdAt averageRating"`
}

func (q *CourseListQuery) ApplyDefaults() {
	q.PageQuery.ApplyDefaults()
	if q.SortBy == "" {
		q.SortBy = "createdAt"
	}
}

type CourseSlugParams struct {
	Slug string `params:"slug" json:"slug" validate:"required,max=220"`
}

// === Responses ===

type CourseResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	Level         string    `json:"level"`
	Language      string    `json:"language"`
	Price         float64   `json:"price"`
	Currency      string    `json:"currency"`
	DurationHours int       `json:"durationHours"`
	TrainerID     string    `json:"trainerId"`
	Tags          []string  `json:"tags"`
	ThumbnailURL  string    `json:"thumbnailUrl"`
	IsPublished   bool      `json:"isPublished"`
	AverageRating float64   `json:"averageRating"`
	ReviewCount   int64     `json:"reviewCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// === Mappers ===

func CourseToCourseResponse(course *models.Course) *CourseResponse {
	if course == nil {
		return nil
	}
	tags := []string(course.Tags)
	if tags == nil {
		tags = []string{}
	}
	return &CourseResponse{
		ID:            course.ID,
		Title:         course.Title,
		Slug:          course.Slug,
		Description:   course.Description,
		Category:      course.Category,
		Level:         course.Level,
		Language:      course.Language,
		Price:         course.Price,
		Currency:      course.Currency,
		DurationHours: course.DurationHours,
		TrainerID:     course.TrainerID,
		Tags:          tags,
		ThumbnailURL:  course.ThumbnailURL,
		IsPublished:   course.IsPublished,
		AverageRating: course.AverageRating,
		ReviewCount:   course.ReviewCount,
		CreatedAt:     course.CreatedAt,
		UpdatedAt:     course.UpdatedAt,
	}
}

func CoursesToCourseResponses(courses []*models.Course) []*CourseResponse {
	out := make([]*CourseResponse, 0, len(courses))
	for _, c := range courses {
		out = append(out, CourseToCourseResponse(c))
	}
	return out
}

func CreateCourseRequestToCourse(req *CreateCourseRequest) *models.Course {
	return &models.Course{
		Title:         strings.TrimSpace(req.Title),
		Description:   req.Description,
		Category:      req.Category,
		Level:         req.Level,
		Language:      req.Language,
		Price:         req.Price,
		Currency:      req.Currency,
		DurationHours: req.DurationHours,
		TrainerID:     req.TrainerID,
		Tags:          req.Tags,
		IsPublished:   req.IsPublished,
	}
}

// ApplyCourseUpdate copies the set fields of req onto course. It reports
// whether the title changed so the caller can refresh the slug.
func ApplyCourseUpdate(course *models.Course, req *UpdateCourseRequest) (titleChanged bool) {
	if req.Title != nil && strings.TrimSpace(*req.Title) != course.Title {
		course.Title = strings.TrimSpace(*req.Title)
		titleChanged = true
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Category != nil {
		course.Category = *req.Category
	}
	if req.Level != nil {
		course.Level = *req.Level
	}
	if req.Language != nil {
		course.Language = *req.Language
	}
	if req.Price != nil {
		course.Price = *req.Price
	}
	if req.Currency != nil {
		course.Currency = strings.ToUpper(*req.Currency)
	}
	if req.DurationHours != nil {
		course.DurationHours = *req.DurationHours
	}
	if req.TrainerID != nil {
		course.TrainerID = *req.TrainerID
	}
	if req.Tags != nil {
		course.Tags = *req.Tags
	}
	return titleChanged
}
