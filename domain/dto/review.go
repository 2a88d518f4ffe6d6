package dto

import (
	"time"

	"github.com/f2expert/f2expert-sub001/domain/models"
)

// === Requests ===

type CreateReviewRequest struct {
	CourseID string `json:"courseId" validate:"required,objectid"`
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Comment  string `json:"comment" validate:"max=1000"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,max=1000"`
}

type ApproveReviewRequest struct {
	IsApproved *bool `json:"isApproved" validate:"required"`
}

type CourseReviewsParams struct {
	CourseID string `params:"courseId" json:"courseId" validate:"required,objectid"`
}

type ReviewListQuery struct {
	PageQuery
	Rating int    `query:"rating" json:"rating" validate:"omitempty,min=1,max=5"`
	Status string `query:"status" json:"status" validate:"omitempty,oneof=approved pending all"`
	SortBy string `query:"sortBy" json:"sortBy" validate:"omitempty,oneof=createdAt rating"`
}

func (q *ReviewListQuery) ApplyDefaults() {
	q.PageQuery.ApplyDefaults()
	if q.SortBy == "" {
		q.SortBy = "createdAt"
	}
	if q.Status == "" {
		q.Status = "approved"
	}
}

// === Responses ===

type ReviewResponse struct {
	ID         string    `json:"id"`
	CourseID   string    `json:"courseId"`
	StudentID  string    `json:"studentId"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	IsApproved bool      `json:"isApproved"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// === Mappers ===

func ReviewToReviewResponse(review *models.Review) *ReviewResponse {
	if review == nil {
		return nil
	}
	return &ReviewResponse{
		ID:         review.ID,
		CourseID:   review.CourseID,
		StudentID:  review.StudentID,
		Rating:     review.Rating,
		Comment:    review.Comment,
		IsApproved: review.IsApproved,
		CreatedAt:  review.CreatedAt,
		UpdatedAt:  review.UpdatedAt,
	}
}

func ReviewsToReviewResponses(reviews []*models.Review) []*ReviewResponse {
	out := make([]*ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, ReviewToReviewResponse(r))
	}
	return out
}
