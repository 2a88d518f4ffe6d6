package services

import (
	"context"

	"github.com/f2expert/f2expert-sub001/domain/dto"
	"github.com/f2expert/f2expert-sub001/domain/models"
)

type ReviewService interface {
	Create(ctx context.Context, actor Actor, req *dto.CreateReviewRequest) (*models.Review, error)
	// GetByID hides unapproved reviews from everyone but admins and the author.
	GetByID(ctx context.Context, actor *Actor, id string) (*models.Review, error)
	// ListByCourse shows only approved reviews to non-admins.
	ListByCourse(ctx context.Context, actor *Actor, courseID string, query *dto.ReviewListQuery) ([]*models.Review, int64, error)
	Update(ctx context.Context, actor Actor, id string, req *dto.UpdateReviewRequest) (*models.Review, error)
	Delete(ctx context.Context, actor Actor, id string) error
	SetApproved(ctx context.Context, id string, approved bool) (*models.Review, error)
}
