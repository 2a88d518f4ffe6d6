package repositories

import (
	"context"

	"github.com/f2expert/f2expert-sub001/domain/models"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id string) (*models.Review, error)
	GetByCourseAndStudent(ctx context.Context, courseID, studentID string) (*models.Review, error)
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ReviewFilter) ([]*models.Review, int64, error)
	// RatingStats averages the approved reviews of a course.
	RatingStats(ctx context.Context, courseID string) (average float64, count int64, err error)
}
