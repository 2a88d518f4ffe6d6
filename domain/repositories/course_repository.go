package repositories

import (
	"context"

	"github.com/f2expert/f2expert-sub001/domain/models"
)

type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id string) (*models.Course, error)
	GetBySlug(ctx context.Context, slug string) (*models.Course, error)
	// SlugExists includes soft-deleted courses, the unique index does too.
	SlugExists(ctx context.Context, slug string) (bool, error)
	Update(ctx context.Context, course *models.Course) error
	// Delete is a soft delete.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter CourseFilter) ([]*models.Course, int64, error)
	UpdateRating(ctx context.Context, id string, average float64, count int64) error
}
