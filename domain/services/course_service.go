package services

import (
	"context"
	"io"

	"github.com/f2expert/f2expert-sub001/domain/dto"
	"github.com/f2expert/f2expert-sub001/domain/models"
)

type CourseService interface {
	Create(ctx context.Context, actor Actor, req *dto.CreateCourseRequest) (*models.Course, error)

	// GetByID hides unpublished courses unless includeUnpublished is set.
	GetByID(ctx context.Context, id string, includeUnpublished bool) (*models.Course, error)
	GetBySlug(ctx context.Context, slug string, includeUnpublished bool) (*models.Course, error)
	List(ctx context.Context, query *dto.CourseListQuery, includeUnpublished bool) ([]*models.Course, int64, error)

	// Update is allowed to admins and to the trainer who owns the course.
	Update(ctx context.Context, actor Actor, id string, req *dto.UpdateCourseRequest) (*models.Course, error)
	SetPublished(ctx context.Context, actor Actor, id string, published bool) (*models.Course, error)
	Delete(ctx context.Context, id string) error
	UploadThumbnail(ctx context.Context, id string, file io.Reader, size int64, filename, contentType string) (*models.Course, error)

	// RefreshRating recomputes averageRating and reviewCount from reviews.
	RefreshRating(ctx context.Context, courseID string) error
}
