package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/f2expert/f2expert-sub001/domain/models"
	"github.com/f2expert/f2expert-sub001/domain/repositories"
)

var reviewSortColumns = map[string]string{
	"createdAt": "created_at",
	"rating":    "rating",
}

type ReviewRepositoryImpl struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) repositories.ReviewRepository {
	return &ReviewRepositoryImpl{db: db}
}

func (r *ReviewRepositoryImpl) Create(ctx context.Context, review *models.Review) error {
	return translateError(r.db.WithContext(ctx).Create(review).Error)
}

func (r *ReviewRepositoryImpl) GetByID(ctx context.Context, id string) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&review).Error; err != nil {
		return nil, translateError(err)
	}
	return &review, nil
}

func (r *ReviewRepositoryImpl) GetByCourseAndStudent(ctx context.Context, courseID, studentID string) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		First(&review).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &review, nil
}

func (r *ReviewRepositoryImpl) Update(ctx context.Context, review *models.Review) error {
	return translateError(r.db.WithContext(ctx).Save(review).Error)
}

func (r *ReviewRepositoryImpl) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Review{})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *ReviewRepositoryImpl) List(ctx context.Context, filter repositories.ReviewFilter) ([]*models.Review, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Review{})

	if filter.CourseID != "" {
		query = query.Where("course_id = ?", filter.CourseID)
	}
	if filter.StudentID != "" {
		query = query.Where("student_id = ?", filter.StudentID)
	}
	if filter.Rating > 0 {
		query = query.Where("rating = ?", filter.Rating)
	}
	if filter.Approved != nil {
		query = query.Where("is_approved = ?", *filter.Approved)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []*models.Review
	err := query.
		Order(orderBy(reviewSortColumns, filter.ListOptions, "created_at")).
		Scopes(paginate(filter.ListOptions)).
		Find(&reviews).Error
	return reviews, total, err
}

func (r *ReviewRepositoryImpl) RatingStats(ctx context.Context, courseID string) (float64, int64, error) {
	var stats struct {
		Average float64
		Count   int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("course_id = ? AND is_approved = ?", courseID, true).
		Scan(&stats).Error
	return stats.Average, stats.Count, err
}
