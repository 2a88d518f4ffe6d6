package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/f2expert/f2expert-sub001/domain/models"
	"github.com/f2expert/f2expert-sub001/domain/repositories"
)

var courseSortColumns = map[string]string{
	"title":         "title",
	"price":         "price",
	"createdAt":     "created_at",
	"averageRating": "average_rating",
}

type CourseRepositoryImpl struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) repositories.CourseRepository {
	return &CourseRepositoryImpl{db: db}
}

func (r *CourseRepositoryImpl) Create(ctx context.Context, course *models.Course) error {
	return translateError(r.db.WithContext(ctx).Create(course).Error)
}

func (r *CourseRepositoryImpl) GetByID(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&course).Error; err != nil {
		return nil, translateError(err)
	}
	return &course, nil
}

func (r *CourseRepositoryImpl) GetBySlug(ctx context.Context, slug string) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&course).Error; err != nil {
		return nil, translateError(err)
	}
	return &course, nil
}

func (r *CourseRepositoryImpl) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&models.Course{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (r *CourseRepositoryImpl) Update(ctx context.Context, course *models.Course) error {
	return translateError(r.db.WithContext(ctx).Save(course).Error)
}

func (r *CourseRepositoryImpl) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Course{})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *CourseRepositoryImpl) List(ctx context.Context, filter repositories.CourseFilter) ([]*models.Course, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Course{})

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Level != "" {
		query = query.Where("level = ?", filter.Level)
	}
	if filter.TrainerID != "" {
		query = query.Where("trainer_id = ?", filter.TrainerID)
	}
	if filter.IsPublished != nil {
		query = query.Where("is_published = ?", *filter.IsPublished)
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("(title ILIKE ? OR description ILIKE ? OR ? = ANY(tags))", p, p, filter.Search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var courses []*models.Course
	err := query.
		Order(orderBy(courseSortColumns, filter.ListOptions, "created_at")).
		Scopes(paginate(filter.ListOptions)).
		Find(&courses).Error
	return courses, total, err
}

func (r *CourseRepositoryImpl) UpdateRating(ctx context.Context, id string, average float64, count int64) error {
	return r.db.WithContext(ctx).Model(&models.Course{}).Where("id = ?", id).Updates(map[string]interface{}{
		"average_rating": average,
		"review_count":   count,
	}).Error
}
