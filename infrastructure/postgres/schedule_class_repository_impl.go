package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/f2expert/f2expert-sub001/domain/models"
	"github.com/f2expert/f2expert-sub001/domain/repositories"
)

var classSortColumns = map[string]string{
	"startsAt":  "starts_at",
	"createdAt": "created_at",
	"title":     "title",
}

type ScheduleClassRepositoryImpl struct {
	db *gorm.DB
}

func NewScheduleClassRepository(db *gorm.DB) repositories.ScheduleClassRepository {
	return &ScheduleClassRepositoryImpl{db: db}
}

func (r *ScheduleClassRepositoryImpl) Create(ctx context.Context, class *models.ScheduleClass) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Create(class).Error)
}

func (r *ScheduleClassRepositoryImpl) GetByID(ctx context.Context, id string) (*models.ScheduleClass, error) {
	var class models.ScheduleClass
	err := r.db.WithContext(ctx).
		Preload("Enrollments", func(db *gorm.DB) *gorm.DB {
			return db.Order("status ASC, position ASC, enrolled_at ASC")
		}).
		Where("id = ?", id).
		First(&class).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &class, nil
}

func (r *ScheduleClassRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (*models.ScheduleClass, error) {
	var class models.ScheduleClass
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&class).Error
	if err != nil {
		return nil, translateError(err)
	}

	err = r.db.WithContext(ctx).
		Where("class_id = ?", id).
		Order("status ASC, position ASC, enrolled_at ASC").
		Find(&class.Enrollments).Error
	if err != nil {
		return nil, err
	}
	return &class, nil
}

func (r *ScheduleClassRepositoryImpl) Update(ctx context.Context, class *models.ScheduleClass) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Save(class).Error)
}

func (r *ScheduleClassRepositoryImpl) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("class_id = ?", id).Delete(&models.ClassEnrollment{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.ScheduleClass{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repositories.ErrNotFound
		}
		return nil
	})
}

func (r *ScheduleClassRepositoryImpl) List(ctx context.Context, filter repositories.ScheduleClassFilter) ([]*models.ScheduleClass, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ScheduleClass{})

	if filter.CourseID != "" {
		query = query.Where("course_id = ?", filter.CourseID)
	}
	if filter.TrainerID != "" {
		query = query.Where("trainer_id = ?", filter.TrainerID)
	}
	if filter.StudentID != "" {
		sub := r.db.Model(&models.ClassEnrollment{}).Select("class_id").Where("student_id = ?", filter.StudentID)
		query = query.Where("id IN (?)", sub)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Mode != "" {
		query = query.Where("mode = ?", filter.Mode)
	}
	if filter.From != nil {
		query = query.Where("starts_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("starts_at < ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var classes []*models.ScheduleClass
	err := query.
		Preload("Enrollments").
		Order(orderBy(classSortColumns, filter.ListOptions, "starts_at")).
		Scopes(paginate(filter.ListOptions)).
		Find(&classes).Error
	return classes, total, err
}

func (r *ScheduleClassRepositoryImpl) FindTrainerOverlaps(ctx context.Context, trainerID string, startsAt, endsAt time.Time, excludeID string) ([]*models.ScheduleClass, error) {
	query := r.db.WithContext(ctx).
		Where("trainer_id = ? AND status = ?", trainerID, models.ClassStatusScheduled).
		Where("starts_at < ? AND ends_at > ?", endsAt, startsAt)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var classes []*models.ScheduleClass
	err := query.Order("starts_at ASC").Find(&classes).Error
	return classes, err
}

// LockTrainer takes a transaction-scoped advisory lock keyed by trainer, so
// two bookings cannot both pass the overlap check.
func (r *ScheduleClassRepositoryImpl) LockTrainer(ctx context.Context, trainerID string) error {
	return r.db.WithContext(ctx).
		Exec("SELECT pg_advisory_xact_lock(hashtext(?))", "schedule_classes:trainer:"+trainerID).
		Error
}

func (r *ScheduleClassRepositoryImpl) AddEnrollment(ctx context.Context, enrollment *models.ClassEnrollment) error {
	return translateError(r.db.WithContext(ctx).Create(enrollment).Error)
}

func (r *ScheduleClassRepositoryImpl) UpdateEnrollment(ctx context.Context, enrollment *models.ClassEnrollment) error {
	return translateError(r.db.WithContext(ctx).Save(enrollment).Error)
}

func (r *ScheduleClassRepositoryImpl) RemoveEnrollment(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ClassEnrollment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *ScheduleClassRepositoryImpl) CompleteEnded(ctx context.Context, now time.Time) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ScheduleClass{}).
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("status = ? AND ends_at < ?", models.ClassStatusScheduled, now).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		return tx.Model(&models.ScheduleClass{}).
			Where("id IN ?", ids).
			Updates(map[string]interface{}{
				"status":     models.ClassStatusCompleted,
				"updated_at": now,
			}).Error
	})
	return ids, err
}

func (r *ScheduleClassRepositoryImpl) Transaction(ctx context.Context, fn func(tx repositories.ScheduleClassRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ScheduleClassRepositoryImpl{db: tx})
	})
}
