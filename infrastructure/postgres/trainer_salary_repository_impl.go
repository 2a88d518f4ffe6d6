package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/f2expert/f2expert-sub001/domain/models"
	"github.com/f2expert/f2expert-sub001/domain/repositories"
	"github.com/f2expert/f2expert-sub001/pkg/utils"
)

var salarySortColumns = map[string]string{
	"createdAt": "created_at",
	"period":    "year * 100 + month",
	"netSalary": "net_salary",
}

type TrainerSalaryRepositoryImpl struct {
	db *gorm.DB
}

func NewTrainerSalaryRepository(db *gorm.DB) repositories.TrainerSalaryRepository {
	return &TrainerSalaryRepositoryImpl{db: db}
}

func (r *TrainerSalaryRepositoryImpl) Create(ctx context.Context, salary *models.TrainerSalary) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(salary).Error; err != nil {
			return translateError(err)
		}
		return createComponents(tx, salary)
	})
}

func createComponents(tx *gorm.DB, salary *models.TrainerSalary) error {
	if len(salary.Components) == 0 {
		return nil
	}
	for i := range salary.Components {
		c := &salary.Components[i]
		if c.ID == "" {
			c.ID = utils.NewDocumentID()
		}
		c.SalaryID = salary.ID
	}
	return tx.Create(&salary.Components).Error
}

func (r *TrainerSalaryRepositoryImpl) GetByID(ctx context.Context, id string) (*models.TrainerSalary, error) {
	var salary models.TrainerSalary
	err := r.db.WithContext(ctx).
		Preload("Components", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("id = ?", id).
		First(&salary).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &salary, nil
}

func (r *TrainerSalaryRepositoryImpl) GetByTrainerPeriod(ctx context.Context, trainerID string, month, year int) (*models.TrainerSalary, error) {
	var salary models.TrainerSalary
	err := r.db.WithContext(ctx).
		Where("trainer_id = ? AND month = ? AND year = ?", trainerID, month, year).
		First(&salary).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &salary, nil
}

func (r *TrainerSalaryRepositoryImpl) Update(ctx context.Context, salary *models.TrainerSalary) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(salary).Error; err != nil {
			return translateError(err)
		}
		if err := tx.Where("salary_id = ?", salary.ID).Delete(&models.SalaryComponent{}).Error; err != nil {
			return err
		}
		return createComponents(tx, salary)
	})
}

func (r *TrainerSalaryRepositoryImpl) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("salary_id = ?", id).Delete(&models.SalaryComponent{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.TrainerSalary{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repositories.ErrNotFound
		}
		return nil
	})
}

func (r *TrainerSalaryRepositoryImpl) List(ctx context.Context, filter repositories.TrainerSalaryFilter) ([]*models.TrainerSalary, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.TrainerSalary{})

	if filter.TrainerID != "" {
		query = query.Where("trainer_id = ?", filter.TrainerID)
	}
	if filter.Month > 0 {
		query = query.Where("month = ?", filter.Month)
	}
	if filter.Year > 0 {
		query = query.Where("year = ?", filter.Year)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var salaries []*models.TrainerSalary
	err := query.
		Preload("Components", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Order(orderBy(salarySortColumns, filter.ListOptions, "created_at")).
		Scopes(paginate(filter.ListOptions)).
		Find(&salaries).Error
	return salaries, total, err
}

func (r *TrainerSalaryRepositoryImpl) Summary(ctx context.Context, trainerID string, year int) ([]repositories.SalaryStatusAggregate, error) {
	query := r.db.WithContext(ctx).
		Model(&models.TrainerSalary{}).
		Select("status, COUNT(*) AS count, " +
			"COALESCE(SUM(gross_salary), 0) AS gross_salary, " +
			"COALESCE(SUM(total_deductions), 0) AS total_deductions, " +
			"COALESCE(SUM(net_salary), 0) AS net_salary")

	if trainerID != "" {
		query = query.Where("trainer_id = ?", trainerID)
	}
	if year > 0 {
		query = query.Where("year = ?", year)
	}

	var rows []repositories.SalaryStatusAggregate
	err := query.Group("status").Order("status ASC").Scan(&rows).Error
	return rows, err
}

func (r *TrainerSalaryRepositoryImpl) Transaction(ctx context.Context, fn func(tx repositories.TrainerSalaryRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&TrainerSalaryRepositoryImpl{db: tx})
	})
}
