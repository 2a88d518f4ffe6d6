package repositories

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/f2expert/f2expert-sub001/domain/models"
)

// SalaryStatusAggregate is one row of a salary summary.
type SalaryStatusAggregate struct {
	Status          string
	Count           int64
	GrossSalary     decimal.Decimal
	TotalDeductions decimal.Decimal
	NetSalary       decimal.Decimal
}

type TrainerSalaryRepository interface {
	// Create stores the salary with its components.
	Create(ctx context.Context, salary *models.TrainerSalary) error
	GetByID(ctx context.Context, id string) (*models.TrainerSalary, error)
	GetByTrainerPeriod(ctx context.Context, trainerID string, month, year int) (*models.TrainerSalary, error)
	// Update saves the salary and replaces its components.
	Update(ctx context.Context, salary *models.TrainerSalary) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter TrainerSalaryFilter) ([]*models.TrainerSalary, int64, error)
	Summary(ctx context.Context, trainerID string, year int) ([]SalaryStatusAggregate, error)
	Transaction(ctx context.Context, fn func(tx TrainerSalaryRepository) error) error
}
