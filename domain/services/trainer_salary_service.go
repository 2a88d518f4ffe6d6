package services

import (
	"context"

	"github.com/f2expert/f2expert-sub001/domain/dto"
	"github.com/f2expert/f2expert-sub001/domain/models"
)

// TrainerSalaryService manages monthly pay records. Trainers may only read
// their own records; every write is admin only.
type TrainerSalaryService interface {
	Create(ctx context.Context, actor Actor, req *dto.CreateTrainerSalaryRequest) (*models.TrainerSalary, error)
	// BulkCreate stores every record or none.
	BulkCreate(ctx context.Context, actor Actor, req *dto.BulkCreateTrainerSalaryRequest) ([]*models.TrainerSalary, error)
	GetByID(ctx context.Context, actor Actor, id string) (*models.TrainerSalary, error)
	List(ctx context.Context, actor Actor, query *dto.TrainerSalaryListQuery) ([]*models.TrainerSalary, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateTrainerSalaryRequest) (*models.TrainerSalary, error)
	MarkPaid(ctx context.Context, actor Actor, id string, req *dto.PaySalaryRequest) (*models.TrainerSalary, error)
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context, actor Actor, query *dto.SalarySummaryQuery) (*dto.SalarySummaryResponse, error)
}
