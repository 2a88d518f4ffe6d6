package repositories

import (
	"context"
	"time"

	"github.com/f2expert/f2expert-sub001/domain/models"
)

type ScheduleClassRepository interface {
	Create(ctx context.Context, class *models.ScheduleClass) error
	// GetByID loads the class with its enrollments.
	GetByID(ctx context.Context, id string) (*models.ScheduleClass, error)
	// GetByIDForUpdate is GetByID holding a row lock until the surrounding
	// transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (*models.ScheduleClass, error)
	// Update saves the class row. Enrollments are written separately.
	Update(ctx context.Context, class *models.ScheduleClass) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ScheduleClassFilter) ([]*models.ScheduleClass, int64, error)

	// FindTrainerOverlaps returns the trainer's scheduled classes that
	// intersect [startsAt, endsAt), ignoring excludeID.
	FindTrainerOverlaps(ctx context.Context, trainerID string, startsAt, endsAt time.Time, excludeID string) ([]*models.ScheduleClass, error)
	// LockTrainer serialises bookings of one trainer until the surrounding
	// transaction ends.
	LockTrainer(ctx context.Context, trainerID string) error

	AddEnrollment(ctx context.Context, enrollment *models.ClassEnrollment) error
	UpdateEnrollment(ctx context.Context, enrollment *models.ClassEnrollment) error
	RemoveEnrollment(ctx context.Context, id string) error

	// CompleteEnded marks scheduled classes that ended before now as
	// completed and returns their ids.
	CompleteEnded(ctx context.Context, now time.Time) ([]string, error)

	// Transaction runs fn against a repository bound to one transaction.
	// Any error from fn rolls every write back.
	Transaction(ctx context.Context, fn func(tx ScheduleClassRepository) error) error
}
