package services

import (
	"context"
	"time"

	"github.com/f2expert/f2expert-sub001/domain/dto"
	"github.com/f2expert/f2expert-sub001/domain/models"
)

type ScheduleClassService interface {
	Create(ctx context.Context, actor Actor, req *dto.CreateScheduleClassRequest) (*models.ScheduleClass, error)
	GetByID(ctx context.Context, id string) (*models.ScheduleClass, error)
	List(ctx context.Context, query *dto.ScheduleClassListQuery) ([]*models.ScheduleClass, int64, error)
	ListForStudent(ctx context.Context, studentID string, query *dto.ScheduleClassListQuery) ([]*models.ScheduleClass, int64, error)
	Update(ctx context.Context, actor Actor, id string, req *dto.UpdateScheduleClassRequest) (*models.ScheduleClass, error)
	Cancel(ctx context.Context, actor Actor, id string, reason string) (*models.ScheduleClass, error)
	Delete(ctx context.Context, id string) error

	// Enroll seats the student, or waitlists them when the class is full.
	Enroll(ctx context.Context, actor Actor, classID, studentID string) (*dto.EnrollmentResponse, error)
	// Unenroll frees the student's seat and promotes the first waitlisted student.
	Unenroll(ctx context.Context, actor Actor, classID, studentID string) (*dto.EnrollmentResponse, error)
	Students(ctx context.Context, actor Actor, classID string) (*dto.ClassStudentsResponse, error)

	// CompleteEnded marks classes that ended before now as completed.
	CompleteEnded(ctx context.Context, now time.Time) (int, error)
	// RegisterCompletionJob schedules CompleteEnded on the scheduler.
	RegisterCompletionJob(cronExpr string) error

	// Location is where class dates and times are read and written.
	Location() *time.Location
}
