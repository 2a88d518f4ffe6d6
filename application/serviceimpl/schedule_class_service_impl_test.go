package serviceimpl

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f2expert/f2expert-sub001/domain/dto"
	"github.com/f2expert/f2expert-sub001/domain/models"
	"github.com/f2expert/f2expert-sub001/domain/ports"
	"github.com/f2expert/f2expert-sub001/pkg/apperr"
	"github.com/f2expert/f2expert-sub001/pkg/scheduler"
)

func (f *fixture) classService() *ScheduleClassServiceImpl {
	svc := NewScheduleClassService(f.classes, f.courses, f.users, f.events, scheduler.NewEventScheduler(time.UTC), f.cache, time.UTC)
	return svc.(*ScheduleClassServiceImpl)
}

func classRequest(courseID, trainerID, date, start, end string, capacity int) *dto.CreateScheduleClassRequest {
	return &dto.CreateScheduleClassRequest{
		CourseID:    courseID,
		TrainerID:   trainerID,
		Title:       "Live session",
		ClassDate:   date,
		StartTime:   start,
		EndTime:     end,
		Mode:        models.ClassModeOnline,
		MeetingLink: "https://meet.test/room",
		Capacity:    capacity,
	}
}

type classSetup struct {
	f       *fixture
	svc     *ScheduleClassServiceImpl
	admin   *models.User
	trainer *models.User
	course  *models.Course
}

func newClassSetup(t *testing.T) *classSetup {
	f := newFixture()
	trainer := f.user(t, models.RoleTrainer, "trainer")
	return &classSetup{
		f:       f,
		svc:     f.classService(),
		admin:   f.user(t, models.RoleAdmin, "admin"),
		trainer: trainer,
		course:  f.course(t, trainer.ID, true),
	}
}

func (s *classSetup) create(t *testing.T, date, start, end string, capacity int) *models.ScheduleClass {
	t.Helper()
	class, err := s.svc.Create(s.f.ctx, actorOf(s.admin), classRequest(s.course.ID, s.trainer.ID, date, start, end, capacity))
	require.NoError(t, err)
	return class
}

func TestScheduleClassService_CreateBuildsInstants(t *testing.T) {
	s := newClassSetup(t)
	class := s.create(t, "2030-05-01", "09:00", "10:30", 20)

	assert.Equal(t, time.Date(2030, 5, 1, 9, 0, 0, 0, time.UTC), class.StartsAt)
	assert.Equal(t, time.Date(2030, 5, 1, 10, 30, 0, 0, time.UTC), class.EndsAt)
	assert.Equal(t, models.ClassStatusScheduled, class.Status)
	assert.Equal(t, 20, class.AvailableSeats)

	event := s.f.events.last()
	assert.Equal(t, ports.EventClassCreated, event.Type)
	assert.Equal(t, ports.ClassRoom(class.ID), event.Room)
}

func TestScheduleClassService_TrainerConflicts(t *testing.T) {
	s := newClassSetup(t)
	s.create(t, "2030-05-01", "09:00", "10:00", 10)

	_, err := s.svc.Create(s.f.ctx, actorOf(s.admin), classRequest(s.course.ID, s.trainer.ID, "2030-05-01", "09:30", "11:00", 10))
	requireKind(t, err, apperr.KindConflict)
	assert.Equal(t, "Scheduling conflict: trainer already booked", apperr.Message(err))

	// back to back is fine
	s.create(t, "2030-05-01", "10:00", "11:00", 10)

	other := s.f.user(t, models.RoleTrainer, "other")
	_, err = s.svc.Create(s.f.ctx, actorOf(s.admin), classRequest(s.course.ID, other.ID, "2030-05-01", "09:30", "10:30", 10))
	require.NoError(t, err)
}

func TestScheduleClassService_CreatePermissions(t *testing.T) {
	s := newClassSetup(t)
	other := s.f.user(t, models.RoleTrainer, "other")

	_, err := s.svc.Create(s.f.ctx, actorOf(other), classRequest(s.course.ID, s.trainer.ID, "2030-05-01", "09:00", "10:00", 10))
	requireKind(t, err, apperr.KindForbidden)

	_, err = s.svc.Create(s.f.ctx, actorOf(s.trainer), classRequest(s.course.ID, s.trainer.ID, "2030-05-01", "09:00", "10:00", 10))
	require.NoError(t, err)

	_, err = s.svc.Create(s.f.ctx, actorOf(s.admin), classRequest("0123456789abcdef01234567", s.trainer.ID, "2030-05-02", "09:00", "10:00", 10))
	requireKind(t, err, apperr.KindNotFound)
}

func TestScheduleClassService_EnrollWaitlistAndPromote(t *testing.T) {
	s := newClassSetup(t)
	class := s.create(t, "2030-05-01", "09:00", "10:00", 1)
	amy := s.f.user(t, models.RoleStudent, "amy")
	bob := s.f.user(t, models.RoleStudent, "bob")
	cat := s.f.user(t, models.RoleStudent, "cat")
	ctx := s.f.ctx

	res, err := s.svc.Enroll(ctx, actorOf(amy), class.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentEnrolled, res.Status)
	assert.Equal(t, 0, res.AvailableSeats)

	res, err = s.svc.Enroll(ctx, actorOf(bob), class.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentWaitlisted, res.Status)
	assert.Equal(t, 1, res.Position)

	res, err = s.svc.Enroll(ctx, actorOf(s.admin), class.ID, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Position)

	_, err = s.svc.Enroll(ctx, actorOf(amy), class.ID, "")
	requireKind(t, err, apperr.KindConflict)
	assert.Contains(t, apperr.Message(err), "already enrolled")

	res, err = s.svc.Unenroll(ctx, actorOf(amy), class.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 0, res.AvailableSeats)
	assert.Equal(t, ports.EventClassPromoted, s.f.events.last().Type)

	students, err := s.svc.Students(ctx, actorOf(s.trainer), class.ID)
	require.NoError(t, err)
	require.Len(t, students.Enrolled, 1)
	assert.Equal(t, bob.ID, students.Enrolled[0].StudentID)
	assert.Equal(t, "bob Test", students.Enrolled[0].FullName)
	require.Len(t, students.Waitlisted, 1)
	assert.Equal(t, cat.ID, students.Waitlisted[0].StudentID)
	assert.Equal(t, 1, students.Waitlisted[0].Position)

	_, err = s.svc.Unenroll(ctx, actorOf(cat), class.ID, "")
	require.NoError(t, err)
	res, err = s.svc.Unenroll(ctx, actorOf(bob), class.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 1, res.AvailableSeats)

	_, err = s.svc.Unenroll(ctx, actorOf(bob), class.ID, "")
	requireKind(t, err, apperr.KindNotFound)
}

func TestScheduleClassService_EnrollRules(t *testing.T) {
	s := newClassSetup(t)
	class := s.create(t, "2030-05-01", "09:00", "10:00", 5)
	amy := s.f.user(t, models.RoleStudent, "amy")
	bob := s.f.user(t, models.RoleStudent, "bob")
	ctx := s.f.ctx

	_, err := s.svc.Enroll(ctx, actorOf(s.admin), class.ID, "")
	requireKind(t, err, apperr.KindValidation)

	_, err = s.svc.Enroll(ctx, actorOf(s.admin), class.ID, s.trainer.ID)
	requireKind(t, err, apperr.KindValidation)

	_, err = s.svc.Enroll(ctx, actorOf(amy), class.ID, bob.ID)
	requireKind(t, err, apperr.KindForbidden)

	_, err = s.svc.Enroll(ctx, actorOf(s.trainer), class.ID, amy.ID)
	requireKind(t, err, apperr.KindForbidden)

	_, err = s.svc.Cancel(ctx, actorOf(s.trainer), class.ID, "trainer ill")
	require.NoError(t, err)

	_, err = s.svc.Enroll(ctx, actorOf(amy), class.ID, "")
	requireKind(t, err, apperr.KindValidation)

	_, err = s.svc.Cancel(ctx, actorOf(s.admin), class.ID, "again")
	requireKind(t, err, apperr.KindValidation)
}

func TestScheduleClassService_UpdateCapacityPromotes(t *testing.T) {
	s := newClassSetup(t)
	class := s.create(t, "2030-05-01", "09:00", "10:00", 1)
	ctx := s.f.ctx
	for _, name := range []string{"amy", "bob", "cat"} {
		_, err := s.svc.Enroll(ctx, actorOf(s.f.user(t, models.RoleStudent, name)), class.ID, "")
		require.NoError(t, err)
	}

	capacity := 2
	updated, err := s.svc.Update(ctx, actorOf(s.trainer), class.ID, &dto.UpdateScheduleClassRequest{Capacity: &capacity})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Capacity)
	assert.Equal(t, 0, updated.AvailableSeats)

	students, err := s.svc.Students(ctx, actorOf(s.admin), class.ID)
	require.NoError(t, err)
	assert.Len(t, students.Enrolled, 2)
	require.Len(t, students.Waitlisted, 1)
	assert.Equal(t, 1, students.Waitlisted[0].Position)

	capacity = 1
	_, err = s.svc.Update(ctx, actorOf(s.admin), class.ID, &dto.UpdateScheduleClassRequest{Capacity: &capacity})
	requireKind(t, err, apperr.KindValidation)
}

func TestScheduleClassService_UpdateRechecksShape(t *testing.T) {
	s := newClassSetup(t)
	first := s.create(t, "2030-05-01", "09:00", "10:00", 5)
	s.create(t, "2030-05-01", "11:00", "12:00", 5)
	ctx := s.f.ctx

	end := "11:30"
	_, err := s.svc.Update(ctx, actorOf(s.admin), first.ID, &dto.UpdateScheduleClassRequest{EndTime: &end})
	requireKind(t, err, apperr.KindConflict)

	start := "10:30"
	_, err = s.svc.Update(ctx, actorOf(s.admin), first.ID, &dto.UpdateScheduleClassRequest{StartTime: &start})
	requireKind(t, err, apperr.KindValidation)

	mode := models.ClassModeOffline
	_, err = s.svc.Update(ctx, actorOf(s.admin), first.ID, &dto.UpdateScheduleClassRequest{Mode: &mode})
	requireKind(t, err, apperr.KindValidation)

	location := "Room 4"
	updated, err := s.svc.Update(ctx, actorOf(s.admin), first.ID, &dto.UpdateScheduleClassRequest{Mode: &mode, Location: &location})
	require.NoError(t, err)
	assert.Equal(t, models.ClassModeOffline, updated.Mode)

	stored, err := s.svc.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2030, 5, 1, 10, 0, 0, 0, time.UTC), stored.EndsAt)
}

func TestScheduleClassService_ListDateRangeIsInclusive(t *testing.T) {
	s := newClassSetup(t)
	s.create(t, "2030-05-01", "09:00", "10:00", 5)
	s.create(t, "2030-05-02", "21:00", "22:00", 5)
	s.create(t, "2030-05-03", "09:00", "10:00", 5)

	query := &dto.ScheduleClassListQuery{From: "2030-05-01", To: "2030-05-02"}
	query.ApplyDefaults()
	classes, total, err := s.svc.List(s.f.ctx, query)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.True(t, classes[0].StartsAt.Before(classes[1].StartsAt))
}

func TestScheduleClassService_ListForStudent(t *testing.T) {
	s := newClassSetup(t)
	first := s.create(t, "2030-05-01", "09:00", "10:00", 5)
	s.create(t, "2030-05-02", "09:00", "10:00", 5)
	amy := s.f.user(t, models.RoleStudent, "amy")
	_, err := s.svc.Enroll(s.f.ctx, actorOf(amy), first.ID, "")
	require.NoError(t, err)

	query := &dto.ScheduleClassListQuery{}
	query.ApplyDefaults()
	classes, total, err := s.svc.ListForStudent(s.f.ctx, amy.ID, query)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, first.ID, classes[0].ID)
}

func TestScheduleClassService_CompleteEnded(t *testing.T) {
	s := newClassSetup(t)
	past := s.create(t, "2020-01-01", "09:00", "10:00", 5)
	future := s.create(t, "2030-01-01", "09:00", "10:00", 5)

	n, err := s.svc.CompleteEnded(s.f.ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := s.svc.GetByID(s.f.ctx, past.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ClassStatusCompleted, got.Status)

	got, err = s.svc.GetByID(s.f.ctx, future.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ClassStatusScheduled, got.Status)

	event := s.f.events.last()
	assert.Equal(t, ports.EventClassCompleted, event.Type)
	assert.Equal(t, ports.ClassRoom(past.ID), event.Room)
}

func TestScheduleClassService_CompletionJobRespectsLock(t *testing.T) {
	s := newClassSetup(t)
	past := s.create(t, "2020-01-01", "09:00", "10:00", 5)

	held, err := s.f.cache.AcquireLock(s.f.ctx, completionLock, time.Minute)
	require.NoError(t, err)
	require.True(t, held)

	s.svc.runCompletion()
	got, err := s.svc.GetByID(s.f.ctx, past.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ClassStatusScheduled, got.Status)

	require.NoError(t, s.f.cache.ReleaseLock(s.f.ctx, completionLock))
	s.svc.runCompletion()
	got, err = s.svc.GetByID(s.f.ctx, past.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ClassStatusCompleted, got.Status)

	acquired, err := s.f.cache.AcquireLock(s.f.ctx, completionLock, time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired, "lock must be released after the run")
}

func TestScheduleClassService_RegisterCompletionJob(t *testing.T) {
	s := newClassSetup(t)
	require.NoError(t, s.svc.RegisterCompletionJob("*/15 * * * *"))

	jobs := s.svc.scheduler.ListJobs()
	require.Contains(t, jobs, CompletionJobID)
	assert.Equal(t, "*/15 * * * *", jobs[CompletionJobID].CronExpr)

	require.NoError(t, s.svc.RegisterCompletionJob("*/5 * * * *"))
	jobs = s.svc.scheduler.ListJobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "*/5 * * * *", jobs[CompletionJobID].CronExpr)
}

func TestScheduleClassService_ConcurrentCreatesBookTrainerOnce(t *testing.T) {
	s := newClassSetup(t)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.svc.Create(s.f.ctx, actorOf(s.admin), classRequest(s.course.ID, s.trainer.ID, "2030-05-01", "09:00", "10:00", 10))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				created++
			} else if apperr.Is(err, apperr.KindConflict) {
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, 7, conflicts)
}

func TestScheduleClassService_CancelDuringEnrollmentKeepsSeats(t *testing.T) {
	s := newClassSetup(t)
	class := s.create(t, "2030-05-01", "09:00", "10:00", 20)

	students := make([]*models.User, 10)
	for i := range students {
		students[i] = s.f.user(t, models.RoleStudent, fmt.Sprintf("student%d", i))
	}

	var wg sync.WaitGroup
	for _, student := range students {
		wg.Add(1)
		go func(student *models.User) {
			defer wg.Done()
			_, _ = s.svc.Enroll(s.f.ctx, actorOf(student), class.ID, "")
		}(student)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := s.svc.Cancel(s.f.ctx, actorOf(s.admin), class.ID, "trainer unavailable")
		assert.NoError(t, err)
	}()
	wg.Wait()

	stored, err := s.svc.GetByID(s.f.ctx, class.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ClassStatusCancelled, stored.Status)
	assert.Equal(t, "trainer unavailable", stored.CancelReason)
	enrolled, _ := splitEnrollments(stored.Enrollments)
	assert.Equal(t, stored.Capacity-len(enrolled), stored.AvailableSeats)
}
