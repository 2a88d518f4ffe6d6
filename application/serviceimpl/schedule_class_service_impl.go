package serviceimpl

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"time"

	"github.com/f2expert/f2expert-sub001/domain/dto"
	"github.com/f2expert/f2expert-sub001/domain/models"
	"github.com/f2expert/f2expert-sub001/domain/ports"
	"github.com/f2expert/f2expert-sub001/domain/repositories"
	"github.com/f2expert/f2expert-sub001/domain/services"
	"github.com/f2expert/f2expert-sub001/pkg/apperr"
	"github.com/f2expert/f2expert-sub001/pkg/logger"
	"github.com/f2expert/f2expert-sub001/pkg/scheduler"
	"github.com/f2expert/f2expert-sub001/pkg/utils"
)

const (
	msgClassNotFound      = "Class not found"
	msgEnrollmentNotFound = "Enrollment not found"
	msgTrainerBooked      = "Scheduling conflict: trainer already booked"
	msgAlreadyEnrolled    = "Student already enrolled in this class"

	CompletionJobID = "complete-ended-classes"
	completionLock  = "class-completion"
	completionTTL   = 5 * time.Minute
)

type ScheduleClassServiceImpl struct {
	classRepo  repositories.ScheduleClassRepository
	courseRepo repositories.CourseRepository
	userRepo   repositories.UserRepository
	events     ports.EventPublisher
	scheduler  scheduler.EventScheduler
	locker     ports.Locker
	loc        *time.Location
}

// NewScheduleClassService reads and writes class dates in loc. locker may be
// nil on a single instance.
func NewScheduleClassService(
	classRepo repositories.ScheduleClassRepository,
	courseRepo repositories.CourseRepository,
	userRepo repositories.UserRepository,
	events ports.EventPublisher,
	sched scheduler.EventScheduler,
	locker ports.Locker,
	loc *time.Location,
) services.ScheduleClassService {
	if loc == nil {
		loc = time.UTC
	}
	return &ScheduleClassServiceImpl{
		classRepo:  classRepo,
		courseRepo: courseRepo,
		userRepo:   userRepo,
		events:     events,
		scheduler:  sched,
		locker:     locker,
		loc:        loc,
	}
}

func (s *ScheduleClassServiceImpl) Location() *time.Location {
	return s.loc
}

// classRange turns a YYYY-MM-DD date and two HH:MM times into instants.
func (s *ScheduleClassServiceImpl) classRange(date, start, end string) (time.Time, time.Time, error) {
	startsAt, err := time.ParseInLocation(dto.DateLayout+" "+dto.TimeLayout, date+" "+start, s.loc)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Validation("Invalid class date or start time")
	}
	endsAt, err := time.ParseInLocation(dto.DateLayout+" "+dto.TimeLayout, date+" "+end, s.loc)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Validation("Invalid class date or end time")
	}
	if !endsAt.After(startsAt) {
		return time.Time{}, time.Time{}, apperr.Validation("endTime must be after startTime")
	}
	return startsAt, endsAt, nil
}

func (s *ScheduleClassServiceImpl) checkTrainerFree(ctx context.Context, repo repositories.ScheduleClassRepository, class *models.ScheduleClass) error {
	if err := repo.LockTrainer(ctx, class.TrainerID); err != nil {
		return err
	}
	overlaps, err := repo.FindTrainerOverlaps(ctx, class.TrainerID, class.StartsAt, class.EndsAt, class.ID)
	if err != nil {
		return err
	}
	if len(overlaps) > 0 {
		logger.WarnContext(ctx, "Trainer double booking rejected",
			"trainer_id", class.TrainerID, "conflicts_with", overlaps[0].ID)
		return apperr.Conflict(msgTrainerBooked)
	}
	return nil
}

// canManage reports whether actor may change class: admins always, trainers
// only their own classes.
func canManage(actor services.Actor, class *models.ScheduleClass) bool {
	return actor.IsAdmin() || (actor.IsTrainer() && class.TrainerID == actor.UserID)
}

func (s *ScheduleClassServiceImpl) Create(ctx context.Context, actor services.Actor, req *dto.CreateScheduleClassRequest) (*models.ScheduleClass, error) {
	if !actor.IsAdmin() && req.TrainerID != actor.UserID {
		return nil, apperr.Forbidden("Trainers can only schedule their own classes")
	}
	if _, err := s.courseRepo.GetByID(ctx, req.CourseID); err != nil {
		return nil, notFound(err, msgCourseNotFound)
	}
	if err := requireTrainer(ctx, s.userRepo, req.TrainerID); err != nil {
		return nil, err
	}

	startsAt, endsAt, err := s.classRange(req.ClassDate, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	class := &models.ScheduleClass{
		ID:             utils.NewDocumentID(),
		CourseID:       req.CourseID,
		TrainerID:      req.TrainerID,
		Title:          req.Title,
		Description:    req.Description,
		StartsAt:       startsAt,
		EndsAt:         endsAt,
		Mode:           req.Mode,
		MeetingLink:    req.MeetingLink,
		Location:       req.Location,
		Capacity:       req.Capacity,
		AvailableSeats: req.Capacity,
		Status:         models.ClassStatusScheduled,
		CreatedBy:      actor.UserID,
	}

	err = s.classRepo.Transaction(ctx, func(tx repositories.ScheduleClassRepository) error {
		if err := s.checkTrainerFree(ctx, tx, class); err != nil {
			return err
		}
		return tx.Create(ctx, class)
	})
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Class scheduled", "class_id", class.ID, "trainer_id", class.TrainerID, "starts_at", class.StartsAt)
	s.publishClass(ctx, ports.EventClassCreated, actor, class, nil)
	return class, nil
}

func (s *ScheduleClassServiceImpl) GetByID(ctx context.Context, id string) (*models.ScheduleClass, error) {
	class, err := s.classRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, msgClassNotFound)
	}
	return class, nil
}

func (s *ScheduleClassServiceImpl) filter(query *dto.ScheduleClassListQuery) (repositories.ScheduleClassFilter, error) {
	filter := repositories.ScheduleClassFilter{
		CourseID:  query.CourseID,
		TrainerID: query.TrainerID,
		Status:    query.Status,
		Mode:      query.Mode,
		ListOptions: repositories.ListOptions{
			Offset: query.Offset(),
			Limit:  query.Limit,
			SortBy: query.SortBy,
			Desc:   query.Desc(),
		},
	}
	if query.From != "" {
		from, err := time.ParseInLocation(dto.DateLayout, query.From, s.loc)
		if err != nil {
			return filter, apperr.Validation("from must be a YYYY-MM-DD date")
		}
		filter.From = &from
	}
	if query.To != "" {
		to, err := time.ParseInLocation(dto.DateLayout, query.To, s.loc)
		if err != nil {
			return filter, apperr.Validation("to must be a YYYY-MM-DD date")
		}
		// to is inclusive for callers, the repository bound is exclusive.
		to = to.AddDate(0, 0, 1)
		filter.To = &to
	}
	return filter, nil
}

func (s *ScheduleClassServiceImpl) List(ctx context.Context, query *dto.ScheduleClassListQuery) ([]*models.ScheduleClass, int64, error) {
	filter, err := s.filter(query)
	if err != nil {
		return nil, 0, err
	}
	return s.classRepo.List(ctx, filter)
}

func (s *ScheduleClassServiceImpl) ListForStudent(ctx context.Context, studentID string, query *dto.ScheduleClassListQuery) ([]*models.ScheduleClass, int64, error) {
	filter, err := s.filter(query)
	if err != nil {
		return nil, 0, err
	}
	filter.StudentID = studentID
	return s.classRepo.List(ctx, filter)
}

func (s *ScheduleClassServiceImpl) Update(ctx context.Context, actor services.Actor, id string, req *dto.UpdateScheduleClassRequest) (*models.ScheduleClass, error) {
	var (
		class    *models.ScheduleClass
		promoted []models.ClassEnrollment
	)

	err := s.classRepo.Transaction(ctx, func(tx repositories.ScheduleClassRepository) error {
		var err error
		class, err = tx.GetByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, msgClassNotFound)
		}
		if !canManage(actor, class) {
			return apperr.Forbidden("You can only update your own classes")
		}
		if class.Status != models.ClassStatusScheduled {
			return apperr.Validation("Only scheduled classes can be updated")
		}

		if req.TrainerID != nil && *req.TrainerID != class.TrainerID {
			if !actor.IsAdmin() {
				return apperr.Forbidden("Only admins can reassign a class")
			}
			if err := requireTrainer(ctx, s.userRepo, *req.TrainerID); err != nil {
				return err
			}
			class.TrainerID = *req.TrainerID
		}

		date := class.StartsAt.In(s.loc).Format(dto.DateLayout)
		start := class.StartsAt.In(s.loc).Format(dto.TimeLayout)
		end := class.EndsAt.In(s.loc).Format(dto.TimeLayout)
		if req.ClassDate != nil {
			date = *req.ClassDate
		}
		if req.StartTime != nil {
			start = *req.StartTime
		}
		if req.EndTime != nil {
			end = *req.EndTime
		}
		if class.StartsAt, class.EndsAt, err = s.classRange(date, start, end); err != nil {
			return err
		}

		if req.Title != nil {
			class.Title = *req.Title
		}
		if req.Description != nil {
			class.Description = *req.Description
		}
		if req.Mode != nil {
			class.Mode = *req.Mode
		}
		if req.MeetingLink != nil {
			class.MeetingLink = *req.MeetingLink
		}
		if req.Location != nil {
			class.Location = *req.Location
		}
		if err := dto.CheckClassShape(class, s.loc); err != nil {
			return err
		}
		if err := s.checkTrainerFree(ctx, tx, class); err != nil {
			return err
		}

		if req.Capacity != nil && *req.Capacity != class.Capacity {
			if promoted, err = s.resize(ctx, tx, class, *req.Capacity); err != nil {
				return err
			}
		}
		return tx.Update(ctx, class)
	})
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Class updated", "class_id", id)
	s.publishClass(ctx, ports.EventClassUpdated, actor, class, nil)
	for _, e := range promoted {
		s.publishClass(ctx, ports.EventClassPromoted, actor, class, map[string]any{"studentId": e.StudentID})
	}
	return class, nil
}

// resize changes the capacity of class, filling new seats from the
// waitlist. It returns the promoted enrollments.
func (s *ScheduleClassServiceImpl) resize(ctx context.Context, tx repositories.ScheduleClassRepository, class *models.ScheduleClass, capacity int) ([]models.ClassEnrollment, error) {
	enrolled, waitlist := splitEnrollments(class.Enrollments)
	if capacity < len(enrolled) {
		return nil, apperr.Validation("capacity cannot be below the number of enrolled students")
	}

	class.Capacity = capacity
	class.AvailableSeats = capacity - len(enrolled)

	var promoted []models.ClassEnrollment
	for len(waitlist) > 0 && class.AvailableSeats > 0 {
		next := waitlist[0]
		waitlist = waitlist[1:]
		next.Status = models.EnrollmentEnrolled
		next.Position = 0
		if err := tx.UpdateEnrollment(ctx, &next); err != nil {
			return nil, err
		}
		class.AvailableSeats--
		promoted = append(promoted, next)
	}
	if len(promoted) > 0 {
		if err := renumber(ctx, tx, waitlist); err != nil {
			return nil, err
		}
	}
	return promoted, nil
}

func (s *ScheduleClassServiceImpl) Cancel(ctx context.Context, actor services.Actor, id string, reason string) (*models.ScheduleClass, error) {
	var class *models.ScheduleClass
	err := s.classRepo.Transaction(ctx, func(tx repositories.ScheduleClassRepository) error {
		var err error
		class, err = tx.GetByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, msgClassNotFound)
		}
		if !canManage(actor, class) {
			return apperr.Forbidden("You can only cancel your own classes")
		}
		if class.Status != models.ClassStatusScheduled {
			return apperr.Validation("Only scheduled classes can be cancelled")
		}

		class.Status = models.ClassStatusCancelled
		class.CancelReason = reason
		return tx.Update(ctx, class)
	})
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Class cancelled", "class_id", id, "by", actor.UserID)
	s.publishClass(ctx, ports.EventClassCancelled, actor, class, map[string]any{"reason": reason})
	return class, nil
}

func (s *ScheduleClassServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.classRepo.Delete(ctx, id); err != nil {
		return notFound(err, msgClassNotFound)
	}
	logger.InfoContext(ctx, "Class deleted", "class_id", id)
	return nil
}

// resolveStudent decides whom an enrollment call is about. Students act
// for themselves; admins must name the student.
func (s *ScheduleClassServiceImpl) resolveStudent(ctx context.Context, actor services.Actor, studentID string) (string, error) {
	switch {
	case actor.IsStudent():
		if studentID != "" && studentID != actor.UserID {
			return "", apperr.Forbidden("Students can only enroll themselves")
		}
		return actor.UserID, nil
	case actor.IsAdmin():
		if studentID == "" {
			return "", apperr.Validation("studentId is required")
		}
		if _, err := requireRole(ctx, s.userRepo, studentID, models.RoleStudent, "studentId"); err != nil {
			return "", err
		}
		return studentID, nil
	}
	return "", apperr.Forbidden("Only students and admins can manage enrollments")
}

func (s *ScheduleClassServiceImpl) Enroll(ctx context.Context, actor services.Actor, classID, studentID string) (*dto.EnrollmentResponse, error) {
	studentID, err := s.resolveStudent(ctx, actor, studentID)
	if err != nil {
		return nil, err
	}

	var (
		class      *models.ScheduleClass
		enrollment *models.ClassEnrollment
	)
	err = s.classRepo.Transaction(ctx, func(tx repositories.ScheduleClassRepository) error {
		var err error
		class, err = tx.GetByIDForUpdate(ctx, classID)
		if err != nil {
			return notFound(err, msgClassNotFound)
		}
		if class.Status != models.ClassStatusScheduled {
			return apperr.Validation("Class is not open for enrollment")
		}
		if findEnrollment(class.Enrollments, studentID) != nil {
			return apperr.Conflict(msgAlreadyEnrolled)
		}

		enrollment = &models.ClassEnrollment{
			ID:         utils.NewDocumentID(),
			ClassID:    class.ID,
			StudentID:  studentID,
			EnrolledAt: time.Now(),
		}
		if class.AvailableSeats > 0 {
			enrollment.Status = models.EnrollmentEnrolled
			class.AvailableSeats--
			if err := tx.Update(ctx, class); err != nil {
				return err
			}
		} else {
			_, waitlist := splitEnrollments(class.Enrollments)
			enrollment.Status = models.EnrollmentWaitlisted
			enrollment.Position = len(waitlist) + 1
		}
		if err := tx.AddEnrollment(ctx, enrollment); err != nil {
			return conflict(err, msgAlreadyEnrolled)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	eventType := ports.EventClassEnrolled
	if enrollment.Status == models.EnrollmentWaitlisted {
		eventType = ports.EventClassWaitlisted
	}
	logger.InfoContext(ctx, "Student enrollment recorded",
		"class_id", classID, "student_id", studentID, "status", enrollment.Status, "position", enrollment.Position)
	s.publishClass(ctx, eventType, actor, class, map[string]any{"studentId": studentID, "position": enrollment.Position})

	return &dto.EnrollmentResponse{
		ClassID:        class.ID,
		StudentID:      studentID,
		Status:         enrollment.Status,
		Position:       enrollment.Position,
		AvailableSeats: class.AvailableSeats,
	}, nil
}

func (s *ScheduleClassServiceImpl) Unenroll(ctx context.Context, actor services.Actor, classID, studentID string) (*dto.EnrollmentResponse, error) {
	studentID, err := s.resolveStudent(ctx, actor, studentID)
	if err != nil {
		return nil, err
	}

	var (
		class    *models.ScheduleClass
		removed  models.ClassEnrollment
		promoted *models.ClassEnrollment
	)
	err = s.classRepo.Transaction(ctx, func(tx repositories.ScheduleClassRepository) error {
		var err error
		class, err = tx.GetByIDForUpdate(ctx, classID)
		if err != nil {
			return notFound(err, msgClassNotFound)
		}
		if class.Status != models.ClassStatusScheduled {
			return apperr.Validation("Class is no longer open for changes")
		}

		found := findEnrollment(class.Enrollments, studentID)
		if found == nil {
			return apperr.NotFound(msgEnrollmentNotFound)
		}
		removed = *found
		if err := tx.RemoveEnrollment(ctx, removed.ID); err != nil {
			return notFound(err, msgEnrollmentNotFound)
		}

		_, waitlist := splitEnrollments(class.Enrollments)
		waitlist = slicesWithout(waitlist, removed.ID)

		if removed.Status == models.EnrollmentEnrolled {
			if len(waitlist) == 0 {
				class.AvailableSeats++
				return tx.Update(ctx, class)
			}
			next := waitlist[0]
			waitlist = waitlist[1:]
			next.Status = models.EnrollmentEnrolled
			next.Position = 0
			if err := tx.UpdateEnrollment(ctx, &next); err != nil {
				return err
			}
			promoted = &next
		}
		return renumber(ctx, tx, waitlist)
	})
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Student unenrolled", "class_id", classID, "student_id", studentID, "was", removed.Status)
	s.publishClass(ctx, ports.EventClassUnenrolled, actor, class, map[string]any{"studentId": studentID})
	if promoted != nil {
		logger.InfoContext(ctx, "Waitlisted student promoted", "class_id", classID, "student_id", promoted.StudentID)
		s.publishClass(ctx, ports.EventClassPromoted, actor, class, map[string]any{"studentId": promoted.StudentID})
	}

	return &dto.EnrollmentResponse{
		ClassID:        class.ID,
		StudentID:      studentID,
		Status:         "unenrolled",
		AvailableSeats: class.AvailableSeats,
	}, nil
}

func (s *ScheduleClassServiceImpl) Students(ctx context.Context, actor services.Actor, classID string) (*dto.ClassStudentsResponse, error) {
	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		return nil, notFound(err, msgClassNotFound)
	}
	if !canManage(actor, class) {
		return nil, apperr.Forbidden("You can only view students of your own classes")
	}

	ids := make([]string, 0, len(class.Enrollments))
	for _, e := range class.Enrollments {
		ids = append(ids, e.StudentID)
	}
	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	resp := &dto.ClassStudentsResponse{
		ClassID:    class.ID,
		Enrolled:   []*dto.ClassStudentResponse{},
		Waitlisted: []*dto.ClassStudentResponse{},
	}
	for _, e := range class.Enrollments {
		student := &dto.ClassStudentResponse{
			StudentID:  e.StudentID,
			Status:     e.Status,
			Position:   e.Position,
			EnrolledAt: e.EnrolledAt,
		}
		if u, ok := byID[e.StudentID]; ok {
			student.FullName = u.FullName()
			student.Email = u.Email
		}
		if e.Status == models.EnrollmentWaitlisted {
			resp.Waitlisted = append(resp.Waitlisted, student)
		} else {
			resp.Enrolled = append(resp.Enrolled, student)
		}
	}
	return resp, nil
}

func (s *ScheduleClassServiceImpl) CompleteEnded(ctx context.Context, now time.Time) (int, error) {
	ids, err := s.classRepo.CompleteEnded(ctx, now)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to complete ended classes", "error", err)
		return 0, err
	}
	for _, id := range ids {
		publish(ctx, s.events, ports.DomainEvent{
			Type:     ports.EventClassCompleted,
			EntityID: id,
			Room:     ports.ClassRoom(id),
		})
	}
	if len(ids) > 0 {
		logger.InfoContext(ctx, "Ended classes completed", "count", len(ids))
	}
	return len(ids), nil
}

// RegisterCompletionJob schedules the completion sweep, replacing an
// earlier registration so the cron can be changed at runtime.
func (s *ScheduleClassServiceImpl) RegisterCompletionJob(cronExpr string) error {
	if s.scheduler == nil {
		return errors.New("scheduler is not configured")
	}
	if _, exists := s.scheduler.ListJobs()[CompletionJobID]; exists {
		if err := s.scheduler.RemoveJob(CompletionJobID); err != nil {
			return err
		}
	}
	return s.scheduler.AddJob(CompletionJobID, cronExpr, s.runCompletion)
}

// runCompletion is the scheduled body of CompleteEnded. With a locker only
// one instance does the work per tick.
func (s *ScheduleClassServiceImpl) runCompletion() {
	ctx, cancel := context.WithTimeout(context.Background(), completionTTL)
	defer cancel()

	if s.locker != nil {
		ok, err := s.locker.AcquireLock(ctx, completionLock, completionTTL)
		if err != nil {
			logger.WarnContext(ctx, "Failed to acquire class completion lock", "error", err)
			return
		}
		if !ok {
			logger.DebugContext(ctx, "Class completion running elsewhere")
			return
		}
		defer func() {
			if err := s.locker.ReleaseLock(context.Background(), completionLock); err != nil {
				logger.WarnContext(ctx, "Failed to release class completion lock", "error", err)
			}
		}()
	}

	_, _ = s.CompleteEnded(ctx, time.Now())
}

func (s *ScheduleClassServiceImpl) publishClass(ctx context.Context, eventType string, actor services.Actor, class *models.ScheduleClass, extra map[string]any) {
	data := map[string]any{
		"classId":        class.ID,
		"status":         class.Status,
		"availableSeats": class.AvailableSeats,
	}
	for k, v := range extra {
		data[k] = v
	}
	publish(ctx, s.events, ports.DomainEvent{
		Type:     eventType,
		EntityID: class.ID,
		ActorID:  actor.UserID,
		Room:     ports.ClassRoom(class.ID),
		Data:     data,
	})
}

func findEnrollment(enrollments []models.ClassEnrollment, studentID string) *models.ClassEnrollment {
	for i := range enrollments {
		if enrollments[i].StudentID == studentID {
			return &enrollments[i]
		}
	}
	return nil
}

// splitEnrollments separates seats from the waitlist, keeping the waitlist
// in position order.
func splitEnrollments(enrollments []models.ClassEnrollment) (enrolled, waitlist []models.ClassEnrollment) {
	for _, e := range enrollments {
		if e.Status == models.EnrollmentWaitlisted {
			waitlist = append(waitlist, e)
		} else {
			enrolled = append(enrolled, e)
		}
	}
	slices.SortStableFunc(waitlist, func(a, b models.ClassEnrollment) int {
		return cmp.Compare(a.Position, b.Position)
	})
	return enrolled, waitlist
}

func slicesWithout(enrollments []models.ClassEnrollment, id string) []models.ClassEnrollment {
	return slices.DeleteFunc(enrollments, func(e models.ClassEnrollment) bool {
		return e.ID == id
	})
}

// renumber closes gaps in the waitlist so positions run 1..n.
func renumber(ctx context.Context, tx repositories.ScheduleClassRepository, waitlist []models.ClassEnrollment) error {
	for i := range waitlist {
		if waitlist[i].Position == i+1 {
			continue
		}
		waitlist[i].Position = i + 1
		if err := tx.UpdateEnrollment(ctx, &waitlist[i]); err != nil {
			return err
		}
	}
	return nil
}
