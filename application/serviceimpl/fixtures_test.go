package serviceimpl

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/f2expert/f2expert-sub001/domain/models"
	"github.com/f2expert/f2expert-sub001/domain/ports"
	"github.com/f2expert/f2expert-sub001/domain/services"
	"github.com/f2expert/f2expert-sub001/infrastructure/memory"
	"github.com/f2expert/f2expert-sub001/pkg/apperr"
	"github.com/f2expert/f2expert-sub001/pkg/utils"
)

type eventLog struct {
	mu     sync.Mutex
	events []ports.DomainEvent
}

func (l *eventLog) Publish(ctx context.Context, event ports.DomainEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
	return nil
}

func (l *eventLog) types() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.events))
	for _, e := range l.events {
		out = append(out, e.Type)
	}
	return out
}

func (l *eventLog) last() ports.DomainEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.events[len(l.events)-1]
}

type fakeStorage struct {
	files   map[string][]byte
	deleted []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{files: map[string][]byte{}}
}

func (s *fakeStorage) UploadFile(ctx context.Context, file io.Reader, size int64, path string, contentType string) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	s.files[path] = data
	return s.GetFileURL(path), nil
}

func (s *fakeStorage) DeleteFile(ctx context.Context, path string) error {
	delete(s.files, path)
	s.deleted = append(s.deleted, path)
	return nil
}

func (s *fakeStorage) GetFileURL(path string) string {
	return "https://cdn.test/" + path
}

func (s *fakeStorage) GetProviderName() string {
	return "fake"
}

type fixture struct {
	ctx      context.Context
	users    *memory.UserRepository
	courses  *memory.CourseRepository
	reviews  *memory.ReviewRepository
	classes  *memory.ScheduleClassRepository
	salaries *memory.TrainerSalaryRepository
	menu     *memory.MenuRepository
	cache    *memory.Cache
	storage  *fakeStorage
	events   *eventLog
}

func newFixture() *fixture {
	return &fixture{
		ctx:      context.Background(),
		users:    memory.NewUserRepository(),
		courses:  memory.NewCourseRepository(),
		reviews:  memory.NewReviewRepository(),
		classes:  memory.NewScheduleClassRepository(),
		salaries: memory.NewTrainerSalaryRepository(),
		menu:     memory.NewMenuRepository(),
		cache:    memory.NewCache(),
		storage:  newFakeStorage(),
		events:   &eventLog{},
	}
}

func (f *fixture) courseService() services.CourseService {
	return NewCourseService(f.courses, f.reviews, f.users, f.storage, f.cache, f.events, time.Minute)
}

func (f *fixture) user(t *testing.T, role, name string) *models.User {
	t.Helper()
	u := &models.User{
		ID:        utils.NewDocumentID(),
		Email:     name + "@lms.test",
		Username:  name,
		FirstName: name,
		LastName:  "Test",
		Role:      role,
		IsActive:  true,
	}
	require.NoError(t, f.users.Create(f.ctx, u))
	return u
}

func (f *fixture) course(t *testing.T, trainerID string, published bool) *models.Course {
	t.Helper()
	id := utils.NewDocumentID()
	c := &models.Course{
		ID:          id,
		Title:       "Course " + id,
		Slug:        "course-" + id,
		Category:    "dev",
		Level:       models.LevelBeginner,
		Currency:    "INR",
		TrainerID:   trainerID,
		IsPublished: published,
	}
	require.NoError(t, f.courses.Create(f.ctx, c))
	return c
}

func actorOf(u *models.User) services.Actor {
	return services.Actor{UserID: u.ID, Role: u.Role}
}

func requireKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, apperr.KindOf(err), "unexpected error: %v", err)
}
