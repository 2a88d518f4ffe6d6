package serviceimpl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f2expert/f2expert-sub001/domain/dto"
	"github.com/f2expert/f2expert-sub001/domain/models"
	"github.com/f2expert/f2expert-sub001/domain/ports"
	"github.com/f2expert/f2expert-sub001/pkg/apperr"
)

func newCourseRequest(trainerID, title string) *dto.CreateCourseRequest {
	req := &dto.CreateCourseRequest{
		Title:     title,
		Category:  "programming",
		Level:     models.LevelBeginner,
		TrainerID: trainerID,
		Tags:      []string{"go"},
	}
	req.ApplyDefaults()
	return req
}

func TestCourseService_CreateSlugs(t *testing.T) {
	f := newFixture()
	admin := f.user(t, models.RoleAdmin, "admin")
	trainer := f.user(t, models.RoleTrainer, "trainer")
	svc := f.courseService()

	first, err := svc.Create(f.ctx, actorOf(admin), newCourseRequest(trainer.ID, "Go Basics"))
	require.NoError(t, err)
	assert.Equal(t, "go-basics", first.Slug)
	assert.Equal(t, "INR", first.Currency)
	assert.Equal(t, admin.ID, first.CreatedBy)
	assert.Len(t, first.ID, 24)

	second, err := svc.Create(f.ctx, actorOf(admin), newCourseRequest(trainer.ID, "Go Basics"))
	require.NoError(t, err)
	assert.NotEqual(t, first.Slug, second.Slug)
	assert.True(t, strings.HasPrefix(second.Slug, "go-basics-"))
}

func TestCourseService_CreateRequiresTrainer(t *testing.T) {
	f := newFixture()
	admin := f.user(t, models.RoleAdmin, "admin")
	student := f.user(t, models.RoleStudent, "student")
	svc := f.courseService()

	_, err := svc.Create(f.ctx, actorOf(admin), newCourseRequest(student.ID, "Go Basics"))
	requireKind(t, err, apperr.KindValidation)

	_, err = svc.Create(f.ctx, actorOf(admin), newCourseRequest("0123456789abcdef01234567", "Go Basics"))
	requireKind(t, err, apperr.KindValidation)
}

func TestCourseService_VisibilityAndCache(t *testing.T) {
	f := newFixture()
	trainer := f.user(t, models.RoleTrainer, "trainer")
	draft := f.course(t, trainer.ID, false)
	svc := f.courseService()

	_, err := svc.GetByID(f.ctx, draft.ID, false)
	requireKind(t, err, apperr.KindNotFound)

	got, err := svc.GetByID(f.ctx, draft.ID, true)
	require.NoError(t, err)
	assert.Equal(t, draft.Title, got.Title)

	var cached models.Course
	require.NoError(t, f.cache.GetJSON(f.ctx, courseCacheKey(draft.ID), &cached))
	assert.Equal(t, draft.ID, cached.ID)

	title := "Advanced Go"
	_, err = svc.Update(f.ctx, actorOf(trainer), draft.ID, &dto.UpdateCourseRequest{Title: &title})
	require.NoError(t, err)
	assert.ErrorIs(t, f.cache.GetJSON(f.ctx, courseCacheKey(draft.ID), &cached), ports.ErrCacheMiss)

	got, err = svc.GetByID(f.ctx, draft.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "Advanced Go", got.Title)
	assert.Equal(t, "advanced-go", got.Slug)
}

func TestCourseService_ListHidesDraftsFromPublic(t *testing.T) {
	f := newFixture()
	trainer := f.user(t, models.RoleTrainer, "trainer")
	f.course(t, trainer.ID, true)
	f.course(t, trainer.ID, false)
	svc := f.courseService()

	query := &dto.CourseListQuery{}
	query.ApplyDefaults()

	courses, total, err := svc.List(f.ctx, query, false)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.True(t, courses[0].IsPublished)

	_, total, err = svc.List(f.ctx, query, true)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

func TestCourseService_UpdateOwnership(t *testing.T) {
	f := newFixture()
	owner := f.user(t, models.RoleTrainer, "owner")
	other := f.user(t, models.RoleTrainer, "other")
	student := f.user(t, models.RoleStudent, "student")
	course := f.course(t, owner.ID, true)
	svc := f.courseService()

	price := 499.0
	_, err := svc.Update(f.ctx, actorOf(other), course.ID, &dto.UpdateCourseRequest{Price: &price})
	requireKind(t, err, apperr.KindForbidden)

	_, err = svc.Update(f.ctx, actorOf(student), course.ID, &dto.UpdateCourseRequest{Price: &price})
	requireKind(t, err, apperr.KindForbidden)

	_, err = svc.Update(f.ctx, actorOf(owner), course.ID, &dto.UpdateCourseRequest{TrainerID: &other.ID})
	requireKind(t, err, apperr.KindForbidden)

	updated, err := svc.Update(f.ctx, actorOf(owner), course.ID, &dto.UpdateCourseRequest{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 499.0, updated.Price)
	assert.Equal(t, course.Slug, updated.Slug)

	_, err = svc.Update(f.ctx, actorOf(owner), "0123456789abcdef01234567", &dto.UpdateCourseRequest{Price: &price})
	requireKind(t, err, apperr.KindNotFound)
}

func TestCourseService_PublishEmitsEvent(t *testing.T) {
	f := newFixture()
	admin := f.user(t, models.RoleAdmin, "admin")
	trainer := f.user(t, models.RoleTrainer, "trainer")
	course := f.course(t, trainer.ID, false)
	svc := f.courseService()

	got, err := svc.SetPublished(f.ctx, actorOf(admin), course.ID, true)
	require.NoError(t, err)
	assert.True(t, got.IsPublished)
	assert.Equal(t, []string{ports.EventCoursePublished}, f.events.types())

	_, err = svc.SetPublished(f.ctx, actorOf(admin), course.ID, true)
	require.NoError(t, err)
	assert.Len(t, f.events.types(), 1)
}

func TestCourseService_UploadThumbnailReplacesOld(t *testing.T) {
	f := newFixture()
	trainer := f.user(t, models.RoleTrainer, "trainer")
	course := f.course(t, trainer.ID, true)
	svc := f.courseService()

	first, err := svc.UploadThumbnail(f.ctx, course.ID, strings.NewReader("png-1"), 5, "cover.png", "image/png")
	require.NoError(t, err)
	assert.Contains(t, first.ThumbnailURL, "courses/"+course.ID)
	firstPath := first.ThumbnailPath

	second, err := svc.UploadThumbnail(f.ctx, course.ID, strings.NewReader("png-2"), 5, "cover-2.png", "image/png")
	require.NoError(t, err)
	assert.NotEqual(t, firstPath, second.ThumbnailPath)
	assert.Contains(t, f.storage.deleted, firstPath)
	assert.Contains(t, f.storage.files, second.ThumbnailPath)
}

func TestCourseService_DeleteIsSoft(t *testing.T) {
	f := newFixture()
	trainer := f.user(t, models.RoleTrainer, "trainer")
	course := f.course(t, trainer.ID, true)
	svc := f.courseService()

	_, err := svc.GetByID(f.ctx, course.ID, false)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(f.ctx, course.ID))
	_, err = svc.GetByID(f.ctx, course.ID, true)
	requireKind(t, err, apperr.KindNotFound)

	taken, err := f.courses.SlugExists(f.ctx, course.Slug)
	require.NoError(t, err)
	assert.True(t, taken)

	requireKind(t, svc.Delete(f.ctx, course.ID), apperr.KindNotFound)
}
