package serviceimpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f2expert/f2expert-sub001/domain/dto"
	"github.com/f2expert/f2expert-sub001/domain/models"
	"github.com/f2expert/f2expert-sub001/domain/ports"
	"github.com/f2expert/f2expert-sub001/domain/services"
	"github.com/f2expert/f2expert-sub001/pkg/apperr"
)

func (f *fixture) reviewService() services.ReviewService {
	return NewReviewService(f.reviews, f.courses, f.courseService(), f.events)
}

func (f *fixture) rating(t *testing.T, courseID string) (float64, int64) {
	t.Helper()
	c, err := f.courses.GetByID(f.ctx, courseID)
	require.NoError(t, err)
	return c.AverageRating, c.ReviewCount
}

func TestReviewService_CreateRecomputesRating(t *testing.T) {
	f := newFixture()
	trainer := f.user(t, models.RoleTrainer, "trainer")
	amy := f.user(t, models.RoleStudent, "amy")
	bob := f.user(t, models.RoleStudent, "bob")
	course := f.course(t, trainer.ID, true)
	svc := f.reviewService()

	review, err := svc.Create(f.ctx, actorOf(amy), &dto.CreateReviewRequest{CourseID: course.ID, Rating: 4, Comment: "solid"})
	require.NoError(t, err)
	assert.True(t, review.IsApproved)
	assert.Equal(t, amy.ID, review.StudentID)

	_, err = svc.Create(f.ctx, actorOf(bob), &dto.CreateReviewRequest{CourseID: course.ID, Rating: 5})
	require.NoError(t, err)

	avg, count := f.rating(t, course.ID)
	assert.Equal(t, 4.5, avg)
	assert.EqualValues(t, 2, count)
	assert.Contains(t, f.events.types(), ports.EventReviewCreated)

	_, err = svc.Create(f.ctx, actorOf(amy), &dto.CreateReviewRequest{CourseID: course.ID, Rating: 1})
	requireKind(t, err, apperr.KindConflict)
	assert.Equal(t, "Review already exists", apperr.Message(err))
}

func TestReviewService_CreateNeedsPublishedCourse(t *testing.T) {
	f := newFixture()
	trainer := f.user(t, models.RoleTrainer, "trainer")
	amy := f.user(t, models.RoleStudent, "amy")
	draft := f.course(t, trainer.ID, false)
	svc := f.reviewService()

	_, err := svc.Create(f.ctx, actorOf(amy), &dto.CreateReviewRequest{CourseID: draft.ID, Rating: 4})
	requireKind(t, err, apperr.KindNotFound)

	_, err = svc.Create(f.ctx, actorOf(amy), &dto.CreateReviewRequest{CourseID: "0123456789abcdef01234567", Rating: 4})
	requireKind(t, err, apperr.KindNotFound)
}

func TestReviewService_UpdateAndDeletePermissions(t *testing.T) {
	f := newFixture()
	admin := f.user(t, models.RoleAdmin, "admin")
	trainer := f.user(t, models.RoleTrainer, "trainer")
	amy := f.user(t, models.RoleStudent, "amy")
	bob := f.user(t, models.RoleStudent, "bob")
	course := f.course(t, trainer.ID, true)
	svc := f.reviewService()

	review, err := svc.Create(f.ctx, actorOf(amy), &dto.CreateReviewRequest{CourseID: course.ID, Rating: 2})
	require.NoError(t, err)

	rating := 5
	_, err = svc.Update(f.ctx, actorOf(bob), review.ID, &dto.UpdateReviewRequest{Rating: &rating})
	requireKind(t, err, apperr.KindForbidden)
	_, err = svc.Update(f.ctx, actorOf(admin), review.ID, &dto.UpdateReviewRequest{Rating: &rating})
	requireKind(t, err, apperr.KindForbidden)

	_, err = svc.Update(f.ctx, actorOf(amy), review.ID, &dto.UpdateReviewRequest{Rating: &rating})
	require.NoError(t, err)
	avg, _ := f.rating(t, course.ID)
	assert.Equal(t, 5.0, avg)

	requireKind(t, svc.Delete(f.ctx, actorOf(bob), review.ID), apperr.KindForbidden)
	require.NoError(t, svc.Delete(f.ctx, actorOf(admin), review.ID))

	avg, count := f.rating(t, course.ID)
	assert.Zero(t, avg)
	assert.Zero(t, count)

	_, err = svc.GetByID(f.ctx, nil, review.ID)
	requireKind(t, err, apperr.KindNotFound)
}

func TestReviewService_ModerationHidesFromPublic(t *testing.T) {
	f := newFixture()
	admin := f.user(t, models.RoleAdmin, "admin")
	trainer := f.user(t, models.RoleTrainer, "trainer")
	amy := f.user(t, models.RoleStudent, "amy")
	bob := f.user(t, models.RoleStudent, "bob")
	course := f.course(t, trainer.ID, true)
	svc := f.reviewService()

	_, err := svc.Create(f.ctx, actorOf(amy), &dto.CreateReviewRequest{CourseID: course.ID, Rating: 5})
	require.NoError(t, err)
	spam, err := svc.Create(f.ctx, actorOf(bob), &dto.CreateReviewRequest{CourseID: course.ID, Rating: 1})
	require.NoError(t, err)

	hidden, err := svc.SetApproved(f.ctx, spam.ID, false)
	require.NoError(t, err)
	assert.False(t, hidden.IsApproved)

	avg, count := f.rating(t, course.ID)
	assert.Equal(t, 5.0, avg)
	assert.EqualValues(t, 1, count)

	query := &dto.ReviewListQuery{}
	query.ApplyDefaults()
	_, total, err := svc.ListByCourse(f.ctx, nil, course.ID, query)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	all := &dto.ReviewListQuery{Status: "all"}
	all.ApplyDefaults()
	adminActor := actorOf(admin)
	_, total, err = svc.ListByCourse(f.ctx, &adminActor, course.ID, all)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	pending := &dto.ReviewListQuery{Status: "pending"}
	pending.ApplyDefaults()
	reviews, total, err := svc.ListByCourse(f.ctx, &adminActor, course.ID, pending)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, spam.ID, reviews[0].ID)

	// students asking for everything still only get approved reviews
	student := actorOf(amy)
	_, total, err = svc.ListByCourse(f.ctx, &student, course.ID, all)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	_, err = svc.GetByID(f.ctx, nil, spam.ID)
	requireKind(t, err, apperr.KindNotFound)
	_, err = svc.GetByID(f.ctx, &student, spam.ID)
	requireKind(t, err, apperr.KindNotFound)

	author := actorOf(bob)
	got, err := svc.GetByID(f.ctx, &author, spam.ID)
	require.NoError(t, err)
	assert.Equal(t, spam.ID, got.ID)

	got, err = svc.GetByID(f.ctx, &adminActor, spam.ID)
	require.NoError(t, err)
	assert.False(t, got.IsApproved)
}
