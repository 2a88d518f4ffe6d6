package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f2expert/f2expert-sub001/domain/models"
	"github.com/f2expert/f2expert-sub001/domain/ports"
	"github.com/f2expert/f2expert-sub001/domain/repositories"
	"github.com/f2expert/f2expert-sub001/pkg/utils"
)

func TestUserRepository_UniqueEmailIgnoresCase(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	require.NoError(t, repo.Create(ctx, &models.User{ID: utils.NewDocumentID(), Email: "a@x.io", Username: "a"}))
	err := repo.Create(ctx, &models.User{ID: utils.NewDocumentID(), Email: "A@X.io", Username: "b"})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	u, err := repo.GetByEmail(ctx, "A@x.IO")
	require.NoError(t, err)
	assert.Equal(t, "a", u.Username)
}

func TestUserRepository_ListFiltersAndPages(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"amy", "bob", "cat", "dan"} {
		role := models.RoleStudent
		if i%2 == 1 {
			role = models.RoleTrainer
		}
		require.NoError(t, repo.Create(ctx, &models.User{
			ID: utils.NewDocumentID(), Email: name + "@x.io", Username: name, Role: role,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	users, total, err := repo.List(ctx, repositories.UserFilter{
		Role:        models.RoleStudent,
		ListOptions: repositories.ListOptions{Limit: 1, Desc: true},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, users, 1)
	assert.Equal(t, "cat", users[0].Username)

	users, total, err = repo.List(ctx, repositories.UserFilter{Search: "B", ListOptions: repositories.ListOptions{Limit: 10}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "bob", users[0].Username)
}

func TestPage_ClampsOffset(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	got, total := page(items, repositories.ListOptions{Offset: -40, Limit: 2})
	assert.Equal(t, []int{1, 2}, got)
	assert.EqualValues(t, 5, total)

	got, total = page(items, repositories.ListOptions{Offset: 10, Limit: 2})
	assert.Empty(t, got)
	assert.EqualValues(t, 5, total)

	got, _ = page(items, repositories.ListOptions{Offset: 3, Limit: 10})
	assert.Equal(t, []int{4, 5}, got)
}

func TestCourseRepository_SoftDeleteKeepsSlug(t *testing.T) {
	ctx := context.Background()
	repo := NewCourseRepository()
	course := &models.Course{ID: utils.NewDocumentID(), Title: "Go", Slug: "go"}
	require.NoError(t, repo.Create(ctx, course))

	require.NoError(t, repo.Delete(ctx, course.ID))

	_, err := repo.GetByID(ctx, course.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, course.ID), repositories.ErrNotFound)

	exists, err := repo.SlugExists(ctx, "go")
	require.NoError(t, err)
	assert.True(t, exists)

	_, total, err := repo.List(ctx, repositories.CourseFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestCourseRepository_SearchMatchesTags(t *testing.T) {
	ctx := context.Background()
	repo := NewCourseRepository()
	require.NoError(t, repo.Create(ctx, &models.Course{ID: utils.NewDocumentID(), Title: "Backend", Slug: "backend", Tags: []string{"golang"}}))
	require.NoError(t, repo.Create(ctx, &models.Course{ID: utils.NewDocumentID(), Title: "Frontend", Slug: "frontend"}))

	courses, total, err := repo.List(ctx, repositories.CourseFilter{Search: "golang"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "backend", courses[0].Slug)
}

func TestReviewRepository_RatingStatsCountsApprovedOnly(t *testing.T) {
	ctx := context.Background()
	repo := NewReviewRepository()
	courseID := utils.NewDocumentID()
	for i, r := range []struct {
		rating   int
		approved bool
	}{{5, true}, {4, true}, {1, false}} {
		require.NoError(t, repo.Create(ctx, &models.Review{
			ID: utils.NewDocumentID(), CourseID: courseID, StudentID: string(rune('a' + i)),
			Rating: r.rating, IsApproved: r.approved,
		}))
	}

	avg, count, err := repo.RatingStats(ctx, courseID)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, avg, 0.0001)
	assert.EqualValues(t, 2, count)

	err = repo.Create(ctx, &models.Review{ID: utils.NewDocumentID(), CourseID: courseID, StudentID: "a", Rating: 3})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)
}

func TestScheduleClassRepository_TransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	repo := NewScheduleClassRepository()
	class := &models.ScheduleClass{ID: utils.NewDocumentID(), Capacity: 1, AvailableSeats: 1, Status: models.ClassStatusScheduled}
	require.NoError(t, repo.Create(ctx, class))

	boom := errors.New("boom")
	err := repo.Transaction(ctx, func(tx repositories.ScheduleClassRepository) error {
		locked, err := tx.GetByIDForUpdate(ctx, class.ID)
		require.NoError(t, err)
		locked.AvailableSeats = 0
		require.NoError(t, tx.Update(ctx, locked))
		require.NoError(t, tx.AddEnrollment(ctx, &models.ClassEnrollment{
			ID: utils.NewDocumentID(), ClassID: class.ID, StudentID: "s1", Status: models.EnrollmentEnrolled,
		}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := repo.GetByID(ctx, class.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.AvailableSeats)
	assert.Empty(t, got.Enrollments)
}

func TestScheduleClassRepository_EnrollmentOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewScheduleClassRepository()
	classID := utils.NewDocumentID()
	require.NoError(t, repo.Create(ctx, &models.ScheduleClass{ID: classID}))

	now := time.Now()
	require.NoError(t, repo.AddEnrollment(ctx, &models.ClassEnrollment{ID: "e3", ClassID: classID, StudentID: "w2", Status: models.EnrollmentWaitlisted, Position: 2, EnrolledAt: now}))
	require.NoError(t, repo.AddEnrollment(ctx, &models.ClassEnrollment{ID: "e1", ClassID: classID, StudentID: "s1", Status: models.EnrollmentEnrolled, EnrolledAt: now.Add(time.Minute)}))
	require.NoError(t, repo.AddEnrollment(ctx, &models.ClassEnrollment{ID: "e2", ClassID: classID, StudentID: "w1", Status: models.EnrollmentWaitlisted, Position: 1, EnrolledAt: now.Add(2 * time.Minute)}))

	err := repo.AddEnrollment(ctx, &models.ClassEnrollment{ID: "e4", ClassID: classID, StudentID: "s1"})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	class, err := repo.GetByID(ctx, classID)
	require.NoError(t, err)
	var students []string
	for _, e := range class.Enrollments {
		students = append(students, e.StudentID)
	}
	assert.Equal(t, []string{"s1", "w1", "w2"}, students)
}

func TestScheduleClassRepository_OverlapsAndCompletion(t *testing.T) {
	ctx := context.Background()
	repo := NewScheduleClassRepository()
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	existing := &models.ScheduleClass{
		ID: utils.NewDocumentID(), TrainerID: "t1", Status: models.ClassStatusScheduled,
		StartsAt: start, EndsAt: start.Add(time.Hour),
	}
	require.NoError(t, repo.Create(ctx, existing))

	hits, err := repo.FindTrainerOverlaps(ctx, "t1", start.Add(30*time.Minute), start.Add(90*time.Minute), "")
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	hits, err = repo.FindTrainerOverlaps(ctx, "t1", start.Add(time.Hour), start.Add(2*time.Hour), "")
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = repo.FindTrainerOverlaps(ctx, "t1", start, start.Add(time.Hour), existing.ID)
	require.NoError(t, err)
	assert.Empty(t, hits)

	ids, err := repo.CompleteEnded(ctx, start.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []string{existing.ID}, ids)

	got, err := repo.GetByID(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ClassStatusCompleted, got.Status)
}

func TestTrainerSalaryRepository_PeriodUniqueAndSummary(t *testing.T) {
	ctx := context.Background()
	repo := NewTrainerSalaryRepository()

	newSalary := func(trainer string, month int, status string, base int64) *models.TrainerSalary {
		s := &models.TrainerSalary{
			ID: utils.NewDocumentID(), TrainerID: trainer, Month: month, Year: 2026, Status: status,
			BaseSalary: decimal.NewFromInt(base),
			Components: []models.SalaryComponent{{Kind: models.ComponentDeduction, Name: "tax", Amount: decimal.NewFromInt(10)}},
		}
		s.Recalculate()
		return s
	}

	require.NoError(t, repo.Create(ctx, newSalary("t1", 1, models.SalaryStatusPaid, 100)))
	require.NoError(t, repo.Create(ctx, newSalary("t1", 2, models.SalaryStatusPending, 200)))
	require.NoError(t, repo.Create(ctx, newSalary("t1", 3, models.SalaryStatusPending, 300)))
	assert.ErrorIs(t, repo.Create(ctx, newSalary("t1", 3, models.SalaryStatusPending, 1)), repositories.ErrDuplicate)

	rows, err := repo.Summary(ctx, "t1", 2026)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, models.SalaryStatusPaid, rows[0].Status)
	assert.Equal(t, models.SalaryStatusPending, rows[1].Status)
	assert.EqualValues(t, 2, rows[1].Count)
	assert.True(t, rows[1].NetSalary.Equal(decimal.NewFromInt(480)))
}

func TestTrainerSalaryRepository_TransactionRollsBackBatch(t *testing.T) {
	ctx := context.Background()
	repo := NewTrainerSalaryRepository()

	err := repo.Transaction(ctx, func(tx repositories.TrainerSalaryRepository) error {
		if err := tx.Create(ctx, &models.TrainerSalary{ID: utils.NewDocumentID(), TrainerID: "t1", Month: 1, Year: 2026}); err != nil {
			return err
		}
		return tx.Create(ctx, &models.TrainerSalary{ID: utils.NewDocumentID(), TrainerID: "t1", Month: 1, Year: 2026})
	})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	_, total, err := repo.List(ctx, repositories.TrainerSalaryFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestMenuRepository_MaxSortOrderPerParent(t *testing.T) {
	ctx := context.Background()
	repo := NewMenuRepository()
	parent := "p1"
	require.NoError(t, repo.Create(ctx, &models.MenuItem{ID: "p1", Title: "Root", SortOrder: 3}))
	require.NoError(t, repo.Create(ctx, &models.MenuItem{ID: "c1", Title: "Child", ParentID: &parent, SortOrder: 7}))

	rootMax, err := repo.GetMaxSortOrder(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, rootMax)

	childMax, err := repo.GetMaxSortOrder(ctx, &parent)
	require.NoError(t, err)
	assert.Equal(t, 7, childMax)

	err = repo.UpdateMany(ctx, []*models.MenuItem{{ID: "c1", SortOrder: 1}, {ID: "missing"}})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	child, err := repo.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 7, child.SortOrder)
}

func TestCache_PatternDeleteAndExpiry(t *testing.T) {
	ctx := context.Background()
	cache := NewCache()
	require.NoError(t, cache.SetJSON(ctx, "menu:tree:admin", []string{"a"}, time.Minute))
	require.NoError(t, cache.SetJSON(ctx, "course:1", map[string]int{"n": 1}, time.Minute))
	require.NoError(t, cache.SetJSON(ctx, "stale", 1, time.Nanosecond))

	require.NoError(t, cache.DeletePattern(ctx, "menu:*"))

	var tree []string
	assert.ErrorIs(t, cache.GetJSON(ctx, "menu:tree:admin", &tree), ports.ErrCacheMiss)

	var course map[string]int
	require.NoError(t, cache.GetJSON(ctx, "course:1", &course))
	assert.Equal(t, 1, course["n"])

	time.Sleep(time.Millisecond)
	var n int
	assert.ErrorIs(t, cache.GetJSON(ctx, "stale", &n), ports.ErrCacheMiss)
}
