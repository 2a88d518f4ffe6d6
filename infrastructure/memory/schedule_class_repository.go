package memory

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"time"

	"github.com/f2expert/f2expert-sub001/domain/models"
	"github.com/f2expert/f2expert-sub001/domain/repositories"
)

type classState struct {
	classes     map[string]models.ScheduleClass
	enrollments map[string]models.ClassEnrollment
}

func (s *classState) clone() classState {
	return classState{classes: maps.Clone(s.classes), enrollments: maps.Clone(s.enrollments)}
}

type ScheduleClassRepository struct {
	guard
	state *classState
}

func NewScheduleClassRepository() *ScheduleClassRepository {
	return &ScheduleClassRepository{
		guard: newGuard(),
		state: &classState{
			classes:     map[string]models.ScheduleClass{},
			enrollments: map[string]models.ClassEnrollment{},
		},
	}
}

// withEnrollments returns a copy of c carrying its enrollments, enrolled
// students first, then the waitlist by position.
func (r *ScheduleClassRepository) withEnrollments(c models.ScheduleClass) *models.ScheduleClass {
	c.Enrollments = nil
	for _, e := range r.state.enrollments {
		if e.ClassID == c.ID {
			c.Enrollments = append(c.Enrollments, e)
		}
	}
	slices.SortFunc(c.Enrollments, func(a, b models.ClassEnrollment) int {
		if n := cmp.Compare(a.Status, b.Status); n != 0 {
			return n
		}
		if n := cmp.Compare(a.Position, b.Position); n != 0 {
			return n
		}
		if n := a.EnrolledAt.Compare(b.EnrolledAt); n != 0 {
			return n
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return &c
}

func (r *ScheduleClassRepository) Create(ctx context.Context, class *models.ScheduleClass) error {
	defer r.lock()()
	if _, ok := r.state.classes[class.ID]; ok {
		return duplicate("class %s", class.ID)
	}
	touch(&class.CreatedAt, &class.UpdatedAt)
	stored := *class
	stored.Enrollments = nil
	r.state.classes[class.ID] = stored
	return nil
}

func (r *ScheduleClassRepository) GetByID(ctx context.Context, id string) (*models.ScheduleClass, error) {
	defer r.lock()()
	c, ok := r.state.classes[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return r.withEnrollments(c), nil
}

// GetByIDForUpdate needs no row lock here: a transaction holds the whole
// repository.
func (r *ScheduleClassRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.ScheduleClass, error) {
	return r.GetByID(ctx, id)
}

func (r *ScheduleClassRepository) Update(ctx context.Context, class *models.ScheduleClass) error {
	defer r.lock()()
	if _, ok := r.state.classes[class.ID]; !ok {
		return repositories.ErrNotFound
	}
	touch(&class.CreatedAt, &class.UpdatedAt)
	stored := *class
	stored.Enrollments = nil
	r.state.classes[class.ID] = stored
	return nil
}

func (r *ScheduleClassRepository) Delete(ctx context.Context, id string) error {
	defer r.lock()()
	if _, ok := r.state.classes[id]; !ok {
		return repositories.ErrNotFound
	}
	for eid, e := range r.state.enrollments {
		if e.ClassID == id {
			delete(r.state.enrollments, eid)
		}
	}
	delete(r.state.classes, id)
	return nil
}

func (r *ScheduleClassRepository) studentClassIDs(studentID string) map[string]bool {
	ids := map[string]bool{}
	for _, e := range r.state.enrollments {
		if e.StudentID == studentID {
			ids[e.ClassID] = true
		}
	}
	return ids
}

func (r *ScheduleClassRepository) List(ctx context.Context, filter repositories.ScheduleClassFilter) ([]*models.ScheduleClass, int64, error) {
	defer r.lock()()

	var studentClasses map[string]bool
	if filter.StudentID != "" {
		studentClasses = r.studentClassIDs(filter.StudentID)
	}

	var classes []*models.ScheduleClass
	for _, c := range r.state.classes {
		if filter.CourseID != "" && c.CourseID != filter.CourseID {
			continue
		}
		if filter.TrainerID != "" && c.TrainerID != filter.TrainerID {
			continue
		}
		if studentClasses != nil && !studentClasses[c.ID] {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.Mode != "" && c.Mode != filter.Mode {
			continue
		}
		if filter.From != nil && c.StartsAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !c.StartsAt.Before(*filter.To) {
			continue
		}
		classes = append(classes, r.withEnrollments(c))
	}

	sortItems(classes, filter.ListOptions, func(a, b *models.ScheduleClass) int {
		switch filter.SortBy {
		case "createdAt":
			return compareTime(a.CreatedAt, b.CreatedAt)
		case "title":
			return cmp.Compare(a.Title, b.Title)
		}
		return compareTime(a.StartsAt, b.StartsAt)
	}, func(c *models.ScheduleClass) string { return c.ID })

	classes, total := page(classes, filter.ListOptions)
	return classes, total, nil
}

func (r *ScheduleClassRepository) FindTrainerOverlaps(ctx context.Context, trainerID string, startsAt, endsAt time.Time, excludeID string) ([]*models.ScheduleClass, error) {
	defer r.lock()()

	var classes []*models.ScheduleClass
	for _, c := range r.state.classes {
		if c.TrainerID != trainerID || c.Status != models.ClassStatusScheduled || c.ID == excludeID {
			continue
		}
		if c.Overlaps(startsAt, endsAt) {
			classes = append(classes, &c)
		}
	}
	slices.SortFunc(classes, func(a, b *models.ScheduleClass) int {
		return compareTime(a.StartsAt, b.StartsAt)
	})
	return classes, nil
}

// LockTrainer is a no-op: a transaction already holds the whole repository.
func (r *ScheduleClassRepository) LockTrainer(ctx context.Context, trainerID string) error {
	return nil
}

func (r *ScheduleClassRepository) AddEnrollment(ctx context.Context, enrollment *models.ClassEnrollment) error {
	defer r.lock()()
	if _, ok := r.state.classes[enrollment.ClassID]; !ok {
		return repositories.ErrNotFound
	}
	for _, e := range r.state.enrollments {
		if e.ID == enrollment.ID || (e.ClassID == enrollment.ClassID && e.StudentID == enrollment.StudentID) {
			return duplicate("enrollment of %s in class %s", enrollment.StudentID, enrollment.ClassID)
		}
	}
	r.state.enrollments[enrollment.ID] = *enrollment
	return nil
}

func (r *ScheduleClassRepository) UpdateEnrollment(ctx context.Context, enrollment *models.ClassEnrollment) error {
	defer r.lock()()
	if _, ok := r.state.enrollments[enrollment.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.state.enrollments[enrollment.ID] = *enrollment
	return nil
}

func (r *ScheduleClassRepository) RemoveEnrollment(ctx context.Context, id string) error {
	defer r.lock()()
	if _, ok := r.state.enrollments[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.state.enrollments, id)
	return nil
}

func (r *ScheduleClassRepository) CompleteEnded(ctx context.Context, now time.Time) ([]string, error) {
	defer r.lock()()
	var ids []string
	for id, c := range r.state.classes {
		if c.Status == models.ClassStatusScheduled && c.EndsAt.Before(now) {
			c.Status = models.ClassStatusCompleted
			c.UpdatedAt = now
			r.state.classes[id] = c
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

// Transaction holds the repository for the duration of fn and restores the
// previous state when fn fails.
func (r *ScheduleClassRepository) Transaction(ctx context.Context, fn func(tx repositories.ScheduleClassRepository) error) error {
	if r.inTx {
		return fn(r)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := r.state.clone()
	tx := &ScheduleClassRepository{guard: guard{mu: r.mu, inTx: true}, state: r.state}
	if err := fn(tx); err != nil {
		*r.state = snapshot
		return err
	}
	return nil
}
