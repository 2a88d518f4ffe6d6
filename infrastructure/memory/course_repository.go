package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"gorm.io/gorm"

	"github.com/f2expert/f2expert-sub001/domain/models"
	"github.com/f2expert/f2expert-sub001/domain/repositories"
)

type CourseRepository struct {
	guard
	courses map[string]models.Course
}

func NewCourseRepository() *CourseRepository {
	return &CourseRepository{guard: newGuard(), courses: map[string]models.Course{}}
}

func cloneCourse(c models.Course) *models.Course {
	c.Tags = slices.Clone(c.Tags)
	return &c
}

func (r *CourseRepository) live(id string) (models.Course, bool) {
	c, ok := r.courses[id]
	if !ok || c.DeletedAt.Valid {
		return models.Course{}, false
	}
	return c, true
}

func (r *CourseRepository) slugTaken(slug, exceptID string) bool {
	for _, c := range r.courses {
		if c.Slug == slug && c.ID != exceptID {
			return true
		}
	}
	return false
}

func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	defer r.lock()()
	if _, ok := r.courses[course.ID]; ok {
		return duplicate("course %s", course.ID)
	}
	if r.slugTaken(course.Slug, course.ID) {
		return duplicate("slug %s", course.Slug)
	}
	touch(&course.CreatedAt, &course.UpdatedAt)
	r.courses[course.ID] = *cloneCourse(*course)
	return nil
}

func (r *CourseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	defer r.lock()()
	c, ok := r.live(id)
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneCourse(c), nil
}

func (r *CourseRepository) GetBySlug(ctx context.Context, slug string) (*models.Course, error) {
	defer r.lock()()
	for _, c := range r.courses {
		if c.Slug == slug && !c.DeletedAt.Valid {
			return cloneCourse(c), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *CourseRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	defer r.lock()()
	return r.slugTaken(slug, ""), nil
}

func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	defer r.lock()()
	if _, ok := r.live(course.ID); !ok {
		return repositories.ErrNotFound
	}
	if r.slugTaken(course.Slug, course.ID) {
		return duplicate("slug %s", course.Slug)
	}
	touch(&course.CreatedAt, &course.UpdatedAt)
	r.courses[course.ID] = *cloneCourse(*course)
	return nil
}

func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	defer r.lock()()
	c, ok := r.live(id)
	if !ok {
		return repositories.ErrNotFound
	}
	c.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	r.courses[id] = c
	return nil
}

func (r *CourseRepository) List(ctx context.Context, filter repositories.CourseFilter) ([]*models.Course, int64, error) {
	defer r.lock()()

	var courses []*models.Course
	for _, c := range r.courses {
		if c.DeletedAt.Valid {
			continue
		}
		if filter.Category != "" && c.Category != filter.Category {
			continue
		}
		if filter.Level != "" && c.Level != filter.Level {
			continue
		}
		if filter.TrainerID != "" && c.TrainerID != filter.TrainerID {
			continue
		}
		if filter.IsPublished != nil && c.IsPublished != *filter.IsPublished {
			continue
		}
		if filter.Search != "" && !containsFold(c.Title, filter.Search) &&
			!containsFold(c.Description, filter.Search) && !slices.Contains(c.Tags, filter.Search) {
			continue
		}
		courses = append(courses, cloneCourse(c))
	}

	sortItems(courses, filter.ListOptions, func(a, b *models.Course) int {
		switch filter.SortBy {
		case "title":
			return cmp.Compare(a.Title, b.Title)
		case "price":
			return cmp.Compare(a.Price, b.Price)
		case "averageRating":
			return cmp.Compare(a.AverageRating, b.AverageRating)
		}
		return compareTime(a.CreatedAt, b.CreatedAt)
	}, func(c *models.Course) string { return c.ID })

	courses, total := page(courses, filter.ListOptions)
	return courses, total, nil
}

func (r *CourseRepository) UpdateRating(ctx context.Context, id string, average float64, count int64) error {
	defer r.lock()()
	c, ok := r.live(id)
	if !ok {
		return repositories.ErrNotFound
	}
	c.AverageRating = average
	c.ReviewCount = count
	c.UpdatedAt = time.Now()
	r.courses[id] = c
	return nil
}
