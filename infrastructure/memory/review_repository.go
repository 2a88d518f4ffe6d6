package memory

import (
	"cmp"
	"context"

	"github.com/f2expert/f2expert-sub001/domain/models"
	"github.com/f2expert/f2expert-sub001/domain/repositories"
)

type ReviewRepository struct {
	guard
	reviews map[string]models.Review
}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{guard: newGuard(), reviews: map[string]models.Review{}}
}

func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	defer r.lock()()
	if _, ok := r.reviews[review.ID]; ok {
		return duplicate("review %s", review.ID)
	}
	for _, existing := range r.reviews {
		if existing.CourseID == review.CourseID && existing.StudentID == review.StudentID {
			return duplicate("review of course %s by %s", review.CourseID, review.StudentID)
		}
	}
	touch(&review.CreatedAt, &review.UpdatedAt)
	r.reviews[review.ID] = *review
	return nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*models.Review, error) {
	defer r.lock()()
	review, ok := r.reviews[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &review, nil
}

func (r *ReviewRepository) GetByCourseAndStudent(ctx context.Context, courseID, studentID string) (*models.Review, error) {
	defer r.lock()()
	for _, review := range r.reviews {
		if review.CourseID == courseID && review.StudentID == studentID {
			return &review, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *ReviewRepository) Update(ctx context.Context, review *models.Review) error {
	defer r.lock()()
	if _, ok := r.reviews[review.ID]; !ok {
		return repositories.ErrNotFound
	}
	touch(&review.CreatedAt, &review.UpdatedAt)
	r.reviews[review.ID] = *review
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	defer r.lock()()
	if _, ok := r.reviews[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.reviews, id)
	return nil
}

func (r *ReviewRepository) List(ctx context.Context, filter repositories.ReviewFilter) ([]*models.Review, int64, error) {
	defer r.lock()()

	var reviews []*models.Review
	for _, review := range r.reviews {
		if filter.CourseID != "" && review.CourseID != filter.CourseID {
			continue
		}
		if filter.StudentID != "" && review.StudentID != filter.StudentID {
			continue
		}
		if filter.Rating > 0 && review.Rating != filter.Rating {
			continue
		}
		if filter.Approved != nil && review.IsApproved != *filter.Approved {
			continue
		}
		reviews = append(reviews, &review)
	}

	sortItems(reviews, filter.ListOptions, func(a, b *models.Review) int {
		if filter.SortBy == "rating" {
			return cmp.Compare(a.Rating, b.Rating)
		}
		return compareTime(a.CreatedAt, b.CreatedAt)
	}, func(r *models.Review) string { return r.ID })

	reviews, total := page(reviews, filter.ListOptions)
	return reviews, total, nil
}

func (r *ReviewRepository) RatingStats(ctx context.Context, courseID string) (float64, int64, error) {
	defer r.lock()()
	var sum, count int64
	for _, review := range r.reviews {
		if review.CourseID == courseID && review.IsApproved {
			sum += int64(review.Rating)
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}
