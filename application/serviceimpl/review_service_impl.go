package serviceimpl

import (
	"context"
	"errors"

	"github.com/f2expert/f2expert-sub001/domain/dto"
	"github.com/f2expert/f2expert-sub001/domain/models"
	"github.com/f2expert/f2expert-sub001/domain/ports"
	"github.com/f2expert/f2expert-sub001/domain/repositories"
	"github.com/f2expert/f2expert-sub001/domain/services"
	"github.com/f2expert/f2expert-sub001/pkg/apperr"
	"github.com/f2expert/f2expert-sub001/pkg/logger"
	"github.com/f2expert/f2expert-sub001/pkg/utils"
)

const msgReviewNotFound = "Review not found"

type ReviewServiceImpl struct {
	reviewRepo repositories.ReviewRepository
	courseRepo repositories.CourseRepository
	courses    services.CourseService
	events     ports.EventPublisher
}

func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	courseRepo repositories.CourseRepository,
	courses services.CourseService,
	events ports.EventPublisher,
) services.ReviewService {
	return &ReviewServiceImpl{
		reviewRepo: reviewRepo,
		courseRepo: courseRepo,
		courses:    courses,
		events:     events,
	}
}

// refreshRating keeps the course aggregate in step with its reviews. A
// failure is logged; the review itself has already been written.
func (s *ReviewServiceImpl) refreshRating(ctx context.Context, courseID string) {
	if err := s.courses.RefreshRating(ctx, courseID); err != nil {
		logger.WarnContext(ctx, "Failed to refresh course rating", "course_id", courseID, "error", err)
	}
}

func (s *ReviewServiceImpl) Create(ctx context.Context, actor services.Actor, req *dto.CreateReviewRequest) (*models.Review, error) {
	course, err := s.courseRepo.GetByID(ctx, req.CourseID)
	if err != nil {
		return nil, notFound(err, msgCourseNotFound)
	}
	if !course.IsPublished {
		return nil, apperr.NotFound(msgCourseNotFound)
	}

	if _, err := s.reviewRepo.GetByCourseAndStudent(ctx, course.ID, actor.UserID); err == nil {
		return nil, apperr.Conflict("Review already exists")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	review := &models.Review{
		ID:         utils.NewDocumentID(),
		CourseID:   course.ID,
		StudentID:  actor.UserID,
		Rating:     req.Rating,
		Comment:    req.Comment,
		IsApproved: true,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		logger.ErrorContext(ctx, "Failed to create review", "course_id", course.ID, "error", err)
		return nil, conflict(err, "Review already exists")
	}

	s.refreshRating(ctx, course.ID)
	publish(ctx, s.events, ports.DomainEvent{
		Type:     ports.EventReviewCreated,
		EntityID: review.ID,
		ActorID:  actor.UserID,
		Data:     map[string]any{"courseId": course.ID, "rating": review.Rating},
	})

	logger.InfoContext(ctx, "Review created", "review_id", review.ID, "course_id", course.ID)
	return review, nil
}

func (s *ReviewServiceImpl) GetByID(ctx context.Context, actor *services.Actor, id string) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, msgReviewNotFound)
	}
	if !review.IsApproved && (actor == nil || (!actor.IsAdmin() && actor.UserID != review.StudentID)) {
		return nil, apperr.NotFound(msgReviewNotFound)
	}
	return review, nil
}

func (s *ReviewServiceImpl) ListByCourse(ctx context.Context, actor *services.Actor, courseID string, query *dto.ReviewListQuery) ([]*models.Review, int64, error) {
	admin := actor != nil && actor.IsAdmin()

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, 0, notFound(err, msgCourseNotFound)
	}
	if !course.IsPublished && !admin {
		return nil, 0, apperr.NotFound(msgCourseNotFound)
	}

	filter := repositories.ReviewFilter{
		CourseID: courseID,
		Rating:   query.Rating,
		ListOptions: repositories.ListOptions{
			Offset: query.Offset(),
			Limit:  query.Limit,
			SortBy: query.SortBy,
			Desc:   query.Desc(),
		},
	}

	approved := true
	pending := false
	switch {
	case !admin:
		filter.Approved = &approved
	case query.Status == "approved":
		filter.Approved = &approved
	case query.Status == "pending":
		filter.Approved = &pending
	}

	return s.reviewRepo.List(ctx, filter)
}

func (s *ReviewServiceImpl) Update(ctx context.Context, actor services.Actor, id string, req *dto.UpdateReviewRequest) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, msgReviewNotFound)
	}
	if review.StudentID != actor.UserID {
		return nil, apperr.Forbidden("You can only update your own reviews")
	}

	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.Comment != nil {
		review.Comment = *req.Comment
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		logger.ErrorContext(ctx, "Failed to update review", "review_id", id, "error", err)
		return nil, notFound(err, msgReviewNotFound)
	}
	if req.Rating != nil {
		s.refreshRating(ctx, review.CourseID)
	}

	logger.InfoContext(ctx, "Review updated", "review_id", id)
	return review, nil
}

func (s *ReviewServiceImpl) Delete(ctx context.Context, actor services.Actor, id string) error {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return notFound(err, msgReviewNotFound)
	}
	if !actor.IsAdmin() && review.StudentID != actor.UserID {
		return apperr.Forbidden("You can only delete your own reviews")
	}

	if err := s.reviewRepo.Delete(ctx, id); err != nil {
		return notFound(err, msgReviewNotFound)
	}
	s.refreshRating(ctx, review.CourseID)

	logger.InfoContext(ctx, "Review deleted", "review_id", id, "by", actor.UserID)
	return nil
}

func (s *ReviewServiceImpl) SetApproved(ctx context.Context, id string, approved bool) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, msgReviewNotFound)
	}
	if review.IsApproved == approved {
		return review, nil
	}

	review.IsApproved = approved
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, notFound(err, msgReviewNotFound)
	}
	s.refreshRating(ctx, review.CourseID)

	logger.InfoContext(ctx, "Review moderation changed", "review_id", id, "approved", approved)
	return review, nil
}
