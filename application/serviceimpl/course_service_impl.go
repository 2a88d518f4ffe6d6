package serviceimpl

import (
	"context"
	"io"
	"math"
	"time"

	"github.com/gosimple/slug"

	"github.com/f2expert/f2expert-sub001/domain/dto"
	"github.com/f2expert/f2expert-sub001/domain/models"
	"github.com/f2expert/f2expert-sub001/domain/ports"
	"github.com/f2expert/f2expert-sub001/domain/repositories"
	"github.com/f2expert/f2expert-sub001/domain/services"
	"github.com/f2expert/f2expert-sub001/pkg/apperr"
	"github.com/f2expert/f2expert-sub001/pkg/logger"
	"github.com/f2expert/f2expert-sub001/pkg/utils"
)

const (
	msgCourseNotFound = "Course not found"
	maxSlugAttempts   = 5
)

func courseCacheKey(id string) string {
	return "course:" + id
}

type CourseServiceImpl struct {
	courseRepo repositories.CourseRepository
	reviewRepo repositories.ReviewRepository
	userRepo   repositories.UserRepository
	storage    ports.StoragePort
	cache      ports.CachePort
	events     ports.EventPublisher
	cacheTTL   time.Duration
}

func NewCourseService(
	courseRepo repositories.CourseRepository,
	reviewRepo repositories.ReviewRepository,
	userRepo repositories.UserRepository,
	storage ports.StoragePort,
	cache ports.CachePort,
	events ports.EventPublisher,
	cacheTTL time.Duration,
) services.CourseService {
	return &CourseServiceImpl{
		courseRepo: courseRepo,
		reviewRepo: reviewRepo,
		userRepo:   userRepo,
		storage:    storage,
		cache:      cache,
		events:     events,
		cacheTTL:   cacheTTL,
	}
}

// uniqueSlug slugifies title, adding a random suffix while the slug is taken.
func (s *CourseServiceImpl) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := slug.Make(title)
	if base == "" {
		base = "course"
	}

	candidate := base
	for i := 0; i < maxSlugAttempts; i++ {
		exists, err := s.courseRepo.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = base + "-" + utils.GenerateSlugSuffix()
	}
	return "", apperr.Conflict("Could not generate a unique slug")
}

func (s *CourseServiceImpl) Create(ctx context.Context, actor services.Actor, req *dto.CreateCourseRequest) (*models.Course, error) {
	if err := requireTrainer(ctx, s.userRepo, req.TrainerID); err != nil {
		return nil, err
	}

	course := dto.CreateCourseRequestToCourse(req)
	courseSlug, err := s.uniqueSlug(ctx, course.Title)
	if err != nil {
		return nil, err
	}
	course.ID = utils.NewDocumentID()
	course.Slug = courseSlug
	course.CreatedBy = actor.UserID

	if err := s.courseRepo.Create(ctx, course); err != nil {
		logger.ErrorContext(ctx, "Failed to create course", "error", err)
		return nil, conflict(err, "Course already exists")
	}

	logger.InfoContext(ctx, "Course created", "course_id", course.ID, "slug", course.Slug)
	if course.IsPublished {
		s.publishCourse(ctx, actor, course)
	}
	return course, nil
}

func visible(course *models.Course, includeUnpublished bool) bool {
	return includeUnpublished || course.IsPublished
}

func (s *CourseServiceImpl) GetByID(ctx context.Context, id string, includeUnpublished bool) (*models.Course, error) {
	var course models.Course
	if !cacheGet(ctx, s.cache, courseCacheKey(id), &course) {
		found, err := s.courseRepo.GetByID(ctx, id)
		if err != nil {
			return nil, notFound(err, msgCourseNotFound)
		}
		course = *found
		cacheSet(ctx, s.cache, courseCacheKey(id), &course, s.cacheTTL)
	}

	if !visible(&course, includeUnpublished) {
		return nil, apperr.NotFound(msgCourseNotFound)
	}
	return &course, nil
}

func (s *CourseServiceImpl) GetBySlug(ctx context.Context, courseSlug string, includeUnpublished bool) (*models.Course, error) {
	course, err := s.courseRepo.GetBySlug(ctx, courseSlug)
	if err != nil {
		return nil, notFound(err, msgCourseNotFound)
	}
	if !visible(course, includeUnpublished) {
		return nil, apperr.NotFound(msgCourseNotFound)
	}
	return course, nil
}

func (s *CourseServiceImpl) List(ctx context.Context, query *dto.CourseListQuery, includeUnpublished bool) ([]*models.Course, int64, error) {
	published := query.IsPublished
	if !includeUnpublished {
		yes := true
		published = &yes
	}

	return s.courseRepo.List(ctx, repositories.CourseFilter{
		Category:    query.Category,
		Level:       query.Level,
		TrainerID:   query.TrainerID,
		IsPublished: published,
		Search:      query.Search,
		ListOptions: repositories.ListOptions{
			Offset: query.Offset(),
			Limit:  query.Limit,
			SortBy: query.SortBy,
			Desc:   query.Desc(),
		},
	})
}

func (s *CourseServiceImpl) Update(ctx context.Context, actor services.Actor, id string, req *dto.UpdateCourseRequest) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, msgCourseNotFound)
	}

	if !actor.IsAdmin() {
		if !actor.IsTrainer() || course.TrainerID != actor.UserID {
			logger.WarnContext(ctx, "Course update denied", "course_id", id, "user_id", actor.UserID)
			return nil, apperr.Forbidden("You can only update your own courses")
		}
		if req.TrainerID != nil && *req.TrainerID != actor.UserID {
			return nil, apperr.Forbidden("Only admins can reassign a course")
		}
	}
	if req.TrainerID != nil && *req.TrainerID != course.TrainerID {
		if err := requireTrainer(ctx, s.userRepo, *req.TrainerID); err != nil {
			return nil, err
		}
	}

	if dto.ApplyCourseUpdate(course, req) && slug.Make(course.Title) != course.Slug {
		courseSlug, err := s.uniqueSlug(ctx, course.Title)
		if err != nil {
			return nil, err
		}
		course.Slug = courseSlug
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		logger.ErrorContext(ctx, "Failed to update course", "course_id", id, "error", err)
		return nil, conflict(err, "Course already exists")
	}
	cacheDelete(ctx, s.cache, courseCacheKey(id))

	logger.InfoContext(ctx, "Course updated", "course_id", id)
	return course, nil
}

func (s *CourseServiceImpl) SetPublished(ctx context.Context, actor services.Actor, id string, published bool) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, msgCourseNotFound)
	}
	if course.IsPublished == published {
		return course, nil
	}

	course.IsPublished = published
	if err := s.courseRepo.Update(ctx, course); err != nil {
		logger.ErrorContext(ctx, "Failed to change course visibility", "course_id", id, "error", err)
		return nil, err
	}
	cacheDelete(ctx, s.cache, courseCacheKey(id))

	logger.InfoContext(ctx, "Course visibility changed", "course_id", id, "published", published)
	if published {
		s.publishCourse(ctx, actor, course)
	}
	return course, nil
}

func (s *CourseServiceImpl) publishCourse(ctx context.Context, actor services.Actor, course *models.Course) {
	publish(ctx, s.events, ports.DomainEvent{
		Type:     ports.EventCoursePublished,
		EntityID: course.ID,
		ActorID:  actor.UserID,
		Data:     map[string]any{"slug": course.Slug, "title": course.Title},
	})
}

func (s *CourseServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.courseRepo.Delete(ctx, id); err != nil {
		return notFound(err, msgCourseNotFound)
	}
	cacheDelete(ctx, s.cache, courseCacheKey(id))

	logger.InfoContext(ctx, "Course deleted", "course_id", id)
	return nil
}

func (s *CourseServiceImpl) UploadThumbnail(ctx context.Context, id string, file io.Reader, size int64, filename, contentType string) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, msgCourseNotFound)
	}

	path := utils.BuildUploadPath("courses", course.ID, "thumbnail", filename)
	url, err := s.storage.UploadFile(ctx, file, size, path, contentType)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to upload thumbnail", "course_id", id, "error", err)
		return nil, err
	}

	oldPath := course.ThumbnailPath
	course.ThumbnailURL = url
	course.ThumbnailPath = path
	if err := s.courseRepo.Update(ctx, course); err != nil {
		if delErr := s.storage.DeleteFile(ctx, path); delErr != nil {
			logger.WarnContext(ctx, "Failed to remove orphaned thumbnail", "path", path, "error", delErr)
		}
		return nil, err
	}
	cacheDelete(ctx, s.cache, courseCacheKey(id))

	if oldPath != "" && oldPath != path {
		if err := s.storage.DeleteFile(ctx, oldPath); err != nil {
			logger.WarnContext(ctx, "Failed to remove previous thumbnail", "path", oldPath, "error", err)
		}
	}

	logger.InfoContext(ctx, "Course thumbnail uploaded", "course_id", id, "provider", s.storage.GetProviderName())
	return course, nil
}

func (s *CourseServiceImpl) RefreshRating(ctx context.Context, courseID string) error {
	average, count, err := s.reviewRepo.RatingStats(ctx, courseID)
	if err != nil {
		return err
	}
	average = math.Round(average*100) / 100

	if err := s.courseRepo.UpdateRating(ctx, courseID, average, count); err != nil {
		return notFound(err, msgCourseNotFound)
	}
	cacheDelete(ctx, s.cache, courseCacheKey(courseID))

	logger.DebugContext(ctx, "Course rating refreshed", "course_id", courseID, "average", average, "count", count)
	return nil
}
