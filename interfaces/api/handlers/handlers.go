package handlers

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/f2expert/f2expert-sub001/domain/dto"
	"github.com/f2expert/f2expert-sub001/domain/services"
	"github.com/f2expert/f2expert-sub001/pkg/apperr"
	"github.com/f2expert/f2expert-sub001/pkg/reqctx"
	"github.com/f2expert/f2expert-sub001/pkg/scheduler"
)

// HealthCheck pings one dependency. A nil error means it is up.
type HealthCheck func(ctx context.Context) error

// Services contains all the services needed for handlers
type Services struct {
	UserService          services.UserService
	CourseService        services.CourseService
	ReviewService        services.ReviewService
	ScheduleClassService services.ScheduleClassService
	TrainerSalaryService services.TrainerSalaryService
	MenuService          services.MenuService

	AppName       string
	JWTSecret     string
	MaxUploadSize int64
	HealthChecks  map[string]HealthCheck
	Scheduler     scheduler.EventScheduler
}

// Handlers contains all HTTP handlers
type Handlers struct {
	UserHandler          *UserHandler
	CourseHandler        *CourseHandler
	ReviewHandler        *ReviewHandler
	ScheduleClassHandler *ScheduleClassHandler
	TrainerSalaryHandler *TrainerSalaryHandler
	MenuHandler          *MenuHandler
	HealthHandler        *HealthHandler

	JWTSecret string
}

// NewHandlers creates a new instance of Handlers with all dependencies
func NewHandlers(s *Services) *Handlers {
	return &Handlers{
		UserHandler:          NewUserHandler(s.UserService, s.MaxUploadSize),
		CourseHandler:        NewCourseHandler(s.CourseService, s.MaxUploadSize),
		ReviewHandler:        NewReviewHandler(s.ReviewService),
		ScheduleClassHandler: NewScheduleClassHandler(s.ScheduleClassService),
		TrainerSalaryHandler: NewTrainerSalaryHandler(s.TrainerSalaryService),
		MenuHandler:          NewMenuHandler(s.MenuService),
		HealthHandler:        NewHealthHandler(s.AppName, s.HealthChecks, s.Scheduler),
		JWTSecret:            s.JWTSecret,
	}
}

// actor is the authenticated caller as the services see it. Routes that
// call it always run behind the auth middleware.
func actor(c *fiber.Ctx) services.Actor {
	identity := reqctx.CurrentIdentity(c)
	if identity == nil {
		return services.Actor{}
	}
	return services.Actor{UserID: identity.UserID, Role: identity.Role}
}

// optionalActor is nil for anonymous callers.
func optionalActor(c *fiber.Ctx) *services.Actor {
	identity := reqctx.CurrentIdentity(c)
	if identity == nil {
		return nil
	}
	return &services.Actor{UserID: identity.UserID, Role: identity.Role}
}

func pathID(c *fiber.Ctx) string {
	if p, ok := reqctx.Params[dto.IDParams](c); ok {
		return p.ID
	}
	return c.Params("id")
}

// body returns the payload the validation middleware stored for T.
func body[T any](c *fiber.Ctx) (*T, bool) {
	v, ok := reqctx.Body[T](c)
	return &v, ok
}

// query returns the validated query of type T, defaulted when the route
// stored none.
func query[T any, PT interface {
	*T
	ApplyDefaults()
}](c *fiber.Ctx) *T {
	v, ok := reqctx.Query[T](c)
	if !ok {
		PT(&v).ApplyDefaults()
	}
	return &v
}

// formFile opens the "file" part of a multipart upload.
func formFile(c *fiber.Ctx, maxSize int64) (*multipart.FileHeader, multipart.File, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return nil, nil, apperr.Validation("No file provided")
	}
	if header.Size == 0 {
		return nil, nil, apperr.Validation("Empty file not allowed")
	}
	if maxSize > 0 && header.Size > maxSize {
		return nil, nil, apperr.Validation(fmt.Sprintf("File exceeds the %d byte limit", maxSize))
	}
	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		return nil, nil, apperr.Validation("Only image uploads are allowed")
	}

	file, err := header.Open()
	if err != nil {
		return nil, nil, apperr.Internal(err)
	}
	return header, file, nil
}
