package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/f2expert/f2expert-sub001/domain/dto"
	"github.com/f2expert/f2expert-sub001/domain/models"
	"github.com/f2expert/f2expert-sub001/interfaces/api/handlers"
	"github.com/f2expert/f2expert-sub001/interfaces/api/middleware"
	"github.com/f2expert/f2expert-sub001/pkg/validation"
)

func SetupCourseRoutes(api fiber.Router, h *handlers.Handlers) {
	courses := api.Group("/courses")
	protected := middleware.Protected(h.JWTSecret)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	idParams := validation.Params[dto.IDParams]()

	// Public reads; a token only widens what is visible
	optional := middleware.Optional(h.JWTSecret)
	courses.Get("/", optional, validation.Query[dto.CourseListQuery](validation.QueryReplace), h.CourseHandler.ListCourses)
	courses.Get("/slug/:slug", optional, validation.Params[dto.CourseSlugParams](), h.CourseHandler.GetCourseBySlug)
	courses.Get("/:id", optional, idParams, h.CourseHandler.GetCourse)
	courses.Get("/:courseId/reviews", optional,
		validation.Params[dto.CourseReviewsParams](),
		validation.Query[dto.ReviewListQuery](validation.QueryReplace),
		h.ReviewHandler.ListCourseReviews,
	)

	courses.Post("/", protected, adminOnly,
		validation.Body[dto.CreateCourseRequest](validation.DisallowUnknown()),
		h.CourseHandler.CreateCourse,
	)
	courses.Put("/:id", protected, middleware.RequireRoles(models.RoleAdmin, models.RoleTrainer),
		idParams,
		validation.Body[dto.UpdateCourseRequest](validation.DisallowUnknown()),
		h.CourseHandler.UpdateCourse,
	)
	courses.Patch("/:id/publish", protected, adminOnly, idParams,
		validation.Body[dto.PublishCourseRequest](),
		h.CourseHandler.PublishCourse,
	)
	courses.Post("/:id/thumbnail", protected, adminOnly, idParams, h.CourseHandler.UploadThumbnail)
	courses.Delete("/:id", protected, adminOnly, idParams, h.CourseHandler.DeleteCourse)
}
