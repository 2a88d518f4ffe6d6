package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/f2expert/f2expert-sub001/domain/dto"
	"github.com/f2expert/f2expert-sub001/domain/models"
	"github.com/f2expert/f2expert-sub001/interfaces/api/handlers"
	"github.com/f2expert/f2expert-sub001/interfaces/api/middleware"
	"github.com/f2expert/f2expert-sub001/pkg/validation"
)

func SetupReviewRoutes(api fiber.Router, h *handlers.Handlers) {
	reviews := api.Group("/reviews")
	protected := middleware.Protected(h.JWTSecret)
	idParams := validation.Params[dto.IDParams]()

	reviews.Get("/:id", middleware.Optional(h.JWTSecret), idParams, h.ReviewHandler.GetReview)

	reviews.Post("/", protected, middleware.RequireRoles(models.RoleStudent),
		validation.Body[dto.CreateReviewRequest](validation.DisallowUnknown()),
		h.ReviewHandler.CreateReview,
	)
	reviews.Put("/:id", protected, idParams,
		validation.Body[dto.UpdateReviewRequest](validation.DisallowUnknown()),
		h.ReviewHandler.UpdateReview,
	)
	reviews.Delete("/:id", protected, idParams, h.ReviewHandler.DeleteReview)
	reviews.Patch("/:id/approve", protected, middleware.RequireRoles(models.RoleAdmin), idParams,
		validation.Body[dto.ApproveReviewRequest](),
		h.ReviewHandler.ApproveReview,
	)
}
