package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/f2expert/f2expert-sub001/domain/dto"
	"github.com/f2expert/f2expert-sub001/domain/models"
	"github.com/f2expert/f2expert-sub001/interfaces/api/handlers"
	"github.com/f2expert/f2expert-sub001/interfaces/api/middleware"
	"github.com/f2expert/f2expert-sub001/pkg/validation"
)

func SetupTrainerSalaryRoutes(api fiber.Router, h *handlers.Handlers) {
	salaries := api.Group("/trainer-salary")
	salaries.Use(middleware.Protected(h.JWTSecret))

	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	readers := middleware.RequireRoles(models.RoleAdmin, models.RoleTrainer)
	idParams := validation.Params[dto.IDParams]()

	salaries.Get("/", readers,
		validation.Query[dto.TrainerSalaryListQuery](validation.QueryReplace),
		h.TrainerSalaryHandler.ListSalaries,
	)
	salaries.Get("/summary", readers,
		validation.Query[dto.SalarySummaryQuery](validation.QueryValidateOnly),
		h.TrainerSalaryHandler.Summary,
	)
	salaries.Get("/:id", readers, idParams, h.TrainerSalaryHandler.GetSalary)

	salaries.Post("/", adminOnly,
		validation.Body[dto.CreateTrainerSalaryRequest](validation.DisallowUnknown()),
		h.TrainerSalaryHandler.CreateSalary,
	)
	salaries.Post("/bulk", adminOnly,
		validation.Body[dto.BulkCreateTrainerSalaryRequest](validation.DisallowUnknown()),
		h.TrainerSalaryHandler.BulkCreateSalaries,
	)
	salaries.Put("/:id", adminOnly, idParams,
		validation.Body[dto.UpdateTrainerSalaryRequest](validation.DisallowUnknown()),
		h.TrainerSalaryHandler.UpdateSalary,
	)
	salaries.Patch("/:id/pay", adminOnly, idParams,
		validation.Body[dto.PaySalaryRequest](),
		h.TrainerSalaryHandler.PaySalary,
	)
	salaries.Delete("/:id", adminOnly, idParams, h.TrainerSalaryHandler.DeleteSalary)
}
