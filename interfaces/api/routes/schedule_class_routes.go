package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/f2expert/f2expert-sub001/domain/dto"
	"github.com/f2expert/f2expert-sub001/domain/models"
	"github.com/f2expert/f2expert-sub001/interfaces/api/handlers"
	"github.com/f2expert/f2expert-sub001/interfaces/api/middleware"
	"github.com/f2expert/f2expert-sub001/pkg/validation"
)

func SetupScheduleClassRoutes(api fiber.Router, h *handlers.Handlers) {
	classes := api.Group("/schedule-classes")
	classes.Use(middleware.Protected(h.JWTSecret))

	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleTrainer)
	attendees := middleware.RequireRoles(models.RoleAdmin, models.RoleStudent)
	idParams := validation.Params[dto.IDParams]()
	listQuery := validation.Query[dto.ScheduleClassListQuery](validation.QueryReplace)

	classes.Get("/", listQuery, h.ScheduleClassHandler.ListClasses)
	classes.Get("/my", middleware.RequireRoles(models.RoleStudent), listQuery, h.ScheduleClassHandler.MyClasses)
	classes.Get("/:id", idParams, h.ScheduleClassHandler.GetClass)
	classes.Get("/:id/students", staff, idParams, h.ScheduleClassHandler.ListStudents)

	classes.Post("/", staff,
		validation.Body[dto.CreateScheduleClassRequest](validation.DisallowUnknown()),
		h.ScheduleClassHandler.CreateClass,
	)
	classes.Put("/:id", staff, idParams,
		validation.Body[dto.UpdateScheduleClassRequest](validation.DisallowUnknown()),
		h.ScheduleClassHandler.UpdateClass,
	)
	classes.Patch("/:id/cancel", staff, idParams,
		validation.Body[dto.CancelClassRequest](validation.OptionalBody()),
		h.ScheduleClassHandler.CancelClass,
	)
	classes.Delete("/:id", middleware.RequireRoles(models.RoleAdmin), idParams, h.ScheduleClassHandler.DeleteClass)

	// Students act for themselves; admins name the student in the body
	classes.Post("/:id/enroll", attendees, idParams,
		validation.Body[dto.EnrollRequest](validation.OptionalBody()),
		h.ScheduleClassHandler.Enroll,
	)
	classes.Post("/:id/unenroll", attendees, idParams,
		validation.Body[dto.EnrollRequest](validation.OptionalBody()),
		h.ScheduleClassHandler.Unenroll,
	)
}
