package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/f2expert/f2expert-sub001/domain/dto"
	"github.com/f2expert/f2expert-sub001/domain/models"
	"github.com/f2expert/f2expert-sub001/interfaces/api/handlers"
	"github.com/f2expert/f2expert-sub001/interfaces/api/middleware"
	"github.com/f2expert/f2expert-sub001/pkg/validation"
)

func SetupMenuRoutes(api fiber.Router, h *handlers.Handlers) {
	menu := api.Group("/menu")
	menu.Use(middleware.Protected(h.JWTSecret))

	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	idParams := validation.Params[dto.IDParams]()

	menu.Get("/", h.MenuHandler.GetMenu)
	menu.Get("/all", adminOnly, h.MenuHandler.ListAll)
	menu.Put("/reorder", adminOnly, validation.Body[dto.ReorderMenuRequest](), h.MenuHandler.Reorder)
	menu.Get("/:id", adminOnly, idParams, h.MenuHandler.GetItem)
	menu.Post("/", adminOnly,
		validation.Body[dto.CreateMenuItemRequest](validation.DisallowUnknown()),
		h.MenuHandler.CreateItem,
	)
	menu.Put("/:id", adminOnly, idParams,
		validation.Body[dto.UpdateMenuItemRequest](validation.DisallowUnknown()),
		h.MenuHandler.UpdateItem,
	)
	menu.Delete("/:id", adminOnly, idParams, h.MenuHandler.DeleteItem)
}
