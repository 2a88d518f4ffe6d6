package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/f2expert/f2expert-sub001/domain/dto"
	"github.com/f2expert/f2expert-sub001/domain/services"
	"github.com/f2expert/f2expert-sub001/pkg/utils"
	"github.com/f2expert/f2expert-sub001/pkg/validation"
)

type MenuHandler struct {
	menuService services.MenuService
}

func NewMenuHandler(menuService services.MenuService) *MenuHandler {
	return &MenuHandler{menuService: menuService}
}

// GetMenu returns the active menu tree visible to the caller's role.
func (h *MenuHandler) GetMenu(c *fiber.Ctx) error {
	tree, err := h.menuService.Tree(c.UserContext(), actor(c).Role)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, tree, "Menu retrieved successfully")
}

func (h *MenuHandler) ListAll(c *fiber.Ctx) error {
	items, err := h.menuService.List(c.UserContext())
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, dto.MenuItemsToResponses(items), "Menu items retrieved successfully")
}

func (h *MenuHandler) GetItem(c *fiber.Ctx) error {
	item, err := h.menuService.GetByID(c.UserContext(), pathID(c))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, dto.MenuItemToResponse(item), "Menu item retrieved successfully")
}

func (h *MenuHandler) CreateItem(c *fiber.Ctx) error {
	ctx := c.UserContext()

	req, ok := body[dto.CreateMenuItemRequest](c)
	if !ok {
		return utils.BadRequestResponse(c, validation.MsgBodyRequired)
	}

	item, err := h.menuService.Create(ctx, req)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.CreatedResponse(c, dto.MenuItemToResponse(item), "Menu item created successfully")
}

func (h *MenuHandler) UpdateItem(c *fiber.Ctx) error {
	ctx := c.UserContext()

	req, ok := body[dto.UpdateMenuItemRequest](c)
	if !ok {
		return utils.BadRequestResponse(c, validation.MsgBodyRequired)
	}

	item, err := h.menuService.Update(ctx, pathID(c), req)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.SuccessResponse(c, dto.MenuItemToResponse(item), "Menu item updated successfully")
}

func (h *MenuHandler) Reorder(c *fiber.Ctx) error {
	ctx := c.UserContext()

	req, ok := body[dto.ReorderMenuRequest](c)
	if !ok {
		return utils.BadRequestResponse(c, validation.MsgBodyRequired)
	}

	if err := h.menuService.Reorder(ctx, req); err != nil {
		return utils.HandleError(c, err)
	}

	return utils.SuccessResponse(c, nil, "Menu reordered successfully")
}

func (h *MenuHandler) DeleteItem(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id := pathID(c)
	deleted, err := h.menuService.Delete(ctx, id)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.SuccessResponse(c, fiber.Map{"deleted": deleted}, "Menu item deleted successfully")
}
