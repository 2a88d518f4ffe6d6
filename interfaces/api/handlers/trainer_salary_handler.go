package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/f2expert/f2expert-sub001/domain/dto"
	"github.com/f2expert/f2expert-sub001/domain/services"
	"github.com/f2expert/f2expert-sub001/pkg/utils"
	"github.com/f2expert/f2expert-sub001/pkg/validation"
)

type TrainerSalaryHandler struct {
	salaryService services.TrainerSalaryService
}

func NewTrainerSalaryHandler(salaryService services.TrainerSalaryService) *TrainerSalaryHandler {
	return &TrainerSalaryHandler{salaryService: salaryService}
}

func (h *TrainerSalaryHandler) CreateSalary(c *fiber.Ctx) error {
	ctx := c.UserContext()

	req, ok := body[dto.CreateTrainerSalaryRequest](c)
	if !ok {
		return utils.BadRequestResponse(c, validation.MsgBodyRequired)
	}

	salary, err := h.salaryService.Create(ctx, actor(c), req)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.CreatedResponse(c, dto.TrainerSalaryToResponse(salary), "Salary record created successfully")
}

func (h *TrainerSalaryHandler) BulkCreateSalaries(c *fiber.Ctx) error {
	ctx := c.UserContext()

	req, ok := body[dto.BulkCreateTrainerSalaryRequest](c)
	if !ok {
		return utils.BadRequestResponse(c, validation.MsgBodyRequired)
	}

	salaries, err := h.salaryService.BulkCreate(ctx, actor(c), req)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.CreatedResponse(c, dto.TrainerSalariesToResponses(salaries), "Salary records created successfully")
}

func (h *TrainerSalaryHandler) GetSalary(c *fiber.Ctx) error {
	salary, err := h.salaryService.GetByID(c.UserContext(), actor(c), pathID(c))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, dto.TrainerSalaryToResponse(salary), "Salary record retrieved successfully")
}

func (h *TrainerSalaryHandler) ListSalaries(c *fiber.Ctx) error {
	q := query[dto.TrainerSalaryListQuery](c)

	salaries, total, err := h.salaryService.List(c.UserContext(), actor(c), q)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.PaginatedSuccessResponse(c, dto.TrainerSalariesToResponses(salaries), total, q.Page, q.Limit, "Salary records retrieved successfully")
}

func (h *TrainerSalaryHandler) UpdateSalary(c *fiber.Ctx) error {
	ctx := c.UserContext()

	req, ok := body[dto.UpdateTrainerSalaryRequest](c)
	if !ok {
		return utils.BadRequestResponse(c, validation.MsgBodyRequired)
	}

	salary, err := h.salaryService.Update(ctx, pathID(c), req)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.SuccessResponse(c, dto.TrainerSalaryToResponse(salary), "Salary record updated successfully")
}

func (h *TrainerSalaryHandler) PaySalary(c *fiber.Ctx) error {
	ctx := c.UserContext()

	req, ok := body[dto.PaySalaryRequest](c)
	if !ok {
		return utils.BadRequestResponse(c, validation.MsgBodyRequired)
	}

	salary, err := h.salaryService.MarkPaid(ctx, actor(c), pathID(c), req)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.SuccessResponse(c, dto.TrainerSalaryToResponse(salary), "Salary marked as paid")
}

func (h *TrainerSalaryHandler) DeleteSalary(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id := pathID(c)
	if err := h.salaryService.Delete(ctx, id); err != nil {
		return utils.HandleError(c, err)
	}

	return utils.NoContentResponse(c)
}

// Summary reads the raw query; the route only validates it.
func (h *TrainerSalaryHandler) Summary(c *fiber.Ctx) error {
	q := dto.SalarySummaryQuery{
		TrainerID: c.Query("trainerId"),
		Year:      c.QueryInt("year"),
	}

	summary, err := h.salaryService.Summary(c.UserContext(), actor(c), &q)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, summary, "Salary summary retrieved successfully")
}
