package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/f2expert/f2expert-sub001/domain/dto"
	"github.com/f2expert/f2expert-sub001/domain/services"
	"github.com/f2expert/f2expert-sub001/pkg/utils"
	"github.com/f2expert/f2expert-sub001/pkg/validation"
)

type ScheduleClassHandler struct {
	classService services.ScheduleClassService
}

func NewScheduleClassHandler(classService services.ScheduleClassService) *ScheduleClassHandler {
	return &ScheduleClassHandler{classService: classService}
}

func (h *ScheduleClassHandler) CreateClass(c *fiber.Ctx) error {
	ctx := c.UserContext()

	req, ok := body[dto.CreateScheduleClassRequest](c)
	if !ok {
		return utils.BadRequestResponse(c, validation.MsgBodyRequired)
	}

	class, err := h.classService.Create(ctx, actor(c), req)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.CreatedResponse(c, dto.ScheduleClassToResponse(class, h.classService.Location()), "Class scheduled successfully")
}

func (h *ScheduleClassHandler) GetClass(c *fiber.Ctx) error {
	class, err := h.classService.GetByID(c.UserContext(), pathID(c))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, dto.ScheduleClassToResponse(class, h.classService.Location()), "Class retrieved successfully")
}

func (h *ScheduleClassHandler) ListClasses(c *fiber.Ctx) error {
	q := query[dto.ScheduleClassListQuery](c)

	classes, total, err := h.classService.List(c.UserContext(), q)
	if err != nil {
		return utils.HandleError(c, err)
	}

	resp := dto.ScheduleClassesToResponses(classes, h.classService.Location())
	return utils.PaginatedSuccessResponse(c, resp, total, q.Page, q.Limit, "Classes retrieved successfully")
}

// TrainerSchedule lists the classes of the trainer in the path.
func (h *ScheduleClassHandler) TrainerSchedule(c *fiber.Ctx) error {
	q := query[dto.ScheduleClassListQuery](c)
	q.TrainerID = pathID(c)

	classes, total, err := h.classService.List(c.UserContext(), q)
	if err != nil {
		return utils.HandleError(c, err)
	}

	resp := dto.ScheduleClassesToResponses(classes, h.classService.Location())
	return utils.PaginatedSuccessResponse(c, resp, total, q.Page, q.Limit, "Trainer schedule retrieved successfully")
}

// MyClasses lists the classes the calling student is enrolled or waitlisted in.
func (h *ScheduleClassHandler) MyClasses(c *fiber.Ctx) error {
	q := query[dto.ScheduleClassListQuery](c)

	classes, total, err := h.classService.ListForStudent(c.UserContext(), actor(c).UserID, q)
	if err != nil {
		return utils.HandleError(c, err)
	}

	resp := dto.ScheduleClassesToResponses(classes, h.classService.Location())
	return utils.PaginatedSuccessResponse(c, resp, total, q.Page, q.Limit, "Classes retrieved successfully")
}

func (h *ScheduleClassHandler) UpdateClass(c *fiber.Ctx) error {
	ctx := c.UserContext()

	req, ok := body[dto.UpdateScheduleClassRequest](c)
	if !ok {
		return utils.BadRequestResponse(c, validation.MsgBodyRequired)
	}

	class, err := h.classService.Update(ctx, actor(c), pathID(c), req)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.SuccessResponse(c, dto.ScheduleClassToResponse(class, h.classService.Location()), "Class updated successfully")
}

func (h *ScheduleClassHandler) CancelClass(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var reason string
	if req, ok := body[dto.CancelClassRequest](c); ok {
		reason = req.Reason
	}

	class, err := h.classService.Cancel(ctx, actor(c), pathID(c), reason)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.SuccessResponse(c, dto.ScheduleClassToResponse(class, h.classService.Location()), "Class cancelled successfully")
}

func (h *ScheduleClassHandler) DeleteClass(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id := pathID(c)
	if err := h.classService.Delete(ctx, id); err != nil {
		return utils.HandleError(c, err)
	}

	return utils.NoContentResponse(c)
}

func (h *ScheduleClassHandler) Enroll(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var studentID string
	if req, ok := body[dto.EnrollRequest](c); ok {
		studentID = req.StudentID
	}

	resp, err := h.classService.Enroll(ctx, actor(c), pathID(c), studentID)
	if err != nil {
		return utils.HandleError(c, err)
	}

	message := "Enrolled successfully"
	if resp.Position > 0 {
		message = "Class is full, added to waitlist"
	}
	return utils.SuccessResponse(c, resp, message)
}

func (h *ScheduleClassHandler) Unenroll(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var studentID string
	if req, ok := body[dto.EnrollRequest](c); ok {
		studentID = req.StudentID
	}

	resp, err := h.classService.Unenroll(ctx, actor(c), pathID(c), studentID)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.SuccessResponse(c, resp, "Unenrolled successfully")
}

func (h *ScheduleClassHandler) ListStudents(c *fiber.Ctx) error {
	resp, err := h.classService.Students(c.UserContext(), actor(c), pathID(c))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SuccessResponse(c, resp, "Class students retrieved successfully")
}
