package utils

import (
	"math"

	"github.com/gofiber/fiber/v2"

	"github.com/f2expert/f2expert-sub001/pkg/apperr"
	"github.com/f2expert/f2expert-sub001/pkg/logger"
)

// ========== Response Structures ==========

// Response is the single envelope every endpoint answers with.
// Success is true iff the status is 2xx; Data is null otherwise.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
	Meta    *Meta  `json:"meta,omitempty"`
}

type Meta struct {
	TotalItems  int64 `json:"totalItems"`
	Limit       int   `json:"limit"`
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

// NewMeta computes pagination metadata. totalPages is never below 1.
func NewMeta(total int64, page, limit int) *Meta {
	if limit < 1 {
		limit = 1
	}
	if page < 1 {
		page = 1
	}
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	if totalPages < 1 {
		totalPages = 1
	}
	return &Meta{
		TotalItems:  total,
		Limit:       limit,
		CurrentPage: page,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}

func isSuccess(status int) bool {
	return status >= fiber.StatusOK && status < fiber.StatusMultipleChoices
}

// Respond writes the envelope for any status. A 204 carries no body.
func Respond(c *fiber.Ctx, status int, data any, message string, meta ...*Meta) error {
	if status == fiber.StatusNoContent {
		return c.SendStatus(fiber.StatusNoContent)
	}

	resp := Response{
		Success: isSuccess(status),
		Message: message,
	}
	if resp.Success {
		resp.Data = data
		if len(meta) > 0 {
			resp.Meta = meta[0]
		}
	}
	return c.Status(status).JSON(resp)
}

// ========== Success Responses ==========

func SuccessResponse(c *fiber.Ctx, data any, message string) error {
	return Respond(c, fiber.StatusOK, data, message)
}

func CreatedResponse(c *fiber.Ctx, data any, message string) error {
	return Respond(c, fiber.StatusCreated, data, message)
}

func NoContentResponse(c *fiber.Ctx) error {
	return Respond(c, fiber.StatusNoContent, nil, "")
}

func PaginatedSuccessResponse(c *fiber.Ctx, data any, total int64, page, limit int, message string) error {
	return Respond(c, fiber.StatusOK, data, message, NewMeta(total, page, limit))
}

// ========== Error Responses ==========

func ErrorResponse(c *fiber.Ctx, statusCode int, message string) error {
	return Respond(c, statusCode, nil, message)
}

func BadRequestResponse(c *fiber.Ctx, message string) error {
	return ErrorResponse(c, fiber.StatusBadRequest, message)
}

func UnauthorizedResponse(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Unauthorized"
	}
	return ErrorResponse(c, fiber.StatusUnauthorized, message)
}

func ForbiddenResponse(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Forbidden"
	}
	return ErrorResponse(c, fiber.StatusForbidden, message)
}

func NotFoundResponse(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Resource not found"
	}
	return ErrorResponse(c, fiber.StatusNotFound, message)
}

// HandleError classifies err by its kind and writes the matching envelope.
// Untagged errors are 500 with their message passed through.
func HandleError(c *fiber.Ctx, err error) error {
	kind := apperr.KindOf(err)
	status := kind.HTTPStatus()
	message := apperr.Message(err)

	ctx := c.UserContext()
	if status >= fiber.StatusInternalServerError {
		logger.ErrorContext(ctx, "Request failed",
			"path", c.Path(),
			"method", c.Method(),
			"kind", kind.String(),
			"error", err,
		)
	} else {
		logger.DebugContext(ctx, "Request rejected",
			"path", c.Path(),
			"kind", kind.String(),
			"message", message,
		)
	}

	return ErrorResponse(c, status, message)
}
