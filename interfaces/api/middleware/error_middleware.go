package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/f2expert/f2expert-sub001/pkg/utils"
)

// ErrorHandler turns errors that escape a handler into the JSON envelope.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return utils.ErrorResponse(c, fiberErr.Code, fiberErr.Message)
		}
		return utils.HandleError(c, err)
	}
}
