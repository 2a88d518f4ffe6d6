package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/f2expert/f2expert-sub001/pkg/apperr"
	"github.com/f2expert/f2expert-sub001/pkg/logger"
	"github.com/f2expert/f2expert-sub001/pkg/reqctx"
)

// LoggerMiddleware logs the start and outcome of every request. Health
// checks only show up at debug level unless they fail.
func LoggerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		healthCheck := c.Path() == "/health"

		if !healthCheck {
			logger.InfoContext(c.UserContext(), "Request started",
				"method", c.Method(),
				"path", c.Path(),
				"ip", c.IP(),
				"user_agent", c.Get("User-Agent"),
			)
		}

		err := c.Next()

		status := responseStatus(c, err)
		args := []any{
			"method", c.Method(),
			"route", c.Route().Path,
			"path", c.Path(),
			"status", status,
			"latency", time.Since(start).String(),
			"bytes", len(c.Response().Body()),
		}
		if identity := reqctx.CurrentIdentity(c); identity != nil {
			args = append(args, "role", identity.Role)
		}

		logFunc := logger.InfoContext
		switch {
		case status >= 500:
			logFunc = logger.ErrorContext
		case status >= 400:
			logFunc = logger.WarnContext
		case healthCheck:
			logFunc = logger.DebugContext
		}

		// user_id rides on the user context once auth has run
		logFunc(c.UserContext(), "Request completed", args...)

		return err
	}
}

// responseStatus is the status the client will see. A returned error has
// not been written yet, so it is mapped the way ErrorHandler maps it.
func responseStatus(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}
	return apperr.HTTPStatus(err)
}
