package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f2expert/f2expert-sub001/pkg/apperr"
)

func TestResponseStatus(t *testing.T) {
	app := fiber.New()

	var got []int
	app.Get("/", func(c *fiber.Ctx) error {
		c.Status(fiber.StatusAccepted)
		got = append(got,
			responseStatus(c, nil),
			responseStatus(c, apperr.Conflict("Review already exists")),
			responseStatus(c, fiber.ErrMethodNotAllowed),
			responseStatus(c, errors.New("boom")),
		)
		return nil
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, []int{
		http.StatusAccepted,
		http.StatusConflict,
		http.StatusMethodNotAllowed,
		http.StatusInternalServerError,
	}, got)
}

func TestLoggerMiddlewarePassesErrorsThrough(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Use(RequestIDMiddleware(), LoggerMiddleware())
	app.Get("/courses/:id", func(c *fiber.Ctx) error {
		return apperr.NotFound("Course not found")
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/courses/abc", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
