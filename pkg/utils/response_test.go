package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f2expert/f2expert-sub001/pkg/apperr"
)

func call(t *testing.T, handler fiber.Handler) (int, map[string]any) {
	t.Helper()
	app := fiber.New()
	app.Get("/", handler)

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) == 0 {
		return resp.StatusCode, nil
	}

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

func TestRespondEnvelopeInvariant(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		success bool
	}{
		{"ok", fiber.StatusOK, true},
		{"created", fiber.StatusCreated, true},
		{"accepted", fiber.StatusAccepted, true},
		{"redirect range", fiber.StatusMultipleChoices, false},
		{"bad request", fiber.StatusBadRequest, false},
		{"conflict", fiber.StatusConflict, false},
		{"internal", fiber.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := call(t, func(c *fiber.Ctx) error {
				return Respond(c, tt.status, fiber.Map{"id": "x"}, "msg")
			})

			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.success, body["success"])
			assert.Equal(t, "msg", body["message"])
			require.Contains(t, body, "data")
			if tt.success {
				assert.NotNil(t, body["data"])
			} else {
				assert.Nil(t, body["data"])
			}
		})
	}
}

func TestNoContentHasNoBody(t *testing.T) {
	status, body := call(t, NoContentResponse)

	assert.Equal(t, fiber.StatusNoContent, status)
	assert.Nil(t, body)
}

func TestPaginatedMeta(t *testing.T) {
	status, body := call(t, func(c *fiber.Ctx) error {
		return PaginatedSuccessResponse(c, []string{"a"}, 25, 2, 10, "Courses retrieved")
	})

	require.Equal(t, fiber.StatusOK, status)
	meta, ok := body["meta"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(25), meta["totalItems"])
	assert.Equal(t, float64(10), meta["limit"])
	assert.Equal(t, float64(2), meta["currentPage"])
	assert.Equal(t, float64(3), meta["totalPages"])
	assert.Equal(t, true, meta["hasNext"])
	assert.Equal(t, true, meta["hasPrev"])
}

func TestNewMeta(t *testing.T) {
	tests := []struct {
		name             string
		total            int64
		page, limit      int
		totalPages       int
		hasNext, hasPrev bool
	}{
		{"empty result keeps one page", 0, 1, 10, 1, false, false},
		{"exact fit", 20, 2, 10, 2, false, true},
		{"first of many", 101, 1, 25, 5, true, false},
		{"past the end", 5, 4, 10, 1, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMeta(tt.total, tt.page, tt.limit)
			assert.Equal(t, tt.totalPages, m.TotalPages)
			assert.Equal(t, tt.hasNext, m.HasNext)
			assert.Equal(t, tt.hasPrev, m.HasPrev)
		})
	}
}

func TestHandleErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", apperr.NotFound("Course not found"), fiber.StatusNotFound, "Course not found"},
		{"conflict", apperr.Conflict("Scheduling conflict: trainer already booked"), fiber.StatusConflict, "Scheduling conflict: trainer already booked"},
		{"plain error passes message through", errors.New("Database connection refused"), fiber.StatusInternalServerError, "Database connection refused"},
		{"plain not found text stays internal", errors.New("user not found in cache"), fiber.StatusInternalServerError, "user not found in cache"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := call(t, func(c *fiber.Ctx) error {
				return HandleError(c, tt.err)
			})

			assert.Equal(t, tt.status, status)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.message, body["message"])
			assert.Nil(t, body["data"])
		})
	}
}
