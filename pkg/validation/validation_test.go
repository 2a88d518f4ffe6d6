package validation

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f2expert/f2expert-sub001/pkg/reqctx"
)

type reviewPayload struct {
	Title    string `json:"title" validate:"required"`
	Rating   int    `json:"rating" validate:"min=1,max=5"`
	Currency string `json:"currency" validate:"len=3"`
}

func (p *reviewPayload) ApplyDefaults() {
	if p.Currency == "" {
		p.Currency = "INR"
	}
}

type slotPayload struct {
	Start string `json:"start" validate:"required,hhmm"`
	End   string `json:"end" validate:"required,hhmm"`
}

func (p *slotPayload) Validate() error {
	if p.End <= p.Start {
		return &Error{Messages: []string{"end must be after start"}}
	}
	return nil
}

type listQuery struct {
	Page  int    `query:"page" validate:"min=1"`
	Limit int    `query:"limit" validate:"min=1,max=100"`
	Sort  string `query:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

func (q *listQuery) ApplyDefaults() {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = 10
	}
}

type idParams struct {
	ID string `params:"id" validate:"required,objectid"`
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doRequest(t *testing.T, app *fiber.App, method, target, body string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, env
}

func bodyApp(opts ...BodyOption) *fiber.App {
	app := fiber.New()
	app.Post("/reviews", Body[reviewPayload](opts...), func(c *fiber.Ctx) error {
		p, _ := reqctx.Body[reviewPayload](c)
		return c.JSON(fiber.Map{"success": true, "message": "ok", "data": p})
	})
	return app
}

func TestBodyRejectsEmptyBody(t *testing.T) {
	app := bodyApp()

	for _, body := range []string{"", "{}", "  { }  ", "null"} {
		status, env := doRequest(t, app, http.MethodPost, "/reviews", body)

		assert.Equal(t, http.StatusBadRequest, status, "body %q", body)
		assert.False(t, env.Success)
		assert.Equal(t, MsgBodyRequired, env.Message)
		assert.Equal(t, "null", string(env.Data))
	}
}

func TestBodyJoinsFieldErrors(t *testing.T) {
	status, env := doRequest(t, bodyApp(), http.MethodPost, "/reviews", `{"rating": 9}`)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "title is a required field, rating must be 5 or less", env.Message)
}

func TestBodyAppliesDefaults(t *testing.T) {
	status, env := doRequest(t, bodyApp(), http.MethodPost, "/reviews", `{"title":"Great","rating":4}`)
	require.Equal(t, http.StatusOK, status)

	var got reviewPayload
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, reviewPayload{Title: "Great", Rating: 4, Currency: "INR"}, got)
}

func TestBodyUnknownFields(t *testing.T) {
	body := `{"title":"Great","rating":4,"extra":true}`

	status, _ := doRequest(t, bodyApp(), http.MethodPost, "/reviews", body)
	assert.Equal(t, http.StatusOK, status, "unknown fields are dropped by default")

	status, env := doRequest(t, bodyApp(DisallowUnknown()), http.MethodPost, "/reviews", body)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "extra is not allowed", env.Message)
}

func TestBodyMalformed(t *testing.T) {
	status, env := doRequest(t, bodyApp(), http.MethodPost, "/reviews", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, MsgInvalidBody, env.Message)

	status, env = doRequest(t, bodyApp(), http.MethodPost, "/reviews", `{"title":"x","rating":"five"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "rating must be a number", env.Message)
}

func TestOptionalBody(t *testing.T) {
	status, env := doRequest(t, bodyApp(OptionalBody()), http.MethodPost, "/reviews", "")

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Message, "title is a required field")
}

func TestCheckIsIdempotent(t *testing.T) {
	first := Check(reviewPayload{Title: "Good", Rating: 3})
	require.Nil(t, first.Err)

	second := Check(first.Value)
	require.Nil(t, second.Err)
	assert.Equal(t, first.Value, second.Value)
}

func TestCheckCrossFieldRule(t *testing.T) {
	res := Check(slotPayload{Start: "10:00", End: "09:30"})
	require.NotNil(t, res.Err)
	assert.Equal(t, "end must be after start", res.Err.Error())

	res = Check(slotPayload{Start: "10:00", End: "25:00"})
	require.NotNil(t, res.Err)
	assert.Equal(t, "end must be a time in HH:MM format", res.Err.Error())

	assert.Nil(t, Check(slotPayload{Start: "10:00", End: "11:30"}).Err)
}

func TestQueryModes(t *testing.T) {
	app := fiber.New()
	app.Get("/replace", Query[listQuery](QueryReplace), func(c *fiber.Ctx) error {
		q, ok := reqctx.Query[listQuery](c)
		return c.JSON(fiber.Map{"success": ok, "message": "", "data": q})
	})
	app.Get("/validate-only", Query[listQuery](QueryValidateOnly), func(c *fiber.Ctx) error {
		_, ok := reqctx.Query[listQuery](c)
		return c.JSON(fiber.Map{"success": !ok, "message": c.Query("limit"), "data": nil})
	})

	status, env := doRequest(t, app, http.MethodGet, "/replace?limit=5", "")
	require.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
	var q listQuery
	require.NoError(t, json.Unmarshal(env.Data, &q))
	assert.Equal(t, listQuery{Page: 1, Limit: 5}, q)

	status, env = doRequest(t, app, http.MethodGet, "/validate-only?limit=5", "")
	require.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success, "validate-only leaves the query out of the request context")
	assert.Equal(t, "5", env.Message)

	status, env = doRequest(t, app, http.MethodGet, "/validate-only?limit=500", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "limit must be 100 or less", env.Message)

	status, _ = doRequest(t, app, http.MethodGet, "/replace?sortOrder=sideways", "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestParamsObjectID(t *testing.T) {
	app := fiber.New()
	app.Get("/items/:id", Params[idParams](), func(c *fiber.Ctx) error {
		p, _ := reqctx.Params[idParams](c)
		return c.JSON(fiber.Map{"success": true, "message": p.ID, "data": nil})
	})

	status, env := doRequest(t, app, http.MethodGet, "/items/not-an-id", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "id must be a valid id", env.Message)

	status, env = doRequest(t, app, http.MethodGet, "/items/65a1f0c2e4b0a1b2c3d4e5f6", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "65a1f0c2e4b0a1b2c3d4e5f6", env.Message)
}
