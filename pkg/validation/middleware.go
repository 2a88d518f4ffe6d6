package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/f2expert/f2expert-sub001/pkg/reqctx"
	"github.com/f2expert/f2expert-sub001/pkg/utils"
)

const (
	MsgBodyRequired  = "Request body is required"
	MsgInvalidBody   = "Invalid request body"
	MsgInvalidParams = "Invalid path parameters"
	MsgInvalidQuery  = "Invalid query parameters"
)

type bodyOptions struct {
	optional        bool
	disallowUnknown bool
}

type BodyOption func(*bodyOptions)

// OptionalBody lets an empty body through as the zero value of the payload.
func OptionalBody() BodyOption {
	return func(o *bodyOptions) { o.optional = true }
}

// DisallowUnknown rejects fields the payload does not declare instead of
// dropping them.
func DisallowUnknown() BodyOption {
	return func(o *bodyOptions) { o.disallowUnknown = true }
}

// Body decodes the JSON body into T, applies defaults, validates it and
// stores the result as the request body.
func Body[T any](opts ...BodyOption) fiber.Handler {
	var o bodyOptions
	for _, opt := range opts {
		opt(&o)
	}

	return func(c *fiber.Ctx) error {
		raw := bytes.TrimSpace(c.Body())
		if isEmptyBody(raw) {
			if !o.optional {
				return utils.BadRequestResponse(c, MsgBodyRequired)
			}
			raw = []byte("{}")
		}

		var v T
		dec := json.NewDecoder(bytes.NewReader(raw))
		if o.disallowUnknown {
			dec.DisallowUnknownFields()
		}
		if err := dec.Decode(&v); err != nil {
			return utils.BadRequestResponse(c, decodeMessage(err))
		}

		res := Check(v)
		if res.Err != nil {
			return utils.BadRequestResponse(c, res.Err.Error())
		}

		reqctx.Set(c, reqctx.Get(c).WithBody(res.Value))
		return c.Next()
	}
}

// Params parses route parameters into T, validates them and stores the
// result as the request params.
func Params[T any]() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var v T
		if err := c.ParamsParser(&v); err != nil {
			return utils.BadRequestResponse(c, MsgInvalidParams)
		}

		res := Check(v)
		if res.Err != nil {
			return utils.BadRequestResponse(c, res.Err.Error())
		}

		reqctx.Set(c, reqctx.Get(c).WithParams(res.Value))
		return c.Next()
	}
}

type QueryMode int

const (
	// QueryReplace stores the coerced, defaulted query for the handler.
	QueryReplace QueryMode = iota
	// QueryValidateOnly rejects bad queries but leaves nothing in the
	// request context; handlers read the raw query string themselves.
	QueryValidateOnly
)

// Query parses the query string into T and validates it. What reaches the
// handler depends on mode.
func Query[T any](mode QueryMode) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var v T
		if err := c.QueryParser(&v); err != nil {
			return utils.BadRequestResponse(c, MsgInvalidQuery)
		}

		res := Check(v)
		if res.Err != nil {
			return utils.BadRequestResponse(c, res.Err.Error())
		}

		if mode == QueryReplace {
			reqctx.Set(c, reqctx.Get(c).WithQuery(res.Value))
		}
		return c.Next()
	}
}

// isEmptyBody is true for no bytes, a JSON null or an object without keys.
func isEmptyBody(raw []byte) bool {
	if len(raw) == 0 || string(raw) == "null" {
		return true
	}
	if raw[0] != '{' {
		return false
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return false
	}
	return len(m) == 0
}

func decodeMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fmt.Sprintf("%s must be a %s", typeErr.Field, jsonKind(typeErr.Type.Kind().String()))
	}

	// encoding/json reports unknown fields only as text
	if msg := err.Error(); strings.HasPrefix(msg, "json: unknown field ") {
		field := strings.Trim(strings.TrimPrefix(msg, "json: unknown field "), `"`)
		return fmt.Sprintf("%s is not allowed", field)
	}

	return MsgInvalidBody
}

func jsonKind(goKind string) string {
	switch goKind {
	case "int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64",
		"float32", "float64":
		return "number"
	case "bool":
		return "boolean"
	case "slice", "array":
		return "list"
	case "struct", "map":
		return "object"
	default:
		return goKind
	}
}
