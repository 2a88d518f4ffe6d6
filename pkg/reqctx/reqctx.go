// Package reqctx carries validated request data between middleware stages.
//
// A Context is never mutated in place: each stage derives a copy with one
// field replaced and stores it back in the fiber locals, so a handler sees
// exactly what the pipeline produced.
package reqctx

import (
	"github.com/gofiber/fiber/v2"
)

// LocalsKey is the fiber locals key the Context is stored under.
const LocalsKey = "reqctx"

type Identity struct {
	UserID   string
	Username string
	Email    string
	Role     string
}

func (i *Identity) HasRole(roles ...string) bool {
	if i == nil {
		return false
	}
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

type Context struct {
	params   any
	query    any
	body     any
	identity *Identity
}

func (rc Context) WithParams(v any) Context {
	rc.params = v
	return rc
}

func (rc Context) WithQuery(v any) Context {
	rc.query = v
	return rc
}

func (rc Context) WithBody(v any) Context {
	rc.body = v
	return rc
}

func (rc Context) WithIdentity(id Identity) Context {
	rc.identity = &id
	return rc
}

// Identity returns a copy of the authenticated caller, or nil.
func (rc Context) Identity() *Identity {
	if rc.identity == nil {
		return nil
	}
	id := *rc.identity
	return &id
}

// Get returns the Context stored on c, or an empty one.
func Get(c *fiber.Ctx) Context {
	if rc, ok := c.Locals(LocalsKey).(Context); ok {
		return rc
	}
	return Context{}
}

// Set stores rc on c.
func Set(c *fiber.Ctx, rc Context) {
	c.Locals(LocalsKey, rc)
}

// Body returns the validated body of type T. ok is false when no stage stored one.
func Body[T any](c *fiber.Ctx) (T, bool) {
	v, ok := Get(c).body.(T)
	return v, ok
}

func Params[T any](c *fiber.Ctx) (T, bool) {
	v, ok := Get(c).params.(T)
	return v, ok
}

func Query[T any](c *fiber.Ctx) (T, bool) {
	v, ok := Get(c).query.(T)
	return v, ok
}

// CurrentIdentity returns the caller identity attached by the auth middleware.
func CurrentIdentity(c *fiber.Ctx) *Identity {
	return Get(c).Identity()
}
