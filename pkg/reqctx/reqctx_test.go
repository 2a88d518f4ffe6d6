package reqctx

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name string
}

func TestContextIsImmutable(t *testing.T) {
	base := Context{}
	withBody := base.WithBody(sample{Name: "a"})

	_, ok := base.body.(sample)
	assert.False(t, ok, "deriving must not touch the original")
	assert.Equal(t, sample{Name: "a"}, withBody.body)

	withID := withBody.WithIdentity(Identity{UserID: "u1", Role: "admin"})
	assert.Nil(t, withBody.Identity())
	require.NotNil(t, withID.Identity())

	got := withID.Identity()
	got.Role = "student"
	assert.Equal(t, "admin", withID.Identity().Role, "Identity returns a copy")
}

func TestTypedAccessors(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		Set(c, Get(c).WithQuery(sample{Name: "q"}).WithIdentity(Identity{UserID: "u1", Role: "trainer"}))

		q, ok := Query[sample](c)
		assert.True(t, ok)
		assert.Equal(t, "q", q.Name)

		_, ok = Body[sample](c)
		assert.False(t, ok)

		id := CurrentIdentity(c)
		assert.True(t, id.HasRole("admin", "trainer"))
		assert.False(t, id.HasRole("student"))
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestNilIdentityHasNoRole(t *testing.T) {
	var id *Identity
	assert.False(t, id.HasRole("admin"))
}
