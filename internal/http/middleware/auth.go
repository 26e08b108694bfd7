package middleware

import (
	"github.com/gofiber/fiber/v2"

	"hrdocs/internal/auth"
	"hrdocs/internal/model"
)

// IdentityLocalKey is the Fiber locals key holding the request's auth.Identity.
const IdentityLocalKey = "identity"

// Authenticate verifies the bearer credential and stores the Identity in
// locals. When roles is non-empty the caller's role must be one of them.
// Pre-flight OPTIONS requests pass through untouched.
//
// Failures are returned as errors so the global error handler renders them.
func Authenticate(guard *auth.Guard, roles ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodOptions {
			return c.Next()
		}

		id, err := guard.Authenticate(func(name string) string { return c.Get(name) })
		if err != nil {
			return err
		}
		if err := guard.Authorize(id, roles); err != nil {
			return err
		}

		c.Locals(IdentityLocalKey, id)
		return c.Next()
	}
}

// IdentityFromCtx returns the Identity stored by Authenticate.
func IdentityFromCtx(c *fiber.Ctx) (auth.Identity, bool) {
	id, ok := c.Locals(IdentityLocalKey).(auth.Identity)
	return id, ok
}
