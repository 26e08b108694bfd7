package handler

import (
	"github.com/gofiber/fiber/v2"

	"hrdocs/internal/apperr"
	"hrdocs/internal/service"
)

var errInvalidBody = apperr.Validation("INVALID_BODY", "request body must be valid JSON")

// Login handles POST /auth/login.
func Login(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req service.LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return errInvalidBody.WithCause(err)
		}
		res, err := svc.Login(c.UserContext(), req)
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}
