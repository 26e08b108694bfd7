package handler

import (
	"github.com/gofiber/fiber/v2"

	"hrdocs/internal/service"
)

type roleBody struct {
	Role string `json:"rol"`
}

type passwordBody struct {
	Password string `json:"password"`
}

// ListUsers handles GET /usuarios.
func ListUsers(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(items)
	}
}

// CreateUser handles POST /usuarios.
func CreateUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req service.CreateUserRequest
		if err := c.BodyParser(&req); err != nil {
			return errInvalidBody.WithCause(err)
		}
		u, err := svc.Create(c.UserContext(), req)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"ok":      true,
			"message": "user created",
			"usuario": u,
		})
	}
}

// UpdateUserRole handles PUT /usuarios/:id/rol.
func UpdateUserRole(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body roleBody
		if err := c.BodyParser(&body); err != nil {
			return errInvalidBody.WithCause(err)
		}
		userID := parseID(c.Params("id"))
		role, err := svc.UpdateRole(c.UserContext(), userID, body.Role)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"ok":         true,
			"message":    "role updated",
			"usuario_id": userID,
			"rol":        role,
		})
	}
}

// ResetUserPassword handles PUT /usuarios/:id/password.
func ResetUserPassword(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body passwordBody
		if err := c.BodyParser(&body); err != nil {
			return errInvalidBody.WithCause(err)
		}
		userID := parseID(c.Params("id"))
		if err := svc.ResetPassword(c.UserContext(), userID, body.Password); err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"ok":         true,
			"message":    "password reset",
			"usuario_id": userID,
		})
	}
}
