package handler

import (
	"github.com/gofiber/fiber/v2"

	"hrdocs/internal/service"
)

// ListEmployees handles GET /empleados.
func ListEmployees(svc service.EmployeeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(items)
	}
}

// CreateEmployee handles POST /empleados.
func CreateEmployee(svc service.EmployeeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req service.EmployeeRequest
		if err := c.BodyParser(&req); err != nil {
			return errInvalidBody.WithCause(err)
		}
		e, err := svc.Create(c.UserContext(), req)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"ok":      true,
			"message": "employee created",
			"id":      e.ID,
		})
	}
}

// UpdateEmployee handles PUT /empleados/:id.
func UpdateEmployee(svc service.EmployeeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req service.EmployeeRequest
		if err := c.BodyParser(&req); err != nil {
			return errInvalidBody.WithCause(err)
		}
		id := parseID(c.Params("id"))
		if err := svc.Update(c.UserContext(), id, req); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true, "message": "employee updated", "id": id})
	}
}

// DeleteEmployee handles DELETE /empleados/:id.
func DeleteEmployee(svc service.EmployeeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := parseID(c.Params("id"))
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true, "message": "employee deleted"})
	}
}
