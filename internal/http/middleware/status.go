package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"hrdocs/internal/apperr"
)

// statusFromError predicts the status the global error handler writes for err.
func statusFromError(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return apperr.Status(err)
}
