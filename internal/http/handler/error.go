package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"hrdocs/internal/apperr"
	"hrdocs/internal/http/middleware"
	"hrdocs/internal/logging"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Remediation []string `json:"remediation,omitempty"`
	// Detail carries the underlying error text in local deployments only.
	Detail string `json:"detail,omitempty"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
func writeError(c *fiber.Ctx, status int, env errorEnvelope) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: requestIDFromCtx(c),
		Error:     env,
	})
}

// requestLogger prefers the logger the Logger middleware scoped to this
// request; without one the fallback is tagged with the request id.
func requestLogger(c *fiber.Ctx, fallback *slog.Logger) *slog.Logger {
	return logging.FromContext(c.UserContext(), fallback.With("request_id", requestIDFromCtx(c)))
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
// With debug set, the cause of the error is included as detail.
func ErrorHandler(log *slog.Logger, debug bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if ae, ok := apperr.As(err); ok {
			status := ae.Kind.HTTPStatus()
			env := errorEnvelope{Code: ae.Code, Message: ae.Message, Remediation: ae.Remediation}
			if status >= fiber.StatusInternalServerError {
				requestLogger(c, log).ErrorContext(c.UserContext(), "request failed",
					"code", ae.Code,
					"error", err,
				)
			}
			if debug && ae.Err != nil {
				env.Detail = ae.Err.Error()
			}
			return writeError(c, status, env)
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return writeError(c, fe.Code, fiberEnvelope(fe.Code))
		}

		requestLogger(c, log).ErrorContext(c.UserContext(), "request failed",
			"error", err,
		)
		env := errorEnvelope{Code: "INTERNAL_ERROR", Message: "internal server error"}
		if debug {
			env.Detail = err.Error()
		}
		return writeError(c, fiber.StatusInternalServerError, env)
	}
}

func fiberEnvelope(status int) errorEnvelope {
	switch status {
	case fiber.StatusBadRequest:
		return errorEnvelope{Code: "BAD_REQUEST", Message: "bad request"}
	case fiber.StatusNotFound:
		return errorEnvelope{Code: "NOT_FOUND", Message: "resource not found"}
	case fiber.StatusMethodNotAllowed:
		return errorEnvelope{Code: "METHOD_NOT_ALLOWED", Message: "method not allowed"}
	case fiber.StatusRequestEntityTooLarge:
		return errorEnvelope{Code: "PAYLOAD_TOO_LARGE", Message: "request body too large"}
	case fiber.StatusUnsupportedMediaType:
		return errorEnvelope{Code: "UNSUPPORTED_MEDIA_TYPE", Message: "unsupported media type"}
	default:
		return errorEnvelope{Code: "INTERNAL_ERROR", Message: "internal server error"}
	}
}
