package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/trace"

	"hrdocs/internal/logging"
)

// Logger is a middleware that logs each HTTP request as one structured line.
// Fields: request_id (set by RequestID), trace_id when a span is active,
// method, path, status, latency in ms.
//
// Downstream code finds the same request-scoped logger with
// logging.FromContext(c.UserContext(), fallback).
func Logger(l *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		rid, _ := c.Locals(RequestIDLocalKey).(string)
		scoped := l.With(slog.String("request_id", rid))
		if sc := trace.SpanContextFromContext(c.UserContext()); sc.IsValid() {
			scoped = scoped.With(slog.String("trace_id", sc.TraceID().String()))
		}
		c.SetUserContext(logging.IntoContext(c.UserContext(), scoped))

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			// The error handler has not run yet; report the status it will write.
			status = statusFromError(err)
		}

		level := slog.LevelInfo
		if status >= fiber.StatusInternalServerError {
			level = slog.LevelError
		}
		scoped.LogAttrs(c.UserContext(), level, "http_request",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Float64("latency", float64(time.Since(start).Microseconds())/1000),
		)

		return err
	}
}
