package middleware

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Logger logs each HTTP request as one JSON object per line on stdout.
// Fields:
// - ts (RFC3339Nano)
// - request_id (taken from context locals set by RequestID middleware)
// - method
// - path
// - status
// - latency (in milliseconds, as float)
func Logger() fiber.Handler {
	return LoggerWithWriter(os.Stdout, time.UTC)
}

// LoggerWithWriter is Logger with an explicit destination and timezone,
// used by tests and by deployments that log somewhere other than stdout.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	enc := json.NewEncoder(w)

	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		// Collect fields after the handler runs to capture the final status.
		rid, _ := c.Locals(RequestIDLocalKey).(string)
		status := c.Response().StatusCode()
		latency := float64(time.Since(start).Microseconds()) / 1000.0

		_ = enc.Encode(map[string]any{
			"ts":         time.Now().In(loc).Format(time.RFC3339Nano),
			"request_id": rid,
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"latency":    latency,
		})

		return err
	}
}
