package middleware

import (
	"io"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"

	"resumeparser/internal/logging"
)

// Logger logs each request as one JSON line on stdout.
func Logger(loc *time.Location) fiber.Handler {
	return LoggerWithWriter(os.Stdout, loc)
}

// LoggerWithWriter logs request_id, method, path, status and latency (milliseconds) to w.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	log := logging.New(w, loc)

	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		rid, _ := c.Locals(RequestIDLocalKey).(string)

		level := "info"
		if status >= fiber.StatusInternalServerError {
			level = "error"
		}
		log.Log(level, "http_request", map[string]any{
			"request_id": rid,
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"latency":    float64(time.Since(start).Microseconds()) / 1000,
		})

		return err
	}
}
