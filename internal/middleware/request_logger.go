package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RequestLogger is a Fiber middleware that logs every request in a structured format.
// It must run after the requestid middleware and reads the status after the
// error handler has written the response.
func RequestLogger(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		chainErr := c.Next()
		if chainErr != nil {
			// let the app error handler render the response so the status is final
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				logger.ErrorContext(c.UserContext(), "Error handler failed", "error", err, "cause", chainErr)
				if sendErr := c.SendStatus(fiber.StatusInternalServerError); sendErr != nil {
					logger.ErrorContext(c.UserContext(), "Failed to send fallback response", "error", sendErr)
				}
			}
		}

		requestID, _ := c.Locals("requestid").(string)
		logger.InfoContext(c.UserContext(), "Request completed",
			"request_id", requestID,
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"bytes_written", len(c.Response().Body()),
			"duration_ms", float64(time.Since(start).Nanoseconds())/1e6,
			"remote_addr", c.IP(),
			"user_agent", c.Get(fiber.HeaderUserAgent),
		)
		return nil
	}
}
