package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"productapi/internal/apperrors"

	"github.com/gofiber/fiber/v2"
)

// ProblemContentType is the media type of problem responses.
const ProblemContentType = "application/problem+json"

const internalErrorDetail = "An unexpected error occurred. Please try again later."

// Problem is an RFC 7807 problem details body.
type Problem struct {
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	Status    int               `json:"status"`
	Detail    string            `json:"detail"`
	Instance  string            `json:"instance"`
	Timestamp time.Time         `json:"timestamp"`
	Errors    map[string]string `json:"errors,omitempty"`
}

// NewProblem builds the problem body for err raised while serving instance.
func NewProblem(err error, instance string, now time.Time) Problem {
	p := Problem{
		Type:      "about:blank",
		Instance:  instance,
		Timestamp: now.UTC(),
	}

	var appErr *apperrors.Error
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &appErr):
		p.Detail = appErr.Detail
		switch appErr.Kind {
		case apperrors.KindNotFound:
			p.Title, p.Status = "Resource Not Found", http.StatusNotFound
		case apperrors.KindValidation:
			p.Title, p.Status = "Validation Error", http.StatusUnprocessableEntity
		case apperrors.KindBadRequest:
			p.Title, p.Status = "Bad Request", http.StatusBadRequest
		case apperrors.KindFieldValidation:
			p.Title, p.Status = "Validation Failed", http.StatusBadRequest
			p.Errors = appErr.Fields
		case apperrors.KindMalformed:
			p.Title, p.Status = "Malformed Request", http.StatusBadRequest
		default:
			p.Title, p.Status, p.Detail = "Internal Server Error", http.StatusInternalServerError, internalErrorDetail
		}
	case errors.As(err, &fiberErr):
		// routing failures (unknown path, method not allowed) raised by Fiber itself
		p.Title, p.Status, p.Detail = http.StatusText(fiberErr.Code), fiberErr.Code, fiberErr.Message
	default:
		p.Title, p.Status, p.Detail = "Internal Server Error", http.StatusInternalServerError, internalErrorDetail
	}
	return p
}

// NewErrorHandler returns the Fiber error handler that logs every error and
// answers with a problem body.
func NewErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "error_handler")

	return func(c *fiber.Ctx, err error) error {
		problem := NewProblem(err, c.Path(), time.Now())

		attrs := []any{
			"method", c.Method(),
			"path", problem.Instance,
			"status", problem.Status,
			"request_id", RequestID(c),
			"error", err,
		}
		if problem.Status >= http.StatusInternalServerError {
			logger.ErrorContext(c.UserContext(), "Request failed", attrs...)
		} else {
			logger.WarnContext(c.UserContext(), problem.Title, attrs...)
		}

		body, marshalErr := json.Marshal(problem)
		if marshalErr != nil {
			logger.Error("Error encoding problem response", "error", marshalErr)
			return c.Status(fiber.StatusInternalServerError).SendString(http.StatusText(http.StatusInternalServerError))
		}
		c.Set(fiber.HeaderContentType, ProblemContentType)
		return c.Status(problem.Status).Send(body)
	}
}

// RequestID returns the id assigned by the requestid middleware, or "" if none.
func RequestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}
