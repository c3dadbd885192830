package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Rohini2302/SkEnterprises-Project-sub001/internal/http/middleware"
	"github.com/Rohini2302/SkEnterprises-Project-sub001/internal/service"
	"github.com/Rohini2302/SkEnterprises-Project-sub001/internal/storage"
)

// errorPayload is the error envelope returned by every failing endpoint.
// Error carries the underlying detail and is populated only outside
// production.
type errorPayload struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Error     string `json:"error,omitempty"`
	RequestID string `json:"request_id,omitempty"`
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

// writeError writes the error envelope. detail is echoed only when expose is
// true (non-production); validation and credential messages are considered
// safe and go into Message directly by the caller.
func writeError(c *fiber.Ctx, status int, message, detail string, expose bool) error {
	res := errorPayload{
		Success:   false,
		Message:   message,
		RequestID: requestIDFromCtx(c),
	}
	if expose {
		res.Error = detail
	}
	return c.Status(status).JSON(res)
}

// respondError maps a service/storage error onto the failure taxonomy:
// validation 400, credential rejection 401, not found 404, unreachable
// store 503, everything else 500.
func respondError(c *fiber.Ctx, err error, expose bool) error {
	switch {
	case service.IsValidation(err):
		// Validation messages describe the caller's own input; safe to echo.
		return writeError(c, fiber.StatusBadRequest, err.Error(), "", false)
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "document not found", "", false)
	case errors.Is(err, storage.ErrCredentialsRejected):
		// Credential errors are not content; the message is safe to echo.
		return writeError(c, fiber.StatusUnauthorized, err.Error(), "", false)
	case errors.Is(err, storage.ErrUnreachable):
		return writeError(c, fiber.StatusServiceUnavailable, "object storage unavailable", err.Error(), expose)
	case errors.Is(err, storage.ErrNotConfigured):
		return writeError(c, fiber.StatusInternalServerError, "object storage not configured", err.Error(), expose)
	default:
		return writeError(c, fiber.StatusInternalServerError, "request failed", err.Error(), expose)
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error
// responses for errors escaping route handlers (404s, method mismatches,
// body-size rejections).
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "bad request", "", false)
		case fiber.StatusNotFound:
			return writeError(c, status, "resource not found", "", false)
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "method not allowed", "", false)
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "payload too large", "", false)
		default:
			return writeError(c, status, "internal server error", "", false)
		}
	}
}
