package handlers

import (
	"errors"

	"github.com/devjkoo/wayfarer/server/internal/services"
	"github.com/gofiber/fiber/v2"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is the custom error handler for Fiber. Service sentinels map
// to stable status codes here so handlers can return them unwrapped and
// clients never have to string-match.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	switch {
	case errors.Is(err, services.ErrInvalidCategory):
		code = fiber.StatusBadRequest
		message = err.Error()
	case errors.Is(err, services.ErrSuggestionTimeout):
		code = fiber.StatusGatewayTimeout
		message = "suggestion agent timed out"
	case errors.Is(err, services.ErrSuggestionUnavailable):
		code = fiber.StatusBadGateway
		message = "suggestions are temporarily unavailable"
	case errors.Is(err, services.ErrTripNotFound),
		errors.Is(err, services.ErrPlaceNotFound):
		code = fiber.StatusNotFound
		message = err.Error()
	default:
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
			message = fiberErr.Message
		}
	}

	return c.Status(code).JSON(ErrorResponse{
		Error: message,
	})
}
