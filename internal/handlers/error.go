package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/mapbrew/brewfinder/internal/services"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is the custom error handler for Fiber
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error: message,
	})
}

// serviceError maps the typed service failures onto HTTP responses.
// Insufficient credits and full favorite sets are recoverable,
// user-facing conditions the client resolves with the reward/purchase
// flows, not server errors.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInsufficientCredits):
		return c.Status(fiber.StatusPaymentRequired).JSON(ErrorResponse{
			Error:   "insufficient_credits",
			Details: "watch a rewarded ad or purchase credits to search again",
		})
	case errors.Is(err, services.ErrCapacityExceeded):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "favorite_capacity_exceeded",
			Details: "free a slot or expand capacity to favorite this place",
		})
	case errors.Is(err, services.ErrProviderUnavailable):
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
			Error: "place_provider_unavailable",
		})
	case errors.Is(err, services.ErrInvalidAmount):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid_amount",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: err.Error(),
		})
	}
}
