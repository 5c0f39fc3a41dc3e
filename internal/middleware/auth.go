package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mapbrew/brewfinder/internal/config"
	"github.com/mapbrew/brewfinder/internal/services"
	"github.com/mapbrew/brewfinder/pkg/auth"
)

func AuthRequired(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		token := parts[1]
		claims, err := auth.ValidateAccessToken(token, cfg.JWTSecretKey)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals("userID", claims.UserID)
		return c.Next()
	}
}

// OptionalAuth allows both authenticated and guest requests; guests
// identify themselves with the X-Device-ID header instead of a token
func OptionalAuth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Next()
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Next()
		}

		token := parts[1]
		claims, err := auth.ValidateAccessToken(token, cfg.JWTSecretKey)
		if err != nil {
			return c.Next()
		}

		c.Locals("userID", claims.UserID)
		return c.Next()
	}
}

// ErrMissingIdentity is returned when neither a token nor a device ID
// identifies the caller
var ErrMissingIdentity = errors.New("missing device identity")

// ResolveIdentity picks the account slot for a request: the
// authenticated user when a valid token was presented, otherwise the
// guest slot of the X-Device-ID header.
func ResolveIdentity(c *fiber.Ctx) (services.Identity, error) {
	if userID, ok := c.Locals("userID").(uint); ok {
		return services.UserIdentity(userID), nil
	}

	deviceID := c.Get("X-Device-ID")
	if deviceID == "" {
		return "", ErrMissingIdentity
	}
	return services.GuestIdentity(deviceID), nil
}
