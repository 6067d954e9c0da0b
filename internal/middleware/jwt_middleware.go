package middleware

import (
	"strings"

	"productsvc/internal/apperrors"
	"productsvc/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired is a Fiber middleware that rejects requests without a valid
// "Authorization: Bearer <token>" header.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return apperrors.Unauthorized("Authorization header is required", nil)
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return apperrors.Unauthorized("Authorization header format must be 'Bearer <token>'", nil)
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			return apperrors.Unauthorized("Invalid or expired token", err)
		}

		c.Locals("user_id", claims["user_id"])
		c.Locals("username", claims["username"])
		return c.Next()
	}
}
