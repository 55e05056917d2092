package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/umirime/backend/internal/dto"
	"github.com/umirime/backend/internal/models"
	"github.com/umirime/backend/internal/services"
)

const userLocal = "user"

// SessionProtected resolves the opaque session token from the cookie or the
// Authorization header and stores the user in request locals.
func SessionProtected(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := sessionToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized: missing session token",
			})
		}

		user, err := auth.UserBySessionToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized: invalid or expired session",
			})
		}

		c.Locals(userLocal, user)
		return c.Next()
	}
}

// CurrentUser returns the user stored by SessionProtected.
func CurrentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(userLocal).(*models.User)
	return user, ok
}

func sessionToken(c *fiber.Ctx) string {
	if cookie := c.Cookies("session_token"); cookie != "" {
		return cookie
	}
	header := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
