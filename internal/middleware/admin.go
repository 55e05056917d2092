package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/umirime/backend/internal/config"
	"github.com/umirime/backend/internal/dto"
)

// AdminRequired gates the admin panel. It accepts, in order:
// 1. The configured admin token header (no session needed)
// 2. A session user whose email is on the configured admin list
// 3. A session user with the admin role in the DB
//
// It runs after SessionProtected on the admin group; the token path is
// handled there via AdminTokenBypass.
func AdminRequired(cfg *config.Config) fiber.Handler {
	adminEmails := parseCSV(cfg.AdminEmails)

	return func(c *fiber.Ctx) error {
		if isAdminToken(c, cfg) {
			return c.Next()
		}

		user, ok := CurrentUser(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if contains(adminEmails, user.Email) || user.Role == "admin" {
			return c.Next()
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin access required",
		})
	}
}

// AdminTokenBypass lets a valid admin token skip the session middleware that
// follows it, so scripted admin calls work without a login.
func AdminTokenBypass(cfg *config.Config, next fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if isAdminToken(c, cfg) {
			return c.Next()
		}
		return next(c)
	}
}

func isAdminToken(c *fiber.Ctx, cfg *config.Config) bool {
	return cfg.AdminToken != "" && c.Get("X-Admin-Token") == cfg.AdminToken
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
