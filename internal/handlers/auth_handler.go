package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/umirime/backend/internal/config"
	"github.com/umirime/backend/internal/dto"
	"github.com/umirime/backend/internal/middleware"
	"github.com/umirime/backend/internal/models"
	"github.com/umirime/backend/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
	subService  *services.SubscriptionService
	cfg         *config.Config
}

func NewAuthHandler(authService *services.AuthService, subService *services.SubscriptionService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, subService: subService, cfg: cfg}
}

// CreateSession exchanges the OAuth session id for a server-side session.
func (h *AuthHandler) CreateSession(c *fiber.Ctx) error {
	var req dto.SessionRequest
	if err := c.BodyParser(&req); err != nil || req.SessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	user, token, err := h.authService.CreateSessionFromOAuth(c.Context(), req.SessionID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Authentication failed",
		})
	}

	h.setSessionCookie(c, token)
	return h.userResponse(c, user)
}

// RequestMagicLink emails a one-shot login link. The response never reveals
// whether the address is known.
func (h *AuthHandler) RequestMagicLink(c *fiber.Ctx) error {
	var req dto.MagicLinkRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.authService.IssueMagicLink(c.Context(), req.Email); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to send magic link",
		})
	}
	return c.JSON(fiber.Map{"message": "Link za prijavu je poslat na email"})
}

// VerifyMagicLink redeems the emailed token for a session.
func (h *AuthHandler) VerifyMagicLink(c *fiber.Ctx) error {
	var req dto.MagicLinkVerifyRequest
	if err := c.BodyParser(&req); err != nil || req.Token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	user, token, err := h.authService.VerifyMagicLink(req.Token)
	if err != nil {
		if errors.Is(err, services.ErrInvalidLink) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	h.setSessionCookie(c, token)
	return h.userResponse(c, user)
}

// Me returns the authenticated user with fresh entitlement.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	return h.userResponse(c, user)
}

// Logout invalidates the session and clears the cookie.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if token := c.Cookies("session_token"); token != "" {
		if err := h.authService.Logout(token); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to logout",
			})
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     "session_token",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
	})
	return c.JSON(fiber.Map{"message": "Odjavljen/a si"})
}

func (h *AuthHandler) userResponse(c *fiber.Ctx, user *models.User) error {
	ent, err := h.subService.Entitle(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.JSON(dto.UserResponse{
		UserID:      user.ID,
		Email:       user.Email,
		Name:        user.Name,
		Picture:     user.Picture,
		CreatedAt:   user.CreatedAt,
		Entitlement: ent,
	})
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     "session_token",
		Value:    token,
		Expires:  time.Now().Add(h.cfg.SessionTTL),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
	})
}
