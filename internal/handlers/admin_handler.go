package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/umirime/backend/internal/dto"
	"github.com/umirime/backend/internal/services"
)

type AdminHandler struct {
	adminService *services.AdminService
	subService   *services.SubscriptionService
}

func NewAdminHandler(adminService *services.AdminService, subService *services.SubscriptionService) *AdminHandler {
	return &AdminHandler{adminService: adminService, subService: subService}
}

// Check is the probe the admin panel calls to learn whether the current
// credentials pass the admin gate.
func (h *AdminHandler) Check(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"admin": true})
}

func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.adminService.Stats()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load stats",
		})
	}
	return c.JSON(stats)
}

func (h *AdminHandler) Users(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	users, total, err := h.adminService.Users(limit, offset, c.Query("search"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load users",
		})
	}
	return c.JSON(fiber.Map{"users": users, "total": total})
}

func (h *AdminHandler) GrantPremium(c *fiber.Ctx) error {
	var req dto.GrantPremiumRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if req.Days <= 0 {
		req.Days = 30
	}
	if req.PlanID == "" {
		req.PlanID = "monthly"
	}

	if err := h.subService.GrantPremium(req.UserID, req.Days, req.PlanID); err != nil {
		if errors.Is(err, services.ErrUnknownPlan) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to grant premium",
		})
	}
	return c.JSON(fiber.Map{"message": "Premium odobren", "user_id": req.UserID, "days": req.Days})
}

func (h *AdminHandler) RevokePremium(c *fiber.Ctx) error {
	var req dto.RevokePremiumRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.subService.RevokePremium(req.UserID); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to revoke premium",
		})
	}
	return c.JSON(fiber.Map{"message": "Premium ukinut", "user_id": req.UserID})
}

func (h *AdminHandler) SendReminders(c *fiber.Ctx) error {
	sent, err := h.adminService.SendReminders(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to send reminders",
		})
	}
	return c.JSON(fiber.Map{"sent": sent})
}

func (h *AdminHandler) SendTrialWarnings(c *fiber.Ctx) error {
	sent, err := h.adminService.SendTrialWarnings(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to send trial warnings",
		})
	}
	return c.JSON(fiber.Map{"sent": sent})
}

func (h *AdminHandler) TestEmail(c *fiber.Ctx) error {
	var req struct {
		To string `json:"to"`
	}
	if err := c.BodyParser(&req); err != nil || req.To == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.adminService.TestEmail(c.Context(), req.To); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to send test email",
		})
	}
	return c.JSON(fiber.Map{"message": "Test email poslat", "to": req.To})
}
