package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/umirime/backend/internal/dto"
	"github.com/umirime/backend/internal/middleware"
	"github.com/umirime/backend/internal/services"
)

type SettingsHandler struct {
	settingsService *services.SettingsService
}

func NewSettingsHandler(settingsService *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	settings, err := h.settingsService.Get(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load settings",
		})
	}
	return c.JSON(settings)
}

func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	var req dto.NotificationSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	settings, err := h.settingsService.Save(user.ID, &req)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to save settings",
		})
	}
	return c.JSON(settings)
}
