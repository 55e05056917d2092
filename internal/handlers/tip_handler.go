package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/umirime/backend/internal/dto"
	"github.com/umirime/backend/internal/middleware"
	"github.com/umirime/backend/internal/services"
)

// TipHandler serves the AI-generated daily tip and weekly report. Both are
// premium features.
type TipHandler struct {
	tipService *services.TipService
	subService *services.SubscriptionService
}

func NewTipHandler(tipService *services.TipService, subService *services.SubscriptionService) *TipHandler {
	return &TipHandler{tipService: tipService, subService: subService}
}

func (h *TipHandler) DailyTip(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	ent, err := h.subService.Entitle(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	if !ent.IsPremium {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: services.ErrPremiumRequired.Error(),
		})
	}

	tip, err := h.tipService.DailyTip(c.Context(), user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to generate tip",
		})
	}
	return c.JSON(tip)
}

func (h *TipHandler) WeeklyReport(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	ent, err := h.subService.Entitle(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	if !ent.IsPremium {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: services.ErrPremiumRequired.Error(),
		})
	}

	report, err := h.tipService.WeeklyReport(c.Context(), user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to generate report",
		})
	}
	return c.JSON(report)
}
