package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/umirime/backend/internal/dto"
	"github.com/umirime/backend/internal/middleware"
	"github.com/umirime/backend/internal/services"
)

type MoodHandler struct {
	moodService *services.MoodService
	subService  *services.SubscriptionService
}

func NewMoodHandler(moodService *services.MoodService, subService *services.SubscriptionService) *MoodHandler {
	return &MoodHandler{moodService: moodService, subService: subService}
}

// Create upserts today's mood entry.
func (h *MoodHandler) Create(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	var req dto.MoodCreateRequest
	if err := c.BodyParser(&req); err != nil || req.MoodType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	entry, err := h.moodService.Upsert(user.ID, &req)
	if err != nil {
		if errors.Is(err, services.ErrUnknownMoodType) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to save mood",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// List returns recent entries, newest day first.
func (h *MoodHandler) List(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	limit := c.QueryInt("limit", 30)
	if limit < 1 || limit > 365 {
		limit = 30
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	entries, err := h.moodService.List(user.ID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load moods",
		})
	}
	return c.JSON(fiber.Map{"moods": entries})
}

// Calendar returns one month of entries.
func (h *MoodHandler) Calendar(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	year, yerr := c.ParamsInt("year")
	month, merr := c.ParamsInt("month")
	if yerr != nil || merr != nil || month < 1 || month > 12 || year < 2000 || year > 2100 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid year or month",
		})
	}

	entries, err := h.moodService.Calendar(user.ID, year, month)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load calendar",
		})
	}
	return c.JSON(fiber.Map{"moods": entries, "year": year, "month": month})
}

// Stats returns the aggregate statistics view.
func (h *MoodHandler) Stats(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	stats, err := h.moodService.Stats(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to compute statistics",
		})
	}
	return c.JSON(stats)
}

// Gamification returns streaks and badge states.
func (h *MoodHandler) Gamification(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	out, err := h.moodService.Gamification(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to compute gamification",
		})
	}
	return c.JSON(out)
}

// Export streams the full history as CSV. Premium only.
func (h *MoodHandler) Export(c *fiber.Ctx) error {
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

	data, err := h.moodService.ExportCSV(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to export moods",
		})
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="umiri_me_raspolozenja.csv"`)
	return c.Send(data)
}
