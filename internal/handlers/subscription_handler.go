package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/umirime/backend/internal/catalog"
	"github.com/umirime/backend/internal/dto"
	"github.com/umirime/backend/internal/middleware"
	"github.com/umirime/backend/internal/services"
)

type SubscriptionHandler struct {
	subService  *services.SubscriptionService
	catalog     *catalog.Catalog
	frontendURL string
}

func NewSubscriptionHandler(subService *services.SubscriptionService, cat *catalog.Catalog, frontendURL string) *SubscriptionHandler {
	return &SubscriptionHandler{subService: subService, catalog: cat, frontendURL: frontendURL}
}

// Status returns the entitlement plus the raw subscription row and plans.
func (h *SubscriptionHandler) Status(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	ent, err := h.subService.Entitle(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	sub, err := h.subService.Get(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.JSON(dto.SubscriptionStatusResponse{
		Entitlement:  ent,
		Subscription: sub,
		Plans:        h.catalog.Plans(),
	})
}

// CreateCheckout opens a hosted checkout session for a plan.
func (h *SubscriptionHandler) CreateCheckout(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)

	var req dto.CheckoutRequest
	if err := c.BodyParser(&req); err != nil || req.PlanID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	origin := req.OriginURL
	if origin == "" {
		origin = h.frontendURL
	}

	session, err := h.subService.CreateCheckout(c.Context(), user.ID, req.PlanID, origin)
	if err != nil {
		if errors.Is(err, services.ErrUnknownPlan) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		slog.Error("checkout creation failed", "user_id", user.ID, "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Error: true, Message: "Payment provider unavailable",
		})
	}

	return c.JSON(dto.CheckoutResponse{SessionID: session.SessionID, URL: session.URL})
}

// CheckoutStatus polls a checkout session after redirect.
func (h *SubscriptionHandler) CheckoutStatus(c *fiber.Ctx) error {
	sessionID := c.Params("session_id")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Missing session id",
		})
	}

	status, err := h.subService.PollCheckout(c.Context(), sessionID)
	if err != nil {
		if errors.Is(err, services.ErrUnknownSession) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		slog.Error("checkout poll failed", "session_id", sessionID, "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Error: true, Message: "Payment provider unavailable",
		})
	}

	return c.JSON(dto.CheckoutStatusResponse{Status: status.Status, PaymentStatus: status.PaymentStatus})
}
