package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/umirime/backend/internal/dto"
	"github.com/umirime/backend/internal/payment"
	"github.com/umirime/backend/internal/services"
)

type WebhookHandler struct {
	subscriptionService *services.SubscriptionService
}

func NewWebhookHandler(subscriptionService *services.SubscriptionService) *WebhookHandler {
	return &WebhookHandler{subscriptionService: subscriptionService}
}

// HandleStripe processes checkout webhooks. Forged signatures are rejected;
// any other failure is logged and answered 200 so the provider does not
// retry a poison event forever.
func (h *WebhookHandler) HandleStripe(c *fiber.Ctx) error {
	sig := c.Get("Stripe-Signature")
	body := c.Body()

	err := h.subscriptionService.HandleWebhook(body, sig)
	if err != nil {
		if errors.Is(err, payment.ErrInvalidSignature) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid signature",
			})
		}
		slog.Error("webhook processing failed", "error", err)
		return c.JSON(fiber.Map{"status": "error"})
	}

	return c.JSON(fiber.Map{"status": "ok"})
}
