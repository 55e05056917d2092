package dto

import (
	"github.com/google/uuid"

	"github.com/umirime/backend/internal/catalog"
	"github.com/umirime/backend/internal/entitlement"
	"github.com/umirime/backend/internal/models"
)

type CheckoutRequest struct {
	PlanID    string `json:"plan_id"`
	OriginURL string `json:"origin_url"`
}

type CheckoutResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

type CheckoutStatusResponse struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
}

type SubscriptionStatusResponse struct {
	entitlement.Entitlement
	Subscription *models.Subscription    `json:"subscription,omitempty"`
	Plans        map[string]catalog.Plan `json:"plans"`
}

type GrantPremiumRequest struct {
	UserID uuid.UUID `json:"user_id"`
	Days   int       `json:"days"`
	PlanID string    `json:"plan_id"`
}

type RevokePremiumRequest struct {
	UserID uuid.UUID `json:"user_id"`
}

type NotificationSettingsRequest struct {
	DailyReminder *bool `json:"daily_reminder"`
	TrialWarnings *bool `json:"trial_warnings"`
}
