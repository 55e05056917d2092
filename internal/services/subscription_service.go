package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/umirime/backend/internal/catalog"
	"github.com/umirime/backend/internal/entitlement"
	"github.com/umirime/backend/internal/models"
	"github.com/umirime/backend/internal/payment"
)

const trialDays = 7

// SubscriptionService drives the subscription lifecycle: trial grants,
// checkout-session creation, payment polling and webhook activation.
type SubscriptionService struct {
	db      *gorm.DB
	gateway payment.Gateway
	catalog *catalog.Catalog
}

func NewSubscriptionService(db *gorm.DB, gateway payment.Gateway, cat *catalog.Catalog) *SubscriptionService {
	return &SubscriptionService{db: db, gateway: gateway, catalog: cat}
}

// ActivateTrial grants the 7-day trial to a brand-new user. If any
// subscription row already exists for the user, nothing happens; this also
// means a user whose trial was revoked never gets a second one.
func (s *SubscriptionService) ActivateTrial(userID uuid.UUID) error {
	var count int64
	if err := s.db.Model(&models.Subscription{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	sub := models.Subscription{
		UserID:    userID,
		PlanID:    "trial",
		IsTrial:   true,
		Status:    models.SubscriptionStatusActive,
		StartedAt: now,
		ExpiresAt: now.AddDate(0, 0, trialDays),
	}
	if err := s.db.Create(&sub).Error; err != nil {
		return fmt.Errorf("failed to create trial subscription: %w", err)
	}

	slog.Info("trial activated", "user_id", userID, "expires_at", sub.ExpiresAt)
	return nil
}

// Get returns the user's subscription row, or nil when the user never
// interacted with billing.
func (s *SubscriptionService) Get(userID uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.Where("user_id = ?", userID).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Entitle resolves the user's entitlement fresh against the current time.
func (s *SubscriptionService) Entitle(userID uuid.UUID) (entitlement.Entitlement, error) {
	sub, err := s.Get(userID)
	if err != nil {
		return entitlement.Entitlement{}, err
	}
	return entitlement.Resolve(sub, time.Now().UTC()), nil
}

// CreateCheckout asks the payment provider for a hosted checkout session and
// records the transaction keyed by the provider's session id.
func (s *SubscriptionService) CreateCheckout(ctx context.Context, userID uuid.UUID, planID, originURL string) (*payment.CheckoutSession, error) {
	plan, ok := s.catalog.Plan(planID)
	if !ok {
		return nil, ErrUnknownPlan
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, payment.CheckoutRequest{
		Amount:     plan.Amount,
		Currency:   plan.Currency,
		Label:      "Umiri.me Premium — " + plan.Label,
		SuccessURL: originURL + "/payment-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  originURL + "/premium",
		Metadata: map[string]string{
			"user_id": userID.String(),
			"plan_id": plan.ID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	txn := models.PaymentTransaction{
		SessionID:     session.SessionID,
		UserID:        userID,
		PlanID:        plan.ID,
		Amount:        plan.Amount,
		Currency:      plan.Currency,
		PaymentStatus: models.PaymentStatusInitiated,
		Status:        "open",
	}
	if err := s.db.Create(&txn).Error; err != nil {
		return nil, fmt.Errorf("failed to record payment transaction: %w", err)
	}

	return session, nil
}

// PollCheckout returns the payment status for a checkout session. A session
// already recorded as paid short-circuits without calling the provider; a
// newly paid session triggers activation.
func (s *SubscriptionService) PollCheckout(ctx context.Context, sessionID string) (*payment.SessionStatus, error) {
	var txn models.PaymentTransaction
	if err := s.db.Where("session_id = ?", sessionID).First(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownSession
		}
		return nil, err
	}

	if txn.PaymentStatus == models.PaymentStatusPaid {
		return &payment.SessionStatus{Status: txn.Status, PaymentStatus: txn.PaymentStatus}, nil
	}

	status, err := s.gateway.GetSessionStatus(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payment provider: %w", err)
	}

	updates := map[string]interface{}{"status": status.Status, "payment_status": status.PaymentStatus}
	if err := s.db.Model(&txn).Updates(updates).Error; err != nil {
		return nil, err
	}

	if status.PaymentStatus == models.PaymentStatusPaid {
		if err := s.activate(txn.UserID, txn.PlanID, sessionID); err != nil {
			return nil, err
		}
	}
	return status, nil
}

// HandleWebhook verifies and applies a provider webhook. Unknown sessions
// are logged and ignored so a poison event cannot loop forever.
func (s *SubscriptionService) HandleWebhook(rawBody []byte, sigHeader string) error {
	event, err := s.gateway.VerifyWebhook(rawBody, sigHeader)
	if err != nil {
		return err
	}

	if event.PaymentStatus != models.PaymentStatusPaid {
		slog.Info("webhook ignored", "type", event.Type, "payment_status", event.PaymentStatus)
		return nil
	}

	var txn models.PaymentTransaction
	if err := s.db.Where("session_id = ?", event.SessionID).First(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Warn("webhook for unknown session ignored", "session_id", event.SessionID)
			return nil
		}
		return err
	}

	if txn.PaymentStatus != models.PaymentStatusPaid {
		if err := s.db.Model(&txn).Updates(map[string]interface{}{
			"status":         "complete",
			"payment_status": models.PaymentStatusPaid,
		}).Error; err != nil {
			return err
		}
	}

	return s.activate(txn.UserID, txn.PlanID, event.SessionID)
}

// activate converts a paid checkout session into an active subscription,
// at most once per session id. Racing webhook and poll deliveries land on
// the same existence check inside one transaction; the unique index on
// subscriptions.session_id backs it up.
func (s *SubscriptionService) activate(userID uuid.UUID, planID, sessionID string) error {
	plan, ok := s.catalog.Plan(planID)
	if !ok {
		return ErrUnknownPlan
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Subscription{}).Where("session_id = ?", sessionID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			slog.Info("subscription already activated for session", "session_id", sessionID)
			return nil
		}

		now := time.Now().UTC()
		sub := models.Subscription{
			UserID:    userID,
			PlanID:    plan.ID,
			IsTrial:   false,
			Status:    models.SubscriptionStatusActive,
			StartedAt: now,
			ExpiresAt: now.AddDate(0, 0, plan.PeriodDays),
			SessionID: &sessionID,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"plan_id", "is_trial", "status", "started_at", "expires_at", "session_id", "updated_at",
			}),
		}).Create(&sub).Error
		if err != nil {
			return fmt.Errorf("failed to activate subscription: %w", err)
		}

		slog.Info("subscription activated", "user_id", userID, "plan_id", plan.ID, "session_id", sessionID)
		return nil
	})
}

// GrantPremium is the admin override: an active non-trial subscription
// expiring after the given number of days, bypassing payment.
func (s *SubscriptionService) GrantPremium(userID uuid.UUID, days int, planID string) error {
	if _, ok := s.catalog.Plan(planID); !ok {
		return ErrUnknownPlan
	}

	now := time.Now().UTC()
	sub := models.Subscription{
		UserID:    userID,
		PlanID:    planID,
		IsTrial:   false,
		Status:    models.SubscriptionStatusActive,
		StartedAt: now,
		ExpiresAt: now.AddDate(0, 0, days),
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"plan_id", "is_trial", "status", "started_at", "expires_at", "updated_at",
		}),
	}).Create(&sub).Error
	if err != nil {
		return fmt.Errorf("failed to grant premium: %w", err)
	}

	slog.Info("premium granted", "user_id", userID, "plan_id", planID, "days", days)
	return nil
}

// RevokePremium marks the user's subscription revoked. Revoked is terminal
// for entitlement regardless of expires_at.
func (s *SubscriptionService) RevokePremium(userID uuid.UUID) error {
	result := s.db.Model(&models.Subscription{}).
		Where("user_id = ?", userID).
		Update("status", models.SubscriptionStatusRevoked)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	slog.Info("premium revoked", "user_id", userID)
	return nil
}
