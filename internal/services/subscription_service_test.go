package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umirime/backend/internal/catalog"
	"github.com/umirime/backend/internal/models"
	"github.com/umirime/backend/internal/payment"
	"github.com/umirime/backend/internal/testutil"
)

func TestActivateTrial(t *testing.T) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	svc := NewSubscriptionService(db, payment.NewMockGateway(), catalog.Default())
	user := testutil.TestUser(t, db)

	require.NoError(t, svc.ActivateTrial(user.ID))

	sub, err := svc.Get(user.ID)
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.True(t, sub.IsTrial)
	assert.Equal(t, "trial", sub.PlanID)
	assert.Equal(t, models.SubscriptionStatusActive, sub.Status)
	assert.WithinDuration(t, time.Now().UTC().AddDate(0, 0, 7), sub.ExpiresAt, time.Minute)

	ent, err := svc.Entitle(user.ID)
	require.NoError(t, err)
	assert.True(t, ent.IsPremium)
	assert.True(t, ent.IsTrial)
}

func TestActivateTrialIsIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	svc := NewSubscriptionService(db, payment.NewMockGateway(), catalog.Default())
	user := testutil.TestUser(t, db)

	require.NoError(t, svc.ActivateTrial(user.ID))
	first, err := svc.Get(user.ID)
	require.NoError(t, err)

	require.NoError(t, svc.ActivateTrial(user.ID))
	second, err := svc.Get(user.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.ExpiresAt, second.ExpiresAt)

	var count int64
	db.Model(&models.Subscription{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestActivateTrialNotRegrantedAfterRevoke(t *testing.T) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	svc := NewSubscriptionService(db, payment.NewMockGateway(), catalog.Default())
	user := testutil.TestUser(t, db)

	require.NoError(t, svc.ActivateTrial(user.ID))
	require.NoError(t, svc.RevokePremium(user.ID))

	require.NoError(t, svc.ActivateTrial(user.ID))

	sub, err := svc.Get(user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusRevoked, sub.Status)

	ent, err := svc.Entitle(user.ID)
	require.NoError(t, err)
	assert.False(t, ent.IsPremium)
}

func TestCreateCheckout(t *testing.T) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	svc := NewSubscriptionService(db, payment.NewMockGateway(), catalog.Default())
	user := testutil.TestUser(t, db)

	session, err := svc.CreateCheckout(context.Background(), user.ID, "monthly", "https://umiri.me")
	require.NoError(t, err)
	assert.NotEmpty(t, session.SessionID)
	assert.NotEmpty(t, session.URL)

	var txn models.PaymentTransaction
	require.NoError(t, db.Where("session_id = ?", session.SessionID).First(&txn).Error)
	assert.Equal(t, user.ID, txn.UserID)
	assert.Equal(t, "monthly", txn.PlanID)
	assert.Equal(t, float64(500), txn.Amount)
	assert.Equal(t, "rsd", txn.Currency)
	assert.Equal(t, models.PaymentStatusInitiated, txn.PaymentStatus)
}

func TestCreateCheckoutUnknownPlan(t *testing.T) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	svc := NewSubscriptionService(db, payment.NewMockGateway(), catalog.Default())
	user := testutil.TestUser(t, db)

	_, err := svc.CreateCheckout(context.Background(), user.ID, "lifetime", "https://umiri.me")
	assert.ErrorIs(t, err, ErrUnknownPlan)
}

func TestPollCheckoutActivatesOnPayment(t *testing.T) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	gateway := payment.NewMockGateway()
	svc := NewSubscriptionService(db, gateway, catalog.Default())
	user := testutil.TestUser(t, db)

	session, err := svc.CreateCheckout(context.Background(), user.ID, "monthly", "https://umiri.me")
	require.NoError(t, err)

	status, err := svc.PollCheckout(context.Background(), session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "unpaid", status.PaymentStatus)

	sub, err := svc.Get(user.ID)
	require.NoError(t, err)
	assert.Nil(t, sub)

	gateway.MarkPaid(session.SessionID)

	status, err = svc.PollCheckout(context.Background(), session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, status.PaymentStatus)

	sub, err = svc.Get(user.ID)
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.False(t, sub.IsTrial)
	assert.Equal(t, "monthly", sub.PlanID)
	require.NotNil(t, sub.SessionID)
	assert.Equal(t, session.SessionID, *sub.SessionID)
	assert.WithinDuration(t, time.Now().UTC().AddDate(0, 0, 30), sub.ExpiresAt, time.Minute)
}

func TestPollCheckoutUnknownSession(t *testing.T) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	svc := NewSubscriptionService(db, payment.NewMockGateway(), catalog.Default())

	_, err := svc.PollCheckout(context.Background(), "cs_missing")
	assert.ErrorIs(t, err, ErrUnknownSession)
}

func TestActivationIsAtMostOncePerSession(t *testing.T) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	gateway := payment.NewMockGateway()
	svc := NewSubscriptionService(db, gateway, catalog.Default())
	user := testutil.TestUser(t, db)

	session, err := svc.CreateCheckout(context.Background(), user.ID, "yearly", "https://umiri.me")
	require.NoError(t, err)
	gateway.MarkPaid(session.SessionID)

	// First delivery arrives over the webhook.
	require.NoError(t, svc.HandleWebhook([]byte(session.SessionID), "mock-signature"))

	first, err := svc.Get(user.ID)
	require.NoError(t, err)
	require.NotNil(t, first)

	// Duplicate webhook and a racing poll must both observe the paid
	// session and leave the subscription untouched.
	require.NoError(t, svc.HandleWebhook([]byte(session.SessionID), "mock-signature"))
	_, err = svc.PollCheckout(context.Background(), session.SessionID)
	require.NoError(t, err)

	second, err := svc.Get(user.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ExpiresAt, second.ExpiresAt)
	assert.Equal(t, first.StartedAt, second.StartedAt)

	var count int64
	db.Model(&models.Subscription{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestHandleWebhookRejectsBadSignature(t *testing.T) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	svc := NewSubscriptionService(db, payment.NewMockGateway(), catalog.Default())

	err := svc.HandleWebhook([]byte("cs_test_001"), "forged")
	assert.ErrorIs(t, err, payment.ErrInvalidSignature)
}

func TestHandleWebhookUnknownSessionIgnored(t *testing.T) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	svc := NewSubscriptionService(db, payment.NewMockGateway(), catalog.Default())

	assert.NoError(t, svc.HandleWebhook([]byte("cs_never_created"), "mock-signature"))

	var count int64
	db.Model(&models.Subscription{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestPaymentUpgradesTrial(t *testing.T) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	gateway := payment.NewMockGateway()
	svc := NewSubscriptionService(db, gateway, catalog.Default())
	user := testutil.TestUser(t, db)

	require.NoError(t, svc.ActivateTrial(user.ID))

	session, err := svc.CreateCheckout(context.Background(), user.ID, "monthly", "https://umiri.me")
	require.NoError(t, err)
	gateway.MarkPaid(session.SessionID)
	require.NoError(t, svc.HandleWebhook([]byte(session.SessionID), "mock-signature"))

	sub, err := svc.Get(user.ID)
	require.NoError(t, err)
	assert.False(t, sub.IsTrial)
	assert.Equal(t, "monthly", sub.PlanID)

	// Still one row per user after the upgrade.
	var count int64
	db.Model(&models.Subscription{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestGrantAndRevokePremium(t *testing.T) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	svc := NewSubscriptionService(db, payment.NewMockGateway(), catalog.Default())
	user := testutil.TestUser(t, db)

	require.NoError(t, svc.GrantPremium(user.ID, 90, "monthly"))

	ent, err := svc.Entitle(user.ID)
	require.NoError(t, err)
	assert.True(t, ent.IsPremium)
	assert.False(t, ent.IsTrial)
	assert.Equal(t, "monthly", ent.PlanID)

	require.NoError(t, svc.RevokePremium(user.ID))

	ent, err = svc.Entitle(user.ID)
	require.NoError(t, err)
	assert.False(t, ent.IsPremium)
	assert.Equal(t, "monthly", ent.PlanID)
}

func TestRevokePremiumWithoutSubscription(t *testing.T) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	svc := NewSubscriptionService(db, payment.NewMockGateway(), catalog.Default())
	user := testutil.TestUser(t, db)

	assert.ErrorIs(t, svc.RevokePremium(user.ID), ErrUserNotFound)
}
