package entitlement

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/umirime/backend/internal/models"
)

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func activeSub(expires time.Time) *models.Subscription {
	return &models.Subscription{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		PlanID:    "monthly",
		Status:    models.SubscriptionStatusActive,
		StartedAt: now.AddDate(0, 0, -5),
		ExpiresAt: expires,
	}
}

func TestResolve_NoSubscription(t *testing.T) {
	ent := Resolve(nil, now)

	assert.False(t, ent.IsPremium)
	assert.False(t, ent.IsTrial)
	assert.Zero(t, ent.DaysLeft)
	assert.Empty(t, ent.PlanID)
}

func TestResolve_ActiveFuture(t *testing.T) {
	ent := Resolve(activeSub(now.AddDate(0, 0, 10)), now)

	assert.True(t, ent.IsPremium)
	assert.False(t, ent.IsTrial)
	assert.Equal(t, 10, ent.DaysLeft)
	assert.Equal(t, "monthly", ent.PlanID)
}

func TestResolve_Trial(t *testing.T) {
	sub := activeSub(now.Add(36 * time.Hour))
	sub.IsTrial = true
	sub.PlanID = "trial"

	ent := Resolve(sub, now)

	assert.True(t, ent.IsPremium)
	assert.True(t, ent.IsTrial)
	assert.Equal(t, 1, ent.DaysLeft)
}

func TestResolve_Expired(t *testing.T) {
	ent := Resolve(activeSub(now.Add(-time.Hour)), now)

	assert.False(t, ent.IsPremium)
	assert.False(t, ent.IsTrial)
	assert.Zero(t, ent.DaysLeft)
	// Expired keeps its plan id, which distinguishes it from the absence case.
	assert.Equal(t, "monthly", ent.PlanID)
}

func TestResolve_ExpiresExactlyNow(t *testing.T) {
	ent := Resolve(activeSub(now), now)

	assert.False(t, ent.IsPremium)
}

func TestResolve_Revoked(t *testing.T) {
	sub := activeSub(now.AddDate(1, 0, 0))
	sub.Status = models.SubscriptionStatusRevoked

	ent := Resolve(sub, now)

	assert.False(t, ent.IsPremium)
	assert.Zero(t, ent.DaysLeft)
	assert.Equal(t, "monthly", ent.PlanID)
}

func TestResolve_DaysLeftFloors(t *testing.T) {
	ent := Resolve(activeSub(now.Add(47*time.Hour)), now)

	assert.Equal(t, 1, ent.DaysLeft)
}
