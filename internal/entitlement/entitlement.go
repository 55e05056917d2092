package entitlement

import (
	"time"

	"github.com/umirime/backend/internal/models"
)

// Entitlement is the derived premium access state for a user. It is never
// stored; expiry is observed lazily, so it must be recomputed per request.
type Entitlement struct {
	IsPremium bool       `json:"is_premium"`
	IsTrial   bool       `json:"is_trial"`
	DaysLeft  int        `json:"days_left"`
	PlanID    string     `json:"plan_id,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Resolve derives the entitlement from at most one subscription row. A nil
// subscription is the "never interacted with billing" state and yields the
// all-false default with no plan id, distinct from an expired subscription
// which keeps its plan id.
func Resolve(sub *models.Subscription, now time.Time) Entitlement {
	if sub == nil {
		return Entitlement{}
	}

	ent := Entitlement{
		PlanID:    sub.PlanID,
		ExpiresAt: &sub.ExpiresAt,
	}

	if sub.Status != models.SubscriptionStatusActive {
		return ent
	}
	if !sub.ExpiresAt.After(now) {
		return ent
	}

	ent.IsPremium = true
	ent.IsTrial = sub.IsTrial
	ent.DaysLeft = int(sub.ExpiresAt.Sub(now).Hours() / 24)
	if ent.DaysLeft < 0 {
		ent.DaysLeft = 0
	}
	return ent
}
