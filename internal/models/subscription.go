package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SubscriptionStatusActive  = "active"
	SubscriptionStatusRevoked = "revoked"
)

// Subscription is the single billing row per user. Expiry is never written
// back; it is observed lazily by the entitlement resolver at read time. The
// unique index on session_id is the at-most-once guard for payment
// activation: a checkout session can only ever activate one subscription.
type Subscription struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	PlanID    string    `gorm:"size:20;not null" json:"plan_id"`
	IsTrial   bool      `gorm:"default:false" json:"is_trial"`
	Status    string    `gorm:"size:20;not null;default:'active'" json:"status"`
	StartedAt time.Time `gorm:"not null" json:"started_at"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	SessionID *string   `gorm:"size:255;uniqueIndex" json:"session_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

const (
	PaymentStatusInitiated = "initiated"
	PaymentStatusPaid      = "paid"
	PaymentStatusExpired   = "expired"
	PaymentStatusFailed    = "failed"
)

// PaymentTransaction records one checkout attempt. session_id is the
// provider-assigned idempotency key joining polling and webhook delivery.
type PaymentTransaction struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"transaction_id"`
	SessionID     string    `gorm:"size:255;not null;uniqueIndex" json:"session_id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	PlanID        string    `gorm:"size:20;not null" json:"plan_id"`
	Amount        float64   `gorm:"type:decimal(10,2)" json:"amount"`
	Currency      string    `gorm:"size:10" json:"currency"`
	PaymentStatus string    `gorm:"size:30;not null;default:'initiated'" json:"payment_status"`
	Status        string    `gorm:"size:30" json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (p *PaymentTransaction) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
