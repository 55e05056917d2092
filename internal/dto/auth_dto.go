package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/umirime/backend/internal/entitlement"
)

type SessionRequest struct {
	SessionID string `json:"session_id"`
}

type MagicLinkRequest struct {
	Email string `json:"email"`
}

type MagicLinkVerifyRequest struct {
	Token string `json:"token"`
}

// UserResponse is the authenticated user together with the entitlement
// fields the clients read from /auth/me.
type UserResponse struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Picture   string    `json:"picture,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	entitlement.Entitlement
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
