package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserSession is a server-side session backing the session_token cookie.
// Only the SHA-256 hash of the token is stored.
type UserSession struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	TokenHash string    `gorm:"uniqueIndex;not null;size:64" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
}

func (s *UserSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// MagicLinkToken is a one-shot login token sent by email. The raw token is a
// signed JWT carrying this row's ID; the bcrypt hash stored here ties the
// presented token back to the row so a link cannot be replayed after use.
type MagicLinkToken struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string     `gorm:"not null;size:255;index" json:"email"`
	TokenHash string     `gorm:"not null;size:60" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	UsedAt    *time.Time `json:"used_at"`
	CreatedAt time.Time  `json:"created_at"`
}

func (m *MagicLinkToken) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
