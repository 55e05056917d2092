package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an identity created on first successful authentication.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Email     string    `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Name      string    `gorm:"size:255" json:"name"`
	Picture   string    `gorm:"size:1024" json:"picture"`
	Role      string    `gorm:"size:20;default:'user'" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
