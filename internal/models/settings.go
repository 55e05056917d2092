package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationSettings stores per-user email preferences. Absence of a row
// means the defaults (everything on).
type NotificationSettings struct {
	UserID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	DailyReminder bool      `json:"daily_reminder"`
	TrialWarnings bool      `json:"trial_warnings"`
	UpdatedAt     time.Time `json:"-"`
}
