package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MoodEntry is one mood record per user per UTC calendar day. The unique
// index on (user_id, date) is what makes the daily upsert atomic: submitting
// twice on the same day overwrites the row, issuing a fresh ID.
type MoodEntry struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"mood_id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_moods_user_date" json:"user_id"`
	MoodType  string         `gorm:"size:20;not null" json:"mood_type"`
	Emoji     string         `gorm:"size:10" json:"emoji"`
	Label     string         `gorm:"size:50" json:"label"`
	Score     int            `gorm:"not null" json:"score"`
	Color     string         `gorm:"size:7" json:"color"`
	Note      string         `gorm:"type:text" json:"note,omitempty"`
	Triggers  datatypes.JSON `gorm:"type:jsonb" json:"triggers,omitempty"`
	Gratitude string         `gorm:"type:text" json:"gratitude,omitempty"`
	Date      string         `gorm:"size:10;not null;uniqueIndex:idx_moods_user_date;index" json:"date"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"-"`
}

func (m *MoodEntry) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
