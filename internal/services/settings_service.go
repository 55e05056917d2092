package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/umirime/backend/internal/dto"
	"github.com/umirime/backend/internal/models"
)

// SettingsService reads and writes notification preferences. A user without
// a row gets the defaults.
type SettingsService struct {
	db *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{db: db}
}

func (s *SettingsService) Get(userID uuid.UUID) (*models.NotificationSettings, error) {
	var settings models.NotificationSettings
	err := s.db.First(&settings, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.NotificationSettings{
			UserID:        userID,
			DailyReminder: true,
			TrialWarnings: true,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *SettingsService) Save(userID uuid.UUID, req *dto.NotificationSettingsRequest) (*models.NotificationSettings, error) {
	settings, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	if req.DailyReminder != nil {
		settings.DailyReminder = *req.DailyReminder
	}
	if req.TrialWarnings != nil {
		settings.TrialWarnings = *req.TrialWarnings
	}

	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"daily_reminder", "trial_warnings", "updated_at"}),
	}).Create(settings).Error
	if err != nil {
		return nil, err
	}
	return settings, nil
}
