package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umirime/backend/internal/dto"
	"github.com/umirime/backend/internal/models"
	"github.com/umirime/backend/internal/testutil"
)

func boolPtr(b bool) *bool { return &b }

func TestSettingsDefaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	svc := NewSettingsService(db)
	user := testutil.TestUser(t, db)

	settings, err := svc.Get(user.ID)
	require.NoError(t, err)
	assert.True(t, settings.DailyReminder)
	assert.True(t, settings.TrialWarnings)

	// Defaults are synthesized, not persisted.
	var count int64
	db.Model(&models.NotificationSettings{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestOptOutPersistsOnFirstSave(t *testing.T) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	svc := NewSettingsService(db)
	user := testutil.TestUser(t, db)

	// Turning everything off before a row exists must survive the insert.
	_, err := svc.Save(user.ID, &dto.NotificationSettingsRequest{
		DailyReminder: boolPtr(false),
		TrialWarnings: boolPtr(false),
	})
	require.NoError(t, err)

	var row models.NotificationSettings
	require.NoError(t, db.First(&row, "user_id = ?", user.ID).Error)
	assert.False(t, row.DailyReminder)
	assert.False(t, row.TrialWarnings)
}

func TestSettingsPartialUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	svc := NewSettingsService(db)
	user := testutil.TestUser(t, db)

	saved, err := svc.Save(user.ID, &dto.NotificationSettingsRequest{DailyReminder: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, saved.DailyReminder)
	assert.True(t, saved.TrialWarnings)

	// Omitted fields keep their stored value on the next save.
	saved, err = svc.Save(user.ID, &dto.NotificationSettingsRequest{TrialWarnings: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, saved.DailyReminder)
	assert.False(t, saved.TrialWarnings)

	stored, err := svc.Get(user.ID)
	require.NoError(t, err)
	assert.False(t, stored.DailyReminder)
	assert.False(t, stored.TrialWarnings)

	var count int64
	db.Model(&models.NotificationSettings{}).Count(&count)
	assert.Equal(t, int64(1), count)
}
