package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umirime/backend/internal/catalog"
	"github.com/umirime/backend/internal/dto"
	"github.com/umirime/backend/internal/testutil"
)

type stubAI struct {
	reply   string
	err     error
	prompts []string
}

func (s *stubAI) Generate(_ context.Context, _, userPrompt string) (string, error) {
	s.prompts = append(s.prompts, userPrompt)
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func TestDailyTip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	moods := NewMoodService(db, catalog.Default())
	user := testutil.TestUser(t, db)

	_, err := moods.Upsert(user.ID, &dto.MoodCreateRequest{MoodType: "miran", Note: "mirno jutro"})
	require.NoError(t, err)

	client := &stubAI{reply: "Nastavi tako, dišeš duboko i polako. 🌿"}
	svc := NewTipService(moods, client)

	tip, err := svc.DailyTip(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nastavi tako, dišeš duboko i polako. 🌿", tip.Tip)
	assert.NotEmpty(t, tip.GeneratedAt)

	// The prompt carries the recent history and the latest note.
	require.Len(t, client.prompts, 1)
	assert.True(t, strings.Contains(client.prompts[0], "Miran"))
	assert.True(t, strings.Contains(client.prompts[0], "mirno jutro"))
}

func TestDailyTipFallsBackOnAIFailure(t *testing.T) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	moods := NewMoodService(db, catalog.Default())
	user := testutil.TestUser(t, db)

	svc := NewTipService(moods, &stubAI{err: errors.New("model overloaded")})

	tip, err := svc.DailyTip(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, fallbackTip, tip.Tip)
}

func TestWeeklyReportFallsBackOnAIFailure(t *testing.T) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	moods := NewMoodService(db, catalog.Default())
	user := testutil.TestUser(t, db)

	svc := NewTipService(moods, &stubAI{err: errors.New("timeout")})

	report, err := svc.WeeklyReport(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, fallbackTip, report.Tip)
}

func TestWeeklyReportPromptCarriesStats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	moods := NewMoodService(db, catalog.Default())
	user := testutil.TestUser(t, db)

	seedMood(t, db, user.ID, daysAgo(0), "srecan", "")
	seedMood(t, db, user.ID, daysAgo(1), "tuzan", "")

	client := &stubAI{reply: "Lepa nedelja."}
	svc := NewTipService(moods, client)

	_, err := svc.WeeklyReport(context.Background(), user.ID)
	require.NoError(t, err)

	require.Len(t, client.prompts, 1)
	assert.True(t, strings.Contains(client.prompts[0], "2 unosa ukupno"))
	assert.True(t, strings.Contains(client.prompts[0], "trenutni niz 2 dana"))
}
