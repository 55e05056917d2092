package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentStreak_ConsecutiveDays(t *testing.T) {
	dates := []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05"}

	assert.Equal(t, 5, CurrentStreak(dates, "2024-01-05"))
}

func TestCurrentStreak_TodayMissing(t *testing.T) {
	dates := []string{"2024-01-01", "2024-01-02", "2024-01-03"}

	assert.Equal(t, 0, CurrentStreak(dates, "2024-01-05"))
}

func TestCurrentStreak_StopsAtGap(t *testing.T) {
	dates := []string{"2024-01-01", "2024-01-03", "2024-01-04", "2024-01-05"}

	assert.Equal(t, 3, CurrentStreak(dates, "2024-01-05"))
}

func TestCurrentStreak_GapDayAlone(t *testing.T) {
	dates := []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05", "2024-01-10"}

	assert.Equal(t, 1, CurrentStreak(dates, "2024-01-10"))
}

func TestCurrentStreak_DuplicateDates(t *testing.T) {
	dates := []string{"2024-01-04", "2024-01-04", "2024-01-05"}

	assert.Equal(t, 2, CurrentStreak(dates, "2024-01-05"))
}

func TestCurrentStreak_AcrossMonthBoundary(t *testing.T) {
	dates := []string{"2024-01-30", "2024-01-31", "2024-02-01"}

	assert.Equal(t, 3, CurrentStreak(dates, "2024-02-01"))
}

func TestLongestStreak_Empty(t *testing.T) {
	assert.Equal(t, 0, LongestStreak(nil))
}

func TestLongestStreak_SingleDay(t *testing.T) {
	assert.Equal(t, 1, LongestStreak([]string{"2024-03-10"}))
}

func TestLongestStreak_GapDoesNotExtend(t *testing.T) {
	dates := []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05", "2024-01-10"}

	assert.Equal(t, 5, LongestStreak(dates))
}

func TestLongestStreak_AtLeastCurrentStreak(t *testing.T) {
	dates := []string{"2024-01-01", "2024-01-02", "2024-01-05", "2024-01-06", "2024-01-07"}

	for _, today := range []string{"2024-01-02", "2024-01-07", "2024-01-09"} {
		assert.GreaterOrEqual(t, LongestStreak(dates), CurrentStreak(dates, today))
	}
}

func TestMoodDistribution(t *testing.T) {
	records := []Record{
		{Date: "2024-01-01", MoodType: "srecan"},
		{Date: "2024-01-02", MoodType: "tuzan"},
		{Date: "2024-01-03", MoodType: "srecan"},
	}

	dist := MoodDistribution(records)
	assert.Equal(t, 2, dist["srecan"])
	assert.Equal(t, 1, dist["tuzan"])
	assert.Len(t, dist, 2)
}

func TestAverageScore(t *testing.T) {
	records := []Record{{Score: 5}, {Score: 4}, {Score: 1}}

	assert.InDelta(t, 3.3, AverageScore(records), 0.001)
}

func TestAverageScore_Empty(t *testing.T) {
	assert.Zero(t, AverageScore(nil))
}

func TestWeeklyAverages_WindowAndOrder(t *testing.T) {
	records := []Record{
		{Date: "2024-01-01", Score: 1, Emoji: "😢", Label: "Tužan"},
		{Date: "2024-01-05", Score: 5, Emoji: "😊", Label: "Srećan"},
		{Date: "2024-01-03", Score: 3, Emoji: "😐", Label: "Neutralan"},
		{Date: "2024-01-04", Score: 4, Emoji: "😌", Label: "Miran"},
	}

	week := WeeklyAverages(records, 3)
	require.Len(t, week, 3)
	assert.Equal(t, "2024-01-03", week[0].Date)
	assert.Equal(t, "2024-01-04", week[1].Date)
	assert.Equal(t, "2024-01-05", week[2].Date)
	assert.Equal(t, 5, week[2].Score)
	assert.Equal(t, "😊", week[2].Emoji)
}

func TestWeeklyAverages_FewerThanWindow(t *testing.T) {
	records := []Record{{Date: "2024-01-02", Score: 2}, {Date: "2024-01-01", Score: 1}}

	week := WeeklyAverages(records, 7)
	require.Len(t, week, 2)
	assert.Equal(t, "2024-01-01", week[0].Date)
}

func TestTriggerInsights_AveragesAndCounts(t *testing.T) {
	records := []Record{
		{Date: "2024-01-01", Score: 4, Triggers: []string{"vezba"}},
		{Date: "2024-01-02", Score: 2, Triggers: []string{"vezba", "posao"}},
	}

	out := TriggerInsights(records)
	require.Len(t, out, 2)

	byTag := map[string]TriggerInsight{}
	for _, ti := range out {
		byTag[ti.Trigger] = ti
	}
	assert.Equal(t, TriggerInsight{Trigger: "vezba", AvgScore: 3.0, Count: 2}, byTag["vezba"])
	assert.Equal(t, TriggerInsight{Trigger: "posao", AvgScore: 2.0, Count: 1}, byTag["posao"])
}

func TestTriggerInsights_SortedDescendingStable(t *testing.T) {
	records := []Record{
		{Date: "2024-01-01", Score: 3, Triggers: []string{"posao"}},
		{Date: "2024-01-02", Score: 3, Triggers: []string{"san"}},
		{Date: "2024-01-03", Score: 5, Triggers: []string{"odmor"}},
	}

	out := TriggerInsights(records)
	require.Len(t, out, 3)
	assert.Equal(t, "odmor", out[0].Trigger)
	// Tied averages keep encounter order.
	assert.Equal(t, "posao", out[1].Trigger)
	assert.Equal(t, "san", out[2].Trigger)
}

func TestTriggerInsights_NoTriggers(t *testing.T) {
	records := []Record{{Date: "2024-01-01", Score: 5}}

	assert.Empty(t, TriggerInsights(records))
}

func TestUniqueMoodsAndNoteCount(t *testing.T) {
	records := []Record{
		{MoodType: "srecan", Note: "dobar dan"},
		{MoodType: "srecan"},
		{MoodType: "ljut", Note: "loš dan"},
	}

	assert.Equal(t, 2, UniqueMoods(records))
	assert.Equal(t, 2, NoteCount(records))
}
