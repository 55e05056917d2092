package dto

import "github.com/umirime/backend/internal/insights"

type MoodCreateRequest struct {
	MoodType  string   `json:"mood_type"`
	Note      string   `json:"note,omitempty"`
	Triggers  []string `json:"triggers,omitempty"`
	Gratitude string   `json:"gratitude,omitempty"`
}

// MoodStatsResponse is the aggregate view for the statistics screen.
type MoodStatsResponse struct {
	Total            int                       `json:"total"`
	Streak           int                       `json:"streak"`
	LongestStreak    int                       `json:"longest_streak"`
	MoodDistribution map[string]int            `json:"mood_distribution"`
	AvgScore         float64                   `json:"avg_score"`
	WeeklyAvg        []insights.DayScore       `json:"weekly_avg"`
	UniqueMoods      int                       `json:"unique_moods"`
	TriggerInsights  []insights.TriggerInsight `json:"trigger_insights"`
}
