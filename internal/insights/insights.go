package insights

import (
	"math"
	"sort"
	"time"
)

const dayLayout = "2006-01-02"

// Record is the slice of a mood entry the analyzer needs. Dates are UTC
// calendar days in YYYY-MM-DD form; all day arithmetic ignores time of day.
type Record struct {
	Date     string
	MoodType string
	Score    int
	Emoji    string
	Label    string
	Note     string
	Triggers []string
}

// DayScore is one point of the weekly average series.
type DayScore struct {
	Date  string `json:"date"`
	Score int    `json:"score"`
	Emoji string `json:"emoji"`
	Label string `json:"label"`
}

// TriggerInsight aggregates scores over every record carrying a trigger tag.
type TriggerInsight struct {
	Trigger  string  `json:"trigger"`
	AvgScore float64 `json:"avg_score"`
	Count    int     `json:"count"`
}

// CurrentStreak counts consecutive days walking backward from today while
// each day has an entry. Returns 0 when today itself has no entry.
func CurrentStreak(dates []string, today string) int {
	seen := distinct(dates)
	day, err := time.Parse(dayLayout, today)
	if err != nil {
		return 0
	}

	streak := 0
	for {
		if _, ok := seen[day.Format(dayLayout)]; !ok {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// LongestStreak returns the length of the longest run of consecutive days.
func LongestStreak(dates []string) int {
	seen := distinct(dates)
	if len(seen) == 0 {
		return 0
	}

	days := make([]time.Time, 0, len(seen))
	for d := range seen {
		t, err := time.Parse(dayLayout, d)
		if err != nil {
			continue
		}
		days = append(days, t)
	}
	if len(days) == 0 {
		return 0
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// MoodDistribution counts entries per mood type.
func MoodDistribution(records []Record) map[string]int {
	dist := make(map[string]int)
	for _, r := range records {
		dist[r.MoodType]++
	}
	return dist
}

// AverageScore is the mean score rounded to one decimal, 0 for no records.
func AverageScore(records []Record) float64 {
	if len(records) == 0 {
		return 0
	}
	var sum int
	for _, r := range records {
		sum += r.Score
	}
	return round1(float64(sum) / float64(len(records)))
}

// WeeklyAverages takes the most recent windowSize records by date and
// returns them oldest-first, reduced to chart points.
func WeeklyAverages(records []Record, windowSize int) []DayScore {
	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date > sorted[j].Date })

	if windowSize < len(sorted) {
		sorted = sorted[:windowSize]
	}

	out := make([]DayScore, 0, len(sorted))
	for i := len(sorted) - 1; i >= 0; i-- {
		r := sorted[i]
		out = append(out, DayScore{Date: r.Date, Score: r.Score, Emoji: r.Emoji, Label: r.Label})
	}
	return out
}

// TriggerInsights computes the average score and count per trigger tag. A
// record with several triggers contributes its score to each of them. The
// result is sorted by average score descending; ties keep encounter order.
func TriggerInsights(records []Record) []TriggerInsight {
	type bucket struct {
		sum   int
		count int
	}
	buckets := make(map[string]*bucket)
	order := make([]string, 0)

	for _, r := range records {
		for _, tag := range r.Triggers {
			b, ok := buckets[tag]
			if !ok {
				b = &bucket{}
				buckets[tag] = b
				order = append(order, tag)
			}
			b.sum += r.Score
			b.count++
		}
	}

	out := make([]TriggerInsight, 0, len(order))
	for _, tag := range order {
		b := buckets[tag]
		out = append(out, TriggerInsight{
			Trigger:  tag,
			AvgScore: round1(float64(b.sum) / float64(b.count)),
			Count:    b.count,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AvgScore > out[j].AvgScore })
	return out
}

// UniqueMoods counts distinct mood types used.
func UniqueMoods(records []Record) int {
	return len(MoodDistribution(records))
}

// NoteCount counts records with a non-empty note.
func NoteCount(records []Record) int {
	n := 0
	for _, r := range records {
		if r.Note != "" {
			n++
		}
	}
	return n
}

// Dates extracts the (possibly duplicated) day strings of the records.
func Dates(records []Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Date)
	}
	return out
}

func distinct(dates []string) map[string]struct{} {
	seen := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		seen[d] = struct{}{}
	}
	return seen
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
