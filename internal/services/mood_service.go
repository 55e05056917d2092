package services

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/umirime/backend/internal/catalog"
	"github.com/umirime/backend/internal/dto"
	"github.com/umirime/backend/internal/gamification"
	"github.com/umirime/backend/internal/insights"
	"github.com/umirime/backend/internal/models"
)

const dayLayout = "2006-01-02"

// MoodService handles mood entries and the statistics derived from them.
type MoodService struct {
	db      *gorm.DB
	catalog *catalog.Catalog
}

func NewMoodService(db *gorm.DB, cat *catalog.Catalog) *MoodService {
	return &MoodService{db: db, catalog: cat}
}

// Upsert writes today's mood entry for the user. One entry per UTC day: a
// second submission on the same day overwrites the first in a single atomic
// statement on the (user_id, date) unique index and issues a fresh mood id.
func (s *MoodService) Upsert(userID uuid.UUID, req *dto.MoodCreateRequest) (*models.MoodEntry, error) {
	mood, ok := s.catalog.Mood(req.MoodType)
	if !ok {
		return nil, ErrUnknownMoodType
	}

	now := time.Now().UTC()

	var triggers datatypes.JSON
	if len(req.Triggers) > 0 {
		b, err := json.Marshal(req.Triggers)
		if err != nil {
			return nil, err
		}
		triggers = datatypes.JSON(b)
	}

	entry := models.MoodEntry{
		ID:        uuid.New(),
		UserID:    userID,
		MoodType:  req.MoodType,
		Emoji:     mood.Emoji,
		Label:     mood.Label,
		Score:     mood.Score,
		Color:     mood.Color,
		Note:      req.Note,
		Triggers:  triggers,
		Gratitude: req.Gratitude,
		Date:      now.Format(dayLayout),
		CreatedAt: now,
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"id", "mood_type", "emoji", "label", "score", "color",
			"note", "triggers", "gratitude", "created_at", "updated_at",
		}),
	}).Create(&entry).Error
	if err != nil {
		return nil, fmt.Errorf("failed to save mood entry: %w", err)
	}

	return &entry, nil
}

// List returns the user's entries, most recent day first.
func (s *MoodService) List(userID uuid.UUID, limit, offset int) ([]models.MoodEntry, error) {
	var entries []models.MoodEntry
	err := s.db.Where("user_id = ?", userID).
		Order("date DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	return entries, err
}

// Calendar returns the entries of one calendar month.
func (s *MoodService) Calendar(userID uuid.UUID, year, month int) ([]models.MoodEntry, error) {
	start := fmt.Sprintf("%04d-%02d-01", year, month)
	var end string
	if month == 12 {
		end = fmt.Sprintf("%04d-01-01", year+1)
	} else {
		end = fmt.Sprintf("%04d-%02d-01", year, month+1)
	}

	var entries []models.MoodEntry
	err := s.db.Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Order("date ASC").
		Find(&entries).Error
	return entries, err
}

// Stats recomputes the full statistics view from the user's history.
func (s *MoodService) Stats(userID uuid.UUID) (*dto.MoodStatsResponse, error) {
	records, err := s.records(userID)
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return &dto.MoodStatsResponse{
			MoodDistribution: map[string]int{},
			WeeklyAvg:        []insights.DayScore{},
			TriggerInsights:  []insights.TriggerInsight{},
		}, nil
	}

	today := time.Now().UTC().Format(dayLayout)
	dates := insights.Dates(records)

	return &dto.MoodStatsResponse{
		Total:            len(records),
		Streak:           insights.CurrentStreak(dates, today),
		LongestStreak:    insights.LongestStreak(dates),
		MoodDistribution: insights.MoodDistribution(records),
		AvgScore:         insights.AverageScore(records),
		WeeklyAvg:        insights.WeeklyAverages(records, 7),
		UniqueMoods:      insights.UniqueMoods(records),
		TriggerInsights:  insights.TriggerInsights(records),
	}, nil
}

// Gamification evaluates the badge table against the user's history.
func (s *MoodService) Gamification(userID uuid.UUID) (map[string]interface{}, error) {
	records, err := s.records(userID)
	if err != nil {
		return nil, err
	}

	today := time.Now().UTC().Format(dayLayout)
	stats := gamification.Stats{
		TotalEntries:  len(records),
		CurrentStreak: insights.CurrentStreak(insights.Dates(records), today),
		UniqueMoods:   insights.UniqueMoods(records),
		NoteCount:     insights.NoteCount(records),
	}

	return map[string]interface{}{
		"streak":        stats.CurrentStreak,
		"total_entries": stats.TotalEntries,
		"unique_moods":  stats.UniqueMoods,
		"notes_count":   stats.NoteCount,
		"badges":        gamification.Evaluate(s.catalog.Badges(), stats),
	}, nil
}

// ExportCSV renders the user's full history, oldest first.
func (s *MoodService) ExportCSV(userID uuid.UUID) ([]byte, error) {
	var entries []models.MoodEntry
	if err := s.db.Where("user_id = ?", userID).Order("date ASC").Find(&entries).Error; err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Datum", "Raspoloženje", "Emoji", "Ocena", "Beleška"}); err != nil {
		return nil, err
	}
	for _, e := range entries {
		if err := w.Write([]string{e.Date, e.Label, e.Emoji, fmt.Sprintf("%d", e.Score), e.Note}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Recent returns the last n entries for prompt building.
func (s *MoodService) Recent(userID uuid.UUID, n int) ([]models.MoodEntry, error) {
	return s.List(userID, n, 0)
}

func (s *MoodService) records(userID uuid.UUID) ([]insights.Record, error) {
	var entries []models.MoodEntry
	if err := s.db.Where("user_id = ?", userID).Order("date DESC").Find(&entries).Error; err != nil {
		return nil, err
	}

	records := make([]insights.Record, 0, len(entries))
	for _, e := range entries {
		var triggers []string
		if len(e.Triggers) > 0 {
			// Malformed rows degrade to no triggers rather than failing stats.
			_ = json.Unmarshal(e.Triggers, &triggers)
		}
		records = append(records, insights.Record{
			Date:     e.Date,
			MoodType: e.MoodType,
			Score:    e.Score,
			Emoji:    e.Emoji,
			Label:    e.Label,
			Note:     e.Note,
			Triggers: triggers,
		})
	}
	return records, nil
}
