package gamification

import "github.com/umirime/backend/internal/catalog"

// Stats are the aggregate counts badge evaluation runs against.
type Stats struct {
	TotalEntries  int
	CurrentStreak int
	UniqueMoods   int
	NoteCount     int
}

// EarnedBadge is a badge definition tagged with whether the user earned it.
type EarnedBadge struct {
	catalog.Badge
	Earned bool `json:"earned"`
}

// Evaluate tags every badge in the table with its earned state. Stateless,
// recomputed on every request, nothing is persisted.
func Evaluate(badges []catalog.Badge, stats Stats) []EarnedBadge {
	out := make([]EarnedBadge, 0, len(badges))
	for _, b := range badges {
		out = append(out, EarnedBadge{Badge: b, Earned: earned(b, stats)})
	}
	return out
}

func earned(b catalog.Badge, stats Stats) bool {
	switch b.ID {
	case "first_mood", "century":
		return stats.TotalEntries >= b.Requirement
	case "week_streak", "month_streak":
		return stats.CurrentStreak >= b.Requirement
	case "mood_explorer":
		return stats.UniqueMoods >= b.Requirement
	case "note_writer":
		return stats.NoteCount >= b.Requirement
	default:
		return false
	}
}
