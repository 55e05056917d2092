package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/umirime/backend/internal/ai"
)

const fallbackTip = "Danas odvoji vreme za sebe. Čak i pet minuta tišine može napraviti veliku razliku. 🌿"

const tipSystemPrompt = `Ti si nežan i mudar savetnik za mentalno zdravlje u aplikaciji Umiri.me.
Pišeš na srpskom jeziku, latiničnim pismom.
Daješ kratke, tople i praktične savete bazirane na raspoloženju korisnika.
Tvoj ton je prijateljski, umirujući i podržavajući.
Nikad ne dijagnostikuješ i ne zamenjuješ profesionalnu pomoć.
Odgovaraš u 2-3 kratke rečenice. Možeš dodati i jedan emoji.`

const reportSystemPrompt = `Ti si savetnik za mentalno zdravlje u aplikaciji Umiri.me.
Pišeš na srpskom jeziku, latiničnim pismom.
Praviš kratak nedeljni pregled raspoloženja korisnika: šta je bilo dobro,
šta je uticalo na raspoloženje i jedan predlog za sledeću nedelju.
Odgovaraš u 4-6 rečenica, toplim i podržavajućim tonom.`

// TipResponse is the generated-text payload for tips and weekly reports.
type TipResponse struct {
	Tip         string `json:"tip"`
	GeneratedAt string `json:"generated_at"`
}

// TipService builds prompts from recent mood history and calls the AI
// collaborator. Generation failures never fail the request: the user gets
// a static fallback and the error is only logged.
type TipService struct {
	moods  *MoodService
	client ai.Client
}

func NewTipService(moods *MoodService, client ai.Client) *TipService {
	return &TipService{moods: moods, client: client}
}

// DailyTip generates a personalized tip from the last 7 entries.
func (s *TipService) DailyTip(ctx context.Context, userID uuid.UUID) (*TipResponse, error) {
	recent, err := s.moods.Recent(userID, 7)
	if err != nil {
		return nil, err
	}

	summary := "Korisnik tek počinje da koristi aplikaciju."
	if len(recent) > 0 {
		labels := make([]string, 0, len(recent))
		for _, m := range recent {
			labels = append(labels, m.Emoji+" "+m.Label)
		}
		summary = "Poslednja raspoloženja korisnika: " + strings.Join(labels, ", ")
		if recent[0].Note != "" {
			summary += "\nPoslednja beleška: " + recent[0].Note
		}
	}

	prompt := summary + "\n\nDaj mi personalizovani savet za danas baziran na mojim raspoloženjima."
	text, err := s.client.Generate(ctx, tipSystemPrompt, prompt)
	if err != nil {
		slog.Error("AI tip generation failed", "user_id", userID, "error", err)
		text = fallbackTip
	}

	return &TipResponse{Tip: text, GeneratedAt: time.Now().UTC().Format(time.RFC3339)}, nil
}

// WeeklyReport generates a summary of the past week's statistics.
func (s *TipService) WeeklyReport(ctx context.Context, userID uuid.UUID) (*TipResponse, error) {
	stats, err := s.moods.Stats(userID)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Statistika korisnika: %d unosa ukupno, trenutni niz %d dana, prosečna ocena %.1f.\n",
		stats.Total, stats.Streak, stats.AvgScore)
	if len(stats.WeeklyAvg) > 0 {
		sb.WriteString("Poslednja nedelja: ")
		for i, day := range stats.WeeklyAvg {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s %s (%d)", day.Date, day.Label, day.Score)
		}
		sb.WriteString(".\n")
	}
	sb.WriteString("\nNapravi mi nedeljni pregled raspoloženja.")

	text, err := s.client.Generate(ctx, reportSystemPrompt, sb.String())
	if err != nil {
		slog.Error("AI weekly report failed", "user_id", userID, "error", err)
		text = fallbackTip
	}

	return &TipResponse{Tip: text, GeneratedAt: time.Now().UTC().Format(time.RFC3339)}, nil
}
