package services

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/umirime/backend/internal/entitlement"
	"github.com/umirime/backend/internal/mailer"
	"github.com/umirime/backend/internal/models"
)

// AdminService backs the admin panel: aggregate counts, user listing and
// the manually triggered email batches.
type AdminService struct {
	db   *gorm.DB
	mail mailer.Mailer
}

func NewAdminService(db *gorm.DB, mail mailer.Mailer) *AdminService {
	return &AdminService{db: db, mail: mail}
}

// Stats returns global counts for the admin dashboard.
func (s *AdminService) Stats() (map[string]interface{}, error) {
	var userCount, moodCount, premiumCount, trialCount int64

	if err := s.db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.MoodEntry{}).Count(&moodCount).Error; err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	active := s.db.Model(&models.Subscription{}).
		Where("status = ? AND expires_at > ?", models.SubscriptionStatusActive, now)
	if err := active.Session(&gorm.Session{}).Where("is_trial = ?", false).Count(&premiumCount).Error; err != nil {
		return nil, err
	}
	if err := active.Session(&gorm.Session{}).Where("is_trial = ?", true).Count(&trialCount).Error; err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"total_users":   userCount,
		"total_moods":   moodCount,
		"premium_users": premiumCount,
		"trial_users":   trialCount,
		"generated_at":  now.Format(time.RFC3339),
	}, nil
}

// AdminUser is one row of the admin user listing.
type AdminUser struct {
	models.User
	entitlement.Entitlement
	MoodCount int64 `json:"mood_count"`
}

// Users lists users with their entitlement, optionally filtered by an
// email/name substring.
func (s *AdminService) Users(limit, offset int, search string) ([]AdminUser, int64, error) {
	query := s.db.Model(&models.User{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("email LIKE ? OR name LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	now := time.Now().UTC()
	out := make([]AdminUser, 0, len(users))
	for _, u := range users {
		row := AdminUser{User: u}

		var sub models.Subscription
		if err := s.db.Where("user_id = ?", u.ID).First(&sub).Error; err == nil {
			row.Entitlement = entitlement.Resolve(&sub, now)
		}
		s.db.Model(&models.MoodEntry{}).Where("user_id = ?", u.ID).Count(&row.MoodCount)

		out = append(out, row)
	}
	return out, total, nil
}

// SendReminders emails every user who enabled daily reminders and has no
// entry for today. Individual send failures are logged and skipped.
func (s *AdminService) SendReminders(ctx context.Context) (int, error) {
	today := time.Now().UTC().Format(dayLayout)

	var users []models.User
	if err := s.db.Find(&users).Error; err != nil {
		return 0, err
	}

	sent := 0
	for _, u := range users {
		var settings models.NotificationSettings
		err := s.db.First(&settings, "user_id = ?", u.ID).Error
		if err == nil && !settings.DailyReminder {
			continue
		}

		var count int64
		s.db.Model(&models.MoodEntry{}).Where("user_id = ? AND date = ?", u.ID, today).Count(&count)
		if count > 0 {
			continue
		}

		body := "<p>Zdravo " + u.Name + ",</p><p>Nisi još zabeležio/la današnje raspoloženje. Odvoji minut za sebe. 🌿</p>"
		if err := s.mail.Send(ctx, u.Email, "Kako se osećaš danas? — Umiri.me", body); err != nil {
			slog.Error("reminder email failed", "user_id", u.ID, "error", err)
			continue
		}
		sent++
	}
	return sent, nil
}

// SendTrialWarnings emails users whose trial expires within two days.
func (s *AdminService) SendTrialWarnings(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	cutoff := now.AddDate(0, 0, 2)

	var subs []models.Subscription
	err := s.db.Where("is_trial = ? AND status = ? AND expires_at > ? AND expires_at <= ?",
		true, models.SubscriptionStatusActive, now, cutoff).Find(&subs).Error
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, sub := range subs {
		var settings models.NotificationSettings
		if err := s.db.First(&settings, "user_id = ?", sub.UserID).Error; err == nil && !settings.TrialWarnings {
			continue
		}

		var user models.User
		if err := s.db.First(&user, "id = ?", sub.UserID).Error; err != nil {
			continue
		}

		days := int(sub.ExpiresAt.Sub(now).Hours()/24) + 1
		body := "<p>Zdravo " + user.Name + ",</p><p>Tvoj probni period ističe za " +
			strconv.Itoa(days) + " dana. Pređi na premium da zadržiš sve funkcije. ✨</p>"
		if err := s.mail.Send(ctx, user.Email, "Tvoj probni period uskoro ističe — Umiri.me", body); err != nil {
			slog.Error("trial warning email failed", "user_id", sub.UserID, "error", err)
			continue
		}
		sent++
	}
	return sent, nil
}

// TestEmail sends a throwaway message to verify the mailer configuration.
func (s *AdminService) TestEmail(ctx context.Context, to string) error {
	return s.mail.Send(ctx, to, "Test poruka — Umiri.me", "<p>Email podešavanja rade. ✅</p>")
}
