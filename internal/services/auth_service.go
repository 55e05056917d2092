package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/umirime/backend/internal/config"
	"github.com/umirime/backend/internal/identity"
	"github.com/umirime/backend/internal/mailer"
	"github.com/umirime/backend/internal/models"
)

const magicLinkPurpose = "magic-link"

// AuthService owns users, sessions and both login flows (OAuth exchange and
// email magic links). New identities get the trial via the subscription
// service exactly once.
type AuthService struct {
	db            *gorm.DB
	cfg           *config.Config
	provider      identity.Provider
	mail          mailer.Mailer
	subscriptions *SubscriptionService
}

func NewAuthService(db *gorm.DB, cfg *config.Config, provider identity.Provider, mail mailer.Mailer, subs *SubscriptionService) *AuthService {
	return &AuthService{db: db, cfg: cfg, provider: provider, mail: mail, subscriptions: subs}
}

// CreateSessionFromOAuth exchanges the identity provider's session id for a
// profile, upserts the user by email and opens a server-side session. The
// raw session token is returned for the cookie; only its hash is stored.
func (s *AuthService) CreateSessionFromOAuth(ctx context.Context, sessionID string) (*models.User, string, error) {
	data, err := s.provider.GetSessionData(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}

	user, err := s.upsertUser(data.Email, data.Name, data.Picture)
	if err != nil {
		return nil, "", err
	}

	token, err := s.openSession(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// IssueMagicLink creates a one-shot login token and emails the link. The
// token is a signed JWT referencing a DB row holding a bcrypt hash of a
// random code, so a link is dead after first use.
func (s *AuthService) IssueMagicLink(ctx context.Context, email string) error {
	code, err := randomToken()
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	row := models.MagicLinkToken{
		Email:     email,
		TokenHash: string(hash),
		ExpiresAt: time.Now().UTC().Add(s.cfg.MagicLinkTTL),
	}
	if err := s.db.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to store magic link token: %w", err)
	}

	claims := jwt.MapClaims{
		"jti":     row.ID.String(),
		"email":   email,
		"purpose": magicLinkPurpose,
		"code":    code,
		"exp":     row.ExpiresAt.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.MagicLinkSecret))
	if err != nil {
		return err
	}

	link := s.cfg.FrontendURL + "/magic-link?token=" + signed
	body := fmt.Sprintf(`<p>Zdravo,</p><p>Klikni na link da se prijaviš u Umiri.me:</p><p><a href="%s">Prijavi se</a></p><p>Link važi %d minuta.</p>`,
		link, int(s.cfg.MagicLinkTTL.Minutes()))
	if err := s.mail.Send(ctx, email, "Tvoj link za prijavu — Umiri.me", body); err != nil {
		return fmt.Errorf("failed to send magic link email: %w", err)
	}
	return nil
}

// VerifyMagicLink redeems a magic-link token and opens a session.
func (s *AuthService) VerifyMagicLink(tokenString string) (*models.User, string, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.MagicLinkSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, "", ErrInvalidLink
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, "", ErrInvalidLink
	}
	purpose, _ := claims["purpose"].(string)
	jti, _ := claims["jti"].(string)
	email, _ := claims["email"].(string)
	code, _ := claims["code"].(string)
	if purpose != magicLinkPurpose || jti == "" || email == "" || code == "" {
		return nil, "", ErrInvalidLink
	}

	tokenID, err := uuid.Parse(jti)
	if err != nil {
		return nil, "", ErrInvalidLink
	}

	var row models.MagicLinkToken
	if err := s.db.First(&row, "id = ?", tokenID).Error; err != nil {
		return nil, "", ErrInvalidLink
	}
	if row.UsedAt != nil || time.Now().UTC().After(row.ExpiresAt) {
		return nil, "", ErrInvalidLink
	}
	if bcrypt.CompareHashAndPassword([]byte(row.TokenHash), []byte(code)) != nil {
		return nil, "", ErrInvalidLink
	}

	now := time.Now().UTC()
	if err := s.db.Model(&row).Update("used_at", &now).Error; err != nil {
		return nil, "", err
	}

	user, err := s.upsertUser(email, "", "")
	if err != nil {
		return nil, "", err
	}

	token, err := s.openSession(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// UserBySessionToken resolves the cookie/bearer token to a user.
func (s *AuthService) UserBySessionToken(token string) (*models.User, error) {
	var session models.UserSession
	if err := s.db.Where("token_hash = ?", hashToken(token)).First(&session).Error; err != nil {
		return nil, ErrInvalidSession
	}
	if time.Now().UTC().After(session.ExpiresAt) {
		return nil, ErrSessionExpired
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", session.UserID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

// Logout deletes every session matching the token.
func (s *AuthService) Logout(token string) error {
	return s.db.Where("token_hash = ?", hashToken(token)).Delete(&models.UserSession{}).Error
}

// upsertUser finds or creates the user for an authenticated email. Existing
// users get their profile refreshed; brand-new users also get the trial.
func (s *AuthService) upsertUser(email, name, picture string) (*models.User, error) {
	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{}
		if name != "" {
			updates["name"] = name
		}
		if picture != "" {
			updates["picture"] = picture
		}
		if len(updates) > 0 {
			if err := s.db.Model(&user).Updates(updates).Error; err != nil {
				return nil, err
			}
		}
		return &user, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{Email: email, Name: name, Picture: picture, Role: "user"}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		if err := s.subscriptions.ActivateTrial(user.ID); err != nil {
			slog.Error("trial activation failed", "user_id", user.ID, "error", err)
		}
		slog.Info("user created", "user_id", user.ID)
		return &user, nil

	default:
		return nil, err
	}
}

func (s *AuthService) openSession(userID uuid.UUID) (string, error) {
	token, err := randomToken()
	if err != nil {
		return "", err
	}

	session := models.UserSession{
		UserID:    userID,
		TokenHash: hashToken(token),
		ExpiresAt: time.Now().UTC().Add(s.cfg.SessionTTL),
	}
	if err := s.db.Create(&session).Error; err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return token, nil
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
