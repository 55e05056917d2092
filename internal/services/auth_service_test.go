package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/umirime/backend/internal/catalog"
	"github.com/umirime/backend/internal/config"
	"github.com/umirime/backend/internal/identity"
	"github.com/umirime/backend/internal/models"
	"github.com/umirime/backend/internal/payment"
	"github.com/umirime/backend/internal/testutil"
)

type stubProvider struct {
	data *identity.SessionData
	err  error
}

func (p *stubProvider) GetSessionData(context.Context, string) (*identity.SessionData, error) {
	return p.data, p.err
}

// captureMailer records sent messages for assertions.
type captureMailer struct {
	to      []string
	subject []string
	body    []string
}

func (m *captureMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	m.to = append(m.to, to)
	m.subject = append(m.subject, subject)
	m.body = append(m.body, htmlBody)
	return nil
}

func authTestConfig() *config.Config {
	return &config.Config{
		SessionTTL:      168 * time.Hour,
		MagicLinkSecret: "test-secret",
		MagicLinkTTL:    15 * time.Minute,
		FrontendURL:     "https://umiri.me",
	}
}

func newAuthFixture(t *testing.T, provider identity.Provider) (*AuthService, *captureMailer, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	mail := &captureMailer{}
	subs := NewSubscriptionService(db, payment.NewMockGateway(), catalog.Default())
	svc := NewAuthService(db, authTestConfig(), provider, mail, subs)
	return svc, mail, db
}

func TestCreateSessionFromOAuth(t *testing.T) {
	provider := &stubProvider{data: &identity.SessionData{
		Email:   "mila@example.com",
		Name:    "Mila",
		Picture: "https://cdn.example.com/mila.png",
	}}
	svc, _, db := newAuthFixture(t, provider)

	user, token, err := svc.CreateSessionFromOAuth(context.Background(), "oauth-session-id")
	require.NoError(t, err)
	assert.Equal(t, "mila@example.com", user.Email)
	assert.Equal(t, "Mila", user.Name)
	assert.NotEmpty(t, token)

	// The raw token never hits the database.
	var session models.UserSession
	require.NoError(t, db.First(&session, "user_id = ?", user.ID).Error)
	assert.NotEqual(t, token, session.TokenHash)

	resolved, err := svc.UserBySessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
}

func TestCreateSessionFromOAuthExchangeFailure(t *testing.T) {
	provider := &stubProvider{err: identity.ErrExchangeFailed}
	svc, _, _ := newAuthFixture(t, provider)

	_, _, err := svc.CreateSessionFromOAuth(context.Background(), "bad-id")
	assert.ErrorIs(t, err, identity.ErrExchangeFailed)
}

func TestNewUserGetsTrialExactlyOnce(t *testing.T) {
	provider := &stubProvider{data: &identity.SessionData{Email: "novi@example.com", Name: "Novi"}}
	svc, _, db := newAuthFixture(t, provider)

	user, _, err := svc.CreateSessionFromOAuth(context.Background(), "s1")
	require.NoError(t, err)

	var sub models.Subscription
	require.NoError(t, db.First(&sub, "user_id = ?", user.ID).Error)
	assert.True(t, sub.IsTrial)

	// Second login does not reset the trial clock.
	_, _, err = svc.CreateSessionFromOAuth(context.Background(), "s2")
	require.NoError(t, err)

	var again models.Subscription
	require.NoError(t, db.First(&again, "user_id = ?", user.ID).Error)
	assert.Equal(t, sub.ExpiresAt, again.ExpiresAt)

	var count int64
	db.Model(&models.Subscription{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestReturningUserProfileRefreshed(t *testing.T) {
	provider := &stubProvider{data: &identity.SessionData{Email: "mila@example.com", Name: "Mila"}}
	svc, _, db := newAuthFixture(t, provider)

	first, _, err := svc.CreateSessionFromOAuth(context.Background(), "s1")
	require.NoError(t, err)

	provider.data.Name = "Mila M."
	second, _, err := svc.CreateSessionFromOAuth(context.Background(), "s2")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", first.ID).Error)
	assert.Equal(t, "Mila M.", stored.Name)

	var users int64
	db.Model(&models.User{}).Count(&users)
	assert.Equal(t, int64(1), users)
}

func TestMagicLinkRoundTrip(t *testing.T) {
	svc, mail, _ := newAuthFixture(t, &stubProvider{err: errors.New("unused")})

	require.NoError(t, svc.IssueMagicLink(context.Background(), "pera@example.com"))
	require.Len(t, mail.to, 1)
	assert.Equal(t, "pera@example.com", mail.to[0])

	token := extractMagicToken(t, mail.body[0])

	user, session, err := svc.VerifyMagicLink(token)
	require.NoError(t, err)
	assert.Equal(t, "pera@example.com", user.Email)
	assert.NotEmpty(t, session)

	resolved, err := svc.UserBySessionToken(session)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
}

func TestMagicLinkIsSingleUse(t *testing.T) {
	svc, mail, _ := newAuthFixture(t, &stubProvider{})

	require.NoError(t, svc.IssueMagicLink(context.Background(), "pera@example.com"))
	token := extractMagicToken(t, mail.body[0])

	_, _, err := svc.VerifyMagicLink(token)
	require.NoError(t, err)

	_, _, err = svc.VerifyMagicLink(token)
	assert.ErrorIs(t, err, ErrInvalidLink)
}

func TestMagicLinkRejectsGarbage(t *testing.T) {
	svc, _, _ := newAuthFixture(t, &stubProvider{})

	_, _, err := svc.VerifyMagicLink("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidLink)
}

func TestMagicLinkRejectsForeignSignature(t *testing.T) {
	svc, mail, _ := newAuthFixture(t, &stubProvider{})
	require.NoError(t, svc.IssueMagicLink(context.Background(), "pera@example.com"))
	token := extractMagicToken(t, mail.body[0])

	other := newAuthFixtureWithSecret(t, "different-secret")
	_, _, err := other.VerifyMagicLink(token)
	assert.ErrorIs(t, err, ErrInvalidLink)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	provider := &stubProvider{data: &identity.SessionData{Email: "mila@example.com", Name: "Mila"}}
	svc, _, _ := newAuthFixture(t, provider)

	_, token, err := svc.CreateSessionFromOAuth(context.Background(), "s1")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(token))

	_, err = svc.UserBySessionToken(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestExpiredSessionRejected(t *testing.T) {
	provider := &stubProvider{data: &identity.SessionData{Email: "mila@example.com", Name: "Mila"}}
	svc, _, db := newAuthFixture(t, provider)

	user, token, err := svc.CreateSessionFromOAuth(context.Background(), "s1")
	require.NoError(t, err)

	past := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, db.Model(&models.UserSession{}).
		Where("user_id = ?", user.ID).
		Update("expires_at", past).Error)

	_, err = svc.UserBySessionToken(token)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func newAuthFixtureWithSecret(t *testing.T, secret string) *AuthService {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	cfg := authTestConfig()
	cfg.MagicLinkSecret = secret
	subs := NewSubscriptionService(db, payment.NewMockGateway(), catalog.Default())
	return NewAuthService(db, cfg, &stubProvider{}, &captureMailer{}, subs)
}

func extractMagicToken(t *testing.T, body string) string {
	t.Helper()
	idx := strings.Index(body, "token=")
	require.GreaterOrEqual(t, idx, 0, "email body carries no magic link")
	rest := body[idx+len("token="):]
	end := strings.IndexByte(rest, '"')
	require.Greater(t, end, 0)
	return rest[:end]
}
