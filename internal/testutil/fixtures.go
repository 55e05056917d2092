package testutil

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/umirime/backend/internal/models"
)

// UserOption mutates a fixture user before insert.
type UserOption func(*models.User)

func WithEmail(email string) UserOption {
	return func(u *models.User) { u.Email = email }
}

func WithRole(role string) UserOption {
	return func(u *models.User) { u.Role = role }
}

// TestUser inserts a user with sane defaults.
func TestUser(t *testing.T, db *gorm.DB, opts ...UserOption) *models.User {
	t.Helper()

	user := &models.User{
		ID:    uuid.New(),
		Email: "test-" + uuid.NewString()[:8] + "@example.com",
		Name:  "Test Korisnik",
		Role:  "user",
	}
	for _, opt := range opts {
		opt(user)
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}
