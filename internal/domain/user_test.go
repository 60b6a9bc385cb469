package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	user, err := NewUser(" alice ", "alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "password123", user.Password)
	assert.False(t, user.CreatedAt.IsZero())

	tests := []struct {
		name     string
		username string
		email    string
		password string
		want     error
	}{
		{"short username", "al", "alice@example.com", "password123", ErrUsernameLength},
		{"long username", strings.Repeat("a", 21), "alice@example.com", "password123", ErrUsernameLength},
		{"bad email", "alice", "not-an-email", "password123", ErrInvalidEmail},
		{"empty email", "alice", "", "password123", ErrInvalidEmail},
		{"short password", "alice", "alice@example.com", "short", ErrPasswordLength},
		{"long password", "alice", "alice@example.com", strings.Repeat("p", 51), ErrPasswordLength},
		{"no password", "alice", "alice@example.com", "", ErrEmptyPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser(tt.username, tt.email, tt.password)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, errors.Is(err, ErrValidation))
		})
	}
}

func TestUserValidateAcceptsStoredHash(t *testing.T) {
	u := &User{Username: "bob", Email: "bob@example.com", HashedPassword: "$2a$10$abc"}
	assert.NoError(t, u.Validate())
}
