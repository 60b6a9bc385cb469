package mocks

import (
	"errors"
	"sync"

	"github.com/phrazzld/ledger-api/internal/service/auth"
)

// ErrPasswordMismatch is returned by MockPasswordVerifier when Match is false.
var ErrPasswordMismatch = errors.New("password mismatch")

// PasswordCheck records one Compare call.
type PasswordCheck struct {
	HashedPassword string
	Password       string
}

// MockPasswordVerifier implements auth.PasswordVerifier without bcrypt cost.
// CompareFn takes precedence over Match.
type MockPasswordVerifier struct {
	Match     bool
	CompareFn func(hashedPassword, password string) error

	mu     sync.Mutex
	checks []PasswordCheck
}

var _ auth.PasswordVerifier = (*MockPasswordVerifier)(nil)

// Compare implements auth.PasswordVerifier.
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	m.mu.Lock()
	m.checks = append(m.checks, PasswordCheck{HashedPassword: hashedPassword, Password: password})
	m.mu.Unlock()

	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if !m.Match {
		return ErrPasswordMismatch
	}
	return nil
}

// Checks returns the Compare calls seen so far.
func (m *MockPasswordVerifier) Checks() []PasswordCheck {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PasswordCheck(nil), m.checks...)
}
