package mocks

import (
	"context"
	"time"

	"github.com/phrazzld/ledger-api/internal/service/auth"
)

// MockJWTService implements auth.JWTService for testing
type MockJWTService struct {
	// GenerateTokenFn allows test cases to mock the GenerateToken behavior
	GenerateTokenFn func(ctx context.Context, email string) (string, time.Time, error)

	// ValidateTokenFn allows test cases to mock the ValidateToken behavior
	ValidateTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	// Default values used when functions aren't explicitly defined
	Token       string
	ExpiresAt   time.Time
	Err         error
	ValidateErr error
	Claims      *auth.Claims
}

var _ auth.JWTService = (*MockJWTService)(nil)

// GenerateToken implements the auth.JWTService interface
func (m *MockJWTService) GenerateToken(ctx context.Context, email string) (string, time.Time, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, email)
	}
	return m.Token, m.ExpiresAt, m.Err
}

// ValidateToken implements the auth.JWTService interface
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	return m.Claims, m.ValidateErr
}

// NewTokenPerEmailJWTService returns a mock whose tokens are "token:<email>"
// and validate back to that email.
func NewTokenPerEmailJWTService() *MockJWTService {
	const prefix = "token:"
	return &MockJWTService{
		GenerateTokenFn: func(_ context.Context, email string) (string, time.Time, error) {
			return prefix + email, time.Now().Add(time.Hour).UTC(), nil
		},
		ValidateTokenFn: func(_ context.Context, token string) (*auth.Claims, error) {
			if len(token) <= len(prefix) || token[:len(prefix)] != prefix {
				return nil, auth.ErrInvalidToken
			}
			return &auth.Claims{Subject: token[len(prefix):]}, nil
		},
	}
}
