package auth

import (
	"context"
	"time"
)

// JWTService defines operations for managing bearer tokens.
type JWTService interface {
	// GenerateToken signs a token whose subject is the user's email. It
	// returns the token and the instant it stops being accepted.
	GenerateToken(ctx context.Context, email string) (string, time.Time, error)

	// ValidateToken checks signature and expiry and returns the claims.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the validated content of a token.
type Claims struct {
	Subject   string    `json:"sub"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
	ID        string    `json:"jti"`
}
