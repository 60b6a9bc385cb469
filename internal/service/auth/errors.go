package auth

import "errors"

// Token errors surface as 401s; the middleware and the API error mapper
// match on them with errors.Is.
var (
	ErrInvalidToken = errors.New("invalid authentication token")
	ErrExpiredToken = errors.New("authentication token has expired")
	ErrMissingToken = errors.New("authentication token is missing")
)

// Configuration errors returned by NewJWTService. They stop the server and
// worker at startup and never reach a client.
var (
	ErrWeakSecret           = errors.New("jwt secret must be at least 32 characters")
	ErrInvalidTokenLifetime = errors.New("token lifetime must be positive")
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")
)
