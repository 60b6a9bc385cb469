package store

import (
	"context"

	"github.com/phrazzld/ledger-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store and sets its ID.
	// It handles domain validation and password hashing internally.
	// Returns ErrEmailExists or ErrUsernameExists if either is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update changes the username and email of an existing user.
	// Returns ErrUserNotFound if the user does not exist and
	// ErrEmailExists or ErrUsernameExists on a uniqueness conflict.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user and, by cascade, everything they own.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id int64) error
}
