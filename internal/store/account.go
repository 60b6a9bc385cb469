package store

import (
	"context"

	"github.com/phrazzld/ledger-api/internal/domain"
)

// AccountStore defines the interface for account persistence. Every lookup is
// scoped to the owning user; an account owned by someone else is reported as
// not found.
type AccountStore interface {
	// Create inserts the account and sets its ID.
	// Returns ErrAccountNameExists if the user already has an account with that name.
	Create(ctx context.Context, account *domain.Account) error

	// GetByID returns the user's account or ErrAccountNotFound.
	GetByID(ctx context.Context, userID, accountID int64) (*domain.Account, error)

	// GetByName returns the user's account with the given name or ErrAccountNotFound.
	GetByName(ctx context.Context, userID int64, name string) (*domain.Account, error)

	// ListByUser returns the user's accounts, newest (highest ID) first.
	// An empty slice is not an error.
	ListByUser(ctx context.Context, userID int64) ([]domain.Account, error)

	// Update overwrites name and balance.
	// Returns ErrAccountNotFound or ErrAccountNameExists.
	Update(ctx context.Context, account *domain.Account) error

	// Delete removes the account together with its expenses and budgets.
	// Returns ErrAccountNotFound if nothing was deleted.
	Delete(ctx context.Context, userID, accountID int64) error
}
