package store

import (
	"context"

	"github.com/phrazzld/ledger-api/internal/domain"
)

// BudgetStore defines the interface for budget persistence.
type BudgetStore interface {
	// Create inserts the budget and sets its ID.
	// Returns ErrInvalidAccountRef if the account is not owned by the user.
	Create(ctx context.Context, budget *domain.Budget) error

	// GetByID returns the user's budget or ErrBudgetNotFound.
	GetByID(ctx context.Context, userID, budgetID int64) (*domain.Budget, error)

	// ListByUser returns the user's budgets ordered by ID.
	// An empty slice is not an error.
	ListByUser(ctx context.Context, userID int64) ([]domain.Budget, error)

	// Update overwrites account, amount and dates.
	// Returns ErrBudgetNotFound or ErrInvalidAccountRef.
	Update(ctx context.Context, budget *domain.Budget) error
}
