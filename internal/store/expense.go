package store

import (
	"context"

	"github.com/phrazzld/ledger-api/internal/domain"
	"github.com/shopspring/decimal"
)

// ExpenseStore defines the interface for expense persistence.
type ExpenseStore interface {
	// CreateWithinBalance inserts the expense if the account's existing
	// expenses plus the new amount stay within the account balance. The check
	// and the insert happen atomically with respect to other expense writes on
	// the same account.
	// Returns ErrInvalidAccountRef if the account is missing or not owned by
	// the expense's user, and domain.ErrExpenseExceedsBalance if the balance
	// would be exceeded.
	CreateWithinBalance(ctx context.Context, expense *domain.Expense) error

	// List returns the user's expenses matching filter, ordered by date then ID.
	// An empty slice is not an error.
	List(ctx context.Context, userID int64, filter domain.ExpenseFilter) ([]domain.Expense, error)

	// SumForAccount totals the account's expenses dated within [start, end].
	SumForAccount(ctx context.Context, userID, accountID int64, start, end domain.Date) (decimal.Decimal, error)
}
