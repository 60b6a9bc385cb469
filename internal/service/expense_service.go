package service

import (
	"context"
	"log/slog"

	"github.com/phrazzld/ledger-api/internal/domain"
	"github.com/phrazzld/ledger-api/internal/store"
	"github.com/shopspring/decimal"
)

// CreateExpenseInput carries the fields of a new expense. A zero Date means
// today.
type CreateExpenseInput struct {
	AccountID int64
	Category  string
	Amount    decimal.Decimal
	Date      domain.Date
	Notes     *string
}

// ExpenseService records and lists expenses.
type ExpenseService interface {
	// CreateExpense records an expense against one of the user's accounts.
	// It fails with domain.ErrExpenseExceedsBalance when the account's total
	// spending would pass its balance.
	CreateExpense(ctx context.Context, userID int64, in CreateExpenseInput) (*domain.Expense, error)

	// ListExpenses returns the user's expenses matching filter. An empty
	// result is ErrExpensesNotFound.
	ListExpenses(ctx context.Context, userID int64, filter domain.ExpenseFilter) ([]domain.Expense, error)
}

type expenseService struct {
	expenses store.ExpenseStore
	logger   *slog.Logger
}

// NewExpenseService creates an ExpenseService.
func NewExpenseService(expenses store.ExpenseStore, logger *slog.Logger) ExpenseService {
	if logger == nil {
		logger = slog.Default()
	}
	return &expenseService{
		expenses: expenses,
		logger:   logger.With("component", "expense_service"),
	}
}

func (s *expenseService) CreateExpense(ctx context.Context, userID int64, in CreateExpenseInput) (*domain.Expense, error) {
	expense, err := domain.NewExpense(userID, in.AccountID, in.Category, in.Amount, in.Date, in.Notes)
	if err != nil {
		return nil, err
	}
	if err := s.expenses.CreateWithinBalance(ctx, expense); err != nil {
		return nil, wrap("expense", "create", err)
	}
	s.logger.DebugContext(ctx, "expense recorded",
		"user_id", userID, "account_id", expense.AccountID, "expense_id", expense.ID)
	return expense, nil
}

func (s *expenseService) ListExpenses(ctx context.Context, userID int64, filter domain.ExpenseFilter) ([]domain.Expense, error) {
	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.After(*filter.EndDate) {
		return nil, domain.ErrInvalidDateRange
	}
	expenses, err := s.expenses.List(ctx, userID, filter)
	if err != nil {
		return nil, wrap("expense", "list", err)
	}
	if len(expenses) == 0 {
		return nil, ErrExpensesNotFound
	}
	return expenses, nil
}
