package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/phrazzld/ledger-api/internal/cache"
	"github.com/phrazzld/ledger-api/internal/domain"
	"github.com/phrazzld/ledger-api/internal/store"
	"github.com/shopspring/decimal"
)

// BudgetService manages budgets and reports their progress.
type BudgetService interface {
	CreateBudget(ctx context.Context, userID, accountID int64, amount decimal.Decimal, start, end domain.Date) (*domain.Budget, error)

	// UpdateBudget replaces amount and date range. The account is fixed.
	UpdateBudget(ctx context.Context, userID, budgetID int64, amount decimal.Decimal, start, end domain.Date) (*domain.Budget, error)

	// ListBudgets returns the user's budgets. An empty list is
	// ErrBudgetsNotFound.
	ListBudgets(ctx context.Context, userID int64) ([]domain.Budget, error)

	// Progress sums the account's expenses inside the budget's range.
	Progress(ctx context.Context, userID, accountID, budgetID int64) (*domain.BudgetProgress, error)
}

type budgetService struct {
	budgets  store.BudgetStore
	expenses store.ExpenseStore
	cache    cache.Store
	keys     cache.Keys
	ttl      time.Duration
	logger   *slog.Logger
}

// NewBudgetService creates a BudgetService.
func NewBudgetService(
	budgets store.BudgetStore,
	expenses store.ExpenseStore,
	c cache.Store,
	keys cache.Keys,
	ttl time.Duration,
	logger *slog.Logger,
) BudgetService {
	if logger == nil {
		logger = slog.Default()
	}
	return &budgetService{
		budgets:  budgets,
		expenses: expenses,
		cache:    c,
		keys:     keys,
		ttl:      ttl,
		logger:   logger.With("component", "budget_service"),
	}
}

func (s *budgetService) CreateBudget(
	ctx context.Context,
	userID, accountID int64,
	amount decimal.Decimal,
	start, end domain.Date,
) (*domain.Budget, error) {
	budget, err := domain.NewBudget(userID, accountID, amount, start, end)
	if err != nil {
		return nil, err
	}
	if err := s.budgets.Create(ctx, budget); err != nil {
		return nil, wrap("budget", "create", err)
	}
	invalidate(ctx, s.cache, s.logger, s.keys.BudgetList(userID))
	return budget, nil
}

func (s *budgetService) UpdateBudget(
	ctx context.Context,
	userID, budgetID int64,
	amount decimal.Decimal,
	start, end domain.Date,
) (*domain.Budget, error) {
	budget, err := s.budgets.GetByID(ctx, userID, budgetID)
	if err != nil {
		return nil, wrap("budget", "update", err)
	}
	budget.Amount = amount
	budget.StartDate = start
	budget.EndDate = end
	if err := budget.Validate(); err != nil {
		return nil, err
	}
	if err := s.budgets.Update(ctx, budget); err != nil {
		return nil, wrap("budget", "update", err)
	}
	invalidate(ctx, s.cache, s.logger, s.keys.BudgetList(userID))
	return budget, nil
}

func (s *budgetService) ListBudgets(ctx context.Context, userID int64) ([]domain.Budget, error) {
	budgets, err := readThrough(ctx, s.cache, s.logger, s.keys.BudgetList(userID), s.ttl,
		func(ctx context.Context) ([]domain.Budget, error) {
			budgets, err := s.budgets.ListByUser(ctx, userID)
			if err != nil {
				return nil, err
			}
			if len(budgets) == 0 {
				return nil, ErrBudgetsNotFound
			}
			return budgets, nil
		})
	if err != nil {
		return nil, wrap("budget", "list", err)
	}
	return budgets, nil
}

func (s *budgetService) Progress(ctx context.Context, userID, accountID, budgetID int64) (*domain.BudgetProgress, error) {
	budget, err := s.budgets.GetByID(ctx, userID, budgetID)
	if err != nil {
		return nil, wrap("budget", "progress", err)
	}
	if budget.AccountID != accountID {
		return nil, ErrBudgetAccountMismatch
	}
	spent, err := s.expenses.SumForAccount(ctx, userID, accountID, budget.StartDate, budget.EndDate)
	if err != nil {
		return nil, wrap("budget", "progress", err)
	}
	progress := domain.NewBudgetProgress(budget, spent)
	return &progress, nil
}
