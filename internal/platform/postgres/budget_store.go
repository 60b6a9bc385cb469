package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/ledger-api/internal/domain"
	"github.com/phrazzld/ledger-api/internal/store"
)

// PostgresBudgetStore implements store.BudgetStore.
type PostgresBudgetStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBudgetStore creates a new PostgreSQL implementation of the BudgetStore interface.
func NewPostgresBudgetStore(db store.DBTX, logger *slog.Logger) *PostgresBudgetStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresBudgetStore{
		db:     db,
		logger: logger.With(slog.String("component", "budget_store")),
	}
}

var _ store.BudgetStore = (*PostgresBudgetStore)(nil)

const selectBudget = `SELECT budget_id, user_id, account_id, amount, start_date, end_date, created_at, updated_at FROM budgets`

func scanBudget(row rowScanner) (*domain.Budget, error) {
	var (
		b       domain.Budget
		updated sql.NullTime
	)
	if err := row.Scan(&b.ID, &b.UserID, &b.AccountID, &b.Amount, &b.StartDate, &b.EndDate, &b.CreatedAt, &updated); err != nil {
		return nil, err
	}
	if updated.Valid {
		t := updated.Time
		b.UpdatedAt = &t
	}
	return &b, nil
}

// Create implements store.BudgetStore.Create. The INSERT only selects from
// accounts owned by the budget's user, so a foreign account yields no row.
func (s *PostgresBudgetStore) Create(ctx context.Context, budget *domain.Budget) error {
	if err := budget.Validate(); err != nil {
		return err
	}
	if budget.CreatedAt.IsZero() {
		budget.CreatedAt = time.Now().UTC()
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO budgets (user_id, account_id, amount, start_date, end_date, created_at)
		SELECT $1, account_id, $3, $4, $5, $6 FROM accounts
		WHERE account_id = $2 AND user_id = $1
		RETURNING budget_id`,
		budget.UserID, budget.AccountID, budget.Amount, budget.StartDate, budget.EndDate, budget.CreatedAt,
	).Scan(&budget.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrInvalidAccountRef
		}
		return MapError(err)
	}
	return nil
}

// GetByID implements store.BudgetStore.GetByID
func (s *PostgresBudgetStore) GetByID(ctx context.Context, userID, budgetID int64) (*domain.Budget, error) {
	b, err := scanBudget(s.db.QueryRowContext(ctx,
		selectBudget+` WHERE budget_id = $1 AND user_id = $2`, budgetID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrBudgetNotFound
		}
		return nil, MapError(err)
	}
	return b, nil
}

// ListByUser implements store.BudgetStore.ListByUser
func (s *PostgresBudgetStore) ListByUser(ctx context.Context, userID int64) ([]domain.Budget, error) {
	rows, err := s.db.QueryContext(ctx, selectBudget+` WHERE user_id = $1 ORDER BY budget_id`, userID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	budgets := []domain.Budget{}
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return budgets, nil
}

// Update implements store.BudgetStore.Update
func (s *PostgresBudgetStore) Update(ctx context.Context, budget *domain.Budget) error {
	if err := budget.Validate(); err != nil {
		return err
	}

	if _, err := s.GetByID(ctx, budget.UserID, budget.ID); err != nil {
		return err
	}

	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		UPDATE budgets SET account_id = a.account_id, amount = $3, start_date = $4, end_date = $5, updated_at = $6
		FROM accounts a
		WHERE budgets.budget_id = $1 AND budgets.user_id = $2
		  AND a.account_id = $7 AND a.user_id = $2`,
		budget.ID, budget.UserID, budget.Amount, budget.StartDate, budget.EndDate, now, budget.AccountID,
	)
	if err != nil {
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrInvalidAccountRef); err != nil {
		return err
	}
	budget.UpdatedAt = &now
	return nil
}
