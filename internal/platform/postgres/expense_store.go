package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/ledger-api/internal/domain"
	"github.com/phrazzld/ledger-api/internal/store"
	"github.com/shopspring/decimal"
)

// PostgresExpenseStore implements store.ExpenseStore. It needs a *sql.DB
// rather than a DBTX because expense creation runs in its own transaction.
type PostgresExpenseStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresExpenseStore creates a new PostgreSQL implementation of the ExpenseStore interface.
func NewPostgresExpenseStore(db *sql.DB, logger *slog.Logger) *PostgresExpenseStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresExpenseStore{
		db:     db,
		logger: logger.With(slog.String("component", "expense_store")),
	}
}

var _ store.ExpenseStore = (*PostgresExpenseStore)(nil)

// CreateWithinBalance implements store.ExpenseStore.CreateWithinBalance.
// The account row is locked FOR UPDATE so concurrent inserts against the
// same account serialize on the balance check.
func (s *PostgresExpenseStore) CreateWithinBalance(ctx context.Context, expense *domain.Expense) error {
	if err := expense.Validate(); err != nil {
		return err
	}
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = time.Now().UTC()
	}

	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		var balance decimal.Decimal
		err := tx.QueryRowContext(ctx,
			`SELECT balance FROM accounts WHERE account_id = $1 AND user_id = $2 FOR UPDATE`,
			expense.AccountID, expense.UserID,
		).Scan(&balance)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return store.ErrInvalidAccountRef
			}
			return MapError(err)
		}

		var spent decimal.Decimal
		if err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE account_id = $1`,
			expense.AccountID,
		).Scan(&spent); err != nil {
			return MapError(err)
		}

		if err := domain.CheckWithinBalance(balance, spent, expense.Amount); err != nil {
			s.logger.DebugContext(ctx, "expense rejected by balance check",
				slog.Int64("account_id", expense.AccountID),
				slog.String("balance", balance.String()),
				slog.String("spent", spent.String()),
				slog.String("amount", expense.Amount.String()))
			return err
		}

		err = tx.QueryRowContext(ctx, `
			INSERT INTO expenses (user_id, account_id, category, amount, date, notes, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING expense_id`,
			expense.UserID, expense.AccountID, expense.Category, expense.Amount,
			expense.Date, expense.Notes, expense.CreatedAt,
		).Scan(&expense.ID)
		return MapError(err)
	})
}

// List implements store.ExpenseStore.List
func (s *PostgresExpenseStore) List(ctx context.Context, userID int64, filter domain.ExpenseFilter) ([]domain.Expense, error) {
	query, args := buildExpenseQuery(userID, filter)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	expenses := []domain.Expense{}
	for rows.Next() {
		var (
			e     domain.Expense
			notes sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.AccountID, &e.Category, &e.Amount, &e.Date, &notes, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		if notes.Valid {
			n := notes.String
			e.Notes = &n
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return expenses, nil
}

func buildExpenseQuery(userID int64, filter domain.ExpenseFilter) (string, []any) {
	var b strings.Builder
	b.WriteString(`SELECT expense_id, user_id, account_id, category, amount, date, notes, created_at
		FROM expenses WHERE user_id = $1`)
	args := []any{userID}

	add := func(clause string, v any) {
		args = append(args, v)
		fmt.Fprintf(&b, " AND "+clause, len(args))
	}
	if filter.StartDate != nil {
		add("date >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		add("date <= $%d", *filter.EndDate)
	}
	if filter.AccountID != nil {
		add("account_id = $%d", *filter.AccountID)
	}
	if filter.Category != "" {
		add("category = $%d", filter.Category)
	}
	b.WriteString(" ORDER BY date, expense_id")
	return b.String(), args
}

// SumForAccount implements store.ExpenseStore.SumForAccount
func (s *PostgresExpenseStore) SumForAccount(ctx context.Context, userID, accountID int64, start, end domain.Date) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM expenses
		WHERE user_id = $1 AND account_id = $2 AND date BETWEEN $3 AND $4`,
		userID, accountID, start, end,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, MapError(err)
	}
	return sum, nil
}
