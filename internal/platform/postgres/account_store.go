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

// PostgresAccountStore implements store.AccountStore.
type PostgresAccountStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAccountStore creates a new PostgreSQL implementation of the AccountStore interface.
func NewPostgresAccountStore(db store.DBTX, logger *slog.Logger) *PostgresAccountStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresAccountStore{
		db:     db,
		logger: logger.With(slog.String("component", "account_store")),
	}
}

var _ store.AccountStore = (*PostgresAccountStore)(nil)

const selectAccount = `SELECT account_id, user_id, account_name, balance, created_at, updated_at FROM accounts`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var (
		a       domain.Account
		updated sql.NullTime
	)
	if err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.Balance, &a.CreatedAt, &updated); err != nil {
		return nil, err
	}
	if updated.Valid {
		t := updated.Time
		a.UpdatedAt = &t
	}
	return &a, nil
}

// Create implements store.AccountStore.Create
func (s *PostgresAccountStore) Create(ctx context.Context, account *domain.Account) error {
	if err := account.Validate(); err != nil {
		return err
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO accounts (user_id, account_name, balance, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING account_id`,
		account.UserID, account.Name, account.Balance, account.CreatedAt,
	).Scan(&account.ID)
	if err != nil {
		return MapError(err)
	}

	s.logger.DebugContext(ctx, "account created",
		slog.Int64("account_id", account.ID),
		slog.Int64("user_id", account.UserID))
	return nil
}

func (s *PostgresAccountStore) getOne(ctx context.Context, where string, args ...any) (*domain.Account, error) {
	a, err := scanAccount(s.db.QueryRowContext(ctx, selectAccount+" WHERE "+where, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrAccountNotFound
		}
		return nil, MapError(err)
	}
	return a, nil
}

// GetByID implements store.AccountStore.GetByID
func (s *PostgresAccountStore) GetByID(ctx context.Context, userID, accountID int64) (*domain.Account, error) {
	return s.getOne(ctx, "account_id = $1 AND user_id = $2", accountID, userID)
}

// GetByName implements store.AccountStore.GetByName
func (s *PostgresAccountStore) GetByName(ctx context.Context, userID int64, name string) (*domain.Account, error) {
	return s.getOne(ctx, "user_id = $1 AND account_name = $2", userID, name)
}

// ListByUser implements store.AccountStore.ListByUser
func (s *PostgresAccountStore) ListByUser(ctx context.Context, userID int64) ([]domain.Account, error) {
	rows, err := s.db.QueryContext(ctx, selectAccount+` WHERE user_id = $1 ORDER BY account_id DESC`, userID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	accounts := []domain.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return accounts, nil
}

// Update implements store.AccountStore.Update
func (s *PostgresAccountStore) Update(ctx context.Context, account *domain.Account) error {
	if err := account.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		UPDATE accounts SET account_name = $1, balance = $2, updated_at = $3
		WHERE account_id = $4 AND user_id = $5`,
		account.Name, account.Balance, now, account.ID, account.UserID,
	)
	if err != nil {
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrAccountNotFound); err != nil {
		return err
	}
	account.UpdatedAt = &now
	return nil
}

// Delete implements store.AccountStore.Delete
func (s *PostgresAccountStore) Delete(ctx context.Context, userID, accountID int64) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM accounts WHERE account_id = $1 AND user_id = $2`, accountID, userID)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrAccountNotFound)
}
