package postgres

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/ledger-api/internal/domain"
	"github.com/phrazzld/ledger-api/internal/store"
	"github.com/stretchr/testify/assert"
)

type fakeResult struct {
	rows int64
	err  error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.err }

func TestMapError(t *testing.T) {
	assert.NoError(t, MapError(nil))
	assert.ErrorIs(t, MapError(sql.ErrNoRows), store.ErrNotFound)

	tests := []struct {
		name string
		err  *pgconn.PgError
		want error
	}{
		{"email", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}, store.ErrEmailExists},
		{"username", &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}, store.ErrUsernameExists},
		{"account name", &pgconn.PgError{Code: "23505", ConstraintName: "accounts_user_id_account_name_key"}, store.ErrAccountNameExists},
		{"other unique", &pgconn.PgError{Code: "23505", ConstraintName: "mystery"}, store.ErrDuplicate},
		{"foreign key", &pgconn.PgError{Code: "23503"}, store.ErrInvalidReference},
		{"check", &pgconn.PgError{Code: "23514"}, store.ErrInvalidEntity},
		{"not null", &pgconn.PgError{Code: "23502"}, store.ErrInvalidEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, MapError(tt.err), tt.want)
		})
	}

	plain := errors.New("connection reset")
	assert.Same(t, plain, MapError(plain))
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
}

func TestCheckRowsAffected(t *testing.T) {
	assert.NoError(t, CheckRowsAffected(fakeResult{rows: 1}, store.ErrAccountNotFound))
	assert.ErrorIs(t, CheckRowsAffected(fakeResult{rows: 0}, store.ErrAccountNotFound), store.ErrAccountNotFound)
	assert.Error(t, CheckRowsAffected(fakeResult{err: errors.New("driver")}, store.ErrAccountNotFound))
	assert.Error(t, CheckRowsAffected(nil, store.ErrAccountNotFound))
}

func TestBuildExpenseQuery(t *testing.T) {
	start := domain.NewDate(2024, 1, 1)
	account := int64(9)

	query, args := buildExpenseQuery(3, domain.ExpenseFilter{StartDate: &start, AccountID: &account, Category: "Food"})

	assert.Contains(t, query, "user_id = $1")
	assert.Contains(t, query, "date >= $2")
	assert.Contains(t, query, "account_id = $3")
	assert.Contains(t, query, "category = $4")
	assert.NotContains(t, query, "date <=")
	assert.Equal(t, []any{int64(3), start, int64(9), "Food"}, args)
}
