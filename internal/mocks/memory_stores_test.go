package mocks

import (
	"context"
	"testing"
	"time"

	"github.com/phrazzld/ledger-api/internal/cache"
	"github.com/phrazzld/ledger-api/internal/domain"
	"github.com/phrazzld/ledger-api/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLedgerCascadesAccountDelete(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger()

	u := &domain.User{Username: "ann", Email: "ann@example.com", Password: "password1"}
	require.NoError(t, l.Users.Create(ctx, u))
	assert.ErrorIs(t, l.Users.Create(ctx, &domain.User{Username: "ann2", Email: "ann@example.com", Password: "password1"}), store.ErrEmailExists)

	a := &domain.Account{UserID: u.ID, Name: "Wallet", Balance: decimal.NewFromInt(10)}
	require.NoError(t, l.Accounts.Create(ctx, a))

	e := &domain.Expense{UserID: u.ID, AccountID: a.ID, Category: "food", Amount: decimal.NewFromInt(4), Date: domain.NewDate(2024, 1, 2)}
	require.NoError(t, l.Expenses.CreateWithinBalance(ctx, e))
	over := &domain.Expense{UserID: u.ID, AccountID: a.ID, Category: "food", Amount: decimal.NewFromInt(7), Date: domain.NewDate(2024, 1, 2)}
	assert.ErrorIs(t, l.Expenses.CreateWithinBalance(ctx, over), domain.ErrExpenseExceedsBalance)

	require.NoError(t, l.Accounts.Delete(ctx, u.ID, a.ID))
	expenses, err := l.Expenses.List(ctx, u.ID, domain.ExpenseFilter{})
	require.NoError(t, err)
	assert.Empty(t, expenses)
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.Now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	assert.True(t, c.Has("k"))
	assert.Equal(t, time.Minute, c.TTL("k"))

	now = now.Add(time.Minute)
	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, cache.ErrMiss)
}

func TestMemoryCacheAtKeepsTTLExact(t *testing.T) {
	c := NewMemoryCacheAt(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, c.Set(context.Background(), "report:r", []byte("{}"), 24*time.Hour))

	time.Sleep(time.Millisecond)
	assert.Equal(t, 24*time.Hour, c.TTL("report:r"))
}
