package service

import (
	"context"
	"testing"

	"github.com/phrazzld/ledger-api/internal/domain"
	"github.com/phrazzld/ledger-api/internal/mocks"
	"github.com/phrazzld/ledger-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateExpenseBalanceLimit(t *testing.T) {
	ctx := context.Background()
	l := mocks.NewMemoryLedger()
	u := seedUser(t, l, "ann")
	a := seedAccount(t, l, u.ID, "Wallet", "100.00")
	svc := NewExpenseService(l.Expenses, quietLogger())

	_, err := svc.CreateExpense(ctx, u.ID, CreateExpenseInput{AccountID: a.ID, Category: "food", Amount: dec("60.00")})
	require.NoError(t, err)

	_, err = svc.CreateExpense(ctx, u.ID, CreateExpenseInput{AccountID: a.ID, Category: "food", Amount: dec("40.01")})
	assert.ErrorIs(t, err, domain.ErrExpenseExceedsBalance)

	e, err := svc.CreateExpense(ctx, u.ID, CreateExpenseInput{AccountID: a.ID, Category: "food", Amount: dec("40.00")})
	require.NoError(t, err)
	assert.Equal(t, domain.Today(), e.Date, "date defaults to today")
}

func TestCreateExpenseRejectsForeignAccount(t *testing.T) {
	ctx := context.Background()
	l := mocks.NewMemoryLedger()
	ann := seedUser(t, l, "ann")
	bob := seedUser(t, l, "bob")
	a := seedAccount(t, l, ann.ID, "Wallet", "100")
	svc := NewExpenseService(l.Expenses, quietLogger())

	_, err := svc.CreateExpense(ctx, bob.ID, CreateExpenseInput{AccountID: a.ID, Category: "food", Amount: dec("1")})
	assert.ErrorIs(t, err, store.ErrInvalidReference)

	_, err = svc.CreateExpense(ctx, ann.ID, CreateExpenseInput{AccountID: a.ID, Category: "x", Amount: dec("1")})
	assert.ErrorIs(t, err, domain.ErrCategoryLength)
}

func TestListExpensesFilters(t *testing.T) {
	ctx := context.Background()
	l := mocks.NewMemoryLedger()
	u := seedUser(t, l, "ann")
	wallet := seedAccount(t, l, u.ID, "Wallet", "100")
	savings := seedAccount(t, l, u.ID, "Savings", "100")
	svc := NewExpenseService(l.Expenses, quietLogger())

	_, err := svc.ListExpenses(ctx, u.ID, domain.ExpenseFilter{})
	assert.ErrorIs(t, err, ErrExpensesNotFound)

	add := func(accountID int64, category string, day int) {
		_, err := svc.CreateExpense(ctx, u.ID, CreateExpenseInput{
			AccountID: accountID, Category: category, Amount: dec("1"), Date: domain.NewDate(2024, 3, day),
		})
		require.NoError(t, err)
	}
	add(wallet.ID, "food", 1)
	add(wallet.ID, "rent", 10)
	add(savings.ID, "food", 20)

	all, err := svc.ListExpenses(ctx, u.ID, domain.ExpenseFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	start, end := domain.NewDate(2024, 3, 5), domain.NewDate(2024, 3, 31)
	ranged, err := svc.ListExpenses(ctx, u.ID, domain.ExpenseFilter{StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	assert.Len(t, ranged, 2)

	food, err := svc.ListExpenses(ctx, u.ID, domain.ExpenseFilter{AccountID: &wallet.ID, Category: "food"})
	require.NoError(t, err)
	require.Len(t, food, 1)
	assert.Equal(t, domain.NewDate(2024, 3, 1), food[0].Date)

	_, err = svc.ListExpenses(ctx, u.ID, domain.ExpenseFilter{StartDate: &end, EndDate: &start})
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
}
