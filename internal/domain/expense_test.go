package domain

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExpenseDefaultsDateToToday(t *testing.T) {
	e, err := NewExpense(1, 2, "Groceries", decimal.NewFromInt(10), Date{}, nil)
	require.NoError(t, err)
	assert.Equal(t, Today(), e.Date)
}

func TestExpenseValidate(t *testing.T) {
	longNotes := strings.Repeat("n", 257)
	okNotes := strings.Repeat("n", 256)
	day := NewDate(2024, 3, 1)

	_, err := NewExpense(1, 2, "Rent", decimal.NewFromInt(10), day, &okNotes)
	assert.NoError(t, err)

	_, err = NewExpense(1, 2, "Rent", decimal.NewFromInt(10), day, &longNotes)
	assert.ErrorIs(t, err, ErrNotesTooLong)

	_, err = NewExpense(1, 2, "Re", decimal.NewFromInt(10), day, nil)
	assert.ErrorIs(t, err, ErrCategoryLength)

	_, err = NewExpense(1, 2, "Rent", decimal.Zero, day, nil)
	assert.ErrorIs(t, err, ErrNonPositiveValue)

	_, err = NewExpense(1, 0, "Rent", decimal.NewFromInt(1), day, nil)
	assert.ErrorIs(t, err, ErrMissingAccount)
}

func TestCheckWithinBalance(t *testing.T) {
	balance := decimal.RequireFromString("100.00")
	spent := decimal.RequireFromString("60.00")

	assert.NoError(t, CheckWithinBalance(balance, spent, decimal.RequireFromString("39.99")), "one cent under")
	assert.NoError(t, CheckWithinBalance(balance, spent, decimal.RequireFromString("40.00")), "exactly at the limit")
	assert.ErrorIs(t, CheckWithinBalance(balance, spent, decimal.RequireFromString("40.01")), ErrExpenseExceedsBalance, "one cent over")
}
