package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBudgetDateRange(t *testing.T) {
	day := NewDate(2024, 5, 10)

	b, err := NewBudget(1, 2, decimal.NewFromInt(50), day, day)
	require.NoError(t, err, "start == end is a valid one-day budget")
	assert.True(t, b.Covers(day))

	_, err = NewBudget(1, 2, decimal.NewFromInt(50), NewDate(2024, 5, 11), day)
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = NewBudget(1, 2, decimal.Zero, day, day)
	assert.ErrorIs(t, err, ErrNonPositiveValue)

	_, err = NewBudget(1, 2, decimal.NewFromInt(1), Date{}, day)
	assert.ErrorIs(t, err, ErrMissingDate)
}

func TestBudgetCovers(t *testing.T) {
	b := &Budget{StartDate: NewDate(2024, 1, 1), EndDate: NewDate(2024, 1, 31)}
	assert.True(t, b.Covers(NewDate(2024, 1, 1)))
	assert.True(t, b.Covers(NewDate(2024, 1, 31)))
	assert.False(t, b.Covers(NewDate(2023, 12, 31)))
	assert.False(t, b.Covers(NewDate(2024, 2, 1)))
}

func TestNewBudgetProgress(t *testing.T) {
	b := &Budget{
		ID:        3,
		AccountID: 4,
		Amount:    decimal.NewFromInt(300),
		StartDate: NewDate(2024, 1, 1),
		EndDate:   NewDate(2024, 1, 31),
	}

	p := NewBudgetProgress(b, decimal.NewFromInt(100))
	assert.Equal(t, int64(3), p.BudgetID)
	assert.Equal(t, int64(4), p.AccountID)
	assert.Equal(t, "33.33", p.ProgressPercent.StringFixed(2))

	over := NewBudgetProgress(b, decimal.NewFromInt(450))
	assert.Equal(t, "150.00", over.ProgressPercent.StringFixed(2))
}
