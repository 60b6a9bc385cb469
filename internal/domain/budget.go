package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget caps planned spending on an account over an inclusive date range.
type Budget struct {
	ID        int64           `json:"budget_id"`
	UserID    int64           `json:"user_id"`
	AccountID int64           `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
	StartDate Date            `json:"start_date"`
	EndDate   Date            `json:"end_date"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

// NewBudget builds a validated budget.
func NewBudget(userID, accountID int64, amount decimal.Decimal, start, end Date) (*Budget, error) {
	b := &Budget{
		UserID:    userID,
		AccountID: accountID,
		Amount:    amount,
		StartDate: start,
		EndDate:   end,
		CreatedAt: time.Now().UTC(),
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate requires a positive amount and start <= end.
func (b *Budget) Validate() error {
	if b.AccountID <= 0 {
		return ErrMissingAccount
	}
	if !b.Amount.IsPositive() {
		return ErrNonPositiveValue
	}
	if b.StartDate.IsZero() || b.EndDate.IsZero() {
		return ErrMissingDate
	}
	if b.StartDate.After(b.EndDate) {
		return ErrInvalidDateRange
	}
	return nil
}

// Covers reports whether d falls inside the budget's inclusive range.
func (b *Budget) Covers(d Date) bool {
	return !d.Before(b.StartDate) && !d.After(b.EndDate)
}

// BudgetProgress reports how much of a budget has been spent.
type BudgetProgress struct {
	BudgetID        int64           `json:"budget_id"`
	AccountID       int64           `json:"account_id"`
	Amount          decimal.Decimal `json:"amount"`
	StartDate       Date            `json:"start_date"`
	EndDate         Date            `json:"end_date"`
	ExpensesSum     decimal.Decimal `json:"expenses_sum"`
	ProgressPercent decimal.Decimal `json:"progress_percent"`
}

var hundred = decimal.NewFromInt(100)

// NewBudgetProgress computes spent/amount as a percentage rounded to two places.
func NewBudgetProgress(b *Budget, spent decimal.Decimal) BudgetProgress {
	percent := decimal.Zero
	if b.Amount.IsPositive() {
		percent = spent.Mul(hundred).DivRound(b.Amount, 2)
	}
	return BudgetProgress{
		BudgetID:        b.ID,
		AccountID:       b.AccountID,
		Amount:          b.Amount,
		StartDate:       b.StartDate,
		EndDate:         b.EndDate,
		ExpensesSum:     spent,
		ProgressPercent: percent,
	}
}
