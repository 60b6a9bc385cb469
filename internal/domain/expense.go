package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Expense is money spent from one of the user's accounts.
type Expense struct {
	ID        int64           `json:"expense_id"`
	UserID    int64           `json:"user_id"`
	AccountID int64           `json:"account_id"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Date      Date            `json:"date"`
	Notes     *string         `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewExpense builds a validated expense. A zero date defaults to today.
func NewExpense(userID, accountID int64, category string, amount decimal.Decimal, date Date, notes *string) (*Expense, error) {
	if date.IsZero() {
		date = Today()
	}
	e := &Expense{
		UserID:    userID,
		AccountID: accountID,
		Category:  strings.TrimSpace(category),
		Amount:    amount,
		Date:      date,
		Notes:     notes,
		CreatedAt: time.Now().UTC(),
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Validate checks category length, a positive amount and the notes limit.
func (e *Expense) Validate() error {
	if e.AccountID <= 0 {
		return ErrMissingAccount
	}
	if n := utf8.RuneCountInString(e.Category); n < 3 || n > 50 {
		return ErrCategoryLength
	}
	if !e.Amount.IsPositive() {
		return ErrNonPositiveValue
	}
	if e.Notes != nil && utf8.RuneCountInString(*e.Notes) > 256 {
		return ErrNotesTooLong
	}
	return nil
}

// CheckWithinBalance enforces that the account's existing spending plus the
// new amount does not exceed its balance. Equality is allowed.
func CheckWithinBalance(balance, spent, amount decimal.Decimal) error {
	if spent.Add(amount).GreaterThan(balance) {
		return ErrExpenseExceedsBalance
	}
	return nil
}

// ExpenseFilter narrows an expense listing. Zero values mean "any".
type ExpenseFilter struct {
	StartDate *Date
	EndDate   *Date
	AccountID *int64
	Category  string
}
