package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Account is a named pot of money owned by a user. Expenses are drawn
// against its balance and budgets are planned for it.
type Account struct {
	ID        int64           `json:"account_id"`
	UserID    int64           `json:"user_id"`
	Name      string          `json:"account_name"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

// NewAccount builds a validated account for userID.
func NewAccount(userID int64, name string, balance decimal.Decimal) (*Account, error) {
	a := &Account{
		UserID:    userID,
		Name:      strings.TrimSpace(name),
		Balance:   balance,
		CreatedAt: time.Now().UTC(),
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks the account name length and that the balance is not negative.
func (a *Account) Validate() error {
	if n := utf8.RuneCountInString(a.Name); n < 3 || n > 50 {
		return ErrAccountNameLen
	}
	if a.Balance.IsNegative() {
		return ErrNegativeBalance
	}
	return nil
}
