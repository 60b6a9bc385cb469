package postgres

import (
	"database/sql"
	"log/slog"
)

// Stores groups the Postgres implementation of every store interface over
// one connection pool.
type Stores struct {
	Users    *PostgresUserStore
	Accounts *PostgresAccountStore
	Expenses *PostgresExpenseStore
	Budgets  *PostgresBudgetStore
}

// NewStores builds all stores on db.
func NewStores(db *sql.DB, bcryptCost int, logger *slog.Logger) Stores {
	return Stores{
		Users:    NewPostgresUserStore(db, bcryptCost, logger),
		Accounts: NewPostgresAccountStore(db, logger),
		Expenses: NewPostgresExpenseStore(db, logger),
		Budgets:  NewPostgresBudgetStore(db, logger),
	}
}
