// Package domain contains the core business entities of the ledger: users,
// accounts, expenses, budgets and report jobs, along with the validation rules
// and calculations that hold regardless of storage or transport.
package domain
