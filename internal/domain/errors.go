package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is the root of every validation failure. Specific
	// failures are *ValidationError values that unwrap to it.
	ErrValidation = errors.New("validation failed")

	// ErrForbidden is returned when a caller acts on another user's resources.
	ErrForbidden = errors.New("forbidden")

	// ErrUnauthorized is returned when credentials are missing or wrong.
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError describes a single rule violation on an entity field.
// Its message is safe to show to API clients.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Unwrap makes every ValidationError match ErrValidation.
func (e *ValidationError) Unwrap() error { return ErrValidation }

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Entity validation errors.
var (
	ErrUsernameLength   = newValidationError("username", "username must be between 3 and 20 characters")
	ErrInvalidEmail     = newValidationError("email", "invalid email format")
	ErrPasswordLength   = newValidationError("password", "password must be between 8 and 50 characters")
	ErrEmptyPassword    = newValidationError("password", "password cannot be empty")
	ErrAccountNameLen   = newValidationError("account_name", "account name must be between 3 and 50 characters")
	ErrNegativeBalance  = newValidationError("balance", "balance cannot be negative")
	ErrCategoryLength   = newValidationError("category", "category must be between 3 and 50 characters")
	ErrNonPositiveValue = newValidationError("amount", "amount must be greater than zero")
	ErrNotesTooLong     = newValidationError("notes", "notes must be at most 256 characters")
	ErrMissingAccount   = newValidationError("account_id", "account ID is required")
	ErrMissingDate      = newValidationError("date", "date is required")

	// ErrInvalidDateRange is returned when a budget ends before it starts.
	ErrInvalidDateRange = newValidationError("start_date", "Start date should be less than end date")

	// ErrExpenseExceedsBalance is returned when a new expense would push the
	// account's total spending above its balance.
	ErrExpenseExceedsBalance = newValidationError("amount", "Expense amount exceeds account balance")
)
