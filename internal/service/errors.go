package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/ledger-api/internal/domain"
	"github.com/phrazzld/ledger-api/internal/store"
)

// Service sentinels. Each wraps the domain or store error the API maps to a
// status, so callers can test either the specific or the general condition.
var (
	// ErrInvalidCredentials is returned by Authenticate for an unknown email
	// or a wrong password. The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = fmt.Errorf("%w: incorrect email or password", domain.ErrUnauthorized)

	// ErrNotOwned indicates a resource is owned by a different user.
	ErrNotOwned = fmt.Errorf("%w: resource is owned by another user", domain.ErrForbidden)

	ErrAccountsNotFound = fmt.Errorf("%w: accounts", store.ErrNotFound)
	ErrExpensesNotFound = fmt.Errorf("%w: expenses", store.ErrNotFound)
	ErrBudgetsNotFound  = fmt.Errorf("%w: budgets", store.ErrNotFound)
	ErrReportNotFound   = fmt.Errorf("%w: report", store.ErrNotFound)

	// ErrBudgetAccountMismatch is returned when progress is asked for a
	// budget through an account it does not belong to.
	ErrBudgetAccountMismatch = fmt.Errorf("%w: budget", store.ErrNotFound)

	// ErrReportNotReady is returned when exporting a report that has not
	// succeeded.
	ErrReportNotReady = errors.New("report is not ready")

	// ErrUnsupportedFormat is returned for an unknown export format.
	ErrUnsupportedFormat = &domain.ValidationError{Field: "format", Message: "format must be csv or xlsx"}

	// ErrEnqueueFailed is returned when a job could not be handed to the queue.
	ErrEnqueueFailed = errors.New("could not enqueue job")
)

// ServiceError adds the failing operation to an unexpected error.
type ServiceError struct {
	Service   string
	Operation string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s service %s failed: %v", e.Service, e.Operation, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// knownErrors pass through wrap untouched; anything else gains context.
var knownErrors = []error{
	domain.ErrValidation,
	domain.ErrForbidden,
	domain.ErrUnauthorized,
	store.ErrNotFound,
	store.ErrDuplicate,
	store.ErrInvalidReference,
	ErrReportNotReady,
}

func wrap(service, operation string, err error) error {
	if err == nil {
		return nil
	}
	for _, known := range knownErrors {
		if errors.Is(err, known) {
			return err
		}
	}
	return &ServiceError{Service: service, Operation: operation, Err: err}
}
