package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/ledger-api/internal/api/shared"
	"github.com/phrazzld/ledger-api/internal/domain"
	"github.com/phrazzld/ledger-api/internal/service"
	"github.com/phrazzld/ledger-api/internal/service/auth"
	"github.com/phrazzld/ledger-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestErrorMapping(t *testing.T) {
	type sample struct {
		Email string `validate:"required,email"`
	}
	validationErr := validator.New().Struct(sample{Email: "nope"})

	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"bad credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, "Incorrect email or password"},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized, "Token expired"},
		{"not owned", service.ErrNotOwned, http.StatusForbidden, "Forbidden"},
		{"empty account list", service.ErrAccountsNotFound, http.StatusNotFound, "Accounts not found"},
		{"wrapped account", &service.ServiceError{Service: "account", Operation: "get", Err: store.ErrAccountNotFound}, http.StatusNotFound, "Account not found"},
		{"report", service.ErrReportNotFound, http.StatusNotFound, "Report not found"},
		{"not ready", service.ErrReportNotReady, http.StatusConflict, "Report is not ready"},
		{"email taken", fmt.Errorf("register: %w", store.ErrEmailExists), http.StatusBadRequest, "Email already in use"},
		{"account name taken", store.ErrAccountNameExists, http.StatusBadRequest, "Account with this name already exists"},
		{"foreign account", store.ErrInvalidAccountRef, http.StatusBadRequest, "Invalid account ID"},
		{"over balance", domain.ErrExpenseExceedsBalance, http.StatusBadRequest, "Expense amount exceeds account balance"},
		{"inverted dates", domain.ErrInvalidDateRange, http.StatusBadRequest, "Start date should be less than end date"},
		{"struct rules", validationErr, http.StatusBadRequest, "Invalid Email: invalid email format"},
		{"body", fmt.Errorf("%w: EOF", shared.ErrInvalidBody), http.StatusBadRequest, "Invalid request format"},
		{"enqueue", service.ErrEnqueueFailed, http.StatusInternalServerError, "Could not schedule the request, please retry"},
		{"unknown", errors.New("connection reset by peer at 10.0.0.3"), http.StatusInternalServerError, "An unexpected error occurred"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.status, MapErrorToStatusCode(tc.err))
			assert.Equal(t, tc.message, GetSafeErrorMessage(tc.err))
		})
	}
}

func TestGetSafeErrorMessageHidesInternals(t *testing.T) {
	err := fmt.Errorf("query failed: %w", errors.New("pq: password authentication failed for user admin"))
	msg := GetSafeErrorMessage(err)
	assert.NotContains(t, msg, "admin")
	assert.NotContains(t, msg, "password")
}
