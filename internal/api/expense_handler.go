package api

import (
	"net/http"
	"strings"

	"github.com/phrazzld/ledger-api/internal/api/shared"
	"github.com/phrazzld/ledger-api/internal/domain"
	"github.com/phrazzld/ledger-api/internal/service"
)

// ExpenseHandler serves /users/{userID}/expenses.
type ExpenseHandler struct {
	expenses service.ExpenseService
}

// NewExpenseHandler creates an ExpenseHandler.
func NewExpenseHandler(expenses service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses}
}

// Create handles POST /users/{userID}/expenses.
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req CreateExpenseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	in := service.CreateExpenseInput{
		AccountID: req.AccountID,
		Category:  req.Category,
		Amount:    req.Amount,
		Notes:     req.Notes,
	}
	if req.Date != nil {
		in.Date = *req.Date
	}

	expense, err := h.expenses.CreateExpense(r.Context(), user.ID, in)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, expense)
}

// List handles GET /users/{userID}/expenses with optional start_date,
// end_date, account_id and category filters.
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	filter, err := parseExpenseFilter(r)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	expenses, err := h.expenses.ListExpenses(r.Context(), user.ID, filter)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, expenses)
}

func parseExpenseFilter(r *http.Request) (domain.ExpenseFilter, error) {
	var (
		filter domain.ExpenseFilter
		err    error
	)
	if filter.StartDate, err = queryDate(r, "start_date"); err != nil {
		return filter, err
	}
	if filter.EndDate, err = queryDate(r, "end_date"); err != nil {
		return filter, err
	}
	if filter.AccountID, err = queryInt64(r, "account_id"); err != nil {
		return filter, err
	}
	filter.Category = strings.TrimSpace(r.URL.Query().Get("category"))
	return filter, nil
}
