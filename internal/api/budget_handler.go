package api

import (
	"net/http"

	"github.com/phrazzld/ledger-api/internal/api/shared"
	"github.com/phrazzld/ledger-api/internal/service"
)

// BudgetHandler serves /users/{userID}/budgets and budget progress.
type BudgetHandler struct {
	budgets service.BudgetService
}

// NewBudgetHandler creates a BudgetHandler.
func NewBudgetHandler(budgets service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgets: budgets}
}

// Create handles POST /users/{userID}/budgets.
func (h *BudgetHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req CreateBudgetRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	budget, err := h.budgets.CreateBudget(r.Context(), user.ID, req.AccountID, req.Amount, req.StartDate, req.EndDate)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, budget)
}

// Update handles PUT /users/{userID}/budgets/{budgetID}.
func (h *BudgetHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	budgetID, err := pathInt64(r, "budgetID")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	var req UpdateBudgetRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	budget, err := h.budgets.UpdateBudget(r.Context(), user.ID, budgetID, req.Amount, req.StartDate, req.EndDate)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, budget)
}

// List handles GET /users/{userID}/budgets.
func (h *BudgetHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	budgets, err := h.budgets.ListBudgets(r.Context(), user.ID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, budgets)
}

// Progress handles GET /users/{userID}/accounts/{accountID}/budgets/{budgetID}/progress.
func (h *BudgetHandler) Progress(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	accountID, err := pathInt64(r, "accountID")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	budgetID, err := pathInt64(r, "budgetID")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	progress, err := h.budgets.Progress(r.Context(), user.ID, accountID, budgetID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, progress)
}
