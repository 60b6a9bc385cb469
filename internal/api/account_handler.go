package api

import (
	"net/http"

	"github.com/phrazzld/ledger-api/internal/api/shared"
	"github.com/phrazzld/ledger-api/internal/service"
)

// AccountHandler serves /users/{userID}/accounts.
type AccountHandler struct {
	accounts service.AccountService
}

// NewAccountHandler creates an AccountHandler.
func NewAccountHandler(accounts service.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Create handles POST /users/{userID}/accounts. The account is written by a
// background worker, so the response is 202.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req AccountRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.accounts.RequestCreate(r.Context(), user.ID, req.Name, req.Balance); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, AcceptedResponse{
		Status:  "accepted",
		Message: "Account creation has been scheduled",
	})
}

// List handles GET /users/{userID}/accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	accounts, err := h.accounts.ListAccounts(r.Context(), user.ID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, accounts)
}

// Get handles GET /users/{userID}/accounts/{accountID}.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	accountID, err := pathInt64(r, "accountID")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	account, err := h.accounts.GetAccount(r.Context(), user.ID, accountID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, account)
}

// Update handles PUT /users/{userID}/accounts/{accountID}.
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	accountID, err := pathInt64(r, "accountID")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	var req AccountRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	account, err := h.accounts.UpdateAccount(r.Context(), user.ID, accountID, req.Name, req.Balance)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, account)
}

// Delete handles DELETE /users/{userID}/accounts/{accountID}.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	accountID, err := pathInt64(r, "accountID")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	if err := h.accounts.DeleteAccount(r.Context(), user.ID, accountID); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "Account deleted successfully"})
}
