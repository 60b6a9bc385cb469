package api

import (
	"time"

	"github.com/phrazzld/ledger-api/internal/domain"
	"github.com/shopspring/decimal"
)

// RegisterUserRequest is the body of POST /users.
type RegisterUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=20"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=50"`
}

// UpdateUserRequest is the body of PUT /users/{userID}.
type UpdateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=20"`
	Email    string `json:"email"    validate:"required,email"`
}

// TokenResponse is returned by the token endpoint.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// AccountRequest is the body of account create and update.
type AccountRequest struct {
	Name    string          `json:"account_name" validate:"required,min=3,max=50"`
	Balance decimal.Decimal `json:"balance"`
}

// AcceptedResponse acknowledges work handed to a background worker.
type AcceptedResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// MessageResponse carries a plain confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// CreateExpenseRequest is the body of POST /users/{userID}/expenses. A
// missing date means today.
type CreateExpenseRequest struct {
	AccountID int64           `json:"account_id" validate:"required,gt=0"`
	Category  string          `json:"category"   validate:"required,min=3,max=50"`
	Amount    decimal.Decimal `json:"amount"`
	Date      *domain.Date    `json:"date,omitempty"`
	Notes     *string         `json:"notes,omitempty" validate:"omitempty,max=256"`
}

// CreateBudgetRequest is the body of POST /users/{userID}/budgets.
type CreateBudgetRequest struct {
	AccountID int64           `json:"account_id" validate:"required,gt=0"`
	Amount    decimal.Decimal `json:"amount"`
	StartDate domain.Date     `json:"start_date"`
	EndDate   domain.Date     `json:"end_date"`
}

// UpdateBudgetRequest is the body of PUT /users/{userID}/budgets/{budgetID}.
type UpdateBudgetRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	StartDate domain.Date     `json:"start_date"`
	EndDate   domain.Date     `json:"end_date"`
}

// StartReportResponse names the report being generated.
type StartReportResponse struct {
	ReportID string `json:"report_id"`
}

// Report poll statuses.
const (
	ReportRunning = "running"
	ReportSuccess = "success"
	ReportError   = "error"
)

// ReportStatusResponse is the poll view of a report job.
type ReportStatusResponse struct {
	Status     string             `json:"status"`
	ReportID   string             `json:"report_id"`
	ReportData *domain.ReportData `json:"report_data,omitempty"`
	Error      string             `json:"error,omitempty"`
}

// NewReportStatusResponse converts a job state into its poll view.
func NewReportStatusResponse(job *domain.ReportJob) ReportStatusResponse {
	resp := ReportStatusResponse{ReportID: job.ID}
	switch s := job.State.(type) {
	case domain.ReportSucceeded:
		data := s.Data
		resp.Status = ReportSuccess
		resp.ReportData = &data
	case domain.ReportFailed:
		resp.Status = ReportError
		resp.Error = s.Reason
	default:
		resp.Status = ReportRunning
	}
	return resp
}
