package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/ledger-api/internal/api/shared"
	"github.com/phrazzld/ledger-api/internal/platform/logger"
	"github.com/phrazzld/ledger-api/internal/service"
)

// ReportHandler serves /users/{userID}/reports.
type ReportHandler struct {
	reports service.ReportService
}

// NewReportHandler creates a ReportHandler.
func NewReportHandler(reports service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Start handles GET /users/{userID}/reports. Generation happens on the
// worker; the caller polls with the returned id.
func (h *ReportHandler) Start(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	reportID, err := h.reports.StartReport(r.Context(), user.ID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusAccepted, StartReportResponse{ReportID: reportID})
}

// Get handles GET /users/{userID}/reports/{reportID}.
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	job, err := h.reports.GetReport(r.Context(), user.ID, chi.URLParam(r, "reportID"))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, NewReportStatusResponse(job))
}

// Export handles GET /users/{userID}/reports/{reportID}/export?format=csv|xlsx.
// The format defaults to csv.
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	format := service.ExportFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = service.FormatCSV
	}

	file, err := h.reports.ExportReport(r.Context(), user.ID, chi.URLParam(r, "reportID"), format)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Body); err != nil {
		logger.FromContext(r.Context()).Error("failed to write report export", "error", err)
	}
}
