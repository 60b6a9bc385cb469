package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/ledger-api/internal/cache"
	"github.com/phrazzld/ledger-api/internal/domain"
	"github.com/phrazzld/ledger-api/internal/task"
)

// Reasons recorded on failed report jobs. They are shown to clients.
const (
	ReasonEnqueueFailed = "could not enqueue report"
	ReasonCorruptEntry  = "corrupt report entry"
)

// ReportJobStore persists report job state.
type ReportJobStore interface {
	Save(ctx context.Context, job *domain.ReportJob) error
	Get(ctx context.Context, reportID string) (*domain.ReportJob, error)
}

// ReportService starts report generation and serves its results.
type ReportService interface {
	// StartReport records a pending job and queues its generation. It
	// returns the new report id.
	StartReport(ctx context.Context, userID int64) (string, error)

	// GetReport returns the job's current state. A job that never existed or
	// has expired is ErrReportNotFound; another user's job is ErrNotOwned.
	GetReport(ctx context.Context, userID int64, reportID string) (*domain.ReportJob, error)

	// ExportReport renders a succeeded report as csv or xlsx.
	ExportReport(ctx context.Context, userID int64, reportID string, format ExportFormat) (*ReportExport, error)
}

type reportService struct {
	jobs      ReportJobStore
	publisher task.Publisher
	queue     string
	logger    *slog.Logger
}

// NewReportService creates a ReportService publishing generation jobs to queue.
func NewReportService(jobs ReportJobStore, publisher task.Publisher, queue string, logger *slog.Logger) ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &reportService{
		jobs:      jobs,
		publisher: publisher,
		queue:     queue,
		logger:    logger.With("component", "report_service"),
	}
}

func (s *reportService) StartReport(ctx context.Context, userID int64) (string, error) {
	reportID := uuid.NewString()
	log := s.logger.With("user_id", userID, "report_id", reportID)

	if err := s.jobs.Save(ctx, domain.NewPendingReport(reportID, userID)); err != nil {
		log.ErrorContext(ctx, "failed to record pending report", "error", err)
		return "", wrap("report", "start", err)
	}

	job, err := task.NewGenerateReportJob(s.queue, userID, reportID)
	if err == nil {
		err = s.publisher.Publish(ctx, job)
	}
	if err != nil {
		log.ErrorContext(ctx, "failed to enqueue report", "error", err)
		if saveErr := s.jobs.Save(ctx, domain.NewFailedReport(reportID, userID, ReasonEnqueueFailed)); saveErr != nil {
			log.ErrorContext(ctx, "failed to record enqueue failure", "error", saveErr)
		}
		return "", fmt.Errorf("%w: %v", ErrEnqueueFailed, err)
	}

	log.InfoContext(ctx, "report queued", "job_id", job.ID)
	return reportID, nil
}

func (s *reportService) GetReport(ctx context.Context, userID int64, reportID string) (*domain.ReportJob, error) {
	job, err := s.jobs.Get(ctx, reportID)
	var corrupt *cache.CorruptEntryError
	switch {
	case errors.Is(err, cache.ErrMiss):
		return nil, ErrReportNotFound
	case errors.As(err, &corrupt):
		s.logger.WarnContext(ctx, "corrupt report entry", "report_id", reportID, "error", err)
		if corrupt.OwnerKnown && corrupt.UserID != userID {
			return nil, ErrNotOwned
		}
		// Ownership is only enforceable when user_id survived; the reply
		// carries no report data either way.
		return domain.NewFailedReport(reportID, userID, ReasonCorruptEntry), nil
	case err != nil:
		return nil, wrap("report", "get", err)
	}

	if job.UserID != userID {
		s.logger.WarnContext(ctx, "report requested by non-owner",
			"report_id", reportID, "user_id", userID)
		return nil, ErrNotOwned
	}
	return job, nil
}

func (s *reportService) ExportReport(
	ctx context.Context,
	userID int64,
	reportID string,
	format ExportFormat,
) (*ReportExport, error) {
	if !format.Valid() {
		return nil, ErrUnsupportedFormat
	}
	job, err := s.GetReport(ctx, userID, reportID)
	if err != nil {
		return nil, err
	}
	done, ok := job.State.(domain.ReportSucceeded)
	if !ok {
		return nil, ErrReportNotReady
	}

	out, err := renderReport(reportID, done.Data, format)
	if err != nil {
		return nil, wrap("report", "export", err)
	}
	return out, nil
}
