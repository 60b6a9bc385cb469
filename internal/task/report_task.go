package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/ledger-api/internal/domain"
)

// Common errors
var (
	ErrNilAccountLister = errors.New("account lister cannot be nil")
	ErrNilExpenseLister = errors.New("expense lister cannot be nil")
	ErrNilBudgetLister  = errors.New("budget lister cannot be nil")
	ErrNilReportJobs    = errors.New("report job store cannot be nil")
	ErrNilAccountMaker  = errors.New("account creator cannot be nil")
)

// DefaultReportLockTTL bounds how long one worker may hold a report job.
const DefaultReportLockTTL = 5 * time.Minute

// AccountLister loads a user's accounts.
type AccountLister interface {
	ListByUser(ctx context.Context, userID int64) ([]domain.Account, error)
}

// ExpenseLister loads a user's expenses.
type ExpenseLister interface {
	List(ctx context.Context, userID int64, filter domain.ExpenseFilter) ([]domain.Expense, error)
}

// BudgetLister loads a user's budgets.
type BudgetLister interface {
	ListByUser(ctx context.Context, userID int64) ([]domain.Budget, error)
}

// ReportJobWriter persists report job state.
type ReportJobWriter interface {
	Save(ctx context.Context, job *domain.ReportJob) error
}

// ReportGenerator builds spending reports off the request path and records
// the outcome against the report job.
type ReportGenerator struct {
	accounts AccountLister
	expenses ExpenseLister
	budgets  BudgetLister
	jobs     ReportJobWriter
	locker   Locker
	lockTTL  time.Duration
	logger   *slog.Logger
}

// NewReportGenerator wires a generator. locker may be nil, in which case
// duplicate deliveries of one job may run concurrently; the result is the
// same either way.
func NewReportGenerator(
	accounts AccountLister,
	expenses ExpenseLister,
	budgets BudgetLister,
	jobs ReportJobWriter,
	locker Locker,
	logger *slog.Logger,
) (*ReportGenerator, error) {
	switch {
	case accounts == nil:
		return nil, ErrNilAccountLister
	case expenses == nil:
		return nil, ErrNilExpenseLister
	case budgets == nil:
		return nil, ErrNilBudgetLister
	case jobs == nil:
		return nil, ErrNilReportJobs
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportGenerator{
		accounts: accounts,
		expenses: expenses,
		budgets:  budgets,
		jobs:     jobs,
		locker:   locker,
		lockTTL:  DefaultReportLockTTL,
		logger:   logger.With("task_type", JobGenerateReport),
	}, nil
}

// NewGenerateReportJob builds the job that asks a worker to generate a report.
func NewGenerateReportJob(queue string, userID int64, reportID string) (*Job, error) {
	return NewJob(queue, JobGenerateReport, userID, reportID)
}

// Handle decodes a generate_report job and runs Generate.
func (g *ReportGenerator) Handle(ctx context.Context, job *Job) error {
	var (
		userID   int64
		reportID string
	)
	if err := job.Arg(0, &userID); err != nil {
		return Permanent(err)
	}
	if err := job.Arg(1, &reportID); err != nil {
		return Permanent(err)
	}
	if reportID == "" {
		return Permanent(errors.New("report ID cannot be empty"))
	}
	return g.Generate(ctx, userID, reportID)
}

// Generate aggregates the user's accounts, expenses and budgets and overwrites
// the job entry with the result. On failure the entry is overwritten with a
// failed state and the error is returned so the queue can retry; a later
// success replaces the failure.
func (g *ReportGenerator) Generate(ctx context.Context, userID int64, reportID string) error {
	logger := g.logger.With("report_id", reportID, "user_id", userID)

	if g.locker != nil {
		lock, err := g.locker.Obtain(ctx, "lock:report:"+reportID, g.lockTTL)
		if errors.Is(err, ErrLockHeld) {
			logger.Info("report already being generated by another worker")
			return nil
		}
		if err != nil {
			return fmt.Errorf("obtain report lock: %w", err)
		}
		defer func() {
			if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
				logger.Warn("failed to release report lock", "error", err)
			}
		}()
	}

	data, reason, err := g.build(ctx, userID)
	if err != nil {
		logger.Error("report generation failed", "error", err)
		if saveErr := g.jobs.Save(ctx, domain.NewFailedReport(reportID, userID, reason)); saveErr != nil {
			logger.Error("failed to record report failure", "error", saveErr)
		}
		return err
	}

	if err := g.jobs.Save(ctx, domain.NewSucceededReport(reportID, userID, data)); err != nil {
		return fmt.Errorf("save report %s: %w", reportID, err)
	}

	logger.Info("report generated", "accounts", len(data.Accounts))
	return nil
}

// build returns the report, or a client-safe reason alongside the error.
func (g *ReportGenerator) build(ctx context.Context, userID int64) (domain.ReportData, string, error) {
	accounts, err := g.accounts.ListByUser(ctx, userID)
	if err != nil {
		return domain.ReportData{}, "could not load accounts", fmt.Errorf("load accounts: %w", err)
	}
	expenses, err := g.expenses.List(ctx, userID, domain.ExpenseFilter{})
	if err != nil {
		return domain.ReportData{}, "could not load expenses", fmt.Errorf("load expenses: %w", err)
	}
	budgets, err := g.budgets.ListByUser(ctx, userID)
	if err != nil {
		return domain.ReportData{}, "could not load budgets", fmt.Errorf("load budgets: %w", err)
	}
	return domain.BuildReport(accounts, expenses, budgets), "", nil
}
