package task

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/ledger-api/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubAccounts struct {
	accounts []domain.Account
	err      error
}

func (s stubAccounts) ListByUser(ctx context.Context, userID int64) ([]domain.Account, error) {
	return s.accounts, s.err
}

type stubExpenses struct {
	expenses []domain.Expense
	err      error
}

func (s stubExpenses) List(ctx context.Context, userID int64, f domain.ExpenseFilter) ([]domain.Expense, error) {
	return s.expenses, s.err
}

type stubBudgets struct {
	budgets []domain.Budget
	err     error
}

func (s stubBudgets) ListByUser(ctx context.Context, userID int64) ([]domain.Budget, error) {
	return s.budgets, s.err
}

// recordingJobs keeps every saved state so tests can inspect history.
type recordingJobs struct {
	mu     sync.Mutex
	saved  []*domain.ReportJob
	latest map[string]*domain.ReportJob
}

func newRecordingJobs() *recordingJobs {
	return &recordingJobs{latest: make(map[string]*domain.ReportJob)}
}

func (r *recordingJobs) Save(ctx context.Context, job *domain.ReportJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, job)
	r.latest[job.ID] = job
	return nil
}

func (r *recordingJobs) get(id string) *domain.ReportJob {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.latest[id]
}

type fakeLock struct{ released *int }

func (l fakeLock) Release(ctx context.Context) error {
	*l.released++
	return nil
}

type fakeLocker struct {
	held     map[string]bool
	released int
}

func (f *fakeLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (Lock, error) {
	if f.held[key] {
		return nil, ErrLockHeld
	}
	return fakeLock{released: &f.released}, nil
}
