package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/ledger-api/internal/domain"
)

// ReportJobs persists report job state in the cache under the report prefix.
// Entries are only ever overwritten; expiry is the sole removal path.
type ReportJobs struct {
	store Store
	keys  Keys
	ttl   time.Duration
}

// NewReportJobs creates a job store writing entries with the given ttl.
func NewReportJobs(store Store, keys Keys, ttl time.Duration) *ReportJobs {
	return &ReportJobs{store: store, keys: keys, ttl: ttl}
}

// Save overwrites the job's entry and resets its expiry.
func (r *ReportJobs) Save(ctx context.Context, job *domain.ReportJob) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode report %s: %w", job.ID, err)
	}
	return r.store.Set(ctx, r.keys.Report(job.ID), raw, r.ttl)
}

// CorruptEntryError reports an undecodable report entry. UserID is set when
// the owner could still be read from the entry.
type CorruptEntryError struct {
	ReportID   string
	UserID     int64
	OwnerKnown bool
	Err        error
}

func (e *CorruptEntryError) Error() string {
	return fmt.Sprintf("report %s: %v", e.ReportID, e.Err)
}

func (e *CorruptEntryError) Unwrap() error { return e.Err }

// Get returns the job, ErrMiss when it never existed or has expired, or a
// *CorruptEntryError wrapping domain.ErrCorruptReport when the entry cannot
// be decoded.
func (r *ReportJobs) Get(ctx context.Context, reportID string) (*domain.ReportJob, error) {
	raw, err := r.store.Get(ctx, r.keys.Report(reportID))
	if err != nil {
		return nil, err
	}
	var job domain.ReportJob
	if err := json.Unmarshal(raw, &job); err != nil {
		if !errors.Is(err, domain.ErrCorruptReport) {
			err = fmt.Errorf("%w: %v", domain.ErrCorruptReport, err)
		}
		corrupt := &CorruptEntryError{ReportID: reportID, Err: err}
		var owner struct {
			UserID *int64 `json:"user_id"`
		}
		if json.Unmarshal(raw, &owner) == nil && owner.UserID != nil {
			corrupt.UserID, corrupt.OwnerKnown = *owner.UserID, true
		}
		return nil, corrupt
	}
	if job.ID == "" {
		job.ID = reportID
	}
	return &job, nil
}
