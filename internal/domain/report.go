package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ReportStatus is the stored status tag of a report job.
type ReportStatus string

// Stored status tags. Clients see "running" in place of ReportStatusStarted.
const (
	ReportStatusStarted ReportStatus = "started"
	ReportStatusSuccess ReportStatus = "success"
	ReportStatusError   ReportStatus = "error"
)

// ErrCorruptReport is returned when a stored report entry cannot be decoded.
var ErrCorruptReport = errors.New("corrupt report entry")

// ReportState is the lifecycle state of a report job: exactly one of
// ReportPending, ReportSucceeded or ReportFailed.
type ReportState interface {
	Status() ReportStatus
	reportState()
}

// ReportPending means the job has been accepted but not completed.
type ReportPending struct{}

// ReportSucceeded carries the generated report.
type ReportSucceeded struct {
	Data ReportData
}

// ReportFailed carries the reason generation failed.
type ReportFailed struct {
	Reason string
}

func (ReportPending) Status() ReportStatus   { return ReportStatusStarted }
func (ReportSucceeded) Status() ReportStatus { return ReportStatusSuccess }
func (ReportFailed) Status() ReportStatus    { return ReportStatusError }

func (ReportPending) reportState()   {}
func (ReportSucceeded) reportState() {}
func (ReportFailed) reportState()    {}

// ReportJob is one asynchronous report request and its current state.
type ReportJob struct {
	ID        string
	UserID    int64
	State     ReportState
	UpdatedAt time.Time
}

// NewPendingReport returns a freshly accepted job.
func NewPendingReport(id string, userID int64) *ReportJob {
	return &ReportJob{ID: id, UserID: userID, State: ReportPending{}, UpdatedAt: time.Now().UTC()}
}

// NewSucceededReport returns a completed job carrying data.
func NewSucceededReport(id string, userID int64, data ReportData) *ReportJob {
	return &ReportJob{ID: id, UserID: userID, State: ReportSucceeded{Data: data}, UpdatedAt: time.Now().UTC()}
}

// NewFailedReport returns a job that ended with reason.
func NewFailedReport(id string, userID int64, reason string) *ReportJob {
	return &ReportJob{ID: id, UserID: userID, State: ReportFailed{Reason: reason}, UpdatedAt: time.Now().UTC()}
}

type reportJobJSON struct {
	Status     ReportStatus `json:"status"`
	ReportID   string       `json:"report_id"`
	UserID     int64        `json:"user_id"`
	ReportData *ReportData  `json:"report_data,omitempty"`
	Error      string       `json:"error,omitempty"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// MarshalJSON flattens the state into the stored {status, report_data, error} form.
func (j ReportJob) MarshalJSON() ([]byte, error) {
	out := reportJobJSON{ReportID: j.ID, UserID: j.UserID, UpdatedAt: j.UpdatedAt}
	switch s := j.State.(type) {
	case ReportPending:
		out.Status = s.Status()
	case ReportSucceeded:
		out.Status = s.Status()
		data := s.Data
		out.ReportData = &data
	case ReportFailed:
		out.Status = s.Status()
		out.Error = s.Reason
	default:
		return nil, fmt.Errorf("report %s has no state", j.ID)
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores the state from its stored form. Unknown status tags
// yield ErrCorruptReport.
func (j *ReportJob) UnmarshalJSON(b []byte) error {
	var in reportJobJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptReport, err)
	}

	switch in.Status {
	case ReportStatusStarted:
		j.State = ReportPending{}
	case ReportStatusSuccess:
		if in.ReportData == nil {
			return fmt.Errorf("%w: success without report data", ErrCorruptReport)
		}
		j.State = ReportSucceeded{Data: *in.ReportData}
	case ReportStatusError:
		j.State = ReportFailed{Reason: in.Error}
	default:
		return fmt.Errorf("%w: unknown status %q", ErrCorruptReport, in.Status)
	}

	j.ID = in.ReportID
	j.UserID = in.UserID
	j.UpdatedAt = in.UpdatedAt
	return nil
}

// ReportData is the payload of a completed report.
type ReportData struct {
	Accounts []AccountSummary `json:"accounts"`
}

// AccountSummary totals one account's expenses and budgets.
type AccountSummary struct {
	AccountID int64           `json:"account_id"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	Expenses  decimal.Decimal `json:"expenses"`
	Budgets   decimal.Decimal `json:"budgets"`
}

// BuildReport totals expenses and budgets per account in a single pass over
// each slice. Accounts are emitted in ascending ID order; rows pointing at
// accounts not in the list are ignored.
func BuildReport(accounts []Account, expenses []Expense, budgets []Budget) ReportData {
	ordered := make([]Account, len(accounts))
	copy(ordered, accounts)
	sort.Slice(ordered, func(i, k int) bool { return ordered[i].ID < ordered[k].ID })

	index := make(map[int64]int, len(ordered))
	summaries := make([]AccountSummary, len(ordered))
	for i, a := range ordered {
		index[a.ID] = i
		summaries[i] = AccountSummary{
			AccountID: a.ID,
			Name:      a.Name,
			Balance:   a.Balance,
			Expenses:  decimal.Zero,
			Budgets:   decimal.Zero,
		}
	}

	for _, e := range expenses {
		if i, ok := index[e.AccountID]; ok {
			summaries[i].Expenses = summaries[i].Expenses.Add(e.Amount)
		}
	}
	for _, b := range budgets {
		if i, ok := index[b.AccountID]; ok {
			summaries[i].Budgets = summaries[i].Budgets.Add(b.Amount)
		}
	}

	return ReportData{Accounts: summaries}
}
