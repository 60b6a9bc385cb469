package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Job names understood by the worker.
const (
	JobGenerateReport = "generate_report"
	JobCreateAccount  = "create_account"
)

// ErrMissingArg is returned by Job.Arg when the position is out of range.
var ErrMissingArg = errors.New("job argument missing")

// Job is a unit of background work as it travels through a broker.
type Job struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Queue      string            `json:"queue"`
	Args       []json.RawMessage `json:"args"`
	Attempt    int               `json:"attempt"`
	EnqueuedAt time.Time         `json:"enqueued_at"`
}

// NewJob encodes args positionally and returns a job ready to publish.
func NewJob(queue, name string, args ...any) (*Job, error) {
	encoded := make([]json.RawMessage, 0, len(args))
	for i, arg := range args {
		raw, err := json.Marshal(arg)
		if err != nil {
			return nil, fmt.Errorf("encode argument %d of %s: %w", i, name, err)
		}
		encoded = append(encoded, raw)
	}
	return &Job{
		ID:         uuid.NewString(),
		Name:       name,
		Queue:      queue,
		Args:       encoded,
		EnqueuedAt: time.Now().UTC(),
	}, nil
}

// Arg decodes the argument at position i into dest.
func (j *Job) Arg(i int, dest any) error {
	if i < 0 || i >= len(j.Args) {
		return fmt.Errorf("%w: %s wants position %d, has %d", ErrMissingArg, j.Name, i, len(j.Args))
	}
	if err := json.Unmarshal(j.Args[i], dest); err != nil {
		return fmt.Errorf("decode argument %d of %s: %w", i, j.Name, err)
	}
	return nil
}

// Encode serializes the job for transports that carry bytes.
func (j *Job) Encode() ([]byte, error) {
	return json.Marshal(j)
}

// DecodeJob parses a job produced by Encode.
func DecodeJob(data []byte) (*Job, error) {
	var j Job
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("decode job: %w", err)
	}
	if j.Name == "" {
		return nil, errors.New("decode job: missing name")
	}
	return &j, nil
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying. The runner dead-letters the job
// on the first failure.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}
