package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/phrazzld/ledger-api/internal/task"

// HandlerFunc executes one job. Returning an error triggers the retry policy;
// wrap it with Permanent to skip retries.
type HandlerFunc func(ctx context.Context, job *Job) error

// RunnerConfig holds configuration for the job runner
type RunnerConfig struct {
	// Queues lists the queues this runner consumes.
	Queues []string

	// WorkerCount determines how many jobs run concurrently per queue.
	WorkerCount int

	// MaxAttempts bounds how many times a job is tried before it is
	// dead-lettered. Values below one mean a single attempt.
	MaxAttempts int

	// TracerProvider creates the per-attempt job spans. Nil uses the global
	// provider.
	TracerProvider trace.TracerProvider
}

// DefaultRunnerConfig returns a RunnerConfig with reasonable defaults
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Queues:      []string{"long", "short"},
		WorkerCount: 2,
		MaxAttempts: 3,
	}
}

// Runner consumes queues from a Broker and dispatches jobs to handlers.
type Runner struct {
	broker   Broker
	config   RunnerConfig
	logger   *slog.Logger
	tracer   trace.Tracer
	handlers map[string]HandlerFunc

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRunner creates a Runner. Handlers must be registered before Start.
func NewRunner(broker Broker, config RunnerConfig, logger *slog.Logger) *Runner {
	if config.WorkerCount <= 0 {
		config.WorkerCount = 1
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Runner{
		broker:   broker,
		config:   config,
		logger:   logger.With("component", "task_runner"),
		tracer:   tp.Tracer(tracerName),
		handlers: make(map[string]HandlerFunc),
	}
}

// Register binds a job name to its handler, replacing any previous binding.
func (r *Runner) Register(name string, handler HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = handler
}

// Start begins consuming every configured queue in the background.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		return errors.New("runner already started")
	}
	if len(r.config.Queues) == 0 {
		return errors.New("runner has no queues to consume")
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	for _, queue := range r.config.Queues {
		r.wg.Add(1)
		go func(queue string) {
			defer r.wg.Done()
			r.logger.Info("consuming queue", "queue", queue, "workers", r.config.WorkerCount)
			if err := r.broker.Consume(ctx, queue, r.config.WorkerCount, r.Deliver); err != nil &&
				!errors.Is(err, context.Canceled) && !errors.Is(err, ErrQueueClosed) {
				r.logger.Error("queue consumer stopped", "queue", queue, "error", err)
			}
		}(queue)
	}
	return nil
}

// Stop cancels consumption and waits for in-flight jobs to finish.
func (r *Runner) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	r.wg.Wait()
}

// Deliver runs one job and applies the retry policy. It returns an error only
// when the job could be neither retried nor parked, so the broker redelivers it.
func (r *Runner) Deliver(ctx context.Context, job *Job) error {
	logger := r.logger.With(
		"job_id", job.ID,
		"job_name", job.Name,
		"queue", job.Queue,
		"attempt", job.Attempt+1,
	)

	r.mu.Lock()
	handler, ok := r.handlers[job.Name]
	r.mu.Unlock()
	if !ok {
		logger.Error("no handler registered for job")
		return r.deadLetter(ctx, job, "unknown job name", logger)
	}

	ctx, span := r.tracer.Start(ctx, "task."+job.Name, trace.WithAttributes(
		attribute.String("job.id", job.ID),
		attribute.String("job.queue", job.Queue),
		attribute.Int("job.attempt", job.Attempt+1),
	))
	defer span.End()
	if sc := span.SpanContext(); sc.HasTraceID() {
		logger = logger.With("trace_id", sc.TraceID().String())
	}

	logger.Info("processing job")
	err := r.run(ctx, handler, job)
	if err == nil {
		logger.Info("job completed successfully")
		return nil
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	if IsPermanent(err) || job.Attempt+1 >= r.config.MaxAttempts {
		logger.Error("job failed permanently", "error", err)
		return r.deadLetter(ctx, job, err.Error(), logger)
	}

	logger.Warn("job failed, scheduling retry", "error", err)
	job.Attempt++
	if pubErr := r.broker.Publish(ctx, job); pubErr != nil {
		return fmt.Errorf("retry publish for job %s: %w", job.ID, pubErr)
	}
	return nil
}

func (r *Runner) run(ctx context.Context, handler HandlerFunc, job *Job) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("job panicked: %v", p)
		}
	}()
	return handler(ctx, job)
}

func (r *Runner) deadLetter(ctx context.Context, job *Job, reason string, logger *slog.Logger) error {
	dl, ok := r.broker.(DeadLetterer)
	if !ok {
		logger.Error("job dropped", "reason", reason)
		return nil
	}
	if err := dl.DeadLetter(ctx, job, reason); err != nil {
		logger.Error("failed to dead-letter job", "error", err)
		return err
	}
	logger.Warn("job dead-lettered", "reason", reason)
	return nil
}
