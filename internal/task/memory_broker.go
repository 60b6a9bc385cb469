package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// MemoryBroker is an in-process Broker backed by one buffered channel per
// queue. Jobs do not survive a restart.
type MemoryBroker struct {
	mu     sync.RWMutex
	queues map[string]chan *Job
	dead   []*Job
	size   int
	closed bool
	logger *slog.Logger
}

var _ Broker = (*MemoryBroker)(nil)
var _ DeadLetterer = (*MemoryBroker)(nil)

// NewMemoryBroker creates a broker whose queues buffer up to size jobs each.
func NewMemoryBroker(size int, logger *slog.Logger) *MemoryBroker {
	if size <= 0 {
		size = 100
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryBroker{
		queues: make(map[string]chan *Job),
		size:   size,
		logger: logger.With("component", "memory_broker"),
	}
}

// queue returns the channel for name, creating it on first use.
// Callers must hold the write lock.
func (b *MemoryBroker) queue(name string) chan *Job {
	if ch, ok := b.queues[name]; ok {
		return ch
	}
	ch := make(chan *Job, b.size)
	b.queues[name] = ch
	return ch
}

// Publish adds a job to its queue without blocking.
// Returns ErrQueueFull or ErrQueueClosed when the job cannot be accepted.
func (b *MemoryBroker) Publish(ctx context.Context, job *Job) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrQueueClosed
	}

	ch := b.queue(job.Queue)
	select {
	case ch <- job:
		b.logger.Debug("job enqueued",
			"job_id", job.ID,
			"job_name", job.Name,
			"queue", job.Queue,
			"queue_len", len(ch),
			"queue_cap", cap(ch))
		return nil
	default:
		return fmt.Errorf("%w: queue %s capacity %d reached", ErrQueueFull, job.Queue, cap(ch))
	}
}

// Consume implements Broker.Consume.
func (b *MemoryBroker) Consume(ctx context.Context, queue string, concurrency int, deliver DeliverFunc) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrQueueClosed
	}
	ch := b.queue(queue)
	b.mu.Unlock()

	if concurrency <= 0 {
		concurrency = 1
	}

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case job, ok := <-ch:
					if !ok {
						return
					}
					if err := deliver(ctx, job); err != nil {
						b.logger.Warn("delivery failed, requeueing",
							"job_id", job.ID,
							"queue", queue,
							"worker_id", workerID,
							"error", err)
						if pubErr := b.Publish(context.WithoutCancel(ctx), job); pubErr != nil {
							b.logger.Error("failed to requeue job", "job_id", job.ID, "error", pubErr)
						}
					}
				}
			}
		}(i)
	}
	wg.Wait()
	return nil
}

// DeadLetter records a job that will not be retried.
func (b *MemoryBroker) DeadLetter(ctx context.Context, job *Job, reason string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dead = append(b.dead, job)
	return nil
}

// DeadLetters returns the jobs parked so far.
func (b *MemoryBroker) DeadLetters() []*Job {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]*Job, len(b.dead))
	copy(out, b.dead)
	return out
}

// Close stops accepting jobs and ends every Consume loop once its buffer drains.
func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for _, ch := range b.queues {
		close(ch)
	}
	b.logger.Info("memory broker closed")
	return nil
}
