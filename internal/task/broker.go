package task

import (
	"context"
	"errors"
	"time"
)

// Common errors returned by brokers.
var (
	ErrQueueClosed = errors.New("task queue is closed")
	ErrQueueFull   = errors.New("task queue is full")
)

// Publisher enqueues jobs onto the queue named by Job.Queue.
type Publisher interface {
	Publish(ctx context.Context, job *Job) error
}

// DeliverFunc processes one delivered job. A non-nil error asks the broker to
// redeliver it.
type DeliverFunc func(ctx context.Context, job *Job) error

// Broker moves jobs between publishers and consumers.
type Broker interface {
	Publisher

	// Consume delivers jobs from queue to deliver using up to concurrency
	// goroutines. It blocks until ctx is cancelled or the broker is closed.
	Consume(ctx context.Context, queue string, concurrency int, deliver DeliverFunc) error

	Close() error
}

// DeadLetterer is implemented by brokers that can park jobs which exhausted
// their attempts.
type DeadLetterer interface {
	DeadLetter(ctx context.Context, job *Job, reason string) error
}

// ErrLockHeld is returned by Locker.Obtain when another holder owns the key.
var ErrLockHeld = errors.New("lock held by another worker")

// Lock is a held distributed lock.
type Lock interface {
	Release(ctx context.Context) error
}

// Locker hands out short-lived exclusive locks keyed by name.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (Lock, error)
}
