package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/ledger-api/internal/task"
	goredis "github.com/redis/go-redis/v9"
)

// DefaultQueuePrefix namespaces broker lists.
const DefaultQueuePrefix = "queue:"

// Broker implements task.Broker with Redis lists: LPUSH to publish and
// BRPOP to consume, giving FIFO order per queue. Exhausted jobs are pushed
// onto "<queue>:dead".
type Broker struct {
	client      goredis.UniversalClient
	prefix      string
	pollTimeout time.Duration
	logger      *slog.Logger
}

var _ task.Broker = (*Broker)(nil)
var _ task.DeadLetterer = (*Broker)(nil)

// NewBroker creates a list-based broker.
func NewBroker(client goredis.UniversalClient, logger *slog.Logger) *Broker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broker{
		client:      client,
		prefix:      DefaultQueuePrefix,
		pollTimeout: time.Second,
		logger:      logger.With("component", "redis_broker"),
	}
}

func (b *Broker) key(queue string) string { return b.prefix + queue }

// DeadKey returns the list holding dead-lettered jobs for queue.
func (b *Broker) DeadKey(queue string) string { return b.key(queue) + ":dead" }

// Publish implements task.Publisher.
func (b *Broker) Publish(ctx context.Context, job *task.Job) error {
	raw, err := job.Encode()
	if err != nil {
		return err
	}
	if err := b.client.LPush(ctx, b.key(job.Queue), raw).Err(); err != nil {
		return fmt.Errorf("publish %s to %s: %w", job.Name, job.Queue, err)
	}
	return nil
}

// Consume implements task.Broker. Each worker blocks on BRPOP for at most
// the poll timeout so cancellation is noticed promptly.
func (b *Broker) Consume(ctx context.Context, queue string, concurrency int, deliver task.DeliverFunc) error {
	if concurrency <= 0 {
		concurrency = 1
	}

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			b.work(ctx, queue, workerID, deliver)
		}(i)
	}
	wg.Wait()
	return nil
}

func (b *Broker) work(ctx context.Context, queue string, workerID int, deliver task.DeliverFunc) {
	key := b.key(queue)
	for ctx.Err() == nil {
		res, err := b.client.BRPop(ctx, b.pollTimeout, key).Result()
		if err != nil {
			if errors.Is(err, goredis.Nil) || ctx.Err() != nil {
				continue
			}
			b.logger.Error("brpop failed", "queue", queue, "worker_id", workerID, "error", err)
			time.Sleep(b.pollTimeout)
			continue
		}

		// res is [key, value]
		job, err := task.DecodeJob([]byte(res[1]))
		if err != nil {
			b.logger.Error("discarding undecodable job", "queue", queue, "error", err)
			continue
		}

		if err := deliver(ctx, job); err != nil {
			b.logger.Warn("delivery failed, requeueing", "job_id", job.ID, "queue", queue, "error", err)
			if pubErr := b.Publish(context.WithoutCancel(ctx), job); pubErr != nil {
				b.logger.Error("failed to requeue job", "job_id", job.ID, "error", pubErr)
			}
		}
	}
}

// DeadLetter implements task.DeadLetterer.
func (b *Broker) DeadLetter(ctx context.Context, job *task.Job, reason string) error {
	raw, err := job.Encode()
	if err != nil {
		return err
	}
	return b.client.LPush(ctx, b.DeadKey(job.Queue), raw).Err()
}

// Close is a no-op; the client is owned by the caller.
func (b *Broker) Close() error { return nil }
