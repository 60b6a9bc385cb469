package task

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBrokerPublishAndConsume(t *testing.T) {
	broker := NewMemoryBroker(4, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu   sync.Mutex
		seen []string
	)
	done := make(chan struct{})
	go func() {
		_ = broker.Consume(ctx, "short", 2, func(ctx context.Context, job *Job) error {
			mu.Lock()
			seen = append(seen, job.ID)
			if len(seen) == 3 {
				close(done)
			}
			mu.Unlock()
			return nil
		})
	}()

	for i := 0; i < 3; i++ {
		job, err := NewJob("short", "noop")
		require.NoError(t, err)
		require.NoError(t, broker.Publish(ctx, job))
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("jobs were not consumed")
	}
	mu.Lock()
	assert.Len(t, seen, 3)
	mu.Unlock()
}

func TestMemoryBrokerQueueFullAndClosed(t *testing.T) {
	broker := NewMemoryBroker(1, discardLogger())
	ctx := context.Background()

	first, _ := NewJob("long", "noop")
	second, _ := NewJob("long", "noop")
	require.NoError(t, broker.Publish(ctx, first))
	assert.ErrorIs(t, broker.Publish(ctx, second), ErrQueueFull)

	other, _ := NewJob("short", "noop")
	assert.NoError(t, broker.Publish(ctx, other), "queues are independent")

	require.NoError(t, broker.Close())
	require.NoError(t, broker.Close(), "close is idempotent")
	assert.ErrorIs(t, broker.Publish(ctx, other), ErrQueueClosed)
	assert.ErrorIs(t, broker.Consume(ctx, "long", 1, nil), ErrQueueClosed)
}

func TestMemoryBrokerDeadLetters(t *testing.T) {
	broker := NewMemoryBroker(1, discardLogger())
	job, _ := NewJob("long", "noop")
	require.NoError(t, broker.DeadLetter(context.Background(), job, "boom"))
	assert.Equal(t, []*Job{job}, broker.DeadLetters())
}
