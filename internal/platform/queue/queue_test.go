package queue

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/phrazzld/ledger-api/internal/config"
	"github.com/phrazzld/ledger-api/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpenMemory(t *testing.T) {
	b, err := Open(context.Background(), config.QueueConfig{Driver: DriverMemory, QueueSize: 4}, quietLogger())
	require.NoError(t, err)
	defer b.Close()

	assert.IsType(t, &task.MemoryBroker{}, b)
}

func TestOpenRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	b, err := Open(ctx, config.QueueConfig{Driver: DriverRedis, BrokerURL: "redis://" + mr.Addr() + "/0"}, quietLogger())
	require.NoError(t, err)

	_, ok := b.(task.DeadLetterer)
	assert.True(t, ok, "redis broker parks exhausted jobs")

	job, err := task.NewJob("short", task.JobCreateAccount, 1)
	require.NoError(t, err)
	require.NoError(t, b.Publish(ctx, job))
	assert.True(t, mr.Exists("queue:short"))

	require.NoError(t, b.Close())
	assert.Error(t, b.Publish(ctx, job), "client is closed with the broker")
}

func TestOpenErrors(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, config.QueueConfig{Driver: "kafka"}, quietLogger())
	assert.ErrorContains(t, err, `unknown queue driver "kafka"`)

	_, err = Open(ctx, config.QueueConfig{Driver: DriverRedis, BrokerURL: "not a url"}, quietLogger())
	assert.Error(t, err)

	_, err = Open(ctx, config.QueueConfig{Driver: DriverPubSub}, quietLogger())
	assert.Error(t, err, "project id is required")
}
