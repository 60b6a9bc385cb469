// Package queue opens the task broker selected by configuration.
package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/ledger-api/internal/config"
	"github.com/phrazzld/ledger-api/internal/platform/pubsub"
	"github.com/phrazzld/ledger-api/internal/platform/redis"
	"github.com/phrazzld/ledger-api/internal/task"
)

// Supported values of queue.driver.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverPubSub = "pubsub"
)

// Open connects the broker named by cfg.Driver. Closing the returned broker
// also closes the client it owns.
func Open(ctx context.Context, cfg config.QueueConfig, logger *slog.Logger) (task.Broker, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Driver {
	case DriverMemory:
		return task.NewMemoryBroker(cfg.QueueSize, logger), nil

	case DriverRedis:
		client, err := redis.NewClientFromURL(ctx, cfg.BrokerURL)
		if err != nil {
			if client != nil {
				_ = client.Close()
			}
			return nil, fmt.Errorf("open redis broker: %w", err)
		}
		broker := redis.NewBroker(client, logger)
		return &deadLetteringBroker{
			ownedBroker: ownedBroker{Broker: broker, closeClient: client.Close},
			dl:          broker,
		}, nil

	case DriverPubSub:
		client, err := pubsub.NewClient(ctx, cfg.PubSubProjectID)
		if err != nil {
			return nil, fmt.Errorf("open pubsub broker: %w", err)
		}
		return &ownedBroker{
			Broker:      pubsub.NewBroker(client, cfg.PubSubTopicPrefix, logger),
			closeClient: client.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown queue driver %q", cfg.Driver)
}

// ownedBroker closes the underlying client after the broker.
type ownedBroker struct {
	task.Broker
	closeClient func() error
}

func (b *ownedBroker) Close() error {
	return errors.Join(b.Broker.Close(), b.closeClient())
}

type deadLetteringBroker struct {
	ownedBroker
	dl task.DeadLetterer
}

func (b *deadLetteringBroker) DeadLetter(ctx context.Context, job *task.Job, reason string) error {
	return b.dl.DeadLetter(ctx, job, reason)
}
