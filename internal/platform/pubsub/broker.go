// Package pubsub implements the task broker on Google Cloud Pub/Sub. Each
// queue maps to one topic and one pull subscription shared by all workers.
package pubsub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	gpubsub "cloud.google.com/go/pubsub"
	"github.com/phrazzld/ledger-api/internal/task"
	"google.golang.org/api/option"
)

// AckDeadline bounds how long a worker may hold a message before Pub/Sub
// redelivers it.
const AckDeadline = 20 * time.Second

// NewClient connects to Pub/Sub for projectID.
func NewClient(ctx context.Context, projectID string, opts ...option.ClientOption) (*gpubsub.Client, error) {
	if projectID == "" {
		return nil, errors.New("pubsub project id is required")
	}
	client, err := gpubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}
	return client, nil
}

// Broker implements task.Broker. Retries are driven by the task runner, so
// every delivered message is acked unless the deliver func itself fails.
type Broker struct {
	client *gpubsub.Client
	prefix string
	logger *slog.Logger

	mu     sync.Mutex
	topics map[string]*gpubsub.Topic
	closed bool
}

var _ task.Broker = (*Broker)(nil)

// NewBroker creates a broker whose topics are named topicPrefix+queue. The
// caller keeps ownership of client.
func NewBroker(client *gpubsub.Client, topicPrefix string, logger *slog.Logger) *Broker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broker{
		client: client,
		prefix: topicPrefix,
		logger: logger.With("component", "pubsub_broker"),
		topics: make(map[string]*gpubsub.Topic),
	}
}

// TopicID returns the topic carrying queue.
func (b *Broker) TopicID(queue string) string { return b.prefix + queue }

// SubscriptionID returns the worker subscription for queue.
func (b *Broker) SubscriptionID(queue string) string { return b.TopicID(queue) + "-worker" }

// ensureQueue creates the topic and its worker subscription if missing. The
// subscription is created on publish as well so no message is published to a
// topic nobody listens on.
func (b *Broker) ensureQueue(ctx context.Context, queue string) (*gpubsub.Topic, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, task.ErrQueueClosed
	}
	if topic, ok := b.topics[queue]; ok {
		return topic, nil
	}

	topic := b.client.Topic(b.TopicID(queue))
	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("check topic %s: %w", topic.ID(), err)
	}
	if !exists {
		topic, err = b.client.CreateTopic(ctx, b.TopicID(queue))
		if err != nil {
			return nil, fmt.Errorf("create topic %s: %w", b.TopicID(queue), err)
		}
		b.logger.InfoContext(ctx, "created topic", "topic", topic.ID())
	}

	sub := b.client.Subscription(b.SubscriptionID(queue))
	exists, err = sub.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("check subscription %s: %w", sub.ID(), err)
	}
	if !exists {
		_, err = b.client.CreateSubscription(ctx, sub.ID(), gpubsub.SubscriptionConfig{
			Topic:       topic,
			AckDeadline: AckDeadline,
		})
		if err != nil {
			return nil, fmt.Errorf("create subscription %s: %w", sub.ID(), err)
		}
		b.logger.InfoContext(ctx, "created subscription", "subscription", sub.ID())
	}

	b.topics[queue] = topic
	return topic, nil
}

// Publish implements task.Publisher and waits for the server ack.
func (b *Broker) Publish(ctx context.Context, job *task.Job) error {
	topic, err := b.ensureQueue(ctx, job.Queue)
	if err != nil {
		return err
	}
	raw, err := job.Encode()
	if err != nil {
		return err
	}

	result := topic.Publish(ctx, &gpubsub.Message{
		Data:       raw,
		Attributes: map[string]string{"name": job.Name, "job_id": job.ID},
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publish %s to %s: %w", job.Name, topic.ID(), err)
	}
	return nil
}

// Consume implements task.Broker. Receive manages its own goroutines, so
// concurrency maps onto MaxOutstandingMessages.
func (b *Broker) Consume(ctx context.Context, queue string, concurrency int, deliver task.DeliverFunc) error {
	if concurrency <= 0 {
		concurrency = 1
	}
	if _, err := b.ensureQueue(ctx, queue); err != nil {
		return err
	}

	sub := b.client.Subscription(b.SubscriptionID(queue))
	sub.ReceiveSettings.MaxOutstandingMessages = concurrency
	sub.ReceiveSettings.NumGoroutines = 1

	b.logger.InfoContext(ctx, "consuming", "subscription", sub.ID(), "concurrency", concurrency)

	err := sub.Receive(ctx, func(ctx context.Context, msg *gpubsub.Message) {
		job, err := task.DecodeJob(msg.Data)
		if err != nil {
			// Unparseable payloads never succeed; drop them.
			b.logger.ErrorContext(ctx, "discarding malformed message",
				"message_id", msg.ID, "error", err)
			msg.Ack()
			return
		}
		if err := deliver(ctx, job); err != nil {
			b.logger.WarnContext(ctx, "delivery failed, nacking",
				"job_id", job.ID, "job_name", job.Name, "error", err)
			msg.Nack()
			return
		}
		msg.Ack()
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("receive from %s: %w", sub.ID(), err)
	}
	return nil
}

// Close flushes pending publishes. Further publishes fail with
// task.ErrQueueClosed.
func (b *Broker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for _, topic := range b.topics {
		topic.Stop()
	}
	return nil
}
