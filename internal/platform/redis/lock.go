package redis

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/phrazzld/ledger-api/internal/task"
	goredis "github.com/redis/go-redis/v9"
)

// Locker implements task.Locker with redislock.
type Locker struct {
	client *redislock.Client
}

var _ task.Locker = (*Locker)(nil)

// NewLocker creates a Locker on client.
func NewLocker(client goredis.UniversalClient) *Locker {
	return &Locker{client: redislock.New(client)}
}

// Obtain tries once to take key for ttl. It returns task.ErrLockHeld if
// someone else holds it.
func (l *Locker) Obtain(ctx context.Context, key string, ttl time.Duration) (task.Lock, error) {
	lock, err := l.client.Obtain(ctx, key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, task.ErrLockHeld
	}
	if err != nil {
		return nil, err
	}
	return lock, nil
}
