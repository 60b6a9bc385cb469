package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/phrazzld/ledger-api/internal/cache"
)

// MemoryCache implements cache.Store in memory. Expiry is evaluated against
// Now, which tests may replace to move time forward.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry

	// Now is the clock used for expiry checks.
	Now func() time.Time

	// GetErr, SetErr and DeleteErr, when set, are returned by the matching method.
	GetErr    error
	SetErr    error
	DeleteErr error

	// Deleted records every key passed to Delete, in call order.
	Deleted []string
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

var _ cache.Store = (*MemoryCache)(nil)

// NewMemoryCache creates an empty cache using the wall clock.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		Now:     time.Now,
	}
}

// NewMemoryCacheAt creates an empty cache whose clock stands still at now,
// so TTL reports exactly what was stored.
func NewMemoryCacheAt(now time.Time) *MemoryCache {
	c := NewMemoryCache()
	c.Now = func() time.Time { return now }
	return c
}

// Get implements cache.Store.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.GetErr != nil {
		return nil, c.GetErr
	}
	e, ok := c.entries[key]
	if !ok {
		return nil, cache.ErrMiss
	}
	if !e.expiresAt.IsZero() && !c.Now().Before(e.expiresAt) {
		delete(c.entries, key)
		return nil, cache.ErrMiss
	}
	return append([]byte(nil), e.value...), nil
}

// Set implements cache.Store.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.SetErr != nil {
		return c.SetErr
	}
	e := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = c.Now().Add(ttl)
	}
	c.entries[key] = e
	return nil
}

// Delete implements cache.Store.
func (c *MemoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Deleted = append(c.Deleted, keys...)
	if c.DeleteErr != nil {
		return c.DeleteErr
	}
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

// Has reports whether key holds a live entry.
func (c *MemoryCache) Has(key string) bool {
	_, err := c.Get(context.Background(), key)
	return err == nil
}

// TTL returns the remaining lifetime of key, or zero if it has none.
func (c *MemoryCache) TTL(key string) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || e.expiresAt.IsZero() {
		return 0
	}
	return e.expiresAt.Sub(c.Now())
}
