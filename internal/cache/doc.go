// Package cache defines the key/value store used for read-through caching of
// account and budget lists and for report job state, plus the key layout
// shared by every process that touches the cache.
package cache
