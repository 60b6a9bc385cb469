// Package redis provides go-redis backed implementations of the cache store,
// a list-based task broker and a redislock based job locker.
package redis
