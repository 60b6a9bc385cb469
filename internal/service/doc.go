// Package service contains the ledger's use cases. Services coordinate the
// stores, the cache and the task queue, and they own cache invalidation:
// every write method removes the cache entries its change makes stale, so
// handlers never touch the cache directly.
//
// Services receive every dependency through their constructor. Callers are
// expected to have authorized the acting user against the userID argument
// before calling in; services still check ownership of rows and report jobs.
//
// Errors are sentinels from this package, domain and store, wrapped with %w
// so the API layer can map them with errors.Is.
package service
