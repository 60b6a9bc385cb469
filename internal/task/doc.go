// Package task manages background job queuing and processing. Jobs are named,
// carry positional JSON arguments and are published to named queues; a Runner
// consumes queues through a Broker, dispatches jobs to registered handlers and
// applies the retry and dead-letter policy.
package task
