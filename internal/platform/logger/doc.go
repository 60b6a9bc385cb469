// Package logger provides structured logging functionality for the application
// using Go's standard library log/slog package. Loggers are carried through
// context.Context so request- and job-scoped attributes follow the call chain.
package logger
