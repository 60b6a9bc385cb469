// Package main runs the background worker that consumes the report and
// account queues.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/ledger-api/internal/cache"
	"github.com/phrazzld/ledger-api/internal/config"
	"github.com/phrazzld/ledger-api/internal/platform/logger"
	"github.com/phrazzld/ledger-api/internal/platform/postgres"
	"github.com/phrazzld/ledger-api/internal/platform/queue"
	"github.com/phrazzld/ledger-api/internal/platform/redis"
	"github.com/phrazzld/ledger-api/internal/platform/tracing"
	"github.com/phrazzld/ledger-api/internal/service"
	"github.com/phrazzld/ledger-api/internal/task"
	goredis "github.com/redis/go-redis/v9"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("worker exited with error", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Queue.Driver == queue.DriverMemory {
		return errors.New("the memory queue driver only runs inside the server process")
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log = log.With("component", "worker")

	shutdownTracing := tracing.Setup("ledger-worker", log)
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Error("failed to shut down tracer provider", "error", err)
		}
	}()

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer db.Close()
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	redisClient, err := redis.NewClient(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("failed to connect to cache: %w", err)
	}
	defer redisClient.Close()

	broker, err := queue.Open(ctx, cfg.Queue, log)
	if err != nil {
		return fmt.Errorf("failed to open task queue: %w", err)
	}
	defer func() {
		if err := broker.Close(); err != nil {
			log.Error("failed to close task queue", "error", err)
		}
	}()

	runner, err := newRunner(cfg, db, redisClient, broker, log)
	if err != nil {
		return err
	}
	if err := runner.Start(ctx); err != nil {
		return fmt.Errorf("failed to start task runner: %w", err)
	}
	log.Info("Worker started", "queues", cfg.Queue.Queues(), "driver", cfg.Queue.Driver)

	<-ctx.Done()
	log.Info("Shutting down worker...")
	runner.Stop()
	log.Info("Worker shutdown completed")
	return nil
}

// newRunner registers the report and account handlers on a runner that
// consumes every configured queue.
func newRunner(
	cfg *config.Config,
	db *sql.DB,
	redisClient goredis.UniversalClient,
	broker task.Broker,
	log *slog.Logger,
) (*task.Runner, error) {
	stores := postgres.NewStores(db, cfg.Auth.BCryptCost, log)
	cacheStore := redis.NewCache(redisClient)
	keys := cache.NewKeys(cfg.Cache)
	reportJobs := cache.NewReportJobs(cacheStore, keys, cfg.Cache.ReportTTL())

	generator, err := task.NewReportGenerator(stores.Accounts, stores.Expenses, stores.Budgets,
		reportJobs, redis.NewLocker(redisClient), log)
	if err != nil {
		return nil, fmt.Errorf("failed to create report generator: %w", err)
	}

	accounts := service.NewAccountService(stores.Accounts, broker, cfg.Queue.AccountQueue,
		cacheStore, keys, cfg.Cache.ListTTL(), log)
	createAccount, err := task.NewCreateAccountHandler(accounts, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create account handler: %w", err)
	}

	runner := task.NewRunner(broker, task.RunnerConfig{
		Queues:      cfg.Queue.Queues(),
		WorkerCount: cfg.Queue.WorkerCount,
		MaxAttempts: cfg.Queue.MaxAttempts,
	}, log)
	runner.Register(task.JobGenerateReport, generator.Handle)
	runner.Register(task.JobCreateAccount, createAccount)
	return runner, nil
}
