package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/ledger-api/internal/cache"
	"github.com/phrazzld/ledger-api/internal/config"
	"github.com/phrazzld/ledger-api/internal/platform/postgres"
	"github.com/phrazzld/ledger-api/internal/platform/queue"
	"github.com/phrazzld/ledger-api/internal/platform/redis"
	"github.com/phrazzld/ledger-api/internal/service"
	"github.com/phrazzld/ledger-api/internal/service/auth"
	"github.com/phrazzld/ledger-api/internal/task"
	goredis "github.com/redis/go-redis/v9"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	redis  *goredis.Client
	broker task.Broker

	// runner is only set for the memory queue driver, whose jobs cannot
	// leave this process.
	runner *task.Runner

	jwtService auth.JWTService
	users      service.UserService
	accounts   service.AccountService
	expenses   service.ExpenseService
	budgets    service.BudgetService
	reports    service.ReportService
}

// newApplication creates a new application instance with all dependencies
// initialized. On failure everything acquired so far, db included, is released.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"algorithm", cfg.Auth.Algorithm,
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.redis, err = redis.NewClient(ctx, cfg.Cache)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to connect to cache: %w", err)
	}

	app.broker, err = queue.Open(ctx, cfg.Queue, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to open task queue: %w", err)
	}

	stores := postgres.NewStores(db, cfg.Auth.BCryptCost, logger)
	cacheStore := redis.NewCache(app.redis)
	keys := cache.NewKeys(cfg.Cache)
	reportJobs := cache.NewReportJobs(cacheStore, keys, cfg.Cache.ReportTTL())

	app.users = service.NewUserService(stores.Users, auth.NewBcryptVerifier(), cacheStore, keys, logger)
	app.accounts = service.NewAccountService(stores.Accounts, app.broker, cfg.Queue.AccountQueue,
		cacheStore, keys, cfg.Cache.ListTTL(), logger)
	app.expenses = service.NewExpenseService(stores.Expenses, logger)
	app.budgets = service.NewBudgetService(stores.Budgets, stores.Expenses, cacheStore, keys, cfg.Cache.ListTTL(), logger)
	app.reports = service.NewReportService(reportJobs, app.broker, cfg.Queue.ReportQueue, logger)

	if cfg.Queue.Driver == queue.DriverMemory {
		app.runner, err = startInProcessRunner(ctx, app, stores, reportJobs)
		if err != nil {
			app.cleanup()
			return nil, fmt.Errorf("failed to start task runner: %w", err)
		}
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// startInProcessRunner consumes the memory broker from this process.
func startInProcessRunner(
	ctx context.Context,
	app *application,
	stores postgres.Stores,
	reportJobs *cache.ReportJobs,
) (*task.Runner, error) {
	generator, err := task.NewReportGenerator(stores.Accounts, stores.Expenses, stores.Budgets,
		reportJobs, redis.NewLocker(app.redis), app.logger)
	if err != nil {
		return nil, err
	}
	createAccount, err := task.NewCreateAccountHandler(app.accounts, app.logger)
	if err != nil {
		return nil, err
	}

	runner := task.NewRunner(app.broker, task.RunnerConfig{
		Queues:      app.config.Queue.Queues(),
		WorkerCount: app.config.Queue.WorkerCount,
		MaxAttempts: app.config.Queue.MaxAttempts,
	}, app.logger)
	runner.Register(task.JobGenerateReport, generator.Handle)
	runner.Register(task.JobCreateAccount, createAccount)

	// The runner outlives request contexts; it is stopped in cleanup.
	if err := runner.Start(context.WithoutCancel(ctx)); err != nil {
		return nil, err
	}
	return runner, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.runner != nil {
		app.runner.Stop()
	}

	var errs []error
	if app.broker != nil {
		errs = append(errs, app.broker.Close())
	}
	if app.redis != nil {
		errs = append(errs, app.redis.Close())
	}
	if app.db != nil {
		errs = append(errs, app.db.Close())
	}
	if err := errors.Join(errs...); err != nil {
		app.logger.Error("Error releasing resources", "error", err)
	}

	app.logger.Info("Application shutdown completed")
}
