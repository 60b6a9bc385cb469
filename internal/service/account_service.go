package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/ledger-api/internal/cache"
	"github.com/phrazzld/ledger-api/internal/domain"
	"github.com/phrazzld/ledger-api/internal/store"
	"github.com/phrazzld/ledger-api/internal/task"
	"github.com/shopspring/decimal"
)

// AccountService manages accounts. Creation is asynchronous: RequestCreate
// validates and enqueues, and the worker calls Create.
type AccountService interface {
	task.AccountCreator

	// RequestCreate checks the input and the name's uniqueness, then queues
	// the creation.
	RequestCreate(ctx context.Context, userID int64, name string, balance decimal.Decimal) error

	// ListAccounts returns the user's accounts, newest first. An empty list
	// is ErrAccountsNotFound.
	ListAccounts(ctx context.Context, userID int64) ([]domain.Account, error)

	GetAccount(ctx context.Context, userID, accountID int64) (*domain.Account, error)

	UpdateAccount(ctx context.Context, userID, accountID int64, name string, balance decimal.Decimal) (*domain.Account, error)

	// DeleteAccount removes the account with its expenses and budgets.
	DeleteAccount(ctx context.Context, userID, accountID int64) error
}

type accountService struct {
	accounts  store.AccountStore
	publisher task.Publisher
	queue     string
	cache     cache.Store
	keys      cache.Keys
	ttl       time.Duration
	logger    *slog.Logger
}

// NewAccountService creates an AccountService. Creation jobs are published
// to queue; cached reads live for ttl.
func NewAccountService(
	accounts store.AccountStore,
	publisher task.Publisher,
	queue string,
	c cache.Store,
	keys cache.Keys,
	ttl time.Duration,
	logger *slog.Logger,
) AccountService {
	if logger == nil {
		logger = slog.Default()
	}
	return &accountService{
		accounts:  accounts,
		publisher: publisher,
		queue:     queue,
		cache:     c,
		keys:      keys,
		ttl:       ttl,
		logger:    logger.With("component", "account_service"),
	}
}

func (s *accountService) RequestCreate(ctx context.Context, userID int64, name string, balance decimal.Decimal) error {
	account, err := domain.NewAccount(userID, name, balance)
	if err != nil {
		return err
	}

	_, err = s.accounts.GetByName(ctx, userID, account.Name)
	switch {
	case err == nil:
		return store.ErrAccountNameExists
	case !errors.Is(err, store.ErrNotFound):
		return wrap("account", "request_create", err)
	}

	job, err := task.NewCreateAccountJob(s.queue, userID, task.CreateAccountArgs{
		Name:    account.Name,
		Balance: account.Balance,
	})
	if err != nil {
		return wrap("account", "request_create", err)
	}
	if err := s.publisher.Publish(ctx, job); err != nil {
		s.logger.ErrorContext(ctx, "failed to enqueue account creation",
			"user_id", userID, "error", err)
		return fmt.Errorf("%w: %v", ErrEnqueueFailed, err)
	}
	s.logger.InfoContext(ctx, "account creation queued", "user_id", userID, "job_id", job.ID)
	return nil
}

// Create implements task.AccountCreator.
func (s *accountService) Create(ctx context.Context, userID int64, name string, balance decimal.Decimal) (*domain.Account, error) {
	account, err := domain.NewAccount(userID, name, balance)
	if err != nil {
		return nil, err
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, wrap("account", "create", err)
	}
	invalidate(ctx, s.cache, s.logger, s.keys.AccountList(userID))
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, userID int64) ([]domain.Account, error) {
	accounts, err := readThrough(ctx, s.cache, s.logger, s.keys.AccountList(userID), s.ttl,
		func(ctx context.Context) ([]domain.Account, error) {
			accounts, err := s.accounts.ListByUser(ctx, userID)
			if err != nil {
				return nil, err
			}
			if len(accounts) == 0 {
				return nil, ErrAccountsNotFound
			}
			return accounts, nil
		})
	if err != nil {
		return nil, wrap("account", "list", err)
	}
	return accounts, nil
}

func (s *accountService) GetAccount(ctx context.Context, userID, accountID int64) (*domain.Account, error) {
	account, err := readThrough(ctx, s.cache, s.logger, s.keys.Account(userID, accountID), s.ttl,
		func(ctx context.Context) (*domain.Account, error) {
			return s.accounts.GetByID(ctx, userID, accountID)
		})
	if err != nil {
		return nil, wrap("account", "get", err)
	}
	return account, nil
}

func (s *accountService) UpdateAccount(
	ctx context.Context,
	userID, accountID int64,
	name string,
	balance decimal.Decimal,
) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, userID, accountID)
	if err != nil {
		return nil, wrap("account", "update", err)
	}
	account.Name = strings.TrimSpace(name)
	account.Balance = balance
	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, wrap("account", "update", err)
	}
	invalidate(ctx, s.cache, s.logger,
		s.keys.AccountList(userID), s.keys.Account(userID, accountID))
	return account, nil
}

func (s *accountService) DeleteAccount(ctx context.Context, userID, accountID int64) error {
	if err := s.accounts.Delete(ctx, userID, accountID); err != nil {
		return wrap("account", "delete", err)
	}
	// Budgets cascade with the account.
	invalidate(ctx, s.cache, s.logger,
		s.keys.AccountList(userID), s.keys.Account(userID, accountID), s.keys.BudgetList(userID))
	s.logger.InfoContext(ctx, "account deleted", "user_id", userID, "account_id", accountID)
	return nil
}
