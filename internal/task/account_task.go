package task

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phrazzld/ledger-api/internal/domain"
	"github.com/phrazzld/ledger-api/internal/store"
	"github.com/shopspring/decimal"
)

// AccountCreator persists a new account and owns any cache upkeep that
// goes with it.
type AccountCreator interface {
	Create(ctx context.Context, userID int64, name string, balance decimal.Decimal) (*domain.Account, error)
}

// CreateAccountArgs is the second positional argument of a create_account job.
type CreateAccountArgs struct {
	Name    string          `json:"account_name"`
	Balance decimal.Decimal `json:"balance"`
}

// NewCreateAccountJob builds the job that creates an account in the background.
func NewCreateAccountJob(queue string, userID int64, args CreateAccountArgs) (*Job, error) {
	return NewJob(queue, JobCreateAccount, userID, args)
}

// NewCreateAccountHandler returns the handler for create_account jobs.
// Duplicate names and invalid input are permanent failures.
func NewCreateAccountHandler(creator AccountCreator, logger *slog.Logger) (HandlerFunc, error) {
	if creator == nil {
		return nil, ErrNilAccountMaker
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("task_type", JobCreateAccount)

	return func(ctx context.Context, job *Job) error {
		var (
			userID int64
			args   CreateAccountArgs
		)
		if err := job.Arg(0, &userID); err != nil {
			return Permanent(err)
		}
		if err := job.Arg(1, &args); err != nil {
			return Permanent(err)
		}

		account, err := creator.Create(ctx, userID, args.Name, args.Balance)
		if err != nil {
			if errors.Is(err, store.ErrDuplicate) || errors.Is(err, domain.ErrValidation) ||
				errors.Is(err, store.ErrInvalidReference) {
				return Permanent(err)
			}
			return err
		}

		logger.Info("account created", "user_id", userID, "account_id", account.ID)
		return nil
	}, nil
}
