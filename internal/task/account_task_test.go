package task

import (
	"context"
	"errors"
	"testing"

	"github.com/phrazzld/ledger-api/internal/domain"
	"github.com/phrazzld/ledger-api/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type creatorFunc func(ctx context.Context, userID int64, name string, balance decimal.Decimal) (*domain.Account, error)

func (f creatorFunc) Create(ctx context.Context, userID int64, name string, balance decimal.Decimal) (*domain.Account, error) {
	return f(ctx, userID, name, balance)
}

func TestCreateAccountHandler(t *testing.T) {
	_, err := NewCreateAccountHandler(nil, nil)
	assert.ErrorIs(t, err, ErrNilAccountMaker)

	var got struct {
		userID  int64
		name    string
		balance decimal.Decimal
	}
	handler, err := NewCreateAccountHandler(creatorFunc(func(ctx context.Context, userID int64, name string, balance decimal.Decimal) (*domain.Account, error) {
		got.userID, got.name, got.balance = userID, name, balance
		return &domain.Account{ID: 11, UserID: userID, Name: name, Balance: balance}, nil
	}), discardLogger())
	require.NoError(t, err)

	job, err := NewCreateAccountJob("short", 3, CreateAccountArgs{Name: "Holiday", Balance: decimal.RequireFromString("250.75")})
	require.NoError(t, err)
	require.NoError(t, handler(context.Background(), job))

	assert.Equal(t, int64(3), got.userID)
	assert.Equal(t, "Holiday", got.name)
	assert.True(t, got.balance.Equal(decimal.RequireFromString("250.75")))
}

func TestCreateAccountHandlerClassifiesFailures(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		permanent bool
	}{
		{"duplicate name", store.ErrAccountNameExists, true},
		{"validation", domain.ErrAccountNameLen, true},
		{"user gone", store.ErrInvalidReference, true},
		{"database down", errors.New("dial tcp: refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, err := NewCreateAccountHandler(creatorFunc(func(context.Context, int64, string, decimal.Decimal) (*domain.Account, error) {
				return nil, tt.err
			}), discardLogger())
			require.NoError(t, err)

			job, _ := NewCreateAccountJob("short", 1, CreateAccountArgs{Name: "Main", Balance: decimal.Zero})
			err = handler(context.Background(), job)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, tt.permanent, IsPermanent(err))
		})
	}
}
