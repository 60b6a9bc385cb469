package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/phrazzld/ledger-api/internal/cache"
	"github.com/phrazzld/ledger-api/internal/domain"
	"github.com/phrazzld/ledger-api/internal/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const listTTL = time.Hour

var fixedNow = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedUser(t *testing.T, l *mocks.MemoryLedger, name string) *domain.User {
	t.Helper()
	u := &domain.User{Username: name, Email: name + "@example.com", Password: "password1"}
	require.NoError(t, l.Users.Create(context.Background(), u))
	return u
}

func seedAccount(t *testing.T, l *mocks.MemoryLedger, userID int64, name, balance string) *domain.Account {
	t.Helper()
	a := &domain.Account{UserID: userID, Name: name, Balance: dec(balance)}
	require.NoError(t, l.Accounts.Create(context.Background(), a))
	return a
}

func keys() cache.Keys { return cache.DefaultKeys }
