package service

import (
	"context"
	"errors"
	"testing"

	"github.com/phrazzld/ledger-api/internal/domain"
	"github.com/phrazzld/ledger-api/internal/mocks"
	"github.com/phrazzld/ledger-api/internal/store"
	"github.com/phrazzld/ledger-api/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAccountService(l *mocks.MemoryLedger, c *mocks.MemoryCache, pub task.Publisher) AccountService {
	return NewAccountService(l.Accounts, pub, "short", c, keys(), listTTL, quietLogger())
}

func TestRequestCreateQueuesJob(t *testing.T) {
	ctx := context.Background()
	l := mocks.NewMemoryLedger()
	u := seedUser(t, l, "ann")

	pub := &mocks.MockPublisher{}
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(j *task.Job) bool {
		return j.Name == task.JobCreateAccount && j.Queue == "short"
	})).Return(nil).Once()

	svc := newAccountService(l, mocks.NewMemoryCache(), pub)
	require.NoError(t, svc.RequestCreate(ctx, u.ID, "  Wallet ", dec("12.50")))
	pub.AssertExpectations(t)

	job := pub.Calls[0].Arguments.Get(1).(*task.Job)
	var uid int64
	var args task.CreateAccountArgs
	require.NoError(t, job.Arg(0, &uid))
	require.NoError(t, job.Arg(1, &args))
	assert.Equal(t, u.ID, uid)
	assert.Equal(t, "Wallet", args.Name)
	assert.True(t, args.Balance.Equal(dec("12.50")))
}

func TestRequestCreateRejects(t *testing.T) {
	ctx := context.Background()
	l := mocks.NewMemoryLedger()
	u := seedUser(t, l, "ann")
	seedAccount(t, l, u.ID, "Wallet", "1")

	pub := &mocks.MockPublisher{}
	svc := newAccountService(l, mocks.NewMemoryCache(), pub)

	err := svc.RequestCreate(ctx, u.ID, "Wallet", dec("5"))
	assert.ErrorIs(t, err, store.ErrAccountNameExists)

	err = svc.RequestCreate(ctx, u.ID, "ab", dec("5"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = svc.RequestCreate(ctx, u.ID, "Savings", dec("-1"))
	assert.ErrorIs(t, err, domain.ErrNegativeBalance)

	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestRequestCreatePublishFailure(t *testing.T) {
	l := mocks.NewMemoryLedger()
	u := seedUser(t, l, "ann")
	pub := &mocks.MockPublisher{}
	pub.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	svc := newAccountService(l, mocks.NewMemoryCache(), pub)
	err := svc.RequestCreate(context.Background(), u.ID, "Wallet", dec("5"))
	assert.ErrorIs(t, err, ErrEnqueueFailed)
}

func TestListAccountsCacheAside(t *testing.T) {
	ctx := context.Background()
	l := mocks.NewMemoryLedger()
	c := mocks.NewMemoryCacheAt(fixedNow)
	u := seedUser(t, l, "ann")
	svc := newAccountService(l, c, &mocks.MockPublisher{})

	_, err := svc.ListAccounts(ctx, u.ID)
	assert.ErrorIs(t, err, ErrAccountsNotFound)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.False(t, c.Has(keys().AccountList(u.ID)))

	a1 := seedAccount(t, l, u.ID, "Wallet", "10")
	a2 := seedAccount(t, l, u.ID, "Savings", "20")

	got, err := svc.ListAccounts(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, a2.ID, got[0].ID, "newest first")
	assert.Equal(t, a1.ID, got[1].ID)
	assert.Equal(t, listTTL, c.TTL(keys().AccountList(u.ID)))

	_, err = svc.ListAccounts(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, l.Accounts.ListCalls, "second read is served from cache")
}

func TestListAccountsFallsBackOnCacheError(t *testing.T) {
	l := mocks.NewMemoryLedger()
	c := mocks.NewMemoryCache()
	c.GetErr = errors.New("redis unavailable")
	u := seedUser(t, l, "ann")
	seedAccount(t, l, u.ID, "Wallet", "10")

	svc := newAccountService(l, c, &mocks.MockPublisher{})
	got, err := svc.ListAccounts(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestAccountWritesInvalidate(t *testing.T) {
	ctx := context.Background()
	l := mocks.NewMemoryLedger()
	c := mocks.NewMemoryCache()
	u := seedUser(t, l, "ann")
	svc := newAccountService(l, c, &mocks.MockPublisher{})

	created, err := svc.Create(ctx, u.ID, "Wallet", dec("10"))
	require.NoError(t, err)
	assert.Contains(t, c.Deleted, keys().AccountList(u.ID))

	_, err = svc.ListAccounts(ctx, u.ID)
	require.NoError(t, err)
	_, err = svc.GetAccount(ctx, u.ID, created.ID)
	require.NoError(t, err)
	require.True(t, c.Has(keys().Account(u.ID, created.ID)))

	updated, err := svc.UpdateAccount(ctx, u.ID, created.ID, "Main wallet", dec("30"))
	require.NoError(t, err)
	assert.Equal(t, "Main wallet", updated.Name)
	assert.False(t, c.Has(keys().AccountList(u.ID)))
	assert.False(t, c.Has(keys().Account(u.ID, created.ID)))

	got, err := svc.GetAccount(ctx, u.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Main wallet", got.Name, "read after write sees the new row")

	require.NoError(t, c.Set(ctx, keys().BudgetList(u.ID), []byte("[]"), 0))
	require.NoError(t, svc.DeleteAccount(ctx, u.ID, created.ID))
	assert.False(t, c.Has(keys().Account(u.ID, created.ID)))
	assert.False(t, c.Has(keys().BudgetList(u.ID)))

	_, err = svc.GetAccount(ctx, u.ID, created.ID)
	assert.ErrorIs(t, err, store.ErrAccountNotFound)
}

func TestAccountOwnership(t *testing.T) {
	ctx := context.Background()
	l := mocks.NewMemoryLedger()
	ann := seedUser(t, l, "ann")
	bob := seedUser(t, l, "bob")
	a := seedAccount(t, l, ann.ID, "Wallet", "10")
	svc := newAccountService(l, mocks.NewMemoryCache(), &mocks.MockPublisher{})

	_, err := svc.GetAccount(ctx, bob.ID, a.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = svc.UpdateAccount(ctx, bob.ID, a.ID, "Stolen", dec("1"))
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteAccount(ctx, bob.ID, a.ID), store.ErrNotFound)
}

func TestCreateDuplicateFromWorker(t *testing.T) {
	ctx := context.Background()
	l := mocks.NewMemoryLedger()
	u := seedUser(t, l, "ann")
	seedAccount(t, l, u.ID, "Wallet", "10")
	svc := newAccountService(l, mocks.NewMemoryCache(), &mocks.MockPublisher{})

	_, err := svc.Create(ctx, u.ID, "Wallet", dec("10"))
	assert.ErrorIs(t, err, store.ErrDuplicate)
}
