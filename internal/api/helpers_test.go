package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/ledger-api/internal/api"
	"github.com/phrazzld/ledger-api/internal/cache"
	"github.com/phrazzld/ledger-api/internal/mocks"
	"github.com/phrazzld/ledger-api/internal/service"
	"github.com/phrazzld/ledger-api/internal/service/auth"
	"github.com/phrazzld/ledger-api/internal/task"
	"github.com/stretchr/testify/require"
)

// queuedPublisher holds published jobs until drain hands them to the runner.
type queuedPublisher struct {
	mu   sync.Mutex
	jobs []*task.Job
}

func (p *queuedPublisher) Publish(_ context.Context, job *task.Job) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jobs = append(p.jobs, job)
	return nil
}

func (p *queuedPublisher) pop() *task.Job {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.jobs) == 0 {
		return nil
	}
	job := p.jobs[0]
	p.jobs = p.jobs[1:]
	return job
}

type testServer struct {
	handler http.Handler
	ledger  *mocks.MemoryLedger
	cache   *mocks.MemoryCache
	queue   *queuedPublisher
	runner  *task.Runner
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s := &testServer{
		ledger: mocks.NewMemoryLedger(),
		cache:  mocks.NewMemoryCache(),
		queue:  &queuedPublisher{},
	}
	keys := cache.DefaultKeys
	reportJobs := cache.NewReportJobs(s.cache, keys, 24*time.Hour)

	users := service.NewUserService(s.ledger.Users, auth.NewBcryptVerifier(), s.cache, keys, logger)
	accounts := service.NewAccountService(s.ledger.Accounts, s.queue, "short", s.cache, keys, time.Hour, logger)
	expenses := service.NewExpenseService(s.ledger.Expenses, logger)
	budgets := service.NewBudgetService(s.ledger.Budgets, s.ledger.Expenses, s.cache, keys, time.Hour, logger)
	reports := service.NewReportService(reportJobs, s.queue, "long", logger)

	gen, err := task.NewReportGenerator(s.ledger.Accounts, s.ledger.Expenses, s.ledger.Budgets, reportJobs, nil, logger)
	require.NoError(t, err)
	createAccount, err := task.NewCreateAccountHandler(accounts, logger)
	require.NoError(t, err)

	s.runner = task.NewRunner(task.NewMemoryBroker(10, logger), task.DefaultRunnerConfig(), logger)
	s.runner.Register(task.JobGenerateReport, gen.Handle)
	s.runner.Register(task.JobCreateAccount, createAccount)

	s.handler = api.NewRouter(api.RouterDeps{
		Logger:     logger,
		JWTService: mocks.NewTokenPerEmailJWTService(),
		Users:      users,
		Accounts:   accounts,
		Expenses:   expenses,
		Budgets:    budgets,
		Reports:    reports,
	})
	return s
}

// drain runs every queued job to completion, including retries.
func (s *testServer) drain(t *testing.T) {
	t.Helper()
	for job := s.queue.pop(); job != nil; job = s.queue.pop() {
		require.NoError(t, s.runner.Deliver(context.Background(), job))
	}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) requestToken(email, password string) *httptest.ResponseRecorder {
	form := url.Values{"email": {email}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

type session struct {
	id    int64
	token string
	base  string
}

// signUp registers a user and logs them in.
func (s *testServer) signUp(t *testing.T, name string) session {
	t.Helper()
	email := name + "@example.com"
	rec := s.do(t, http.MethodPost, "/api/users", "", map[string]string{
		"username": name,
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var user struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, rec, &user)

	rec = s.requestToken(email, "password123")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var tok api.TokenResponse
	decodeBody(t, rec, &tok)

	return session{id: user.ID, token: tok.AccessToken, base: "/api/users/" + strconv.FormatInt(user.ID, 10)}
}

// createAccount schedules an account, runs the worker and returns its ID.
func (s *testServer) createAccount(t *testing.T, sess session, name, balance string) int64 {
	t.Helper()
	rec := s.do(t, http.MethodPost, sess.base+"/accounts", sess.token, map[string]string{
		"account_name": name,
		"balance":      balance,
	})
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	s.drain(t)

	account, err := s.ledger.Accounts.GetByName(context.Background(), sess.id, name)
	require.NoError(t, err)
	return account.ID
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error   string `json:"error"`
		TraceID string `json:"trace_id"`
	}
	decodeBody(t, rec, &body)
	require.NotEmpty(t, body.TraceID)
	return body.Error
}
