package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/phrazzld/ledger-api/internal/domain"
	"github.com/phrazzld/ledger-api/internal/service/auth"
	"github.com/phrazzld/ledger-api/internal/store"
	"github.com/shopspring/decimal"
)

// MemoryLedger holds the rows shared by the in-memory stores so ownership,
// uniqueness and cascade rules behave like the Postgres schema.
type MemoryLedger struct {
	mu       sync.Mutex
	nextID   int64
	users    map[int64]domain.User
	accounts map[int64]domain.Account
	expenses map[int64]domain.Expense
	budgets  map[int64]domain.Budget

	Users    *MemoryUserStore
	Accounts *MemoryAccountStore
	Expenses *MemoryExpenseStore
	Budgets  *MemoryBudgetStore
}

// NewMemoryLedger creates an empty ledger with all four stores attached.
func NewMemoryLedger() *MemoryLedger {
	l := &MemoryLedger{
		users:    make(map[int64]domain.User),
		accounts: make(map[int64]domain.Account),
		expenses: make(map[int64]domain.Expense),
		budgets:  make(map[int64]domain.Budget),
	}
	l.Users = &MemoryUserStore{l: l}
	l.Accounts = &MemoryAccountStore{l: l}
	l.Expenses = &MemoryExpenseStore{l: l}
	l.Budgets = &MemoryBudgetStore{l: l}
	return l
}

func (l *MemoryLedger) id() int64 {
	l.nextID++
	return l.nextID
}

// MemoryUserStore implements store.UserStore. Passwords are hashed with
// the minimum bcrypt cost.
type MemoryUserStore struct {
	l *MemoryLedger

	// GetByEmailErr, when set, is returned by GetByEmail.
	GetByEmailErr error
}

var _ store.UserStore = (*MemoryUserStore)(nil)

// Create implements store.UserStore.
func (s *MemoryUserStore) Create(_ context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return err
	}
	hash, err := auth.HashPassword(user.Password, 4)
	if err != nil {
		return err
	}

	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	for _, u := range s.l.users {
		if u.Email == user.Email {
			return store.ErrEmailExists
		}
		if u.Username == user.Username {
			return store.ErrUsernameExists
		}
	}
	user.ID = s.l.id()
	user.HashedPassword = hash
	user.Password = ""
	s.l.users[user.ID] = *user
	return nil
}

// GetByID implements store.UserStore.
func (s *MemoryUserStore) GetByID(_ context.Context, id int64) (*domain.User, error) {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	u, ok := s.l.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &u, nil
}

// GetByEmail implements store.UserStore.
func (s *MemoryUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if s.GetByEmailErr != nil {
		return nil, s.GetByEmailErr
	}
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	for _, u := range s.l.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// Update implements store.UserStore.
func (s *MemoryUserStore) Update(_ context.Context, user *domain.User) error {
	if err := domain.ValidateUsername(user.Username); err != nil {
		return err
	}
	if err := domain.ValidateEmail(user.Email); err != nil {
		return err
	}

	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	existing, ok := s.l.users[user.ID]
	if !ok {
		return store.ErrUserNotFound
	}
	for id, u := range s.l.users {
		if id == user.ID {
			continue
		}
		if u.Email == user.Email {
			return store.ErrEmailExists
		}
		if u.Username == user.Username {
			return store.ErrUsernameExists
		}
	}
	existing.Username = user.Username
	existing.Email = user.Email
	existing.UpdatedAt = time.Now().UTC()
	s.l.users[user.ID] = existing
	user.UpdatedAt = existing.UpdatedAt
	return nil
}

// Delete implements store.UserStore and cascades to the user's rows.
func (s *MemoryUserStore) Delete(_ context.Context, id int64) error {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	if _, ok := s.l.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(s.l.users, id)
	for aid, a := range s.l.accounts {
		if a.UserID == id {
			s.l.deleteAccountLocked(aid)
		}
	}
	return nil
}

// MemoryAccountStore implements store.AccountStore.
type MemoryAccountStore struct {
	l *MemoryLedger

	// ListErr, when set, is returned by ListByUser.
	ListErr error
	// ListCalls counts ListByUser invocations.
	ListCalls int
}

var _ store.AccountStore = (*MemoryAccountStore)(nil)

// Create implements store.AccountStore.
func (s *MemoryAccountStore) Create(_ context.Context, account *domain.Account) error {
	if err := account.Validate(); err != nil {
		return err
	}
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	if _, ok := s.l.users[account.UserID]; !ok {
		return store.ErrInvalidReference
	}
	for _, a := range s.l.accounts {
		if a.UserID == account.UserID && a.Name == account.Name {
			return store.ErrAccountNameExists
		}
	}
	account.ID = s.l.id()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	s.l.accounts[account.ID] = *account
	return nil
}

// GetByID implements store.AccountStore.
func (s *MemoryAccountStore) GetByID(_ context.Context, userID, accountID int64) (*domain.Account, error) {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	a, ok := s.l.accounts[accountID]
	if !ok || a.UserID != userID {
		return nil, store.ErrAccountNotFound
	}
	return &a, nil
}

// GetByName implements store.AccountStore.
func (s *MemoryAccountStore) GetByName(_ context.Context, userID int64, name string) (*domain.Account, error) {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	for _, a := range s.l.accounts {
		if a.UserID == userID && a.Name == name {
			return &a, nil
		}
	}
	return nil, store.ErrAccountNotFound
}

// ListByUser implements store.AccountStore, newest first.
func (s *MemoryAccountStore) ListByUser(_ context.Context, userID int64) ([]domain.Account, error) {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	s.ListCalls++
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	out := []domain.Account{}
	for _, a := range s.l.accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// Update implements store.AccountStore.
func (s *MemoryAccountStore) Update(_ context.Context, account *domain.Account) error {
	if err := account.Validate(); err != nil {
		return err
	}
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	existing, ok := s.l.accounts[account.ID]
	if !ok || existing.UserID != account.UserID {
		return store.ErrAccountNotFound
	}
	for id, a := range s.l.accounts {
		if id != account.ID && a.UserID == account.UserID && a.Name == account.Name {
			return store.ErrAccountNameExists
		}
	}
	now := time.Now().UTC()
	account.UpdatedAt = &now
	account.CreatedAt = existing.CreatedAt
	s.l.accounts[account.ID] = *account
	return nil
}

// Delete implements store.AccountStore and cascades to expenses and budgets.
func (s *MemoryAccountStore) Delete(_ context.Context, userID, accountID int64) error {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	a, ok := s.l.accounts[accountID]
	if !ok || a.UserID != userID {
		return store.ErrAccountNotFound
	}
	s.l.deleteAccountLocked(accountID)
	return nil
}

func (l *MemoryLedger) deleteAccountLocked(accountID int64) {
	delete(l.accounts, accountID)
	for id, e := range l.expenses {
		if e.AccountID == accountID {
			delete(l.expenses, id)
		}
	}
	for id, b := range l.budgets {
		if b.AccountID == accountID {
			delete(l.budgets, id)
		}
	}
}

// MemoryExpenseStore implements store.ExpenseStore.
type MemoryExpenseStore struct {
	l *MemoryLedger

	// ListErr, when set, is returned by List.
	ListErr error
}

var _ store.ExpenseStore = (*MemoryExpenseStore)(nil)

// CreateWithinBalance implements store.ExpenseStore.
func (s *MemoryExpenseStore) CreateWithinBalance(_ context.Context, expense *domain.Expense) error {
	if err := expense.Validate(); err != nil {
		return err
	}
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	a, ok := s.l.accounts[expense.AccountID]
	if !ok || a.UserID != expense.UserID {
		return store.ErrInvalidAccountRef
	}
	spent := decimal.Zero
	for _, e := range s.l.expenses {
		if e.AccountID == expense.AccountID {
			spent = spent.Add(e.Amount)
		}
	}
	if err := domain.CheckWithinBalance(a.Balance, spent, expense.Amount); err != nil {
		return err
	}
	expense.ID = s.l.id()
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = time.Now().UTC()
	}
	s.l.expenses[expense.ID] = *expense
	return nil
}

// List implements store.ExpenseStore ordered by date then id.
func (s *MemoryExpenseStore) List(_ context.Context, userID int64, f domain.ExpenseFilter) ([]domain.Expense, error) {
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	out := []domain.Expense{}
	for _, e := range s.l.expenses {
		switch {
		case e.UserID != userID:
		case f.StartDate != nil && e.Date.Before(*f.StartDate):
		case f.EndDate != nil && e.Date.After(*f.EndDate):
		case f.AccountID != nil && e.AccountID != *f.AccountID:
		case f.Category != "" && e.Category != f.Category:
		default:
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// SumForAccount implements store.ExpenseStore.
func (s *MemoryExpenseStore) SumForAccount(_ context.Context, userID, accountID int64, start, end domain.Date) (decimal.Decimal, error) {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	sum := decimal.Zero
	for _, e := range s.l.expenses {
		if e.UserID == userID && e.AccountID == accountID && !e.Date.Before(start) && !e.Date.After(end) {
			sum = sum.Add(e.Amount)
		}
	}
	return sum, nil
}

// MemoryBudgetStore implements store.BudgetStore.
type MemoryBudgetStore struct {
	l *MemoryLedger

	// ListCalls counts ListByUser invocations.
	ListCalls int
}

var _ store.BudgetStore = (*MemoryBudgetStore)(nil)

// Create implements store.BudgetStore.
func (s *MemoryBudgetStore) Create(_ context.Context, budget *domain.Budget) error {
	if err := budget.Validate(); err != nil {
		return err
	}
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	a, ok := s.l.accounts[budget.AccountID]
	if !ok || a.UserID != budget.UserID {
		return store.ErrInvalidAccountRef
	}
	budget.ID = s.l.id()
	if budget.CreatedAt.IsZero() {
		budget.CreatedAt = time.Now().UTC()
	}
	s.l.budgets[budget.ID] = *budget
	return nil
}

// GetByID implements store.BudgetStore.
func (s *MemoryBudgetStore) GetByID(_ context.Context, userID, budgetID int64) (*domain.Budget, error) {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	b, ok := s.l.budgets[budgetID]
	if !ok || b.UserID != userID {
		return nil, store.ErrBudgetNotFound
	}
	return &b, nil
}

// ListByUser implements store.BudgetStore.
func (s *MemoryBudgetStore) ListByUser(_ context.Context, userID int64) ([]domain.Budget, error) {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	s.ListCalls++
	out := []domain.Budget{}
	for _, b := range s.l.budgets {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Update implements store.BudgetStore.
func (s *MemoryBudgetStore) Update(_ context.Context, budget *domain.Budget) error {
	if err := budget.Validate(); err != nil {
		return err
	}
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	existing, ok := s.l.budgets[budget.ID]
	if !ok || existing.UserID != budget.UserID {
		return store.ErrBudgetNotFound
	}
	a, ok := s.l.accounts[budget.AccountID]
	if !ok || a.UserID != budget.UserID {
		return store.ErrInvalidAccountRef
	}
	now := time.Now().UTC()
	budget.UpdatedAt = &now
	budget.CreatedAt = existing.CreatedAt
	s.l.budgets[budget.ID] = *budget
	return nil
}
