package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phrazzld/ledger-api/internal/cache"
	"github.com/phrazzld/ledger-api/internal/domain"
	"github.com/phrazzld/ledger-api/internal/service/auth"
	"github.com/phrazzld/ledger-api/internal/store"
)

// UserService provides registration, login and profile operations.
type UserService interface {
	// Register validates input and creates a user. Duplicate email or
	// username yields a store duplicate error.
	Register(ctx context.Context, username, email, password string) (*domain.User, error)

	// Authenticate returns the user whose credentials match, or
	// ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	GetUser(ctx context.Context, userID int64) (*domain.User, error)

	// GetUserByEmail resolves a token subject to its user.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// UpdateUser replaces username and email.
	UpdateUser(ctx context.Context, userID int64, username, email string) (*domain.User, error)

	// DeleteUser removes the user with all of their rows.
	DeleteUser(ctx context.Context, userID int64) error
}

type userService struct {
	users    store.UserStore
	verifier auth.PasswordVerifier
	cache    cache.Store
	keys     cache.Keys
	logger   *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(
	users store.UserStore,
	verifier auth.PasswordVerifier,
	c cache.Store,
	keys cache.Keys,
	logger *slog.Logger,
) UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &userService{
		users:    users,
		verifier: verifier,
		cache:    c,
		keys:     keys,
		logger:   logger.With("component", "user_service"),
	}
}

func (s *userService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	user, err := domain.NewUser(username, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		if store.IsDuplicateError(err) {
			s.logger.DebugContext(ctx, "registration rejected: duplicate", "error", err)
		} else {
			s.logger.ErrorContext(ctx, "failed to create user", "error", err)
		}
		return nil, wrap("user", "register", err)
	}
	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, wrap("user", "authenticate", err)
	}
	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		s.logger.DebugContext(ctx, "password mismatch", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, wrap("user", "get", err)
	}
	return user, nil
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, wrap("user", "get_by_email", err)
	}
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, userID int64, username, email string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, wrap("user", "update", err)
	}
	user.Username = username
	user.Email = email
	if err := s.users.Update(ctx, user); err != nil {
		return nil, wrap("user", "update", err)
	}
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, userID int64) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return wrap("user", "delete", err)
	}
	invalidate(ctx, s.cache, s.logger, s.keys.AccountList(userID), s.keys.BudgetList(userID))
	s.logger.InfoContext(ctx, "user deleted", "user_id", userID)
	return nil
}
