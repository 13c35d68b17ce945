package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/partsdesk/partsdesk/internal/auth"
	"github.com/partsdesk/partsdesk/internal/clock"
	"github.com/partsdesk/partsdesk/internal/models"
	pkgauth "github.com/partsdesk/partsdesk/pkg/auth"
)

// TokenIssuer mints session tokens for authenticated accounts.
type TokenIssuer interface {
	GenerateSessionToken(accountID, email, role string) (string, error)
}

// LoginResult is the successful login payload.
type LoginResult struct {
	Token   string
	Account *models.Account
}

// AuthService authenticates accounts and maintains their lockout state.
type AuthService struct {
	store  AccountStore
	tokens TokenIssuer
	clock  clock.Clock
	logger *slog.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(store AccountStore, tokens TokenIssuer, clk clock.Clock, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:  store,
		tokens: tokens,
		clock:  clk,
		logger: logger,
	}
}

// Login verifies the credentials and returns a session token. Unknown
// email and wrong password both come back as ErrInvalidCredentials so the
// response never reveals whether the account exists. The lockout window is
// checked lazily here; there is no background unlock.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	account, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		s.logger.Error("failed to look up account for login", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	now := s.clock.Now()
	state := auth.LockoutState{
		FailedCount: account.FailedLoginCount,
		LockedUntil: account.LockedUntil,
	}

	if auth.IsLocked(state, now) {
		s.logger.Info("login rejected: account locked",
			slog.String("account_id", account.ID))
		return nil, &models.LockedError{RetryAfter: auth.RemainingLockout(state, now)}
	}

	if err := pkgauth.ComparePassword(account.PasswordHash, password); err != nil {
		s.recordFailure(ctx, account.ID, now)
		return nil, models.ErrInvalidCredentials
	}

	// Password correct but the address is still unverified: the failure
	// counter is left untouched.
	if !account.EmailVerified {
		return nil, models.ErrEmailNotVerified
	}

	if err := s.store.RecordLoginSuccess(ctx, account.ID, now); err != nil {
		s.logger.Error("failed to record login success",
			slog.String("account_id", account.ID),
			slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	token, err := s.tokens.GenerateSessionToken(account.ID, account.Email, account.Role)
	if err != nil {
		s.logger.Error("failed to generate session token",
			slog.String("account_id", account.ID),
			slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	account.FailedLoginCount = 0
	account.LockedUntil = nil
	account.LastLoginAt = &now

	s.logger.Info("login succeeded", slog.String("account_id", account.ID))

	return &LoginResult{Token: token, Account: account}, nil
}

// recordFailure bumps the server-side counter. A persistence error here is
// logged but not surfaced: the caller still gets the generic credentials
// error.
func (s *AuthService) recordFailure(ctx context.Context, accountID string, now time.Time) {
	lockUntil := now.Add(auth.LockoutDuration)

	updated, err := s.store.RecordLoginFailure(ctx, accountID, auth.LockoutThreshold, lockUntil)
	if err != nil {
		s.logger.Error("failed to record login failure",
			slog.String("account_id", accountID),
			slog.Any("error", err))
		return
	}

	if updated.LockedUntil != nil && updated.LockedUntil.After(now) {
		s.logger.Warn("account locked after repeated failures",
			slog.String("account_id", accountID),
			slog.Int("failed_count", updated.FailedLoginCount),
			slog.Time("locked_until", *updated.LockedUntil))
	}
}

// GetAccount returns the account for an authenticated session.
func (s *AuthService) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	return s.store.GetByID(ctx, accountID)
}
