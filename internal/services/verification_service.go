package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/partsdesk/partsdesk/internal/clock"
	"github.com/partsdesk/partsdesk/internal/models"
)

// verificationTokenBytes gives 256 bits of entropy per token.
const verificationTokenBytes = 32

// VerificationService issues, delivers and consumes email verification
// tokens. Only a SHA-256 hash of the token is ever stored; the plaintext
// exists only in the email.
type VerificationService struct {
	store       AccountStore
	emailSender EmailSender
	tokenExpiry time.Duration
	clock       clock.Clock
	logger      *slog.Logger
}

// NewVerificationService creates a VerificationService.
func NewVerificationService(store AccountStore, emailSender EmailSender, tokenExpiry time.Duration, clk clock.Clock, logger *slog.Logger) *VerificationService {
	return &VerificationService{
		store:       store,
		emailSender: emailSender,
		tokenExpiry: tokenExpiry,
		clock:       clk,
		logger:      logger,
	}
}

// generateToken returns the plaintext token and the hash stored at rest.
func generateToken() (plaintext, hash string, err error) {
	buf := make([]byte, verificationTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("failed to generate token: %w", err)
	}

	plaintext = base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(buf)
	return plaintext, hashToken(plaintext), nil
}

func hashToken(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// SendVerificationEmail issues a fresh token for the account and mails it.
// Any previously outstanding token is overwritten, so the account has at
// most one live token at a time.
func (s *VerificationService) SendVerificationEmail(ctx context.Context, account *models.Account) error {
	plaintext, hash, err := generateToken()
	if err != nil {
		return err
	}

	expiresAt := s.clock.Now().Add(s.tokenExpiry)

	if err := s.store.SetVerificationToken(ctx, account.ID, hash, expiresAt); err != nil {
		s.logger.Error("failed to store verification token",
			slog.String("account_id", account.ID),
			slog.Any("error", err))
		return fmt.Errorf("failed to store verification token: %w", err)
	}

	if err := s.emailSender.SendVerificationEmail(ctx, account.Email, plaintext, expiresAt); err != nil {
		return fmt.Errorf("%w: %v", models.ErrDependencyFailed, err)
	}

	s.logger.Info("verification token issued",
		slog.String("account_id", account.ID),
		slog.Time("expires_at", expiresAt))

	return nil
}

// VerifyEmail consumes a token from the emailed link and activates the
// account. Unknown and already-consumed tokens are indistinguishable to the
// caller; expired tokens get a distinct error so the client can offer a
// resend.
func (s *VerificationService) VerifyEmail(ctx context.Context, token string) (*models.Account, error) {
	if token == "" {
		return nil, models.ErrTokenInvalid
	}

	hash := hashToken(token)

	account, err := s.store.GetByVerificationTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrTokenInvalid
		}
		s.logger.Error("failed to look up verification token", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if account.VerificationTokenExpiresAt == nil || s.clock.Now().After(*account.VerificationTokenExpiresAt) {
		return nil, models.ErrTokenExpired
	}

	// The hash guard in the update keeps consumption single-use under
	// concurrent requests: the second one matches zero rows.
	if err := s.store.MarkEmailVerified(ctx, account.ID, hash); err != nil {
		if errors.Is(err, models.ErrTokenInvalid) {
			return nil, models.ErrTokenInvalid
		}
		s.logger.Error("failed to mark email verified",
			slog.String("account_id", account.ID),
			slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	account.EmailVerified = true
	account.VerificationTokenHash = nil
	account.VerificationTokenExpiresAt = nil

	s.logger.Info("email verified", slog.String("account_id", account.ID))

	return account, nil
}

// ResendVerification issues and mails a new token for an unverified
// account. The previous token stops working as soon as the new one is
// stored.
func (s *VerificationService) ResendVerification(ctx context.Context, email string) error {
	account, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to look up account for resend", slog.Any("error", err))
		return models.ErrInternalServer
	}

	if account.EmailVerified {
		return models.ErrAlreadyVerified
	}

	return s.SendVerificationEmail(ctx, account)
}
