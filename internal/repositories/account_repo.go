package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/partsdesk/partsdesk/internal/clock"
	"github.com/partsdesk/partsdesk/internal/database"
	"github.com/partsdesk/partsdesk/internal/models"
)

const accountColumns = `id, email, password_hash, first_name, last_name, company_name, company_country,
	tax_id, phone, street, postal_code, city, role, email_verified,
	verification_token_hash, verification_token_expires_at,
	failed_login_count, locked_until, last_login_at, created_at, updated_at`

type AccountRepository struct {
	db  *database.DB
	clk clock.Clock
}

func NewAccountRepository(db *database.DB, clk clock.Clock) *AccountRepository {
	return &AccountRepository{db: db, clk: clk}
}

// rowScanner lets scanAccountRow work for both QueryRow and Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccountRow(scanner rowScanner) (*models.Account, error) {
	var a models.Account
	err := scanner.Scan(
		&a.ID, &a.Email, &a.PasswordHash, &a.FirstName, &a.LastName,
		&a.CompanyName, &a.CompanyCountry, &a.TaxID, &a.Phone,
		&a.Address.Street, &a.Address.PostalCode, &a.Address.City,
		&a.Role, &a.EmailVerified,
		&a.VerificationTokenHash, &a.VerificationTokenExpiresAt,
		&a.FailedLoginCount, &a.LockedUntil, &a.LastLoginAt,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	a.Address.Country = a.CompanyCountry
	return &a, nil
}

func (r *AccountRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	account.ID = uuid.New().String()

	now := r.clk.Now()
	account.CreatedAt = now
	account.UpdatedAt = now

	if account.Role == "" {
		account.Role = models.RoleUser
	}

	query := `
		INSERT INTO accounts (id, email, password_hash, first_name, last_name, company_name,
			company_country, tax_id, phone, street, postal_code, city, role, email_verified,
			verification_token_hash, verification_token_expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING ` + accountColumns

	return scanAccountRow(r.db.Pool.QueryRow(ctx, query,
		account.ID, account.Email, account.PasswordHash,
		account.FirstName, account.LastName, account.CompanyName,
		account.CompanyCountry, account.TaxID, account.Phone,
		account.Address.Street, account.Address.PostalCode, account.Address.City,
		account.Role, account.EmailVerified,
		account.VerificationTokenHash, account.VerificationTokenExpiresAt,
		account.CreatedAt, account.UpdatedAt,
	))
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return scanAccountRow(r.db.Pool.QueryRow(ctx, query, id))
}

// GetByEmail looks up an account by email, case-insensitively.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE LOWER(email) = LOWER($1)`
	return scanAccountRow(r.db.Pool.QueryRow(ctx, query, email))
}

func (r *AccountRepository) GetByTaxID(ctx context.Context, taxID string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE tax_id = $1`
	return scanAccountRow(r.db.Pool.QueryRow(ctx, query, taxID))
}

// GetByCompanyNameAndTaxID supports the pair uniqueness pre-check that runs
// in addition to the solo tax-ID check.
func (r *AccountRepository) GetByCompanyNameAndTaxID(ctx context.Context, companyName, taxID string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE company_name = $1 AND tax_id = $2`
	return scanAccountRow(r.db.Pool.QueryRow(ctx, query, companyName, taxID))
}

// SetVerificationToken stores a new outstanding token, overwriting any
// previous one so at most one token per account is ever live.
func (r *AccountRepository) SetVerificationToken(ctx context.Context, accountID, tokenHash string, expiresAt time.Time) error {
	query := `
		UPDATE accounts
		SET verification_token_hash = $2, verification_token_expires_at = $3, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.Pool.Exec(ctx, query, accountID, tokenHash, expiresAt)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// GetByVerificationTokenHash finds the account holding the given
// outstanding token.
func (r *AccountRepository) GetByVerificationTokenHash(ctx context.Context, tokenHash string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE verification_token_hash = $1`
	return scanAccountRow(r.db.Pool.QueryRow(ctx, query, tokenHash))
}

// MarkEmailVerified flips the verified flag and clears the token fields in
// one statement. The token-hash guard makes consumption single-use: a
// second consume of the same token matches zero rows.
func (r *AccountRepository) MarkEmailVerified(ctx context.Context, accountID, tokenHash string) error {
	query := `
		UPDATE accounts
		SET email_verified = TRUE,
		    verification_token_hash = NULL,
		    verification_token_expires_at = NULL,
		    updated_at = NOW()
		WHERE id = $1 AND verification_token_hash = $2
	`
	result, err := r.db.Pool.Exec(ctx, query, accountID, tokenHash)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrTokenInvalid
	}
	return nil
}

// RecordLoginFailure bumps the failure counter with a single server-side
// increment so concurrent failures can never lose an update, and sets the
// lock window when the threshold is crossed.
func (r *AccountRepository) RecordLoginFailure(ctx context.Context, accountID string, threshold int, lockUntil time.Time) (*models.Account, error) {
	query := `
		UPDATE accounts
		SET failed_login_count = failed_login_count + 1,
		    locked_until = CASE WHEN failed_login_count + 1 >= $2 THEN $3 ELSE locked_until END,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + accountColumns

	return scanAccountRow(r.db.Pool.QueryRow(ctx, query, accountID, threshold, lockUntil))
}

// RecordLoginSuccess resets the lockout state and stamps the login time.
func (r *AccountRepository) RecordLoginSuccess(ctx context.Context, accountID string, at time.Time) error {
	query := `
		UPDATE accounts
		SET failed_login_count = 0, locked_until = NULL, last_login_at = $2, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.Pool.Exec(ctx, query, accountID, at)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
