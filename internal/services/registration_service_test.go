package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partsdesk/partsdesk/internal/clock"
	"github.com/partsdesk/partsdesk/internal/models"
)

func newRegistrationService(store *MockAccountStore, sender EmailSender) *RegistrationService {
	if sender == nil {
		sender = &MockEmailSender{}
	}
	verification := NewVerificationService(store, sender, 24*time.Hour, clock.System{}, testLogger())
	return NewRegistrationService(store, verification, testLogger())
}

func TestRegister_Success(t *testing.T) {
	store := notFoundAccountStore()

	var created *models.Account
	store.CreateFunc = func(ctx context.Context, account *models.Account) (*models.Account, error) {
		account.ID = "acc-new"
		created = account
		return account, nil
	}

	var storedHash string
	store.SetVerificationTokenFunc = func(ctx context.Context, accountID, tokenHash string, expiresAt time.Time) error {
		storedHash = tokenHash
		return nil
	}

	var mailedToken string
	sender := &MockEmailSender{
		SendVerificationEmailFunc: func(ctx context.Context, email, token string, expiresAt time.Time) error {
			mailedToken = token
			return nil
		},
	}

	svc := newRegistrationService(store, sender)

	account, err := svc.Register(context.Background(), validRegistrationInput())
	require.NoError(t, err)

	assert.Equal(t, "acc-new", account.ID)
	assert.Equal(t, "buyer@warsztat.pl", created.Email)
	assert.False(t, created.EmailVerified)
	assert.Equal(t, models.RoleUser, created.Role)

	// Only a hash of the token is stored; the plaintext goes in the mail.
	assert.NotEmpty(t, mailedToken)
	assert.NotEmpty(t, storedHash)
	assert.NotEqual(t, mailedToken, storedHash)
	assert.Equal(t, hashToken(mailedToken), storedHash)

	// Plaintext is never persisted on the account.
	assert.NotContains(t, created.PasswordHash, "Test123!@#")
}

func TestRegister_NormalizesEmail(t *testing.T) {
	store := notFoundAccountStore()
	store.CreateFunc = func(ctx context.Context, account *models.Account) (*models.Account, error) {
		account.ID = "acc-new"
		return account, nil
	}
	store.SetVerificationTokenFunc = func(ctx context.Context, accountID, tokenHash string, expiresAt time.Time) error {
		return nil
	}

	svc := newRegistrationService(store, nil)

	input := validRegistrationInput()
	input.Email = "  Buyer@Warsztat.PL "

	account, err := svc.Register(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "buyer@warsztat.pl", account.Email)
}

func TestRegister_CollectsAllFieldViolations(t *testing.T) {
	svc := newRegistrationService(notFoundAccountStore(), nil)

	input := RegistrationInput{
		Email:          "not-an-email",
		Password:       "short",
		FirstName:      "J",
		LastName:       "Kowalski4",
		CompanyName:    "W",
		CompanyCountry: "FR",
		TaxID:          "123",
		Phone:          "abc",
		Street:         "",
		PostalCode:     "xyz",
		City:           "",
	}

	_, err := svc.Register(context.Background(), input)

	var verrs *models.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	fields := make(map[string]bool)
	for _, f := range verrs.Fields {
		fields[f.Field] = true
	}

	for _, want := range []string{"email", "password", "firstName", "lastName", "companyName", "companyCountry", "phone", "street", "city"} {
		assert.True(t, fields[want], "expected violation for field %s", want)
	}
}

func TestRegister_PasswordPolicyViolationsOnPasswordField(t *testing.T) {
	svc := newRegistrationService(notFoundAccountStore(), nil)

	input := validRegistrationInput()
	input.Password = "alllowercase"

	_, err := svc.Register(context.Background(), input)

	var verrs *models.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	// Missing uppercase, digit and special character: one entry each.
	count := 0
	for _, f := range verrs.Fields {
		if f.Field == "password" {
			count++
		}
	}
	assert.Equal(t, 3, count)
}

func TestRegister_InvalidPostalCodeForCountry(t *testing.T) {
	svc := newRegistrationService(notFoundAccountStore(), nil)

	input := validRegistrationInput()
	input.PostalCode = "12345" // DE format, not PL

	_, err := svc.Register(context.Background(), input)

	var verrs *models.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs.Fields, 1)
	assert.Equal(t, "postalCode", verrs.Fields[0].Field)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	store := notFoundAccountStore()
	store.GetByEmailFunc = func(ctx context.Context, email string) (*models.Account, error) {
		return testAccount(), nil
	}

	svc := newRegistrationService(store, nil)

	_, err := svc.Register(context.Background(), validRegistrationInput())

	var conflict *models.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "email", conflict.Field)
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestRegister_DuplicateTaxID(t *testing.T) {
	store := notFoundAccountStore()
	store.GetByTaxIDFunc = func(ctx context.Context, taxID string) (*models.Account, error) {
		return testAccount(), nil
	}

	svc := newRegistrationService(store, nil)

	_, err := svc.Register(context.Background(), validRegistrationInput())

	var conflict *models.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "taxId", conflict.Field)
}

func TestRegister_DuplicateCompanyAndTaxIDPair(t *testing.T) {
	store := notFoundAccountStore()
	store.GetByCompanyNameAndTaxIDFunc = func(ctx context.Context, companyName, taxID string) (*models.Account, error) {
		return testAccount(), nil
	}

	svc := newRegistrationService(store, nil)

	_, err := svc.Register(context.Background(), validRegistrationInput())

	var conflict *models.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "companyName", conflict.Field)
}

func TestRegister_ChecksumRunsAfterUniqueness(t *testing.T) {
	// A taken tax ID reports the conflict even when its checksum is bad.
	store := notFoundAccountStore()
	store.GetByTaxIDFunc = func(ctx context.Context, taxID string) (*models.Account, error) {
		return testAccount(), nil
	}

	svc := newRegistrationService(store, nil)

	input := validRegistrationInput()
	input.TaxID = "5252248482"

	_, err := svc.Register(context.Background(), input)

	var conflict *models.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "taxId", conflict.Field)
}

func TestRegister_BadChecksum(t *testing.T) {
	svc := newRegistrationService(notFoundAccountStore(), nil)

	input := validRegistrationInput()
	input.TaxID = "5252248482" // right shape, wrong check digit

	_, err := svc.Register(context.Background(), input)

	var verrs *models.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs.Fields, 1)
	assert.Equal(t, "taxId", verrs.Fields[0].Field)
}

func TestRegister_StoreConflictWins(t *testing.T) {
	// A concurrent registration that slips past the pre-checks is still
	// rejected by the unique index at insert time.
	store := notFoundAccountStore()
	store.CreateFunc = func(ctx context.Context, account *models.Account) (*models.Account, error) {
		return nil, &models.ConflictError{Field: "email"}
	}

	svc := newRegistrationService(store, nil)

	_, err := svc.Register(context.Background(), validRegistrationInput())

	var conflict *models.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "email", conflict.Field)
}

func TestRegister_EmailSendFailureFailsRegistration(t *testing.T) {
	store := notFoundAccountStore()
	store.CreateFunc = func(ctx context.Context, account *models.Account) (*models.Account, error) {
		account.ID = "acc-new"
		return account, nil
	}
	store.SetVerificationTokenFunc = func(ctx context.Context, accountID, tokenHash string, expiresAt time.Time) error {
		return nil
	}

	sender := &MockEmailSender{
		SendVerificationEmailFunc: func(ctx context.Context, email, token string, expiresAt time.Time) error {
			return errors.New("ses unavailable")
		},
	}

	svc := newRegistrationService(store, sender)

	_, err := svc.Register(context.Background(), validRegistrationInput())
	assert.ErrorIs(t, err, models.ErrDependencyFailed)
}

func TestRegister_StoreLookupFailure(t *testing.T) {
	store := notFoundAccountStore()
	store.GetByEmailFunc = func(ctx context.Context, email string) (*models.Account, error) {
		return nil, errors.New("connection refused")
	}

	svc := newRegistrationService(store, nil)

	_, err := svc.Register(context.Background(), validRegistrationInput())
	assert.ErrorIs(t, err, models.ErrDependencyFailed)
}

func TestRegister_GermanAndCzechVariants(t *testing.T) {
	tests := []struct {
		name       string
		country    string
		taxID      string
		postalCode string
	}{
		{"german format-only tax ID", "DE", "123456789", "10115"},
		{"czech format-only tax ID", "CZ", "12345678", "110 00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := notFoundAccountStore()
			store.CreateFunc = func(ctx context.Context, account *models.Account) (*models.Account, error) {
				account.ID = "acc-new"
				return account, nil
			}
			store.SetVerificationTokenFunc = func(ctx context.Context, accountID, tokenHash string, expiresAt time.Time) error {
				return nil
			}

			svc := newRegistrationService(store, nil)

			input := validRegistrationInput()
			input.CompanyCountry = tt.country
			input.TaxID = tt.taxID
			input.PostalCode = tt.postalCode

			_, err := svc.Register(context.Background(), input)
			require.NoError(t, err)
		})
	}
}
