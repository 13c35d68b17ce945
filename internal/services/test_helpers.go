package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/partsdesk/partsdesk/internal/models"
)

// testLogger discards output so test runs stay quiet.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockAccountStore is a function-field mock of AccountStore. Unset fields
// panic, which surfaces unexpected calls immediately.
type MockAccountStore struct {
	CreateFunc                     func(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByIDFunc                    func(ctx context.Context, id string) (*models.Account, error)
	GetByEmailFunc                 func(ctx context.Context, email string) (*models.Account, error)
	GetByTaxIDFunc                 func(ctx context.Context, taxID string) (*models.Account, error)
	GetByCompanyNameAndTaxIDFunc   func(ctx context.Context, companyName, taxID string) (*models.Account, error)
	SetVerificationTokenFunc       func(ctx context.Context, accountID, tokenHash string, expiresAt time.Time) error
	GetByVerificationTokenHashFunc func(ctx context.Context, tokenHash string) (*models.Account, error)
	MarkEmailVerifiedFunc          func(ctx context.Context, accountID, tokenHash string) error
	RecordLoginFailureFunc         func(ctx context.Context, accountID string, threshold int, lockUntil time.Time) (*models.Account, error)
	RecordLoginSuccessFunc         func(ctx context.Context, accountID string, at time.Time) error
}

func (m *MockAccountStore) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	return m.CreateFunc(ctx, account)
}

func (m *MockAccountStore) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *MockAccountStore) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return m.GetByEmailFunc(ctx, email)
}

func (m *MockAccountStore) GetByTaxID(ctx context.Context, taxID string) (*models.Account, error) {
	return m.GetByTaxIDFunc(ctx, taxID)
}

func (m *MockAccountStore) GetByCompanyNameAndTaxID(ctx context.Context, companyName, taxID string) (*models.Account, error) {
	return m.GetByCompanyNameAndTaxIDFunc(ctx, companyName, taxID)
}

func (m *MockAccountStore) SetVerificationToken(ctx context.Context, accountID, tokenHash string, expiresAt time.Time) error {
	return m.SetVerificationTokenFunc(ctx, accountID, tokenHash, expiresAt)
}

func (m *MockAccountStore) GetByVerificationTokenHash(ctx context.Context, tokenHash string) (*models.Account, error) {
	return m.GetByVerificationTokenHashFunc(ctx, tokenHash)
}

func (m *MockAccountStore) MarkEmailVerified(ctx context.Context, accountID, tokenHash string) error {
	return m.MarkEmailVerifiedFunc(ctx, accountID, tokenHash)
}

func (m *MockAccountStore) RecordLoginFailure(ctx context.Context, accountID string, threshold int, lockUntil time.Time) (*models.Account, error) {
	return m.RecordLoginFailureFunc(ctx, accountID, threshold, lockUntil)
}

func (m *MockAccountStore) RecordLoginSuccess(ctx context.Context, accountID string, at time.Time) error {
	return m.RecordLoginSuccessFunc(ctx, accountID, at)
}

// notFoundAccountStore returns a store where every lookup misses, the
// common baseline for registration tests.
func notFoundAccountStore() *MockAccountStore {
	return &MockAccountStore{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.Account, error) {
			return nil, models.ErrNotFound
		},
		GetByTaxIDFunc: func(ctx context.Context, taxID string) (*models.Account, error) {
			return nil, models.ErrNotFound
		},
		GetByCompanyNameAndTaxIDFunc: func(ctx context.Context, companyName, taxID string) (*models.Account, error) {
			return nil, models.ErrNotFound
		},
	}
}

// MockEmailSender is a function-field mock of EmailSender.
type MockEmailSender struct {
	SendVerificationEmailFunc func(ctx context.Context, email, token string, expiresAt time.Time) error
}

func (m *MockEmailSender) SendVerificationEmail(ctx context.Context, email, token string, expiresAt time.Time) error {
	if m.SendVerificationEmailFunc == nil {
		return nil
	}
	return m.SendVerificationEmailFunc(ctx, email, token, expiresAt)
}

// MockTokenIssuer is a function-field mock of TokenIssuer.
type MockTokenIssuer struct {
	GenerateSessionTokenFunc func(accountID, email, role string) (string, error)
}

func (m *MockTokenIssuer) GenerateSessionToken(accountID, email, role string) (string, error) {
	if m.GenerateSessionTokenFunc == nil {
		return "session-token", nil
	}
	return m.GenerateSessionTokenFunc(accountID, email, role)
}

// MockProductStore is a function-field mock of ProductStore.
type MockProductStore struct {
	CreateFunc         func(ctx context.Context, product *models.Product) (*models.Product, error)
	GetByIDFunc        func(ctx context.Context, id string) (*models.Product, error)
	GetByOEMNumberFunc func(ctx context.Context, oemNumber string) (*models.Product, error)
	ListFunc           func(ctx context.Context, category, brand string, limit, offset int) ([]*models.Product, error)
	UpdateFunc         func(ctx context.Context, id string, product *models.Product) (*models.Product, error)
	DeleteFunc         func(ctx context.Context, id string) error
}

func (m *MockProductStore) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	return m.CreateFunc(ctx, product)
}

func (m *MockProductStore) GetByID(ctx context.Context, id string) (*models.Product, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *MockProductStore) GetByOEMNumber(ctx context.Context, oemNumber string) (*models.Product, error) {
	return m.GetByOEMNumberFunc(ctx, oemNumber)
}

func (m *MockProductStore) List(ctx context.Context, category, brand string, limit, offset int) ([]*models.Product, error) {
	return m.ListFunc(ctx, category, brand, limit, offset)
}

func (m *MockProductStore) Update(ctx context.Context, id string, product *models.Product) (*models.Product, error) {
	return m.UpdateFunc(ctx, id, product)
}

func (m *MockProductStore) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

// MockInquiryStore is a function-field mock of InquiryStore.
type MockInquiryStore struct {
	CreateFunc        func(ctx context.Context, inquiry *models.Inquiry) (*models.Inquiry, error)
	GetByIDFunc       func(ctx context.Context, id string) (*models.Inquiry, error)
	ListByAccountFunc func(ctx context.Context, accountID string, limit, offset int) ([]*models.Inquiry, error)
	ListFunc          func(ctx context.Context, status string, limit, offset int) ([]*models.Inquiry, error)
	UpdateStatusFunc  func(ctx context.Context, id, status string) (*models.Inquiry, error)
}

func (m *MockInquiryStore) Create(ctx context.Context, inquiry *models.Inquiry) (*models.Inquiry, error) {
	return m.CreateFunc(ctx, inquiry)
}

func (m *MockInquiryStore) GetByID(ctx context.Context, id string) (*models.Inquiry, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *MockInquiryStore) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*models.Inquiry, error) {
	return m.ListByAccountFunc(ctx, accountID, limit, offset)
}

func (m *MockInquiryStore) List(ctx context.Context, status string, limit, offset int) ([]*models.Inquiry, error) {
	return m.ListFunc(ctx, status, limit, offset)
}

func (m *MockInquiryStore) UpdateStatus(ctx context.Context, id, status string) (*models.Inquiry, error) {
	return m.UpdateStatusFunc(ctx, id, status)
}

// validRegistrationInput is a registration form that passes every check.
func validRegistrationInput() RegistrationInput {
	return RegistrationInput{
		Email:          "buyer@warsztat.pl",
		Password:       "Test123!@#",
		FirstName:      "Jan",
		LastName:       "Kowalski",
		CompanyName:    "Warsztat Kowalski",
		CompanyCountry: "PL",
		TaxID:          "5252248481",
		Phone:          "+48 601 234 567",
		Street:         "ul. Prosta 12",
		PostalCode:     "00-850",
		City:           "Warszawa",
	}
}

// testAccount is a verified, unlocked account. Tests that exercise the
// password check fill in PasswordHash themselves.
func testAccount() *models.Account {
	return &models.Account{
		ID:             "acc-1",
		Email:          "buyer@warsztat.pl",
		FirstName:      "Jan",
		LastName:       "Kowalski",
		CompanyName:    "Warsztat Kowalski",
		CompanyCountry: "PL",
		TaxID:          "5252248481",
		Phone:          "+48 601 234 567",
		Role:           models.RoleUser,
		EmailVerified:  true,
		CreatedAt:      time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
		UpdatedAt:      time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
	}
}
