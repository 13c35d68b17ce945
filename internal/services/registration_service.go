package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/partsdesk/partsdesk/internal/models"
	"github.com/partsdesk/partsdesk/internal/validation"
	pkgauth "github.com/partsdesk/partsdesk/pkg/auth"
)

// AccountStore is the persistence port for account records. Uniqueness of
// email and tax ID is ultimately owned by the store's unique indexes; the
// lookup methods only exist for friendlier error paths.
type AccountStore interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByTaxID(ctx context.Context, taxID string) (*models.Account, error)
	GetByCompanyNameAndTaxID(ctx context.Context, companyName, taxID string) (*models.Account, error)
	SetVerificationToken(ctx context.Context, accountID, tokenHash string, expiresAt time.Time) error
	GetByVerificationTokenHash(ctx context.Context, tokenHash string) (*models.Account, error)
	MarkEmailVerified(ctx context.Context, accountID, tokenHash string) error
	RecordLoginFailure(ctx context.Context, accountID string, threshold int, lockUntil time.Time) (*models.Account, error)
	RecordLoginSuccess(ctx context.Context, accountID string, at time.Time) error
}

var (
	emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,})+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9\s-]{9,}$`)
	namePattern  = regexp.MustCompile(`^[\p{L}][\p{L}\s-]*$`)
)

// RegistrationInput carries the normalized registration form.
type RegistrationInput struct {
	Email          string
	Password       string
	FirstName      string
	LastName       string
	CompanyName    string
	CompanyCountry string
	TaxID          string
	Phone          string
	Street         string
	PostalCode     string
	City           string
}

// RegistrationService runs the account registration workflow.
type RegistrationService struct {
	store        AccountStore
	verification *VerificationService
	logger       *slog.Logger
}

// NewRegistrationService creates a RegistrationService.
func NewRegistrationService(store AccountStore, verification *VerificationService, logger *slog.Logger) *RegistrationService {
	return &RegistrationService{
		store:        store,
		verification: verification,
		logger:       logger,
	}
}

// Register validates the input, creates an unverified account and requests
// the verification email. The stages short-circuit on first failure; an
// account row created before a failed email send stays unverified and can
// never authenticate, so no rollback is needed.
func (s *RegistrationService) Register(ctx context.Context, input RegistrationInput) (*models.Account, error) {
	input.normalize()

	if verrs := s.validateProfile(input); verrs.HasErrors() {
		return nil, verrs
	}

	// Uniqueness pre-checks. The unique indexes remain the authoritative
	// guard; a concurrent registration that slips past these lookups is
	// still rejected by Create below.
	if _, err := s.store.GetByEmail(ctx, input.Email); err == nil {
		s.logger.Info("registration rejected: email already registered")
		return nil, &models.ConflictError{Field: "email"}
	} else if !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("failed to check email uniqueness", slog.Any("error", err))
		return nil, fmt.Errorf("%w: account lookup: %v", models.ErrDependencyFailed, err)
	}

	if _, err := s.store.GetByTaxID(ctx, input.TaxID); err == nil {
		s.logger.Info("registration rejected: tax ID already registered")
		return nil, &models.ConflictError{Field: "taxId"}
	} else if !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("failed to check tax ID uniqueness", slog.Any("error", err))
		return nil, fmt.Errorf("%w: account lookup: %v", models.ErrDependencyFailed, err)
	}

	// Second, pair-wise uniqueness check. Logically subsumed by the solo
	// tax-ID check above but kept as observed behavior.
	if _, err := s.store.GetByCompanyNameAndTaxID(ctx, input.CompanyName, input.TaxID); err == nil {
		s.logger.Info("registration rejected: company with this tax ID already registered")
		return nil, &models.ConflictError{Field: "companyName"}
	} else if !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("failed to check company uniqueness", slog.Any("error", err))
		return nil, fmt.Errorf("%w: account lookup: %v", models.ErrDependencyFailed, err)
	}

	// Tax identifier checksum, after uniqueness per the workflow order.
	rule, _ := validation.RuleFor(input.CompanyCountry)
	if err := rule.ValidateTaxID(input.TaxID); err != nil {
		verrs := &models.ValidationErrors{}
		verrs.Add("taxId", err.Error())
		return nil, verrs
	}

	passwordHash, err := pkgauth.HashPassword(input.Password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	account := &models.Account{
		Email:          input.Email,
		PasswordHash:   passwordHash,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		CompanyName:    input.CompanyName,
		CompanyCountry: input.CompanyCountry,
		TaxID:          input.TaxID,
		Phone:          input.Phone,
		Address: models.Address{
			Street:     input.Street,
			PostalCode: input.PostalCode,
			City:       input.City,
			Country:    input.CompanyCountry,
		},
		Role:          models.RoleUser,
		EmailVerified: false,
	}

	created, err := s.store.Create(ctx, account)
	if err != nil {
		var conflict *models.ConflictError
		if errors.As(err, &conflict) {
			s.logger.Info("registration rejected by unique index", slog.String("field", conflict.Field))
			return nil, conflict
		}
		s.logger.Error("failed to create account", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	// A failed send must fail the registration; the caller retries via
	// resend-verification once the transport recovers.
	if err := s.verification.SendVerificationEmail(ctx, created); err != nil {
		s.logger.Error("failed to send verification email",
			slog.String("account_id", created.ID),
			slog.Any("error", err))
		return nil, fmt.Errorf("%w: verification email: %v", models.ErrDependencyFailed, err)
	}

	s.logger.Info("account registered", slog.String("account_id", created.ID))

	return created, nil
}

func (i *RegistrationInput) normalize() {
	i.Email = strings.ToLower(strings.TrimSpace(i.Email))
	i.FirstName = strings.TrimSpace(i.FirstName)
	i.LastName = strings.TrimSpace(i.LastName)
	i.CompanyName = strings.TrimSpace(i.CompanyName)
	i.CompanyCountry = strings.ToUpper(strings.TrimSpace(i.CompanyCountry))
	i.TaxID = validation.NormalizeTaxID(i.TaxID)
	i.Phone = strings.TrimSpace(i.Phone)
	i.Street = strings.TrimSpace(i.Street)
	i.PostalCode = strings.TrimSpace(i.PostalCode)
	i.City = strings.TrimSpace(i.City)
}

// validateProfile checks every field and collects all violations so the
// caller can fix the whole form in one resubmission.
func (s *RegistrationService) validateProfile(input RegistrationInput) *models.ValidationErrors {
	verrs := &models.ValidationErrors{}

	if input.Email == "" {
		verrs.Add("email", "email is required")
	} else if !emailPattern.MatchString(input.Email) {
		verrs.Add("email", "must be a valid email address")
	}

	if err := pkgauth.ValidatePassword(input.Password); err != nil {
		var policyErr *pkgauth.PolicyError
		if errors.As(err, &policyErr) {
			for _, v := range policyErr.Violations {
				verrs.Add("password", v)
			}
		} else {
			verrs.Add("password", err.Error())
		}
	}

	validateName(verrs, "firstName", input.FirstName, 2, 50)
	validateName(verrs, "lastName", input.LastName, 2, 50)

	if l := len(input.CompanyName); l < 2 || l > 100 {
		verrs.Add("companyName", "must be between 2 and 100 characters")
	}

	rule, supported := validation.RuleFor(input.CompanyCountry)
	if !supported {
		verrs.Add("companyCountry", fmt.Sprintf("must be one of: %s", strings.Join(validation.SupportedCountries(), ", ")))
	}

	if input.Phone == "" {
		verrs.Add("phone", "phone number is required")
	} else if !phonePattern.MatchString(input.Phone) {
		verrs.Add("phone", "must contain at least 9 digits, optionally with +, spaces or hyphens")
	}

	if input.Street == "" {
		verrs.Add("street", "street is required")
	} else if len(input.Street) > 100 {
		verrs.Add("street", "must be at most 100 characters")
	}

	if input.City == "" {
		verrs.Add("city", "city is required")
	} else if len(input.City) > 50 {
		verrs.Add("city", "must be at most 50 characters")
	}

	if supported {
		if input.PostalCode == "" {
			verrs.Add("postalCode", "postal code is required")
		} else if !rule.ValidatePostalCode(input.PostalCode) {
			verrs.Add("postalCode", fmt.Sprintf("must match the %s format %s", rule.Code, rule.PostalCodeHint))
		}

		var formatErr *validation.FormatError
		if err := rule.ValidateTaxID(input.TaxID); errors.As(err, &formatErr) {
			verrs.Add("taxId", formatErr.Error())
		}
	}

	return verrs
}

func validateName(verrs *models.ValidationErrors, field, value string, minLen, maxLen int) {
	if l := len(value); l < minLen || l > maxLen {
		verrs.Add(field, fmt.Sprintf("must be between %d and %d characters", minLen, maxLen))
		return
	}
	if !namePattern.MatchString(value) {
		verrs.Add(field, "may only contain letters, spaces and hyphens")
	}
}
