package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/partsdesk/partsdesk/internal/auth"
	"github.com/partsdesk/partsdesk/internal/models"
	"github.com/partsdesk/partsdesk/internal/services"
	pkghttp "github.com/partsdesk/partsdesk/pkg/http"
)

// RegistrationServiceInterface defines the registration workflow.
type RegistrationServiceInterface interface {
	Register(ctx context.Context, input services.RegistrationInput) (*models.Account, error)
}

// AuthServiceInterface defines the login workflow.
type AuthServiceInterface interface {
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	GetAccount(ctx context.Context, accountID string) (*models.Account, error)
}

// VerificationServiceInterface defines the email verification workflow.
type VerificationServiceInterface interface {
	VerifyEmail(ctx context.Context, token string) (*models.Account, error)
	ResendVerification(ctx context.Context, email string) error
}

// AuthHandler handles registration, verification and login requests.
type AuthHandler struct {
	registration RegistrationServiceInterface
	authService  AuthServiceInterface
	verification VerificationServiceInterface
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(registration RegistrationServiceInterface, authService AuthServiceInterface, verification VerificationServiceInterface) *AuthHandler {
	return &AuthHandler{
		registration: registration,
		authService:  authService,
		verification: verification,
	}
}

// Request DTOs

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Email          string `json:"email" validate:"required"`
	Password       string `json:"password" validate:"required"`
	FirstName      string `json:"firstName" validate:"required"`
	LastName       string `json:"lastName" validate:"required"`
	CompanyName    string `json:"companyName" validate:"required"`
	CompanyCountry string `json:"companyCountry" validate:"required"`
	TaxID          string `json:"taxId" validate:"required"`
	Phone          string `json:"phone" validate:"required"`
	Street         string `json:"street" validate:"required"`
	PostalCode     string `json:"postalCode" validate:"required"`
	City           string `json:"city" validate:"required"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ResendVerificationRequest represents the request body for resending the
// verification email.
type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// RegisterResponse returns only the new account's identifier; the account
// cannot be used until the email is verified.
type RegisterResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// LoginResponse carries the session token and the account summary.
type LoginResponse struct {
	Token   string          `json:"token"`
	Account AccountResponse `json:"account"`
}

// MessageResponse is a plain confirmation payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// Register handles account registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if verrs := ValidateRequest(req); verrs != nil {
		writeFieldErrors(w, verrs)
		return
	}

	account, err := h.registration.Register(r.Context(), services.RegistrationInput{
		Email:          req.Email,
		Password:       req.Password,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		CompanyName:    req.CompanyName,
		CompanyCountry: req.CompanyCountry,
		TaxID:          req.TaxID,
		Phone:          req.Phone,
		Street:         req.Street,
		PostalCode:     req.PostalCode,
		City:           req.City,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, RegisterResponse{
		ID:      account.ID,
		Message: "Registration successful. Please check your email to verify your account.",
	})
}

// VerifyEmail consumes the token from the emailed verification link.
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		pkghttp.WriteBadRequest(w, "Missing verification token")
		return
	}

	if _, err := h.verification.VerifyEmail(r.Context(), token); err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, MessageResponse{
		Message: "Email verified. You can now sign in.",
	})
}

// Login handles account login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if verrs := ValidateRequest(req); verrs != nil {
		writeFieldErrors(w, verrs)
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, LoginResponse{
		Token:   result.Token,
		Account: toAccountResponse(result.Account),
	})
}

// ResendVerification issues a fresh verification email for an unverified
// account.
func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req ResendVerificationRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if verrs := ValidateRequest(req); verrs != nil {
		writeFieldErrors(w, verrs)
		return
	}

	if err := h.verification.ResendVerification(r.Context(), req.Email); err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, MessageResponse{
		Message: "Verification email sent.",
	})
}

// Me returns the authenticated account's profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := auth.SessionFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Unauthorized")
		return
	}

	account, err := h.authService.GetAccount(r.Context(), claims.AccountID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, toAccountResponse(account))
}
