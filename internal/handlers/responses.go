package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/partsdesk/partsdesk/internal/models"
	pkghttp "github.com/partsdesk/partsdesk/pkg/http"
)

// AddressResponse is the address block of an account payload.
type AddressResponse struct {
	Street     string `json:"street"`
	PostalCode string `json:"postalCode"`
	City       string `json:"city"`
	Country    string `json:"country"`
}

// AccountResponse is the public shape of an account. Credentials, token
// material and lockout bookkeeping never leave the server.
type AccountResponse struct {
	ID             string          `json:"id"`
	Email          string          `json:"email"`
	FirstName      string          `json:"firstName"`
	LastName       string          `json:"lastName"`
	CompanyName    string          `json:"companyName"`
	CompanyCountry string          `json:"companyCountry"`
	TaxID          string          `json:"taxId"`
	Phone          string          `json:"phone"`
	Address        AddressResponse `json:"address"`
	Role           string          `json:"role"`
	EmailVerified  bool            `json:"emailVerified"`
	CreatedAt      time.Time       `json:"createdAt"`
}

func toAccountResponse(a *models.Account) AccountResponse {
	return AccountResponse{
		ID:             a.ID,
		Email:          a.Email,
		FirstName:      a.FirstName,
		LastName:       a.LastName,
		CompanyName:    a.CompanyName,
		CompanyCountry: a.CompanyCountry,
		TaxID:          a.TaxID,
		Phone:          a.Phone,
		Address: AddressResponse{
			Street:     a.Address.Street,
			PostalCode: a.Address.PostalCode,
			City:       a.Address.City,
			Country:    a.Address.Country,
		},
		Role:          a.Role,
		EmailVerified: a.EmailVerified,
		CreatedAt:     a.CreatedAt,
	}
}

// ProductResponse is the public shape of a catalog entry.
type ProductResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	OEMNumber    string    `json:"oemNumber"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	Category     string    `json:"category"`
	Brand        string    `json:"brand"`
	Images       []string  `json:"images"`
	Availability string    `json:"availability"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toProductResponse(p *models.Product) ProductResponse {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		OEMNumber:    p.OEMNumber,
		Description:  p.Description,
		Price:        p.Price,
		Category:     p.Category,
		Brand:        p.Brand,
		Images:       images,
		Availability: p.Availability,
		IsActive:     p.IsActive,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func toProductResponses(products []*models.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out
}

// InquiryResponse is the public shape of a quotation request.
type InquiryResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName"`
	ContactName string    `json:"contactName"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	CompanyName string    `json:"companyName"`
	Quantity    int       `json:"quantity"`
	Message     string    `json:"message"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toInquiryResponse(i *models.Inquiry) InquiryResponse {
	return InquiryResponse{
		ID:          i.ID,
		ProductID:   i.ProductID,
		ProductName: i.ProductName,
		ContactName: i.ContactName,
		Email:       i.Email,
		Phone:       i.Phone,
		CompanyName: i.CompanyName,
		Quantity:    i.Quantity,
		Message:     i.Message,
		Status:      i.Status,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

func toInquiryResponses(inquiries []*models.Inquiry) []InquiryResponse {
	out := make([]InquiryResponse, 0, len(inquiries))
	for _, i := range inquiries {
		out = append(out, toInquiryResponse(i))
	}
	return out
}

// writeFieldErrors converts collected domain violations to the wire shape.
func writeFieldErrors(w http.ResponseWriter, verrs *models.ValidationErrors) {
	fields := make([]pkghttp.FieldError, 0, len(verrs.Fields))
	for _, f := range verrs.Fields {
		fields = append(fields, pkghttp.FieldError{Field: f.Field, Message: f.Message})
	}
	pkghttp.WriteValidationErrors(w, fields)
}

// writeServiceError maps domain errors onto the HTTP error taxonomy. The
// default branch deliberately hides internals.
func writeServiceError(w http.ResponseWriter, err error) {
	var verrs *models.ValidationErrors
	var conflict *models.ConflictError
	var locked *models.LockedError

	switch {
	case errors.As(err, &verrs):
		writeFieldErrors(w, verrs)
	case errors.As(err, &conflict):
		pkghttp.WriteConflict(w, conflict.Field, conflict.Error())
	case errors.As(err, &locked):
		pkghttp.WriteTooManyRequests(w, locked.Error())
	case errors.Is(err, models.ErrInvalidCredentials):
		pkghttp.WriteUnauthorized(w, "Invalid email or password")
	case errors.Is(err, models.ErrEmailNotVerified):
		pkghttp.WriteForbidden(w, "Email address not verified. Please check your inbox.")
	case errors.Is(err, models.ErrTokenExpired):
		pkghttp.WriteError(w, http.StatusBadRequest, "token_expired", "Verification link has expired. Please request a new one.")
	case errors.Is(err, models.ErrTokenInvalid):
		pkghttp.WriteError(w, http.StatusBadRequest, "token_invalid", "Verification link is invalid or has already been used.")
	case errors.Is(err, models.ErrAlreadyVerified):
		pkghttp.WriteError(w, http.StatusBadRequest, "already_verified", "Email address is already verified.")
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, "Resource not found")
	case errors.Is(err, models.ErrDependencyFailed):
		pkghttp.WriteBadGateway(w, "A downstream service is unavailable. Please try again later.")
	case errors.Is(err, models.ErrForbidden):
		pkghttp.WriteForbidden(w, "Forbidden")
	case errors.Is(err, models.ErrUnauthorized):
		pkghttp.WriteUnauthorized(w, "Unauthorized")
	default:
		pkghttp.WriteInternalError(w, "Internal server error")
	}
}
