package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/partsdesk/partsdesk/internal/auth"
	"github.com/partsdesk/partsdesk/internal/models"
	"github.com/partsdesk/partsdesk/internal/services"
	pkghttp "github.com/partsdesk/partsdesk/pkg/http"
)

// InquiryServiceInterface defines the quotation request operations.
type InquiryServiceInterface interface {
	Submit(ctx context.Context, accountID string, input services.InquiryInput) (*models.Inquiry, error)
	GetForAccount(ctx context.Context, accountID, inquiryID string) (*models.Inquiry, error)
	ListForAccount(ctx context.Context, accountID string, limit, offset int) ([]*models.Inquiry, error)
	ListAll(ctx context.Context, status string, limit, offset int) ([]*models.Inquiry, error)
	UpdateStatus(ctx context.Context, inquiryID, status string) (*models.Inquiry, error)
}

// InquiryHandler handles quotation request HTTP traffic.
type InquiryHandler struct {
	service InquiryServiceInterface
}

// NewInquiryHandler creates a new InquiryHandler.
func NewInquiryHandler(service InquiryServiceInterface) *InquiryHandler {
	return &InquiryHandler{service: service}
}

// InquiryRequest represents the request body for submitting an inquiry.
type InquiryRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
	Message   string `json:"message" validate:"max=2000"`
}

// UpdateInquiryStatusRequest represents the request body for moving an
// inquiry along its workflow.
type UpdateInquiryStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Submit files a quotation request for the authenticated account.
func (h *InquiryHandler) Submit(w http.ResponseWriter, r *http.Request) {
	claims := auth.SessionFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Unauthorized")
		return
	}

	var req InquiryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if verrs := ValidateRequest(req); verrs != nil {
		writeFieldErrors(w, verrs)
		return
	}

	inquiry, err := h.service.Submit(r.Context(), claims.AccountID, services.InquiryInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Message:   req.Message,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, toInquiryResponse(inquiry))
}

// ListMine returns the authenticated account's inquiries.
func (h *InquiryHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims := auth.SessionFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Unauthorized")
		return
	}

	limit, offset := paging(r)

	inquiries, err := h.service.ListForAccount(r.Context(), claims.AccountID, limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, toInquiryResponses(inquiries))
}

// GetMine returns one of the authenticated account's inquiries.
func (h *InquiryHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	claims := auth.SessionFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Unauthorized")
		return
	}

	inquiry, err := h.service.GetForAccount(r.Context(), claims.AccountID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, toInquiryResponse(inquiry))
}

// ListAll returns inquiries across all accounts. Admin only.
func (h *InquiryHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	limit, offset := paging(r)

	inquiries, err := h.service.ListAll(r.Context(), r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, toInquiryResponses(inquiries))
}

// UpdateStatus moves an inquiry along its workflow. Admin only.
func (h *InquiryHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateInquiryStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if verrs := ValidateRequest(req); verrs != nil {
		writeFieldErrors(w, verrs)
		return
	}

	inquiry, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, toInquiryResponse(inquiry))
}
