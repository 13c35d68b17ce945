package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/partsdesk/partsdesk/internal/models"
	"github.com/partsdesk/partsdesk/internal/services"
	pkghttp "github.com/partsdesk/partsdesk/pkg/http"
)

// ProductServiceInterface defines the catalog operations.
type ProductServiceInterface interface {
	Create(ctx context.Context, input services.ProductInput) (*models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context, category, brand string, limit, offset int) ([]*models.Product, error)
	Update(ctx context.Context, id string, input services.ProductInput) (*models.Product, error)
	Delete(ctx context.Context, id string) error
}

// ProductHandler handles catalog HTTP requests.
type ProductHandler struct {
	service ProductServiceInterface
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service ProductServiceInterface) *ProductHandler {
	return &ProductHandler{service: service}
}

// ProductRequest represents the request body for creating or updating a
// catalog entry.
type ProductRequest struct {
	Name         string   `json:"name" validate:"required"`
	OEMNumber    string   `json:"oemNumber" validate:"required"`
	Description  string   `json:"description"`
	Price        float64  `json:"price" validate:"gte=0"`
	Category     string   `json:"category" validate:"required"`
	Brand        string   `json:"brand" validate:"required"`
	Images       []string `json:"images"`
	Availability string   `json:"availability"`
	IsActive     bool     `json:"isActive"`
}

func (req ProductRequest) toInput() services.ProductInput {
	return services.ProductInput{
		Name:         req.Name,
		OEMNumber:    req.OEMNumber,
		Description:  req.Description,
		Price:        req.Price,
		Category:     req.Category,
		Brand:        req.Brand,
		Images:       req.Images,
		Availability: req.Availability,
		IsActive:     req.IsActive,
	}
}

// List returns active catalog entries, filtered by optional category and
// brand query parameters.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := paging(r)

	products, err := h.service.List(r.Context(),
		r.URL.Query().Get("category"),
		r.URL.Query().Get("brand"),
		limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, toProductResponses(products))
}

// Get returns a single catalog entry.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, toProductResponse(product))
}

// Create adds a catalog entry. Admin only.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if verrs := ValidateRequest(req); verrs != nil {
		writeFieldErrors(w, verrs)
		return
	}

	product, err := h.service.Create(r.Context(), req.toInput())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, toProductResponse(product))
}

// Update replaces a catalog entry's mutable fields. Admin only.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if verrs := ValidateRequest(req); verrs != nil {
		writeFieldErrors(w, verrs)
		return
	}

	product, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req.toInput())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, toProductResponse(product))
}

// Delete deactivates a catalog entry. Admin only.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// paging reads limit/offset query parameters, leaving clamping to the
// service layer.
func paging(r *http.Request) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	return limit, offset
}
