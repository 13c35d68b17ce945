package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/partsdesk/partsdesk/internal/models"
)

// ProductStore is the persistence port for the parts catalog.
type ProductStore interface {
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetByOEMNumber(ctx context.Context, oemNumber string) (*models.Product, error)
	List(ctx context.Context, category, brand string, limit, offset int) ([]*models.Product, error)
	Update(ctx context.Context, id string, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id string) error
}

var oemNumberPattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// ProductInput carries the catalog entry form.
type ProductInput struct {
	Name         string
	OEMNumber    string
	Description  string
	Price        float64
	Category     string
	Brand        string
	Images       []string
	Availability string
	IsActive     bool
}

// ProductService manages the parts catalog.
type ProductService struct {
	store  ProductStore
	logger *slog.Logger
}

// NewProductService creates a ProductService.
func NewProductService(store ProductStore, logger *slog.Logger) *ProductService {
	return &ProductService{store: store, logger: logger}
}

func validateProductInput(input ProductInput) *models.ValidationErrors {
	verrs := &models.ValidationErrors{}

	if l := len(input.Name); l < 2 || l > 200 {
		verrs.Add("name", "must be between 2 and 200 characters")
	}

	if input.OEMNumber == "" {
		verrs.Add("oemNumber", "OEM number is required")
	} else if !oemNumberPattern.MatchString(input.OEMNumber) {
		verrs.Add("oemNumber", "may only contain letters, digits and hyphens")
	}

	if input.Price < 0 {
		verrs.Add("price", "must not be negative")
	}

	if !models.ValidCategory(input.Category) {
		verrs.Add("category", fmt.Sprintf("must be one of: %s", strings.Join(models.ProductCategories, ", ")))
	}

	if input.Availability != "" && !models.ValidAvailability(input.Availability) {
		verrs.Add("availability", "must be one of: In Stock, On Order, Out of Stock")
	}

	if input.Brand == "" {
		verrs.Add("brand", "brand is required")
	}

	return verrs
}

// Create adds a catalog entry. OEM number uniqueness is enforced by the
// store's unique index; the pre-check only improves the error path.
func (s *ProductService) Create(ctx context.Context, input ProductInput) (*models.Product, error) {
	if verrs := validateProductInput(input); verrs.HasErrors() {
		return nil, verrs
	}

	if _, err := s.store.GetByOEMNumber(ctx, input.OEMNumber); err == nil {
		return nil, &models.ConflictError{Field: "oemNumber"}
	} else if !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("failed to check OEM number uniqueness", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	product := &models.Product{
		Name:         input.Name,
		OEMNumber:    input.OEMNumber,
		Description:  input.Description,
		Price:        input.Price,
		Category:     input.Category,
		Brand:        input.Brand,
		Images:       input.Images,
		Availability: input.Availability,
		IsActive:     true,
	}

	created, err := s.store.Create(ctx, product)
	if err != nil {
		var conflict *models.ConflictError
		if errors.As(err, &conflict) {
			return nil, conflict
		}
		s.logger.Error("failed to create product", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("product created",
		slog.String("product_id", created.ID),
		slog.String("oem_number", created.OEMNumber))

	return created, nil
}

// GetByID returns a single catalog entry, active or not.
func (s *ProductService) GetByID(ctx context.Context, id string) (*models.Product, error) {
	return s.store.GetByID(ctx, id)
}

// List returns active products filtered by optional category and brand.
func (s *ProductService) List(ctx context.Context, category, brand string, limit, offset int) ([]*models.Product, error) {
	if category != "" && !models.ValidCategory(category) {
		verrs := &models.ValidationErrors{}
		verrs.Add("category", fmt.Sprintf("must be one of: %s", strings.Join(models.ProductCategories, ", ")))
		return nil, verrs
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	return s.store.List(ctx, category, brand, limit, offset)
}

// Update replaces the mutable fields of a catalog entry.
func (s *ProductService) Update(ctx context.Context, id string, input ProductInput) (*models.Product, error) {
	if verrs := validateProductInput(input); verrs.HasErrors() {
		return nil, verrs
	}

	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// The OEM number is immutable once assigned.
	if input.OEMNumber != existing.OEMNumber {
		verrs := &models.ValidationErrors{}
		verrs.Add("oemNumber", "cannot be changed")
		return nil, verrs
	}

	existing.Name = input.Name
	existing.Description = input.Description
	existing.Price = input.Price
	existing.Category = input.Category
	existing.Brand = input.Brand
	existing.Images = input.Images
	existing.Availability = input.Availability
	existing.IsActive = input.IsActive

	updated, err := s.store.Update(ctx, id, existing)
	if err != nil {
		s.logger.Error("failed to update product",
			slog.String("product_id", id),
			slog.Any("error", err))
		return nil, err
	}

	return updated, nil
}

// Delete deactivates a catalog entry.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("product deactivated", slog.String("product_id", id))
	return nil
}
