package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/partsdesk/partsdesk/internal/models"
)

// InquiryStore is the persistence port for quotation requests.
type InquiryStore interface {
	Create(ctx context.Context, inquiry *models.Inquiry) (*models.Inquiry, error)
	GetByID(ctx context.Context, id string) (*models.Inquiry, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*models.Inquiry, error)
	List(ctx context.Context, status string, limit, offset int) ([]*models.Inquiry, error)
	UpdateStatus(ctx context.Context, id, status string) (*models.Inquiry, error)
}

// InquiryInput carries a quotation request form.
type InquiryInput struct {
	ProductID string
	Quantity  int
	Message   string
}

// InquiryService handles quotation requests against the catalog.
type InquiryService struct {
	store    InquiryStore
	products ProductStore
	accounts AccountStore
	logger   *slog.Logger
}

// NewInquiryService creates an InquiryService.
func NewInquiryService(store InquiryStore, products ProductStore, accounts AccountStore, logger *slog.Logger) *InquiryService {
	return &InquiryService{
		store:    store,
		products: products,
		accounts: accounts,
		logger:   logger,
	}
}

// Submit files a quotation request for the authenticated account. Contact
// and product details are snapshotted onto the inquiry so later edits to
// the profile or catalog don't rewrite history.
func (s *InquiryService) Submit(ctx context.Context, accountID string, input InquiryInput) (*models.Inquiry, error) {
	verrs := &models.ValidationErrors{}
	if input.ProductID == "" {
		verrs.Add("productId", "product is required")
	}
	if input.Quantity < 1 {
		verrs.Add("quantity", "must be at least 1")
	}
	if len(input.Message) > 2000 {
		verrs.Add("message", "must be at most 2000 characters")
	}
	if verrs.HasErrors() {
		return nil, verrs
	}

	product, err := s.products.GetByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			verrs.Add("productId", "product not found")
			return nil, verrs
		}
		s.logger.Error("failed to look up product for inquiry", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	if !product.IsActive {
		verrs.Add("productId", "product is no longer available")
		return nil, verrs
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		s.logger.Error("failed to look up account for inquiry", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	inquiry := &models.Inquiry{
		AccountID:   account.ID,
		ProductID:   product.ID,
		ProductName: product.Name,
		ContactName: account.FullName(),
		Email:       account.Email,
		Phone:       account.Phone,
		CompanyName: account.CompanyName,
		Quantity:    input.Quantity,
		Message:     input.Message,
	}

	created, err := s.store.Create(ctx, inquiry)
	if err != nil {
		s.logger.Error("failed to create inquiry", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("inquiry submitted",
		slog.String("inquiry_id", created.ID),
		slog.String("account_id", account.ID),
		slog.String("product_id", product.ID))

	return created, nil
}

// GetForAccount returns one inquiry, restricted to its owner.
func (s *InquiryService) GetForAccount(ctx context.Context, accountID, inquiryID string) (*models.Inquiry, error) {
	inquiry, err := s.store.GetByID(ctx, inquiryID)
	if err != nil {
		return nil, err
	}
	if inquiry.AccountID != accountID {
		// Existence of other accounts' inquiries is not disclosed.
		return nil, models.ErrNotFound
	}
	return inquiry, nil
}

// ListForAccount returns the account's own inquiries, newest first.
func (s *InquiryService) ListForAccount(ctx context.Context, accountID string, limit, offset int) ([]*models.Inquiry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.ListByAccount(ctx, accountID, limit, offset)
}

// ListAll returns inquiries across all accounts, optionally by status.
// Intended for admin use.
func (s *InquiryService) ListAll(ctx context.Context, status string, limit, offset int) ([]*models.Inquiry, error) {
	if status != "" && !models.ValidInquiryStatus(status) {
		verrs := &models.ValidationErrors{}
		verrs.Add("status", "must be one of: new, in_progress, completed, cancelled")
		return nil, verrs
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.List(ctx, status, limit, offset)
}

// UpdateStatus moves an inquiry along its workflow. Illegal transitions,
// including any move out of a terminal status, are rejected.
func (s *InquiryService) UpdateStatus(ctx context.Context, inquiryID, status string) (*models.Inquiry, error) {
	if !models.ValidInquiryStatus(status) {
		verrs := &models.ValidationErrors{}
		verrs.Add("status", "must be one of: new, in_progress, completed, cancelled")
		return nil, verrs
	}

	inquiry, err := s.store.GetByID(ctx, inquiryID)
	if err != nil {
		return nil, err
	}

	if !inquiry.CanTransitionTo(status) {
		verrs := &models.ValidationErrors{}
		verrs.Add("status", fmt.Sprintf("cannot move from %s to %s", inquiry.Status, status))
		return nil, verrs
	}

	updated, err := s.store.UpdateStatus(ctx, inquiryID, status)
	if err != nil {
		s.logger.Error("failed to update inquiry status",
			slog.String("inquiry_id", inquiryID),
			slog.Any("error", err))
		return nil, err
	}

	s.logger.Info("inquiry status updated",
		slog.String("inquiry_id", inquiryID),
		slog.String("status", status))

	return updated, nil
}
