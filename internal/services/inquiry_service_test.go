package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partsdesk/partsdesk/internal/models"
)

func activeProduct() *models.Product {
	return &models.Product{
		ID:        "prod-1",
		Name:      "Brake Disc Front",
		OEMNumber: "34116792219",
		IsActive:  true,
	}
}

func newInquiryService(inquiries *MockInquiryStore, products *MockProductStore, accounts *MockAccountStore) *InquiryService {
	if products == nil {
		products = &MockProductStore{
			GetByIDFunc: func(ctx context.Context, id string) (*models.Product, error) {
				return activeProduct(), nil
			},
		}
	}
	if accounts == nil {
		accounts = &MockAccountStore{
			GetByIDFunc: func(ctx context.Context, id string) (*models.Account, error) {
				return testAccount(), nil
			},
		}
	}
	return NewInquiryService(inquiries, products, accounts, testLogger())
}

func TestInquirySubmit_SnapshotsContactAndProduct(t *testing.T) {
	var created *models.Inquiry
	inquiries := &MockInquiryStore{
		CreateFunc: func(ctx context.Context, inquiry *models.Inquiry) (*models.Inquiry, error) {
			inquiry.ID = "inq-1"
			inquiry.Status = models.InquiryStatusNew
			created = inquiry
			return inquiry, nil
		},
	}

	svc := newInquiryService(inquiries, nil, nil)

	result, err := svc.Submit(context.Background(), "acc-1", InquiryInput{
		ProductID: "prod-1",
		Quantity:  4,
		Message:   "Need these by Friday",
	})
	require.NoError(t, err)

	assert.Equal(t, "inq-1", result.ID)
	assert.Equal(t, models.InquiryStatusNew, result.Status)
	assert.Equal(t, "Brake Disc Front", created.ProductName)
	assert.Equal(t, "Jan Kowalski", created.ContactName)
	assert.Equal(t, "buyer@warsztat.pl", created.Email)
	assert.Equal(t, "Warsztat Kowalski", created.CompanyName)
	assert.Equal(t, 4, created.Quantity)
}

func TestInquirySubmit_ValidatesInput(t *testing.T) {
	svc := newInquiryService(&MockInquiryStore{}, nil, nil)

	_, err := svc.Submit(context.Background(), "acc-1", InquiryInput{
		ProductID: "",
		Quantity:  0,
	})

	var verrs *models.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	fields := make(map[string]bool)
	for _, f := range verrs.Fields {
		fields[f.Field] = true
	}
	assert.True(t, fields["productId"])
	assert.True(t, fields["quantity"])
}

func TestInquirySubmit_UnknownProduct(t *testing.T) {
	products := &MockProductStore{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Product, error) {
			return nil, models.ErrNotFound
		},
	}

	svc := newInquiryService(&MockInquiryStore{}, products, nil)

	_, err := svc.Submit(context.Background(), "acc-1", InquiryInput{ProductID: "missing", Quantity: 1})

	var verrs *models.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "productId", verrs.Fields[0].Field)
}

func TestInquirySubmit_InactiveProduct(t *testing.T) {
	products := &MockProductStore{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Product, error) {
			product := activeProduct()
			product.IsActive = false
			return product, nil
		},
	}

	svc := newInquiryService(&MockInquiryStore{}, products, nil)

	_, err := svc.Submit(context.Background(), "acc-1", InquiryInput{ProductID: "prod-1", Quantity: 1})

	var verrs *models.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "productId", verrs.Fields[0].Field)
}

func TestInquiryGetForAccount_HidesOthersInquiries(t *testing.T) {
	inquiries := &MockInquiryStore{
		GetByIDFunc: func(ctx context.Context, id string) (*models.Inquiry, error) {
			return &models.Inquiry{ID: id, AccountID: "acc-other"}, nil
		},
	}

	svc := newInquiryService(inquiries, nil, nil)

	_, err := svc.GetForAccount(context.Background(), "acc-1", "inq-1")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestInquiryUpdateStatus_ValidTransitions(t *testing.T) {
	tests := []struct {
		from, to string
	}{
		{models.InquiryStatusNew, models.InquiryStatusInProgress},
		{models.InquiryStatusNew, models.InquiryStatusCancelled},
		{models.InquiryStatusInProgress, models.InquiryStatusCompleted},
		{models.InquiryStatusInProgress, models.InquiryStatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.from+"_to_"+tt.to, func(t *testing.T) {
			inquiries := &MockInquiryStore{
				GetByIDFunc: func(ctx context.Context, id string) (*models.Inquiry, error) {
					return &models.Inquiry{ID: id, Status: tt.from}, nil
				},
				UpdateStatusFunc: func(ctx context.Context, id, status string) (*models.Inquiry, error) {
					return &models.Inquiry{ID: id, Status: status}, nil
				},
			}

			svc := newInquiryService(inquiries, nil, nil)

			updated, err := svc.UpdateStatus(context.Background(), "inq-1", tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.to, updated.Status)
		})
	}
}

func TestInquiryUpdateStatus_RejectsIllegalTransitions(t *testing.T) {
	tests := []struct {
		from, to string
	}{
		{models.InquiryStatusNew, models.InquiryStatusCompleted},
		{models.InquiryStatusCompleted, models.InquiryStatusInProgress},
		{models.InquiryStatusCancelled, models.InquiryStatusNew},
		{models.InquiryStatusInProgress, models.InquiryStatusNew},
	}

	for _, tt := range tests {
		t.Run(tt.from+"_to_"+tt.to, func(t *testing.T) {
			inquiries := &MockInquiryStore{
				GetByIDFunc: func(ctx context.Context, id string) (*models.Inquiry, error) {
					return &models.Inquiry{ID: id, Status: tt.from}, nil
				},
			}

			svc := newInquiryService(inquiries, nil, nil)

			_, err := svc.UpdateStatus(context.Background(), "inq-1", tt.to)

			var verrs *models.ValidationErrors
			require.ErrorAs(t, err, &verrs)
		})
	}
}

func TestInquiryUpdateStatus_UnknownStatus(t *testing.T) {
	svc := newInquiryService(&MockInquiryStore{}, nil, nil)

	_, err := svc.UpdateStatus(context.Background(), "inq-1", "archived")

	var verrs *models.ValidationErrors
	require.ErrorAs(t, err, &verrs)
}

func TestInquiryListAll_RejectsUnknownStatusFilter(t *testing.T) {
	svc := newInquiryService(&MockInquiryStore{}, nil, nil)

	_, err := svc.ListAll(context.Background(), "archived", 20, 0)

	var verrs *models.ValidationErrors
	require.ErrorAs(t, err, &verrs)
}
