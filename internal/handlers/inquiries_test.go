package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partsdesk/partsdesk/internal/auth"
	"github.com/partsdesk/partsdesk/internal/models"
	"github.com/partsdesk/partsdesk/internal/services"
)

type mockInquiryService struct {
	SubmitFunc         func(ctx context.Context, accountID string, input services.InquiryInput) (*models.Inquiry, error)
	GetForAccountFunc  func(ctx context.Context, accountID, inquiryID string) (*models.Inquiry, error)
	ListForAccountFunc func(ctx context.Context, accountID string, limit, offset int) ([]*models.Inquiry, error)
	ListAllFunc        func(ctx context.Context, status string, limit, offset int) ([]*models.Inquiry, error)
	UpdateStatusFunc   func(ctx context.Context, inquiryID, status string) (*models.Inquiry, error)
}

func (m *mockInquiryService) Submit(ctx context.Context, accountID string, input services.InquiryInput) (*models.Inquiry, error) {
	return m.SubmitFunc(ctx, accountID, input)
}

func (m *mockInquiryService) GetForAccount(ctx context.Context, accountID, inquiryID string) (*models.Inquiry, error) {
	return m.GetForAccountFunc(ctx, accountID, inquiryID)
}

func (m *mockInquiryService) ListForAccount(ctx context.Context, accountID string, limit, offset int) ([]*models.Inquiry, error) {
	return m.ListForAccountFunc(ctx, accountID, limit, offset)
}

func (m *mockInquiryService) ListAll(ctx context.Context, status string, limit, offset int) ([]*models.Inquiry, error) {
	return m.ListAllFunc(ctx, status, limit, offset)
}

func (m *mockInquiryService) UpdateStatus(ctx context.Context, inquiryID, status string) (*models.Inquiry, error) {
	return m.UpdateStatusFunc(ctx, inquiryID, status)
}

func authedRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()

	var req *http.Request
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, target, bytes.NewReader(buf))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	claims := &models.SessionClaims{AccountID: "acc-1", Email: "buyer@warsztat.pl", Role: models.RoleUser}
	ctx := context.WithValue(req.Context(), auth.SessionContextKey, claims)
	return req.WithContext(ctx)
}

func TestInquirySubmitHandler_Created(t *testing.T) {
	svc := &mockInquiryService{
		SubmitFunc: func(ctx context.Context, accountID string, input services.InquiryInput) (*models.Inquiry, error) {
			assert.Equal(t, "acc-1", accountID)
			return &models.Inquiry{ID: "inq-1", AccountID: accountID, ProductID: input.ProductID, Quantity: input.Quantity, Status: models.InquiryStatusNew}, nil
		},
	}
	h := NewInquiryHandler(svc)

	req := authedRequest(t, http.MethodPost, "/inquiries", map[string]interface{}{
		"productId": "prod-1",
		"quantity":  3,
	})
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp InquiryResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "inq-1", resp.ID)
	assert.Equal(t, models.InquiryStatusNew, resp.Status)
}

func TestInquirySubmitHandler_RequiresSession(t *testing.T) {
	h := NewInquiryHandler(&mockInquiryService{})

	req := httptest.NewRequest(http.MethodPost, "/inquiries", bytes.NewReader([]byte(`{"productId":"prod-1","quantity":1}`)))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestInquirySubmitHandler_QuantityValidated(t *testing.T) {
	h := NewInquiryHandler(&mockInquiryService{})

	req := authedRequest(t, http.MethodPost, "/inquiries", map[string]interface{}{
		"productId": "prod-1",
		"quantity":  0,
	})
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "quantity")
}

func TestInquiryUpdateStatusHandler_IllegalTransition(t *testing.T) {
	svc := &mockInquiryService{
		UpdateStatusFunc: func(ctx context.Context, inquiryID, status string) (*models.Inquiry, error) {
			verrs := &models.ValidationErrors{}
			verrs.Add("status", "cannot move from completed to in_progress")
			return nil, verrs
		},
	}
	h := NewInquiryHandler(svc)

	req := authedRequest(t, http.MethodPatch, "/admin/inquiries/inq-1/status", map[string]string{
		"status": "in_progress",
	})
	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "status")
}
