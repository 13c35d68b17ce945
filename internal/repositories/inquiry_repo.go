package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/partsdesk/partsdesk/internal/clock"
	"github.com/partsdesk/partsdesk/internal/database"
	"github.com/partsdesk/partsdesk/internal/models"
)

const inquiryColumns = `id, account_id, product_id, product_name, contact_name, email, phone,
	company_name, quantity, message, status, created_at, updated_at`

type InquiryRepository struct {
	db  *database.DB
	clk clock.Clock
}

func NewInquiryRepository(db *database.DB, clk clock.Clock) *InquiryRepository {
	return &InquiryRepository{db: db, clk: clk}
}

func scanInquiryRow(scanner rowScanner) (*models.Inquiry, error) {
	var i models.Inquiry
	err := scanner.Scan(
		&i.ID, &i.AccountID, &i.ProductID, &i.ProductName,
		&i.ContactName, &i.Email, &i.Phone, &i.CompanyName,
		&i.Quantity, &i.Message, &i.Status, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &i, nil
}

func (r *InquiryRepository) Create(ctx context.Context, inquiry *models.Inquiry) (*models.Inquiry, error) {
	inquiry.ID = uuid.New().String()
	inquiry.Status = models.InquiryStatusNew

	now := r.clk.Now()
	inquiry.CreatedAt = now
	inquiry.UpdatedAt = now

	query := `
		INSERT INTO inquiries (id, account_id, product_id, product_name, contact_name, email,
			phone, company_name, quantity, message, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + inquiryColumns

	return scanInquiryRow(r.db.Pool.QueryRow(ctx, query,
		inquiry.ID, inquiry.AccountID, inquiry.ProductID, inquiry.ProductName,
		inquiry.ContactName, inquiry.Email, inquiry.Phone, inquiry.CompanyName,
		inquiry.Quantity, inquiry.Message, inquiry.Status,
		inquiry.CreatedAt, inquiry.UpdatedAt,
	))
}

func (r *InquiryRepository) GetByID(ctx context.Context, id string) (*models.Inquiry, error) {
	query := `SELECT ` + inquiryColumns + ` FROM inquiries WHERE id = $1`
	return scanInquiryRow(r.db.Pool.QueryRow(ctx, query, id))
}

func (r *InquiryRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*models.Inquiry, error) {
	query := `SELECT ` + inquiryColumns + `
		FROM inquiries WHERE account_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.queryInquiries(ctx, query, accountID, limit, offset)
}

func (r *InquiryRepository) List(ctx context.Context, status string, limit, offset int) ([]*models.Inquiry, error) {
	query := `SELECT ` + inquiryColumns + `
		FROM inquiries
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.queryInquiries(ctx, query, status, limit, offset)
}

func (r *InquiryRepository) queryInquiries(ctx context.Context, query string, args ...interface{}) ([]*models.Inquiry, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query inquiries: %w", err)
	}
	defer rows.Close()

	inquiries := make([]*models.Inquiry, 0)
	for rows.Next() {
		inquiry, err := scanInquiryRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inquiry: %w", err)
		}
		inquiries = append(inquiries, inquiry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return inquiries, nil
}

func (r *InquiryRepository) UpdateStatus(ctx context.Context, id, status string) (*models.Inquiry, error) {
	query := `
		UPDATE inquiries SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + inquiryColumns

	return scanInquiryRow(r.db.Pool.QueryRow(ctx, query, id, status))
}
