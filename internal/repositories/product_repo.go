package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/partsdesk/partsdesk/internal/clock"
	"github.com/partsdesk/partsdesk/internal/database"
	"github.com/partsdesk/partsdesk/internal/models"
)

const productColumns = `id, name, oem_number, description, price, category, brand, images,
	availability, is_active, created_at, updated_at`

type ProductRepository struct {
	db  *database.DB
	clk clock.Clock
}

func NewProductRepository(db *database.DB, clk clock.Clock) *ProductRepository {
	return &ProductRepository{db: db, clk: clk}
}

func scanProductRow(scanner rowScanner) (*models.Product, error) {
	var p models.Product
	err := scanner.Scan(
		&p.ID, &p.Name, &p.OEMNumber, &p.Description, &p.Price,
		&p.Category, &p.Brand, pq.Array(&p.Images),
		&p.Availability, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &p, nil
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	product.ID = uuid.New().String()

	now := r.clk.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	if product.Availability == "" {
		product.Availability = models.AvailabilityInStock
	}

	query := `
		INSERT INTO products (id, name, oem_number, description, price, category, brand,
			images, availability, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + productColumns

	return scanProductRow(r.db.Pool.QueryRow(ctx, query,
		product.ID, product.Name, product.OEMNumber, product.Description,
		product.Price, product.Category, product.Brand,
		pq.Array(product.Images), product.Availability, product.IsActive,
		product.CreatedAt, product.UpdatedAt,
	))
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return scanProductRow(r.db.Pool.QueryRow(ctx, query, id))
}

func (r *ProductRepository) GetByOEMNumber(ctx context.Context, oemNumber string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE oem_number = $1`
	return scanProductRow(r.db.Pool.QueryRow(ctx, query, oemNumber))
}

// List returns active products, optionally filtered by category and brand.
func (r *ProductRepository) List(ctx context.Context, category, brand string, limit, offset int) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products
		WHERE is_active = TRUE
		  AND ($1 = '' OR category = $1)
		  AND ($2 = '' OR brand = $2)
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`

	rows, err := r.db.Pool.Query(ctx, query, category, brand, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]*models.Product, 0)
	for rows.Next() {
		product, err := scanProductRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) Update(ctx context.Context, id string, product *models.Product) (*models.Product, error) {
	product.UpdatedAt = r.clk.Now()

	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, category = $5, brand = $6,
		    images = $7, availability = $8, is_active = $9, updated_at = $10
		WHERE id = $1
		RETURNING ` + productColumns

	return scanProductRow(r.db.Pool.QueryRow(ctx, query,
		id, product.Name, product.Description, product.Price,
		product.Category, product.Brand, pq.Array(product.Images),
		product.Availability, product.IsActive, product.UpdatedAt,
	))
}

// Delete deactivates a product rather than removing the row, so existing
// inquiries keep a valid reference.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	query := `UPDATE products SET is_active = FALSE, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
