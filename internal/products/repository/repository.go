// Package repository provides data access for products.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"convosell_backend/platform/apperr"
)

const productNotFoundMessage = "product not found"

// Product is a catalog item attached to an agent.
type Product struct {
	ID                  uuid.UUID
	AgentID             uuid.UUID
	Name                string
	Description         string
	DetailedDescription string
	Price               *float64
	Currency            string
	ImageURL            string
	Category            string
	Features            []string
	Specifications      map[string]interface{}
	StockStatus         string
	SKU                 string
	IsFeatured          bool
	IsActive            bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// CreateParams holds the fields for creating a product.
type CreateParams struct {
	AgentID             uuid.UUID
	Name                string
	Description         string
	DetailedDescription string
	Price               *float64
	Currency            string
	ImageURL            string
	Category            string
	Features            []string
	Specifications      map[string]interface{}
	StockStatus         string
	SKU                 string
	IsFeatured          bool
	IsActive            bool
}

// UpdateParams holds the patch fields for updating a product.
// Nil pointers leave the column unchanged.
type UpdateParams struct {
	AgentID             uuid.UUID
	ID                  uuid.UUID
	Name                *string
	Description         *string
	DetailedDescription *string
	Price               *float64
	Currency            *string
	ImageURL            *string
	Category            *string
	Features            []string
	Specifications      map[string]interface{}
	StockStatus         *string
	SKU                 *string
	IsFeatured          *bool
	IsActive            *bool
}

const productColumns = `id, agent_id, name, description, detailed_description, price, currency, image_url, category, features, specifications, stock_status, sku, is_featured, is_active, created_at, updated_at`

// Repository provides product persistence backed by Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a product repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new product under an agent.
func (r *Repository) Create(ctx context.Context, params CreateParams) (*Product, error) {
	query := `
		INSERT INTO products (id, agent_id, name, description, detailed_description, price, currency, image_url, category, features, specifications, stock_status, sku, is_featured, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + productColumns

	row := r.pool.QueryRow(ctx, query,
		uuid.New(), params.AgentID, params.Name, params.Description, params.DetailedDescription,
		params.Price, params.Currency, params.ImageURL, params.Category,
		params.Features, params.Specifications, params.StockStatus, params.SKU,
		params.IsFeatured, params.IsActive,
	)
	product, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

// GetByID returns a product belonging to an agent.
func (r *Repository) GetByID(ctx context.Context, agentID, id uuid.UUID) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND agent_id = $2`

	product, err := scanProduct(r.pool.QueryRow(ctx, query, id, agentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(productNotFoundMessage)
		}
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return product, nil
}

// ListByAgent returns an agent's products, featured first then newest.
func (r *Repository) ListByAgent(ctx context.Context, agentID uuid.UUID, activeOnly bool) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE agent_id = $1`
	if activeOnly {
		query += ` AND is_active = true`
	}
	query += ` ORDER BY is_featured DESC, created_at DESC`

	rows, err := r.pool.Query(ctx, query, agentID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

// Update applies a partial update to a product.
// Features and Specifications replace the stored value only when non-nil.
func (r *Repository) Update(ctx context.Context, params UpdateParams) (*Product, error) {
	query := `
		UPDATE products SET
			name = COALESCE($3, name),
			description = COALESCE($4, description),
			detailed_description = COALESCE($5, detailed_description),
			price = COALESCE($6, price),
			currency = COALESCE($7, currency),
			image_url = COALESCE($8, image_url),
			category = COALESCE($9, category),
			features = COALESCE($10, features),
			specifications = COALESCE($11, specifications),
			stock_status = COALESCE($12, stock_status),
			sku = COALESCE($13, sku),
			is_featured = COALESCE($14, is_featured),
			is_active = COALESCE($15, is_active),
			updated_at = now()
		WHERE id = $1 AND agent_id = $2
		RETURNING ` + productColumns

	row := r.pool.QueryRow(ctx, query,
		params.ID, params.AgentID, params.Name, params.Description, params.DetailedDescription,
		params.Price, params.Currency, params.ImageURL, params.Category,
		params.Features, params.Specifications, params.StockStatus, params.SKU,
		params.IsFeatured, params.IsActive,
	)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(productNotFoundMessage)
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return product, nil
}

// Delete removes a product belonging to an agent.
func (r *Repository) Delete(ctx context.Context, agentID, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1 AND agent_id = $2`, id, agentID)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(productNotFoundMessage)
	}
	return nil
}

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(
		&p.ID, &p.AgentID, &p.Name, &p.Description, &p.DetailedDescription,
		&p.Price, &p.Currency, &p.ImageURL, &p.Category,
		&p.Features, &p.Specifications, &p.StockStatus, &p.SKU,
		&p.IsFeatured, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
