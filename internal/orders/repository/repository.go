// Package repository provides data access for orders.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"convosell_backend/platform/apperr"
)

const orderNotFoundMessage = "order not found"

// Order statuses in fulfillment order. Cancelled sits outside the
// progression.
const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusProcessing = "processing"
	StatusPackaged   = "packaged"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// FulfillmentStatuses is the ordered progression rendered in the public
// tracking timeline.
var FulfillmentStatuses = []string{
	StatusPending, StatusConfirmed, StatusProcessing,
	StatusPackaged, StatusShipped, StatusDelivered,
}

// ValidStatus reports whether s is an accepted order status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusPackaged,
		StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// StatusEntry is one status transition, persisted in the history jsonb array.
type StatusEntry struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note,omitempty"`
}

// Item is an order line with a price snapshot taken at order time.
type Item struct {
	ProductID string  `json:"product_id,omitempty"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Image     string  `json:"image,omitempty"`
}

// ShippingAddress is the delivery address, persisted as jsonb.
type ShippingAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

// Order is a customer order placed through an agent conversation.
type Order struct {
	ID                uuid.UUID
	OrderNumber       string
	OwnerID           uuid.UUID
	AgentID           uuid.UUID
	ConversationID    *uuid.UUID
	CustomerName      string
	CustomerEmail     string
	CustomerPhone     string
	ShippingAddress   ShippingAddress
	Items             []Item
	TotalAmount       float64
	Currency          string
	CustomerNotes     string
	PaymentMethod     string
	Status            string
	PaymentStatus     string
	StatusHistory     []StatusEntry
	TrackingNumber    string
	Carrier           string
	EstimatedDelivery string
	DeliveredAt       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CreateParams holds the fields for creating an order.
type CreateParams struct {
	OrderNumber     string
	OwnerID         uuid.UUID
	AgentID         uuid.UUID
	ConversationID  *uuid.UUID
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	ShippingAddress ShippingAddress
	Items           []Item
	TotalAmount     float64
	Currency        string
	CustomerNotes   string
	PaymentMethod   string
	StatusHistory   []StatusEntry
}

// UpdateStatusParams holds the fields for a status transition.
type UpdateStatusParams struct {
	ID                uuid.UUID
	Status            string
	StatusHistory     []StatusEntry
	TrackingNumber    *string
	Carrier           *string
	EstimatedDelivery *string
	DeliveredAt       *time.Time
}

// ListFilter narrows a tenant-scoped order listing.
type ListFilter struct {
	AgentID *uuid.UUID
	Status  string
	Limit   int
	Offset  int
}

// Stats is an aggregate view over a set of orders.
type Stats struct {
	TotalOrders      int
	TotalRevenue     float64
	PendingOrders    int
	ProcessingOrders int
	ShippedOrders    int
	DeliveredOrders  int
	CancelledOrders  int
}

const orderColumns = `id, order_number, owner_id, agent_id, conversation_id, customer_name, customer_email, customer_phone, shipping_address, items, total_amount, currency, customer_notes, payment_method, status, payment_status, status_history, tracking_number, carrier, estimated_delivery, delivered_at, created_at, updated_at`

// Repository provides order persistence backed by Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates an order repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new order in pending state. A duplicate order number
// yields a conflict error; the service retries with a fresh number.
func (r *Repository) Create(ctx context.Context, params CreateParams) (*Order, error) {
	query := `
		INSERT INTO orders (
			id, order_number, owner_id, agent_id, conversation_id,
			customer_name, customer_email, customer_phone,
			shipping_address, items, total_amount, currency,
			customer_notes, payment_method, status, payment_status, status_history
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING ` + orderColumns

	row := r.pool.QueryRow(ctx, query,
		uuid.New(), params.OrderNumber, params.OwnerID, params.AgentID, params.ConversationID,
		params.CustomerName, params.CustomerEmail, params.CustomerPhone,
		params.ShippingAddress, params.Items, params.TotalAmount, params.Currency,
		params.CustomerNotes, params.PaymentMethod, StatusPending, StatusPending, params.StatusHistory,
	)
	order, err := scanOrder(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperr.Conflict("order number already exists")
		}
		return nil, fmt.Errorf("create order: %w", err)
	}
	return order, nil
}

// GetByID returns an order scoped to its owner.
func (r *Repository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND owner_id = $2`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(orderNotFoundMessage)
		}
		return nil, fmt.Errorf("get order by id: %w", err)
	}
	return order, nil
}

// GetByNumber returns an order by its public order number, without an
// ownership check. Used by the anonymous tracking endpoint.
func (r *Repository) GetByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_number = $1`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, orderNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(orderNotFoundMessage)
		}
		return nil, fmt.Errorf("get order by number: %w", err)
	}
	return order, nil
}

// List returns an owner's orders, newest first, with the unpaginated total.
func (r *Repository) List(ctx context.Context, ownerID uuid.UUID, filter ListFilter) ([]Order, int, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	where := `WHERE owner_id = $1`
	args := []interface{}{ownerID}
	if filter.AgentID != nil {
		args = append(args, *filter.AgentID)
		where += fmt.Sprintf(" AND agent_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	args = append(args, limit, filter.Offset)
	query := fmt.Sprintf(
		`SELECT %s FROM orders %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		orderColumns, where, len(args)-1, len(args),
	)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *order)
	}
	return orders, total, rows.Err()
}

// UpdateStatus applies a status transition. Nil tracking pointers leave the
// stored values unchanged.
func (r *Repository) UpdateStatus(ctx context.Context, params UpdateStatusParams) (*Order, error) {
	query := `
		UPDATE orders SET
			status = $2,
			status_history = $3,
			tracking_number = COALESCE($4, tracking_number),
			carrier = COALESCE($5, carrier),
			estimated_delivery = COALESCE($6, estimated_delivery),
			delivered_at = COALESCE($7, delivered_at),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + orderColumns

	row := r.pool.QueryRow(ctx, query,
		params.ID, params.Status, params.StatusHistory,
		params.TrackingNumber, params.Carrier, params.EstimatedDelivery, params.DeliveredAt,
	)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(orderNotFoundMessage)
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}
	return order, nil
}

// Stats aggregates an owner's orders, optionally narrowed to one agent.
func (r *Repository) Stats(ctx context.Context, ownerID uuid.UUID, agentID *uuid.UUID) (*Stats, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(total_amount), 0),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status IN ('confirmed', 'processing', 'packaged')),
			COUNT(*) FILTER (WHERE status = 'shipped'),
			COUNT(*) FILTER (WHERE status = 'delivered'),
			COUNT(*) FILTER (WHERE status = 'cancelled')
		FROM orders
		WHERE owner_id = $1 AND ($2::uuid IS NULL OR agent_id = $2)`

	var stats Stats
	err := r.pool.QueryRow(ctx, query, ownerID, agentID).Scan(
		&stats.TotalOrders, &stats.TotalRevenue,
		&stats.PendingOrders, &stats.ProcessingOrders, &stats.ShippedOrders,
		&stats.DeliveredOrders, &stats.CancelledOrders,
	)
	if err != nil {
		return nil, fmt.Errorf("order stats: %w", err)
	}
	return &stats, nil
}

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.OwnerID, &o.AgentID, &o.ConversationID,
		&o.CustomerName, &o.CustomerEmail, &o.CustomerPhone,
		&o.ShippingAddress, &o.Items, &o.TotalAmount, &o.Currency,
		&o.CustomerNotes, &o.PaymentMethod, &o.Status, &o.PaymentStatus, &o.StatusHistory,
		&o.TrackingNumber, &o.Carrier, &o.EstimatedDelivery, &o.DeliveredAt,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
