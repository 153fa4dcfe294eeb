// Package service implements order management and public tracking.
package service

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"convosell_backend/internal/events"
	"convosell_backend/internal/orders/repository"
	"convosell_backend/platform/apperr"
	"convosell_backend/platform/logger"
)

const (
	defaultCurrency = "USD"
	// orderNumberAttempts bounds the retry loop on number collisions.
	orderNumberAttempts = 5
)

// AgentGuard verifies that a user owns an agent before attaching orders.
type AgentGuard interface {
	OwnsAgent(ctx context.Context, ownerID, agentID uuid.UUID) error
}

// Service implements order operations, scoped to the owning user.
type Service struct {
	repo  *repository.Repository
	guard AgentGuard
	bus   events.Bus
	log   *logger.Logger
}

// New creates the orders service.
func New(repo *repository.Repository, guard AgentGuard, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, guard: guard, bus: bus, log: log}
}

// CreateParams holds the fields for placing an order.
type CreateParams struct {
	AgentID         uuid.UUID
	ConversationID  *uuid.UUID
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	ShippingAddress repository.ShippingAddress
	Items           []repository.Item
	TotalAmount     float64
	Currency        string
	CustomerNotes   string
	PaymentMethod   string
}

// Create places a new order in pending state. Order numbers are random; a
// collision with an existing number is retried with a fresh one.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, params CreateParams) (*repository.Order, error) {
	if err := s.guard.OwnsAgent(ctx, ownerID, params.AgentID); err != nil {
		return nil, err
	}
	if len(params.Items) == 0 {
		return nil, apperr.BadRequest("order must contain at least one item")
	}

	currency := params.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	history := []repository.StatusEntry{{
		Status:    repository.StatusPending,
		Timestamp: time.Now().UTC(),
		Note:      "Order created",
	}}

	var order *repository.Order
	var err error
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		order, err = s.repo.Create(ctx, repository.CreateParams{
			OrderNumber:     generateOrderNumber(),
			OwnerID:         ownerID,
			AgentID:         params.AgentID,
			ConversationID:  params.ConversationID,
			CustomerName:    params.CustomerName,
			CustomerEmail:   params.CustomerEmail,
			CustomerPhone:   params.CustomerPhone,
			ShippingAddress: params.ShippingAddress,
			Items:           params.Items,
			TotalAmount:     params.TotalAmount,
			Currency:        currency,
			CustomerNotes:   params.CustomerNotes,
			PaymentMethod:   params.PaymentMethod,
			StatusHistory:   history,
		})
		if err == nil || !apperr.Is(err, apperr.KindConflict) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("order created", "order_number", order.OrderNumber, "agent_id", order.AgentID.String())
	s.bus.Publish(ctx, events.OrderCreated{
		BaseEvent:     events.NewBaseEvent(),
		OrderID:       order.ID,
		AgentID:       order.AgentID,
		OrderNumber:   order.OrderNumber,
		CustomerEmail: order.CustomerEmail,
		TotalCents:    int64(math.Round(order.TotalAmount * 100)),
	})
	return order, nil
}

// Get returns an order scoped to its owner.
func (s *Service) Get(ctx context.Context, ownerID, id uuid.UUID) (*repository.Order, error) {
	return s.repo.GetByID(ctx, ownerID, id)
}

// List returns an owner's orders with the unpaginated total.
func (s *Service) List(ctx context.Context, ownerID uuid.UUID, filter repository.ListFilter) ([]repository.Order, int, error) {
	if filter.Status != "" && !repository.ValidStatus(filter.Status) {
		return nil, 0, apperr.BadRequest("invalid status filter")
	}
	return s.repo.List(ctx, ownerID, filter)
}

// UpdateStatusParams holds the fields for a status transition.
type UpdateStatusParams struct {
	Status            string
	TrackingNumber    *string
	Carrier           *string
	EstimatedDelivery *string
	Note              string
}

// UpdateStatus transitions an order and records the change in its history.
func (s *Service) UpdateStatus(ctx context.Context, ownerID, id uuid.UUID, params UpdateStatusParams) (*repository.Order, error) {
	if !repository.ValidStatus(params.Status) {
		return nil, apperr.BadRequest("invalid status, must be one of: pending, confirmed, processing, packaged, shipped, delivered, cancelled")
	}

	order, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	history := append(order.StatusHistory, repository.StatusEntry{
		Status:    params.Status,
		Timestamp: time.Now().UTC(),
		Note:      params.Note,
	})

	var deliveredAt *time.Time
	if params.Status == repository.StatusDelivered {
		now := time.Now().UTC()
		deliveredAt = &now
	}

	updated, err := s.repo.UpdateStatus(ctx, repository.UpdateStatusParams{
		ID:                order.ID,
		Status:            params.Status,
		StatusHistory:     history,
		TrackingNumber:    params.TrackingNumber,
		Carrier:           params.Carrier,
		EstimatedDelivery: params.EstimatedDelivery,
		DeliveredAt:       deliveredAt,
	})
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.OrderStatusChanged{
		BaseEvent:   events.NewBaseEvent(),
		OrderID:     updated.ID,
		AgentID:     updated.AgentID,
		OrderNumber: updated.OrderNumber,
		OldStatus:   order.Status,
		NewStatus:   updated.Status,
	})
	return updated, nil
}

// TimelineEntry is one step of the public tracking timeline.
type TimelineEntry struct {
	Status    string
	Completed bool
	Current   bool
	Date      string
	Note      string
}

// Tracking is the privacy-reduced public view of one order.
type Tracking struct {
	OrderNumber       string
	Status            string
	CustomerName      string
	Items             []repository.Item
	TotalAmount       float64
	Currency          string
	TrackingNumber    string
	Carrier           string
	EstimatedDelivery string
	CreatedAt         time.Time
	ShippingAddress   repository.ShippingAddress
	Timeline          []TimelineEntry
}

var statusLabels = map[string]string{
	repository.StatusPending:    "Order Placed",
	repository.StatusConfirmed:  "Order Confirmed",
	repository.StatusProcessing: "Processing",
	repository.StatusPackaged:   "Packaged",
	repository.StatusShipped:    "Shipped",
	repository.StatusDelivered:  "Delivered",
}

// Track returns the public tracking view for an order number. No
// authentication; the customer name is reduced to first name plus last
// initial.
func (s *Service) Track(ctx context.Context, orderNumber string) (*Tracking, error) {
	order, err := s.repo.GetByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	timeline := make([]TimelineEntry, 0, len(repository.FulfillmentStatuses))
	for _, status := range repository.FulfillmentStatuses {
		var recorded *repository.StatusEntry
		for i := range order.StatusHistory {
			if order.StatusHistory[i].Status == status {
				recorded = &order.StatusHistory[i]
				break
			}
		}

		entry := TimelineEntry{
			Status:    statusLabels[status],
			Completed: recorded != nil,
			Current:   status == order.Status,
		}
		if recorded != nil {
			entry.Date = recorded.Timestamp.Format(time.RFC3339)
			entry.Note = recorded.Note
		} else if status == repository.StatusDelivered && order.Status != repository.StatusDelivered {
			entry.Date = order.EstimatedDelivery
			entry.Note = "Expected"
		}
		timeline = append(timeline, entry)
	}

	return &Tracking{
		OrderNumber:       order.OrderNumber,
		Status:            order.Status,
		CustomerName:      safeCustomerName(order.CustomerName),
		Items:             order.Items,
		TotalAmount:       order.TotalAmount,
		Currency:          order.Currency,
		TrackingNumber:    order.TrackingNumber,
		Carrier:           order.Carrier,
		EstimatedDelivery: order.EstimatedDelivery,
		CreatedAt:         order.CreatedAt,
		ShippingAddress:   order.ShippingAddress,
		Timeline:          timeline,
	}, nil
}

// Stats describes order volume and revenue for an owner.
type Stats struct {
	repository.Stats
	AvgOrderValue float64
}

// GetStats aggregates an owner's orders, optionally narrowed to one agent.
func (s *Service) GetStats(ctx context.Context, ownerID uuid.UUID, agentID *uuid.UUID) (*Stats, error) {
	if agentID != nil {
		if err := s.guard.OwnsAgent(ctx, ownerID, *agentID); err != nil {
			return nil, err
		}
	}

	stats, err := s.repo.Stats(ctx, ownerID, agentID)
	if err != nil {
		return nil, err
	}

	result := &Stats{Stats: *stats}
	if stats.TotalOrders > 0 {
		result.AvgOrderValue = round2(stats.TotalRevenue / float64(stats.TotalOrders))
	}
	result.TotalRevenue = round2(result.TotalRevenue)
	return result, nil
}

// generateOrderNumber renders ORD-YYYY-NNNNNN with a random six digit
// suffix. Uniqueness is enforced by the database.
func generateOrderNumber() string {
	return fmt.Sprintf("ORD-%d-%06d", time.Now().Year(), rand.IntN(999999)+1)
}

// safeCustomerName reduces a full name to first name plus last initial.
func safeCustomerName(name string) string {
	parts := strings.Fields(name)
	if len(parts) < 2 {
		return name
	}
	last := []rune(parts[len(parts)-1])
	return parts[0] + " " + string(last[0]) + "."
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
