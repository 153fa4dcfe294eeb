// Package handler exposes the orders HTTP endpoints.
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"convosell_backend/internal/orders/repository"
	"convosell_backend/internal/orders/service"
	"convosell_backend/internal/orders/transport"
	"convosell_backend/platform/httpkit"
	"convosell_backend/platform/logger"
	"convosell_backend/platform/validator"
)

// Handler serves the orders endpoints.
type Handler struct {
	svc      *service.Service
	validate *validator.Validator
	log      *logger.Logger
}

// New creates the orders handler.
func New(svc *service.Service, validate *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{svc: svc, validate: validate, log: log}
}

// Create handles POST /orders.
func (h *Handler) Create(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)

	var req transport.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err.Error())
		return
	}

	agentID, err := uuid.Parse(req.AgentID)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid agent id", nil)
		return
	}

	var conversationID *uuid.UUID
	if req.ConversationID != "" {
		parsed, err := uuid.Parse(req.ConversationID)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid conversation id", nil)
			return
		}
		conversationID = &parsed
	}

	items := make([]repository.Item, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, repository.Item{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Image:     item.Image,
		})
	}

	country := req.ShippingAddress.Country
	if country == "" {
		country = "USA"
	}

	order, err := h.svc.Create(c.Request.Context(), identity.UserID(), service.CreateParams{
		AgentID:        agentID,
		ConversationID: conversationID,
		CustomerName:   req.CustomerName,
		CustomerEmail:  req.CustomerEmail,
		CustomerPhone:  req.CustomerPhone,
		ShippingAddress: repository.ShippingAddress{
			Street:  req.ShippingAddress.Street,
			City:    req.ShippingAddress.City,
			State:   req.ShippingAddress.State,
			Zip:     req.ShippingAddress.Zip,
			Country: country,
		},
		Items:         items,
		TotalAmount:   req.TotalAmount,
		Currency:      req.Currency,
		CustomerNotes: req.CustomerNotes,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		httpkit.HandleError(c, h.log, err)
		return
	}

	httpkit.OK(c, http.StatusCreated, toOrderResponse(order))
}

// List handles GET /orders with optional agentId, status, limit and offset
// query parameters.
func (h *Handler) List(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)

	filter := repository.ListFilter{Status: c.Query("status")}
	if raw := c.Query("agentId"); raw != "" {
		agentID, err := uuid.Parse(raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid agent id", nil)
			return
		}
		filter.AgentID = &agentID
	}
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	orders, total, err := h.svc.List(c.Request.Context(), identity.UserID(), filter)
	if err != nil {
		httpkit.HandleError(c, h.log, err)
		return
	}

	responses := make([]transport.OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, toOrderResponse(&orders[i]))
	}
	httpkit.OK(c, http.StatusOK, transport.OrderListResponse{
		Orders: responses,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

// Get handles GET /orders/:id.
func (h *Handler) Get(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid order id", nil)
		return
	}

	order, err := h.svc.Get(c.Request.Context(), identity.UserID(), id)
	if err != nil {
		httpkit.HandleError(c, h.log, err)
		return
	}

	httpkit.OK(c, http.StatusOK, toOrderResponse(order))
}

// UpdateStatus handles PATCH /orders/:id/status.
func (h *Handler) UpdateStatus(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid order id", nil)
		return
	}

	var req transport.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err.Error())
		return
	}

	order, err := h.svc.UpdateStatus(c.Request.Context(), identity.UserID(), id, service.UpdateStatusParams{
		Status:            req.Status,
		TrackingNumber:    req.TrackingNumber,
		Carrier:           req.Carrier,
		EstimatedDelivery: req.EstimatedDelivery,
		Note:              req.Note,
	})
	if err != nil {
		httpkit.HandleError(c, h.log, err)
		return
	}

	httpkit.OK(c, http.StatusOK, toOrderResponse(order))
}

// Track handles GET /public/orders/track/:orderNumber. No authentication.
func (h *Handler) Track(c *gin.Context) {
	tracking, err := h.svc.Track(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		httpkit.HandleError(c, h.log, err)
		return
	}

	timeline := make([]transport.TimelineEntryResponse, 0, len(tracking.Timeline))
	for _, entry := range tracking.Timeline {
		timeline = append(timeline, transport.TimelineEntryResponse{
			Status:    entry.Status,
			Completed: entry.Completed,
			Current:   entry.Current,
			Date:      entry.Date,
			Note:      entry.Note,
		})
	}

	httpkit.OK(c, http.StatusOK, transport.TrackingResponse{
		OrderNumber:       tracking.OrderNumber,
		Status:            tracking.Status,
		CustomerName:      tracking.CustomerName,
		Items:             toItemResponses(tracking.Items),
		TotalAmount:       tracking.TotalAmount,
		Currency:          tracking.Currency,
		TrackingNumber:    tracking.TrackingNumber,
		Carrier:           tracking.Carrier,
		EstimatedDelivery: tracking.EstimatedDelivery,
		CreatedAt:         tracking.CreatedAt,
		ShippingAddress:   toAddressResponse(tracking.ShippingAddress),
		StatusTimeline:    timeline,
	})
}

// Stats handles GET /orders/stats/summary with an optional agentId query
// parameter.
func (h *Handler) Stats(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)

	var agentID *uuid.UUID
	if raw := c.Query("agentId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid agent id", nil)
			return
		}
		agentID = &parsed
	}

	stats, err := h.svc.GetStats(c.Request.Context(), identity.UserID(), agentID)
	if err != nil {
		httpkit.HandleError(c, h.log, err)
		return
	}

	httpkit.OK(c, http.StatusOK, transport.OrderStatsResponse{
		TotalOrders:      stats.TotalOrders,
		TotalRevenue:     stats.TotalRevenue,
		PendingOrders:    stats.PendingOrders,
		ProcessingOrders: stats.ProcessingOrders,
		ShippedOrders:    stats.ShippedOrders,
		DeliveredOrders:  stats.DeliveredOrders,
		CancelledOrders:  stats.CancelledOrders,
		AvgOrderValue:    stats.AvgOrderValue,
	})
}

func toOrderResponse(order *repository.Order) transport.OrderResponse {
	history := make([]transport.StatusHistoryEntry, 0, len(order.StatusHistory))
	for _, entry := range order.StatusHistory {
		history = append(history, transport.StatusHistoryEntry{
			Status:    entry.Status,
			Timestamp: entry.Timestamp,
			Note:      entry.Note,
		})
	}

	resp := transport.OrderResponse{
		ID:                order.ID.String(),
		OrderNumber:       order.OrderNumber,
		AgentID:           order.AgentID.String(),
		CustomerName:      order.CustomerName,
		CustomerEmail:     order.CustomerEmail,
		CustomerPhone:     order.CustomerPhone,
		ShippingAddress:   toAddressResponse(order.ShippingAddress),
		Items:             toItemResponses(order.Items),
		TotalAmount:       order.TotalAmount,
		Currency:          order.Currency,
		CustomerNotes:     order.CustomerNotes,
		PaymentMethod:     order.PaymentMethod,
		Status:            order.Status,
		PaymentStatus:     order.PaymentStatus,
		StatusHistory:     history,
		TrackingNumber:    order.TrackingNumber,
		Carrier:           order.Carrier,
		EstimatedDelivery: order.EstimatedDelivery,
		DeliveredAt:       order.DeliveredAt,
		CreatedAt:         order.CreatedAt,
		UpdatedAt:         order.UpdatedAt,
	}
	if order.ConversationID != nil {
		resp.ConversationID = order.ConversationID.String()
	}
	return resp
}

func toItemResponses(items []repository.Item) []transport.OrderItemResponse {
	responses := make([]transport.OrderItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, transport.OrderItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Image:     item.Image,
		})
	}
	return responses
}

func toAddressResponse(addr repository.ShippingAddress) transport.ShippingAddressResponse {
	return transport.ShippingAddressResponse{
		Street:  addr.Street,
		City:    addr.City,
		State:   addr.State,
		Zip:     addr.Zip,
		Country: addr.Country,
	}
}
