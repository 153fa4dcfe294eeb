// Package transport defines request and response DTOs for the orders API.
package transport

import "time"

// ShippingAddressRequest is the delivery address payload.
type ShippingAddressRequest struct {
	Street  string `json:"street" validate:"required,max=200"`
	City    string `json:"city" validate:"required,max=100"`
	State   string `json:"state" validate:"required,max=100"`
	Zip     string `json:"zip" validate:"required,max=20"`
	Country string `json:"country" validate:"omitempty,max=100"`
}

// OrderItemRequest is one order line.
type OrderItemRequest struct {
	ProductID string  `json:"productId" validate:"omitempty,uuid4"`
	Name      string  `json:"name" validate:"required,max=200"`
	Quantity  int     `json:"quantity" validate:"required,min=1"`
	Price     float64 `json:"price" validate:"min=0"`
	Image     string  `json:"image" validate:"omitempty,url"`
}

// CreateOrderRequest is the payload for placing an order.
type CreateOrderRequest struct {
	AgentID         string                 `json:"agentId" validate:"required,uuid4"`
	ConversationID  string                 `json:"conversationId" validate:"omitempty,uuid4"`
	CustomerName    string                 `json:"customerName" validate:"required,max=200"`
	CustomerEmail   string                 `json:"customerEmail" validate:"required,email"`
	CustomerPhone   string                 `json:"customerPhone" validate:"required,max=50"`
	ShippingAddress ShippingAddressRequest `json:"shippingAddress" validate:"required"`
	Items           []OrderItemRequest     `json:"items" validate:"required,min=1,dive"`
	TotalAmount     float64                `json:"totalAmount" validate:"min=0"`
	Currency        string                 `json:"currency" validate:"omitempty,len=3"`
	CustomerNotes   string                 `json:"customerNotes" validate:"omitempty,max=2000"`
	PaymentMethod   string                 `json:"paymentMethod" validate:"omitempty,max=50"`
}

// UpdateOrderStatusRequest is the payload for a status transition.
type UpdateOrderStatusRequest struct {
	Status            string  `json:"status" validate:"required"`
	TrackingNumber    *string `json:"trackingNumber" validate:"omitempty,max=100"`
	Carrier           *string `json:"carrier" validate:"omitempty,max=100"`
	EstimatedDelivery *string `json:"estimatedDelivery" validate:"omitempty,max=100"`
	Note              string  `json:"note" validate:"omitempty,max=500"`
}

// StatusHistoryEntry is one recorded status transition.
type StatusHistoryEntry struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note,omitempty"`
}

// OrderItemResponse is one order line as stored.
type OrderItemResponse struct {
	ProductID string  `json:"productId,omitempty"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Image     string  `json:"image,omitempty"`
}

// ShippingAddressResponse is the stored delivery address.
type ShippingAddressResponse struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

// OrderResponse describes an order for its owner.
type OrderResponse struct {
	ID                string                  `json:"id"`
	OrderNumber       string                  `json:"orderNumber"`
	AgentID           string                  `json:"agentId"`
	ConversationID    string                  `json:"conversationId,omitempty"`
	CustomerName      string                  `json:"customerName"`
	CustomerEmail     string                  `json:"customerEmail"`
	CustomerPhone     string                  `json:"customerPhone"`
	ShippingAddress   ShippingAddressResponse `json:"shippingAddress"`
	Items             []OrderItemResponse     `json:"items"`
	TotalAmount       float64                 `json:"totalAmount"`
	Currency          string                  `json:"currency"`
	CustomerNotes     string                  `json:"customerNotes,omitempty"`
	PaymentMethod     string                  `json:"paymentMethod,omitempty"`
	Status            string                  `json:"status"`
	PaymentStatus     string                  `json:"paymentStatus"`
	StatusHistory     []StatusHistoryEntry    `json:"statusHistory"`
	TrackingNumber    string                  `json:"trackingNumber,omitempty"`
	Carrier           string                  `json:"carrier,omitempty"`
	EstimatedDelivery string                  `json:"estimatedDelivery,omitempty"`
	DeliveredAt       *time.Time              `json:"deliveredAt,omitempty"`
	CreatedAt         time.Time               `json:"createdAt"`
	UpdatedAt         time.Time               `json:"updatedAt"`
}

// OrderListResponse is a paginated order listing.
type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// TimelineEntryResponse is one step of the public tracking timeline.
type TimelineEntryResponse struct {
	Status    string `json:"status"`
	Completed bool   `json:"completed"`
	Current   bool   `json:"current"`
	Date      string `json:"date,omitempty"`
	Note      string `json:"note,omitempty"`
}

// TrackingResponse is the public view of one order.
type TrackingResponse struct {
	OrderNumber       string                  `json:"orderNumber"`
	Status            string                  `json:"status"`
	CustomerName      string                  `json:"customerName"`
	Items             []OrderItemResponse     `json:"items"`
	TotalAmount       float64                 `json:"totalAmount"`
	Currency          string                  `json:"currency"`
	TrackingNumber    string                  `json:"trackingNumber,omitempty"`
	Carrier           string                  `json:"carrier,omitempty"`
	EstimatedDelivery string                  `json:"estimatedDelivery,omitempty"`
	CreatedAt         time.Time               `json:"createdAt"`
	ShippingAddress   ShippingAddressResponse `json:"shippingAddress"`
	StatusTimeline    []TimelineEntryResponse `json:"statusTimeline"`
}

// OrderStatsResponse summarizes order volume and revenue.
type OrderStatsResponse struct {
	TotalOrders      int     `json:"totalOrders"`
	TotalRevenue     float64 `json:"totalRevenue"`
	PendingOrders    int     `json:"pendingOrders"`
	ProcessingOrders int     `json:"processingOrders"`
	ShippedOrders    int     `json:"shippedOrders"`
	DeliveredOrders  int     `json:"deliveredOrders"`
	CancelledOrders  int     `json:"cancelledOrders"`
	AvgOrderValue    float64 `json:"avgOrderValue"`
}
