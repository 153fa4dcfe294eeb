// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"convosell_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Auth Domain Events
// =============================================================================

// UserSignedUp is published when a new user successfully registers.
type UserSignedUp struct {
	BaseEvent
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
}

func (e UserSignedUp) EventName() string { return "auth.user.signed_up" }

// =============================================================================
// Agent Domain Events
// =============================================================================

// AgentCreated is published when a new sales agent is created.
type AgentCreated struct {
	BaseEvent
	AgentID     uuid.UUID `json:"agentId"`
	OwnerID     uuid.UUID `json:"ownerId"`
	CompanyName string    `json:"companyName"`
}

func (e AgentCreated) EventName() string { return "agents.agent.created" }

// AgentDeleted is published when an agent is removed. Handlers clean up
// dependent resources such as the agent's knowledge base vectors.
type AgentDeleted struct {
	BaseEvent
	AgentID uuid.UUID `json:"agentId"`
	OwnerID uuid.UUID `json:"ownerId"`
}

func (e AgentDeleted) EventName() string { return "agents.agent.deleted" }

// =============================================================================
// Chat Domain Events
// =============================================================================

// ConversationProcessed is published after each completed pipeline run.
// Analytics rollups are driven by this event.
type ConversationProcessed struct {
	BaseEvent
	AgentID        uuid.UUID `json:"agentId"`
	ConversationID uuid.UUID `json:"conversationId"`
	SessionID      string    `json:"sessionId"`
	NewSession     bool      `json:"newSession"`
	Intent         string    `json:"intent,omitempty"`
	ContextUsed    bool      `json:"contextUsed"`
	Degraded       bool      `json:"degraded"`
	LatencyMs      float64   `json:"latencyMs"`
}

func (e ConversationProcessed) EventName() string { return "chat.conversation.processed" }

// LeadCaptured is published when the pipeline extracts new lead contact
// information from a conversation.
type LeadCaptured struct {
	BaseEvent
	AgentID        uuid.UUID `json:"agentId"`
	OwnerID        uuid.UUID `json:"ownerId"`
	ConversationID uuid.UUID `json:"conversationId"`
	SessionID      string    `json:"sessionId"`
	Channel        string    `json:"channel,omitempty"`
	Name           string    `json:"name,omitempty"`
	Email          string    `json:"email,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	InterestLevel  string    `json:"interestLevel,omitempty"`
}

func (e LeadCaptured) EventName() string { return "chat.lead.captured" }

// =============================================================================
// Training Domain Events
// =============================================================================

// TrainingCompleted is published when a training source finishes ingestion.
type TrainingCompleted struct {
	BaseEvent
	AgentID        uuid.UUID `json:"agentId"`
	TrainingDataID uuid.UUID `json:"trainingDataId"`
	SourceType     string    `json:"sourceType"`
	ChunkCount     int       `json:"chunkCount"`
}

func (e TrainingCompleted) EventName() string { return "training.source.completed" }

// TrainingFailed is published when ingestion of a training source fails.
type TrainingFailed struct {
	BaseEvent
	AgentID        uuid.UUID `json:"agentId"`
	TrainingDataID uuid.UUID `json:"trainingDataId"`
	SourceType     string    `json:"sourceType"`
	Reason         string    `json:"reason"`
}

func (e TrainingFailed) EventName() string { return "training.source.failed" }

// =============================================================================
// Order Domain Events
// =============================================================================

// OrderCreated is published when a new order is placed.
type OrderCreated struct {
	BaseEvent
	OrderID       uuid.UUID `json:"orderId"`
	AgentID       uuid.UUID `json:"agentId"`
	OrderNumber   string    `json:"orderNumber"`
	CustomerEmail string    `json:"customerEmail,omitempty"`
	TotalCents    int64     `json:"totalCents"`
}

func (e OrderCreated) EventName() string { return "orders.order.created" }

// OrderStatusChanged is published when an order transitions between statuses.
type OrderStatusChanged struct {
	BaseEvent
	OrderID     uuid.UUID `json:"orderId"`
	AgentID     uuid.UUID `json:"agentId"`
	OrderNumber string    `json:"orderNumber"`
	OldStatus   string    `json:"oldStatus"`
	NewStatus   string    `json:"newStatus"`
}

func (e OrderStatusChanged) EventName() string { return "orders.order.status_changed" }
