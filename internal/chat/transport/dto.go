// Package transport defines request and response DTOs for the chat API.
package transport

import "time"

// ChatRequest is the payload for a session-backed chat message.
type ChatRequest struct {
	AgentID   string `json:"agentId" validate:"required,uuid4"`
	Message   string `json:"message" validate:"required,min=1,max=4000"`
	SessionID string `json:"sessionId" validate:"omitempty,max=100"`
	Channel   string `json:"channel" validate:"omitempty,oneof=web widget api"`
	Language  string `json:"language" validate:"omitempty,len=2"`
}

// ChatResponse is the reply to a session-backed chat message.
type ChatResponse struct {
	Message   string       `json:"message"`
	SessionID string       `json:"sessionId"`
	AgentID   string       `json:"agentId"`
	Metadata  ChatMetadata `json:"metadata"`
}

// ChatMetadata carries per-message pipeline outcomes.
type ChatMetadata struct {
	Intent       string `json:"intent,omitempty"`
	ContextUsed  bool   `json:"contextUsed"`
	LeadCaptured bool   `json:"leadCaptured"`
}

// WidgetMessageRequest is the payload for the stateless widget endpoint.
type WidgetMessageRequest struct {
	Message  string `json:"message" validate:"required,min=1,max=4000"`
	Language string `json:"language" validate:"omitempty,len=2"`
}

// WidgetMessageResponse is the reply to a widget message.
type WidgetMessageResponse struct {
	Response  string        `json:"response"`
	SessionID string        `json:"sessionId"`
	AgentID   string        `json:"agentId"`
	Intent    string        `json:"intent,omitempty"`
	Lead      *LeadResponse `json:"leadInfo,omitempty"`
}

// LeadResponse describes captured lead contact data.
type LeadResponse struct {
	Name          string `json:"name,omitempty"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	InterestLevel string `json:"interestLevel,omitempty"`
}

// MessageResponse is a single transcript turn.
type MessageResponse struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationResponse describes a stored conversation.
type ConversationResponse struct {
	ID        string            `json:"id"`
	AgentID   string            `json:"agentId"`
	SessionID string            `json:"sessionId"`
	Channel   string            `json:"channel"`
	Messages  []MessageResponse `json:"messages"`
	Lead      *LeadResponse     `json:"leadInfo,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}
