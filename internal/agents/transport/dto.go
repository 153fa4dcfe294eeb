// Package transport defines request and response DTOs for the agents API.
package transport

import "time"

// CreateAgentRequest is the payload for creating an agent.
type CreateAgentRequest struct {
	Name               string `json:"name" validate:"required,min=1,max=100"`
	CompanyName        string `json:"companyName" validate:"required,min=1,max=200"`
	CompanyDescription string `json:"companyDescription" validate:"max=2000"`
	Tone               string `json:"tone" validate:"omitempty,oneof=professional friendly casual enthusiastic formal"`
	Language           string `json:"language" validate:"omitempty,len=2"`
	GreetingMessage    string `json:"greetingMessage" validate:"max=500"`
	SalesStrategy      string `json:"salesStrategy" validate:"max=1000"`
}

// UpdateAgentRequest is the payload for partially updating an agent.
type UpdateAgentRequest struct {
	Name               *string `json:"name" validate:"omitempty,min=1,max=100"`
	CompanyDescription *string `json:"companyDescription" validate:"omitempty,max=2000"`
	Tone               *string `json:"tone" validate:"omitempty,oneof=professional friendly casual enthusiastic formal"`
	Language           *string `json:"language" validate:"omitempty,len=2"`
	GreetingMessage    *string `json:"greetingMessage" validate:"omitempty,max=500"`
	SalesStrategy      *string `json:"salesStrategy" validate:"omitempty,max=1000"`
	IsActive           *bool   `json:"isActive"`
}

// AgentResponse describes an agent.
type AgentResponse struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	CompanyName        string    `json:"companyName"`
	CompanyDescription string    `json:"companyDescription,omitempty"`
	Tone               string    `json:"tone"`
	Language           string    `json:"language"`
	GreetingMessage    string    `json:"greetingMessage,omitempty"`
	SalesStrategy      string    `json:"salesStrategy,omitempty"`
	IsActive           bool      `json:"isActive"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// AgentStatsResponse describes an agent's footprint.
type AgentStatsResponse struct {
	AgentID            string `json:"agentId"`
	KnowledgeVectors   int64  `json:"knowledgeVectors"`
	TotalConversations int    `json:"totalConversations"`
}
