// Package transport defines request and response DTOs for the builder API.
package transport

// BuilderTurnRequest is one prior message in the builder conversation.
type BuilderTurnRequest struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

// AgentDraftPayload carries the agent fields collected so far.
type AgentDraftPayload struct {
	Name               string `json:"name,omitempty"`
	CompanyName        string `json:"company_name,omitempty"`
	CompanyDescription string `json:"company_description,omitempty"`
	Tone               string `json:"tone,omitempty"`
	Language           string `json:"language,omitempty"`
	GreetingMessage    string `json:"greeting_message,omitempty"`
	SalesStrategy      string `json:"sales_strategy,omitempty"`
}

// ProductDraftPayload is one drafted catalog entry.
type ProductDraftPayload struct {
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Features    []string `json:"features,omitempty"`
}

// FAQDraftPayload is one drafted question/answer pair.
type FAQDraftPayload struct {
	Question string `json:"question,omitempty"`
	Answer   string `json:"answer,omitempty"`
}

// TrainingDraftPayload holds the drafted training sources.
type TrainingDraftPayload struct {
	URLs []string          `json:"urls,omitempty"`
	FAQs []FAQDraftPayload `json:"faqs,omitempty"`
}

// DraftPayload is the builder state the client echoes back on every turn.
type DraftPayload struct {
	Agent    AgentDraftPayload     `json:"agent"`
	Products []ProductDraftPayload `json:"products,omitempty"`
	Training TrainingDraftPayload  `json:"training"`
	AgentID  string                `json:"agentId,omitempty"`
}

// ConverseRequest is the payload for one builder turn.
type ConverseRequest struct {
	Message string               `json:"message" validate:"required,min=1,max=4000"`
	History []BuilderTurnRequest `json:"history" validate:"omitempty,dive"`
	Draft   DraftPayload         `json:"draft"`
	Phase   string               `json:"phase" validate:"omitempty,oneof=agent_info products training complete"`
}

// AgentSummaryResponse is one existing agent rendered into the conversation.
type AgentSummaryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CompanyName string `json:"companyName"`
	IsActive    bool   `json:"isActive"`
}

// ConverseResponse is the outcome of one builder turn.
type ConverseResponse struct {
	Response   string                 `json:"response"`
	Draft      DraftPayload           `json:"draft"`
	Phase      string                 `json:"phase"`
	IsComplete bool                   `json:"isComplete"`
	AgentID    string                 `json:"agentId,omitempty"`
	Agents     []AgentSummaryResponse `json:"agents,omitempty"`
}
