// Package pipeline implements the conversation pipeline: a fixed sequence of
// stages that turns one inbound user message into one sales response. Stages
// are greeting check, intent classification, context retrieval, response
// generation, and lead qualification. Every stage degrades gracefully; the
// pipeline never returns an error to its caller.
package pipeline

import "time"

// Message is a single conversation turn.
type Message struct {
	Role    string `json:"role"` // "user", "assistant" or "system"
	Content string `json:"content"`
}

// Product is a catalog entry rendered into the persona prompt.
type Product struct {
	Name        string
	Description string
	Price       *float64
	Currency    string
	Features    []string
	StockStatus string
}

// AgentProfile is a read-only snapshot of the agent's configuration, valid
// for the duration of one pipeline invocation.
type AgentProfile struct {
	CompanyName        string
	CompanyDescription string
	Products           []Product
	Tone               string
	Language           string
	GreetingMessage    string
	SalesStrategy      string
}

// LeadInfo is contact and interest data extracted from a conversation.
// Each field is independently optional; empty means "not mentioned".
type LeadInfo struct {
	Name          string `json:"name,omitempty"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	InterestLevel string `json:"interest_level,omitempty"` // high, medium or low
}

// Empty reports whether no field was extracted.
func (l LeadInfo) Empty() bool {
	return l.Name == "" && l.Email == "" && l.Phone == "" && l.InterestLevel == ""
}

// Intent labels produced by classification.
const (
	IntentGreeting       = "greeting"
	IntentPricing        = "pricing"
	IntentReadyToBuy     = "ready_to_buy"
	IntentSupport        = "support"
	IntentComparison     = "comparison"
	IntentObjection      = "objection"
	IntentProductInquiry = "product_inquiry"
)

// Input is everything the pipeline needs for one invocation. The caller owns
// session persistence; History must not include CurrentMessage.
type Input struct {
	AgentID        string
	SessionID      string
	History        []Message
	CurrentMessage string
	Profile        AgentProfile
	Language       string
}

// Result is the outcome of one invocation. Response is always non-empty.
type Result struct {
	Response    string
	Intent      string    // empty only on total pipeline failure
	Lead        *LeadInfo // nil when nothing new was extracted
	ContextUsed bool
}

// state threads through the stages. Each stage returns a delta which the
// orchestrator merges; stages never mutate state they did not produce.
type state struct {
	intent           string
	greetingDetected bool
	retrievedContext string
	response         string
	lead             *LeadInfo
}

// Config holds the pipeline tuning knobs.
type Config struct {
	// TopK is the number of knowledge-base matches requested per message.
	TopK int
	// HistoryWindow is how many trailing history turns are sent to the model.
	HistoryWindow int
	// RetrievalTimeout caps the context retrieval stage. Retrieval fails fast
	// rather than eating into the generation budget.
	RetrievalTimeout time.Duration
}

// DefaultConfig mirrors the production tuning.
func DefaultConfig() Config {
	return Config{
		TopK:             3,
		HistoryWindow:    2,
		RetrievalTimeout: 500 * time.Millisecond,
	}
}

// leadHistoryThreshold is the minimum history length before the extraction
// stage runs. Early turns rarely contain contact data, so the call is skipped.
const leadHistoryThreshold = 5
