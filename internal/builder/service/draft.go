package service

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Builder phases. The conversation walks the draft forward from agent info
// through products and training to deployment.
const (
	PhaseAgentInfo = "agent_info"
	PhaseProducts  = "products"
	PhaseTraining  = "training"
	PhaseComplete  = "complete"
)

// AgentDraft holds the agent fields collected so far. Empty means not
// collected yet.
type AgentDraft struct {
	Name               string `json:"name,omitempty"`
	CompanyName        string `json:"company_name,omitempty"`
	CompanyDescription string `json:"company_description,omitempty"`
	Tone               string `json:"tone,omitempty"`
	Language           string `json:"language,omitempty"`
	GreetingMessage    string `json:"greeting_message,omitempty"`
	SalesStrategy      string `json:"sales_strategy,omitempty"`
}

// Price tolerates both JSON numbers and quoted strings; the model renders
// prices either way depending on how the user phrased them.
type Price float64

// UnmarshalJSON parses a number or a numeric string. Unparsable values are
// dropped rather than failing the whole envelope.
func (p *Price) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	*p = Price(v)
	return nil
}

// ProductDraft is one catalog entry collected during the conversation.
type ProductDraft struct {
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Price       *Price   `json:"price,omitempty"`
	Features    []string `json:"features,omitempty"`
}

// FAQDraft is one question/answer pair collected during the conversation.
type FAQDraft struct {
	Question string `json:"question,omitempty"`
	Answer   string `json:"answer,omitempty"`
}

// TrainingDraft holds the training sources collected so far.
type TrainingDraft struct {
	URLs []string   `json:"urls,omitempty"`
	FAQs []FAQDraft `json:"faqs,omitempty"`
}

// Draft is the client-held builder state, echoed back on every turn. The
// server holds nothing between turns.
type Draft struct {
	Agent    AgentDraft     `json:"agent"`
	Products []ProductDraft `json:"products,omitempty"`
	Training TrainingDraft  `json:"training"`
	AgentID  *uuid.UUID     `json:"agentId,omitempty"`
}

// mergeDraft folds one turn's extraction into the accumulated draft. Agent
// fields overwrite only when the new value is non-empty; products, URLs and
// FAQs append.
func mergeDraft(prev, delta Draft) Draft {
	prev.Agent = mergeAgent(prev.Agent, delta.Agent)
	prev.Products = append(prev.Products, delta.Products...)
	prev.Training.URLs = append(prev.Training.URLs, delta.Training.URLs...)
	prev.Training.FAQs = append(prev.Training.FAQs, delta.Training.FAQs...)
	return prev
}

func mergeAgent(prev, delta AgentDraft) AgentDraft {
	if delta.Name != "" {
		prev.Name = delta.Name
	}
	if delta.CompanyName != "" {
		prev.CompanyName = delta.CompanyName
	}
	if delta.CompanyDescription != "" {
		prev.CompanyDescription = delta.CompanyDescription
	}
	if delta.Tone != "" {
		prev.Tone = delta.Tone
	}
	if delta.Language != "" {
		prev.Language = delta.Language
	}
	if delta.GreetingMessage != "" {
		prev.GreetingMessage = delta.GreetingMessage
	}
	if delta.SalesStrategy != "" {
		prev.SalesStrategy = delta.SalesStrategy
	}
	return prev
}

// requiredComplete reports whether the draft can be deployed. The gate
// matches the confirmation rule in the builder prompt.
func requiredComplete(agent AgentDraft) bool {
	return agent.Name != "" && agent.CompanyName != "" &&
		agent.CompanyDescription != "" && agent.GreetingMessage != ""
}

// envelope is the JSON contract the builder prompt instructs the model to
// emit on every turn.
type envelope struct {
	Response       string `json:"response"`
	Intent         string `json:"intent"`
	AgentName      string `json:"agent_name"`
	CloneAgentName string `json:"clone_agent_name"`
	EditField      string `json:"edit_field"`
	EditValue      string `json:"edit_value"`
	ExtractedData  Draft  `json:"extracted_data"`
	CurrentPhase   string `json:"current_phase"`
	PhaseComplete  bool   `json:"phase_complete"`
	IsComplete     bool   `json:"is_complete"`
	ShowAgentsList bool   `json:"show_agents_list"`
}

func parseEnvelope(raw string) (*envelope, error) {
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return nil, err
	}
	return &env, nil
}
