// Package service implements the conversational agent builder: a
// model-driven setup flow that collects an agent draft turn by turn and
// deploys it once the user confirms. The draft travels with the client;
// the server keeps no session state between turns.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"convosell_backend/internal/chat/pipeline"
	"convosell_backend/platform/apperr"
	"convosell_backend/platform/logger"
)

// historyContextWindow caps how many prior turns are replayed to the model.
const historyContextWindow = 10

// Generator wraps the hosted language model. The builder shares the chat
// pipeline's message and option types.
type Generator interface {
	Generate(ctx context.Context, messages []pipeline.Message, opts pipeline.Options) (string, error)
}

// AgentRecord is the slice of an existing agent the builder can list,
// clone and edit.
type AgentRecord struct {
	ID                 uuid.UUID
	Name               string
	CompanyName        string
	CompanyDescription string
	Tone               string
	Language           string
	GreetingMessage    string
	SalesStrategy      string
	IsActive           bool
}

// Directory is the agents port: listing for show/clone/edit, creation on
// deploy. All calls are owner-scoped.
type Directory interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]AgentRecord, error)
	Create(ctx context.Context, ownerID uuid.UUID, agent AgentDraft) (uuid.UUID, error)
	UpdateField(ctx context.Context, ownerID, agentID uuid.UUID, field, value string) error
}

// Catalog is the products port used when cloning and deploying.
type Catalog interface {
	Products(ctx context.Context, ownerID, agentID uuid.UUID) ([]ProductDraft, error)
	AddProduct(ctx context.Context, ownerID, agentID uuid.UUID, product ProductDraft) error
}

// Trainer is the training port used on deploy.
type Trainer interface {
	TrainURL(ctx context.Context, ownerID, agentID uuid.UUID, url string) error
	TrainFAQs(ctx context.Context, ownerID, agentID uuid.UUID, faqs []FAQDraft) error
}

// editableFields whitelists what the edit flow may change. The values map
// straight onto agent update columns.
var editableFields = map[string]bool{
	"name":                true,
	"company_description": true,
	"tone":                true,
	"language":            true,
	"greeting_message":    true,
	"sales_strategy":      true,
}

// Service drives the builder conversation.
type Service struct {
	gen     Generator
	agents  Directory
	catalog Catalog
	trainer Trainer
	log     *logger.Logger
}

// New creates the builder service.
func New(gen Generator, agents Directory, catalog Catalog, trainer Trainer, log *logger.Logger) *Service {
	return &Service{gen: gen, agents: agents, catalog: catalog, trainer: trainer, log: log}
}

// Turn is one prior exchange in the builder conversation.
type Turn struct {
	Role    string
	Content string
}

// ConverseParams is one builder turn as submitted by the client.
type ConverseParams struct {
	OwnerID uuid.UUID
	Message string
	History []Turn
	Draft   Draft
	Phase   string
}

// ConverseResult is the outcome of one builder turn.
type ConverseResult struct {
	Response   string
	Draft      Draft
	Phase      string
	IsComplete bool
	AgentID    *uuid.UUID
	Agents     []AgentRecord // populated when the user asked to see their agents
}

// StartResult seeds a new builder conversation.
type StartResult struct {
	Response string
	Draft    Draft
	Phase    string
}

// Start opens a fresh session. The opening line comes from the model when
// possible and falls back to a fixed welcome.
func (s *Service) Start(ctx context.Context) *StartResult {
	response := welcomeMessage

	raw, err := s.gen.Generate(ctx,
		[]pipeline.Message{{Role: "user", Content: "START"}},
		pipeline.Options{SystemPrompt: builderPrompt, JSONMode: true, Temperature: startTemperature},
	)
	if err != nil {
		s.log.UpstreamError("llm", "builder start", err)
	} else if env, perr := parseEnvelope(raw); perr == nil && env.Response != "" {
		response = env.Response
	}

	return &StartResult{Response: response, Phase: PhaseAgentInfo}
}

// Converse runs one turn: the model reads the conversation, extracts draft
// data and picks an action; the service executes the action and folds the
// extraction into the draft.
func (s *Service) Converse(ctx context.Context, params ConverseParams) (*ConverseResult, error) {
	phase := params.Phase
	if phase == "" {
		phase = PhaseAgentInfo
	}

	raw, err := s.gen.Generate(ctx, buildTurnMessages(params.History, params.Message), pipeline.Options{
		SystemPrompt: builderPrompt + phaseContext(phase, params.Draft),
		JSONMode:     true,
		Temperature:  builderTemperature,
	})
	if err != nil {
		s.log.UpstreamError("llm", "builder converse", err)
		return nil, apperr.Wrap(apperr.KindUnavailable, "assistant is unavailable", err)
	}

	env, perr := parseEnvelope(raw)
	if perr != nil {
		s.log.Warn("builder envelope unparsable", "error", perr)
		return &ConverseResult{Response: parseFallback, Draft: params.Draft, Phase: phase}, nil
	}

	switch {
	case env.CloneAgentName != "":
		return s.clone(ctx, params, phase, env)
	case env.Intent == intentEditAgent && env.AgentName != "" && env.EditField != "" && env.EditValue != "":
		return s.edit(ctx, params, phase, env)
	case env.ShowAgentsList || env.Intent == intentShowAgents:
		return s.showAgents(ctx, params, phase, env)
	}

	draft := mergeDraft(params.Draft, env.ExtractedData)

	newPhase := phase
	if env.CurrentPhase != "" {
		newPhase = env.CurrentPhase
	}
	if phase == PhaseAgentInfo && env.PhaseComplete && requiredComplete(draft.Agent) {
		newPhase = PhaseProducts
	}

	result := &ConverseResult{Response: env.Response, Draft: draft, Phase: newPhase, IsComplete: env.IsComplete}

	if env.IsComplete && draft.AgentID == nil {
		if !requiredComplete(draft.Agent) {
			// The model confirmed too early; keep collecting.
			result.IsComplete = false
			return result, nil
		}

		agentID, err := s.deploy(ctx, params.OwnerID, draft)
		if err != nil {
			return nil, err
		}

		// The chat stays open for the next creation.
		result.AgentID = &agentID
		result.Draft = Draft{}
		result.Phase = PhaseAgentInfo
		result.IsComplete = false
	}

	return result, nil
}

func (s *Service) clone(ctx context.Context, params ConverseParams, phase string, env *envelope) (*ConverseResult, error) {
	target, err := s.findAgent(ctx, params.OwnerID, env.CloneAgentName)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return &ConverseResult{
			Response: fmt.Sprintf("I couldn't find an agent named %q. Would you like to see your existing agents, or create a new one from scratch?", env.CloneAgentName),
			Draft:    params.Draft,
			Phase:    phase,
		}, nil
	}

	products, err := s.catalog.Products(ctx, params.OwnerID, target.ID)
	if err != nil {
		return nil, err
	}

	draft := params.Draft
	draft.Agent = AgentDraft{
		Name:               target.Name + " Clone",
		CompanyName:        target.CompanyName,
		CompanyDescription: target.CompanyDescription,
		Tone:               target.Tone,
		Language:           target.Language,
		GreetingMessage:    target.GreetingMessage,
		SalesStrategy:      target.SalesStrategy,
	}
	draft.Products = products

	return &ConverseResult{
		Response: fmt.Sprintf("I've cloned %q with all its details and %d products. The new agent will be named %q. Want to change anything, or should I deploy it right away?", target.Name, len(products), draft.Agent.Name),
		Draft:    draft,
		Phase:    PhaseProducts,
	}, nil
}

func (s *Service) edit(ctx context.Context, params ConverseParams, phase string, env *envelope) (*ConverseResult, error) {
	if !editableFields[env.EditField] {
		return &ConverseResult{
			Response: fmt.Sprintf("I can't change %q from here yet; you can update it in the agent settings. Anything else?", env.EditField),
			Draft:    params.Draft,
			Phase:    phase,
		}, nil
	}

	target, err := s.findAgent(ctx, params.OwnerID, env.AgentName)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return &ConverseResult{
			Response: fmt.Sprintf("I couldn't find an agent named %q. Would you like to see your existing agents?", env.AgentName),
			Draft:    params.Draft,
			Phase:    phase,
		}, nil
	}

	if err := s.agents.UpdateField(ctx, params.OwnerID, target.ID, env.EditField, env.EditValue); err != nil {
		return nil, err
	}

	s.log.Info("agent edited from builder", "agent_id", target.ID, "field", env.EditField)
	return &ConverseResult{
		Response: fmt.Sprintf("Done! I've updated %s's %s to %q. The change is live now.", target.Name, env.EditField, env.EditValue),
		Draft:    params.Draft,
		Phase:    phase,
	}, nil
}

func (s *Service) showAgents(ctx context.Context, params ConverseParams, phase string, env *envelope) (*ConverseResult, error) {
	agents, err := s.agents.List(ctx, params.OwnerID)
	if err != nil {
		return nil, err
	}

	if len(agents) == 0 {
		return &ConverseResult{
			Response: "You don't have any agents yet. Would you like to create your first one?",
			Draft:    params.Draft,
			Phase:    phase,
		}, nil
	}

	response := env.Response
	if response == "" {
		response = fmt.Sprintf("You have %d agent(s). Here they are.", len(agents))
	}
	return &ConverseResult{Response: response, Draft: params.Draft, Phase: phase, Agents: agents}, nil
}

// deploy creates the agent and attaches the drafted products and training
// sources. Product and training failures are logged and skipped; only the
// agent creation itself is fatal.
func (s *Service) deploy(ctx context.Context, ownerID uuid.UUID, draft Draft) (uuid.UUID, error) {
	agentID, err := s.agents.Create(ctx, ownerID, draft.Agent)
	if err != nil {
		return uuid.Nil, err
	}

	for _, product := range draft.Products {
		if product.Name == "" || product.Price == nil {
			continue
		}
		if err := s.catalog.AddProduct(ctx, ownerID, agentID, product); err != nil {
			s.log.Error("builder product create failed", "agent_id", agentID, "product", product.Name, "error", err)
		}
	}

	for _, url := range draft.Training.URLs {
		if err := s.trainer.TrainURL(ctx, ownerID, agentID, url); err != nil {
			s.log.Error("builder url training failed", "agent_id", agentID, "url", url, "error", err)
		}
	}

	faqs := make([]FAQDraft, 0, len(draft.Training.FAQs))
	for _, faq := range draft.Training.FAQs {
		if faq.Question != "" && faq.Answer != "" {
			faqs = append(faqs, faq)
		}
	}
	if len(faqs) > 0 {
		if err := s.trainer.TrainFAQs(ctx, ownerID, agentID, faqs); err != nil {
			s.log.Error("builder faq training failed", "agent_id", agentID, "error", err)
		}
	}

	s.log.Info("agent deployed from builder", "agent_id", agentID, "owner_id", ownerID, "products", len(draft.Products))
	return agentID, nil
}

// findAgent matches by case-insensitive substring so "clone tech buddy"
// finds "Tech Buddy". Nil without error means no match.
func (s *Service) findAgent(ctx context.Context, ownerID uuid.UUID, name string) (*AgentRecord, error) {
	agents, err := s.agents.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	lowered := strings.ToLower(name)
	for i := range agents {
		if strings.Contains(strings.ToLower(agents[i].Name), lowered) {
			return &agents[i], nil
		}
	}
	return nil, nil
}

func buildTurnMessages(history []Turn, current string) []pipeline.Message {
	if len(history) > historyContextWindow {
		history = history[len(history)-historyContextWindow:]
	}

	messages := make([]pipeline.Message, 0, len(history)+1)
	for _, turn := range history {
		role := turn.Role
		if role != "assistant" {
			role = "user"
		}
		messages = append(messages, pipeline.Message{Role: role, Content: turn.Content})
	}
	return append(messages, pipeline.Message{Role: "user", Content: current})
}

// phaseContext appends a short progress summary so the model never re-asks
// for data it already has, without replaying the whole draft.
func phaseContext(phase string, draft Draft) string {
	collected := 0
	for _, v := range []string{
		draft.Agent.Name, draft.Agent.CompanyName, draft.Agent.CompanyDescription,
		draft.Agent.Tone, draft.Agent.Language, draft.Agent.GreetingMessage, draft.Agent.SalesStrategy,
	} {
		if v != "" {
			collected++
		}
	}
	return fmt.Sprintf("\n\nCURRENT PHASE: %s\nCOLLECTED: %d agent fields, %d products, %d URLs, %d FAQs",
		phase, collected, len(draft.Products), len(draft.Training.URLs), len(draft.Training.FAQs))
}
