// Package service implements conversation handling on top of the pipeline.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"convosell_backend/internal/chat/pipeline"
	"convosell_backend/internal/chat/repository"
	"convosell_backend/internal/events"
	"convosell_backend/platform/apperr"
	"convosell_backend/platform/logger"
)

const defaultChannel = "web"

// AgentInfo is the agent snapshot the chat service needs. Modules do not
// import each other's repositories; an adapter at the composition root
// translates from the agents module.
type AgentInfo struct {
	ID                 uuid.UUID
	OwnerID            uuid.UUID
	Name               string
	CompanyName        string
	CompanyDescription string
	Tone               string
	Language           string
	GreetingMessage    string
	SalesStrategy      string
	IsActive           bool
}

// AgentSource looks up agents without an ownership check.
type AgentSource interface {
	Agent(ctx context.Context, id uuid.UUID) (*AgentInfo, error)
}

// ProductSource lists an agent's active catalog for prompt rendering.
type ProductSource interface {
	ActiveProducts(ctx context.Context, agentID uuid.UUID) ([]pipeline.Product, error)
}

// Service handles chat sessions: it assembles the agent profile, runs the
// pipeline, and persists the transcript. Concurrent calls for the same
// session are not serialized here; the last writer wins on the transcript.
type Service struct {
	repo     *repository.Repository
	agents   AgentSource
	products ProductSource
	pipe     *pipeline.Pipeline
	bus      events.Bus
	log      *logger.Logger
}

// New creates the chat service.
func New(repo *repository.Repository, agents AgentSource, products ProductSource, pipe *pipeline.Pipeline, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, agents: agents, products: products, pipe: pipe, bus: bus, log: log}
}

// SendParams describes one inbound chat message.
type SendParams struct {
	AgentID   uuid.UUID
	SessionID string
	Message   string
	Channel   string
	Language  string
}

// Reply is the outcome of processing one message.
type Reply struct {
	Message      string
	SessionID    string
	AgentID      uuid.UUID
	Intent       string
	ContextUsed  bool
	LeadCaptured bool
}

// SendMessage processes a message within a persistent session. A blank
// session ID starts a new session. The transcript and any merged lead data
// are saved before returning.
func (s *Service) SendMessage(ctx context.Context, params SendParams) (*Reply, error) {
	agent, err := s.agents.Agent(ctx, params.AgentID)
	if err != nil {
		return nil, err
	}
	if !agent.IsActive {
		return nil, apperr.BadRequest("agent is not active")
	}

	sessionID := params.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	channel := params.Channel
	if channel == "" {
		channel = defaultChannel
	}

	conv, err := s.repo.GetBySession(ctx, params.AgentID, sessionID)
	if err != nil && !apperr.Is(err, apperr.KindNotFound) {
		return nil, err
	}

	var history []pipeline.Message
	if conv != nil {
		history = toPipelineMessages(conv.Messages)
	}

	result, latencyMs := s.run(ctx, agent, sessionID, history, params)

	now := time.Now().UTC()
	var transcript []repository.StoredMessage
	if conv != nil {
		transcript = conv.Messages
	}
	transcript = append(transcript,
		repository.StoredMessage{Role: "user", Content: params.Message, Timestamp: now},
		repository.StoredMessage{Role: "assistant", Content: result.Response, Timestamp: now},
	)

	var existingLead *repository.Lead
	if conv != nil {
		existingLead = conv.Lead
	}
	mergedLead, leadChanged := mergeLead(existingLead, result.Lead)

	newSession := conv == nil
	if conv == nil {
		conv, err = s.repo.Create(ctx, repository.CreateParams{
			AgentID:   params.AgentID,
			SessionID: sessionID,
			Channel:   channel,
			Messages:  transcript,
			Lead:      mergedLead,
		})
		if err != nil {
			return nil, err
		}
	} else if err := s.repo.SaveTranscript(ctx, conv.ID, transcript, mergedLead); err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.ConversationProcessed{
		BaseEvent:      events.NewBaseEvent(),
		AgentID:        params.AgentID,
		ConversationID: conv.ID,
		SessionID:      sessionID,
		NewSession:     newSession,
		Intent:         result.Intent,
		ContextUsed:    result.ContextUsed,
		Degraded:       false,
		LatencyMs:      latencyMs,
	})

	if leadChanged {
		s.bus.Publish(ctx, events.LeadCaptured{
			BaseEvent:      events.NewBaseEvent(),
			AgentID:        params.AgentID,
			OwnerID:        agent.OwnerID,
			ConversationID: conv.ID,
			SessionID:      sessionID,
			Channel:        channel,
			Name:           mergedLead.Name,
			Email:          mergedLead.Email,
			Phone:          mergedLead.Phone,
			InterestLevel:  mergedLead.InterestLevel,
		})
	}

	return &Reply{
		Message:      result.Response,
		SessionID:    sessionID,
		AgentID:      params.AgentID,
		Intent:       result.Intent,
		ContextUsed:  result.ContextUsed,
		LeadCaptured: leadChanged,
	}, nil
}

// WidgetReply is the outcome of a stateless widget message.
type WidgetReply struct {
	Message   string
	SessionID string
	AgentID   uuid.UUID
	Intent    string
	Lead      *pipeline.LeadInfo
}

// WidgetMessage processes a single message without session persistence.
// Each call gets a fresh session ID and empty history.
func (s *Service) WidgetMessage(ctx context.Context, agentID uuid.UUID, message, language string) (*WidgetReply, error) {
	agent, err := s.agents.Agent(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if !agent.IsActive {
		return nil, apperr.BadRequest("agent is not active")
	}

	sessionID := uuid.NewString()
	result, _ := s.run(ctx, agent, sessionID, nil, SendParams{
		AgentID:  agentID,
		Message:  message,
		Language: language,
	})

	return &WidgetReply{
		Message:   result.Response,
		SessionID: sessionID,
		AgentID:   agentID,
		Intent:    result.Intent,
		Lead:      result.Lead,
	}, nil
}

// run assembles the agent profile and executes the pipeline, timing the call.
// Catalog fetch failures degrade to an empty product list.
func (s *Service) run(ctx context.Context, agent *AgentInfo, sessionID string, history []pipeline.Message, params SendParams) (pipeline.Result, float64) {
	products, err := s.products.ActiveProducts(ctx, agent.ID)
	if err != nil {
		s.log.DatabaseError("list products for chat", err)
		products = nil
	}

	language := params.Language
	if language == "" {
		language = agent.Language
	}

	start := time.Now()
	result := s.pipe.Process(ctx, pipeline.Input{
		AgentID:        agent.ID.String(),
		SessionID:      sessionID,
		History:        history,
		CurrentMessage: params.Message,
		Profile: pipeline.AgentProfile{
			CompanyName:        agent.CompanyName,
			CompanyDescription: agent.CompanyDescription,
			Tone:               agent.Tone,
			SalesStrategy:      agent.SalesStrategy,
			GreetingMessage:    agent.GreetingMessage,
			Products:           products,
		},
		Language: language,
	})
	return result, float64(time.Since(start).Microseconds()) / 1000.0
}

// GetConversation returns a session transcript after verifying that the
// caller owns the agent the session belongs to.
func (s *Service) GetConversation(ctx context.Context, ownerID uuid.UUID, sessionID string) (*repository.Conversation, error) {
	conv, err := s.repo.FindBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, ownerID, conv.AgentID); err != nil {
		return nil, err
	}
	return conv, nil
}

// DeleteConversation removes a session after an ownership check.
func (s *Service) DeleteConversation(ctx context.Context, ownerID uuid.UUID, sessionID string) error {
	conv, err := s.repo.FindBySession(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, ownerID, conv.AgentID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, conv.ID)
}

func (s *Service) authorize(ctx context.Context, ownerID, agentID uuid.UUID) error {
	agent, err := s.agents.Agent(ctx, agentID)
	if err != nil {
		return err
	}
	if agent.OwnerID != ownerID {
		return apperr.Forbidden("access denied")
	}
	return nil
}

// mergeLead folds freshly extracted lead fields into the stored lead.
// Blank extracted fields never erase populated stored fields. The second
// return reports whether any field gained or changed a value.
func mergeLead(existing *repository.Lead, extracted *pipeline.LeadInfo) (*repository.Lead, bool) {
	if extracted == nil {
		return existing, false
	}

	merged := repository.Lead{}
	if existing != nil {
		merged = *existing
	}

	changed := false
	apply := func(dst *string, src string) {
		if src != "" && src != *dst {
			*dst = src
			changed = true
		}
	}
	apply(&merged.Name, extracted.Name)
	apply(&merged.Email, extracted.Email)
	apply(&merged.Phone, extracted.Phone)
	apply(&merged.InterestLevel, extracted.InterestLevel)

	if existing == nil && !changed {
		return nil, false
	}
	return &merged, changed
}

func toPipelineMessages(stored []repository.StoredMessage) []pipeline.Message {
	messages := make([]pipeline.Message, 0, len(stored))
	for _, m := range stored {
		messages = append(messages, pipeline.Message{Role: m.Role, Content: m.Content})
	}
	return messages
}
