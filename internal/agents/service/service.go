// Package service implements agent management.
package service

import (
	"context"

	"github.com/google/uuid"

	"convosell_backend/internal/agents/repository"
	"convosell_backend/internal/events"
	"convosell_backend/platform/logger"
)

// Defaults applied when an agent is created without explicit values.
const (
	DefaultTone     = "friendly"
	DefaultLanguage = "en"
)

// KnowledgeStats reports the size of an agent's knowledge base.
type KnowledgeStats interface {
	VectorCount(ctx context.Context, agentID uuid.UUID) (int64, error)
}

// ConversationCounter reports conversation volume for an agent.
type ConversationCounter interface {
	CountByAgent(ctx context.Context, agentID uuid.UUID) (int, error)
}

// Service implements agent CRUD and stats, scoped to the owning user.
type Service struct {
	repo          *repository.Repository
	knowledge     KnowledgeStats
	conversations ConversationCounter
	bus           events.Bus
	log           *logger.Logger
}

// New creates the agents service.
func New(repo *repository.Repository, knowledge KnowledgeStats, conversations ConversationCounter, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, knowledge: knowledge, conversations: conversations, bus: bus, log: log}
}

// Create registers a new agent with defaults filled in.
func (s *Service) Create(ctx context.Context, params repository.CreateParams) (*repository.Agent, error) {
	if params.Tone == "" {
		params.Tone = DefaultTone
	}
	if params.Language == "" {
		params.Language = DefaultLanguage
	}

	agent, err := s.repo.Create(ctx, params)
	if err != nil {
		return nil, err
	}

	s.log.Info("agent created", "agent_id", agent.ID, "owner_id", agent.OwnerID)
	s.bus.Publish(ctx, events.AgentCreated{
		BaseEvent:   events.NewBaseEvent(),
		AgentID:     agent.ID,
		OwnerID:     agent.OwnerID,
		CompanyName: agent.CompanyName,
	})

	return agent, nil
}

// Get returns an agent owned by the user.
func (s *Service) Get(ctx context.Context, ownerID, id uuid.UUID) (*repository.Agent, error) {
	return s.repo.GetByID(ctx, ownerID, id)
}

// List returns all agents for the owner.
func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]repository.Agent, error) {
	return s.repo.List(ctx, ownerID)
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, params repository.UpdateParams) (*repository.Agent, error) {
	return s.repo.Update(ctx, params)
}

// Delete removes an agent. The knowledge base cleanup happens asynchronously
// via the AgentDeleted event.
func (s *Service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}

	s.log.Info("agent deleted", "agent_id", id, "owner_id", ownerID)
	s.bus.Publish(ctx, events.AgentDeleted{
		BaseEvent: events.NewBaseEvent(),
		AgentID:   id,
		OwnerID:   ownerID,
	})
	return nil
}

// Stats describes the footprint of a single agent.
type Stats struct {
	AgentID            uuid.UUID
	KnowledgeVectors   int64
	TotalConversations int
}

// GetStats returns knowledge-base and conversation counts for an agent.
// Stats are best-effort: an unreachable vector store yields a zero count.
func (s *Service) GetStats(ctx context.Context, ownerID, id uuid.UUID) (*Stats, error) {
	agent, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	stats := &Stats{AgentID: agent.ID}

	vectors, err := s.knowledge.VectorCount(ctx, agent.ID)
	if err != nil {
		s.log.UpstreamError("qdrant", "count vectors", err)
	} else {
		stats.KnowledgeVectors = vectors
	}

	convs, err := s.conversations.CountByAgent(ctx, agent.ID)
	if err != nil {
		return nil, err
	}
	stats.TotalConversations = convs

	return stats, nil
}
