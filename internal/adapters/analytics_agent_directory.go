package adapters

import (
	"context"

	"github.com/google/uuid"

	agentrepo "convosell_backend/internal/agents/repository"
	analyticsservice "convosell_backend/internal/analytics/service"
)

// AnalyticsAgentDirectory adapts the agents repository to the owner-scoped
// lookups the analytics module performs.
type AnalyticsAgentDirectory struct {
	repo *agentrepo.Repository
}

// NewAnalyticsAgentDirectory creates a new directory adapter.
func NewAnalyticsAgentDirectory(repo *agentrepo.Repository) *AnalyticsAgentDirectory {
	return &AnalyticsAgentDirectory{repo: repo}
}

// Owned returns the agent when it belongs to the owner.
func (a *AnalyticsAgentDirectory) Owned(ctx context.Context, ownerID, agentID uuid.UUID) (*analyticsservice.AgentRef, error) {
	agent, err := a.repo.GetByID(ctx, ownerID, agentID)
	if err != nil {
		return nil, err
	}
	return &analyticsservice.AgentRef{
		ID:       agent.ID,
		Name:     agent.Name,
		IsActive: agent.IsActive,
	}, nil
}

var _ analyticsservice.AgentDirectory = (*AnalyticsAgentDirectory)(nil)
