package adapters

import (
	"context"

	"github.com/google/uuid"

	agentservice "convosell_backend/internal/agents/service"
	"convosell_backend/internal/knowledge"
)

// AgentKnowledgeStats adapts the knowledge service to the agents module's
// stats port. A nil service reports zero vectors, covering deployments
// without a vector store.
type AgentKnowledgeStats struct {
	svc *knowledge.Service
}

// NewAgentKnowledgeStats creates a new knowledge stats adapter.
func NewAgentKnowledgeStats(svc *knowledge.Service) *AgentKnowledgeStats {
	return &AgentKnowledgeStats{svc: svc}
}

// VectorCount returns the number of knowledge vectors for an agent.
func (a *AgentKnowledgeStats) VectorCount(ctx context.Context, agentID uuid.UUID) (int64, error) {
	if a.svc == nil {
		return 0, nil
	}
	return a.svc.VectorCount(ctx, agentID.String())
}

// Compile-time check against the agents service port.
var _ agentservice.KnowledgeStats = (*AgentKnowledgeStats)(nil)
