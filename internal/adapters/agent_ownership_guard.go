package adapters

import (
	"context"

	"github.com/google/uuid"

	agentrepo "convosell_backend/internal/agents/repository"
	orderservice "convosell_backend/internal/orders/service"
	productservice "convosell_backend/internal/products/service"
	trainingservice "convosell_backend/internal/training/service"
)

// AgentOwnershipGuard adapts the agents repository to the ownership checks
// the products, training and orders modules require before touching an
// agent's resources.
type AgentOwnershipGuard struct {
	repo *agentrepo.Repository
}

// NewAgentOwnershipGuard creates a new ownership guard adapter.
func NewAgentOwnershipGuard(repo *agentrepo.Repository) *AgentOwnershipGuard {
	return &AgentOwnershipGuard{repo: repo}
}

// OwnsAgent returns nil when the agent exists and belongs to the owner.
func (a *AgentOwnershipGuard) OwnsAgent(ctx context.Context, ownerID, agentID uuid.UUID) error {
	_, err := a.repo.GetByID(ctx, ownerID, agentID)
	return err
}

// Compile-time checks against the consuming service ports.
var (
	_ productservice.AgentGuard  = (*AgentOwnershipGuard)(nil)
	_ trainingservice.AgentGuard = (*AgentOwnershipGuard)(nil)
	_ orderservice.AgentGuard    = (*AgentOwnershipGuard)(nil)
)
