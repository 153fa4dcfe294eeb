package adapters

import (
	"context"

	"github.com/google/uuid"

	agentrepo "convosell_backend/internal/agents/repository"
	"convosell_backend/internal/chat/pipeline"
	chatservice "convosell_backend/internal/chat/service"
	productrepo "convosell_backend/internal/products/repository"
)

// ChatAgentSource adapts the agents repository for the chat domain.
type ChatAgentSource struct {
	repo *agentrepo.Repository
}

// NewChatAgentSource creates a new agent source adapter.
func NewChatAgentSource(repo *agentrepo.Repository) *ChatAgentSource {
	return &ChatAgentSource{repo: repo}
}

// Agent returns the agent snapshot the chat service needs, without an
// ownership check.
func (a *ChatAgentSource) Agent(ctx context.Context, id uuid.UUID) (*chatservice.AgentInfo, error) {
	agent, err := a.repo.GetPublic(ctx, id)
	if err != nil {
		return nil, err
	}

	return &chatservice.AgentInfo{
		ID:                 agent.ID,
		OwnerID:            agent.OwnerID,
		Name:               agent.Name,
		CompanyName:        agent.CompanyName,
		CompanyDescription: agent.CompanyDescription,
		Tone:               agent.Tone,
		Language:           agent.Language,
		GreetingMessage:    agent.GreetingMessage,
		SalesStrategy:      agent.SalesStrategy,
		IsActive:           agent.IsActive,
	}, nil
}

// ChatProductSource adapts the products repository for prompt rendering.
type ChatProductSource struct {
	repo *productrepo.Repository
}

// NewChatProductSource creates a new product source adapter.
func NewChatProductSource(repo *productrepo.Repository) *ChatProductSource {
	return &ChatProductSource{repo: repo}
}

// ActiveProducts lists the agent's active catalog in prompt order.
func (a *ChatProductSource) ActiveProducts(ctx context.Context, agentID uuid.UUID) ([]pipeline.Product, error) {
	products, err := a.repo.ListByAgent(ctx, agentID, true)
	if err != nil {
		return nil, err
	}

	rendered := make([]pipeline.Product, len(products))
	for i, p := range products {
		rendered[i] = pipeline.Product{
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			Currency:    p.Currency,
			Features:    p.Features,
			StockStatus: p.StockStatus,
		}
	}
	return rendered, nil
}

// Compile-time checks against the chat service ports.
var (
	_ chatservice.AgentSource   = (*ChatAgentSource)(nil)
	_ chatservice.ProductSource = (*ChatProductSource)(nil)
)
