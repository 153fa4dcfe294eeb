package adapters

import (
	"context"

	"github.com/google/uuid"

	agentrepo "convosell_backend/internal/agents/repository"
	agentservice "convosell_backend/internal/agents/service"
	builderservice "convosell_backend/internal/builder/service"
	productrepo "convosell_backend/internal/products/repository"
	productservice "convosell_backend/internal/products/service"
	trainingservice "convosell_backend/internal/training/service"
	"convosell_backend/platform/apperr"
)

// BuilderAgentDirectory adapts the agents service to the builder's
// list/create/edit port. Going through the service keeps domain events and
// defaults intact.
type BuilderAgentDirectory struct {
	svc *agentservice.Service
}

// NewBuilderAgentDirectory creates a new agent directory adapter.
func NewBuilderAgentDirectory(svc *agentservice.Service) *BuilderAgentDirectory {
	return &BuilderAgentDirectory{svc: svc}
}

// List returns the owner's agents as builder records.
func (a *BuilderAgentDirectory) List(ctx context.Context, ownerID uuid.UUID) ([]builderservice.AgentRecord, error) {
	agents, err := a.svc.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	records := make([]builderservice.AgentRecord, len(agents))
	for i, agent := range agents {
		records[i] = builderservice.AgentRecord{
			ID:                 agent.ID,
			Name:               agent.Name,
			CompanyName:        agent.CompanyName,
			CompanyDescription: agent.CompanyDescription,
			Tone:               agent.Tone,
			Language:           agent.Language,
			GreetingMessage:    agent.GreetingMessage,
			SalesStrategy:      agent.SalesStrategy,
			IsActive:           agent.IsActive,
		}
	}
	return records, nil
}

// Create registers a drafted agent for the owner.
func (a *BuilderAgentDirectory) Create(ctx context.Context, ownerID uuid.UUID, draft builderservice.AgentDraft) (uuid.UUID, error) {
	agent, err := a.svc.Create(ctx, agentrepo.CreateParams{
		OwnerID:            ownerID,
		Name:               draft.Name,
		CompanyName:        draft.CompanyName,
		CompanyDescription: draft.CompanyDescription,
		Tone:               draft.Tone,
		Language:           draft.Language,
		GreetingMessage:    draft.GreetingMessage,
		SalesStrategy:      draft.SalesStrategy,
	})
	if err != nil {
		return uuid.Nil, err
	}
	return agent.ID, nil
}

// UpdateField patches a single whitelisted agent column.
func (a *BuilderAgentDirectory) UpdateField(ctx context.Context, ownerID, agentID uuid.UUID, field, value string) error {
	params := agentrepo.UpdateParams{OwnerID: ownerID, ID: agentID}
	switch field {
	case "name":
		params.Name = &value
	case "company_description":
		params.CompanyDescription = &value
	case "tone":
		params.Tone = &value
	case "language":
		params.Language = &value
	case "greeting_message":
		params.GreetingMessage = &value
	case "sales_strategy":
		params.SalesStrategy = &value
	default:
		return apperr.Validation("field cannot be edited")
	}

	_, err := a.svc.Update(ctx, params)
	return err
}

// BuilderCatalog adapts the products service to the builder's catalog port.
type BuilderCatalog struct {
	svc *productservice.Service
}

// NewBuilderCatalog creates a new catalog adapter.
func NewBuilderCatalog(svc *productservice.Service) *BuilderCatalog {
	return &BuilderCatalog{svc: svc}
}

// Products lists an agent's catalog as product drafts for cloning.
func (a *BuilderCatalog) Products(ctx context.Context, ownerID, agentID uuid.UUID) ([]builderservice.ProductDraft, error) {
	products, err := a.svc.List(ctx, ownerID, agentID, false)
	if err != nil {
		return nil, err
	}

	drafts := make([]builderservice.ProductDraft, len(products))
	for i, p := range products {
		drafts[i] = builderservice.ProductDraft{
			Name:        p.Name,
			Description: p.Description,
			Features:    p.Features,
		}
		if p.Price != nil {
			price := builderservice.Price(*p.Price)
			drafts[i].Price = &price
		}
	}
	return drafts, nil
}

// AddProduct attaches one drafted product to a deployed agent.
func (a *BuilderCatalog) AddProduct(ctx context.Context, ownerID, agentID uuid.UUID, product builderservice.ProductDraft) error {
	params := productrepo.CreateParams{
		AgentID:     agentID,
		Name:        product.Name,
		Description: product.Description,
		Features:    product.Features,
		IsActive:    true,
	}
	if product.Price != nil {
		price := float64(*product.Price)
		params.Price = &price
	}

	_, err := a.svc.Create(ctx, ownerID, params)
	return err
}

// BuilderTrainer adapts the training service to the builder's trainer port.
type BuilderTrainer struct {
	svc *trainingservice.Service
}

// NewBuilderTrainer creates a new trainer adapter.
func NewBuilderTrainer(svc *trainingservice.Service) *BuilderTrainer {
	return &BuilderTrainer{svc: svc}
}

// TrainURL submits a drafted URL for ingestion.
func (a *BuilderTrainer) TrainURL(ctx context.Context, ownerID, agentID uuid.UUID, url string) error {
	_, err := a.svc.TrainFromURL(ctx, ownerID, agentID, url)
	return err
}

// TrainFAQs submits the drafted FAQ pairs for ingestion.
func (a *BuilderTrainer) TrainFAQs(ctx context.Context, ownerID, agentID uuid.UUID, faqs []builderservice.FAQDraft) error {
	items := make([]trainingservice.FAQItem, 0, len(faqs))
	for _, faq := range faqs {
		items = append(items, trainingservice.FAQItem{Question: faq.Question, Answer: faq.Answer})
	}

	_, err := a.svc.TrainFromFAQ(ctx, ownerID, agentID, items)
	return err
}

// Compile-time checks against the builder service ports.
var (
	_ builderservice.Directory = (*BuilderAgentDirectory)(nil)
	_ builderservice.Catalog   = (*BuilderCatalog)(nil)
	_ builderservice.Trainer   = (*BuilderTrainer)(nil)
)
