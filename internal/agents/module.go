// Package agents provides the sales agent bounded context module.
package agents

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"convosell_backend/internal/agents/handler"
	"convosell_backend/internal/agents/repository"
	"convosell_backend/internal/agents/service"
	"convosell_backend/internal/events"
	apphttp "convosell_backend/internal/http"
	"convosell_backend/platform/logger"
	"convosell_backend/platform/validator"
)

// Module is the agents bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	repo    *repository.Repository
	svc     *service.Service
}

// NewModule creates and initializes the agents module with all its dependencies.
// knowledge and conversations are cross-module ports wired by the composition root.
func NewModule(pool *pgxpool.Pool, knowledge service.KnowledgeStats, conversations service.ConversationCounter, bus events.Bus, validate *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, knowledge, conversations, bus, log)

	return &Module{
		handler: handler.New(svc, validate, log),
		repo:    repo,
		svc:     svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "agents"
}

// Repository exposes the agent repository for cross-module adapters
// (the chat module loads agent profiles through it).
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// Service exposes the agents service for cross-module adapters (the builder
// creates and edits agents through it so domain events still fire).
func (m *Module) Service() *service.Service {
	return m.svc
}

// RegisterRoutes mounts agent routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	agents := ctx.Protected.Group("/agents")
	agents.POST("", m.handler.Create)
	agents.GET("", m.handler.List)
	agents.GET("/:id", m.handler.Get)
	agents.PATCH("/:id", m.handler.Update)
	agents.DELETE("/:id", m.handler.Delete)
	agents.GET("/:id/stats", m.handler.Stats)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
