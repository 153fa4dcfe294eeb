// Package chat provides the conversation bounded context module.
package chat

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"convosell_backend/internal/chat/handler"
	"convosell_backend/internal/chat/pipeline"
	"convosell_backend/internal/chat/repository"
	"convosell_backend/internal/chat/service"
	"convosell_backend/internal/events"
	apphttp "convosell_backend/internal/http"
	"convosell_backend/platform/logger"
	"convosell_backend/platform/validator"
)

// Module is the chat bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	repo    *repository.Repository
}

// NewModule creates and initializes the chat module with all its
// dependencies. agents and products are adapters over the sibling modules,
// wired at the composition root.
func NewModule(pool *pgxpool.Pool, agents service.AgentSource, products service.ProductSource, pipe *pipeline.Pipeline, bus events.Bus, validate *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, agents, products, pipe, bus, log)

	return &Module{
		handler: handler.New(svc, validate, log),
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "chat"
}

// Repository exposes the conversation repository for cross-module adapters
// such as the agents stats counter.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts chat routes on the provided router context. The chat
// and widget endpoints are public so embedded widgets can reach them;
// transcript access requires authentication.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Public.POST("/chat", m.handler.Chat)
	ctx.Public.POST("/chat/:agentID/message", m.handler.WidgetMessage)

	ctx.Protected.GET("/chat/conversations/:sessionID", m.handler.GetConversation)
	ctx.Protected.DELETE("/chat/conversations/:sessionID", m.handler.DeleteConversation)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
