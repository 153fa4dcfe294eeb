// Package analytics provides the analytics bounded context module.
package analytics

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"convosell_backend/internal/analytics/handler"
	"convosell_backend/internal/analytics/repository"
	"convosell_backend/internal/analytics/service"
	"convosell_backend/internal/events"
	apphttp "convosell_backend/internal/http"
	"convosell_backend/platform/logger"
)

// Module is the analytics bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the analytics module with all its
// dependencies. Rollup subscribers are registered on the bus immediately.
func NewModule(pool *pgxpool.Pool, agents service.AgentDirectory, bus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, agents, log)
	RegisterSubscribers(bus, repo)

	return &Module{
		handler: handler.New(svc, log),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "analytics"
}

// RegisterRoutes mounts analytics routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/analytics")
	group.GET("/dashboard/summary", m.handler.DashboardSummary)
	group.GET("/dashboard/advanced", m.handler.Advanced)
	group.GET("/:agentID", m.handler.AgentReport)
	group.GET("/:agentID/conversations", m.handler.Conversations)
	group.GET("/:agentID/leads", m.handler.Leads)
	group.GET("/:agentID/leads/export", m.handler.ExportLeads)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
