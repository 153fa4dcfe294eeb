// Package training provides the agent training bounded context module.
package training

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"convosell_backend/internal/events"
	apphttp "convosell_backend/internal/http"
	"convosell_backend/internal/training/handler"
	"convosell_backend/internal/training/repository"
	"convosell_backend/internal/training/scraper"
	"convosell_backend/internal/training/service"
	"convosell_backend/platform/config"
	"convosell_backend/platform/logger"
	"convosell_backend/platform/validator"
)

// Module is the training bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	svc     *service.Service
}

// NewModule creates and initializes the training module. dispatcher may be
// nil, in which case ingestion runs inline; knowledge may be nil when no
// vector store is configured, which disables training.
func NewModule(pool *pgxpool.Pool, guard service.AgentGuard, knowledge service.Knowledge, dispatcher service.Dispatcher, cfg config.TrainingConfig, bus events.Bus, validate *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, guard, knowledge, scraper.New(), dispatcher, cfg.GetMaxUploadSize(), bus, log)

	return &Module{
		handler: handler.New(svc, validate, log),
		svc:     svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "training"
}

// Service exposes the training service for the queue worker, which calls
// ProcessIngest directly.
func (m *Module) Service() *service.Service {
	return m.svc
}

// RegisterRoutes mounts training routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/training")
	group.POST("/pdf", m.handler.UploadPDF)
	group.POST("/url", m.handler.TrainFromURL)
	group.POST("/faq", m.handler.TrainFromFAQ)
	group.POST("/text", m.handler.TrainFromText)
	group.GET("/:agentID/data", m.handler.ListData)
	group.DELETE("/:agentID/data", m.handler.ClearData)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
