// Package products provides the product catalog bounded context module.
package products

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"convosell_backend/internal/adapters/storage"
	apphttp "convosell_backend/internal/http"
	"convosell_backend/internal/products/handler"
	"convosell_backend/internal/products/repository"
	"convosell_backend/internal/products/service"
	"convosell_backend/platform/logger"
	"convosell_backend/platform/validator"
)

// Module is the products bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	repo    *repository.Repository
	svc     *service.Service
}

// NewModule creates and initializes the products module.
// store may be nil when MinIO is not configured.
func NewModule(pool *pgxpool.Pool, guard service.AgentGuard, store storage.Service, cfg service.StorageConfig, validate *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, guard, store, cfg, log)

	return &Module{
		handler: handler.New(svc, validate, log),
		repo:    repo,
		svc:     svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "products"
}

// Repository exposes the product repository for cross-module adapters
// (the chat module snapshots the catalog into agent profiles).
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// Service exposes the products service for cross-module adapters (the
// builder attaches drafted products through it).
func (m *Module) Service() *service.Service {
	return m.svc
}

// RegisterRoutes mounts product routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.POST("/products", m.handler.Create)
	ctx.Protected.POST("/products/upload-image", m.handler.UploadImage)

	agents := ctx.Protected.Group("/agents/:id/products")
	agents.GET("", m.handler.List)
	agents.GET("/:productID", m.handler.Get)
	agents.PATCH("/:productID", m.handler.Update)
	agents.DELETE("/:productID", m.handler.Delete)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
