// Package orders provides the order management bounded context module.
package orders

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"convosell_backend/internal/events"
	apphttp "convosell_backend/internal/http"
	"convosell_backend/internal/orders/handler"
	"convosell_backend/internal/orders/repository"
	"convosell_backend/internal/orders/service"
	"convosell_backend/platform/logger"
	"convosell_backend/platform/validator"
)

// Module is the orders bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the orders module with all its
// dependencies.
func NewModule(pool *pgxpool.Pool, guard service.AgentGuard, bus events.Bus, validate *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, guard, bus, log)

	return &Module{
		handler: handler.New(svc, validate, log),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "orders"
}

// RegisterRoutes mounts order routes on the provided router context. The
// tracking endpoint is public so customers can follow their orders without
// an account.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/orders")
	group.POST("", m.handler.Create)
	group.GET("", m.handler.List)
	group.GET("/stats/summary", m.handler.Stats)
	group.GET("/:id", m.handler.Get)
	group.PATCH("/:id/status", m.handler.UpdateStatus)

	ctx.Public.GET("/orders/track/:orderNumber", m.handler.Track)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
