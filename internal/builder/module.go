// Package builder provides the conversational agent builder module: agent
// setup, cloning and editing through natural conversation.
package builder

import (
	"convosell_backend/internal/builder/handler"
	"convosell_backend/internal/builder/service"
	apphttp "convosell_backend/internal/http"
	"convosell_backend/platform/logger"
	"convosell_backend/platform/validator"
)

// Module is the builder bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the builder module. All dependencies
// are cross-module ports wired by the composition root.
func NewModule(gen service.Generator, agents service.Directory, catalog service.Catalog, trainer service.Trainer, validate *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(gen, agents, catalog, trainer, log)
	return &Module{handler: handler.New(svc, validate, log)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "builder"
}

// RegisterRoutes mounts builder routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/builder")
	group.POST("/start", m.handler.Start)
	group.POST("/converse", m.handler.Converse)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
