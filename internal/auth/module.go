// Package auth provides the authentication bounded context module.
package auth

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"convosell_backend/internal/auth/handler"
	"convosell_backend/internal/auth/repository"
	"convosell_backend/internal/auth/service"
	"convosell_backend/internal/auth/token"
	"convosell_backend/internal/events"
	apphttp "convosell_backend/internal/http"
	"convosell_backend/platform/config"
	"convosell_backend/platform/logger"
	"convosell_backend/platform/validator"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	repo    *repository.Repository
}

// NewModule creates and initializes the auth module with all its dependencies.
func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, bus events.Bus, validate *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	issuer := token.NewIssuer(cfg.GetJWTAccessSecret(), cfg.GetAccessTokenTTL())
	svc := service.New(repo, issuer, bus, log)

	return &Module{
		handler: handler.New(svc, validate, log),
		repo:    repo,
	}
}

// Repository exposes the user repository for cross-module adapters
// (notification routing resolves owner email addresses through it).
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// RegisterRoutes mounts auth routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	authGroup := ctx.V1.Group("/auth")
	authGroup.Use(ctx.AuthRateLimiter)
	authGroup.POST("/signup", m.handler.SignUp)
	authGroup.POST("/login", m.handler.Login)
	authGroup.POST("/verify", m.handler.Verify)

	ctx.Protected.GET("/auth/me", m.handler.Me)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
