// Package handler exposes the agents HTTP endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"convosell_backend/internal/agents/repository"
	"convosell_backend/internal/agents/service"
	"convosell_backend/internal/agents/transport"
	"convosell_backend/platform/httpkit"
	"convosell_backend/platform/logger"
	"convosell_backend/platform/validator"
)

// Handler serves the agents endpoints.
type Handler struct {
	svc      *service.Service
	validate *validator.Validator
	log      *logger.Logger
}

// New creates the agents handler.
func New(svc *service.Service, validate *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{svc: svc, validate: validate, log: log}
}

// Create handles POST /agents.
func (h *Handler) Create(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)

	var req transport.CreateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err.Error())
		return
	}

	agent, err := h.svc.Create(c.Request.Context(), repository.CreateParams{
		OwnerID:            identity.UserID(),
		Name:               req.Name,
		CompanyName:        req.CompanyName,
		CompanyDescription: req.CompanyDescription,
		Tone:               req.Tone,
		Language:           req.Language,
		GreetingMessage:    req.GreetingMessage,
		SalesStrategy:      req.SalesStrategy,
	})
	if err != nil {
		httpkit.HandleError(c, h.log, err)
		return
	}

	httpkit.OK(c, http.StatusCreated, toAgentResponse(agent))
}

// List handles GET /agents.
func (h *Handler) List(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)

	agents, err := h.svc.List(c.Request.Context(), identity.UserID())
	if err != nil {
		httpkit.HandleError(c, h.log, err)
		return
	}

	responses := make([]transport.AgentResponse, 0, len(agents))
	for i := range agents {
		responses = append(responses, toAgentResponse(&agents[i]))
	}
	httpkit.OK(c, http.StatusOK, responses)
}

// Get handles GET /agents/:id.
func (h *Handler) Get(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid agent id", nil)
		return
	}

	agent, err := h.svc.Get(c.Request.Context(), identity.UserID(), id)
	if err != nil {
		httpkit.HandleError(c, h.log, err)
		return
	}

	httpkit.OK(c, http.StatusOK, toAgentResponse(agent))
}

// Update handles PATCH /agents/:id.
func (h *Handler) Update(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid agent id", nil)
		return
	}

	var req transport.UpdateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err.Error())
		return
	}

	agent, err := h.svc.Update(c.Request.Context(), repository.UpdateParams{
		OwnerID:            identity.UserID(),
		ID:                 id,
		Name:               req.Name,
		CompanyDescription: req.CompanyDescription,
		Tone:               req.Tone,
		Language:           req.Language,
		GreetingMessage:    req.GreetingMessage,
		SalesStrategy:      req.SalesStrategy,
		IsActive:           req.IsActive,
	})
	if err != nil {
		httpkit.HandleError(c, h.log, err)
		return
	}

	httpkit.OK(c, http.StatusOK, toAgentResponse(agent))
}

// Delete handles DELETE /agents/:id.
func (h *Handler) Delete(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid agent id", nil)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), identity.UserID(), id); err != nil {
		httpkit.HandleError(c, h.log, err)
		return
	}

	httpkit.OK(c, http.StatusOK, gin.H{"message": "agent deleted"})
}

// Stats handles GET /agents/:id/stats.
func (h *Handler) Stats(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid agent id", nil)
		return
	}

	stats, err := h.svc.GetStats(c.Request.Context(), identity.UserID(), id)
	if err != nil {
		httpkit.HandleError(c, h.log, err)
		return
	}

	httpkit.OK(c, http.StatusOK, transport.AgentStatsResponse{
		AgentID:            stats.AgentID.String(),
		KnowledgeVectors:   stats.KnowledgeVectors,
		TotalConversations: stats.TotalConversations,
	})
}

func toAgentResponse(agent *repository.Agent) transport.AgentResponse {
	return transport.AgentResponse{
		ID:                 agent.ID.String(),
		Name:               agent.Name,
		CompanyName:        agent.CompanyName,
		CompanyDescription: agent.CompanyDescription,
		Tone:               agent.Tone,
		Language:           agent.Language,
		GreetingMessage:    agent.GreetingMessage,
		SalesStrategy:      agent.SalesStrategy,
		IsActive:           agent.IsActive,
		CreatedAt:          agent.CreatedAt,
		UpdatedAt:          agent.UpdatedAt,
	}
}
