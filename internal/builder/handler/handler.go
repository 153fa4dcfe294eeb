// Package handler exposes the conversational builder HTTP endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"convosell_backend/internal/builder/service"
	"convosell_backend/internal/builder/transport"
	"convosell_backend/platform/httpkit"
	"convosell_backend/platform/logger"
	"convosell_backend/platform/validator"
)

// Handler serves the builder endpoints.
type Handler struct {
	svc      *service.Service
	validate *validator.Validator
	log      *logger.Logger
}

// New creates the builder handler.
func New(svc *service.Service, validate *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{svc: svc, validate: validate, log: log}
}

// Start handles POST /builder/start. It opens a fresh session with an empty
// draft.
func (h *Handler) Start(c *gin.Context) {
	result := h.svc.Start(c.Request.Context())

	httpkit.OK(c, http.StatusOK, transport.ConverseResponse{
		Response: result.Response,
		Draft:    toDraftPayload(result.Draft),
		Phase:    result.Phase,
	})
}

// Converse handles POST /builder/converse, one turn of the setup
// conversation. The client echoes the draft and phase from the previous
// response.
func (h *Handler) Converse(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)

	var req transport.ConverseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err.Error())
		return
	}

	history := make([]service.Turn, 0, len(req.History))
	for _, turn := range req.History {
		history = append(history, service.Turn{Role: turn.Role, Content: turn.Content})
	}

	result, err := h.svc.Converse(c.Request.Context(), service.ConverseParams{
		OwnerID: identity.UserID(),
		Message: req.Message,
		History: history,
		Draft:   toDraft(req.Draft),
		Phase:   req.Phase,
	})
	if err != nil {
		httpkit.HandleError(c, h.log, err)
		return
	}

	resp := transport.ConverseResponse{
		Response:   result.Response,
		Draft:      toDraftPayload(result.Draft),
		Phase:      result.Phase,
		IsComplete: result.IsComplete,
	}
	if result.AgentID != nil {
		resp.AgentID = result.AgentID.String()
	}
	for _, agent := range result.Agents {
		resp.Agents = append(resp.Agents, transport.AgentSummaryResponse{
			ID:          agent.ID.String(),
			Name:        agent.Name,
			CompanyName: agent.CompanyName,
			IsActive:    agent.IsActive,
		})
	}

	httpkit.OK(c, http.StatusOK, resp)
}

func toDraft(payload transport.DraftPayload) service.Draft {
	draft := service.Draft{
		Agent: service.AgentDraft{
			Name:               payload.Agent.Name,
			CompanyName:        payload.Agent.CompanyName,
			CompanyDescription: payload.Agent.CompanyDescription,
			Tone:               payload.Agent.Tone,
			Language:           payload.Agent.Language,
			GreetingMessage:    payload.Agent.GreetingMessage,
			SalesStrategy:      payload.Agent.SalesStrategy,
		},
		Training: service.TrainingDraft{URLs: payload.Training.URLs},
	}

	for _, p := range payload.Products {
		product := service.ProductDraft{Name: p.Name, Description: p.Description, Features: p.Features}
		if p.Price != nil {
			price := service.Price(*p.Price)
			product.Price = &price
		}
		draft.Products = append(draft.Products, product)
	}
	for _, faq := range payload.Training.FAQs {
		draft.Training.FAQs = append(draft.Training.FAQs, service.FAQDraft{Question: faq.Question, Answer: faq.Answer})
	}
	if id, err := uuid.Parse(payload.AgentID); err == nil {
		draft.AgentID = &id
	}
	return draft
}

func toDraftPayload(draft service.Draft) transport.DraftPayload {
	payload := transport.DraftPayload{
		Agent: transport.AgentDraftPayload{
			Name:               draft.Agent.Name,
			CompanyName:        draft.Agent.CompanyName,
			CompanyDescription: draft.Agent.CompanyDescription,
			Tone:               draft.Agent.Tone,
			Language:           draft.Agent.Language,
			GreetingMessage:    draft.Agent.GreetingMessage,
			SalesStrategy:      draft.Agent.SalesStrategy,
		},
		Training: transport.TrainingDraftPayload{URLs: draft.Training.URLs},
	}

	for _, p := range draft.Products {
		product := transport.ProductDraftPayload{Name: p.Name, Description: p.Description, Features: p.Features}
		if p.Price != nil {
			price := float64(*p.Price)
			product.Price = &price
		}
		payload.Products = append(payload.Products, product)
	}
	for _, faq := range draft.Training.FAQs {
		payload.Training.FAQs = append(payload.Training.FAQs, transport.FAQDraftPayload{Question: faq.Question, Answer: faq.Answer})
	}
	if draft.AgentID != nil {
		payload.AgentID = draft.AgentID.String()
	}
	return payload
}
