// Package handler exposes the chat HTTP endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"convosell_backend/internal/chat/repository"
	"convosell_backend/internal/chat/service"
	"convosell_backend/internal/chat/transport"
	"convosell_backend/platform/httpkit"
	"convosell_backend/platform/logger"
	"convosell_backend/platform/validator"
)

// Handler serves the chat endpoints.
type Handler struct {
	svc      *service.Service
	validate *validator.Validator
	log      *logger.Logger
}

// New creates the chat handler.
func New(svc *service.Service, validate *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{svc: svc, validate: validate, log: log}
}

// Chat handles POST /chat. Anonymous access is allowed so the endpoint can
// serve embedded widgets; the session ID is the continuity key.
func (h *Handler) Chat(c *gin.Context) {
	var req transport.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err.Error())
		return
	}

	agentID, err := uuid.Parse(req.AgentID)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid agent id", nil)
		return
	}

	reply, err := h.svc.SendMessage(c.Request.Context(), service.SendParams{
		AgentID:   agentID,
		SessionID: req.SessionID,
		Message:   req.Message,
		Channel:   req.Channel,
		Language:  req.Language,
	})
	if err != nil {
		httpkit.HandleError(c, h.log, err)
		return
	}

	httpkit.OK(c, http.StatusOK, transport.ChatResponse{
		Message:   reply.Message,
		SessionID: reply.SessionID,
		AgentID:   reply.AgentID.String(),
		Metadata: transport.ChatMetadata{
			Intent:       reply.Intent,
			ContextUsed:  reply.ContextUsed,
			LeadCaptured: reply.LeadCaptured,
		},
	})
}

// WidgetMessage handles POST /chat/:agentID/message, the stateless endpoint
// embedded widgets use for one-shot messages.
func (h *Handler) WidgetMessage(c *gin.Context) {
	agentID, err := uuid.Parse(c.Param("agentID"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid agent id", nil)
		return
	}

	var req transport.WidgetMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "message is required", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err.Error())
		return
	}

	reply, err := h.svc.WidgetMessage(c.Request.Context(), agentID, req.Message, req.Language)
	if err != nil {
		httpkit.HandleError(c, h.log, err)
		return
	}

	resp := transport.WidgetMessageResponse{
		Response:  reply.Message,
		SessionID: reply.SessionID,
		AgentID:   reply.AgentID.String(),
		Intent:    reply.Intent,
	}
	if reply.Lead != nil {
		resp.Lead = &transport.LeadResponse{
			Name:          reply.Lead.Name,
			Email:         reply.Lead.Email,
			Phone:         reply.Lead.Phone,
			InterestLevel: reply.Lead.InterestLevel,
		}
	}
	httpkit.OK(c, http.StatusOK, resp)
}

// GetConversation handles GET /chat/conversations/:sessionID.
func (h *Handler) GetConversation(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)

	conv, err := h.svc.GetConversation(c.Request.Context(), identity.UserID(), c.Param("sessionID"))
	if err != nil {
		httpkit.HandleError(c, h.log, err)
		return
	}

	httpkit.OK(c, http.StatusOK, toConversationResponse(conv))
}

// DeleteConversation handles DELETE /chat/conversations/:sessionID.
func (h *Handler) DeleteConversation(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)

	if err := h.svc.DeleteConversation(c.Request.Context(), identity.UserID(), c.Param("sessionID")); err != nil {
		httpkit.HandleError(c, h.log, err)
		return
	}

	httpkit.OK(c, http.StatusOK, gin.H{"message": "conversation deleted"})
}

func toConversationResponse(conv *repository.Conversation) transport.ConversationResponse {
	messages := make([]transport.MessageResponse, 0, len(conv.Messages))
	for _, m := range conv.Messages {
		messages = append(messages, transport.MessageResponse{
			Role:      m.Role,
			Content:   m.Content,
			Timestamp: m.Timestamp,
		})
	}

	resp := transport.ConversationResponse{
		ID:        conv.ID.String(),
		AgentID:   conv.AgentID.String(),
		SessionID: conv.SessionID,
		Channel:   conv.Channel,
		Messages:  messages,
		CreatedAt: conv.CreatedAt,
		UpdatedAt: conv.UpdatedAt,
	}
	if conv.Lead != nil {
		resp.Lead = &transport.LeadResponse{
			Name:          conv.Lead.Name,
			Email:         conv.Lead.Email,
			Phone:         conv.Lead.Phone,
			InterestLevel: conv.Lead.InterestLevel,
		}
	}
	return resp
}
