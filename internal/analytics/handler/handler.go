// Package handler exposes the analytics HTTP endpoints.
package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"convosell_backend/internal/analytics/repository"
	"convosell_backend/internal/analytics/service"
	"convosell_backend/internal/analytics/transport"
	"convosell_backend/platform/httpkit"
	"convosell_backend/platform/logger"
)

const dateLayout = "2006-01-02"

// Handler serves the analytics endpoints.
type Handler struct {
	svc *service.Service
	log *logger.Logger
}

// New creates the analytics handler.
func New(svc *service.Service, log *logger.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// AgentReport handles GET /analytics/:agentID with an optional days query
// parameter.
func (h *Handler) AgentReport(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)

	agentID, err := uuid.Parse(c.Param("agentID"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid agent id", nil)
		return
	}
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	report, err := h.svc.AgentReport(c.Request.Context(), identity.UserID(), agentID, days)
	if err != nil {
		httpkit.HandleError(c, h.log, err)
		return
	}

	daily := make([]transport.DailyStatResponse, 0, len(report.DailyStats))
	for _, stat := range report.DailyStats {
		daily = append(daily, transport.DailyStatResponse{
			Date:               stat.Date.Format(dateLayout),
			TotalConversations: stat.TotalConversations,
			TotalMessages:      stat.TotalMessages,
			LeadsCaptured:      stat.LeadsCaptured,
			Conversions:        stat.Conversions,
		})
	}
	questions := make([]transport.PopularQuestionResponse, 0, len(report.PopularQuestions))
	for _, q := range report.PopularQuestions {
		questions = append(questions, transport.PopularQuestionResponse{Question: q.Question, Count: q.Count})
	}

	httpkit.OK(c, http.StatusOK, transport.AgentReportResponse{
		AgentID:   report.AgentID.String(),
		AgentName: report.AgentName,
		Summary: transport.SummaryResponse{
			TotalConversations:        report.Summary.TotalConversations,
			TotalMessages:             report.Summary.TotalMessages,
			LeadsCaptured:             report.Summary.LeadsCaptured,
			Conversions:               report.Summary.Conversions,
			AverageConversationLength: report.Summary.AverageConversationLength,
		},
		DailyStats:       daily,
		PopularQuestions: questions,
		Period:           toPeriodResponse(report.Period),
	})
}

// Conversations handles GET /analytics/:agentID/conversations with limit and
// offset query parameters.
func (h *Handler) Conversations(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)

	agentID, err := uuid.Parse(c.Param("agentID"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid agent id", nil)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	conversations, total, err := h.svc.Conversations(c.Request.Context(), identity.UserID(), agentID, limit, offset)
	if err != nil {
		httpkit.HandleError(c, h.log, err)
		return
	}

	responses := make([]transport.ConversationResponse, 0, len(conversations))
	for i := range conversations {
		responses = append(responses, toConversationResponse(&conversations[i]))
	}
	httpkit.OK(c, http.StatusOK, transport.ConversationListResponse{
		Conversations: responses,
		Pagination: transport.PaginationResponse{
			Total:   total,
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+limit < total,
		},
	})
}

// Leads handles GET /analytics/:agentID/leads.
func (h *Handler) Leads(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)

	agentID, err := uuid.Parse(c.Param("agentID"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid agent id", nil)
		return
	}

	leads, err := h.svc.Leads(c.Request.Context(), identity.UserID(), agentID)
	if err != nil {
		httpkit.HandleError(c, h.log, err)
		return
	}

	responses := make([]transport.CapturedLeadResponse, 0, len(leads))
	for _, lead := range leads {
		responses = append(responses, transport.CapturedLeadResponse{
			ConversationID: lead.ConversationID.String(),
			SessionID:      lead.SessionID,
			Channel:        lead.Channel,
			Name:           lead.Lead.Name,
			Email:          lead.Lead.Email,
			Phone:          lead.Lead.Phone,
			InterestLevel:  lead.Lead.InterestLevel,
			CapturedAt:     lead.CapturedAt,
		})
	}
	httpkit.OK(c, http.StatusOK, transport.LeadListResponse{Leads: responses, Total: len(responses)})
}

// ExportLeads handles GET /analytics/:agentID/leads/export and returns a CSV
// download.
func (h *Handler) ExportLeads(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)

	agentID, err := uuid.Parse(c.Param("agentID"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid agent id", nil)
		return
	}

	content, filename, err := h.svc.ExportLeadsCSV(c.Request.Context(), identity.UserID(), agentID)
	if err != nil {
		httpkit.HandleError(c, h.log, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv", content)
}

// DashboardSummary handles GET /analytics/dashboard/summary.
func (h *Handler) DashboardSummary(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)

	summary, err := h.svc.DashboardSummary(c.Request.Context(), identity.UserID())
	if err != nil {
		httpkit.HandleError(c, h.log, err)
		return
	}

	httpkit.OK(c, http.StatusOK, transport.DashboardSummaryResponse{
		TotalAgents:        summary.TotalAgents,
		ActiveAgents:       summary.ActiveAgents,
		TotalConversations: summary.TotalConversations,
		TotalLeads:         summary.TotalLeads,
	})
}

// Advanced handles GET /analytics/dashboard/advanced with optional days and
// agentId query parameters.
func (h *Handler) Advanced(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)

	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	var agentID *uuid.UUID
	if raw := c.Query("agentId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid agent id", nil)
			return
		}
		agentID = &parsed
	}

	report, err := h.svc.AdvancedReport(c.Request.Context(), identity.UserID(), agentID, days)
	if err != nil {
		httpkit.HandleError(c, h.log, err)
		return
	}

	hours := make([]transport.PeakHourResponse, 0, len(report.PeakHours))
	for _, hour := range report.PeakHours {
		hours = append(hours, transport.PeakHourResponse{Hour: hour.Hour, Conversations: hour.Conversations})
	}
	performance := make([]transport.AgentComparisonResponse, 0, len(report.AgentPerformance))
	for _, p := range report.AgentPerformance {
		performance = append(performance, transport.AgentComparisonResponse{
			AgentID:            p.AgentID.String(),
			AgentName:          p.AgentName,
			TotalConversations: p.TotalConversations,
			TotalLeads:         p.TotalLeads,
			ConversionRate:     p.ConversionRate,
			AvgMessages:        p.AvgMessages,
		})
	}
	trends := make([]transport.TrendPointResponse, 0, len(report.DailyTrends))
	for _, t := range report.DailyTrends {
		trends = append(trends, transport.TrendPointResponse{
			Date:          t.Date.Format(dateLayout),
			Conversations: t.Conversations,
			Leads:         t.Leads,
		})
	}

	resp := transport.AdvancedReportResponse{
		PeakHours:        hours,
		AgentPerformance: performance,
		ConversionFunnel: transport.FunnelResponse{
			Visitors:          report.Funnel.Visitors,
			Engaged:           report.Funnel.Engaged,
			Qualified:         report.Funnel.Qualified,
			Converted:         report.Funnel.Converted,
			EngagementRate:    report.Funnel.EngagementRate,
			QualificationRate: report.Funnel.QualificationRate,
			ConversionRate:    report.Funnel.ConversionRate,
		},
		DailyTrends: trends,
		Period:      toPeriodResponse(report.Period),
	}
	if report.FilteredAgentID != nil {
		resp.FilteredAgentID = report.FilteredAgentID.String()
	}
	httpkit.OK(c, http.StatusOK, resp)
}

func toPeriodResponse(p service.Period) transport.PeriodResponse {
	return transport.PeriodResponse{
		StartDate: p.StartDate.Format(dateLayout),
		EndDate:   p.EndDate.Format(dateLayout),
		Days:      p.Days,
	}
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
