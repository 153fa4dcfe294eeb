// Package transport defines response DTOs for the analytics API.
package transport

import "time"

// PeriodResponse is the date range a report covers.
type PeriodResponse struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Days      int    `json:"days"`
}

// SummaryResponse aggregates all conversations of one agent.
type SummaryResponse struct {
	TotalConversations        int     `json:"totalConversations"`
	TotalMessages             int     `json:"totalMessages"`
	LeadsCaptured             int     `json:"leadsCaptured"`
	Conversions               int     `json:"conversions"`
	AverageConversationLength float64 `json:"averageConversationLength"`
}

// DailyStatResponse is one rollup row.
type DailyStatResponse struct {
	Date               string `json:"date"`
	TotalConversations int    `json:"totalConversations"`
	TotalMessages      int    `json:"totalMessages"`
	LeadsCaptured      int    `json:"leadsCaptured"`
	Conversions        int    `json:"conversions"`
}

// PopularQuestionResponse is a frequently asked visitor question.
type PopularQuestionResponse struct {
	Question string `json:"question"`
	Count    int    `json:"count"`
}

// AgentReportResponse is the full analytics view of one agent.
type AgentReportResponse struct {
	AgentID          string                    `json:"agentId"`
	AgentName        string                    `json:"agentName"`
	Summary          SummaryResponse           `json:"summary"`
	DailyStats       []DailyStatResponse       `json:"dailyStats"`
	PopularQuestions []PopularQuestionResponse `json:"popularQuestions"`
	Period           PeriodResponse            `json:"period"`
}

// MessageResponse is one transcript turn.
type MessageResponse struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// LeadResponse is the captured contact information.
type LeadResponse struct {
	Name          string `json:"name,omitempty"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	InterestLevel string `json:"interestLevel,omitempty"`
}

// ConversationResponse is one chat session with its transcript.
type ConversationResponse struct {
	ID        string            `json:"id"`
	SessionID string            `json:"sessionId"`
	Channel   string            `json:"channel"`
	Messages  []MessageResponse `json:"messages"`
	Lead      *LeadResponse     `json:"lead,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// PaginationResponse describes a paginated listing.
type PaginationResponse struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

// ConversationListResponse is a paginated conversation listing.
type ConversationListResponse struct {
	Conversations []ConversationResponse `json:"conversations"`
	Pagination    PaginationResponse     `json:"pagination"`
}

// CapturedLeadResponse is a lead together with its session.
type CapturedLeadResponse struct {
	ConversationID string    `json:"conversationId"`
	SessionID      string    `json:"sessionId"`
	Channel        string    `json:"channel"`
	Name           string    `json:"name,omitempty"`
	Email          string    `json:"email,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	InterestLevel  string    `json:"interestLevel,omitempty"`
	CapturedAt     time.Time `json:"capturedAt"`
}

// LeadListResponse is the lead listing of one agent.
type LeadListResponse struct {
	Leads []CapturedLeadResponse `json:"leads"`
	Total int                    `json:"total"`
}

// DashboardSummaryResponse aggregates everything an owner has.
type DashboardSummaryResponse struct {
	TotalAgents        int `json:"totalAgents"`
	ActiveAgents       int `json:"activeAgents"`
	TotalConversations int `json:"totalConversations"`
	TotalLeads         int `json:"totalLeads"`
}

// PeakHourResponse is conversation volume for one hour of the day.
type PeakHourResponse struct {
	Hour          int `json:"hour"`
	Conversations int `json:"conversations"`
}

// AgentComparisonResponse is one agent's derived performance metrics.
type AgentComparisonResponse struct {
	AgentID            string  `json:"agentId"`
	AgentName          string  `json:"agentName"`
	TotalConversations int     `json:"totalConversations"`
	TotalLeads         int     `json:"totalLeads"`
	ConversionRate     float64 `json:"conversionRate"`
	AvgMessages        float64 `json:"avgMessages"`
}

// FunnelResponse is the conversion funnel with derived rates.
type FunnelResponse struct {
	Visitors          int     `json:"visitors"`
	Engaged           int     `json:"engaged"`
	Qualified         int     `json:"qualified"`
	Converted         int     `json:"converted"`
	EngagementRate    float64 `json:"engagementRate"`
	QualificationRate float64 `json:"qualificationRate"`
	ConversionRate    float64 `json:"conversionRate"`
}

// TrendPointResponse is conversation and lead volume for one day.
type TrendPointResponse struct {
	Date          string `json:"date"`
	Conversations int    `json:"conversations"`
	Leads         int    `json:"leads"`
}

// AdvancedReportResponse is the cross-agent analytics view.
type AdvancedReportResponse struct {
	PeakHours        []PeakHourResponse        `json:"peakHours"`
	AgentPerformance []AgentComparisonResponse `json:"agentPerformance"`
	ConversionFunnel FunnelResponse            `json:"conversionFunnel"`
	DailyTrends      []TrendPointResponse      `json:"dailyTrends"`
	Period           PeriodResponse            `json:"period"`
	FilteredAgentID  string                    `json:"filteredAgentId,omitempty"`
}
