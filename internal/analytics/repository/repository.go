// Package repository provides read-side queries over conversations and the
// daily analytics rollup table.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Lead mirrors the lead_info jsonb stored on conversations.
type Lead struct {
	Name          string `json:"name,omitempty"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	InterestLevel string `json:"interest_level,omitempty"`
}

// Message mirrors one transcript turn stored on conversations.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is a read-only view of one chat session.
type Conversation struct {
	ID        uuid.UUID
	SessionID string
	Channel   string
	Messages  []Message
	Lead      *Lead
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CapturedLead is a lead together with the session it came from.
type CapturedLead struct {
	ConversationID uuid.UUID
	SessionID      string
	Channel        string
	Lead           Lead
	CapturedAt     time.Time
}

// Totals aggregates all conversations of one agent.
type Totals struct {
	TotalConversations int
	TotalMessages      int
	LeadsCaptured      int
}

// DailyStat is one row of the per-day rollup.
type DailyStat struct {
	Date               time.Time
	TotalConversations int
	TotalMessages      int
	LeadsCaptured      int
	Conversions        int
}

// DashboardCounts summarizes everything an owner has.
type DashboardCounts struct {
	TotalAgents        int
	ActiveAgents       int
	TotalConversations int
	TotalLeads         int
}

// AgentPerformance compares one agent against its siblings.
type AgentPerformance struct {
	AgentID            uuid.UUID
	AgentName          string
	TotalConversations int
	TotalLeads         int
	TotalMessages      int
}

// HourCount is conversation volume for one hour of the day.
type HourCount struct {
	Hour          int
	Conversations int
}

// TrendPoint is conversation and lead volume for one day.
type TrendPoint struct {
	Date          time.Time
	Conversations int
	Leads         int
}

// FunnelCounts are the raw stages of the conversion funnel. Engaged means
// more than three transcript turns; converted means a high or converted
// interest level on the lead.
type FunnelCounts struct {
	Visitors  int
	Engaged   int
	Qualified int
	Converted int
}

// Repository provides analytics queries backed by Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates an analytics repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// RecordConversation folds one processed message exchange into the daily
// rollup for the agent. newSessions is 1 when the exchange opened a new
// conversation.
func (r *Repository) RecordConversation(ctx context.Context, agentID uuid.UUID, date time.Time, newSessions, messages int) error {
	query := `
		INSERT INTO analytics (id, agent_id, date, total_conversations, total_messages, leads_captured, conversions)
		VALUES ($1, $2, $3, $4, $5, 0, 0)
		ON CONFLICT (agent_id, date) DO UPDATE SET
			total_conversations = analytics.total_conversations + EXCLUDED.total_conversations,
			total_messages = analytics.total_messages + EXCLUDED.total_messages`

	_, err := r.pool.Exec(ctx, query, uuid.New(), agentID, date, newSessions, messages)
	if err != nil {
		return fmt.Errorf("record conversation rollup: %w", err)
	}
	return nil
}

// RecordLead folds one captured lead into the daily rollup for the agent.
func (r *Repository) RecordLead(ctx context.Context, agentID uuid.UUID, date time.Time) error {
	query := `
		INSERT INTO analytics (id, agent_id, date, total_conversations, total_messages, leads_captured, conversions)
		VALUES ($1, $2, $3, 0, 0, 1, 0)
		ON CONFLICT (agent_id, date) DO UPDATE SET
			leads_captured = analytics.leads_captured + 1`

	_, err := r.pool.Exec(ctx, query, uuid.New(), agentID, date)
	if err != nil {
		return fmt.Errorf("record lead rollup: %w", err)
	}
	return nil
}

// AgentTotals aggregates all conversations of one agent.
func (r *Repository) AgentTotals(ctx context.Context, agentID uuid.UUID) (*Totals, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(jsonb_array_length(messages)), 0),
			COUNT(*) FILTER (WHERE lead_info IS NOT NULL)
		FROM conversations
		WHERE agent_id = $1`

	var t Totals
	err := r.pool.QueryRow(ctx, query, agentID).Scan(&t.TotalConversations, &t.TotalMessages, &t.LeadsCaptured)
	if err != nil {
		return nil, fmt.Errorf("agent totals: %w", err)
	}
	return &t, nil
}

// DailyStats returns rollup rows for an agent within a date range, oldest
// first.
func (r *Repository) DailyStats(ctx context.Context, agentID uuid.UUID, from, to time.Time) ([]DailyStat, error) {
	query := `
		SELECT date, total_conversations, total_messages, leads_captured, conversions
		FROM analytics
		WHERE agent_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date`

	rows, err := r.pool.Query(ctx, query, agentID, from, to)
	if err != nil {
		return nil, fmt.Errorf("daily stats: %w", err)
	}
	defer rows.Close()

	var stats []DailyStat
	for rows.Next() {
		var s DailyStat
		if err := rows.Scan(&s.Date, &s.TotalConversations, &s.TotalMessages, &s.LeadsCaptured, &s.Conversions); err != nil {
			return nil, fmt.Errorf("scan daily stat: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily stats: %w", err)
	}
	return stats, nil
}

// ListConversations returns an agent's conversations newest first, with the
// unpaginated total.
func (r *Repository) ListConversations(ctx context.Context, agentID uuid.UUID, limit, offset int) ([]Conversation, int, error) {
	query := `
		SELECT id, session_id, channel, messages, lead_info, created_at, updated_at
		FROM conversations
		WHERE agent_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, agentID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var conversations []Conversation
	for rows.Next() {
		var c Conversation
		if err := rows.Scan(&c.ID, &c.SessionID, &c.Channel, &c.Messages, &c.Lead, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan conversation: %w", err)
		}
		conversations = append(conversations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate conversations: %w", err)
	}

	var total int
	err = r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM conversations WHERE agent_id = $1`, agentID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count conversations: %w", err)
	}
	return conversations, total, nil
}

// ListLeads returns all captured leads of an agent, newest first.
func (r *Repository) ListLeads(ctx context.Context, agentID uuid.UUID) ([]CapturedLead, error) {
	query := `
		SELECT id, session_id, channel, lead_info, created_at
		FROM conversations
		WHERE agent_id = $1 AND lead_info IS NOT NULL
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, agentID)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var leads []CapturedLead
	for rows.Next() {
		var l CapturedLead
		if err := rows.Scan(&l.ConversationID, &l.SessionID, &l.Channel, &l.Lead, &l.CapturedAt); err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}
	return leads, nil
}

// UserQuestions extracts the text of visitor messages since the given time.
// Used to surface frequently asked questions.
func (r *Repository) UserQuestions(ctx context.Context, agentID uuid.UUID, since time.Time, limit int) ([]string, error) {
	query := `
		SELECT m->>'content'
		FROM conversations c, jsonb_array_elements(c.messages) m
		WHERE c.agent_id = $1 AND c.created_at >= $2 AND m->>'role' = 'user'
		LIMIT $3`

	rows, err := r.pool.Query(ctx, query, agentID, since, limit)
	if err != nil {
		return nil, fmt.Errorf("user questions: %w", err)
	}
	defer rows.Close()

	var questions []string
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, fmt.Errorf("scan user question: %w", err)
		}
		questions = append(questions, content)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user questions: %w", err)
	}
	return questions, nil
}

// DashboardCounts aggregates agents, conversations and leads for an owner.
func (r *Repository) DashboardCounts(ctx context.Context, ownerID uuid.UUID) (*DashboardCounts, error) {
	var counts DashboardCounts

	agentQuery := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_active)
		FROM agents
		WHERE owner_id = $1`
	if err := r.pool.QueryRow(ctx, agentQuery, ownerID).Scan(&counts.TotalAgents, &counts.ActiveAgents); err != nil {
		return nil, fmt.Errorf("dashboard agent counts: %w", err)
	}

	convQuery := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE c.lead_info IS NOT NULL)
		FROM conversations c
		JOIN agents a ON a.id = c.agent_id
		WHERE a.owner_id = $1`
	if err := r.pool.QueryRow(ctx, convQuery, ownerID).Scan(&counts.TotalConversations, &counts.TotalLeads); err != nil {
		return nil, fmt.Errorf("dashboard conversation counts: %w", err)
	}
	return &counts, nil
}

// Performance compares the owner's agents over a period, busiest first.
// A non-nil agentID narrows the comparison to one agent.
func (r *Repository) Performance(ctx context.Context, ownerID uuid.UUID, since time.Time, agentID *uuid.UUID) ([]AgentPerformance, error) {
	query := `
		SELECT
			a.id,
			a.name,
			COUNT(c.id),
			COUNT(c.id) FILTER (WHERE c.lead_info IS NOT NULL),
			COALESCE(SUM(jsonb_array_length(c.messages)), 0)
		FROM agents a
		LEFT JOIN conversations c ON c.agent_id = a.id AND c.created_at >= $2
		WHERE a.owner_id = $1 AND ($3::uuid IS NULL OR a.id = $3)
		GROUP BY a.id, a.name
		ORDER BY COUNT(c.id) DESC`

	rows, err := r.pool.Query(ctx, query, ownerID, since, agentID)
	if err != nil {
		return nil, fmt.Errorf("agent performance: %w", err)
	}
	defer rows.Close()

	var performance []AgentPerformance
	for rows.Next() {
		var p AgentPerformance
		if err := rows.Scan(&p.AgentID, &p.AgentName, &p.TotalConversations, &p.TotalLeads, &p.TotalMessages); err != nil {
			return nil, fmt.Errorf("scan agent performance: %w", err)
		}
		performance = append(performance, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate agent performance: %w", err)
	}
	return performance, nil
}

// PeakHours returns conversation volume grouped by hour of day over a period.
func (r *Repository) PeakHours(ctx context.Context, ownerID uuid.UUID, since time.Time, agentID *uuid.UUID) ([]HourCount, error) {
	query := `
		SELECT EXTRACT(HOUR FROM c.created_at)::int, COUNT(*)
		FROM conversations c
		JOIN agents a ON a.id = c.agent_id
		WHERE a.owner_id = $1 AND c.created_at >= $2 AND ($3::uuid IS NULL OR c.agent_id = $3)
		GROUP BY 1
		ORDER BY 1`

	rows, err := r.pool.Query(ctx, query, ownerID, since, agentID)
	if err != nil {
		return nil, fmt.Errorf("peak hours: %w", err)
	}
	defer rows.Close()

	var hours []HourCount
	for rows.Next() {
		var h HourCount
		if err := rows.Scan(&h.Hour, &h.Conversations); err != nil {
			return nil, fmt.Errorf("scan peak hour: %w", err)
		}
		hours = append(hours, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate peak hours: %w", err)
	}
	return hours, nil
}

// DailyTrends returns conversation and lead volume per day over a period,
// oldest first.
func (r *Repository) DailyTrends(ctx context.Context, ownerID uuid.UUID, since time.Time, agentID *uuid.UUID) ([]TrendPoint, error) {
	query := `
		SELECT c.created_at::date, COUNT(*), COUNT(*) FILTER (WHERE c.lead_info IS NOT NULL)
		FROM conversations c
		JOIN agents a ON a.id = c.agent_id
		WHERE a.owner_id = $1 AND c.created_at >= $2 AND ($3::uuid IS NULL OR c.agent_id = $3)
		GROUP BY 1
		ORDER BY 1`

	rows, err := r.pool.Query(ctx, query, ownerID, since, agentID)
	if err != nil {
		return nil, fmt.Errorf("daily trends: %w", err)
	}
	defer rows.Close()

	var trends []TrendPoint
	for rows.Next() {
		var t TrendPoint
		if err := rows.Scan(&t.Date, &t.Conversations, &t.Leads); err != nil {
			return nil, fmt.Errorf("scan daily trend: %w", err)
		}
		trends = append(trends, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily trends: %w", err)
	}
	return trends, nil
}

// Funnel counts the conversion funnel stages over a period.
func (r *Repository) Funnel(ctx context.Context, ownerID uuid.UUID, since time.Time, agentID *uuid.UUID) (*FunnelCounts, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE jsonb_array_length(c.messages) > 3),
			COUNT(*) FILTER (WHERE c.lead_info IS NOT NULL),
			COUNT(*) FILTER (WHERE c.lead_info->>'interest_level' IN ('high', 'converted'))
		FROM conversations c
		JOIN agents a ON a.id = c.agent_id
		WHERE a.owner_id = $1 AND c.created_at >= $2 AND ($3::uuid IS NULL OR c.agent_id = $3)`

	var f FunnelCounts
	err := r.pool.QueryRow(ctx, query, ownerID, since, agentID).Scan(&f.Visitors, &f.Engaged, &f.Qualified, &f.Converted)
	if err != nil {
		return nil, fmt.Errorf("conversion funnel: %w", err)
	}
	return &f, nil
}
