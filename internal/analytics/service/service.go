// Package service implements the analytics read side: per-agent reports,
// lead listings, CSV export and dashboard summaries.
package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"convosell_backend/internal/analytics/repository"
	"convosell_backend/platform/apperr"
	"convosell_backend/platform/logger"
)

const (
	defaultPeriodDays = 30
	maxPeriodDays     = 365

	defaultConversationLimit = 50
	maxConversationLimit     = 200

	// questionSampleLimit bounds how many visitor messages are scanned when
	// surfacing popular questions.
	questionSampleLimit = 2000
	popularQuestionsTop = 5
)

// AgentRef is the agent snapshot analytics needs for reports.
type AgentRef struct {
	ID       uuid.UUID
	Name     string
	IsActive bool
}

// AgentDirectory resolves an agent scoped to its owner.
type AgentDirectory interface {
	Owned(ctx context.Context, ownerID, agentID uuid.UUID) (*AgentRef, error)
}

// Service implements analytics operations, scoped to the owning user.
type Service struct {
	repo   *repository.Repository
	agents AgentDirectory
	log    *logger.Logger
}

// New creates the analytics service.
func New(repo *repository.Repository, agents AgentDirectory, log *logger.Logger) *Service {
	return &Service{repo: repo, agents: agents, log: log}
}

// Period is the date range a report covers.
type Period struct {
	StartDate time.Time
	EndDate   time.Time
	Days      int
}

// Summary aggregates all conversations of one agent.
type Summary struct {
	TotalConversations        int
	TotalMessages             int
	LeadsCaptured             int
	Conversions               int
	AverageConversationLength float64
}

// PopularQuestion is a visitor question and how often it was asked.
type PopularQuestion struct {
	Question string
	Count    int
}

// AgentReport is the full analytics view of one agent.
type AgentReport struct {
	AgentID          uuid.UUID
	AgentName        string
	Summary          Summary
	DailyStats       []repository.DailyStat
	PopularQuestions []PopularQuestion
	Period           Period
}

// AgentReport builds the analytics report for one agent over the last days.
func (s *Service) AgentReport(ctx context.Context, ownerID, agentID uuid.UUID, days int) (*AgentReport, error) {
	agent, err := s.agents.Owned(ctx, ownerID, agentID)
	if err != nil {
		return nil, err
	}

	period := makePeriod(days)
	totals, err := s.repo.AgentTotals(ctx, agentID)
	if err != nil {
		return nil, err
	}

	daily, err := s.repo.DailyStats(ctx, agentID, period.StartDate, period.EndDate)
	if err != nil {
		return nil, err
	}

	conversions := 0
	for _, d := range daily {
		conversions += d.Conversions
	}

	var avgLength float64
	if totals.TotalConversations > 0 {
		avgLength = round1(float64(totals.TotalMessages) / float64(totals.TotalConversations))
	}

	questions, err := s.popularQuestions(ctx, agentID, period.StartDate)
	if err != nil {
		// The report is still useful without questions.
		s.log.DatabaseError("popular questions", err)
		questions = nil
	}

	return &AgentReport{
		AgentID:   agentID,
		AgentName: agent.Name,
		Summary: Summary{
			TotalConversations:        totals.TotalConversations,
			TotalMessages:             totals.TotalMessages,
			LeadsCaptured:             totals.LeadsCaptured,
			Conversions:               conversions,
			AverageConversationLength: avgLength,
		},
		DailyStats:       daily,
		PopularQuestions: questions,
		Period:           period,
	}, nil
}

// Conversations lists an agent's sessions for transcript review.
func (s *Service) Conversations(ctx context.Context, ownerID, agentID uuid.UUID, limit, offset int) ([]repository.Conversation, int, error) {
	if _, err := s.agents.Owned(ctx, ownerID, agentID); err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = defaultConversationLimit
	}
	if limit > maxConversationLimit {
		limit = maxConversationLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListConversations(ctx, agentID, limit, offset)
}

// Leads lists all leads an agent has captured.
func (s *Service) Leads(ctx context.Context, ownerID, agentID uuid.UUID) ([]repository.CapturedLead, error) {
	if _, err := s.agents.Owned(ctx, ownerID, agentID); err != nil {
		return nil, err
	}
	return s.repo.ListLeads(ctx, agentID)
}

// ExportLeadsCSV renders an agent's leads as a downloadable CSV file and
// returns the content with a date-stamped filename.
func (s *Service) ExportLeadsCSV(ctx context.Context, ownerID, agentID uuid.UUID) ([]byte, string, error) {
	leads, err := s.Leads(ctx, ownerID, agentID)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	header := []string{"Date", "Name", "Email", "Phone", "Interest Level", "Channel", "Session ID"}
	if err := writer.Write(header); err != nil {
		return nil, "", apperr.Wrap(apperr.KindInternal, "failed to write csv", err)
	}
	for _, lead := range leads {
		record := []string{
			lead.CapturedAt.Format(time.RFC3339),
			lead.Lead.Name,
			lead.Lead.Email,
			lead.Lead.Phone,
			lead.Lead.InterestLevel,
			lead.Channel,
			lead.SessionID,
		}
		if err := writer.Write(record); err != nil {
			return nil, "", apperr.Wrap(apperr.KindInternal, "failed to write csv", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", apperr.Wrap(apperr.KindInternal, "failed to write csv", err)
	}

	filename := fmt.Sprintf("leads_%s_%s.csv", agentID, time.Now().UTC().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// DashboardSummary aggregates everything the owner has for the main
// dashboard.
func (s *Service) DashboardSummary(ctx context.Context, ownerID uuid.UUID) (*repository.DashboardCounts, error) {
	return s.repo.DashboardCounts(ctx, ownerID)
}

// AgentComparison is one agent's derived performance metrics.
type AgentComparison struct {
	AgentID            uuid.UUID
	AgentName          string
	TotalConversations int
	TotalLeads         int
	ConversionRate     float64
	AvgMessages        float64
}

// Funnel is the conversion funnel with derived rates.
type Funnel struct {
	Visitors          int
	Engaged           int
	Qualified         int
	Converted         int
	EngagementRate    float64
	QualificationRate float64
	ConversionRate    float64
}

// AdvancedReport is the cross-agent analytics view.
type AdvancedReport struct {
	PeakHours        []repository.HourCount
	AgentPerformance []AgentComparison
	Funnel           Funnel
	DailyTrends      []repository.TrendPoint
	Period           Period
	FilteredAgentID  *uuid.UUID
}

// AdvancedReport builds peak hours, agent comparison, funnel and trend
// analysis over the owner's agents. A non-nil agentID narrows the report to
// one agent after an ownership check.
func (s *Service) AdvancedReport(ctx context.Context, ownerID uuid.UUID, agentID *uuid.UUID, days int) (*AdvancedReport, error) {
	if agentID != nil {
		if _, err := s.agents.Owned(ctx, ownerID, *agentID); err != nil {
			return nil, err
		}
	}

	period := makePeriod(days)
	since := period.StartDate

	hours, err := s.repo.PeakHours(ctx, ownerID, since, agentID)
	if err != nil {
		return nil, err
	}

	performance, err := s.repo.Performance(ctx, ownerID, since, agentID)
	if err != nil {
		return nil, err
	}
	comparison := make([]AgentComparison, 0, len(performance))
	for _, p := range performance {
		entry := AgentComparison{
			AgentID:            p.AgentID,
			AgentName:          p.AgentName,
			TotalConversations: p.TotalConversations,
			TotalLeads:         p.TotalLeads,
		}
		if p.TotalConversations > 0 {
			entry.ConversionRate = round1(float64(p.TotalLeads) / float64(p.TotalConversations) * 100)
			entry.AvgMessages = round1(float64(p.TotalMessages) / float64(p.TotalConversations))
		}
		comparison = append(comparison, entry)
	}

	counts, err := s.repo.Funnel(ctx, ownerID, since, agentID)
	if err != nil {
		return nil, err
	}
	funnel := Funnel{
		Visitors:  counts.Visitors,
		Engaged:   counts.Engaged,
		Qualified: counts.Qualified,
		Converted: counts.Converted,
	}
	if counts.Visitors > 0 {
		funnel.EngagementRate = round1(float64(counts.Engaged) / float64(counts.Visitors) * 100)
		funnel.QualificationRate = round1(float64(counts.Qualified) / float64(counts.Visitors) * 100)
		funnel.ConversionRate = round1(float64(counts.Converted) / float64(counts.Visitors) * 100)
	}

	trends, err := s.repo.DailyTrends(ctx, ownerID, since, agentID)
	if err != nil {
		return nil, err
	}

	return &AdvancedReport{
		PeakHours:        hours,
		AgentPerformance: comparison,
		Funnel:           funnel,
		DailyTrends:      trends,
		Period:           period,
		FilteredAgentID:  agentID,
	}, nil
}

// popularQuestions counts normalized visitor messages that look like
// questions and returns the most frequent ones.
func (s *Service) popularQuestions(ctx context.Context, agentID uuid.UUID, since time.Time) ([]PopularQuestion, error) {
	messages, err := s.repo.UserQuestions(ctx, agentID, since, questionSampleLimit)
	if err != nil {
		return nil, err
	}
	return rankQuestions(messages), nil
}

// rankQuestions counts normalized question-shaped messages and returns the
// top entries, most frequent first, ties broken alphabetically.
func rankQuestions(messages []string) []PopularQuestion {
	counts := make(map[string]int)
	for _, msg := range messages {
		normalized := strings.ToLower(strings.TrimSpace(msg))
		if normalized == "" || !strings.Contains(normalized, "?") {
			continue
		}
		counts[normalized]++
	}

	questions := make([]PopularQuestion, 0, len(counts))
	for question, count := range counts {
		questions = append(questions, PopularQuestion{Question: question, Count: count})
	}
	sort.Slice(questions, func(i, j int) bool {
		if questions[i].Count != questions[j].Count {
			return questions[i].Count > questions[j].Count
		}
		return questions[i].Question < questions[j].Question
	})
	if len(questions) > popularQuestionsTop {
		questions = questions[:popularQuestionsTop]
	}
	return questions
}

func makePeriod(days int) Period {
	if days <= 0 {
		days = defaultPeriodDays
	}
	if days > maxPeriodDays {
		days = maxPeriodDays
	}
	end := time.Now().UTC().Truncate(24 * time.Hour)
	return Period{
		StartDate: end.AddDate(0, 0, -days),
		EndDate:   end,
		Days:      days,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
