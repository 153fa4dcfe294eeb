package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"convosell_backend/internal/email"
	"convosell_backend/internal/events"
	"convosell_backend/platform/logger"
)

type testSender struct {
	leadAlerts     []email.LeadAlert
	trainingAlerts []email.TrainingFailure
	lastRecipient  string
	sendErr        error
}

func (s *testSender) SendLeadAlertEmail(ctx context.Context, toEmail string, alert email.LeadAlert) error {
	if s.sendErr != nil {
		return s.sendErr
	}
	s.lastRecipient = toEmail
	s.leadAlerts = append(s.leadAlerts, alert)
	return nil
}

func (s *testSender) SendTrainingFailedEmail(ctx context.Context, toEmail string, failure email.TrainingFailure) error {
	if s.sendErr != nil {
		return s.sendErr
	}
	s.lastRecipient = toEmail
	s.trainingAlerts = append(s.trainingAlerts, failure)
	return nil
}

type testAgentSource struct {
	agent *AgentRef
	err   error
}

func (s testAgentSource) Agent(ctx context.Context, agentID uuid.UUID) (*AgentRef, error) {
	return s.agent, s.err
}

type testUserDirectory struct {
	email string
	err   error
}

func (d testUserDirectory) EmailAddress(ctx context.Context, userID uuid.UUID) (string, error) {
	return d.email, d.err
}

func newTestNotifier(sender Sender, agents AgentSource, users UserDirectory) *Notifier {
	return NewNotifier(sender, agents, users, logger.New("test"))
}

func TestOnLeadCaptured_RoutesToOwner(t *testing.T) {
	ownerID := uuid.New()
	sender := &testSender{}
	n := newTestNotifier(
		sender,
		testAgentSource{agent: &AgentRef{Name: "Sales Bot", OwnerID: ownerID}},
		testUserDirectory{email: "owner@example.com"},
	)

	event := events.LeadCaptured{
		BaseEvent:     events.NewBaseEvent(),
		AgentID:       uuid.New(),
		OwnerID:       ownerID,
		Name:          "Jane",
		Email:         "jane@example.com",
		InterestLevel: "high",
		Channel:       "web",
	}
	if err := n.onLeadCaptured(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sender.lastRecipient != "owner@example.com" {
		t.Fatalf("expected owner recipient, got %q", sender.lastRecipient)
	}
	if len(sender.leadAlerts) != 1 {
		t.Fatalf("expected 1 lead alert, got %d", len(sender.leadAlerts))
	}
	alert := sender.leadAlerts[0]
	if alert.AgentName != "Sales Bot" || alert.LeadName != "Jane" || alert.InterestLevel != "high" {
		t.Fatalf("unexpected alert %+v", alert)
	}
}

func TestOnLeadCaptured_SendFailureIsSwallowed(t *testing.T) {
	n := newTestNotifier(
		&testSender{sendErr: errors.New("smtp down")},
		testAgentSource{agent: &AgentRef{Name: "Sales Bot", OwnerID: uuid.New()}},
		testUserDirectory{email: "owner@example.com"},
	)

	event := events.LeadCaptured{BaseEvent: events.NewBaseEvent(), AgentID: uuid.New()}
	if err := n.onLeadCaptured(context.Background(), event); err != nil {
		t.Fatalf("expected delivery failure swallowed, got %v", err)
	}
}

func TestOnLeadCaptured_ResolveFailurePropagates(t *testing.T) {
	n := newTestNotifier(
		&testSender{},
		testAgentSource{err: errors.New("agent gone")},
		testUserDirectory{email: "owner@example.com"},
	)

	event := events.LeadCaptured{BaseEvent: events.NewBaseEvent(), AgentID: uuid.New()}
	if err := n.onLeadCaptured(context.Background(), event); err == nil {
		t.Fatal("expected error when agent lookup fails")
	}
}

func TestOnTrainingFailed_SendsFailureAlert(t *testing.T) {
	sender := &testSender{}
	n := newTestNotifier(
		sender,
		testAgentSource{agent: &AgentRef{Name: "Sales Bot", OwnerID: uuid.New()}},
		testUserDirectory{email: "owner@example.com"},
	)

	event := events.TrainingFailed{
		BaseEvent:  events.NewBaseEvent(),
		AgentID:    uuid.New(),
		SourceType: "url",
		Reason:     "not enough content extracted from url",
	}
	if err := n.onTrainingFailed(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.trainingAlerts) != 1 {
		t.Fatalf("expected 1 training alert, got %d", len(sender.trainingAlerts))
	}
	if sender.trainingAlerts[0].SourceType != "url" {
		t.Fatalf("unexpected alert %+v", sender.trainingAlerts[0])
	}
}

func TestHandlersRejectForeignEvents(t *testing.T) {
	n := newTestNotifier(&testSender{}, testAgentSource{}, testUserDirectory{})

	wrong := events.TrainingFailed{BaseEvent: events.NewBaseEvent()}
	if err := n.onLeadCaptured(context.Background(), wrong); err == nil {
		t.Fatal("expected type mismatch error")
	}
}
