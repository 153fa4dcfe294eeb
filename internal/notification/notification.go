// Package notification emails agent owners about noteworthy events. It has
// no HTTP surface; everything is driven by bus subscriptions. When SMTP is
// not configured the package is simply never wired up.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"convosell_backend/internal/email"
	"convosell_backend/internal/events"
	"convosell_backend/platform/logger"
)

// sendTimeout bounds one SMTP delivery. Event handlers run asynchronously
// and must not hang on a slow mail server.
const sendTimeout = 30 * time.Second

// Sender delivers notification emails.
type Sender interface {
	SendLeadAlertEmail(ctx context.Context, toEmail string, alert email.LeadAlert) error
	SendTrainingFailedEmail(ctx context.Context, toEmail string, failure email.TrainingFailure) error
}

// AgentRef identifies an agent and its owner for notification routing.
type AgentRef struct {
	Name    string
	OwnerID uuid.UUID
}

// AgentSource resolves agents without an ownership check.
type AgentSource interface {
	Agent(ctx context.Context, agentID uuid.UUID) (*AgentRef, error)
}

// UserDirectory resolves a user's email address.
type UserDirectory interface {
	EmailAddress(ctx context.Context, userID uuid.UUID) (string, error)
}

// Notifier turns domain events into emails. Delivery is best effort;
// failures are logged and never propagate back to the publishing request.
type Notifier struct {
	sender Sender
	agents AgentSource
	users  UserDirectory
	log    *logger.Logger
}

// NewNotifier creates the notifier.
func NewNotifier(sender Sender, agents AgentSource, users UserDirectory, log *logger.Logger) *Notifier {
	return &Notifier{sender: sender, agents: agents, users: users, log: log}
}

// RegisterSubscribers wires email delivery to chat and training events.
func RegisterSubscribers(bus events.Bus, n *Notifier) {
	bus.Subscribe(events.LeadCaptured{}.EventName(), events.HandlerFunc(n.onLeadCaptured))
	bus.Subscribe(events.TrainingFailed{}.EventName(), events.HandlerFunc(n.onTrainingFailed))
}

func (n *Notifier) onLeadCaptured(ctx context.Context, event events.Event) error {
	captured, ok := event.(events.LeadCaptured)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	agent, toEmail, err := n.resolve(ctx, captured.AgentID)
	if err != nil {
		return err
	}

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	if err := n.sender.SendLeadAlertEmail(sendCtx, toEmail, email.LeadAlert{
		AgentName:     agent.Name,
		LeadName:      captured.Name,
		LeadEmail:     captured.Email,
		LeadPhone:     captured.Phone,
		InterestLevel: captured.InterestLevel,
		Channel:       captured.Channel,
		CapturedAt:    time.Now().UTC(),
	}); err != nil {
		n.log.UpstreamError("smtp", "send lead alert", err)
		return nil
	}

	n.log.Info("lead alert sent", "agent_id", captured.AgentID.String(), "to", toEmail)
	return nil
}

func (n *Notifier) onTrainingFailed(ctx context.Context, event events.Event) error {
	failed, ok := event.(events.TrainingFailed)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	agent, toEmail, err := n.resolve(ctx, failed.AgentID)
	if err != nil {
		return err
	}

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	if err := n.sender.SendTrainingFailedEmail(sendCtx, toEmail, email.TrainingFailure{
		AgentName:  agent.Name,
		SourceType: failed.SourceType,
		Reason:     failed.Reason,
	}); err != nil {
		n.log.UpstreamError("smtp", "send training failure alert", err)
		return nil
	}
	return nil
}

func (n *Notifier) resolve(ctx context.Context, agentID uuid.UUID) (*AgentRef, string, error) {
	agent, err := n.agents.Agent(ctx, agentID)
	if err != nil {
		return nil, "", fmt.Errorf("resolve agent %s: %w", agentID, err)
	}
	toEmail, err := n.users.EmailAddress(ctx, agent.OwnerID)
	if err != nil {
		return nil, "", fmt.Errorf("resolve owner %s: %w", agent.OwnerID, err)
	}
	return agent, toEmail, nil
}
