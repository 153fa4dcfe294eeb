package adapters

import (
	"context"

	"github.com/google/uuid"

	agentrepo "convosell_backend/internal/agents/repository"
	authrepo "convosell_backend/internal/auth/repository"
	"convosell_backend/internal/notification"
)

// NotificationAgentSource adapts the agents repository to the lookups the
// notifier performs when routing emails.
type NotificationAgentSource struct {
	repo *agentrepo.Repository
}

// NewNotificationAgentSource creates a new agent source adapter.
func NewNotificationAgentSource(repo *agentrepo.Repository) *NotificationAgentSource {
	return &NotificationAgentSource{repo: repo}
}

// Agent returns the agent's name and owner.
func (a *NotificationAgentSource) Agent(ctx context.Context, agentID uuid.UUID) (*notification.AgentRef, error) {
	agent, err := a.repo.GetPublic(ctx, agentID)
	if err != nil {
		return nil, err
	}
	return &notification.AgentRef{Name: agent.Name, OwnerID: agent.OwnerID}, nil
}

// NotificationUserDirectory adapts the auth repository to email address
// lookups.
type NotificationUserDirectory struct {
	repo *authrepo.Repository
}

// NewNotificationUserDirectory creates a new user directory adapter.
func NewNotificationUserDirectory(repo *authrepo.Repository) *NotificationUserDirectory {
	return &NotificationUserDirectory{repo: repo}
}

// EmailAddress returns the email address of a user.
func (d *NotificationUserDirectory) EmailAddress(ctx context.Context, userID uuid.UUID) (string, error) {
	user, err := d.repo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Email, nil
}

var (
	_ notification.AgentSource   = (*NotificationAgentSource)(nil)
	_ notification.UserDirectory = (*NotificationUserDirectory)(nil)
)
