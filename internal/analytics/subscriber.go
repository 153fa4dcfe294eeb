package analytics

import (
	"context"
	"fmt"
	"time"

	"convosell_backend/internal/analytics/repository"
	"convosell_backend/internal/events"
)

// messagesPerExchange is one visitor message plus one agent reply.
const messagesPerExchange = 2

// RegisterSubscribers wires the daily rollup to chat events.
func RegisterSubscribers(bus events.Bus, repo *repository.Repository) {
	bus.Subscribe(events.ConversationProcessed{}.EventName(), events.HandlerFunc(
		func(ctx context.Context, event events.Event) error {
			processed, ok := event.(events.ConversationProcessed)
			if !ok {
				return fmt.Errorf("unexpected event type %T", event)
			}
			newSessions := 0
			if processed.NewSession {
				newSessions = 1
			}
			return repo.RecordConversation(ctx, processed.AgentID, today(), newSessions, messagesPerExchange)
		},
	))

	bus.Subscribe(events.LeadCaptured{}.EventName(), events.HandlerFunc(
		func(ctx context.Context, event events.Event) error {
			captured, ok := event.(events.LeadCaptured)
			if !ok {
				return fmt.Errorf("unexpected event type %T", event)
			}
			return repo.RecordLead(ctx, captured.AgentID, today())
		},
	))
}

func today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}
