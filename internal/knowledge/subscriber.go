package knowledge

import (
	"context"
	"fmt"

	"convosell_backend/internal/events"
)

// RegisterSubscribers wires knowledge-base cleanup to agent lifecycle events.
func RegisterSubscribers(bus events.Bus, svc *Service) {
	bus.Subscribe(events.AgentDeleted{}.EventName(), events.HandlerFunc(
		func(ctx context.Context, event events.Event) error {
			deleted, ok := event.(events.AgentDeleted)
			if !ok {
				return fmt.Errorf("unexpected event type %T", event)
			}
			return svc.DeleteAgent(ctx, deleted.AgentID.String())
		},
	))
}
