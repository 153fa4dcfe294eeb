package events

import (
	"context"
	"sync"
	"time"

	"convosell_backend/platform/logger"
)

// InMemoryBus is a simple in-process event bus. Publish dispatches each event
// to its handlers on separate goroutines; handler errors are logged, never
// propagated to the publisher.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	log      *logger.Logger
	wg       sync.WaitGroup
}

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return &InMemoryBus{
		handlers: make(map[string][]Handler),
		log:      log,
	}
}

// Subscribe registers a handler for the given event name.
func (b *InMemoryBus) Subscribe(eventName string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = append(b.handlers[eventName], handler)
}

// Publish dispatches the event asynchronously to all registered handlers.
// Handlers get a detached context with a timeout so they outlive the request.
func (b *InMemoryBus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := b.handlers[event.EventName()]
	b.mu.RUnlock()

	for _, h := range handlers {
		handler := h
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					b.log.Error("event handler panicked",
						"event", event.EventName(), "panic", r)
				}
			}()

			handlerCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := handler.Handle(handlerCtx, event); err != nil {
				b.log.Error("event handler failed",
					"event", event.EventName(), "error", err.Error())
			}
		}()
	}
}

// PublishSync dispatches the event and waits for all handlers. The first
// handler error is returned; remaining handlers still run.
func (b *InMemoryBus) PublishSync(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := b.handlers[event.EventName()]
	b.mu.RUnlock()

	var firstErr error
	for _, handler := range handlers {
		if err := handler.Handle(ctx, event); err != nil {
			b.log.Error("event handler failed",
				"event", event.EventName(), "error", err.Error())
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Wait blocks until all in-flight async handlers have finished.
// Intended for graceful shutdown.
func (b *InMemoryBus) Wait() {
	b.wg.Wait()
}
