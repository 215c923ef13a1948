package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// subscription binds a handler to one event type, or to every type when
// eventType is empty.
type subscription struct {
	eventType string
	handler   EventHandler
}

// InMemoryEventEmitter routes events to handlers in the same process.
// Dispatch is synchronous and follows registration order, so a handler
// registered first has finished before the next one sees the event.
type InMemoryEventEmitter struct {
	mu     sync.RWMutex
	subs   []subscription
	logger *slog.Logger
}

// NewInMemoryEventEmitter creates an emitter with no handlers.
func NewInMemoryEventEmitter(logger *slog.Logger) *InMemoryEventEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEventEmitter{
		logger: logger.With(slog.String("component", "event_emitter")),
	}
}

// RegisterHandler subscribes handler to every event type.
func (e *InMemoryEventEmitter) RegisterHandler(handler EventHandler) {
	e.Subscribe("", handler)
}

// Subscribe registers handler for events of eventType only. An empty
// eventType matches every event.
func (e *InMemoryEventEmitter) Subscribe(eventType string, handler EventHandler) {
	e.mu.Lock()
	e.subs = append(e.subs, subscription{eventType: eventType, handler: handler})
	n := len(e.subs)
	e.mu.Unlock()

	e.logger.Debug("subscribed event handler",
		slog.String("event_type", eventType),
		slog.Int("subscriptions", n))
}

// matching returns the handlers for eventType in registration order.
func (e *InMemoryEventEmitter) matching(eventType string) []EventHandler {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var out []EventHandler
	for _, s := range e.subs {
		if s.eventType == "" || s.eventType == eventType {
			out = append(out, s.handler)
		}
	}
	return out
}

// EmitEvent hands event to every matching handler. A failing handler does
// not stop delivery to the rest; all failures are returned joined.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *Event) error {
	if event == nil {
		return ErrNilEvent
	}

	handlers := e.matching(event.Type)
	if len(handlers) == 0 {
		e.logger.Debug("event has no subscribers",
			slog.String("event_id", event.ID.String()),
			slog.String("event_type", event.Type))
		return nil
	}

	var errs []error
	for i, h := range handlers {
		if err := h.HandleEvent(ctx, event); err != nil {
			e.logger.Error("event handler failed",
				slog.String("event_id", event.ID.String()),
				slog.String("event_type", event.Type),
				slog.Int("handler", i),
				slog.String("error", err.Error()))
			errs = append(errs, fmt.Errorf("handler %d for %s: %w", i, event.Type, err))
		}
	}
	return errors.Join(errs...)
}
