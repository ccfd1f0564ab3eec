package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aquaerp/aqua-accounting/internal/core/domain"
	portssvc "github.com/aquaerp/aqua-accounting/internal/core/ports/services"
)

// eventDispatcher routes operational events to their registered mapper.
// A failing or panicking handler is logged and swallowed: the feeding log,
// harvest or invoice that triggered the event must never be rolled back
// because its bookkeeping failed.
type eventDispatcher struct {
	BaseService
	mu       sync.RWMutex
	handlers map[string]portssvc.EventHandlerFunc
}

// NewEventDispatcher creates an empty dispatcher.
func NewEventDispatcher() portssvc.EventDispatcherSvc {
	return &eventDispatcher{
		handlers: make(map[string]portssvc.EventHandlerFunc),
	}
}

var _ portssvc.EventDispatcherSvc = (*eventDispatcher)(nil)

// Register attaches a handler to an event type, replacing any previous one.
func (d *eventDispatcher) Register(eventType string, handler portssvc.EventHandlerFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[eventType] = handler
}

// Dispatch runs the handler registered for the event's type. The returned
// error mirrors what was logged; callers are free to ignore it.
func (d *eventDispatcher) Dispatch(ctx context.Context, event domain.Event) (err error) {
	d.mu.RLock()
	handler, ok := d.handlers[event.EventType()]
	d.mu.RUnlock()

	refType, refID := event.Source()
	if !ok {
		d.LogWarn(ctx, "No handler registered for event",
			slog.String("event_type", event.EventType()),
			slog.String("reference_type", refType),
			slog.String("reference_id", refID))
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler for %s panicked: %v", event.EventType(), r)
			d.LogError(ctx, err, "Event handler panicked",
				slog.String("event_type", event.EventType()),
				slog.String("reference_type", refType),
				slog.String("reference_id", refID))
		}
	}()

	if err = handler(ctx, event); err != nil {
		d.LogError(ctx, err, "Event handler failed",
			slog.String("event_type", event.EventType()),
			slog.String("reference_type", refType),
			slog.String("reference_id", refID))
	}
	return err
}
