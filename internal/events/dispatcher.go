package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher fans order events out to in-process subscribers.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
	Subscribers(eventType EventType) int
}

// inMemoryDispatcher runs handlers synchronously on the publishing goroutine,
// so a notification is persisted before the order operation returns.
type inMemoryDispatcher struct {
	mu       sync.RWMutex
	handlers map[EventType][]EventHandler
}

// NewInMemoryDispatcher creates a dispatcher instance.
func NewInMemoryDispatcher() Dispatcher {
	return &inMemoryDispatcher{handlers: make(map[EventType][]EventHandler)}
}

// Publish invokes every handler for the event type in subscription order. A
// failing handler does not stop the others; failures are joined. Handlers not
// yet run when ctx is done are skipped.
func (d *inMemoryDispatcher) Publish(ctx context.Context, event Event) error {
	d.mu.RLock()
	handlers := append([]EventHandler(nil), d.handlers[event.Type]...)
	d.mu.RUnlock()

	var errs []error
	for i, handle := range handlers {
		if err := ctx.Err(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %d handler(s) skipped: %w", event.Type, len(handlers)-i, err))
			break
		}
		if err := handle(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("%s handler %d: %w", event.Type, i, err))
		}
	}
	return errors.Join(errs...)
}

// Subscribe registers a handler for the given event type.
func (d *inMemoryDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[eventType] = append(d.handlers[eventType], handler)
}

// Subscribers reports how many handlers listen for eventType.
func (d *inMemoryDispatcher) Subscribers(eventType EventType) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.handlers[eventType])
}
