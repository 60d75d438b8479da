package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/docrequest-service/internal/domain"
	"github.com/spec-kit/docrequest-service/internal/events"
	"github.com/spec-kit/docrequest-service/internal/repository"
	"github.com/spec-kit/docrequest-service/pkg/util"
)

// Clock returns the current time. Services default to time.Now.
type Clock func() time.Time

func clockOrDefault(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}

func loggerOrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

// notFound converts repository.ErrNotFound into a NOT_FOUND DomainError and
// passes everything else through.
func notFound(err error, resource string, details map[string]any) error {
	if errors.Is(err, repository.ErrNotFound) {
		return util.NewNotFound(resource, details)
	}
	return err
}

// publisher fills event metadata and logs handler failures without failing
// the operation that emitted the event.
type publisher struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        Clock
}

func (p publisher) publish(ctx context.Context, event events.Event) {
	if p.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now()
	}
	if err := p.dispatcher.Publish(ctx, event); err != nil {
		p.logger.Error("event handler failed",
			zap.String("event_type", string(event.Type)),
			zap.String("order_id", event.OrderID),
			zap.Error(err))
	}
}

func actorRef(actor *domain.Actor) events.Actor {
	return events.Actor{Role: actor.Role, ID: actor.ID}
}
