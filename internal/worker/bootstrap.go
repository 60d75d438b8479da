package worker

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/docrequest-service/internal/events"
	"github.com/spec-kit/docrequest-service/internal/service"
)

// BootstrapOptions lists what must be ready before the service accepts traffic.
type BootstrapOptions struct {
	Notifications *service.NotificationService
	Dispatcher    events.Dispatcher
	Catalog       *service.CatalogService
	SeedDefaults  bool
	Logger        *zap.Logger
}

// Bootstrap subscribes the notification service to order events and, when
// enabled, seeds the catalog into an empty store.
func Bootstrap(ctx context.Context, opts BootstrapOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Notifications != nil {
		opts.Notifications.RegisterHandlers()
	}
	if opts.Dispatcher != nil {
		logger.Info("event handlers registered",
			zap.Int(string(events.EventOrderSubmitted), opts.Dispatcher.Subscribers(events.EventOrderSubmitted)),
			zap.Int(string(events.EventOrderStatusChanged), opts.Dispatcher.Subscribers(events.EventOrderStatusChanged)),
			zap.Int(string(events.EventOrderPersonnelAssigned), opts.Dispatcher.Subscribers(events.EventOrderPersonnelAssigned)))
	}
	if opts.SeedDefaults && opts.Catalog != nil {
		if err := opts.Catalog.Seed(ctx); err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
	}
	return nil
}
