package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/spec-kit/docrequest-service/internal/observability"
)

// Instrumented records store latency and version conflicts.
type Instrumented struct {
	RecordStore
	metrics *observability.Metrics
}

// WithMetrics wraps store; a nil metrics value disables recording.
func WithMetrics(store RecordStore, metrics *observability.Metrics) *Instrumented {
	return &Instrumented{RecordStore: store, metrics: metrics}
}

func (i *Instrumented) Read(ctx context.Context, name string) (Collection, error) {
	start := time.Now()
	c, err := i.RecordStore.Read(ctx, name)
	i.metrics.ObserveStore(name, "read", time.Since(start))
	return c, err
}

func (i *Instrumented) Write(ctx context.Context, name string, records []json.RawMessage, expectedVersion int64) (int64, error) {
	start := time.Now()
	v, err := i.RecordStore.Write(ctx, name, records, expectedVersion)
	i.metrics.ObserveStore(name, "write", time.Since(start))
	if errors.Is(err, ErrVersionConflict) {
		i.metrics.StoreConflict(name)
	}
	return v, err
}
