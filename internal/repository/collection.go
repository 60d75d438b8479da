package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/spec-kit/docrequest-service/internal/persistence"
	"github.com/spec-kit/docrequest-service/pkg/util"
)

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique key is already taken.
	ErrDuplicate = errors.New("duplicate record")
)

// collection decodes and encodes one named collection of T.
type collection[T any] struct {
	store persistence.RecordStore
	name  string
}

func (c collection[T]) load(ctx context.Context) ([]T, int64, error) {
	raw, err := c.store.Read(ctx, c.name)
	if err != nil {
		return nil, 0, err
	}
	items := make([]T, 0, len(raw.Records))
	for i, record := range raw.Records {
		var item T
		if err := json.Unmarshal(record, &item); err != nil {
			return nil, 0, fmt.Errorf("decode %s[%d]: %w", c.name, i, err)
		}
		items = append(items, item)
	}
	return items, raw.Version, nil
}

func (c collection[T]) save(ctx context.Context, items []T, version int64) error {
	records := make([]json.RawMessage, 0, len(items))
	for i := range items {
		data, err := json.Marshal(items[i])
		if err != nil {
			return fmt.Errorf("encode %s[%d]: %w", c.name, i, err)
		}
		records = append(records, data)
	}
	if _, err := c.store.Write(ctx, c.name, records, version); err != nil {
		if errors.Is(err, persistence.ErrVersionConflict) {
			return &util.DomainError{
				Code:       util.CodeConflict,
				Message:    c.name + " changed concurrently; reload and retry",
				HTTPStatus: http.StatusConflict,
				Details:    map[string]any{"collection": c.name},
				Err:        err,
			}
		}
		return err
	}
	return nil
}

// mutate runs fn against the current items and writes the result back against
// the version that was read.
func (c collection[T]) mutate(ctx context.Context, fn func([]T) ([]T, error)) error {
	items, version, err := c.load(ctx)
	if err != nil {
		return err
	}
	next, err := fn(items)
	if err != nil {
		return err
	}
	return c.save(ctx, next, version)
}

// updateOne applies fn to the first item matching and persists the change.
func updateOne[T any](ctx context.Context, c collection[T], match func(*T) bool, fn func(*T) error) (*T, error) {
	var updated T
	err := c.mutate(ctx, func(items []T) ([]T, error) {
		for i := range items {
			if !match(&items[i]) {
				continue
			}
			if err := fn(&items[i]); err != nil {
				return nil, err
			}
			updated = items[i]
			return items, nil
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func findOne[T any](items []T, match func(*T) bool) (*T, error) {
	for i := range items {
		if match(&items[i]) {
			item := items[i]
			return &item, nil
		}
	}
	return nil, ErrNotFound
}
