package persistence

import (
	"context"
	"encoding/json"
	"errors"
)

// Collection names used by the service.
const (
	CollectionUsers         = "users"
	CollectionOrders        = "orders"
	CollectionPersonnel     = "personnel"
	CollectionNotifications = "notifications"
	CollectionPricing       = "pricing"
)

// ErrVersionConflict is returned by Write when the stored version no longer
// matches the version the caller read.
var ErrVersionConflict = errors.New("record collection version conflict")

// Collection is a whole named collection as last written. Version 0 means the
// collection has never been written.
type Collection struct {
	Records []json.RawMessage
	Version int64
}

// RecordStore reads and replaces whole collections. Writes are compare-and-swap
// on the collection version and return the new version.
type RecordStore interface {
	Read(ctx context.Context, name string) (Collection, error)
	Write(ctx context.Context, name string, records []json.RawMessage, expectedVersion int64) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}

func encodeRecords(records []json.RawMessage) ([]byte, error) {
	if records == nil {
		records = []json.RawMessage{}
	}
	return json.Marshal(records)
}

func decodeRecords(payload []byte) ([]json.RawMessage, error) {
	if len(payload) == 0 {
		return nil, nil
	}
	var records []json.RawMessage
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, err
	}
	return records, nil
}
