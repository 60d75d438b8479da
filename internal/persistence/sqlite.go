package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// SQLiteStore keeps collections as JSON blobs in a single-file database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (and creates when missing) the database at path.
func NewSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		path = "docrequest.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one connection serializes writers, which keeps the version check and update atomic
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS record_collections (
		name TEXT PRIMARY KEY,
		records BLOB NOT NULL,
		version INTEGER NOT NULL,
		updated_at TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create record_collections table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Read(ctx context.Context, name string) (Collection, error) {
	var (
		payload []byte
		version int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT records, version FROM record_collections WHERE name = ?`, name,
	).Scan(&payload, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return Collection{}, nil
	}
	if err != nil {
		return Collection{}, fmt.Errorf("read collection %s: %w", name, err)
	}
	records, err := decodeRecords(payload)
	if err != nil {
		return Collection{}, fmt.Errorf("decode collection %s: %w", name, err)
	}
	return Collection{Records: records, Version: version}, nil
}

func (s *SQLiteStore) Write(ctx context.Context, name string, records []json.RawMessage, expectedVersion int64) (_ int64, retErr error) {
	payload, err := encodeRecords(records)
	if err != nil {
		return 0, fmt.Errorf("encode collection %s: %w", name, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	var current int64
	err = tx.QueryRowContext(ctx, `SELECT version FROM record_collections WHERE name = ?`, name).Scan(&current)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("read version of %s: %w", name, err)
	}
	if current != expectedVersion {
		return 0, ErrVersionConflict
	}

	next := expectedVersion + 1
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO record_collections (name, records, version, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET records = excluded.records, version = excluded.version, updated_at = excluded.updated_at`,
		name, payload, next, time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return 0, fmt.Errorf("write collection %s: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit collection %s: %w", name, err)
	}
	return next, nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
