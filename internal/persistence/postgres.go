package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/docrequest-service/internal/config"
)

// PostgresStore keeps each collection as one JSONB row in record_collections.
type PostgresStore struct {
	Pool *pgxpool.Pool
}

// NewPostgres establishes a connection pool and optionally applies migrations.
func NewPostgres(ctx context.Context, cfg config.PostgresConfig, logger *zap.Logger) (*PostgresStore, error) {
	if cfg.DSN == "" {
		return nil, errors.New("postgres dsn is empty")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.ConnMaxIdleSec > 0 {
		poolCfg.MaxConnIdleTime = time.Duration(cfg.ConnMaxIdleSec) * time.Second
	}
	if cfg.ConnMaxLifeSec > 0 {
		poolCfg.MaxConnLifetime = time.Duration(cfg.ConnMaxLifeSec) * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	logger.Info("connected to postgres")

	if cfg.RunMigrations {
		if err := RunMigrations(ctx, pool, logger); err != nil {
			pool.Close()
			return nil, err
		}
	}

	return &PostgresStore{Pool: pool}, nil
}

func (p *PostgresStore) Read(ctx context.Context, name string) (Collection, error) {
	var (
		payload []byte
		version int64
	)
	err := p.Pool.QueryRow(ctx,
		`SELECT records, version FROM record_collections WHERE name = $1`, name,
	).Scan(&payload, &version)
	if errors.Is(err, pgx.ErrNoRows) {
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

func (p *PostgresStore) Write(ctx context.Context, name string, records []json.RawMessage, expectedVersion int64) (int64, error) {
	payload, err := encodeRecords(records)
	if err != nil {
		return 0, fmt.Errorf("encode collection %s: %w", name, err)
	}

	if expectedVersion == 0 {
		tag, err := p.Pool.Exec(ctx,
			`INSERT INTO record_collections (name, records, version, updated_at)
			 VALUES ($1, $2, 1, now())
			 ON CONFLICT (name) DO NOTHING`,
			name, payload)
		if err != nil {
			return 0, fmt.Errorf("insert collection %s: %w", name, err)
		}
		if tag.RowsAffected() == 0 {
			return 0, ErrVersionConflict
		}
		return 1, nil
	}

	tag, err := p.Pool.Exec(ctx,
		`UPDATE record_collections
		 SET records = $2, version = version + 1, updated_at = now()
		 WHERE name = $1 AND version = $3`,
		name, payload, expectedVersion)
	if err != nil {
		return 0, fmt.Errorf("update collection %s: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return 0, ErrVersionConflict
	}
	return expectedVersion + 1, nil
}

// Ping verifies database connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	if p == nil || p.Pool == nil {
		return errors.New("postgres pool not configured")
	}
	return p.Pool.Ping(ctx)
}

// Close releases pool resources.
func (p *PostgresStore) Close() error {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
	return nil
}
