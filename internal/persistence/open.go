package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/docrequest-service/internal/config"
)

// Open builds the record store selected by cfg.Store.Driver.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (RecordStore, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory, "":
		logger.Warn("using in-memory record store; data is lost on restart")
		return NewMemoryStore(), nil
	case config.StoreDriverPostgres:
		return NewPostgres(ctx, cfg.Postgres, logger)
	case config.StoreDriverRedis:
		return NewRedis(ctx, cfg.Redis, logger)
	case config.StoreDriverSQLite:
		logger.Info("opening sqlite record store", zap.String("path", cfg.SQLite.Path))
		return NewSQLite(ctx, cfg.SQLite.Path)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}
