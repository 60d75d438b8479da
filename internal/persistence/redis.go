package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/docrequest-service/internal/config"
)

const (
	redisFieldRecords = "records"
	redisFieldVersion = "version"
)

// RedisStore keeps each collection in a hash with records and version fields.
type RedisStore struct {
	Client *redis.Client
	prefix string
}

// NewRedis connects to Redis using the provided configuration.
func NewRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	logger.Info("connected to redis", zap.String("addr", cfg.Addr))

	return NewRedisWithClient(client, cfg.KeyPrefix), nil
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "docrequest"
	}
	return &RedisStore{Client: client, prefix: prefix}
}

func (r *RedisStore) key(name string) string {
	return r.prefix + ":records:" + name
}

func (r *RedisStore) Read(ctx context.Context, name string) (Collection, error) {
	values, err := r.Client.HGetAll(ctx, r.key(name)).Result()
	if err != nil {
		return Collection{}, fmt.Errorf("read collection %s: %w", name, err)
	}
	if len(values) == 0 {
		return Collection{}, nil
	}
	version, err := strconv.ParseInt(values[redisFieldVersion], 10, 64)
	if err != nil {
		return Collection{}, fmt.Errorf("parse version of %s: %w", name, err)
	}
	records, err := decodeRecords([]byte(values[redisFieldRecords]))
	if err != nil {
		return Collection{}, fmt.Errorf("decode collection %s: %w", name, err)
	}
	return Collection{Records: records, Version: version}, nil
}

func (r *RedisStore) Write(ctx context.Context, name string, records []json.RawMessage, expectedVersion int64) (int64, error) {
	payload, err := encodeRecords(records)
	if err != nil {
		return 0, fmt.Errorf("encode collection %s: %w", name, err)
	}
	key := r.key(name)
	next := expectedVersion + 1

	err = r.Client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.HGet(ctx, key, redisFieldVersion).Int64()
		switch {
		case errors.Is(err, redis.Nil):
			current = 0
		case err != nil:
			return err
		}
		if current != expectedVersion {
			return ErrVersionConflict
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, redisFieldRecords, payload, redisFieldVersion, next)
			return nil
		})
		return err
	}, key)

	switch {
	case errors.Is(err, ErrVersionConflict), errors.Is(err, redis.TxFailedErr):
		return 0, ErrVersionConflict
	case err != nil:
		return 0, fmt.Errorf("write collection %s: %w", name, err)
	}
	return next, nil
}

// Ping verifies Redis connectivity.
func (r *RedisStore) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

// Close closes the client.
func (r *RedisStore) Close() error {
	if r != nil && r.Client != nil {
		return r.Client.Close()
	}
	return nil
}
