// Package storage provides the Redis-backed document store used by the API
// service.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/lmarchant/dialogue-state/pkg/storage"
	"github.com/lmarchant/dialogue-state/pkg/vars"
)

const docKeyPrefix = "vardoc:"

// RedisStorage implements storage.Storage on top of Redis. Documents are
// stored as JSON blobs under vardoc:<uuid> keys with a configurable TTL.
type RedisStorage struct {
	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

var _ storage.Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a Redis storage instance. A zero ttl stores
// documents without expiration.
func NewRedisStorage(redisURL string, ttl time.Duration, logger *slog.Logger) *RedisStorage {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisURL,
	})
	return &RedisStorage{
		client: rdb,
		logger: logger,
		ttl:    ttl,
	}
}

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup).
func (r *RedisStorage) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

func (r *RedisStorage) SaveDocument(ctx context.Context, id uuid.UUID, doc *vars.Document) error {
	doc.UpdatedAt = time.Now()

	data, err := json.Marshal(doc)
	if err != nil {
		r.logger.Error("Failed to marshal document", "uuid", id, "error", err)
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	key := docKeyPrefix + id.String()
	if err := r.client.Set(ctx, key, string(data), r.ttl).Err(); err != nil {
		r.logger.Error("Failed to save document", "uuid", id, "error", err)
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

func (r *RedisStorage) LoadDocument(ctx context.Context, id uuid.UUID) (*vars.Document, error) {
	key := docKeyPrefix + id.String()
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.Warn("Document not found", "uuid", id)
			return nil, nil
		}
		r.logger.Error("Failed to load document", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	var doc vars.Document
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		r.logger.Error("Failed to unmarshal document", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return &doc, nil
}

func (r *RedisStorage) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	key := docKeyPrefix + id.String()
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Error("Failed to delete document", "uuid", id, "error", err)
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

func (r *RedisStorage) ListDocuments(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	iter := r.client.Scan(ctx, 0, docKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		idStr := iter.Val()[len(docKeyPrefix):]
		id, err := uuid.Parse(idStr)
		if err != nil {
			r.logger.Warn("Skipping malformed document key", "key", iter.Val())
			continue
		}
		ids = append(ids, id)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return ids, nil
}
