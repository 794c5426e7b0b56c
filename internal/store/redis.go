package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/department-summary/internal/domain"
)

// RedisStore keeps the snapshot under a single Redis key so every replica
// serves the same summary. A SET replaces the whole value atomically.
type RedisStore struct {
	client redis.UniversalClient
	key    string
}

// NewRedisStore uses client and key.
func NewRedisStore(client redis.UniversalClient, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

// Replace overwrites the stored snapshot.
func (s *RedisStore) Replace(ctx context.Context, snap *domain.Snapshot) error {
	if snap == nil {
		return errors.New("nil snapshot")
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}

// Current reads and decodes the stored snapshot.
func (s *RedisStore) Current(ctx context.Context) (*domain.Snapshot, error) {
	payload, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// Ping verifies Redis connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
