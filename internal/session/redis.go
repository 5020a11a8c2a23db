package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aura-assist/aura-backend/internal/types"
)

const redisKeyPrefix = "aura:session:"

// RedisStore keeps checkpoints as JSON values with a TTL, for deployments
// where sessions must survive process restarts.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, threadKey string) (types.RequestRecord, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+threadKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return types.RequestRecord{}, ErrNotFound
	}
	if err != nil {
		return types.RequestRecord{}, fmt.Errorf("redis get: %w", err)
	}

	var record types.RequestRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return types.RequestRecord{}, fmt.Errorf("decode checkpoint: %w", err)
	}
	return record, nil
}

func (s *RedisStore) Put(ctx context.Context, threadKey string, record types.RequestRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+threadKey, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, threadKey string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+threadKey).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
