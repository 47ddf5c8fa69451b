package segstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements segment set storage using Redis
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a new Redis-backed segment store
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	store := NewRedisStoreWithClient(redis.NewClient(opts))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return store, nil
}

// NewRedisStoreWithClient creates a store from an existing Redis client
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "diff:",
	}
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

// Save stores a segment set with expiration
func (s *RedisStore) Save(ctx context.Context, set SegmentSet, ttl time.Duration) error {
	if set.ID == "" {
		return fmt.Errorf("save segment set: missing id")
	}
	if set.CreatedAt.IsZero() {
		set.CreatedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("marshal segment set: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if err := s.client.Set(ctx, s.key(set.ID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("save segment set: %w", err)
	}
	return nil
}

// Load retrieves a segment set by id
func (s *RedisStore) Load(ctx context.Context, id string) (SegmentSet, error) {
	payload, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return SegmentSet{}, fmt.Errorf("load segment set %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return SegmentSet{}, fmt.Errorf("load segment set: %w", err)
	}

	var set SegmentSet
	if err := json.Unmarshal(payload, &set); err != nil {
		return SegmentSet{}, fmt.Errorf("unmarshal segment set: %w", err)
	}
	return set, nil
}

// Delete removes a segment set; deleting a missing id is not an error
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("delete segment set: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping checks if Redis is reachable
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
