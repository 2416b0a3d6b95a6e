package memcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const planKeyPrefix = "aitravel:last-plan:"

// RedisPlanStore shares last plans between instances.
type RedisPlanStore struct {
	client *redis.Client
}

func NewRedisPlanStore(url string) (*RedisPlanStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &RedisPlanStore{client: redis.NewClient(opts)}, nil
}

func planKey(userID string) string {
	return planKeyPrefix + userID
}

func (s *RedisPlanStore) Set(ctx context.Context, userID string, plan []byte, ttl time.Duration) error {
	return s.client.Set(ctx, planKey(userID), plan, ttl).Err()
}

func (s *RedisPlanStore) Get(ctx context.Context, userID string) ([]byte, bool, error) {
	b, err := s.client.Get(ctx, planKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (s *RedisPlanStore) Delete(ctx context.Context, userID string) error {
	return s.client.Del(ctx, planKey(userID)).Err()
}

func (s *RedisPlanStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisPlanStore) Close() error {
	return s.client.Close()
}
