package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const usageTTL = 48 * time.Hour

// RedisLimiter keeps a per-client, per-UTC-day token counter.
type RedisLimiter struct {
	client *redis.Client
	limit  int // Max tokens allowed per day
	now    func() time.Time
}

func NewRedisLimiter(client *redis.Client, limit int) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  limit,
		now:    time.Now,
	}
}

func (r *RedisLimiter) CheckLimit(ctx context.Context, clientKey string) (bool, error) {
	if r.limit <= 0 {
		return true, nil
	}
	val, err := r.client.Get(ctx, r.key(clientKey)).Result()
	if errors.Is(err, redis.Nil) {
		return true, nil // No usage yet
	}
	if err != nil {
		return false, fmt.Errorf("read usage: %w", err)
	}
	usage, err := strconv.Atoi(val)
	if err != nil {
		return false, fmt.Errorf("parse usage %q: %w", val, err)
	}
	return usage < r.limit, nil
}

func (r *RedisLimiter) Increment(ctx context.Context, clientKey string, tokens int) error {
	key := r.key(clientKey)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.IncrBy(ctx, key, int64(tokens))
		pipe.Expire(ctx, key, usageTTL)
		return nil
	})
	return err
}

func (r *RedisLimiter) key(clientKey string) string {
	return "usage:" + r.now().UTC().Format("2006-01-02") + ":" + clientKey
}
