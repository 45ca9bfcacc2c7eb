// Package ratelimit implements a fixed-window request limiter on Redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Result describes the outcome of one limiter hit.
type Result struct {
	Allowed   bool
	Count     int
	Remaining int
	ResetAt   time.Time
}

// RateLimiter counts hits per key in fixed windows shared by all instances.
type RateLimiter struct {
	redis  *redis.Client
	prefix string
}

// NewRateLimiter connects to redisURL and verifies the connection.
func NewRateLimiter(ctx context.Context, redisURL string) (*RateLimiter, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &RateLimiter{redis: client, prefix: "ratelimit"}, nil
}

// Allow registers a hit for key and reports whether it fits in limit per window.
func (rl *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	seconds := int64(window.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	now := time.Now().Unix()
	bucket := now / seconds
	windowKey := fmt.Sprintf("%s:%s:%d", rl.prefix, key, bucket)

	pipe := rl.redis.Pipeline()
	incr := pipe.Incr(ctx, windowKey)
	pipe.Expire(ctx, windowKey, time.Duration(seconds)*time.Second)

	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, fmt.Errorf("rate limit pipeline: %w", err)
	}

	count := int(incr.Val())
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   count <= limit,
		Count:     count,
		Remaining: remaining,
		ResetAt:   time.Unix((bucket+1)*seconds, 0),
	}, nil
}

// Close releases the Redis connection.
func (rl *RateLimiter) Close() error {
	return rl.redis.Close()
}
