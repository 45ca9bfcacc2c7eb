package ratelimit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) string {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err)

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7-alpine",
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Purge(resource) })

	url := fmt.Sprintf("redis://localhost:%s/0", resource.GetPort("6379/tcp"))
	require.NoError(t, pool.Retry(func() error {
		opt, err := redis.ParseURL(url)
		if err != nil {
			return err
		}
		client := redis.NewClient(opt)
		defer func() { _ = client.Close() }()
		return client.Ping(context.Background()).Err()
	}))
	return url
}

func TestRateLimiterIntegration(t *testing.T) {
	ctx := context.Background()
	url := setupRedis(t)

	rl, err := NewRateLimiter(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rl.Close() })

	for i := 1; i <= 3; i++ {
		res, err := rl.Allow(ctx, "10.0.0.1", 3, time.Minute)
		require.NoError(t, err)
		require.True(t, res.Allowed)
		require.Equal(t, i, res.Count)
		require.Equal(t, 3-i, res.Remaining)
	}

	res, err := rl.Allow(ctx, "10.0.0.1", 3, time.Minute)
	require.NoError(t, err)
	require.False(t, res.Allowed)
	require.Zero(t, res.Remaining)
	require.True(t, res.ResetAt.After(time.Now()))

	other, err := rl.Allow(ctx, "10.0.0.2", 3, time.Minute)
	require.NoError(t, err)
	require.True(t, other.Allowed, "keys are counted separately")
}

func TestNewRateLimiterInvalidURL(t *testing.T) {
	_, err := NewRateLimiter(context.Background(), "not a url")
	require.Error(t, err)
}
