package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rwagate/internal/platform/config"
)

func TestClientOptions(t *testing.T) {
	t.Run("url is required", func(t *testing.T) {
		_, err := clientOptions(config.RedisConfig{})
		require.Error(t, err)
	})

	t.Run("malformed url", func(t *testing.T) {
		_, err := clientOptions(config.RedisConfig{URL: "http://localhost:6379"})
		require.Error(t, err)
	})

	t.Run("pool settings override url defaults", func(t *testing.T) {
		opts, err := clientOptions(config.RedisConfig{
			URL:          "redis://cache:6380/2",
			PoolSize:     32,
			MinIdleConns: 4,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		})
		require.NoError(t, err)
		assert.Equal(t, "cache:6380", opts.Addr)
		assert.Equal(t, 2, opts.DB)
		assert.Equal(t, 32, opts.PoolSize)
		assert.Equal(t, 4, opts.MinIdleConns)
		assert.Equal(t, 2*time.Second, opts.DialTimeout)
	})

	t.Run("zero settings keep library defaults", func(t *testing.T) {
		opts, err := clientOptions(config.RedisConfig{URL: "redis://localhost:6379/0"})
		require.NoError(t, err)
		assert.Zero(t, opts.PoolSize)
		assert.Zero(t, opts.MinIdleConns)
	})
}

func TestNewFailsWhenUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := New(ctx, config.RedisConfig{
		URL:         "redis://127.0.0.1:1/0",
		DialTimeout: 200 * time.Millisecond,
	})
	require.Error(t, err)
}
