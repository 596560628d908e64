package redis_test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/pkg/redis"
)

func TestConnect(t *testing.T) {
	t.Parallel()

	t.Run("ready server", func(t *testing.T) {
		t.Parallel()
		mr := miniredis.RunT(t)
		client, err := redis.Connect(t.Context(), redis.Config{
			ConnectionURL: "redis://" + mr.Addr() + "/0",
			RetryAttempts: 1,
		}, nil)
		require.NoError(t, err)
		t.Cleanup(func() { _ = client.Close() })

		assert.NoError(t, redis.Healthcheck(client)(t.Context()))

		mr.Close()
		assert.ErrorIs(t, redis.Healthcheck(client)(t.Context()), redis.ErrHealthcheckFailed)
	})

	t.Run("unreachable server", func(t *testing.T) {
		t.Parallel()
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		_, err := redis.Connect(t.Context(), redis.Config{
			ConnectionURL: "redis://" + addr + "/0",
			RetryAttempts: 2,
			RetryInterval: 10 * time.Millisecond,
		}, nil)
		assert.ErrorIs(t, err, redis.ErrRedisNotReady)
	})

	t.Run("invalid url", func(t *testing.T) {
		t.Parallel()
		_, err := redis.Connect(t.Context(), redis.Config{ConnectionURL: "http://nope"}, nil)
		assert.ErrorIs(t, err, redis.ErrFailedToParseRedisConnString)
	})

	t.Run("empty url", func(t *testing.T) {
		t.Parallel()
		_, err := redis.Connect(t.Context(), redis.Config{}, nil)
		assert.ErrorIs(t, err, redis.ErrEmptyConnectionURL)
	})
}
