package cache

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/tenantkit/pkg/logger"
)

const redisScanBatchSize = 1000

type redisCache struct {
	name   string
	opts   Options
	client redis.UniversalClient
}

// NewRedis creates a Redis-backed named cache.
func NewRedis(name string, client redis.UniversalClient, opts Options) Cache {
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}
	return &redisCache{name: name, opts: opts, client: client}
}

// NewRedisFactory returns a Factory producing Redis-backed caches sharing client.
func NewRedisFactory(client redis.UniversalClient) Factory {
	return func(name string, opts Options) Cache {
		return NewRedis(name, client, opts)
	}
}

func (c *redisCache) Name() string { return c.name }

// key scopes a logical key to this cache.
func (c *redisCache) key(k string) string {
	return "n:" + c.name + ",c:" + k
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, ErrEmptyKey
	}
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (c *redisCache) GetMany(ctx context.Context, keys []string) ([]Value, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	redisKeys := make([]string, len(keys))
	for i, k := range keys {
		if k == "" {
			return nil, ErrEmptyKey
		}
		redisKeys[i] = c.key(k)
	}

	raw, err := c.client.MGet(ctx, redisKeys...).Result()
	if err != nil {
		return nil, err
	}

	values := make([]Value, len(raw))
	for i, v := range raw {
		if s, ok := v.(string); ok {
			values[i] = Value{Data: []byte(s), Found: true}
		}
	}
	return values, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte, opts ...SetOption) error {
	if key == "" {
		return ErrEmptyKey
	}
	if value == nil {
		return ErrNullValue
	}
	ttl := applySetOptions(opts).withDefaults(c.opts).ttl()
	return c.client.Set(ctx, c.key(key), value, ttl).Err()
}

func (c *redisCache) SetMany(ctx context.Context, pairs []Pair, opts ...SetOption) error {
	if len(pairs) == 0 {
		return nil
	}
	args := make([]any, 0, len(pairs)*2)
	for _, p := range pairs {
		if p.Key == "" {
			return ErrEmptyKey
		}
		if p.Value == nil {
			return ErrNullValue
		}
		args = append(args, c.key(p.Key), p.Value)
	}

	if applySetOptions(opts).hasExpiration() {
		warnBulkExpiration(ctx, c.opts.Logger, c.name)
	}

	ttl := setOptions{}.withDefaults(c.opts).ttl()
	_, err := c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.MSet(ctx, args...)
		if ttl > 0 {
			for i := 0; i < len(args); i += 2 {
				pipe.Expire(ctx, args[i].(string), ttl)
			}
		}
		return nil
	})
	return err
}

func (c *redisCache) Remove(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return c.client.Del(ctx, c.key(key)).Err()
}

func (c *redisCache) RemoveMany(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	redisKeys := make([]string, len(keys))
	for i, k := range keys {
		if k == "" {
			return ErrEmptyKey
		}
		redisKeys[i] = c.key(k)
	}
	return c.client.Del(ctx, redisKeys...).Err()
}

// RemoveByPrefix deletes every key of this cache starting with prefix.
func (c *redisCache) RemoveByPrefix(ctx context.Context, prefix string) error {
	return c.deleteMatching(ctx, escapeGlob(c.key(prefix))+"*")
}

// Clear deletes every key of this cache.
func (c *redisCache) Clear(ctx context.Context) error {
	return c.deleteMatching(ctx, escapeGlob(c.key(""))+"*")
}

// deleteMatching uses SCAN to avoid blocking Redis.
func (c *redisCache) deleteMatching(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		batch, next, err := c.client.Scan(ctx, cursor, pattern, redisScanBatchSize).Result()
		if err != nil {
			return err
		}
		if len(batch) > 0 {
			if err := c.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

var globReplacer = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func escapeGlob(s string) string {
	return globReplacer.Replace(s)
}

func warnBulkExpiration(ctx context.Context, log *slog.Logger, name string) {
	log.WarnContext(ctx, "expiration is not supported for bulk set, cache default is used",
		logger.CacheName(name),
	)
}
