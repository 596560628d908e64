package cache

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/tenantkit/pkg/logger"
)

// DefaultMemoryCapacity bounds each in-memory named cache.
const DefaultMemoryCapacity = 10000

type memoryEntry struct {
	data       []byte
	expiresAt  time.Time     // zero means no absolute expiration
	sliding    time.Duration // zero means no sliding expiration
	lastAccess atomic.Int64  // unix nanoseconds, touched by concurrent readers
}

func (e *memoryEntry) expired(now time.Time) bool {
	if !e.expiresAt.IsZero() && !now.Before(e.expiresAt) {
		return true
	}
	return e.sliding > 0 && !now.Before(time.Unix(0, e.lastAccess.Load()).Add(e.sliding))
}

// MemoryOption configures the in-memory backend.
type MemoryOption func(*memoryConfig)

type memoryConfig struct {
	capacity int
	now      func() time.Time
}

// WithMemoryCapacity bounds the number of entries per named cache.
func WithMemoryCapacity(n int) MemoryOption {
	return func(c *memoryConfig) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(c *memoryConfig) {
		if now != nil {
			c.now = now
		}
	}
}

type memoryCache struct {
	name  string
	opts  Options
	items *LRUCache[string, *memoryEntry]
	now   func() time.Time
}

// NewMemory creates an in-memory named cache.
func NewMemory(name string, opts Options, mopts ...MemoryOption) Cache {
	cfg := memoryConfig{capacity: DefaultMemoryCapacity, now: time.Now}
	for _, opt := range mopts {
		opt(&cfg)
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}
	return &memoryCache{
		name:  name,
		opts:  opts,
		items: NewLRUCache[string, *memoryEntry](cfg.capacity),
		now:   cfg.now,
	}
}

// NewMemoryFactory returns a Factory producing in-memory caches.
func NewMemoryFactory(mopts ...MemoryOption) Factory {
	return func(name string, opts Options) Cache {
		return NewMemory(name, opts, mopts...)
	}
}

func (c *memoryCache) Name() string { return c.name }

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, ErrEmptyKey
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	entry, ok := c.items.Get(key)
	if !ok {
		return nil, false, nil
	}

	now := c.now()
	if entry.expired(now) {
		c.items.Remove(key)
		return nil, false, nil
	}
	entry.lastAccess.Store(now.UnixNano())

	return clone(entry.data), true, nil
}

func (c *memoryCache) GetMany(ctx context.Context, keys []string) ([]Value, error) {
	values := make([]Value, len(keys))
	for i, key := range keys {
		data, found, err := c.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		values[i] = Value{Data: data, Found: found}
	}
	return values, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, opts ...SetOption) error {
	if key == "" {
		return ErrEmptyKey
	}
	if value == nil {
		return ErrNullValue
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	c.put(key, value, applySetOptions(opts).withDefaults(c.opts))
	return nil
}

func (c *memoryCache) SetMany(ctx context.Context, pairs []Pair, opts ...SetOption) error {
	for _, p := range pairs {
		if p.Key == "" {
			return ErrEmptyKey
		}
		if p.Value == nil {
			return ErrNullValue
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if applySetOptions(opts).hasExpiration() {
		warnBulkExpiration(ctx, c.opts.Logger, c.name)
	}
	so := setOptions{}.withDefaults(c.opts)
	for _, p := range pairs {
		c.put(p.Key, p.Value, so)
	}
	return nil
}

func (c *memoryCache) put(key string, value []byte, so setOptions) {
	now := c.now()
	entry := &memoryEntry{data: clone(value), sliding: so.sliding}
	entry.lastAccess.Store(now.UnixNano())
	if so.absolute > 0 {
		entry.expiresAt = now.Add(so.absolute)
	}
	c.items.Put(key, entry)
}

func (c *memoryCache) Remove(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	c.items.Remove(key)
	return nil
}

func (c *memoryCache) RemoveMany(ctx context.Context, keys []string) error {
	for _, key := range keys {
		if key == "" {
			return ErrEmptyKey
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, key := range keys {
		c.items.Remove(key)
	}
	return nil
}

func (c *memoryCache) RemoveByPrefix(ctx context.Context, prefix string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.items.RemoveIf(func(key string, _ *memoryEntry) bool {
		return strings.HasPrefix(key, prefix)
	})
	return nil
}

func (c *memoryCache) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.items.Clear()
	return nil
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
