package cache

import (
	"context"
	"log/slog"
	"time"
)

// DefaultSlidingExpiration applies when neither the call nor the cache
// options set an expiration.
const DefaultSlidingExpiration = time.Hour

// Cache is a named key/value cache.
type Cache interface {
	// Name returns the cache name.
	Name() string

	// Get returns the value stored under key.
	// The boolean is false when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// GetMany returns one Value per key, in the order of keys.
	GetMany(ctx context.Context, keys []string) ([]Value, error)

	// Set stores value under key. A nil value fails with ErrNullValue.
	Set(ctx context.Context, key string, value []byte, opts ...SetOption) error

	// SetMany stores all pairs. Expiration options are not supported and
	// are ignored with a warning.
	SetMany(ctx context.Context, pairs []Pair, opts ...SetOption) error

	// Remove deletes key. Missing keys are not an error.
	Remove(ctx context.Context, key string) error

	// RemoveMany deletes all keys.
	RemoveMany(ctx context.Context, keys []string) error

	// RemoveByPrefix deletes every key starting with prefix.
	RemoveByPrefix(ctx context.Context, prefix string) error

	// Clear deletes every entry of this cache.
	Clear(ctx context.Context) error
}

// Value is the result of a bulk read for a single key.
type Value struct {
	Data  []byte
	Found bool
}

// Pair is a key/value pair for bulk writes.
type Pair struct {
	Key   string
	Value []byte
}

// Options configures a named cache.
type Options struct {
	// DefaultSlidingExpiration is used when a write sets no expiration.
	DefaultSlidingExpiration time.Duration

	// DefaultAbsoluteExpiration is used when a write sets no expiration.
	// It takes precedence over DefaultSlidingExpiration.
	DefaultAbsoluteExpiration time.Duration

	// Logger receives backend warnings. Defaults to a discard logger.
	Logger *slog.Logger
}

// SetOption configures a single write.
type SetOption func(*setOptions)

type setOptions struct {
	sliding  time.Duration
	absolute time.Duration
}

// WithSlidingExpiration expires the entry d after its last access.
func WithSlidingExpiration(d time.Duration) SetOption {
	return func(o *setOptions) { o.sliding = d }
}

// WithAbsoluteExpiration expires the entry d after the write.
func WithAbsoluteExpiration(d time.Duration) SetOption {
	return func(o *setOptions) { o.absolute = d }
}

func applySetOptions(opts []SetOption) setOptions {
	var so setOptions
	for _, opt := range opts {
		opt(&so)
	}
	return so
}

func (so setOptions) hasExpiration() bool {
	return so.sliding > 0 || so.absolute > 0
}

// withDefaults fills an empty expiration from the cache options.
func (so setOptions) withDefaults(o Options) setOptions {
	if so.hasExpiration() {
		return so
	}
	return setOptions{sliding: o.DefaultSlidingExpiration, absolute: o.DefaultAbsoluteExpiration}
}

// ttl collapses the expiration into a single time-to-live, absolute first.
func (so setOptions) ttl() time.Duration {
	if so.absolute > 0 {
		return so.absolute
	}
	return so.sliding
}
