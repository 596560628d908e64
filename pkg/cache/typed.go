package cache

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Codec converts typed values to and from cache bytes.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// JSONCodec is the default Codec.
var JSONCodec Codec = jsonCodec{}

// Typed stores values of type V in a Cache.
type Typed[V any] struct {
	cache Cache
	codec Codec
	group singleflight.Group
	loads loads
}

// TypedOption configures a Typed cache.
type TypedOption func(*typedConfig)

type typedConfig struct {
	codec Codec
}

// WithCodec replaces the JSON codec.
func WithCodec(codec Codec) TypedOption {
	return func(c *typedConfig) {
		if codec != nil {
			c.codec = codec
		}
	}
}

// NewTyped wraps c for values of type V.
func NewTyped[V any](c Cache, opts ...TypedOption) *Typed[V] {
	cfg := typedConfig{codec: JSONCodec}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Typed[V]{cache: c, codec: cfg.codec}
}

// Name returns the underlying cache name.
func (t *Typed[V]) Name() string { return t.cache.Name() }

// Get returns the decoded value stored under key.
func (t *Typed[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var zero V
	data, found, err := t.cache.Get(ctx, key)
	if err != nil || !found {
		return zero, false, err
	}
	var v V
	if err := t.codec.Unmarshal(data, &v); err != nil {
		return zero, false, errors.Join(ErrSerialization, err)
	}
	return v, true, nil
}

// Set encodes and stores value. Nil pointers, maps, slices and interfaces
// fail with ErrNullValue.
func (t *Typed[V]) Set(ctx context.Context, key string, value V, opts ...SetOption) error {
	if isNil(value) {
		return ErrNullValue
	}
	data, err := t.codec.Marshal(value)
	if err != nil {
		return errors.Join(ErrSerialization, err)
	}
	return t.cache.Set(ctx, key, data, opts...)
}

// GetOrAdd returns the cached value or loads, stores and returns it.
// Concurrent misses for the same key run loader once. A nil result from
// loader is returned as is and not cached. A load overlapped by Remove,
// RemoveByPrefix or Clear of its key is returned but not kept in the cache.
//
// The loader runs detached from the cancellation of ctx; a caller whose ctx
// is done stops waiting without failing the other callers.
func (t *Typed[V]) GetOrAdd(ctx context.Context, key string, loader func(context.Context) (V, error), opts ...SetOption) (V, error) {
	var zero V
	if v, found, err := t.Get(ctx, key); err != nil || found {
		return v, err
	}

	ch := t.group.DoChan(key, func() (any, error) {
		lctx := context.WithoutCancel(ctx)
		token := t.loads.begin(key)
		v, err := loader(lctx)
		if err != nil || isNil(v) {
			t.loads.end(key, token)
			return v, err
		}
		if err := t.Set(lctx, key, v, opts...); err != nil {
			t.loads.end(key, token)
			return v, err
		}
		if !t.loads.end(key, token) {
			// invalidated while loading; drop what was stored
			if err := t.cache.Remove(lctx, key); err != nil {
				return v, err
			}
		}
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		v, _ := res.Val.(V)
		return v, nil
	}
}

// Remove deletes key.
func (t *Typed[V]) Remove(ctx context.Context, key string) error {
	t.abandon(func(k string) bool { return k == key })
	return t.cache.Remove(ctx, key)
}

// RemoveByPrefix deletes every key starting with prefix.
func (t *Typed[V]) RemoveByPrefix(ctx context.Context, prefix string) error {
	t.abandon(func(k string) bool { return strings.HasPrefix(k, prefix) })
	return t.cache.RemoveByPrefix(ctx, prefix)
}

// Clear deletes every entry of the underlying cache.
func (t *Typed[V]) Clear(ctx context.Context) error {
	t.abandon(func(string) bool { return true })
	return t.cache.Clear(ctx)
}

// abandon marks running loads of matching keys stale and detaches them from
// the singleflight group, so later misses start a fresh load. It must run
// before the cache entries are removed.
func (t *Typed[V]) abandon(match func(string) bool) {
	for _, key := range t.loads.abandon(match) {
		t.group.Forget(key)
	}
}

// loads tracks running GetOrAdd loads by key.
type loads struct {
	mu     sync.Mutex
	seq    uint64
	active map[string]uint64
}

func (l *loads) begin(key string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.active == nil {
		l.active = make(map[string]uint64)
	}
	l.seq++
	l.active[key] = l.seq
	return l.seq
}

// end reports whether the load identified by token was not abandoned.
func (l *loads) end(key string, token uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if cur, ok := l.active[key]; ok && cur == token {
		delete(l.active, key)
		return true
	}
	return false
}

func (l *loads) abandon(match func(string) bool) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var keys []string
	for key := range l.active {
		if match(key) {
			delete(l.active, key)
			keys = append(keys, key)
		}
	}
	return keys
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
