package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/tenantkit/pkg/cache"
)

func TestLRUCache(t *testing.T) {
	t.Parallel()

	t.Run("put and get", func(t *testing.T) {
		t.Parallel()

		c := cache.NewLRUCache[string, int](3)
		c.Put("a", 1)
		c.Put("b", 2)

		v, ok := c.Get("a")
		assert.True(t, ok)
		assert.Equal(t, 1, v)
		assert.Equal(t, 2, c.Len())

		_, ok = c.Get("missing")
		assert.False(t, ok)
	})

	t.Run("update returns previous value", func(t *testing.T) {
		t.Parallel()

		c := cache.NewLRUCache[string, int](3)
		c.Put("a", 1)
		old, existed := c.Put("a", 2)
		assert.True(t, existed)
		assert.Equal(t, 1, old)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("evicts least recently used", func(t *testing.T) {
		t.Parallel()

		var evicted []string
		c := cache.NewLRUCache[string, int](2)
		c.SetEvictCallback(func(key string, _ int) { evicted = append(evicted, key) })

		c.Put("a", 1)
		c.Put("b", 2)
		c.Get("a")
		c.Put("c", 3)

		_, ok := c.Get("b")
		assert.False(t, ok)
		assert.Equal(t, []string{"b"}, evicted)
	})

	t.Run("peek does not change recency", func(t *testing.T) {
		t.Parallel()

		c := cache.NewLRUCache[string, int](2)
		c.Put("a", 1)
		c.Put("b", 2)
		c.Peek("a")
		c.Put("c", 3)

		_, ok := c.Peek("a")
		assert.False(t, ok)
	})

	t.Run("remove if", func(t *testing.T) {
		t.Parallel()

		c := cache.NewLRUCache[string, int](5)
		for i, k := range []string{"a", "b", "c", "d"} {
			c.Put(k, i)
		}
		removed := c.RemoveIf(func(_ string, v int) bool { return v%2 == 0 })
		assert.Equal(t, 2, removed)
		assert.Equal(t, 2, c.Len())
	})

	t.Run("remove and clear", func(t *testing.T) {
		t.Parallel()

		c := cache.NewLRUCache[string, int](3)
		c.Put("a", 1)
		c.Put("b", 2)

		v, ok := c.Remove("a")
		assert.True(t, ok)
		assert.Equal(t, 1, v)

		c.Clear()
		assert.Equal(t, 0, c.Len())
	})

	t.Run("non-positive capacity panics", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() { cache.NewLRUCache[string, int](0) })
	})
}
