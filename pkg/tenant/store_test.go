package tenant_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/pkg/cache"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

func TestCachingStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("hits are served from cache", func(t *testing.T) {
		t.Parallel()

		next := newMemStore(&tenant.Info{ID: 1, TenancyName: "acme", Name: "Acme"})
		s := tenant.NewCachingStore(next, cache.NewMemory(tenant.StoreCacheName, cache.Options{}))

		for range 3 {
			info, err := s.Find(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, "Acme", info.Name)
		}
		assert.Equal(t, 1, next.findCalls())
	})

	t.Run("misses are not cached", func(t *testing.T) {
		t.Parallel()

		next := newMemStore()
		s := tenant.NewCachingStore(next, cache.NewMemory(tenant.StoreCacheName, cache.Options{}))

		_, err := s.Find(ctx, 1)
		assert.ErrorIs(t, err, tenant.ErrTenantNotFound)
		_, err = s.Find(ctx, 1)
		assert.ErrorIs(t, err, tenant.ErrTenantNotFound)
		assert.Equal(t, 2, next.findCalls())
	})

	t.Run("invalidate", func(t *testing.T) {
		t.Parallel()

		next := newMemStore(&tenant.Info{ID: 1, TenancyName: "acme"})
		s := tenant.NewCachingStore(next, cache.NewMemory(tenant.StoreCacheName, cache.Options{}))

		_, err := s.FindByTenancyName(ctx, "acme")
		require.NoError(t, err)
		_, err = s.Find(ctx, 1)
		require.NoError(t, err)

		require.NoError(t, s.Invalidate(ctx, 1, "acme"))
		_, err = s.Find(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 2, next.findCalls())
	})

	t.Run("invalidate drops the name of the cached id entry", func(t *testing.T) {
		t.Parallel()

		next := newMemStore(&tenant.Info{ID: 1, TenancyName: "acme"})
		s := tenant.NewCachingStore(next, cache.NewMemory(tenant.StoreCacheName, cache.Options{}))

		_, err := s.Find(ctx, 1)
		require.NoError(t, err)
		_, err = s.FindByTenancyName(ctx, "acme")
		require.NoError(t, err)

		next.mu.Lock()
		next.byID[1] = &tenant.Info{ID: 1, TenancyName: "globex"}
		next.mu.Unlock()

		require.NoError(t, s.Invalidate(ctx, 1, "globex"))
		_, err = s.FindByTenancyName(ctx, "acme")
		assert.ErrorIs(t, err, tenant.ErrTenantNotFound)

		info, err := s.FindByTenancyName(ctx, "globex")
		require.NoError(t, err)
		assert.Equal(t, int64(1), info.ID)
	})
}

