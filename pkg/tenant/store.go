package tenant

import (
	"context"
	"errors"
	"strconv"

	"github.com/dmitrymomot/tenantkit/pkg/cache"
)

// StoreCacheName is the named cache used by CachingStore.
const StoreCacheName = "tenantkit.tenants"

// CachingStore decorates a Store with a named cache.
// Misses are not cached.
type CachingStore struct {
	next  Store
	cache *cache.Typed[*Info]
	opts  []cache.SetOption
}

// NewCachingStore wraps next with c.
func NewCachingStore(next Store, c cache.Cache, opts ...cache.SetOption) *CachingStore {
	return &CachingStore{next: next, cache: cache.NewTyped[*Info](c), opts: opts}
}

func (s *CachingStore) Find(ctx context.Context, id int64) (*Info, error) {
	return s.cache.GetOrAdd(ctx, idKey(id), func(ctx context.Context) (*Info, error) {
		return s.next.Find(ctx, id)
	}, s.opts...)
}

func (s *CachingStore) FindByTenancyName(ctx context.Context, tenancyName string) (*Info, error) {
	return s.cache.GetOrAdd(ctx, nameKey(tenancyName), func(ctx context.Context) (*Info, error) {
		return s.next.FindByTenancyName(ctx, tenancyName)
	}, s.opts...)
}

// Invalidate drops the cached entries of a tenant: its id, the given
// tenancy names and the name held by the cached id entry.
func (s *CachingStore) Invalidate(ctx context.Context, id int64, tenancyNames ...string) error {
	cached, found, err := s.cache.Get(ctx, idKey(id))
	if err != nil && !errors.Is(err, cache.ErrSerialization) {
		return err
	}
	if found && cached != nil {
		tenancyNames = append(tenancyNames, cached.TenancyName)
	}
	if err := s.cache.Remove(ctx, idKey(id)); err != nil {
		return err
	}

	seen := make(map[string]bool, len(tenancyNames))
	for _, name := range tenancyNames {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		if err := s.cache.Remove(ctx, nameKey(name)); err != nil {
			return err
		}
	}
	return nil
}

func idKey(id int64) string             { return "id:" + strconv.FormatInt(id, 10) }
func nameKey(tenancyName string) string { return "name:" + tenancyName }
