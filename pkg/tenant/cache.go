package tenant

import (
	"context"
	"sync"
)

// ResolverCacheItem is the memoized tenant resolution of one scope.
type ResolverCacheItem struct {
	TenantID *int64
}

// BranchResolverCacheItem is the memoized branch resolution of one scope.
type BranchResolverCacheItem struct {
	BranchID *int64
}

// ScopeCache memoizes resolution results for the lifetime of a context,
// typically one HTTP request. Items are immutable once stored.
type ScopeCache struct {
	mu     sync.Mutex
	tenant *ResolverCacheItem
	branch *BranchResolverCacheItem
}

type scopeCacheKey struct{}

// WithResolutionScope returns a context carrying a fresh ScopeCache.
// Contexts derived from it share the cache.
func WithResolutionScope(ctx context.Context) context.Context {
	return context.WithValue(ctx, scopeCacheKey{}, &ScopeCache{})
}

// ScopeCacheFromContext returns the innermost ScopeCache, or nil.
func ScopeCacheFromContext(ctx context.Context) *ScopeCache {
	sc, _ := ctx.Value(scopeCacheKey{}).(*ScopeCache)
	return sc
}

// Tenant returns the stored tenant item.
// A stored item with a nil TenantID is still a hit.
func (c *ScopeCache) Tenant() (*ResolverCacheItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tenant, c.tenant != nil
}

// SetTenant stores the tenant result. The first stored item wins.
func (c *ScopeCache) SetTenant(id *int64) *ResolverCacheItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tenant == nil {
		c.tenant = &ResolverCacheItem{TenantID: cloneID(id)}
	}
	return c.tenant
}

// Branch returns the stored branch item.
func (c *ScopeCache) Branch() (*BranchResolverCacheItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.branch, c.branch != nil
}

// SetBranch stores the branch result. The first stored item wins.
func (c *ScopeCache) SetBranch(id *int64) *BranchResolverCacheItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.branch == nil {
		c.branch = &BranchResolverCacheItem{BranchID: cloneID(id)}
	}
	return c.branch
}

func cloneID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
