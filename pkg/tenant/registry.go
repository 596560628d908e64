package tenant

import (
	"fmt"
	"slices"
	"sync"
)

// Registry holds contributor factories by name.
// It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	tenant map[string]func() Contributor
	branch map[string]func() BranchContributor
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		tenant: make(map[string]func() Contributor),
		branch: make(map[string]func() BranchContributor),
	}
}

// RegisterTenant registers a tenant contributor factory, replacing any
// factory with the same name.
func (r *Registry) RegisterTenant(name string, factory func() Contributor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tenant[name] = factory
}

// RegisterBranch registers a branch contributor factory, replacing any
// factory with the same name.
func (r *Registry) RegisterBranch(name string, factory func() BranchContributor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.branch[name] = factory
}

// TenantContributors returns the factories for names, in the given order.
func (r *Registry) TenantContributors(names []string) ([]Named[Contributor], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lookup(r.tenant, names)
}

// BranchContributors returns the factories for names, in the given order.
func (r *Registry) BranchContributors(names []string) ([]Named[BranchContributor], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lookup(r.branch, names)
}

// Names returns the registered tenant and branch contributor names, sorted.
func (r *Registry) Names() (tenant, branch []string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for name := range r.tenant {
		tenant = append(tenant, name)
	}
	for name := range r.branch {
		branch = append(branch, name)
	}
	slices.Sort(tenant)
	slices.Sort(branch)
	return tenant, branch
}

func lookup[C any](factories map[string]func() C, names []string) ([]Named[C], error) {
	out := make([]Named[C], 0, len(names))
	for _, name := range names {
		factory, ok := factories[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownContributor, name)
		}
		out = append(out, Named[C]{Name: name, New: factory})
	}
	return out, nil
}
