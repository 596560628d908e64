package uow

import (
	"context"
	"maps"

	"github.com/dmitrymomot/tenantkit/pkg/ambient"
)

// Data filter names.
const (
	MayHaveTenant  = "MayHaveTenant"
	MustHaveTenant = "MustHaveTenant"
)

const scopeName = "tenantkit.uow"

// Scope is an immutable unit-of-work state.
type Scope struct {
	tenantID *int64
	filters  map[string]bool
}

// TenantID returns the tenant the work runs as; nil is the host.
func (s *Scope) TenantID() *int64 {
	if s.tenantID == nil {
		return nil
	}
	id := *s.tenantID
	return &id
}

// IsFilterEnabled reports whether the named data filter is on.
// Unknown filters are off.
func (s *Scope) IsFilterEnabled(name string) bool {
	return s.filters[name]
}

func (s *Scope) with(fn func(*Scope)) *Scope {
	next := &Scope{tenantID: s.tenantID, filters: maps.Clone(s.filters)}
	fn(next)
	return next
}

// Begin starts a unit of work running as tenantID with both tenant filters
// enabled. A nested Begin inherits the outer filters and tenant.
func Begin(ctx context.Context, tenantID ...*int64) context.Context {
	scope := &Scope{filters: map[string]bool{MayHaveTenant: true, MustHaveTenant: true}}
	if outer, ok := Current(ctx); ok {
		scope = outer.with(func(*Scope) {})
	}
	if len(tenantID) > 0 {
		scope.tenantID = cloneID(tenantID[0])
	}
	return ambient.BeginScope(ctx, scopeName, scope)
}

// Current returns the active scope.
func Current(ctx context.Context) (*Scope, bool) {
	return ambient.Value[*Scope](ctx, scopeName)
}

// SetTenantID switches the tenant of the active unit of work.
// Without an active unit of work ctx is returned unchanged.
func SetTenantID(ctx context.Context, id *int64) context.Context {
	scope, ok := Current(ctx)
	if !ok {
		return ctx
	}
	return ambient.BeginScope(ctx, scopeName, scope.with(func(s *Scope) { s.tenantID = cloneID(id) }))
}

// TenantID returns the tenant of the active unit of work, or nil.
func TenantID(ctx context.Context) *int64 {
	scope, ok := Current(ctx)
	if !ok {
		return nil
	}
	return scope.TenantID()
}

// EnableFilter turns the named data filter on.
func EnableFilter(ctx context.Context, name string) context.Context {
	return setFilter(ctx, name, true)
}

// DisableFilter turns the named data filter off.
func DisableFilter(ctx context.Context, name string) context.Context {
	return setFilter(ctx, name, false)
}

// IsFilterEnabled reports whether the named filter is on in the active unit
// of work. Without one every filter is off.
func IsFilterEnabled(ctx context.Context, name string) bool {
	scope, ok := Current(ctx)
	return ok && scope.IsFilterEnabled(name)
}

func setFilter(ctx context.Context, name string, enabled bool) context.Context {
	scope, ok := Current(ctx)
	if !ok {
		return ctx
	}
	if scope.filters[name] == enabled {
		return ctx
	}
	return ambient.BeginScope(ctx, scopeName, scope.with(func(s *Scope) { s.filters[name] = enabled }))
}

func cloneID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
