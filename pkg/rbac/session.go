package rbac

import (
	"context"

	"github.com/dmitrymomot/tenantkit/pkg/tenant"
	"github.com/dmitrymomot/tenantkit/pkg/uow"
)

// Session exposes the ambient user of a context.
type Session interface {
	UserID(ctx context.Context) (int64, bool)
	TenantID(ctx context.Context) *int64
	BranchID(ctx context.Context) *int64
}

// NullSession has no user, tenant or branch.
type NullSession struct{}

func (NullSession) UserID(context.Context) (int64, bool) { return 0, false }
func (NullSession) TenantID(context.Context) *int64      { return nil }
func (NullSession) BranchID(context.Context) *int64      { return nil }

type userIDKey struct{}

// WithUserID stores the authenticated user id in the context.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserIDFromContext returns the user id stored by WithUserID.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey{}).(int64)
	return id, ok
}

// ContextSession reads the user stored by WithUserID and the tenant and
// branch resolved by the tenant middleware. An active unit of work
// overrides the tenant.
type ContextSession struct{}

func (ContextSession) UserID(ctx context.Context) (int64, bool) {
	return UserIDFromContext(ctx)
}

func (ContextSession) TenantID(ctx context.Context) *int64 {
	if _, ok := uow.Current(ctx); ok {
		return uow.TenantID(ctx)
	}
	id, _ := tenant.TenantIDFromContext(ctx)
	return id
}

func (ContextSession) BranchID(ctx context.Context) *int64 {
	id, _ := tenant.BranchIDFromContext(ctx)
	return id
}
