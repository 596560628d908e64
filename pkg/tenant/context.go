package tenant

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/tenantkit/pkg/logger"
)

type (
	tenantIDKey struct{}
	branchIDKey struct{}
	requestKey  struct{}
)

// WithTenantID adds the resolved tenant id to the context.
// A nil id marks a host request.
func WithTenantID(ctx context.Context, id *int64) context.Context {
	return context.WithValue(ctx, tenantIDKey{}, cloneID(id))
}

// TenantIDFromContext returns the resolved tenant id.
// Returns nil, false for host requests and when nothing was resolved.
func TenantIDFromContext(ctx context.Context) (*int64, bool) {
	id, _ := ctx.Value(tenantIDKey{}).(*int64)
	return id, id != nil
}

// MustTenantID returns the resolved tenant id.
// Panics if there is none. Use it only behind RequireTenant.
func MustTenantID(ctx context.Context) int64 {
	id, ok := TenantIDFromContext(ctx)
	if !ok {
		panic("tenant: no tenant in context")
	}
	return *id
}

// WithBranchID adds the resolved branch id to the context.
func WithBranchID(ctx context.Context, id *int64) context.Context {
	return context.WithValue(ctx, branchIDKey{}, cloneID(id))
}

// BranchIDFromContext returns the resolved branch id.
func BranchIDFromContext(ctx context.Context) (*int64, bool) {
	id, _ := ctx.Value(branchIDKey{}).(*int64)
	return id, id != nil
}

// WithRequest stores the HTTP request for contributors that read from it.
func WithRequest(ctx context.Context, r *http.Request) context.Context {
	return context.WithValue(ctx, requestKey{}, r)
}

// RequestFromContext returns the request stored by WithRequest.
func RequestFromContext(ctx context.Context) (*http.Request, bool) {
	r, ok := ctx.Value(requestKey{}).(*http.Request)
	return r, ok && r != nil
}

// LoggerExtractors returns extractors adding tenant_id and branch_id to log records.
func LoggerExtractors() []logger.ContextExtractor {
	return []logger.ContextExtractor{
		func(ctx context.Context) (slog.Attr, bool) {
			id, ok := TenantIDFromContext(ctx)
			return logger.TenantID(id), ok
		},
		func(ctx context.Context) (slog.Attr, bool) {
			id, ok := BranchIDFromContext(ctx)
			return logger.BranchID(id), ok
		},
	}
}
