package tenant

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrymomot/tenantkit/pkg/logger"
)

// TenantIDResolver is satisfied by *TenantResolver.
type TenantIDResolver interface {
	ResolveTenantID(ctx context.Context) (*int64, error)
}

// BranchIDResolver is satisfied by *BranchResolver.
type BranchIDResolver interface {
	ResolveBranchID(ctx context.Context) (*int64, error)
}

// Middleware resolves the tenant and branch of every request and adds both
// ids to the request context. Requests without a tenant continue as host
// requests. branches may be nil.
func Middleware(tenants TenantIDResolver, branches BranchIDResolver, opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{
		errorHandler: defaultErrorHandler,
		logger:       logger.Discard(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, skip := range cfg.skipPaths {
				if strings.HasPrefix(r.URL.Path, skip) {
					next.ServeHTTP(w, r)
					return
				}
			}

			ctx := WithResolutionScope(WithRequest(r.Context(), r))

			tenantID, err := tenants.ResolveTenantID(ctx)
			if err != nil {
				cfg.logger.ErrorContext(ctx, "resolve tenant", logger.Error(err))
				cfg.errorHandler(w, r, err)
				return
			}
			ctx = WithTenantID(ctx, tenantID)

			if branches != nil {
				branchID, err := branches.ResolveBranchID(ctx)
				if err != nil {
					cfg.logger.ErrorContext(ctx, "resolve branch", logger.Error(err))
					cfg.errorHandler(w, r, err)
					return
				}
				ctx = WithBranchID(ctx, branchID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireTenant rejects requests without a resolved tenant.
// The default error handler answers 400.
func RequireTenant(errorHandler ErrorHandler) func(http.Handler) http.Handler {
	if errorHandler == nil {
		errorHandler = defaultErrorHandler
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := TenantIDFromContext(r.Context()); !ok {
				errorHandler(w, r, ErrNoTenantInContext)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
