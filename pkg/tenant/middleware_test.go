package tenant_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

func newTestResolvers(t *testing.T, store tenant.Store) (*tenant.TenantResolver, *tenant.BranchResolver) {
	t.Helper()
	reg := tenant.NewRegistry()
	cfg := tenant.DefaultConfig()
	tenant.RegisterHTTPContributors(reg, store, cfg, nil)
	tenants, branches, err := tenant.NewResolvers(reg, store, cfg)
	require.NoError(t, err)
	return tenants, branches
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("adds tenant and branch to context", func(t *testing.T) {
		t.Parallel()

		store := newMemStore(&tenant.Info{ID: 10, TenancyName: "acme"})
		tenants, branches := newTestResolvers(t, store)

		handler := tenant.Middleware(tenants, branches)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := tenant.TenantIDFromContext(r.Context())
			require.True(t, ok)
			assert.Equal(t, int64(10), *id)

			branch, ok := tenant.BranchIDFromContext(r.Context())
			require.True(t, ok)
			assert.Equal(t, int64(4), *branch)

			// Resolution inside the handler is served from the request scope.
			again, err := tenants.ResolveTenantID(r.Context())
			require.NoError(t, err)
			assert.Equal(t, int64(10), *again)
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Tenant-ID", "10")
		req.Header.Set("X-Branch-ID", "4")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, store.findCalls())
	})

	t.Run("resolves by tenancy code", func(t *testing.T) {
		t.Parallel()

		store := newMemStore(&tenant.Info{ID: 10, TenancyName: "acme"})
		tenants, branches := newTestResolvers(t, store)

		var got *int64
		handler := tenant.Middleware(tenants, branches)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, _ = tenant.TenantIDFromContext(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Tenant-Code", "acme")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		require.NotNil(t, got)
		assert.Equal(t, int64(10), *got)
	})

	t.Run("continues as host when nothing resolves", func(t *testing.T) {
		t.Parallel()

		tenants, branches := newTestResolvers(t, newMemStore())

		handler := tenant.Middleware(tenants, branches)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok := tenant.TenantIDFromContext(r.Context())
			assert.False(t, ok)
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Tenant-ID", "404")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("store faults go to the error handler", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		store.err = errors.New("db down")
		tenants, branches := newTestResolvers(t, store)

		var handled error
		mw := tenant.Middleware(tenants, branches, tenant.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			handled = err
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not be called")
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Tenant-ID", "1")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.EqualError(t, handled, "db down")
	})

	t.Run("default error handler answers 500 for store faults", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		store.err = errors.New("db down")
		tenants, _ := newTestResolvers(t, store)

		handler := tenant.Middleware(tenants, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Tenant-ID", "1")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("skip paths bypass resolution", func(t *testing.T) {
		t.Parallel()

		store := newMemStore(&tenant.Info{ID: 1})
		tenants, branches := newTestResolvers(t, store)

		handler := tenant.Middleware(tenants, branches, tenant.WithSkipPaths([]string{"/health"}))(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, ok := tenant.TenantIDFromContext(r.Context())
				assert.False(t, ok)
				assert.Nil(t, tenant.ScopeCacheFromContext(r.Context()))
			}),
		)

		req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
		req.Header.Set("X-Tenant-ID", "1")
		handler.ServeHTTP(httptest.NewRecorder(), req)
		assert.Zero(t, store.findCalls())
	})

	t.Run("contributors read the request", func(t *testing.T) {
		t.Parallel()

		var seen string
		tenants := tenant.NewTenantResolver(newMemStore(), []tenant.Named[tenant.Contributor]{
			{Name: "spy", New: func() tenant.Contributor {
				return tenant.ContributorFunc(func(ctx context.Context) (*int64, error) {
					r, ok := tenant.RequestFromContext(ctx)
					if ok {
						seen = r.URL.Path
					}
					return nil, nil
				})
			}},
		})

		handler := tenant.Middleware(tenants, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/orders/1", nil))
		assert.Equal(t, "/orders/1", seen)
	})
}

func TestRequireTenant(t *testing.T) {
	t.Parallel()

	t.Run("rejects host requests", func(t *testing.T) {
		t.Parallel()

		handler := tenant.RequireTenant(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not be called")
		}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("passes tenant requests", func(t *testing.T) {
		t.Parallel()

		handler := tenant.RequireTenant(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, int64(3), tenant.MustTenantID(r.Context()))
			w.WriteHeader(http.StatusNoContent)
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(tenant.WithTenantID(req.Context(), ptr(3)))
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("custom error handler", func(t *testing.T) {
		t.Parallel()

		handler := tenant.RequireTenant(func(w http.ResponseWriter, r *http.Request, err error) {
			assert.ErrorIs(t, err, tenant.ErrNoTenantInContext)
			w.WriteHeader(http.StatusForbidden)
		})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
