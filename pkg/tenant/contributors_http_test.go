package tenant_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

func requestContext(r *http.Request) context.Context {
	return tenant.WithRequest(context.Background(), r)
}

func TestHeaderIDContributor(t *testing.T) {
	t.Parallel()

	t.Run("reads numeric id", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Tenant-ID", " 12 ")

		id, err := tenant.HeaderIDContributor{Header: "X-Tenant-ID"}.ResolveTenantID(requestContext(req))
		require.NoError(t, err)
		require.NotNil(t, id)
		assert.Equal(t, int64(12), *id)
	})

	t.Run("non-numeric value yields nil", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Tenant-ID", "acme")

		id, err := tenant.HeaderIDContributor{Header: "X-Tenant-ID"}.ResolveTenantID(requestContext(req))
		require.NoError(t, err)
		assert.Nil(t, id)
	})

	t.Run("first of several values is used", func(t *testing.T) {
		t.Parallel()

		buf := &bytes.Buffer{}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Add("X-Tenant-ID", "1")
		req.Header.Add("X-Tenant-ID", "2")

		c := tenant.HeaderIDContributor{Header: "X-Tenant-ID", Logger: slog.New(slog.NewTextHandler(buf, nil))}
		id, err := c.ResolveTenantID(requestContext(req))
		require.NoError(t, err)
		assert.Equal(t, int64(1), *id)
		assert.Contains(t, buf.String(), "multiple header values")
	})

	t.Run("no request in context", func(t *testing.T) {
		t.Parallel()

		id, err := tenant.HeaderIDContributor{Header: "X-Tenant-ID"}.ResolveTenantID(context.Background())
		require.NoError(t, err)
		assert.Nil(t, id)
	})
}

func TestHeaderCodeContributor(t *testing.T) {
	t.Parallel()

	store := newMemStore(&tenant.Info{ID: 3, TenancyName: "acme"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Tenant-Code", "acme")
	id, err := tenant.HeaderCodeContributor{Header: "X-Tenant-Code", Store: store}.ResolveTenantID(requestContext(req))
	require.NoError(t, err)
	assert.Equal(t, int64(3), *id)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Tenant-Code", "globex")
	id, err = tenant.HeaderCodeContributor{Header: "X-Tenant-Code", Store: store}.ResolveTenantID(requestContext(req))
	require.NoError(t, err)
	assert.Nil(t, id)

	failing := newMemStore()
	failing.err = errors.New("db down")
	_, err = tenant.HeaderCodeContributor{Header: "X-Tenant-Code", Store: failing}.ResolveTenantID(requestContext(req))
	assert.Error(t, err)
}

func TestCookieContributor(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "X-Tenant-ID", Value: "21"})

	id, err := tenant.CookieContributor{Cookie: "X-Tenant-ID"}.ResolveTenantID(requestContext(req))
	require.NoError(t, err)
	assert.Equal(t, int64(21), *id)

	id, err = tenant.CookieContributor{Cookie: "other"}.ResolveTenantID(requestContext(req))
	require.NoError(t, err)
	assert.Nil(t, id)
}

func TestSubdomainContributor(t *testing.T) {
	t.Parallel()

	store := newMemStore(&tenant.Info{ID: 1, TenancyName: "acme"})

	tests := []struct {
		name   string
		host   string
		suffix string
		want   *int64
	}{
		{"subdomain", "acme.app.com", "", ptr(1)},
		{"with port", "acme.app.com:8080", "", ptr(1)},
		{"with suffix", "acme.saas.com", ".saas.com", ptr(1)},
		{"www is skipped", "www.acme.app.com", "", ptr(1)},
		{"base domain", "app.com", "", nil},
		{"unknown tenant", "globex.app.com", "", nil},
		{"localhost", "localhost", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Host = tt.host

			id, err := tenant.SubdomainContributor{Suffix: tt.suffix, Store: store}.ResolveTenantID(requestContext(req))
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestPathContributor(t *testing.T) {
	t.Parallel()

	store := newMemStore(&tenant.Info{ID: 1, TenancyName: "acme"})

	tests := []struct {
		name     string
		path     string
		position int
		want     *int64
	}{
		{"first segment", "/acme/users", 1, ptr(1)},
		{"second segment", "/t/acme/users", 2, ptr(1)},
		{"out of range", "/acme", 3, nil},
		{"root", "/", 1, nil},
		{"invalid position", "/acme", 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			id, err := tenant.PathContributor{Position: tt.position, Store: store}.ResolveTenantID(requestContext(req))
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestBranchHeaderContributor(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Branch-ID", "77")

	id, err := tenant.BranchHeaderContributor{Header: "X-Branch-ID"}.ResolveBranchID(requestContext(req))
	require.NoError(t, err)
	assert.Equal(t, int64(77), *id)
}

func TestRegisterHTTPContributors(t *testing.T) {
	t.Parallel()

	reg := tenant.NewRegistry()
	tenant.RegisterHTTPContributors(reg, nil, tenant.DefaultConfig(), nil)

	tenants, branches := reg.Names()
	assert.Equal(t, []string{"cookie", "header_code", "header_id", "path", "subdomain"}, tenants)
	assert.Equal(t, []string{"branch_header"}, branches)
}
