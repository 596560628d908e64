package tenant

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/dmitrymomot/tenantkit/pkg/logger"
)

// HeaderIDContributor reads a numeric tenant id from a request header.
type HeaderIDContributor struct {
	Header string
	Logger *slog.Logger
}

// ResolveTenantID returns the id from the first header value.
// Non-numeric values yield nil.
func (c HeaderIDContributor) ResolveTenantID(ctx context.Context) (*int64, error) {
	return headerID(ctx, c.Header, c.Logger)
}

// HeaderCodeContributor reads a tenancy name from a request header and maps
// it to an id through the Store.
type HeaderCodeContributor struct {
	Header string
	Store  Store
}

func (c HeaderCodeContributor) ResolveTenantID(ctx context.Context) (*int64, error) {
	r, ok := RequestFromContext(ctx)
	if !ok {
		return nil, nil
	}
	return idByTenancyName(ctx, c.Store, strings.TrimSpace(r.Header.Get(c.Header)))
}

// CookieContributor reads a numeric tenant id from a cookie.
type CookieContributor struct {
	Cookie string
}

func (c CookieContributor) ResolveTenantID(ctx context.Context) (*int64, error) {
	r, ok := RequestFromContext(ctx)
	if !ok {
		return nil, nil
	}
	cookie, err := r.Cookie(c.Cookie)
	if err != nil {
		return nil, nil
	}
	return parseID(cookie.Value), nil
}

// SubdomainContributor maps the host subdomain (e.g. "acme" from
// "acme.app.com") to a tenant id. The "www" label is skipped.
type SubdomainContributor struct {
	// Suffix is stripped from the host first (e.g. ".saas.com").
	Suffix string
	Store  Store
}

func (c SubdomainContributor) ResolveTenantID(ctx context.Context) (*int64, error) {
	r, ok := RequestFromContext(ctx)
	if !ok {
		return nil, nil
	}
	return idByTenancyName(ctx, c.Store, subdomain(r.Host, c.Suffix))
}

func subdomain(host, suffix string) string {
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		host = host[:idx]
	}

	// subdomain.domain.tld at least
	if strings.Count(host, ".") < 2 {
		return ""
	}
	if suffix != "" && strings.HasSuffix(host, suffix) && len(host) > len(suffix) {
		host = strings.TrimSuffix(host, suffix)
	}

	labels := strings.Split(host, ".")
	if labels[0] == "www" {
		labels = labels[1:]
	}
	if len(labels) == 0 {
		return ""
	}
	return labels[0]
}

// PathContributor maps a URL path segment to a tenant id.
type PathContributor struct {
	// Position is 1-based (e.g. 2 for /t/{tenancy}/...).
	Position int
	Store    Store
}

func (c PathContributor) ResolveTenantID(ctx context.Context) (*int64, error) {
	r, ok := RequestFromContext(ctx)
	if !ok || c.Position < 1 {
		return nil, nil
	}

	path := strings.Trim(r.URL.Path, "/")
	if path == "" {
		return nil, nil
	}
	parts := strings.Split(path, "/")
	if c.Position > len(parts) {
		return nil, nil
	}
	return idByTenancyName(ctx, c.Store, parts[c.Position-1])
}

// BranchHeaderContributor reads a numeric branch id from a request header.
type BranchHeaderContributor struct {
	Header string
	Logger *slog.Logger
}

func (c BranchHeaderContributor) ResolveBranchID(ctx context.Context) (*int64, error) {
	return headerID(ctx, c.Header, c.Logger)
}

// RegisterHTTPContributors registers the request based contributors under
// their Contributor* names.
func RegisterHTTPContributors(reg *Registry, store Store, cfg Config, log *slog.Logger) {
	if log == nil {
		log = logger.Discard()
	}
	if store == nil {
		store = NullStore{}
	}

	reg.RegisterTenant(ContributorHeaderID, func() Contributor {
		return HeaderIDContributor{Header: cfg.TenantIDResolveKey, Logger: log}
	})
	reg.RegisterTenant(ContributorHeaderCode, func() Contributor {
		return HeaderCodeContributor{Header: cfg.TenantCodeResolveKey, Store: store}
	})
	reg.RegisterTenant(ContributorCookie, func() Contributor {
		return CookieContributor{Cookie: cfg.TenantIDResolveKey}
	})
	reg.RegisterTenant(ContributorSubdomain, func() Contributor {
		return SubdomainContributor{Suffix: cfg.SubdomainSuffix, Store: store}
	})
	reg.RegisterTenant(ContributorPath, func() Contributor {
		return PathContributor{Position: cfg.PathPosition, Store: store}
	})
	reg.RegisterBranch(ContributorBranchHeader, func() BranchContributor {
		return BranchHeaderContributor{Header: cfg.BranchIDResolveKey, Logger: log}
	})
}

func headerID(ctx context.Context, header string, log *slog.Logger) (*int64, error) {
	r, ok := RequestFromContext(ctx)
	if !ok {
		return nil, nil
	}
	values := r.Header.Values(header)
	if len(values) == 0 {
		return nil, nil
	}
	if len(values) > 1 && log != nil {
		log.WarnContext(ctx, "multiple header values, using the first one",
			slog.String("header", header),
			slog.Int("count", len(values)),
		)
	}
	return parseID(values[0]), nil
}

func idByTenancyName(ctx context.Context, store Store, name string) (*int64, error) {
	if name == "" || store == nil {
		return nil, nil
	}
	info, err := store.FindByTenancyName(ctx, name)
	if errors.Is(err, ErrTenantNotFound) || (err == nil && info == nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &info.ID, nil
}

func parseID(s string) *int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return nil
	}
	return &id
}
