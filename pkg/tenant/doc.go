// Package tenant decides which tenant and branch a request belongs to.
//
// Resolution runs an ordered chain of contributors. The first contributor
// that returns an id wins; tenant ids must exist in the Store, branch ids
// are taken as is. Contributors that fail or panic are logged and skipped.
//
// # Architecture
//
//  1. Contributors - small adapters reading an id from the request or any
//     other ambient source (header, cookie, subdomain, path).
//  2. Registry - named contributor factories, ordered by Config.
//  3. TenantResolver / BranchResolver - run the chain with a recursion guard
//     and a per-request memoization scope.
//  4. Middleware - installs the request and the resolution scope into the
//     context and publishes the resolved ids.
//
// # Usage
//
//	import "github.com/dmitrymomot/tenantkit/pkg/tenant"
//
//	cfg := tenant.DefaultConfig()
//	reg := tenant.NewRegistry()
//	tenant.RegisterHTTPContributors(reg, store, cfg, log)
//
//	tenants, branches, err := tenant.NewResolvers(reg, store, cfg,
//		tenant.WithResolverLogger(log),
//	)
//	if err != nil {
//		return err
//	}
//
//	router.Use(tenant.Middleware(tenants, branches,
//		tenant.WithSkipPaths([]string{"/health"}),
//	))
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//		id, ok := tenant.TenantIDFromContext(r.Context())
//		if !ok {
//			// host request
//		}
//		// ...
//	}
//
// # Recursion
//
// A contributor or a Store may itself ask for the current tenant, for example
// through a data filter. While a resolution is in progress such nested calls
// return nil instead of recursing.
//
// # Memoization
//
// WithResolutionScope installs a cache for the lifetime of a context. Within
// it repeated resolutions return the first result, including a nil one,
// without running contributors again. Without a scope every call resolves.
//
// # Logging
//
// Use LoggerExtractors with logger.WithContextExtractors to add the resolved
// tenant_id and branch_id to every log record.
package tenant
