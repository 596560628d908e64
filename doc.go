// Package tenantkit wires the multi-tenancy building blocks into one App.
//
// An App resolves the tenant and branch of every request, checks user
// permissions against role and user grants, and manages tenants with their
// feature overrides. Storage is in memory or PostgreSQL, caching is in memory
// or Redis, and everything is configured from the environment.
//
//	var cfg tenantkit.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//	app, err := tenantkit.New(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer app.Close()
//
//	r := chi.NewRouter()
//	r.Use(app.Middleware())
//
// Subpackages can be used on their own; see pkg/tenant, pkg/rbac and
// svc/tenant.
package tenantkit
