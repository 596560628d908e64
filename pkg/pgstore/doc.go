// Package pgstore implements the tenantkit stores on PostgreSQL.
//
// Store satisfies the tenant repository, the feature setting and edition
// stores, and rbac.PermissionStore. Apply Migrations with pg.Migrate before
// use.
//
//	if err := pg.Migrate(ctx, pool, pgstore.Migrations, cfg, log); err != nil {
//		return err
//	}
//	store := pgstore.New(pool)
//	tenants := tenant.NewManager[*tenant.Tenant](store, features, store, store, caches)
//	permissions := rbac.NewManager(store, caches)
package pgstore
