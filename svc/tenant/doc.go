// Package tenant manages tenant records and their feature overrides.
//
// Manager is generic over the host application's tenant type, which only
// has to implement Record. Persistence is delegated to a Repository and to a
// feature.SettingStore; Manager owns the invariants: tenancy names are valid
// and unique, and a tenant feature override exists only when its value
// differs from the effective default.
//
//	repo := tenant.NewMemoryRepository[*tenant.Tenant]()
//	manager := tenant.NewManager(repo, features, settings, editions, caches,
//		tenant.WithEventBus(bus),
//	)
//	defer manager.Subscribe(bus)()
//
//	t, err := manager.Create(ctx, &tenant.Tenant{TenancyName: "acme", Name: "Acme Inc."})
//	err = manager.SetFeatureValue(ctx, t.ID, "App.MaxUserCount", "50")
//
// Manager.Store adapts the repository to the resolver's tenant.Store.
package tenant
