// Package rbac checks permissions granted to users directly and through roles.
//
// A user's effective permissions at a branch are decided in this order:
//
//   - a user-level prohibition denies;
//   - a user-level grant allows;
//   - otherwise the permission is allowed when any role of the user grants it
//     and that role does not prohibit it.
//
// Manager builds per (user, branch) and per role snapshots from a
// PermissionStore and keeps them in the named caches UserPermissionCacheName
// and RolePermissionCacheName. Mutations through Manager, and the
// UserRolesChanged, UserPermissionsChanged and RolePermissionsChanged events,
// invalidate the affected snapshots.
//
// Basic usage:
//
//	caches := cache.NewManager(cache.NewRedisFactory(client))
//	manager := rbac.NewManager(store, caches, rbac.WithEventBus(bus))
//	checker := rbac.NewPermissionChecker(manager, manager)
//
//	ctx = rbac.WithUserID(ctx, 42)
//	ok, err := checker.IsGranted(ctx, "Pages.Users.Create")
//
// NullChecker grants everything and is useful for tests and tools that run
// without authorization.
package rbac
