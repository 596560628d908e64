// Package cache provides named key/value caches with pluggable backends.
//
// A Cache is identified by its name and stores raw bytes under string keys.
// Two backends are provided:
//
//   - memory: a bounded LRU per cache name honouring sliding and absolute
//     expiration, suitable for a single process and for tests;
//   - redis: go-redis backed storage shared between processes. Keys are laid
//     out as "n:<cache name>,c:<key>" so Clear can drop one named cache
//     without touching the rest of the database.
//
// Inserting a nil value fails with ErrNullValue. Bulk writes (SetMany) do not
// support per-call expiration: when one is requested the backend logs a
// warning and stores the values with the cache default instead.
//
// # Named caches
//
// A Manager hands out caches by name and remembers per-name options:
//
//	manager := cache.NewManager(cache.NewRedisFactory(client))
//	manager.Configure("tenantkit.user_permissions", cache.Options{
//		DefaultSlidingExpiration: 20 * time.Minute,
//	})
//	perms := manager.GetCache("tenantkit.user_permissions")
//
// # Typed access
//
// Typed wraps a Cache with JSON serialization. GetOrAdd loads missing
// values with the supplied loader; concurrent misses for the same key share
// one loader call:
//
//	snapshots := cache.NewTyped[Snapshot](perms)
//	s, err := snapshots.GetOrAdd(ctx, "42@7", func(ctx context.Context) (Snapshot, error) {
//		return buildSnapshot(ctx, 42, 7)
//	})
//
// Every operation accepts a context.Context; remote backends honour its
// cancellation and deadline.
package cache
