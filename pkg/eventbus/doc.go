// Package eventbus delivers domain events to in-process handlers.
//
// Publish runs every handler subscribed to the event type synchronously, in
// subscription order, before it returns. Handler errors and recovered panics
// are joined and returned; a failing handler does not stop the others.
//
//	bus := eventbus.New(eventbus.WithLogger(log))
//
//	unsubscribe := eventbus.Subscribe(bus, func(ctx context.Context, e rbac.UserRolesChanged) error {
//		return cache.Remove(ctx, key(e.UserID))
//	})
//	defer unsubscribe()
//
//	err := eventbus.Publish(ctx, bus, rbac.UserRolesChanged{UserID: 7})
//
// Entity lifecycle events are expressed with EntityChanged and EntityDeleted.
package eventbus
