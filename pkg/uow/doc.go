// Package uow carries the unit-of-work scope in a context.
//
// A scope holds the tenant the current work runs as and the state of the
// tenant data filters. Scopes are immutable: SetTenantID, EnableFilter and
// DisableFilter return a derived context, so a switch ends when the derived
// context goes out of use.
//
//	ctx = uow.Begin(ctx)
//	hostCtx := uow.SetTenantID(ctx, nil)
//	all := repo.List(uow.DisableFilter(hostCtx, uow.MayHaveTenant))
package uow
