// Package ambient provides named values scoped to a logical call context.
//
// An ambient scope is a value attached to a derived context.Context under a
// name. Code running inside the scope (everything that receives the derived
// context) observes the value; the caller's context is never modified, so
// the scope ends on every exit path without explicit cleanup, including
// panics. Concurrent requests carry their own contexts and never observe
// each other's scopes.
//
// The main use is re-entrancy protection: a component marks a scope before
// calling out to plug-ins and returns early when it finds the mark already
// set.
//
// # Usage
//
//	const resolving = "myapp.resolver.resolving"
//
//	func (r *Resolver) Resolve(ctx context.Context) (*int64, error) {
//		if ambient.Flag(ctx, resolving) {
//			return nil, nil // called from inside a plug-in
//		}
//		ctx = ambient.BeginScope(ctx, resolving, true)
//		return r.callPlugins(ctx)
//	}
package ambient
