package ambient

import "context"

// scopeKey is keyed by scope name so unrelated scopes never collide.
type scopeKey struct {
	name string
}

// BeginScope returns a context carrying value under name.
// An inner scope with the same name shadows the outer one until the derived
// context goes out of use.
func BeginScope[T any](ctx context.Context, name string, value T) context.Context {
	return context.WithValue(ctx, scopeKey{name: name}, value)
}

// Value returns the innermost value stored under name.
// Returns the zero value and false if no scope with that name is active or
// the stored value is not a T.
func Value[T any](ctx context.Context, name string) (T, bool) {
	var zero T
	if ctx == nil {
		return zero, false
	}
	v, ok := ctx.Value(scopeKey{name: name}).(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// Flag reports whether a boolean scope with the given name is active and set.
func Flag(ctx context.Context, name string) bool {
	v, _ := Value[bool](ctx, name)
	return v
}
