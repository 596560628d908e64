package tenant

import "context"

// Contributor proposes a tenant id for the current context.
// A nil id means "no opinion"; the next contributor is asked.
type Contributor interface {
	ResolveTenantID(ctx context.Context) (*int64, error)
}

// BranchContributor proposes a branch id for the current context.
type BranchContributor interface {
	ResolveBranchID(ctx context.Context) (*int64, error)
}

// ContributorFunc is an adapter to allow the use of ordinary functions as Contributors.
type ContributorFunc func(ctx context.Context) (*int64, error)

// ResolveTenantID calls f(ctx).
func (f ContributorFunc) ResolveTenantID(ctx context.Context) (*int64, error) {
	return f(ctx)
}

// BranchContributorFunc is an adapter to allow the use of ordinary functions as BranchContributors.
type BranchContributorFunc func(ctx context.Context) (*int64, error)

// ResolveBranchID calls f(ctx).
func (f BranchContributorFunc) ResolveBranchID(ctx context.Context) (*int64, error) {
	return f(ctx)
}

// Named pairs a contributor factory with the name it was registered under.
// New is called once per resolution; a result implementing io.Closer is
// closed right after use.
type Named[C any] struct {
	Name string
	New  func() C
}
