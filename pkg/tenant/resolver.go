package tenant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dmitrymomot/tenantkit/pkg/ambient"
	"github.com/dmitrymomot/tenantkit/pkg/logger"
)

// Ambient scope names marking a resolution in progress.
const (
	tenantResolvingScope = "tenantkit.tenant.resolving"
	branchResolvingScope = "tenantkit.branch.resolving"
)

// TenantResolver resolves the current tenant id through ordered contributors.
type TenantResolver struct {
	store        Store
	contributors []Named[Contributor]
	logger       *slog.Logger
}

// NewTenantResolver creates a resolver running contributors in order and
// validating every candidate against store. A nil store means NullStore.
func NewTenantResolver(store Store, contributors []Named[Contributor], opts ...ResolverOption) *TenantResolver {
	if store == nil {
		store = NullStore{}
	}
	cfg := applyResolverOptions(opts)
	return &TenantResolver{store: store, contributors: contributors, logger: cfg.logger}
}

// ResolveTenantID returns the current tenant id, or nil for the host.
// Only Store faults other than ErrTenantNotFound are returned as errors.
func (r *TenantResolver) ResolveTenantID(ctx context.Context) (*int64, error) {
	if len(r.contributors) == 0 {
		return nil, nil
	}
	if ambient.Flag(ctx, tenantResolvingScope) {
		return nil, nil
	}
	ctx = ambient.BeginScope(ctx, tenantResolvingScope, true)

	scope := ScopeCacheFromContext(ctx)
	if scope != nil {
		if item, ok := scope.Tenant(); ok {
			return item.TenantID, nil
		}
	}

	id, err := runChain(ctx, r.logger, r.contributors,
		func(ctx context.Context, c Contributor) (*int64, error) { return c.ResolveTenantID(ctx) },
		r.validate,
	)
	if err != nil {
		return nil, err
	}

	if scope != nil {
		return scope.SetTenant(id).TenantID, nil
	}
	return id, nil
}

func (r *TenantResolver) validate(ctx context.Context, id int64) (bool, error) {
	info, err := r.store.Find(ctx, id)
	switch {
	case errors.Is(err, ErrTenantNotFound):
		return false, nil
	case err != nil:
		return false, err
	default:
		return info != nil, nil
	}
}

// BranchResolver resolves the current branch id through ordered contributors.
// Candidates are not validated.
type BranchResolver struct {
	contributors []Named[BranchContributor]
	logger       *slog.Logger
}

// NewBranchResolver creates a resolver running contributors in order.
func NewBranchResolver(contributors []Named[BranchContributor], opts ...ResolverOption) *BranchResolver {
	cfg := applyResolverOptions(opts)
	return &BranchResolver{contributors: contributors, logger: cfg.logger}
}

// ResolveBranchID returns the current branch id, or nil.
func (r *BranchResolver) ResolveBranchID(ctx context.Context) (*int64, error) {
	if len(r.contributors) == 0 {
		return nil, nil
	}
	if ambient.Flag(ctx, branchResolvingScope) {
		return nil, nil
	}
	ctx = ambient.BeginScope(ctx, branchResolvingScope, true)

	scope := ScopeCacheFromContext(ctx)
	if scope != nil {
		if item, ok := scope.Branch(); ok {
			return item.BranchID, nil
		}
	}

	id, err := runChain(ctx, r.logger, r.contributors,
		func(ctx context.Context, c BranchContributor) (*int64, error) { return c.ResolveBranchID(ctx) },
		nil,
	)
	if err != nil {
		return nil, err
	}

	if scope != nil {
		return scope.SetBranch(id).BranchID, nil
	}
	return id, nil
}

// NewResolvers builds both resolvers from the contributor order in cfg.
func NewResolvers(reg *Registry, store Store, cfg Config, opts ...ResolverOption) (*TenantResolver, *BranchResolver, error) {
	tenants, err := reg.TenantContributors(cfg.TenantResolvers)
	if err != nil {
		return nil, nil, err
	}
	branches, err := reg.BranchContributors(cfg.BranchResolvers)
	if err != nil {
		return nil, nil, err
	}
	return NewTenantResolver(store, tenants, opts...), NewBranchResolver(branches, opts...), nil
}

func applyResolverOptions(opts []ResolverOption) resolverConfig {
	cfg := resolverConfig{logger: logger.Discard()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// runChain asks each contributor in order and returns the first accepted
// candidate. Contributor errors and panics are logged and skipped; only
// errors from accept stop the chain.
func runChain[C any](
	ctx context.Context,
	log *slog.Logger,
	contributors []Named[C],
	call func(context.Context, C) (*int64, error),
	accept func(context.Context, int64) (bool, error),
) (*int64, error) {
	for _, nc := range contributors {
		id, err := invoke(ctx, log, nc, call)
		if err != nil {
			log.WarnContext(ctx, "resolve contributor failed",
				logger.Contributor(nc.Name),
				logger.Error(err),
			)
			continue
		}
		if id == nil {
			continue
		}
		if accept != nil {
			ok, err := accept(ctx, *id)
			if err != nil {
				return nil, err
			}
			if !ok {
				log.DebugContext(ctx, "resolved tenant does not exist",
					logger.Contributor(nc.Name),
					logger.TenantID(id),
				)
				continue
			}
		}
		return id, nil
	}
	return nil, nil
}

func invoke[C any](ctx context.Context, log *slog.Logger, nc Named[C], call func(context.Context, C) (*int64, error)) (id *int64, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			id, err = nil, fmt.Errorf("%w: %v", ErrContributorPanic, rec)
		}
	}()

	c := nc.New()
	if closer, ok := any(c).(io.Closer); ok {
		defer func() {
			if cerr := closer.Close(); cerr != nil {
				log.WarnContext(ctx, "close resolve contributor", logger.Contributor(nc.Name), logger.Error(cerr))
			}
		}()
	}
	return call(ctx, c)
}
