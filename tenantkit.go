package tenantkit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/tenantkit/pkg/cache"
	"github.com/dmitrymomot/tenantkit/pkg/config"
	"github.com/dmitrymomot/tenantkit/pkg/eventbus"
	"github.com/dmitrymomot/tenantkit/pkg/feature"
	"github.com/dmitrymomot/tenantkit/pkg/httpserver"
	"github.com/dmitrymomot/tenantkit/pkg/logger"
	"github.com/dmitrymomot/tenantkit/pkg/pg"
	"github.com/dmitrymomot/tenantkit/pkg/pgstore"
	"github.com/dmitrymomot/tenantkit/pkg/rbac"
	"github.com/dmitrymomot/tenantkit/pkg/redis"
	mt "github.com/dmitrymomot/tenantkit/pkg/tenant"
	"github.com/dmitrymomot/tenantkit/svc/tenant"
)

const defaultMigrationsTable = "tenantkit_migrations"

// App holds the wired components.
type App struct {
	Config Config
	Logger *slog.Logger
	Bus    *eventbus.Bus
	Caches *cache.Manager

	Features    *feature.Manager
	Tenants     *tenant.Manager[*tenant.Tenant]
	Permissions *rbac.Manager
	Checker     *rbac.PermissionChecker

	Registry       *mt.Registry
	TenantResolver *mt.TenantResolver
	BranchResolver *mt.BranchResolver

	// Postgres is the pool of the postgres storage, nil otherwise.
	Postgres *pgxpool.Pool

	probes  map[string]httpserver.Probe
	closers []func()
}

// Option configures New.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	features []feature.Definition
	redis    goredis.UniversalClient
	pool     *pgxpool.Pool
}

// WithLogger sets the logger instead of building one from Config.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) { o.logger = log }
}

// WithFeatures adds feature definitions in front of the FeaturesFile ones.
func WithFeatures(defs ...feature.Definition) Option {
	return func(o *options) { o.features = append(o.features, defs...) }
}

// WithRedisClient uses client for the Redis cache backend instead of connecting.
func WithRedisClient(client goredis.UniversalClient) Option {
	return func(o *options) { o.redis = client }
}

// WithPostgresPool uses pool for the postgres storage instead of connecting.
func WithPostgresPool(pool *pgxpool.Pool) Option {
	return func(o *options) { o.pool = pool }
}

// New builds an App from cfg. Close releases the connections it opened.
func New(ctx context.Context, cfg Config, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	app := &App{Config: cfg, Logger: o.logger, probes: make(map[string]httpserver.Probe)}
	if app.Logger == nil {
		app.Logger = logger.New(
			logger.WithEnvironment(cfg.Environment, cfg.ServiceName),
			logger.WithContextExtractors(mt.LoggerExtractors()...),
		)
	}
	if err := app.build(ctx, o); err != nil {
		app.Close()
		return nil, errors.Join(ErrBootstrap, err)
	}
	return app, nil
}

func (a *App) build(ctx context.Context, o options) error {
	cfg := a.Config
	a.Bus = eventbus.New(eventbus.WithLogger(a.Logger))

	if err := a.buildCaches(ctx, o.redis); err != nil {
		return err
	}

	defs := o.features
	if cfg.FeaturesFile != "" {
		loaded, err := feature.LoadDefinitionsFile(os.DirFS(filepath.Dir(cfg.FeaturesFile)), filepath.Base(cfg.FeaturesFile))
		if err != nil {
			return err
		}
		defs = append(defs, loaded...)
	}
	features, err := feature.NewManager(defs...)
	if err != nil {
		return err
	}
	a.Features = features

	var (
		repo        tenant.Repository[*tenant.Tenant]
		settings    feature.SettingStore
		editions    feature.EditionStore
		permissions rbac.PermissionStore
	)
	switch cfg.Storage {
	case "", StorageMemory:
		mem := feature.NewMemoryStore()
		repo, settings, editions, permissions = tenant.NewMemoryRepository[*tenant.Tenant](), mem, mem, rbac.NewMemoryStore()
	case StoragePostgres:
		store, err := a.connectPostgres(ctx, o.pool)
		if err != nil {
			return err
		}
		repo, settings, editions, permissions = store, store, store, store
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorage, cfg.Storage)
	}

	resolverStore := mt.NewCachingStore(tenant.StoreFor(repo), a.Caches.GetCache(mt.StoreCacheName))

	a.Tenants = tenant.NewManager(repo, features, settings, editions, a.Caches,
		tenant.WithEventBus(a.Bus),
		tenant.WithResolverCache(resolverStore),
		tenant.WithLogger(a.Logger),
	)
	a.closers = append(a.closers, a.Tenants.Subscribe(a.Bus))

	a.Permissions = rbac.NewManager(permissions, a.Caches,
		rbac.WithEventBus(a.Bus),
		rbac.WithManagerLogger(a.Logger),
	)
	a.Checker = rbac.NewPermissionChecker(a.Permissions, a.Permissions,
		rbac.WithSession(rbac.ContextSession{}),
		rbac.WithCheckerLogger(a.Logger),
	)

	a.Registry = mt.NewRegistry()
	mt.RegisterHTTPContributors(a.Registry, resolverStore, cfg.Tenant, a.Logger)
	a.TenantResolver, a.BranchResolver, err = mt.NewResolvers(a.Registry, resolverStore, cfg.Tenant, mt.WithResolverLogger(a.Logger))
	return err
}

func (a *App) buildCaches(ctx context.Context, client goredis.UniversalClient) error {
	cfg := a.Config
	if cfg.Cache.Backend == cache.BackendRedis {
		if client == nil {
			c, err := redis.Connect(ctx, cfg.Redis, a.Logger)
			if err != nil {
				return err
			}
			a.closers = append(a.closers, func() { _ = c.Close() })
			client = c
		}
		a.probes["redis"] = httpserver.Probe(redis.Healthcheck(client))
	}

	factory, err := cache.FactoryFromConfig(cfg.Cache, client)
	if err != nil {
		return err
	}
	a.Caches = cache.NewManager(factory,
		cache.WithDefaults(cfg.Cache.Options()),
		cache.WithLogger(a.Logger),
	)
	return nil
}

func (a *App) connectPostgres(ctx context.Context, pool *pgxpool.Pool) (*pgstore.Store, error) {
	cfg := pg.Config{MigrationsTable: defaultMigrationsTable}
	if pool == nil {
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		p, err := pg.Connect(ctx, cfg, a.Logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, p.Close)
		pool = p
	}
	if a.Config.AutoMigrate {
		if err := pg.Migrate(ctx, pool, pgstore.Migrations, cfg, a.Logger); err != nil {
			return nil, err
		}
	}
	a.Postgres = pool
	a.probes["postgres"] = httpserver.Probe(pg.Healthcheck(pool))
	return pgstore.New(pool), nil
}

// Middleware resolves the tenant and branch of every request.
func (a *App) Middleware(opts ...mt.Option) func(http.Handler) http.Handler {
	return mt.Middleware(a.TenantResolver, a.BranchResolver, append([]mt.Option{mt.WithLogger(a.Logger)}, opts...)...)
}

// Probes returns the readiness probes of the external dependencies.
func (a *App) Probes() map[string]httpserver.Probe {
	return a.probes
}

// Close unsubscribes handlers and closes connections opened by New.
// It is safe to call more than once.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
