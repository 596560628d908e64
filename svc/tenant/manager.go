package tenant

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/tenantkit/pkg/cache"
	"github.com/dmitrymomot/tenantkit/pkg/eventbus"
	"github.com/dmitrymomot/tenantkit/pkg/feature"
	"github.com/dmitrymomot/tenantkit/pkg/logger"
	mt "github.com/dmitrymomot/tenantkit/pkg/tenant"
	"github.com/dmitrymomot/tenantkit/pkg/uow"
)

// Manager manages tenants of type T and their feature overrides.
type Manager[T Record] struct {
	repo     Repository[T]
	features *feature.Manager
	settings feature.SettingStore
	values   *feature.ValueStore
	resolver *mt.CachingStore
	bus      *eventbus.Bus
	logger   *slog.Logger
}

// Option configures a Manager.
type Option func(*options)

type options struct {
	bus      *eventbus.Bus
	resolver *mt.CachingStore
	logger   *slog.Logger
}

// WithEventBus publishes entity events for every stored change.
func WithEventBus(bus *eventbus.Bus) Option {
	return func(o *options) { o.bus = bus }
}

// WithResolverCache invalidates the resolver's cached tenant info on changes.
func WithResolverCache(store *mt.CachingStore) Option {
	return func(o *options) { o.resolver = store }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.logger = log
		}
	}
}

// NewManager creates a Manager. A nil caches means in-memory caches.
func NewManager[T Record](repo Repository[T], features *feature.Manager, settings feature.SettingStore, editions feature.EditionStore, caches *cache.Manager, opts ...Option) *Manager[T] {
	o := options{logger: logger.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	m := &Manager[T]{
		repo:     repo,
		features: features,
		settings: settings,
		resolver: o.resolver,
		bus:      o.bus,
		logger:   o.logger,
	}
	m.values = feature.NewValueStore(features, settings, editions, m, caches, feature.WithLogger(o.logger))
	return m
}

// Values returns the feature value store backed by this manager.
func (m *Manager[T]) Values() *feature.ValueStore { return m.values }

// Create validates and stores a new tenant.
func (m *Manager[T]) Create(ctx context.Context, t T) (T, error) {
	if err := m.validate(ctx, t); err != nil {
		return t, err
	}
	if err := m.repo.Insert(ctx, t); err != nil {
		return t, fmt.Errorf("insert tenant: %w", err)
	}
	m.logger.InfoContext(ctx, "tenant created",
		slog.Int64("tenant_id", t.GetID()),
		slog.String("tenancy_name", t.GetTenancyName()),
	)
	return t, eventbus.Publish(ctx, m.bus, eventbus.EntityChanged[T]{Entity: t})
}

// Update validates and stores an existing tenant. A renamed tenant is
// also forgotten by its previous tenancy name.
func (m *Manager[T]) Update(ctx context.Context, t T) error {
	if err := m.validate(ctx, t); err != nil {
		return err
	}
	prev, ok, err := m.repo.FindByID(ctx, t.GetID())
	if err != nil {
		return fmt.Errorf("find tenant: %w", err)
	}
	var previousName string
	if ok {
		previousName = prev.GetTenancyName()
	}
	return m.save(ctx, t, previousName)
}

// FindByID returns the tenant, or false when it does not exist.
func (m *Manager[T]) FindByID(ctx context.Context, id int64) (T, bool, error) {
	return m.repo.FindByID(ctx, id)
}

// GetByID returns the tenant or an error wrapping tenant.ErrTenantNotFound.
func (m *Manager[T]) GetByID(ctx context.Context, id int64) (T, error) {
	t, ok, err := m.repo.FindByID(ctx, id)
	if err != nil {
		return t, err
	}
	if !ok {
		return t, fmt.Errorf("%w: %d", mt.ErrTenantNotFound, id)
	}
	return t, nil
}

// FindByTenancyName returns the tenant, or false when it does not exist.
func (m *Manager[T]) FindByTenancyName(ctx context.Context, tenancyName string) (T, bool, error) {
	return m.repo.FindByTenancyName(ctx, tenancyName)
}

// Delete removes a tenant. Deleting a missing tenant is a no-op.
func (m *Manager[T]) Delete(ctx context.Context, id int64) error {
	t, ok, err := m.repo.FindByID(ctx, id)
	if err != nil || !ok {
		return err
	}
	if err := m.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete tenant: %w", err)
	}
	m.logger.InfoContext(ctx, "tenant deleted", slog.Int64("tenant_id", id))
	if err := m.forget(ctx, t); err != nil {
		return err
	}
	return eventbus.Publish(ctx, m.bus, eventbus.EntityDeleted[T]{Entity: t})
}

// TenantEditionID returns the edition of a tenant, or nil.
func (m *Manager[T]) TenantEditionID(ctx context.Context, tenantID int64) (*int64, error) {
	t, err := m.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return t.GetEditionID(), nil
}

// FeatureValueOrNil returns the tenant override or the edition value, or nil.
func (m *Manager[T]) FeatureValueOrNil(ctx context.Context, tenantID int64, name string) (*string, error) {
	return m.values.ValueOrNil(ctx, tenantID, name)
}

// FeatureValues returns the resolved value of every defined feature.
func (m *Manager[T]) FeatureValues(ctx context.Context, tenantID int64) ([]feature.NameValue, error) {
	defs := m.features.All()
	out := make([]feature.NameValue, 0, len(defs))
	for _, def := range defs {
		v, err := m.values.ValueOrNil(ctx, tenantID, def.Name)
		if err != nil {
			return nil, err
		}
		value := def.DefaultValue
		if v != nil {
			value = *v
		}
		out = append(out, feature.NameValue{Name: def.Name, Value: value})
	}
	return out, nil
}

// SetFeatureValues sets several feature values in order.
func (m *Manager[T]) SetFeatureValues(ctx context.Context, tenantID int64, values ...feature.NameValue) error {
	for _, v := range values {
		if err := m.SetFeatureValue(ctx, tenantID, v.Name, v.Value); err != nil {
			return err
		}
	}
	return nil
}

// SetFeatureValue stores a tenant override of a feature. An override equal to
// the effective default is removed instead, and an override of an undefined
// feature is always removed.
func (m *Manager[T]) SetFeatureValue(ctx context.Context, tenantID int64, name, value string) error {
	t, err := m.GetByID(ctx, tenantID)
	if err != nil {
		return err
	}

	current, err := m.values.ValueOrNil(ctx, tenantID, name)
	if err != nil {
		return err
	}
	if current != nil && *current == value {
		return nil
	}

	ctx = uow.SetTenantID(uow.EnableFilter(uow.Begin(ctx), uow.MayHaveTenant), &tenantID)

	setting, err := m.settings.FindTenantSetting(ctx, tenantID, name)
	if err != nil {
		return fmt.Errorf("find feature setting: %w", err)
	}

	def, ok := m.features.Get(name)
	if !ok {
		return m.removeSetting(ctx, tenantID, setting)
	}

	defaultValue := def.DefaultValue
	if editionID := t.GetEditionID(); editionID != nil {
		ev, err := m.values.EditionValueOrNil(ctx, *editionID, name)
		if err != nil {
			return err
		}
		if ev != nil {
			defaultValue = *ev
		}
	}
	if value == defaultValue {
		return m.removeSetting(ctx, tenantID, setting)
	}

	switch {
	case setting == nil:
		err = m.settings.InsertTenantSetting(ctx, feature.TenantFeatureSetting{TenantID: tenantID, Name: name, Value: value})
	case setting.Value != value:
		setting.Value = value
		err = m.settings.UpdateTenantSetting(ctx, *setting)
	}
	if err != nil {
		return fmt.Errorf("save feature setting: %w", err)
	}
	m.logger.DebugContext(ctx, "tenant feature set", logger.TenantID(&tenantID), slog.String("feature", name))
	return m.values.Invalidate(ctx, tenantID)
}

// ResetAllFeatures removes every feature override of a tenant.
func (m *Manager[T]) ResetAllFeatures(ctx context.Context, tenantID int64) error {
	ctx = uow.SetTenantID(uow.EnableFilter(uow.Begin(ctx), uow.MayHaveTenant), &tenantID)
	if err := m.settings.DeleteTenantSettings(ctx, tenantID); err != nil {
		return fmt.Errorf("delete feature settings: %w", err)
	}
	return m.values.Invalidate(ctx, tenantID)
}

// HandleTenantChanged drops cached state of the changed tenant.
// Records that have not been stored yet are ignored.
func (m *Manager[T]) HandleTenantChanged(ctx context.Context, e eventbus.EntityChanged[T]) error {
	if e.Entity.GetID() == 0 {
		return nil
	}
	return m.forget(ctx, e.Entity)
}

// HandleTenantDeleted drops cached state of the deleted tenant.
func (m *Manager[T]) HandleTenantDeleted(ctx context.Context, e eventbus.EntityDeleted[T]) error {
	if e.Entity.GetID() == 0 {
		return nil
	}
	return m.forget(ctx, e.Entity)
}

// HandleEditionDeleted detaches every tenant from the deleted edition.
func (m *Manager[T]) HandleEditionDeleted(ctx context.Context, e eventbus.EntityDeleted[feature.Edition]) error {
	tenants, err := m.repo.ListByEditionID(ctx, e.Entity.ID)
	if err != nil {
		return fmt.Errorf("list edition tenants: %w", err)
	}
	for _, t := range tenants {
		t.SetEditionID(nil)
		if err := m.save(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

// Subscribe registers the manager's handlers on bus and returns a function
// removing them.
func (m *Manager[T]) Subscribe(bus *eventbus.Bus) func() {
	unsubs := []func(){
		eventbus.Subscribe(bus, m.HandleTenantChanged),
		eventbus.Subscribe(bus, m.HandleTenantDeleted),
		eventbus.Subscribe(bus, m.HandleEditionDeleted),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// Store adapts the manager's repository to the resolver's tenant.Store.
func (m *Manager[T]) Store() mt.Store { return StoreFor(m.repo) }

// StoreFor adapts repo to the resolver's tenant.Store.
func StoreFor[T Record](repo Repository[T]) mt.Store { return store[T]{repo} }

func (m *Manager[T]) validate(ctx context.Context, t T) error {
	if err := ValidateTenancyName(t.GetTenancyName()); err != nil {
		return err
	}
	other, ok, err := m.repo.FindByTenancyName(ctx, t.GetTenancyName())
	if err != nil {
		return fmt.Errorf("find tenant: %w", err)
	}
	if ok && other.GetID() != t.GetID() {
		return fmt.Errorf("%w: %q", ErrTenancyNameTaken, t.GetTenancyName())
	}
	return nil
}

func (m *Manager[T]) save(ctx context.Context, t T, previousNames ...string) error {
	if err := m.repo.Update(ctx, t); err != nil {
		return fmt.Errorf("update tenant: %w", err)
	}
	if err := m.forget(ctx, t, previousNames...); err != nil {
		return err
	}
	return eventbus.Publish(ctx, m.bus, eventbus.EntityChanged[T]{Entity: t})
}

func (m *Manager[T]) removeSetting(ctx context.Context, tenantID int64, setting *feature.TenantFeatureSetting) error {
	if setting == nil {
		return nil
	}
	if err := m.settings.DeleteTenantSetting(ctx, setting.ID); err != nil {
		return fmt.Errorf("delete feature setting: %w", err)
	}
	return m.values.Invalidate(ctx, tenantID)
}

func (m *Manager[T]) forget(ctx context.Context, t T, previousNames ...string) error {
	if err := m.values.Invalidate(ctx, t.GetID()); err != nil {
		return err
	}
	if m.resolver == nil {
		return nil
	}
	return m.resolver.Invalidate(ctx, t.GetID(), append(previousNames, t.GetTenancyName())...)
}

type store[T Record] struct{ repo Repository[T] }

func (s store[T]) Find(ctx context.Context, id int64) (*mt.Info, error) {
	t, ok, err := s.repo.FindByID(ctx, id)
	return info(t, ok, err)
}

func (s store[T]) FindByTenancyName(ctx context.Context, tenancyName string) (*mt.Info, error) {
	t, ok, err := s.repo.FindByTenancyName(ctx, tenancyName)
	return info(t, ok, err)
}

func info[T Record](t T, ok bool, err error) (*mt.Info, error) {
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, mt.ErrTenantNotFound
	}
	return &mt.Info{ID: t.GetID(), TenancyName: t.GetTenancyName(), Name: t.GetName()}, nil
}
