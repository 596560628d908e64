package feature

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/dmitrymomot/tenantkit/pkg/cache"
	"github.com/dmitrymomot/tenantkit/pkg/logger"
)

// TenantCacheName is the named cache holding TenantCacheItem values.
const TenantCacheName = "tenantkit.tenant_features"

// TenantCacheItem is the cached feature snapshot of a tenant.
type TenantCacheItem struct {
	EditionID     *int64            `json:"edition_id,omitempty"`
	FeatureValues map[string]string `json:"feature_values"`
}

// ValueStore resolves feature values for tenants.
type ValueStore struct {
	features *Manager
	settings SettingStore
	editions EditionStore
	tenants  EditionSource
	cache    *cache.Typed[*TenantCacheItem]
	logger   *slog.Logger
}

// ValueStoreOption configures a ValueStore.
type ValueStoreOption func(*ValueStore)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) ValueStoreOption {
	return func(s *ValueStore) {
		if log != nil {
			s.logger = log
		}
	}
}

// NewValueStore creates a ValueStore. A nil caches means in-memory caches.
func NewValueStore(features *Manager, settings SettingStore, editions EditionStore, tenants EditionSource, caches *cache.Manager, opts ...ValueStoreOption) *ValueStore {
	if caches == nil {
		caches = cache.NewManager(nil)
	}
	s := &ValueStore{
		features: features,
		settings: settings,
		editions: editions,
		tenants:  tenants,
		cache:    cache.NewTyped[*TenantCacheItem](caches.GetCache(TenantCacheName)),
		logger:   logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Features returns the feature definitions.
func (s *ValueStore) Features() *Manager { return s.features }

// TenantCacheItem returns the cached snapshot of tenantID, loading it on a miss.
func (s *ValueStore) TenantCacheItem(ctx context.Context, tenantID int64) (*TenantCacheItem, error) {
	return s.cache.GetOrAdd(ctx, tenantKey(tenantID), func(ctx context.Context) (*TenantCacheItem, error) {
		editionID, err := s.tenants.TenantEditionID(ctx, tenantID)
		if err != nil {
			return nil, fmt.Errorf("load tenant edition: %w", err)
		}
		settings, err := s.settings.TenantSettings(ctx, tenantID)
		if err != nil {
			return nil, fmt.Errorf("load tenant feature settings: %w", err)
		}
		item := &TenantCacheItem{EditionID: editionID, FeatureValues: make(map[string]string, len(settings))}
		for _, st := range settings {
			item.FeatureValues[st.Name] = st.Value
		}
		s.logger.DebugContext(ctx, "tenant features loaded",
			logger.TenantID(&tenantID),
			slog.Int("overrides", len(settings)),
		)
		return item, nil
	})
}

// ValueOrNil returns the tenant override, falling back to the edition value.
// It returns nil when neither is set.
func (s *ValueStore) ValueOrNil(ctx context.Context, tenantID int64, name string) (*string, error) {
	item, err := s.TenantCacheItem(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if v, ok := item.FeatureValues[name]; ok {
		return &v, nil
	}
	if item.EditionID == nil {
		return nil, nil
	}
	return s.EditionValueOrNil(ctx, *item.EditionID, name)
}

// EditionValueOrNil returns the edition value of the feature, or nil.
func (s *ValueStore) EditionValueOrNil(ctx context.Context, editionID int64, name string) (*string, error) {
	if s.editions == nil {
		return nil, nil
	}
	return s.editions.EditionValueOrNil(ctx, editionID, name)
}

// Value returns the resolved value of a defined feature.
func (s *ValueStore) Value(ctx context.Context, tenantID int64, name string) (string, error) {
	def, ok := s.features.Get(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrFeatureNotFound, name)
	}
	v, err := s.ValueOrNil(ctx, tenantID, name)
	if err != nil {
		return "", err
	}
	if v == nil {
		return def.DefaultValue, nil
	}
	return *v, nil
}

// IsEnabled reports whether a boolean feature resolves to true.
// Values that do not parse as booleans are false.
func (s *ValueStore) IsEnabled(ctx context.Context, tenantID int64, name string) (bool, error) {
	v, err := s.Value(ctx, tenantID, name)
	if err != nil {
		return false, err
	}
	enabled, _ := strconv.ParseBool(v)
	return enabled, nil
}

// Invalidate removes the cached snapshot of tenantID.
func (s *ValueStore) Invalidate(ctx context.Context, tenantID int64) error {
	return s.cache.Remove(ctx, tenantKey(tenantID))
}

func tenantKey(tenantID int64) string { return strconv.FormatInt(tenantID, 10) }
