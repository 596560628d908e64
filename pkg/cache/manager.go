package cache

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/dmitrymomot/tenantkit/pkg/logger"
)

// Factory creates the named cache for a backend.
type Factory func(name string, opts Options) Cache

// Manager owns named caches created by a single backend Factory.
// It is safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	factory  Factory
	defaults Options
	options  map[string]Options
	caches   map[string]Cache
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithDefaults sets options for caches without a per-name configuration.
func WithDefaults(opts Options) ManagerOption {
	return func(m *Manager) { m.defaults = opts }
}

// WithLogger sets the logger handed to caches that have none.
func WithLogger(log *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if log != nil {
			m.defaults.Logger = log
		}
	}
}

// NewManager creates a Manager. A nil factory means in-memory caches.
func NewManager(factory Factory, opts ...ManagerOption) *Manager {
	if factory == nil {
		factory = NewMemoryFactory()
	}
	m := &Manager{
		factory:  factory,
		defaults: Options{DefaultSlidingExpiration: DefaultSlidingExpiration},
		options:  make(map[string]Options),
		caches:   make(map[string]Cache),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.defaults.Logger == nil {
		m.defaults.Logger = logger.Discard()
	}
	return m
}

// Configure sets options for the named cache.
// It only affects caches that have not been created yet.
func (m *Manager) Configure(name string, opts Options) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.options[name] = opts
}

// GetCache returns the named cache, creating it on first use.
func (m *Manager) GetCache(name string) Cache {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.caches[name]; ok {
		return c
	}

	opts, ok := m.options[name]
	if !ok {
		opts = m.defaults
	}
	if opts.Logger == nil {
		opts.Logger = m.defaults.Logger
	}

	c := m.factory(name, opts)
	m.caches[name] = c
	return c
}

// Names returns the names of created caches in sorted order.
func (m *Manager) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.caches))
	for name := range m.caches {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
