package cache

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// Backend names accepted by Config.Backend.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config describes the cache backend, loadable with pkg/config.
type Config struct {
	Backend                   string        `env:"CACHE_BACKEND" envDefault:"memory"`
	DefaultSlidingExpiration  time.Duration `env:"CACHE_DEFAULT_SLIDING_EXPIRATION" envDefault:"1h"`
	DefaultAbsoluteExpiration time.Duration `env:"CACHE_DEFAULT_ABSOLUTE_EXPIRATION"`
	MemoryCapacity            int           `env:"CACHE_MEMORY_CAPACITY" envDefault:"10000"`
}

// Options returns the default Options described by cfg.
func (cfg Config) Options() Options {
	return Options{
		DefaultSlidingExpiration:  cfg.DefaultSlidingExpiration,
		DefaultAbsoluteExpiration: cfg.DefaultAbsoluteExpiration,
	}
}

// FactoryFromConfig picks the backend described by cfg.
// The Redis backend requires a non-nil client.
func FactoryFromConfig(cfg Config, client redis.UniversalClient) (Factory, error) {
	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemoryFactory(WithMemoryCapacity(cfg.MemoryCapacity)), nil
	case BackendRedis:
		if client == nil {
			return nil, ErrNoRedisClient
		}
		return NewRedisFactory(client), nil
	default:
		return nil, ErrUnknownBackend
	}
}
