package tenantkit

import (
	"github.com/dmitrymomot/tenantkit/pkg/cache"
	"github.com/dmitrymomot/tenantkit/pkg/httpserver"
	"github.com/dmitrymomot/tenantkit/pkg/redis"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// Storage backends accepted by Config.Storage.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config is the application configuration. PostgreSQL settings are loaded
// separately, and only when Storage is StoragePostgres.
type Config struct {
	Environment string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"APP_NAME" envDefault:"tenantkit"`

	Storage     string `env:"TENANTKIT_STORAGE" envDefault:"memory"`
	AutoMigrate bool   `env:"TENANTKIT_AUTO_MIGRATE" envDefault:"true"`
	// FeaturesFile is a YAML file of feature definitions.
	FeaturesFile string `env:"TENANTKIT_FEATURES_FILE"`

	Tenant tenant.Config
	Cache  cache.Config
	Redis  redis.Config
	HTTP   httpserver.Config
}
