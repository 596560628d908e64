package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/pkg/config"
)

type appConfig struct {
	Name    string        `env:"TEST_APP_NAME" envDefault:"tenantkit"`
	Timeout time.Duration `env:"TEST_APP_TIMEOUT" envDefault:"5s"`
}

type requiredConfig struct {
	Value string `env:"TEST_REQUIRED_VALUE,required"`
}

type prefixedConfig struct {
	URL string `env:"URL" envDefault:"redis://localhost:6379/0"`
}

type dotenvConfig struct {
	Name string   `env:"TEST_DOTENV_NAME"`
	List []string `env:"TEST_DOTENV_LIST" envSeparator:","`
}

func TestLoad(t *testing.T) {
	config.ResetCache()

	t.Run("defaults", func(t *testing.T) {
		var cfg appConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "tenantkit", cfg.Name)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
	})

	t.Run("cached per type", func(t *testing.T) {
		t.Setenv("TEST_APP_NAME", "changed")

		var cfg appConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "tenantkit", cfg.Name)

		config.ResetCache()
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "changed", cfg.Name)
	})

	t.Run("nil pointer", func(t *testing.T) {
		var cfg *appConfig
		assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
	})

	t.Run("missing required variable", func(t *testing.T) {
		var cfg requiredConfig
		err := config.Load(&cfg)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
		assert.Panics(t, func() { config.MustLoad(&cfg) })
	})
}

func TestLoadWithPrefix(t *testing.T) {
	config.ResetCache()
	t.Setenv("CACHE_URL", "redis://cache:6379/1")

	var cacheCfg, queueCfg prefixedConfig
	require.NoError(t, config.LoadWithPrefix(&cacheCfg, "CACHE_"))
	require.NoError(t, config.LoadWithPrefix(&queueCfg, "QUEUE_"))

	assert.Equal(t, "redis://cache:6379/1", cacheCfg.URL)
	assert.Equal(t, "redis://localhost:6379/0", queueCfg.URL)
}

func TestLoadEnv(t *testing.T) {
	config.ResetCache()

	require.NoError(t, config.LoadEnv("testdata/.env.test"))

	var cfg dotenvConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "from_file", cfg.Name)
	assert.Equal(t, []string{"a", "b", "c"}, cfg.List)

	assert.ErrorIs(t, config.LoadEnv("testdata/missing.env"), config.ErrLoadingEnvFile)
	assert.NoError(t, config.LoadEnv())
}
