package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/electroredes/contactguard/pkg/config"
)

type fileConfig struct {
	Name   string   `env:"CFG_TEST_NAME"`
	Port   int      `env:"CFG_TEST_PORT"`
	List   []string `env:"CFG_TEST_LIST" envSeparator:","`
	Quoted string   `env:"CFG_TEST_QUOTED"`
	Extra  string   `env:"CFG_TEST_EXTRA"`
}

type defaultsConfig struct {
	Window  time.Duration `env:"CFG_TEST_WINDOW" envDefault:"1m"`
	Enabled bool          `env:"CFG_TEST_ENABLED" envDefault:"true"`
}

type requiredConfig struct {
	URL string `env:"CFG_TEST_REQUIRED,required"`
}

func unset(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		old, ok := os.LookupEnv(k)
		_ = os.Unsetenv(k)
		t.Cleanup(func() {
			if ok {
				_ = os.Setenv(k, old)
			} else {
				_ = os.Unsetenv(k)
			}
		})
	}
}

func TestLoadEnv(t *testing.T) {
	unset(t, "CFG_TEST_NAME", "CFG_TEST_PORT", "CFG_TEST_LIST", "CFG_TEST_QUOTED", "CFG_TEST_EXTRA")
	config.ResetCache()

	require.NoError(t, config.LoadEnv("testdata/base.env", "testdata/override.env"))

	var cfg fileConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "override", cfg.Name)
	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, []string{"a", "b", "c"}, cfg.List)
	assert.Equal(t, "quoted value", cfg.Quoted)
	assert.Equal(t, "extra", cfg.Extra)
}

func TestLoadEnv_ProcessEnvWins(t *testing.T) {
	unset(t, "CFG_TEST_PORT")
	t.Setenv("CFG_TEST_NAME", "from-process")

	require.NoError(t, config.LoadEnv("testdata/base.env"))
	assert.Equal(t, "from-process", os.Getenv("CFG_TEST_NAME"))
	assert.Equal(t, "8081", os.Getenv("CFG_TEST_PORT"))
}

func TestLoadEnv_MissingFile(t *testing.T) {
	err := config.LoadEnv("testdata/missing.env")
	assert.ErrorIs(t, err, config.ErrEnvFile)
}

func TestLoad_DefaultsAndCache(t *testing.T) {
	config.ResetCache()
	unset(t, "CFG_TEST_WINDOW", "CFG_TEST_ENABLED")

	var cfg defaultsConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, time.Minute, cfg.Window)
	assert.True(t, cfg.Enabled)

	t.Setenv("CFG_TEST_WINDOW", "5s")
	var cached defaultsConfig
	require.NoError(t, config.Load(&cached))
	assert.Equal(t, time.Minute, cached.Window)

	config.ResetCache()
	var fresh defaultsConfig
	require.NoError(t, config.Load(&fresh))
	assert.Equal(t, 5*time.Second, fresh.Window)
}

func TestLoad_Required(t *testing.T) {
	config.ResetCache()
	unset(t, "CFG_TEST_REQUIRED")

	var cfg requiredConfig
	err := config.Load(&cfg)
	require.ErrorIs(t, err, config.ErrParsingConfig)
	assert.Panics(t, func() { config.MustLoad(&requiredConfig{}) })

	t.Setenv("CFG_TEST_REQUIRED", "redis://localhost:6379")
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "redis://localhost:6379", cfg.URL)
}

func TestLoad_NilPointer(t *testing.T) {
	var cfg *defaultsConfig
	assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
}
