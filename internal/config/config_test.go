package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inTempDir runs the test from an empty directory so no stray config.toml is read.
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestFromEnv_Defaults(t *testing.T) {
	inTempDir(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "retail-customers", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, StorePostgres, cfg.Store.Driver)
	assert.NotEmpty(t, cfg.Store.PostgresDSN)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowOrigins)
	assert.True(t, cfg.MetricsEnabled)
}

func TestFromEnv_EnvironmentOverrides(t *testing.T) {
	inTempDir(t)
	t.Setenv("CUSTOMERS_HTTP_ADDR", ":9090")
	t.Setenv("CUSTOMERS_HTTP_SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("CUSTOMERS_STORE_DRIVER", "SQLite")
	t.Setenv("CUSTOMERS_STORE_SQLITE_PATH", "/tmp/c.db")
	t.Setenv("CUSTOMERS_REDIS_ENABLED", "true")
	t.Setenv("CUSTOMERS_REDIS_TTL", "30s")
	t.Setenv("CUSTOMERS_HTTP_CORS_ALLOW_ORIGINS", "https://a.example, https://b.example")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, StoreSQLite, cfg.Store.Driver)
	assert.Equal(t, "/tmp/c.db", cfg.Store.SQLitePath)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowOrigins)
}

func TestFromEnv_ConfigFile(t *testing.T) {
	dir := inTempDir(t)
	toml := `
[store]
driver = "memory"

[log]
level = "debug"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(toml), 0o600))
	t.Setenv("CUSTOMERS_LOG_LEVEL", "warn")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level, "env wins over file")
}

func TestFromEnv_RejectsUnknownDriver(t *testing.T) {
	inTempDir(t)
	t.Setenv("CUSTOMERS_STORE_DRIVER", "mongo")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.driver")
}

func TestValidate(t *testing.T) {
	valid := Config{
		App:              AppConfig{Env: "development"},
		ShutdownTimeout:  time.Second,
		Store:            StoreConfig{Driver: StoreMemory},
		CORSAllowOrigins: []string{"*"},
	}
	require.NoError(t, valid.Validate())

	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"postgres without dsn", func(c *Config) { c.Store = StoreConfig{Driver: StorePostgres} }, "postgres_dsn"},
		{"sqlite without path", func(c *Config) { c.Store = StoreConfig{Driver: StoreSQLite} }, "sqlite_path"},
		{"redis without ttl", func(c *Config) { c.Redis = RedisConfig{Enabled: true, Addr: "x:6379"} }, "redis.ttl"},
		{"redis without addr", func(c *Config) { c.Redis = RedisConfig{Enabled: true, TTL: time.Second} }, "redis.addr"},
		{"zero shutdown timeout", func(c *Config) { c.ShutdownTimeout = 0 }, "shutdown_timeout"},
		{"wildcard cors in production", func(c *Config) { c.App.Env = "production" }, "cors"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestRequirePersistentStore(t *testing.T) {
	tests := []struct {
		driver  string
		wantErr bool
	}{
		{driver: StoreMemory, wantErr: true},
		{driver: StorePostgres},
		{driver: StoreSQLite},
	}
	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			err := Config{Store: StoreConfig{Driver: tt.driver}}.RequirePersistentStore()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrEphemeralStore)
				assert.Contains(t, err.Error(), "CUSTOMERS_STORE_DRIVER")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRequirePersistentStore_FromEnv(t *testing.T) {
	inTempDir(t)
	t.Setenv("CUSTOMERS_STORE_DRIVER", "memory")

	cfg, err := FromEnv()
	require.NoError(t, err, "the api binary may still run on the memory store")
	assert.ErrorIs(t, cfg.RequirePersistentStore(), ErrEphemeralStore)
}
