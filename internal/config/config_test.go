package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "PORT", "READ_TIMEOUT", "WRITE_TIMEOUT", "IDLE_TIMEOUT",
		"DB_DRIVER", "DATABASE_URL", "DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS",
		"DB_CONN_MAX_LIFETIME", "AUTO_MIGRATE", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.Equal(t, 10, cfg.Database.MaxIdleConns)
	assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
	assert.True(t, cfg.Database.AutoMigrate)
}

func TestLoadRequiresDSN(t *testing.T) {
	clearEnv(t)
	_, err := Load("")
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "8081")
	t.Setenv("READ_TIMEOUT", "30")
	t.Setenv("WRITE_TIMEOUT", "2m")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "file:library.db")
	t.Setenv("AUTO_MIGRATE", "false")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, EnvProduction, cfg.Env)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, ":8081", cfg.Addr())
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 2*time.Minute, cfg.Server.WriteTimeout)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "file:library.db", cfg.Database.DSN)
	assert.False(t, cfg.Database.AutoMigrate)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "library.yaml")
	body := `env: production
server:
  port: 9000
  idle_timeout: 2m
database:
  driver: sqlite
  dsn: file:from-yaml.db
  max_open_conns: 1
log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Setenv("PORT", "9001")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, EnvProduction, cfg.Env)
	assert.Equal(t, 9001, cfg.Server.Port)
	assert.Equal(t, 2*time.Minute, cfg.Server.IdleTimeout)
	assert.Equal(t, "file:from-yaml.db", cfg.Database.DSN)
	assert.Equal(t, 1, cfg.Database.MaxOpenConns)
	assert.Equal(t, 10, cfg.Database.MaxIdleConns)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Database.DSN = "postgres://localhost/library"
	require.NoError(t, cfg.Validate())

	cfg.Database.Driver = "mongodb"
	assert.ErrorContains(t, cfg.Validate(), "DB_DRIVER")

	cfg.Database.Driver = DriverSQLite
	cfg.Env = "staging"
	assert.ErrorContains(t, cfg.Validate(), "APP_ENV")
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
