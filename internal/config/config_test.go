package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_TTL_SEC", "60")
	t.Setenv("STORAGE_DRIVER", "MinIO")
	t.Setenv("APP_TIMEZONE", "America/Costa_Rica")
	t.Setenv("DB_STATEMENT_TIMEOUT_MS", "1500")

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.Storage.MinIO.UseSSL)
	assert.Equal(t, "s3cret", cfg.Auth.Secret)
	assert.Equal(t, time.Minute, cfg.Auth.TTL)
	assert.Equal(t, "minio", cfg.Storage.Driver)
	assert.Equal(t, "America/Costa_Rica", cfg.Database.Timezone, "sessions follow the app time zone")
	assert.Equal(t, 1500*time.Millisecond, cfg.Database.StatementTimeout)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("JWT_TTL_SEC", "")
	t.Setenv("DB_APP_NAME", "")

	cfg := Load()

	assert.Empty(t, cfg.Auth.Secret, "secret must not have a default")
	assert.Equal(t, time.Hour, cfg.Auth.TTL)
	assert.False(t, cfg.IsLocal())
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.Equal(t, "hrdocs", cfg.Database.AppName)
}

func TestIsLocal(t *testing.T) {
	assert.True(t, (&AppConfig{Env: "LOCAL"}).IsLocal())
	assert.False(t, (&AppConfig{Env: "production"}).IsLocal())
}

func TestLocation(t *testing.T) {
	assert.Equal(t, time.UTC, (&AppConfig{Timezone: "Not/AZone"}).Location())
	assert.Equal(t, "UTC", (&AppConfig{Timezone: "UTC"}).Location().String())
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}
