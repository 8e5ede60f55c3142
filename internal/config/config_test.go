package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("INGEST_MAX_DEPTH", "3")
	t.Setenv("INGEST_MAX_TOTAL_BYTES", "1048576")
	t.Setenv("DB_STATEMENT_TIMEOUT_MS", "0")

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, 3, cfg.Ingest.MaxDepth)
	assert.Equal(t, int64(1<<20), cfg.Ingest.MaxTotalBytes)
	assert.Equal(t, 0, cfg.Database.StatementTimeoutMs)
	assert.Equal(t, "docingest", cfg.Database.ApplicationName)
}

func TestLoad_IngestDefaults(t *testing.T) {
	for _, key := range []string{"INGEST_MAX_DEPTH", "INGEST_MAX_TOTAL_BYTES", "INGEST_MAX_ENTRIES", "INGEST_MAX_UPLOAD_BYTES", "INGEST_WORKERS"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, 8, cfg.Ingest.MaxDepth)
	assert.Equal(t, int64(256<<20), cfg.Ingest.MaxTotalBytes)
	assert.Equal(t, 10000, cfg.Ingest.MaxEntries)
	assert.Equal(t, 64<<20, cfg.Ingest.MaxUploadBytes)
	assert.Equal(t, 4, cfg.Ingest.Workers)
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	t.Setenv(key, "value")

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	t.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	t.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	t.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	t.Setenv(key, "")
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	t.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	t.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	t.Setenv(key, "")
	assert.Equal(t, 10, getEnvInt(key, 10))
}

func TestGetEnvInt64(t *testing.T) {
	key := "TEST_INT64_VAR"

	t.Setenv(key, "5368709120")
	assert.Equal(t, int64(5368709120), getEnvInt64(key, 0))

	t.Setenv(key, "1.5")
	assert.Equal(t, int64(7), getEnvInt64(key, 7))
}
