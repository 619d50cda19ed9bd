package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"restoapi/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600))
	t.Setenv("CONFIG_PATH", dir)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.EnvLocal, cfg.HTTP.Env)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, config.StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 2*time.Hour, cfg.Booking.Duration)
	assert.Equal(t, 8, cfg.Catalog.PageSize)
	require.Len(t, cfg.Vouchers, 1)
	assert.Equal(t, "UNSPROMO", cfg.Vouchers[0].Code)
}

func TestLoad_FileAndEnv(t *testing.T) {
	writeConfig(t, `
http:
  env: prod
  port: 9000
storage:
  driver: pgx
psql_conn:
  user: resto
  password: pw
  host: db
  port: 5433
  database: resto
  sslmode: require
booking:
  variant: deposit
  duration: 90m
vouchers:
  - code: hemat
    kind: fixed
    value: "5000"
`)
	t.Setenv("RESTO_HTTP_PORT", "9100")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.EnvProd, cfg.HTTP.Env)
	assert.Equal(t, 9100, cfg.HTTP.Port)
	assert.Equal(t, config.StoragePgx, cfg.Storage.Driver)
	assert.Equal(t, "deposit", cfg.Booking.Variant)
	assert.Equal(t, 90*time.Minute, cfg.Booking.Duration)
	require.Len(t, cfg.Vouchers, 1)
	assert.Equal(t, "fixed", cfg.Vouchers[0].Kind)
	assert.Equal(t, "postgres://resto:pw@db:5433/resto?sslmode=require", cfg.ConnectionString())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "Unknown env", body: "http:\n  env: staging\n"},
		{name: "Unknown driver", body: "storage:\n  driver: sqlite\n"},
		{name: "Zero page size", body: "catalog:\n  page_size: 0\n"},
		{name: "Broken yaml", body: "http: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writeConfig(t, tt.body)
			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}
