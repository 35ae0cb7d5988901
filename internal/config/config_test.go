package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("PRODUCTS_API_URL", "http://inventory:3333")
	t.Setenv("MELHOR_ENVIO_API_URL", "https://sandbox.melhorenvio.com.br")
	t.Setenv("MELHOR_ENVIO_ACCESS_TOKEN", "token")
	t.Setenv("WAREHOUSE_ZIPCODE", "01001000")
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":3334", cfg.HTTP.Addr)
	assert.Equal(t, ":9090", cfg.GRPC.Addr)
	assert.Equal(t, 240*time.Hour, cfg.Shipping.CacheTTL)
	assert.Equal(t, 10.0, cfg.Carrier.PackageHeight)
	assert.Equal(t, 15.0, cfg.Carrier.PackageWidth)
	assert.Equal(t, 20.0, cfg.Carrier.PackageLength)
	assert.Equal(t, 1.0, cfg.Carrier.PackageWeight)
	assert.Empty(t, cfg.Postgres.URL)
	assert.True(t, cfg.Postgres.SeedCustomers)
	assert.Empty(t, cfg.Redis.Addr)
	assert.False(t, cfg.OTel.Enabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	setRequired(t)
	t.Setenv("SHIPPING_CACHE_TTL", "1h")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("SEED_CUSTOMERS", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.Postgres.SeedCustomers)
	assert.Equal(t, time.Hour, cfg.Shipping.CacheTTL)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.True(t, cfg.OTel.Enabled)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	setRequired(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("HTTP_ADDR=:8080\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("HTTP_ADDR") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PRODUCTS_API_URL", "")
	t.Setenv("MELHOR_ENVIO_API_URL", "")
	t.Setenv("MELHOR_ENVIO_ACCESS_TOKEN", "")
	t.Setenv("WAREHOUSE_ZIPCODE", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PRODUCTS_API_URL is required")
	assert.Contains(t, err.Error(), "WAREHOUSE_ZIPCODE is required")
}
