package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalogConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	cfg, err := LoadCatalogConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8082", cfg.Server.Addr())
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "pgx", cfg.DB.Driver)
	assert.Contains(t, cfg.DB.DSN, "product_db")
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "test-secret", cfg.Auth.JWTSecretKey)
	assert.Equal(t, 72*time.Hour, cfg.Auth.TokenTTL)
	assert.False(t, cfg.Cache.Enabled())
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, int64(5), cfg.LowStock.Threshold)
	assert.Equal(t, "0 */15 * * * *", cfg.LowStock.Schedule)
}

func TestLoadCatalogConfig_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("CACHE_REDELETE_DELAY", "1s")
	t.Setenv("LOW_STOCK_THRESHOLD", "2")

	cfg, err := LoadCatalogConfig()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr())
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.True(t, cfg.Cache.Enabled())
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, time.Second, cfg.Cache.RedeleteDelay)
	assert.Equal(t, int64(2), cfg.LowStock.Threshold)
}

func TestLoadCatalogConfig_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := LoadCatalogConfig()
	assert.Error(t, err)
}

func TestLoadCatalogConfig_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("DB_DRIVER", "sqlite")

	_, err := LoadCatalogConfig()
	assert.ErrorContains(t, err, "DB_DRIVER")
}

func TestLoadGatewayConfig(t *testing.T) {
	t.Setenv("CATALOG_SERVICE_URL", "http://catalog:8082")

	cfg, err := LoadGatewayConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.ListenPort)
	assert.Equal(t, "http://catalog:8082", cfg.CatalogServiceURL)
}
