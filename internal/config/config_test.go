package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 2, cfg.ReadRetryMax)
	assert.Equal(t, "memory", cfg.StorageDriver)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowOrigins)
	assert.Equal(t, 30*time.Minute, cfg.WorkspaceIdleTTL)
	assert.Equal(t, time.Minute, cfg.WorkspaceSweepInterval)

	p, err := cfg.PricingPolicy()
	require.NoError(t, err)
	assert.Equal(t, "0.24", p.VATRate.String())
	assert.Equal(t, "50", p.FreeShippingThreshold.String())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STOREFRONT_PORT", "9090")
	t.Setenv("STOREFRONT_ORDER_URL", "http://orders:8789")
	t.Setenv("STOREFRONT_CORS_ALLOW_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("STOREFRONT_SEARCH_DEBOUNCE", "1s")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "http://orders:8789", cfg.OrderURL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowOrigins)
	assert.Equal(t, time.Second, cfg.SearchDebounce)
}

func TestLoad_DotEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("STOREFRONT_LOG_LEVEL=debug\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("STOREFRONT_LOG_LEVEL") })

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	t.Setenv("STOREFRONT_STORAGE_DRIVER", "postgres")
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)

	t.Setenv("STOREFRONT_STORAGE_DRIVER", "redis")
	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)

	t.Setenv("STOREFRONT_STORAGE_DRIVER", "memory")
	t.Setenv("STOREFRONT_WORKSPACE_IDLE_TTL", "0s")
	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)

	t.Setenv("STOREFRONT_WORKSPACE_IDLE_TTL", "30m")
	t.Setenv("STOREFRONT_VAT_RATE", "abc")
	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
