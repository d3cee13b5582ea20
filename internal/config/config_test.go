package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/ratebridge/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.UPSEnabled)
	assert.False(t, cfg.UPSUseMock)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout())
	assert.Equal(t, "ratebridge", cfg.ServiceName)

	upsCfg := cfg.UPS()
	assert.Equal(t, "https://wwwcie.ups.com", upsCfg.BaseURL)
	assert.Equal(t, "/security/v1/oauth/token", upsCfg.TokenPath)
	assert.Equal(t, "/api/rating/v2409/Rate", upsCfg.RatePath)
	assert.Equal(t, 10*time.Second, upsCfg.Timeout)
}

func TestLoad_Environment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("UPS_CLIENT_ID", "id")
	t.Setenv("UPS_CLIENT_SECRET", "secret")
	t.Setenv("UPS_ACCOUNT_NUMBER", "A1B2C3")
	t.Setenv("UPS_USE_MOCK", "true")
	t.Setenv("HTTP_TIMEOUT_MS", "2500")

	cfg, err := config.Load()
	require.NoError(t, err)

	upsCfg := cfg.UPS()
	assert.Equal(t, "id", upsCfg.ClientID)
	assert.Equal(t, "secret", upsCfg.ClientSecret)
	assert.Equal(t, "A1B2C3", upsCfg.AccountNumber)
	assert.True(t, upsCfg.UseMock)
	assert.Equal(t, 2500*time.Millisecond, upsCfg.Timeout)
	assert.NoError(t, upsCfg.Validate())
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("UPS_ACCOUNT_NUMBER=FROMFILE\nPORT=9090\n"), 0o600))
	// Process environment wins over the file.
	t.Setenv("PORT", "7070")
	t.Cleanup(func() { _ = os.Unsetenv("UPS_ACCOUNT_NUMBER") })

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "FROMFILE", cfg.UPSAccountNumber)
	assert.Equal(t, 7070, cfg.Port)
}

func TestLoad_InvalidTimeout(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HTTP_TIMEOUT_MS", "0")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "not-a-number")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestConfig_Attributes(t *testing.T) {
	cfg := &config.Config{ServiceName: "ratebridge", Version: "1.2.3", UPSEnabled: true}
	attrs := cfg.Attributes()

	found := map[string]bool{}
	for _, a := range attrs {
		found[string(a.Key)] = true
	}
	assert.True(t, found["service.name"])
	assert.True(t, found["ups.enabled"])
}
