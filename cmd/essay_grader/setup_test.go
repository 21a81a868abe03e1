package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/essay-grader/internal/config"
)

func setFlags(t *testing.T, path, level, format string) {
	t.Helper()
	oldPath, oldLevel, oldFormat := configPath, logLevel, logFormat
	configPath, logLevel, logFormat = path, level, format
	t.Cleanup(func() { configPath, logLevel, logFormat = oldPath, oldLevel, oldFormat })
}

func TestLoadSettings_Defaults(t *testing.T) {
	setFlags(t, "", "", "")
	t.Setenv(config.EnvAPIKey, "")
	t.Setenv(config.EnvDatabaseURL, "")

	cfg, err := loadSettings()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultPort, cfg.Port)
	assert.Equal(t, config.DefaultRequestTimeout, cfg.RequestTimeout)
	assert.Equal(t, config.DefaultRateLimit, cfg.RateLimit)
	assert.Equal(t, config.DefaultRateBurst, cfg.RateBurst)
}

func TestLoadSettings_FileEnvAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 9090\napi_key: from-file\nlog:\n  level: info\n"), 0644))
	setFlags(t, path, "debug", "json")
	t.Setenv(config.EnvAPIKey, "from-env")
	t.Setenv(config.EnvDatabaseURL, "postgres://localhost/essays")

	cfg, err := loadSettings()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "from-env", cfg.APIKey)
	assert.Equal(t, "postgres://localhost/essays", cfg.DatabaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadSettings_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"weights": {"grammar": -1}}`), 0644))
	setFlags(t, path, "", "")

	_, err := loadSettings()
	assert.Error(t, err)
}

func TestLoadSettings_MissingFile(t *testing.T) {
	setFlags(t, filepath.Join(t.TempDir(), "missing.yaml"), "", "")

	_, err := loadSettings()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestNewToolkit_RequiresAPIKey(t *testing.T) {
	cfg := testConfig()
	cfg.APIKey = ""

	_, _, err := newGrader(context.Background(), cfg, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestNewGrader_InvalidWeights(t *testing.T) {
	useMockToolkit(t)
	cfg := testConfig()
	cfg.Weights = map[string]float64{"grammar": -1}

	_, _, err := newGrader(context.Background(), cfg, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create grader")
}

func TestConnectDB_RequiresURL(t *testing.T) {
	_, err := connectDB(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.EnvDatabaseURL)
}
