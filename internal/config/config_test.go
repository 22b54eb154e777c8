package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitos/portfolio_rotation/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "agent:\n  initial_capital: 25000\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 25000.0, cfg.Agent.InitialCapital)
	assert.Equal(t, "analyze", cfg.Agent.Mode)
	assert.Equal(t, 0.02, cfg.Rotation.ScoreThreshold)
	assert.Equal(t, 60, cfg.MarketData.CacheTTLMinutes)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9000\n")

	t.Setenv("FINNHUB_API_KEY", "env-key")
	t.Setenv("SERVER_PORT", "9191")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.MarketData.FinnhubAPIKey)
	assert.Equal(t, 9191, cfg.Server.Port)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
