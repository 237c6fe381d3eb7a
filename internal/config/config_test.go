package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chtemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chtemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "research.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "https://api.github.com", cfg.GitHub.BaseURL)
	assert.InDelta(t, 60, cfg.GitHub.RatePerHr, 0.001)
	assert.Equal(t, "https://registry.npmjs.org", cfg.NPM.BaseURL)
	assert.Equal(t, "https://api.npmjs.org", cfg.NPM.DownloadsBaseURL)
	assert.Equal(t, "https://www.googleapis.com/customsearch/v1", cfg.Google.BaseURL)
	assert.Equal(t, "https://api.duckduckgo.com", cfg.DuckDuckGo.BaseURL)
	assert.Equal(t, 15, cfg.Resolve.TimeoutSecs)
	assert.Equal(t, 2, cfg.Resolve.Retries)
	assert.Equal(t, 5, cfg.Resolve.MaxConcurrent)
	assert.Equal(t, 3, cfg.Resolve.BreakerFailures)
	assert.Equal(t, 60, cfg.Resolve.BreakerResetSecs)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chtemp(t)

	yaml := `
store:
  database_url: runs.db
log:
  level: debug
  format: console
server:
  port: 9090
resolve:
  timeout_secs: 5
  max_concurrent: 2
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "runs.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Resolve.TimeoutSecs)
	assert.Equal(t, 2, cfg.Resolve.MaxConcurrent)
	// Defaults still apply for unset values
	assert.Equal(t, 2, cfg.Resolve.Retries)
	assert.Equal(t, "https://api.github.com", cfg.GitHub.BaseURL)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chtemp(t)

	yaml := `
log:
  level: debug
github:
  token: from-file
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("RESEARCH_LOG_LEVEL", "warn")
	t.Setenv("RESEARCH_GITHUB_TOKEN", "from-env")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "from-env", cfg.GitHub.Token)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chtemp(t)

	t.Setenv("RESEARCH_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	require.Error(t, err)
}
