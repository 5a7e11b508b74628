package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chtemp(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
}

func TestLoadDefaults(t *testing.T) {
	chtemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "enrich", cfg.Verification.Mode)
	assert.Equal(t, 8000, cfg.Verification.BudgetMs)
	assert.Equal(t, 2500, cfg.Verification.ProviderTimeoutMs)
	assert.Equal(t, 4000, cfg.Verification.PhaseABudgetMs)
	assert.Equal(t, 400, cfg.Verification.ResponseBufferMs)
	assert.Equal(t, 2500, cfg.Verification.DraftTimeoutMs)
	assert.Equal(t, 3, cfg.Verification.MaxFacts)
	assert.Equal(t, 21600000, cfg.Verification.CacheTTLMs)
	assert.Equal(t, "claude-sonnet-4-5-20250929", cfg.Anthropic.Model)
	assert.Equal(t, "claude-haiku-4-5-20251001", cfg.Anthropic.DraftModel)
}

func TestLoadFromYAML(t *testing.T) {
	chtemp(t)

	yaml := `
verification:
  mode: shadow
  budget_ms: 5000
log:
  level: debug
  format: console
server:
  port: 9090
`
	cwd, _ := os.Getwd()
	require.NoError(t, os.WriteFile(filepath.Join(cwd, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "shadow", cfg.Verification.Mode)
	assert.Equal(t, 5000, cfg.Verification.BudgetMs)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 9090, cfg.Server.Port)
	// Defaults still apply for unset values
	assert.Equal(t, 3, cfg.Verification.MaxFacts)
}

func TestLoadEnvOverrides(t *testing.T) {
	chtemp(t)

	t.Setenv("HEARITAGE_VERIFICATION_MODE", "off")
	t.Setenv("HEARITAGE_ANTHROPIC_KEY", "test-key")
	t.Setenv("HEARITAGE_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "off", cfg.Verification.Mode)
	assert.Equal(t, "test-key", cfg.Anthropic.Key)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	chtemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic.key")

	cfg.Anthropic.Key = "test-key"
	require.NoError(t, cfg.Validate())

	cfg.Verification.Mode = "loud"
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verification.mode")

	cfg.Verification.Mode = "enrich"
	cfg.Verification.BudgetMs = 100
	cfg.Verification.ResponseBufferMs = 400
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "budget_ms")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerBadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "shouty", Format: "json"})
	require.Error(t, err)
}
