package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "xlsx", cfg.Export.Format)
	assert.Equal(t, "sheets", cfg.Export.Layout)
	assert.Equal(t, "ar", cfg.Export.Language)

	s := cfg.Scoring
	assert.InDelta(t, 50.0, s.PurchasePower.Score10, 0.001)
	assert.InDelta(t, 1.0, s.PurchasePower.Score1, 0.001)
	assert.InDelta(t, 30.0, s.DebtAge.Score5, 0.001)
	assert.InDelta(t, 60.0, s.DebtAge.Score2, 0.001)
	assert.InDelta(t, 1.0, s.Risk.Score5, 0.001)
	assert.InDelta(t, 3.0, s.Risk.Score0, 0.001)
	assert.Equal(t, 0, s.Delta.DecimalsPct)
	assert.InDelta(t, 1.5, s.Returns.NeedsMonitoring, 0.001)
	assert.InDelta(t, 17.0, s.Final.Committed, 0.001)
	assert.InDelta(t, 10.0, s.Final.RescheduleReduce, 0.001)
	assert.Equal(t, DefaultScoringConfig(), s)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
log:
  level: debug
  format: console
export:
  format: csv
  language: en
scoring:
  final:
    committed: 18
  debt_age:
    score_2: 90
ingest:
  columns:
    debt: Balance
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "csv", cfg.Export.Format)
	assert.Equal(t, "en", cfg.Export.Language)
	assert.InDelta(t, 18.0, cfg.Scoring.Final.Committed, 0.001)
	assert.InDelta(t, 90.0, cfg.Scoring.DebtAge.Score2, 0.001)
	assert.Equal(t, "Balance", cfg.Ingest.Columns["debt"])
	// Defaults still apply for unset values
	assert.InDelta(t, 14.0, cfg.Scoring.Final.Good, 0.001)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("DEBTRISK_LOG_LEVEL", "warn")
	t.Setenv("DEBTRISK_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log: [unclosed"), 0644))

	_, err := Load()
	assert.Error(t, err)
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
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Export.Format = "xlsx"
	cfg.Export.Layout = "sheets"
	cfg.Export.Language = "ar"
	cfg.Server.Port = 8080
	cfg.Server.MaxUploadMB = 32
	cfg.Server.RatePerSecond = 2
	cfg.Server.RateBurst = 4
	return cfg
}

func TestValidateClassify(t *testing.T) {
	cfg := validDefaults()
	assert.NoError(t, cfg.Validate("classify"))

	cfg.Export.Format = "pdf"
	cfg.Export.Layout = "stacked"
	err := cfg.Validate("classify")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "export.format")
	assert.Contains(t, err.Error(), "export.layout")
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateServe_RateLimit(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.RateBurst = 0

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "rate_burst")
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}
