package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefaultConfig tests the standard parameter set
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.InDelta(t, 100000.0, cfg.InitialCash, 1e-9)
	assert.InDelta(t, 5.0, cfg.Commission.FlatFee, 1e-9)
	assert.InDelta(t, 0.001, cfg.Commission.Rate, 1e-9)
	assert.InDelta(t, 0.10, cfg.Risk.MaxPositionSize, 1e-9)
	assert.InDelta(t, 0.05, cfg.Risk.StopLossPct, 1e-9)
	assert.InDelta(t, 0.10, cfg.Risk.TakeProfitPct, 1e-9)
	assert.Equal(t, 5, cfg.Execution.MaxOpenPositions)
	assert.InDelta(t, 0.20, cfg.Execution.MaxAssetExposure, 1e-9)
	assert.Equal(t, 5, cfg.Strategy.FastMA)
	assert.Equal(t, 20, cfg.Strategy.SlowMA)
	assert.Equal(t, 14, cfg.ATRPeriod)

	require.NoError(t, cfg.Validate())
}

// TestLoad_FileOverlay tests that a JSON file overrides only what it names
func TestLoad_FileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"initial_cash": 50000,
		"risk": {
			"max_position_size": 0.2,
			"stop_loss_pct": 0.03,
			"take_profit_pct": 0.08,
			"max_portfolio_risk": 0.02
		}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.InDelta(t, 50000.0, cfg.InitialCash, 1e-9)
	assert.InDelta(t, 0.2, cfg.Risk.MaxPositionSize, 1e-9)
	assert.InDelta(t, 0.03, cfg.Risk.StopLossPct, 1e-9)
	// Untouched sections keep defaults
	assert.InDelta(t, 5.0, cfg.Commission.FlatFee, 1e-9)
	assert.Equal(t, 20, cfg.Strategy.SlowMA)
}

// TestLoad_EnvOverride tests that environment variables win over the file
func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("BACKTEST_INITIAL_CASH", "250000")
	t.Setenv("BACKTEST_MAX_OPEN_POSITIONS", "3")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.InDelta(t, 250000.0, cfg.InitialCash, 1e-9)
	assert.Equal(t, 3, cfg.Execution.MaxOpenPositions)
}

// TestLoad_InvalidEnvIgnored tests that unparseable values fall back
func TestLoad_InvalidEnvIgnored(t *testing.T) {
	t.Setenv("BACKTEST_INITIAL_CASH", "not-a-number")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.InDelta(t, 100000.0, cfg.InitialCash, 1e-9)
}

// TestLoad_MissingFile tests the error for an unreadable path
func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

// TestValidate tests rejection of inconsistent settings
func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative cash", func(c *Config) { c.InitialCash = -1 }},
		{"zero position size", func(c *Config) { c.Risk.MaxPositionSize = 0 }},
		{"oversized position size", func(c *Config) { c.Risk.MaxPositionSize = 1.5 }},
		{"zero stop loss", func(c *Config) { c.Risk.StopLossPct = 0 }},
		{"zero open positions", func(c *Config) { c.Execution.MaxOpenPositions = 0 }},
		{"exposure above one", func(c *Config) { c.Execution.MaxAssetExposure = 1.2 }},
		{"fast not below slow", func(c *Config) { c.Strategy.FastMA = 20 }},
		{"zero atr period", func(c *Config) { c.ATRPeriod = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
