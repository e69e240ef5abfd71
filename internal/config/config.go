package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/ducminhle1904/equity-backtest/internal/backtest"
	"github.com/ducminhle1904/equity-backtest/internal/execution"
	"github.com/ducminhle1904/equity-backtest/internal/portfolio"
	"github.com/ducminhle1904/equity-backtest/internal/risk"
	"github.com/ducminhle1904/equity-backtest/internal/strategy"
)

// Config is the complete simulator configuration. Zero values in a loaded
// file fall back to the defaults, and environment variables override both.
type Config struct {
	InitialCash float64 `json:"initial_cash"`

	Commission struct {
		FlatFee float64 `json:"flat_fee"`
		Rate    float64 `json:"rate"`
	} `json:"commission"`

	Risk struct {
		MaxPositionSize  float64 `json:"max_position_size"`
		StopLossPct      float64 `json:"stop_loss_pct"`
		TakeProfitPct    float64 `json:"take_profit_pct"`
		MaxPortfolioRisk float64 `json:"max_portfolio_risk"`
	} `json:"risk"`

	Execution struct {
		MaxOpenPositions int     `json:"max_open_positions"`
		MaxAssetExposure float64 `json:"max_asset_exposure"`
	} `json:"execution"`

	Strategy struct {
		FastMA        int     `json:"fast_ma"`
		SlowMA        int     `json:"slow_ma"`
		RSIPeriod     int     `json:"rsi_period"`
		RSIOversold   float64 `json:"rsi_oversold"`
		RSIOverbought float64 `json:"rsi_overbought"`
	} `json:"strategy"`

	ATRPeriod int `json:"atr_period"`
}

// DefaultConfig returns the standard simulator parameters.
func DefaultConfig() *Config {
	cfg := &Config{
		InitialCash: 100000,
		ATRPeriod:   14,
	}
	cfg.Commission.FlatFee = 5.0
	cfg.Commission.Rate = 0.001
	cfg.Risk.MaxPositionSize = 0.10
	cfg.Risk.StopLossPct = 0.05
	cfg.Risk.TakeProfitPct = 0.10
	cfg.Risk.MaxPortfolioRisk = 0.02
	cfg.Execution.MaxOpenPositions = 5
	cfg.Execution.MaxAssetExposure = 0.20
	cfg.Strategy.FastMA = 5
	cfg.Strategy.SlowMA = 20
	cfg.Strategy.RSIPeriod = 14
	cfg.Strategy.RSIOversold = 30
	cfg.Strategy.RSIOverbought = 70
	return cfg
}

// Load reads configuration from a JSON file layered over the defaults, then
// applies environment variable overrides. An empty path loads defaults plus
// environment only.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides
func (c *Config) applyEnvOverrides() {
	c.InitialCash = getEnvFloat("BACKTEST_INITIAL_CASH", c.InitialCash)
	c.Commission.FlatFee = getEnvFloat("BACKTEST_COMMISSION_FLAT", c.Commission.FlatFee)
	c.Commission.Rate = getEnvFloat("BACKTEST_COMMISSION_RATE", c.Commission.Rate)
	c.Risk.MaxPositionSize = getEnvFloat("BACKTEST_MAX_POSITION_SIZE", c.Risk.MaxPositionSize)
	c.Risk.StopLossPct = getEnvFloat("BACKTEST_STOP_LOSS_PCT", c.Risk.StopLossPct)
	c.Risk.TakeProfitPct = getEnvFloat("BACKTEST_TAKE_PROFIT_PCT", c.Risk.TakeProfitPct)
	c.Execution.MaxOpenPositions = getEnvInt("BACKTEST_MAX_OPEN_POSITIONS", c.Execution.MaxOpenPositions)
	c.Execution.MaxAssetExposure = getEnvFloat("BACKTEST_MAX_ASSET_EXPOSURE", c.Execution.MaxAssetExposure)
	c.ATRPeriod = getEnvInt("BACKTEST_ATR_PERIOD", c.ATRPeriod)
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.InitialCash <= 0 {
		return fmt.Errorf("initial_cash must be positive, got %.2f", c.InitialCash)
	}
	if c.Commission.Rate < 0 || c.Commission.FlatFee < 0 {
		return fmt.Errorf("commission must be non-negative")
	}
	if c.Risk.MaxPositionSize <= 0 || c.Risk.MaxPositionSize > 1 {
		return fmt.Errorf("max_position_size must be in (0, 1], got %.2f", c.Risk.MaxPositionSize)
	}
	if c.Risk.StopLossPct <= 0 || c.Risk.TakeProfitPct <= 0 {
		return fmt.Errorf("stop_loss_pct and take_profit_pct must be positive")
	}
	if c.Execution.MaxOpenPositions < 1 {
		return fmt.Errorf("max_open_positions must be at least 1, got %d", c.Execution.MaxOpenPositions)
	}
	if c.Execution.MaxAssetExposure <= 0 || c.Execution.MaxAssetExposure > 1 {
		return fmt.Errorf("max_asset_exposure must be in (0, 1], got %.2f", c.Execution.MaxAssetExposure)
	}
	if c.Strategy.FastMA >= c.Strategy.SlowMA {
		return fmt.Errorf("fast_ma %d must be shorter than slow_ma %d", c.Strategy.FastMA, c.Strategy.SlowMA)
	}
	if c.ATRPeriod < 1 {
		return fmt.Errorf("atr_period must be at least 1, got %d", c.ATRPeriod)
	}
	return nil
}

// EngineConfig translates the loaded configuration into the engine's form.
func (c *Config) EngineConfig() backtest.Config {
	return backtest.Config{
		InitialCash: c.InitialCash,
		Commission: portfolio.CommissionModel{
			FlatFee: c.Commission.FlatFee,
			Rate:    c.Commission.Rate,
		},
		Risk: risk.Config{
			MaxPositionSize:  c.Risk.MaxPositionSize,
			StopLossPct:      c.Risk.StopLossPct,
			TakeProfitPct:    c.Risk.TakeProfitPct,
			MaxPortfolioRisk: c.Risk.MaxPortfolioRisk,
		},
		Execution: execution.Config{
			MaxOpenPositions: c.Execution.MaxOpenPositions,
			MaxAssetExposure: c.Execution.MaxAssetExposure,
		},
		ATRPeriod: c.ATRPeriod,
	}
}

// StrategyConfig translates the loaded strategy parameters.
func (c *Config) StrategyConfig() strategy.Config {
	return strategy.Config{
		FastMA:        c.Strategy.FastMA,
		SlowMA:        c.Strategy.SlowMA,
		RSIPeriod:     c.Strategy.RSIPeriod,
		RSIOversold:   c.Strategy.RSIOversold,
		RSIOverbought: c.Strategy.RSIOverbought,
	}
}

// getEnvFloat gets a float environment variable with a fallback
func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

// getEnvInt gets an int environment variable with a fallback
func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
