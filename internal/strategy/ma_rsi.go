package strategy

import (
	"github.com/ducminhle1904/equity-backtest/internal/indicators"
	"github.com/ducminhle1904/equity-backtest/internal/simerr"
	"github.com/ducminhle1904/equity-backtest/pkg/types"
)

// MACrossRSI combines a moving-average crossover with RSI threshold
// crossings. Each sub-signal only fires on the bar where the crossing
// happens, so the combined signal flags turning points rather than regimes.
type MACrossRSI struct {
	fastMA        int
	slowMA        int
	rsiPeriod     int
	rsiOversold   float64
	rsiOverbought float64
}

// Config holds the tunable parameters of the MA/RSI strategy.
type Config struct {
	FastMA        int
	SlowMA        int
	RSIPeriod     int
	RSIOversold   float64
	RSIOverbought float64
}

// DefaultConfig returns the standard 5/20 crossover with a 14-period RSI
// and 30/70 thresholds.
func DefaultConfig() Config {
	return Config{
		FastMA:        5,
		SlowMA:        20,
		RSIPeriod:     14,
		RSIOversold:   30,
		RSIOverbought: 70,
	}
}

// NewMACrossRSI creates the combined strategy.
func NewMACrossRSI(cfg Config) *MACrossRSI {
	return &MACrossRSI{
		fastMA:        cfg.FastMA,
		slowMA:        cfg.SlowMA,
		rsiPeriod:     cfg.RSIPeriod,
		rsiOversold:   cfg.RSIOversold,
		rsiOverbought: cfg.RSIOverbought,
	}
}

// GetName returns the name of the strategy
func (s *MACrossRSI) GetName() string {
	return "MA Crossover + RSI"
}

// WarmupPeriod returns the number of bars needed before signals fire.
func (s *MACrossRSI) WarmupPeriod() int {
	warmup := s.slowMA + 1
	if rsiWarmup := s.rsiPeriod + 2; rsiWarmup > warmup {
		warmup = rsiWarmup
	}
	return warmup
}

// Signal evaluates both sub-signals on the last bar and clamps their sum to
// the ternary domain. Bars inside the warmup window yield 0.
func (s *MACrossRSI) Signal(data []types.OHLCV) (int, error) {
	if len(data) == 0 {
		return 0, simerr.New(simerr.CategoryInvalidSignal, "strategy", "empty bar history")
	}
	if len(data) < s.WarmupPeriod() {
		return 0, nil
	}

	score := s.crossoverSignal(data) + s.rsiSignal(data)
	return Clamp(score), nil
}

// crossoverSignal emits the change in crossover state between the previous
// and current bar: non-zero only on the bar where the fast MA crosses the
// slow MA.
func (s *MACrossRSI) crossoverSignal(data []types.OHLCV) int {
	now := s.crossoverState(data)
	prev := s.crossoverState(data[:len(data)-1])
	return now - prev
}

func (s *MACrossRSI) crossoverState(data []types.OHLCV) int {
	fast, err := indicators.NewSMA(s.fastMA).Calculate(data)
	if err != nil {
		return 0
	}
	slow, err := indicators.NewSMA(s.slowMA).Calculate(data)
	if err != nil {
		return 0
	}
	if fast > slow {
		return 1
	}
	if fast < slow {
		return -1
	}
	return 0
}

// rsiSignal fires +1 when RSI crosses up through the oversold threshold and
// -1 when it crosses down through the overbought threshold.
func (s *MACrossRSI) rsiSignal(data []types.OHLCV) int {
	closes := make([]float64, len(data))
	for i, bar := range data {
		closes[i] = bar.Close
	}

	rsi := indicators.NewRSI(s.rsiPeriod)
	now, err := rsi.Calculate(closes)
	if err != nil {
		return 0
	}
	prev, err := rsi.Calculate(closes[:len(closes)-1])
	if err != nil {
		return 0
	}

	if now > s.rsiOversold && prev <= s.rsiOversold {
		return 1
	}
	if now < s.rsiOverbought && prev >= s.rsiOverbought {
		return -1
	}
	return 0
}
