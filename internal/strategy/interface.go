package strategy

import "github.com/ducminhle1904/equity-backtest/pkg/types"

// Strategy defines the interface for signal generators. The backtest driver
// treats a strategy as an opaque oracle: it hands over the bar history up to
// and including the current bar and receives a ternary signal back.
type Strategy interface {
	// Signal returns +1 (buy), -1 (sell) or 0 (hold) for the last bar of
	// the supplied history. Implementations must not assume any bars beyond
	// the slice exist.
	Signal(data []types.OHLCV) (int, error)

	// GetName returns the name of the strategy
	GetName() string

	// WarmupPeriod returns the number of bars the strategy needs before it
	// can emit a meaningful signal; earlier bars yield 0.
	WarmupPeriod() int
}

// Clamp normalizes a combined signal score to the ternary domain.
func Clamp(score int) int {
	if score > 0 {
		return 1
	}
	if score < 0 {
		return -1
	}
	return 0
}
