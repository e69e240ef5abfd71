package indicators

import (
	"errors"
	"math"

	"github.com/ducminhle1904/equity-backtest/pkg/types"
)

// ATR represents the Average True Range technical indicator.
// ATR measures market volatility and feeds volatility-scaled position sizing.
type ATR struct {
	period      int
	ema         *EMA // EMA smoothing of the true range (Wilder's smoothing)
	lastClose   float64
	initialized bool
}

// NewATR creates a new ATR indicator
func NewATR(period int) *ATR {
	return &ATR{
		period: period,
		ema:    NewEMA(period),
	}
}

// Calculate calculates the ATR value. After the initial pass it only consumes
// the latest bar, so feeding it growing prefixes of a series is cheap and
// never looks ahead of the last bar supplied.
func (a *ATR) Calculate(data []types.OHLCV) (float64, error) {
	if len(data) < a.period+1 {
		return 0, errors.New("insufficient data points for ATR calculation")
	}

	if !a.initialized {
		return a.initialCalculation(data)
	}

	return a.incrementalCalculation(data)
}

// initialCalculation builds up the smoothed true range from the full history
func (a *ATR) initialCalculation(data []types.OHLCV) (float64, error) {
	for i := 0; i < len(data); i++ {
		candle := data[i]

		var trueRange float64
		if i > 0 {
			trueRange = a.calculateTrueRange(candle, a.lastClose)
		} else {
			trueRange = candle.High - candle.Low // First candle
		}

		a.ema.UpdateSingle(trueRange)
		a.lastClose = candle.Close
	}

	a.initialized = true
	return a.ema.GetLastValue(), nil
}

// incrementalCalculation updates ATR with the latest data point
func (a *ATR) incrementalCalculation(data []types.OHLCV) (float64, error) {
	if len(data) == 0 {
		return a.ema.GetLastValue(), nil
	}

	latest := data[len(data)-1]
	trueRange := a.calculateTrueRange(latest, a.lastClose)
	atrValue := a.ema.UpdateSingle(trueRange)

	a.lastClose = latest.Close
	return atrValue, nil
}

// calculateTrueRange calculates the True Range for a given candle
func (a *ATR) calculateTrueRange(current types.OHLCV, prevClose float64) float64 {
	// True Range = max(High-Low, abs(High-PrevClose), abs(Low-PrevClose))
	hl := current.High - current.Low
	hc := math.Abs(current.High - prevClose)
	lc := math.Abs(current.Low - prevClose)

	return math.Max(hl, math.Max(hc, lc))
}

// GetName returns the indicator name
func (a *ATR) GetName() string {
	return "ATR"
}

// GetRequiredPeriods returns the minimum number of periods needed
func (a *ATR) GetRequiredPeriods() int {
	return a.period + 1
}

// GetLastValue returns the last calculated ATR value
func (a *ATR) GetLastValue() float64 {
	return a.ema.GetLastValue()
}

// ResetState resets the ATR internal state for new data periods
func (a *ATR) ResetState() {
	a.ema.ResetState()
	a.lastClose = 0.0
	a.initialized = false
}
