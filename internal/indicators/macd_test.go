package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestMACD_FlatPrices tests that constant prices produce zero lines
func TestMACD_FlatPrices(t *testing.T) {
	macd := NewMACD(12, 26, 9)

	prices := make([]float64, 60)
	for i := range prices {
		prices[i] = 100.0
	}

	macdLine, signalLine, histogram := macd.Calculate(prices)
	assert.InDelta(t, 0.0, macdLine, 1e-9)
	assert.InDelta(t, 0.0, signalLine, 1e-9)
	assert.InDelta(t, 0.0, histogram, 1e-9)
}

// TestMACD_Uptrend tests that a sustained rally pushes the MACD line positive
func TestMACD_Uptrend(t *testing.T) {
	macd := NewMACD(12, 26, 9)

	prices := make([]float64, 60)
	for i := range prices {
		prices[i] = 100.0 + float64(i)
	}

	macdLine, _, _ := macd.Calculate(prices)
	assert.Greater(t, macdLine, 0.0)
}

// TestMACD_InsufficientData tests the slow-period guard
func TestMACD_InsufficientData(t *testing.T) {
	macd := NewMACD(12, 26, 9)

	macdLine, signalLine, histogram := macd.Calculate([]float64{1, 2, 3})
	assert.Zero(t, macdLine)
	assert.Zero(t, signalLine)
	assert.Zero(t, histogram)
	assert.Equal(t, 26, macd.GetRequiredPeriods())
}
