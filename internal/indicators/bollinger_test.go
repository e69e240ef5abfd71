package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestBollingerBands_FlatPrices tests degenerate bands on constant prices
func TestBollingerBands_FlatPrices(t *testing.T) {
	bb := NewBollingerBands(5, 2.0)

	prices := []float64{100, 100, 100, 100, 100}
	upper, middle, lower, bbPercent := bb.Calculate(prices)

	assert.InDelta(t, 100.0, upper, 1e-9)
	assert.InDelta(t, 100.0, middle, 1e-9)
	assert.InDelta(t, 100.0, lower, 1e-9)
	assert.InDelta(t, 50.0, bbPercent, 1e-9)
}

// TestBollingerBands_KnownValues tests band arithmetic on a small window
func TestBollingerBands_KnownValues(t *testing.T) {
	bb := NewBollingerBands(4, 2.0)

	// Mean 25, population stddev sqrt(125) over {10, 20, 30, 40}
	prices := []float64{10, 20, 30, 40}
	upper, middle, lower, bbPercent := bb.Calculate(prices)

	assert.InDelta(t, 25.0, middle, 1e-9)
	assert.InDelta(t, upper-middle, middle-lower, 1e-9)
	assert.Greater(t, upper, middle)
	// Last price near the upper band
	assert.Greater(t, bbPercent, 50.0)
}

// TestBollingerBands_InsufficientData tests the zero-value fallback
func TestBollingerBands_InsufficientData(t *testing.T) {
	bb := NewBollingerBands(20, 2.0)

	upper, middle, lower, bbPercent := bb.Calculate([]float64{1, 2, 3})
	assert.Zero(t, upper)
	assert.Zero(t, middle)
	assert.Zero(t, lower)
	assert.Zero(t, bbPercent)
}
