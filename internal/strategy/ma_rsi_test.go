package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/equity-backtest/internal/simerr"
	"github.com/ducminhle1904/equity-backtest/pkg/types"
)

func barsFromCloses(closes []float64) []types.OHLCV {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]types.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = types.OHLCV{
			Timestamp: start.AddDate(0, 0, i),
			Open:      c,
			High:      c * 1.01,
			Low:       c * 0.99,
			Close:     c,
			Volume:    1000,
		}
	}
	return bars
}

// TestMACrossRSI_EmptyData tests the invalid-signal error on empty history
func TestMACrossRSI_EmptyData(t *testing.T) {
	s := NewMACrossRSI(DefaultConfig())

	_, err := s.Signal(nil)
	require.Error(t, err)
	assert.Equal(t, simerr.CategoryInvalidSignal, simerr.CategoryOf(err))
}

// TestMACrossRSI_Warmup tests that short histories yield zero without error
func TestMACrossRSI_Warmup(t *testing.T) {
	s := NewMACrossRSI(DefaultConfig())

	closes := make([]float64, s.WarmupPeriod()-1)
	for i := range closes {
		closes[i] = 100.0
	}

	sig, err := s.Signal(barsFromCloses(closes))
	require.NoError(t, err)
	assert.Equal(t, 0, sig)
}

// TestMACrossRSI_FlatSeries tests that constant prices never fire
func TestMACrossRSI_FlatSeries(t *testing.T) {
	s := NewMACrossRSI(DefaultConfig())

	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100.0
	}
	bars := barsFromCloses(closes)

	for i := 1; i < len(bars); i++ {
		sig, err := s.Signal(bars[:i+1])
		require.NoError(t, err)
		assert.Equal(t, 0, sig, "bar %d", i)
	}
}

// TestMACrossRSI_CrossoverFiresOnce tests that a sustained trend only signals
// on the crossing bar, not on every bar of the regime
func TestMACrossRSI_CrossoverFiresOnce(t *testing.T) {
	// Thresholds outside the RSI range isolate the crossover leg
	cfg := Config{FastMA: 2, SlowMA: 4, RSIPeriod: 3, RSIOversold: -1, RSIOverbought: 101}
	s := NewMACrossRSI(cfg)

	// Long decline, then a sharp sustained rally
	closes := []float64{110, 109, 108, 107, 106, 105, 104, 103, 102, 101, 100, 105, 110, 115, 120, 125}
	bars := barsFromCloses(closes)

	fired := 0
	for i := s.WarmupPeriod(); i < len(bars); i++ {
		sig, err := s.Signal(bars[:i+1])
		require.NoError(t, err)
		if sig > 0 {
			fired++
		}
	}
	assert.Equal(t, 1, fired, "buy should fire exactly once on the crossover bar")
}

// TestMACrossRSI_DeathCrossFiresSell tests the downside crossover
func TestMACrossRSI_DeathCrossFiresSell(t *testing.T) {
	cfg := Config{FastMA: 2, SlowMA: 4, RSIPeriod: 3, RSIOversold: -1, RSIOverbought: 101}
	s := NewMACrossRSI(cfg)

	// Rally, then a sharp sustained decline
	closes := []float64{100, 101, 102, 103, 104, 105, 106, 107, 108, 109, 110, 105, 100, 95, 90}
	bars := barsFromCloses(closes)

	fired := 0
	for i := s.WarmupPeriod(); i < len(bars); i++ {
		sig, err := s.Signal(bars[:i+1])
		require.NoError(t, err)
		if sig < 0 {
			fired++
		}
	}
	assert.Equal(t, 1, fired, "sell should fire exactly once on the crossover bar")
}

// TestClamp tests signal score normalization
func TestClamp(t *testing.T) {
	assert.Equal(t, 1, Clamp(2))
	assert.Equal(t, 1, Clamp(1))
	assert.Equal(t, 0, Clamp(0))
	assert.Equal(t, -1, Clamp(-1))
	assert.Equal(t, -1, Clamp(-3))
}

// TestMACrossRSI_WarmupPeriod tests the warmup bound derivation
func TestMACrossRSI_WarmupPeriod(t *testing.T) {
	s := NewMACrossRSI(Config{FastMA: 5, SlowMA: 20, RSIPeriod: 14, RSIOversold: 30, RSIOverbought: 70})
	assert.Equal(t, 21, s.WarmupPeriod())

	s = NewMACrossRSI(Config{FastMA: 3, SlowMA: 5, RSIPeriod: 14, RSIOversold: 30, RSIOverbought: 70})
	assert.Equal(t, 16, s.WarmupPeriod())
}
