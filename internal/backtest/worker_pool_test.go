package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRunAll tests parallel runs over independent tickers
func TestRunAll(t *testing.T) {
	flat := make([]float64, 30)
	for i := range flat {
		flat[i] = 100.0
	}

	jobs := []Job{
		{Ticker: "AAPL", Data: dailyBars(flat...), Config: DefaultConfig(), Strategy: &scriptedStrategy{signals: map[int]int{1: 1}}},
		{Ticker: "MSFT", Data: dailyBars(flat...), Config: DefaultConfig(), Strategy: &scriptedStrategy{}},
		{Ticker: "GOOG", Data: dailyBars(100.0), Config: DefaultConfig(), Strategy: &scriptedStrategy{}},
	}

	results := RunAll(jobs, 2)
	require.Len(t, results, 3)

	byTicker := make(map[string]JobResult, len(results))
	for _, r := range results {
		byTicker[r.Ticker] = r
	}

	// AAPL buys and holds to the end
	require.NoError(t, byTicker["AAPL"].Error)
	assert.Contains(t, byTicker["AAPL"].Results.OpenPositions, "AAPL")

	// MSFT never trades
	require.NoError(t, byTicker["MSFT"].Error)
	assert.Empty(t, byTicker["MSFT"].Results.Trades)

	// GOOG has too little data and fails without sinking the batch
	assert.Error(t, byTicker["GOOG"].Error)
}

// TestProgressTracker tests completion accounting
func TestProgressTracker(t *testing.T) {
	pt := NewProgressTracker(4)

	pt.Increment()
	pt.Increment()

	completed, total, progress, _ := pt.GetProgress()
	assert.Equal(t, 2, completed)
	assert.Equal(t, 4, total)
	assert.InDelta(t, 50.0, progress, 1e-9)
}
