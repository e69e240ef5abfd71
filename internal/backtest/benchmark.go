package backtest

import (
	"sort"
	"time"

	"github.com/ducminhle1904/equity-backtest/internal/portfolio"
	"github.com/ducminhle1904/equity-backtest/pkg/types"
)

// buildEquityCurve aligns the strategy's snapshot history with a buy-and-hold
// benchmark on calendar dates. The date axis is the union of snapshot dates
// and bar dates; where one side has multiple rows per date the first is kept,
// and where a side is missing a date the previous value is carried forward.
func buildEquityCurve(bars []types.OHLCV, history []portfolio.Snapshot, initialCapital float64) []EquityPoint {
	stratByDate := make(map[time.Time]float64)
	for _, snap := range history {
		d := day(snap.Timestamp)
		if _, ok := stratByDate[d]; !ok {
			stratByDate[d] = snap.TotalValue
		}
	}

	// Benchmark holds initialCapital worth of the asset at the first close.
	benchByDate := make(map[time.Time]float64)
	firstClose := bars[0].Close
	for _, bar := range bars {
		d := day(bar.Timestamp)
		if _, ok := benchByDate[d]; !ok && firstClose > 0 {
			benchByDate[d] = initialCapital * bar.Close / firstClose
		}
	}

	dates := make(map[time.Time]struct{}, len(stratByDate)+len(benchByDate))
	for d := range stratByDate {
		dates[d] = struct{}{}
	}
	for d := range benchByDate {
		dates[d] = struct{}{}
	}

	sorted := make([]time.Time, 0, len(dates))
	for d := range dates {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	curve := make([]EquityPoint, 0, len(sorted))
	lastStrat := initialCapital
	lastBench := initialCapital
	for _, d := range sorted {
		if v, ok := stratByDate[d]; ok {
			lastStrat = v
		}
		if v, ok := benchByDate[d]; ok {
			lastBench = v
		}
		curve = append(curve, EquityPoint{Date: d, Strategy: lastStrat, Benchmark: lastBench})
	}
	return curve
}

// day truncates a timestamp to its calendar date.
func day(ts time.Time) time.Time {
	y, m, d := ts.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, ts.Location())
}
