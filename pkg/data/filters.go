package data

import (
	"time"

	"github.com/ducminhle1904/equity-backtest/pkg/types"
)

// RangeFilter implements Filter with simple slice trimming
type RangeFilter struct{}

// NewRangeFilter creates a new range filter
func NewRangeFilter() *RangeFilter {
	return &RangeFilter{}
}

// FilterByPeriod keeps bars from the trailing period, anchored at the last bar
func (f *RangeFilter) FilterByPeriod(data []types.OHLCV, period time.Duration) []types.OHLCV {
	if len(data) == 0 || period <= 0 {
		return data
	}

	cutoff := data[len(data)-1].Timestamp.Add(-period)
	for i, bar := range data {
		if !bar.Timestamp.Before(cutoff) {
			return data[i:]
		}
	}
	return nil
}

// FilterByDateRange keeps bars within [start, end] inclusive. Zero bounds are
// open on that side.
func (f *RangeFilter) FilterByDateRange(data []types.OHLCV, start, end time.Time) []types.OHLCV {
	var out []types.OHLCV
	for _, bar := range data {
		if !start.IsZero() && bar.Timestamp.Before(start) {
			continue
		}
		if !end.IsZero() && bar.Timestamp.After(end) {
			continue
		}
		out = append(out, bar)
	}
	return out
}
