package backtest

import (
	"time"

	"github.com/ducminhle1904/equity-backtest/internal/portfolio"
)

// EquityPoint is one row of the date-aligned equity curve: strategy value and
// buy-and-hold benchmark value on the same calendar date.
type EquityPoint struct {
	Date      time.Time
	Strategy  float64
	Benchmark float64
}

// Results contains the complete outcome of one backtest run.
type Results struct {
	Ticker       string
	StrategyName string
	StartDate    time.Time
	EndDate      time.Time

	InitialCapital float64
	FinalValue     float64

	TotalReturnPct     float64
	BenchmarkReturnPct float64

	AnnualizedReturnPct     float64
	AnnualizedVolatilityPct float64
	SharpeRatio             float64
	MaxDrawdownPct          float64

	TotalTrades   int
	WinningTrades int
	LosingTrades  int
	WinRatePct    float64
	AvgWin        float64
	AvgLoss       float64
	ProfitFactor  float64

	Trades        []portfolio.Trade
	Snapshots     []portfolio.Snapshot
	EquityCurve   []EquityPoint
	OpenPositions map[string]portfolio.Position
}
