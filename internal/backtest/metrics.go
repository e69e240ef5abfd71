package backtest

import (
	"math"

	"github.com/ducminhle1904/equity-backtest/internal/portfolio"
	"github.com/ducminhle1904/equity-backtest/pkg/types"
)

// tradingDaysPerYear scales daily volatility to an annual figure.
const tradingDaysPerYear = 252

// buildResults aggregates a finished ledger into the full results struct.
func buildResults(ticker, strategyName string, bars []types.OHLCV, ledger *portfolio.Ledger) *Results {
	history := ledger.History()
	initialCapital := history[0].TotalValue
	finalValue := history[len(history)-1].TotalValue

	curve := buildEquityCurve(bars, history, initialCapital)

	r := &Results{
		Ticker:         ticker,
		StrategyName:   strategyName,
		StartDate:      bars[0].Timestamp,
		EndDate:        bars[len(bars)-1].Timestamp,
		InitialCapital: initialCapital,
		FinalValue:     finalValue,
		Trades:         ledger.Trades(),
		Snapshots:      history,
		EquityCurve:    curve,
		OpenPositions:  ledger.OpenPositions(),
	}

	if initialCapital > 0 {
		r.TotalReturnPct = (finalValue/initialCapital - 1) * 100
	}
	if first := curve[0].Benchmark; first > 0 {
		r.BenchmarkReturnPct = (curve[len(curve)-1].Benchmark/first - 1) * 100
	}

	days := r.EndDate.Sub(r.StartDate).Hours() / 24
	r.AnnualizedReturnPct = annualizedReturn(r.TotalReturnPct/100, days) * 100
	r.AnnualizedVolatilityPct = annualizedVolatility(curve) * 100

	if r.AnnualizedVolatilityPct > 0 {
		r.SharpeRatio = r.AnnualizedReturnPct / r.AnnualizedVolatilityPct
	}

	r.MaxDrawdownPct = maxDrawdown(curve) * 100

	computeTradeStats(r)

	return r
}

// annualizedReturn compounds a total return over the elapsed calendar days to
// a yearly rate. Runs shorter than a day are reported unannualized.
func annualizedReturn(totalReturn, days float64) float64 {
	if days <= 0 {
		return totalReturn
	}
	return math.Pow(1+totalReturn, 365.25/days) - 1
}

// annualizedVolatility is the sample standard deviation of day-over-day
// strategy returns scaled by the square root of trading days per year.
func annualizedVolatility(curve []EquityPoint) float64 {
	returns := make([]float64, 0, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		prev := curve[i-1].Strategy
		if prev > 0 {
			returns = append(returns, curve[i].Strategy/prev-1)
		}
	}
	if len(returns) < 2 {
		return 0
	}

	mean := 0.0
	for _, ret := range returns {
		mean += ret
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, ret := range returns {
		variance += (ret - mean) * (ret - mean)
	}
	variance /= float64(len(returns) - 1)

	return math.Sqrt(variance) * math.Sqrt(tradingDaysPerYear)
}

// maxDrawdown returns the deepest peak-to-trough decline of the strategy
// curve as a negative fraction, or 0 if the curve never declines.
func maxDrawdown(curve []EquityPoint) float64 {
	peak := curve[0].Strategy
	worst := 0.0
	for _, p := range curve {
		if p.Strategy > peak {
			peak = p.Strategy
		}
		if peak > 0 {
			dd := (p.Strategy - peak) / peak
			if dd < worst {
				worst = dd
			}
		}
	}
	return worst
}

// computeTradeStats derives win/loss statistics from completed sells. When a
// sell carries no recorded realized P&L it is reconstructed against the most
// recent prior successful buy of the same ticker.
func computeTradeStats(r *Results) {
	lastBuyPrice := make(map[string]float64)

	var pnls []float64
	for _, t := range r.Trades {
		if t.Status != portfolio.StatusSuccess {
			continue
		}
		switch t.Action {
		case portfolio.ActionBuy:
			lastBuyPrice[t.Ticker] = t.Price
		case portfolio.ActionSell:
			pnl := t.RealizedPnL
			if !t.HasRealizedPnL {
				if buyPrice, ok := lastBuyPrice[t.Ticker]; ok {
					pnl = (t.Price-buyPrice)*float64(t.Quantity) - t.Commission
				} else {
					continue
				}
			}
			pnls = append(pnls, pnl)
		}
	}

	r.TotalTrades = len(pnls)
	if r.TotalTrades == 0 {
		return
	}

	var grossWin, grossLoss float64
	for _, pnl := range pnls {
		if pnl > 0 {
			r.WinningTrades++
			grossWin += pnl
		} else {
			r.LosingTrades++
			grossLoss += -pnl
		}
	}

	r.WinRatePct = float64(r.WinningTrades) / float64(r.TotalTrades) * 100
	if r.WinningTrades > 0 {
		r.AvgWin = grossWin / float64(r.WinningTrades)
	}
	if r.LosingTrades > 0 {
		r.AvgLoss = -grossLoss / float64(r.LosingTrades)
	}

	if grossLoss == 0 {
		r.ProfitFactor = math.Inf(1)
	} else {
		r.ProfitFactor = grossWin / grossLoss
	}
}
