package execution

import (
	"time"

	"github.com/ducminhle1904/equity-backtest/internal/portfolio"
	"github.com/ducminhle1904/equity-backtest/internal/risk"
	"github.com/ducminhle1904/equity-backtest/internal/simerr"
)

// Status tags the outcome of processing a decision. A no-action outcome is a
// normal result, not an error.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusNoAction Status = "no_action"
	StatusError    Status = "error"
)

// Result is the tagged outcome of one decision.
type Result struct {
	Status Status
	Reason string
	Trade  *portfolio.Trade
}

// Config holds the portfolio-level execution caps.
type Config struct {
	MaxOpenPositions int     // max number of concurrently held distinct tickers
	MaxAssetExposure float64 // max single-asset notional as fraction of portfolio
}

// DefaultConfig mirrors the standard caps: 5 open positions, 20% per asset.
func DefaultConfig() Config {
	return Config{
		MaxOpenPositions: 5,
		MaxAssetExposure: 0.20,
	}
}

// Executor translates risk decisions into ledger mutations, enforcing the
// position-count and single-asset exposure caps on the way in.
type Executor struct {
	ledger *portfolio.Ledger
	cfg    Config
}

// NewExecutor creates an Executor bound to one ledger.
func NewExecutor(ledger *portfolio.Ledger, cfg Config) *Executor {
	return &Executor{ledger: ledger, cfg: cfg}
}

// Process applies a decision against the ledger. Requested buy quantities are
// downgraded when they would breach the exposure cap; opening a new ticker at
// the position cap is a no-action. Ledger rejections are recorded as
// error-status trades and never mutate monetary state.
func (x *Executor) Process(ticker string, d risk.Decision, ts time.Time) Result {
	switch d.Action {
	case risk.ActionHold:
		return Result{Status: StatusNoAction, Reason: d.Reason}

	case risk.ActionBuy:
		return x.processBuy(ticker, d, ts)

	case risk.ActionSell:
		return x.apply(ticker, portfolio.ActionSell, d, ts)

	case risk.ActionReduce:
		// A reduce is a partial sell sized by the evaluator.
		return x.apply(ticker, portfolio.ActionSell, d, ts)

	default:
		return Result{Status: StatusError, Reason: "invalid_signal"}
	}
}

func (x *Executor) processBuy(ticker string, d risk.Decision, ts time.Time) Result {
	_, held := x.ledger.Position(ticker)
	if !held && x.ledger.NumOpenPositions() >= x.cfg.MaxOpenPositions {
		return Result{Status: StatusNoAction, Reason: "max_positions_reached"}
	}

	quantity := d.Quantity
	if d.Price > 0 {
		maxPositionValue := x.ledger.Value().TotalValue * x.cfg.MaxAssetExposure
		if float64(quantity)*d.Price > maxPositionValue {
			quantity = int(maxPositionValue / d.Price)
			if quantity < 1 {
				return Result{Status: StatusNoAction, Reason: "insufficient_funds"}
			}
		}
	}

	capped := d
	capped.Quantity = quantity
	result := x.apply(ticker, portfolio.ActionBuy, capped, ts)

	// Stop/target levels are only attached on fresh signal entries.
	if result.Status == StatusSuccess && d.Reason == "signal" {
		_ = x.ledger.SetRiskLevels(ticker, d.StopLoss, d.TakeProfit)
	}

	return result
}

func (x *Executor) apply(ticker string, action portfolio.Action, d risk.Decision, ts time.Time) Result {
	trade, err := x.ledger.ApplyTrade(ticker, action, d.Quantity, d.Price, ts, d.Reason)
	if err != nil {
		reason := simerr.Reason(simerr.CategoryOf(err))
		rejected := x.ledger.RecordRejected(ticker, action, d.Quantity, d.Price, ts, reason, err.Error())
		return Result{Status: StatusError, Reason: reason, Trade: &rejected}
	}
	return Result{Status: StatusSuccess, Reason: d.Reason, Trade: &trade}
}
