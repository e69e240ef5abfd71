package backtest

import (
	"github.com/ducminhle1904/equity-backtest/internal/execution"
	"github.com/ducminhle1904/equity-backtest/internal/indicators"
	"github.com/ducminhle1904/equity-backtest/internal/logger"
	"github.com/ducminhle1904/equity-backtest/internal/monitoring"
	"github.com/ducminhle1904/equity-backtest/internal/portfolio"
	"github.com/ducminhle1904/equity-backtest/internal/risk"
	"github.com/ducminhle1904/equity-backtest/internal/simerr"
	"github.com/ducminhle1904/equity-backtest/internal/strategy"
	"github.com/ducminhle1904/equity-backtest/pkg/types"
)

// Config holds everything an engine needs besides the strategy and data.
type Config struct {
	InitialCash float64
	Commission  portfolio.CommissionModel
	Risk        risk.Config
	Execution   execution.Config
	ATRPeriod   int
}

// DefaultConfig returns the standard configuration: $100k starting cash,
// $5 / 0.1% commission, default risk thresholds and execution caps, 14-period ATR.
func DefaultConfig() Config {
	return Config{
		InitialCash: 100000,
		Commission:  portfolio.DefaultCommission,
		Risk:        risk.DefaultConfig(),
		Execution:   execution.DefaultConfig(),
		ATRPeriod:   14,
	}
}

// TradeLogger receives successful trade executions as they happen, with the
// resulting position (nil when the trade closed it) and the post-trade
// valuation. Reporting packages implement this to stream a live trade log.
type TradeLogger interface {
	LogTrade(trade portfolio.Trade, pos *portfolio.Position, v portfolio.Valuation)
}

// Engine drives one single-threaded simulation over a bar series. Bars are
// processed strictly in order and the strategy only ever sees history up to
// the current bar. One engine handles one ticker; parallel runs each build
// their own engine with a private ledger.
type Engine struct {
	cfg      Config
	strategy strategy.Strategy

	tradeLog   TradeLogger
	sessionLog *logger.Logger
}

// NewEngine creates a backtest engine for the given strategy.
func NewEngine(cfg Config, strat strategy.Strategy) *Engine {
	return &Engine{cfg: cfg, strategy: strat}
}

// SetTradeLogger attaches an optional per-trade logger.
func (e *Engine) SetTradeLogger(tl TradeLogger) { e.tradeLog = tl }

// SetSessionLogger attaches an optional session file logger.
func (e *Engine) SetSessionLogger(l *logger.Logger) { e.sessionLog = l }

// Run simulates the strategy over the bar series and returns aggregated
// results. Fewer than two bars is a structural data error and aborts the run;
// per-bar signal or trade failures are logged and skipped.
func (e *Engine) Run(ticker string, data []types.OHLCV) (*Results, error) {
	if len(data) < 2 {
		return nil, simerr.Newf(simerr.CategoryData, "engine",
			"need at least 2 bars to simulate, got %d", len(data))
	}

	ledger := portfolio.NewLedger(e.cfg.InitialCash, e.cfg.Commission)
	ledger.SeedTimestamp(data[0].Timestamp)

	evaluator := risk.NewEvaluator(e.cfg.Risk)
	executor := execution.NewExecutor(ledger, e.cfg.Execution)
	atr := indicators.NewATR(e.cfg.ATRPeriod)

	if e.sessionLog != nil {
		e.sessionLog.Info("run started: ticker=%s strategy=%s bars=%d cash=%.2f",
			ticker, e.strategy.GetName(), len(data), e.cfg.InitialCash)
	}

	for i := 1; i < len(data); i++ {
		bar := data[i]
		history := data[:i+1]

		ledger.MarkToMarket(map[string]float64{ticker: bar.Close})

		signal, err := e.strategy.Signal(history)
		if err != nil {
			monitoring.RecordError(simerr.Reason(simerr.CategoryOf(err)))
			if e.sessionLog != nil {
				e.sessionLog.Warning("signal failed at bar %d: %v", i, err)
			}
			continue
		}

		atrValue, atrErr := atr.Calculate(history)
		atrValid := atrErr == nil

		var pos *portfolio.Position
		if p, ok := ledger.Position(ticker); ok {
			pos = &p
		}

		decision := evaluator.Evaluate(signal, bar, pos, ledger.Value().TotalValue, atrValue, atrValid)
		result := executor.Process(ticker, decision, bar.Timestamp)

		switch result.Status {
		case execution.StatusSuccess:
			e.recordSuccess(ticker, ledger, result)
		case execution.StatusError:
			monitoring.RecordError(result.Reason)
			if e.sessionLog != nil {
				e.sessionLog.Warning("trade rejected at bar %d: %s", i, result.Reason)
			}
		}
	}

	ledger.TakeSnapshot(data[len(data)-1].Timestamp)

	results := buildResults(ticker, e.strategy.GetName(), data, ledger)
	monitoring.RecordRun(ticker, results.TotalReturnPct)

	if e.sessionLog != nil {
		e.sessionLog.Info("run finished: final=%.2f return=%.2f%% trades=%d",
			results.FinalValue, results.TotalReturnPct, results.TotalTrades)
	}

	return results, nil
}

func (e *Engine) recordSuccess(ticker string, ledger *portfolio.Ledger, result execution.Result) {
	trade := result.Trade
	monitoring.RecordTrade(ticker, string(trade.Action), trade.Value)

	if e.sessionLog != nil {
		e.sessionLog.Trade("%s %d %s @ %.2f (%s) commission=%.2f",
			trade.Action, trade.Quantity, ticker, trade.Price, trade.Reason, trade.Commission)
	}

	if e.tradeLog != nil {
		var pos *portfolio.Position
		if p, ok := ledger.Position(ticker); ok {
			pos = &p
		}
		e.tradeLog.LogTrade(*trade, pos, ledger.Value())
	}
}
