package risk

import (
	"math"

	"github.com/ducminhle1904/equity-backtest/internal/portfolio"
	"github.com/ducminhle1904/equity-backtest/pkg/types"
)

// exposureBuffer is the hysteresis band on the exposure check; positions are
// only reduced once they exceed the limit by 10%, to avoid flip-flopping.
const exposureBuffer = 1.10

// minPrice guards position sizing against division by a near-zero price.
const minPrice = 1e-8

// Evaluator turns a raw strategy signal into a concrete risk-managed
// decision. All inputs are plain scalars; the evaluator holds no per-run
// state, so one instance may serve many sequential bars but each parallel
// run should construct its own.
type Evaluator struct {
	cfg Config
}

// NewEvaluator creates an Evaluator with the given thresholds.
func NewEvaluator(cfg Config) *Evaluator {
	return &Evaluator{cfg: cfg}
}

// Evaluate decides what to do for the current bar. Transitions are checked in
// strict order while a position is open: exit (stop/target, at the trigger
// price) first, then exposure, then hold. Entries are only considered when no
// position is open and the signal is non-zero. atrValid distinguishes "no ATR
// supplied" from a legitimate zero-volatility reading.
func (e *Evaluator) Evaluate(signal int, bar types.OHLCV, pos *portfolio.Position, portfolioValue float64, atr float64, atrValid bool) Decision {
	result := Decision{
		Action: ActionHold,
		Reason: "no_signal",
		Price:  bar.Close,
	}

	if pos != nil {
		if d, triggered := e.checkLimits(pos, bar, portfolioValue); triggered {
			return d
		}
		result.Reason = "no_trigger"
		return result
	}

	if signal == 0 {
		return result
	}

	price := bar.Close
	quantity := e.positionSize(price, portfolioValue, atr, atrValid)
	if quantity <= 0 {
		return result
	}

	stopLoss, takeProfit := e.stopAndTarget(price, signal)

	action := ActionBuy
	if signal < 0 {
		action = ActionSell
	}

	return Decision{
		Action:     action,
		Reason:     "signal",
		Quantity:   quantity,
		Price:      price,
		StopLoss:   stopLoss,
		TakeProfit: takeProfit,
	}
}

// checkLimits evaluates exit and exposure rules for an open position. Exits
// execute at the exact trigger level, not the bar close, and take priority
// over any new entry signal.
func (e *Evaluator) checkLimits(pos *portfolio.Position, bar types.OHLCV, portfolioValue float64) (Decision, bool) {
	price := bar.Close

	if pos.Direction == portfolio.DirectionLong {
		if price <= pos.StopLoss {
			return Decision{Action: ActionSell, Reason: "stop_loss", Quantity: pos.Quantity, Price: pos.StopLoss}, true
		}
		if price >= pos.TakeProfit {
			return Decision{Action: ActionSell, Reason: "take_profit", Quantity: pos.Quantity, Price: pos.TakeProfit}, true
		}
	} else {
		if price >= pos.StopLoss {
			return Decision{Action: ActionBuy, Reason: "stop_loss", Quantity: pos.Quantity, Price: pos.StopLoss}, true
		}
		if price <= pos.TakeProfit {
			return Decision{Action: ActionBuy, Reason: "take_profit", Quantity: pos.Quantity, Price: pos.TakeProfit}, true
		}
	}

	positionValue := float64(pos.Quantity) * price
	maxAllowed := portfolioValue * e.cfg.MaxPositionSize
	if positionValue > maxAllowed*exposureBuffer && price > minPrice {
		excess := positionValue - maxAllowed
		reduceBy := int(excess / price)
		if reduceBy > 0 {
			return Decision{Action: ActionReduce, Reason: "position_size_limit", Quantity: reduceBy, Price: price}, true
		}
	}

	return Decision{}, false
}

// positionSize computes how many shares to open. The portfolio-fraction cap
// is scaled down by 1/(1+ATR/price) when volatility is supplied; an ATR of
// exactly zero is a valid reading and leaves the size unchanged.
func (e *Evaluator) positionSize(price, portfolioValue, atr float64, atrValid bool) int {
	if math.Abs(price) < minPrice || price <= 0 {
		return 0
	}

	maxPositionValue := portfolioValue * e.cfg.MaxPositionSize
	if atrValid && atr >= 0 {
		maxPositionValue *= 1.0 / (1.0 + atr/price)
	}

	quantity := int(maxPositionValue / price)

	// Never silently drop an affordable minimal position.
	if quantity == 0 && maxPositionValue >= price {
		quantity = 1
	}

	return quantity
}

// stopAndTarget computes direction-aware stop-loss and take-profit levels
// from fixed percentage offsets off the entry price.
func (e *Evaluator) stopAndTarget(entryPrice float64, signal int) (stopLoss, takeProfit float64) {
	if signal > 0 {
		stopLoss = entryPrice * (1 - e.cfg.StopLossPct)
		takeProfit = entryPrice * (1 + e.cfg.TakeProfitPct)
	} else {
		stopLoss = entryPrice * (1 + e.cfg.StopLossPct)
		takeProfit = entryPrice * (1 - e.cfg.TakeProfitPct)
	}
	return stopLoss, takeProfit
}
