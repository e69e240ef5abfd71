package portfolio

import (
	"time"

	"github.com/ducminhle1904/equity-backtest/internal/simerr"
)

// CommissionModel computes the fee charged on both entry and exit:
// max(FlatFee, trade value × Rate).
type CommissionModel struct {
	FlatFee float64
	Rate    float64
}

// DefaultCommission is $5 per trade or 0.1% of trade value, whichever is greater.
var DefaultCommission = CommissionModel{FlatFee: 5.0, Rate: 0.001}

// Calculate returns the commission for a given trade value.
func (c CommissionModel) Calculate(tradeValue float64) float64 {
	commission := tradeValue * c.Rate
	if commission < c.FlatFee {
		commission = c.FlatFee
	}
	return commission
}

// Ledger owns cash, the open-position set, the trade log, and the snapshot
// history. It is the only component allowed to mutate monetary state, and it
// is not safe for concurrent mutation from multiple logical simulations: each
// parallel run must own a private Ledger.
type Ledger struct {
	cash       float64
	positions  map[string]*Position
	trades     []Trade
	history    []Snapshot
	commission CommissionModel
}

// NewLedger creates a ledger holding initialCash and seeds the snapshot
// history with one row so cumulative returns have a baseline.
func NewLedger(initialCash float64, commission CommissionModel) *Ledger {
	l := &Ledger{
		cash:       initialCash,
		positions:  make(map[string]*Position),
		commission: commission,
	}
	l.history = append(l.history, Snapshot{
		Cash:       initialCash,
		TotalValue: initialCash,
		ReturnPct:  0,
	})
	return l
}

// SeedTimestamp stamps the initial snapshot so the equity curve aligns with
// the first bar of the price series. Only valid before any trade is applied.
func (l *Ledger) SeedTimestamp(ts time.Time) {
	if len(l.history) == 1 && len(l.trades) == 0 {
		l.history[0].Timestamp = ts
	}
}

// Cash returns the current cash balance.
func (l *Ledger) Cash() float64 { return l.cash }

// Position returns a copy of the open position for ticker, if any. Positions
// are never handed out by reference; all mutation goes through ApplyTrade.
func (l *Ledger) Position(ticker string) (Position, bool) {
	p, ok := l.positions[ticker]
	if !ok {
		return Position{}, false
	}
	return *p, true
}

// OpenPositions returns copies of all open positions keyed by ticker.
func (l *Ledger) OpenPositions() map[string]Position {
	out := make(map[string]Position, len(l.positions))
	for t, p := range l.positions {
		out[t] = *p
	}
	return out
}

// NumOpenPositions returns the number of distinct tickers currently held.
func (l *Ledger) NumOpenPositions() int { return len(l.positions) }

// Trades returns the full trade log, rejected attempts included.
func (l *Ledger) Trades() []Trade { return l.trades }

// History returns the snapshot history forming the equity curve.
func (l *Ledger) History() []Snapshot { return l.history }

// Value returns the point-in-time valuation. ReturnPct is cumulative against
// the first snapshot's total value, not incremental against the previous one.
func (l *Ledger) Value() Valuation {
	positionsValue := 0.0
	for _, p := range l.positions {
		positionsValue += float64(p.Quantity) * p.CurrentPrice
	}
	totalValue := l.cash + positionsValue

	initial := l.history[0].TotalValue
	returnPct := 0.0
	if initial > 0 {
		returnPct = (totalValue/initial - 1) * 100
	}

	return Valuation{
		Cash:           l.cash,
		PositionsValue: positionsValue,
		TotalValue:     totalValue,
		ReturnPct:      returnPct,
	}
}

// MarkToMarket updates current price, value and unrealized P&L for every open
// position whose ticker has a new price.
func (l *Ledger) MarkToMarket(prices map[string]float64) {
	for ticker, p := range l.positions {
		if price, ok := prices[ticker]; ok {
			p.markPrice(price)
		}
	}
}

// SetRiskLevels records the stop-loss and take-profit levels on an open
// position. Levels are computed by the risk evaluator at entry time.
func (l *Ledger) SetRiskLevels(ticker string, stopLoss, takeProfit float64) error {
	p, ok := l.positions[ticker]
	if !ok {
		return simerr.Newf(simerr.CategoryInsufficientPosition, "ledger", "no open position for %s", ticker)
	}
	p.StopLoss = stopLoss
	p.TakeProfit = takeProfit
	return nil
}

// ApplyTrade is the sole mutator of cash and positions. On success it appends
// a Trade record and a Snapshot. On failure it returns a categorized error
// and leaves cash and positions untouched; callers wanting an audit entry use
// RecordRejected.
func (l *Ledger) ApplyTrade(ticker string, action Action, quantity int, price float64, ts time.Time, reason string) (Trade, error) {
	if quantity <= 0 {
		return Trade{}, simerr.Newf(simerr.CategoryInvalidQuantity, "ledger",
			"invalid quantity %d for %s", quantity, ticker)
	}

	tradeValue := float64(quantity) * price
	commission := l.commission.Calculate(tradeValue)

	trade := Trade{
		Timestamp:  ts,
		Ticker:     ticker,
		Action:     action,
		Quantity:   quantity,
		Price:      price,
		Value:      tradeValue,
		Commission: commission,
		Reason:     reason,
		Status:     StatusSuccess,
	}

	switch action {
	case ActionBuy:
		totalCost := tradeValue + commission
		if l.cash < totalCost {
			return Trade{}, simerr.Newf(simerr.CategoryInsufficientFunds, "ledger",
				"buy %d %s @ %.2f needs %.2f, cash %.2f", quantity, ticker, price, totalCost, l.cash)
		}

		l.cash -= totalCost

		if p, ok := l.positions[ticker]; ok {
			p.Quantity += quantity
			p.CostBasis += tradeValue
			p.AvgPrice = p.CostBasis / float64(p.Quantity)
			p.LastUpdated = ts
			p.markPrice(price)
		} else {
			p := &Position{
				Ticker:      ticker,
				Quantity:    quantity,
				CostBasis:   tradeValue,
				AvgPrice:    price,
				Direction:   DirectionLong,
				EntryTime:   ts,
				LastUpdated: ts,
			}
			p.markPrice(price)
			l.positions[ticker] = p
		}

	case ActionSell:
		p, ok := l.positions[ticker]
		if !ok || p.Quantity < quantity {
			held := 0
			if ok {
				held = p.Quantity
			}
			return Trade{}, simerr.Newf(simerr.CategoryInsufficientPosition, "ledger",
				"sell %d %s exceeds held quantity %d", quantity, ticker, held)
		}

		l.cash += tradeValue - commission

		costBasis := p.AvgPrice * float64(quantity)
		realized := tradeValue - costBasis - commission
		trade.RealizedPnL = realized
		trade.HasRealizedPnL = true
		if costBasis > 0 {
			trade.RealizedPnLPct = realized / costBasis * 100
		}

		if p.Quantity == quantity {
			delete(l.positions, ticker)
		} else {
			p.Quantity -= quantity
			p.CostBasis -= costBasis
			p.LastUpdated = ts
			p.markPrice(price)
		}

	default:
		return Trade{}, simerr.Newf(simerr.CategoryInvalidSignal, "ledger", "unknown action %q", action)
	}

	l.trades = append(l.trades, trade)
	l.appendSnapshot(ts)
	return trade, nil
}

// RecordRejected appends an error-status trade to the log without mutating
// cash or positions, so failed attempts remain visible in the audit trail.
func (l *Ledger) RecordRejected(ticker string, action Action, quantity int, price float64, ts time.Time, reason, message string) Trade {
	tradeValue := float64(quantity) * price
	trade := Trade{
		Timestamp: ts,
		Ticker:    ticker,
		Action:    action,
		Quantity:  quantity,
		Price:     price,
		Value:     tradeValue,
		Reason:    reason,
		Status:    StatusError,
		Message:   message,
	}
	l.trades = append(l.trades, trade)
	return trade
}

// TakeSnapshot appends a snapshot of the current valuation, used by the
// driver to close out the equity curve after the last bar.
func (l *Ledger) TakeSnapshot(ts time.Time) Snapshot {
	return l.appendSnapshot(ts)
}

func (l *Ledger) appendSnapshot(ts time.Time) Snapshot {
	v := l.Value()
	snap := Snapshot{
		Timestamp:      ts,
		Cash:           v.Cash,
		PositionsValue: v.PositionsValue,
		TotalValue:     v.TotalValue,
		ReturnPct:      v.ReturnPct,
	}
	l.history = append(l.history, snap)
	return snap
}
