package portfolio

import "time"

// Action is the side of an executed order.
type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
)

// TradeStatus marks whether an order mutated the ledger or was rejected.
type TradeStatus string

const (
	StatusSuccess TradeStatus = "success"
	StatusError   TradeStatus = "error"
)

// Trade is an immutable record appended to the trade log on every executed
// or rejected order. Realized P&L is computed at execution time from the
// position's running average price, not per-lot FIFO.
type Trade struct {
	Timestamp      time.Time
	Ticker         string
	Action         Action
	Quantity       int
	Price          float64
	Value          float64 // Quantity × Price
	Commission     float64
	Reason         string
	Status         TradeStatus
	Message        string // populated on rejected trades
	RealizedPnL    float64
	RealizedPnLPct float64
	HasRealizedPnL bool
}

// Snapshot is one row of the equity curve: portfolio state captured after a
// trade (plus one seed row at initialization). Append-only; timestamps are
// monotonically non-decreasing.
type Snapshot struct {
	Timestamp      time.Time
	Cash           float64
	PositionsValue float64
	TotalValue     float64
	ReturnPct      float64
}

// Valuation is a point-in-time view of the portfolio.
type Valuation struct {
	Cash           float64
	PositionsValue float64
	TotalValue     float64
	ReturnPct      float64
}
