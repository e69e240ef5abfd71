package risk

// Action is what the evaluator wants done with the traded ticker this bar.
type Action string

const (
	ActionHold   Action = "hold"
	ActionBuy    Action = "buy"
	ActionSell   Action = "sell"
	ActionReduce Action = "reduce"
)

// Decision carries the evaluator's instruction plus the parameters the
// execution adapter needs. Price is the intended execution price: the bar
// close for signal entries, the exact trigger level for stop/target exits.
type Decision struct {
	Action     Action
	Reason     string
	Quantity   int
	Price      float64
	StopLoss   float64
	TakeProfit float64
}

// Config holds the risk thresholds.
type Config struct {
	MaxPositionSize  float64 // max position value as fraction of portfolio
	StopLossPct      float64 // stop distance from entry price
	TakeProfitPct    float64 // target distance from entry price
	MaxPortfolioRisk float64 // max risk per trade as fraction of portfolio
}

// DefaultConfig mirrors the standard thresholds: 10% position size, 5% stop,
// 10% target, 2% per-trade risk.
func DefaultConfig() Config {
	return Config{
		MaxPositionSize:  0.10,
		StopLossPct:      0.05,
		TakeProfitPct:    0.10,
		MaxPortfolioRisk: 0.02,
	}
}
