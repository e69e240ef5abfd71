package portfolio

import "time"

// Direction indicates which side of the market a position is on. The risk
// rules currently only open long positions, but exits are direction-aware.
type Direction string

const (
	DirectionLong  Direction = "long"
	DirectionShort Direction = "short"
)

// Position is one held ticker, exclusively owned by the Ledger. Quantity is
// always > 0 while the position is present in the open-position set; a
// position that reaches zero quantity is removed, never retained.
type Position struct {
	Ticker           string
	Quantity         int
	CostBasis        float64 // cumulative dollars paid, excludes exit commission
	AvgPrice         float64 // CostBasis / Quantity
	CurrentPrice     float64
	CurrentValue     float64
	UnrealizedPnL    float64
	UnrealizedPnLPct float64
	Direction        Direction
	StopLoss         float64
	TakeProfit       float64
	EntryTime        time.Time
	LastUpdated      time.Time
}

// markPrice refreshes the mark-to-market fields from a new price.
func (p *Position) markPrice(price float64) {
	p.CurrentPrice = price
	p.CurrentValue = float64(p.Quantity) * price
	p.UnrealizedPnL = p.CurrentValue - p.CostBasis
	if p.CostBasis > 0 {
		p.UnrealizedPnLPct = (p.CurrentValue/p.CostBasis - 1) * 100
	} else {
		p.UnrealizedPnLPct = 0
	}
}
