package reporting

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/ducminhle1904/equity-backtest/internal/portfolio"
)

// TradeLogFormatter streams executed trades as fixed-width rows, printing the
// column header once before the first row. The headerPrinted flag is the only
// state; a fresh formatter starts a fresh log.
type TradeLogFormatter struct {
	out           io.Writer
	headerPrinted bool
	mu            sync.Mutex
}

// NewTradeLogFormatter creates a formatter writing to stdout
func NewTradeLogFormatter() *TradeLogFormatter {
	return &TradeLogFormatter{out: os.Stdout}
}

// NewTradeLogFormatterWithWriter creates a formatter writing to w
func NewTradeLogFormatterWithWriter(w io.Writer) *TradeLogFormatter {
	return &TradeLogFormatter{out: w}
}

// LogTrade prints one executed trade with the resulting position state and
// post-trade portfolio valuation. Implements the engine's trade logger hook.
func (f *TradeLogFormatter) LogTrade(trade portfolio.Trade, pos *portfolio.Position, v portfolio.Valuation) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.headerPrinted {
		fmt.Fprintf(f.out, "%-12s %-6s %6s %-8s %10s %12s %10s %-20s %12s\n",
			"DATE", "SIDE", "QTY", "TICKER", "PRICE", "VALUE", "FEE", "REASON", "TOTAL")
		fmt.Fprintln(f.out, "------------------------------------------------------------------------------------------------------")
		f.headerPrinted = true
	}

	fmt.Fprintf(f.out, "%-12s %-6s %6d %-8s %10.2f %12.2f %10.2f %-20s %12.2f",
		trade.Timestamp.Format("2006-01-02"),
		trade.Action,
		trade.Quantity,
		trade.Ticker,
		trade.Price,
		trade.Value,
		trade.Commission,
		trade.Reason,
		v.TotalValue,
	)

	if trade.HasRealizedPnL {
		fmt.Fprintf(f.out, "  pnl=%.2f (%.2f%%)", trade.RealizedPnL, trade.RealizedPnLPct)
	} else if pos != nil {
		fmt.Fprintf(f.out, "  held=%d@%.2f", pos.Quantity, pos.AvgPrice)
	}

	fmt.Fprintln(f.out)
}
