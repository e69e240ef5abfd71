package reporting

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ducminhle1904/equity-backtest/internal/backtest"
)

// ConsoleReporter renders run results as formatted tables
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter creates a reporter writing to stdout
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{out: os.Stdout}
}

// NewConsoleReporterWithWriter creates a reporter writing to w
func NewConsoleReporterWithWriter(w io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: w}
}

// PrintSummary renders the headline metrics of one run
func (r *ConsoleReporter) PrintSummary(results *backtest.Results) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleRounded)
	t.SetTitle(fmt.Sprintf("BACKTEST SUMMARY - %s", results.Ticker))

	t.AppendRows([]table.Row{
		{"Strategy", results.StrategyName},
		{"Period", fmt.Sprintf("%s to %s",
			results.StartDate.Format("2006-01-02"), results.EndDate.Format("2006-01-02"))},
		{"Initial Capital", fmt.Sprintf("$%.2f", results.InitialCapital)},
		{"Final Value", fmt.Sprintf("$%.2f", results.FinalValue)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Total Return", fmt.Sprintf("%.2f%%", results.TotalReturnPct)},
		{"Buy & Hold Return", fmt.Sprintf("%.2f%%", results.BenchmarkReturnPct)},
		{"Annualized Return", fmt.Sprintf("%.2f%%", results.AnnualizedReturnPct)},
		{"Annualized Volatility", fmt.Sprintf("%.2f%%", results.AnnualizedVolatilityPct)},
		{"Sharpe Ratio", fmt.Sprintf("%.2f", results.SharpeRatio)},
		{"Max Drawdown", fmt.Sprintf("%.2f%%", results.MaxDrawdownPct)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Completed Trades", results.TotalTrades},
		{"Win Rate", fmt.Sprintf("%.1f%%", results.WinRatePct)},
		{"Avg Win", fmt.Sprintf("$%.2f", results.AvgWin)},
		{"Avg Loss", fmt.Sprintf("$%.2f", results.AvgLoss)},
		{"Profit Factor", formatProfitFactor(results.ProfitFactor)},
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})

	t.Render()
}

// PrintOpenPositions renders positions still held at the end of the run
func (r *ConsoleReporter) PrintOpenPositions(results *backtest.Results) {
	if len(results.OpenPositions) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("OPEN POSITIONS")
	t.AppendHeader(table.Row{"Ticker", "Qty", "Avg Price", "Current", "Value", "Unrealized P&L"})

	for _, pos := range results.OpenPositions {
		t.AppendRow(table.Row{
			pos.Ticker,
			pos.Quantity,
			fmt.Sprintf("$%.2f", pos.AvgPrice),
			fmt.Sprintf("$%.2f", pos.CurrentPrice),
			fmt.Sprintf("$%.2f", pos.CurrentValue),
			fmt.Sprintf("$%.2f (%.2f%%)", pos.UnrealizedPnL, pos.UnrealizedPnLPct),
		})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})

	t.Render()
}

func formatProfitFactor(pf float64) string {
	if math.IsInf(pf, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.2f", pf)
}
