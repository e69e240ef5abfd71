package reporting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/ducminhle1904/equity-backtest/internal/backtest"
)

// ExcelWriter persists run results as an Excel workbook with a summary sheet,
// a trade sheet and the equity curve.
type ExcelWriter struct{}

// NewExcelWriter creates a new Excel writer
func NewExcelWriter() *ExcelWriter {
	return &ExcelWriter{}
}

// Write persists the full results workbook to path
func (w *ExcelWriter) Write(results *backtest.Results, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const summarySheet = "Summary"
	const tradesSheet = "Trades"
	const equitySheet = "Equity Curve"

	fx.SetSheetName(fx.GetSheetName(0), summarySheet)
	fx.NewSheet(tradesSheet)
	fx.NewSheet(equitySheet)

	headerStyle, err := fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF"},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"2F4F4F"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	if err := w.writeSummarySheet(fx, summarySheet, results, headerStyle); err != nil {
		return err
	}
	if err := w.writeTradesSheet(fx, tradesSheet, results, headerStyle); err != nil {
		return err
	}
	if err := w.writeEquitySheet(fx, equitySheet, results, headerStyle); err != nil {
		return err
	}

	return fx.SaveAs(path)
}

func (w *ExcelWriter) writeSummarySheet(fx *excelize.File, sheet string, results *backtest.Results, headerStyle int) error {
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Ticker", results.Ticker},
		{"Strategy", results.StrategyName},
		{"Start Date", results.StartDate.Format("2006-01-02")},
		{"End Date", results.EndDate.Format("2006-01-02")},
		{"Initial Capital", results.InitialCapital},
		{"Final Value", results.FinalValue},
		{"Total Return %", results.TotalReturnPct},
		{"Buy & Hold Return %", results.BenchmarkReturnPct},
		{"Annualized Return %", results.AnnualizedReturnPct},
		{"Annualized Volatility %", results.AnnualizedVolatilityPct},
		{"Sharpe Ratio", results.SharpeRatio},
		{"Max Drawdown %", results.MaxDrawdownPct},
		{"Completed Trades", results.TotalTrades},
		{"Win Rate %", results.WinRatePct},
		{"Avg Win", results.AvgWin},
		{"Avg Loss", results.AvgLoss},
		{"Profit Factor", formatProfitFactor(results.ProfitFactor)},
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := fx.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	if err := fx.SetCellStyle(sheet, "A1", "B1", headerStyle); err != nil {
		return err
	}
	return fx.SetColWidth(sheet, "A", "A", 24)
}

func (w *ExcelWriter) writeTradesSheet(fx *excelize.File, sheet string, results *backtest.Results, headerStyle int) error {
	header := []interface{}{"Date", "Ticker", "Action", "Quantity", "Price", "Value", "Commission", "Reason", "Status", "Realized PnL", "Realized PnL %"}
	if err := fx.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, trade := range results.Trades {
		row := []interface{}{
			trade.Timestamp.Format("2006-01-02"),
			trade.Ticker,
			string(trade.Action),
			trade.Quantity,
			trade.Price,
			trade.Value,
			trade.Commission,
			trade.Reason,
			string(trade.Status),
		}
		if trade.HasRealizedPnL {
			row = append(row, trade.RealizedPnL, trade.RealizedPnLPct)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := fx.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	lastCol, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	return fx.SetCellStyle(sheet, "A1", lastCol, headerStyle)
}

func (w *ExcelWriter) writeEquitySheet(fx *excelize.File, sheet string, results *backtest.Results, headerStyle int) error {
	header := []interface{}{"Date", "Strategy", "Benchmark"}
	if err := fx.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, point := range results.EquityCurve {
		row := []interface{}{
			point.Date.Format("2006-01-02"),
			point.Strategy,
			point.Benchmark,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := fx.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	return fx.SetCellStyle(sheet, "A1", "C1", headerStyle)
}
