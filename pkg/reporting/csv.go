package reporting

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/ducminhle1904/equity-backtest/internal/backtest"
)

// CSVWriter persists run results as CSV files
type CSVWriter struct{}

// NewCSVWriter creates a new CSV writer
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{}
}

// Write persists the portfolio value history to path
func (w *CSVWriter) Write(results *backtest.Results, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"Date", "Cash", "PositionsValue", "TotalValue", "ReturnPct"}); err != nil {
		return err
	}

	for _, snap := range results.Snapshots {
		row := []string{
			snap.Timestamp.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%.2f", snap.Cash),
			fmt.Sprintf("%.2f", snap.PositionsValue),
			fmt.Sprintf("%.2f", snap.TotalValue),
			fmt.Sprintf("%.4f", snap.ReturnPct),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return nil
}

// WriteTrades persists the full trade log, rejected attempts included
func (w *CSVWriter) WriteTrades(results *backtest.Results, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Date", "Ticker", "Action", "Quantity", "Price", "Value", "Commission", "Reason", "Status", "RealizedPnL"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, trade := range results.Trades {
		pnl := ""
		if trade.HasRealizedPnL {
			pnl = fmt.Sprintf("%.2f", trade.RealizedPnL)
		}
		row := []string{
			trade.Timestamp.Format("2006-01-02 15:04:05"),
			trade.Ticker,
			string(trade.Action),
			fmt.Sprintf("%d", trade.Quantity),
			fmt.Sprintf("%.4f", trade.Price),
			fmt.Sprintf("%.2f", trade.Value),
			fmt.Sprintf("%.2f", trade.Commission),
			trade.Reason,
			string(trade.Status),
			pnl,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return nil
}
