package reporting

import "github.com/ducminhle1904/equity-backtest/internal/backtest"

// Reporter renders finished results to a human-readable surface
type Reporter interface {
	// PrintSummary renders the headline metrics of one run
	PrintSummary(results *backtest.Results)
}

// FileWriter persists finished results to a file
type FileWriter interface {
	// Write persists the results to the given path
	Write(results *backtest.Results, path string) error
}
