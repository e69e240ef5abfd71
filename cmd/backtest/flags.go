package main

import (
	"flag"
	"fmt"
	"strings"
)

// Flags holds all command line flags for the backtest command
type Flags struct {
	// Configuration
	ConfigFile *string
	DataFile   *string
	DataDir    *string
	Tickers    *string
	EnvFile    *string

	// Account settings
	InitialCash *float64

	// Strategy parameters
	FastMA *int
	SlowMA *int

	// Analysis options
	Period    *string
	StartDate *string
	EndDate   *string
	Workers   *int

	// Output options
	OutputDir   *string
	ConsoleOnly *bool
	TradeLog    *bool
	MetricsPort *int

	// Help and version
	ShowVersion *bool
	ShowHelp    *bool
}

// NewFlags creates and registers all command line flags
func NewFlags() *Flags {
	return &Flags{
		// Configuration
		ConfigFile: flag.String("config", "", "Path to JSON configuration file"),
		DataFile:   flag.String("data", "", "Path to historical data CSV file (single ticker)"),
		DataDir:    flag.String("data-dir", "data", "Directory holding <TICKER>.csv files"),
		Tickers:    flag.String("tickers", "", "Comma-separated tickers (e.g., AAPL,MSFT,GOOG)"),
		EnvFile:    flag.String("env", ".env", "Path to environment file"),

		// Account settings
		InitialCash: flag.Float64("cash", 0, "Initial cash (overrides config when > 0)"),

		// Strategy parameters
		FastMA: flag.Int("fast-ma", 0, "Fast moving average period (overrides config when > 0)"),
		SlowMA: flag.Int("slow-ma", 0, "Slow moving average period (overrides config when > 0)"),

		// Analysis options
		Period:    flag.String("period", "", "Trailing period filter (7d, 30d, 180d, 365d)"),
		StartDate: flag.String("start", "", "Start date filter (YYYY-MM-DD)"),
		EndDate:   flag.String("end", "", "End date filter (YYYY-MM-DD)"),
		Workers:   flag.Int("workers", 0, "Parallel workers for multi-ticker runs (0 = one per CPU)"),

		// Output options
		OutputDir:   flag.String("output", "results", "Directory for report files"),
		ConsoleOnly: flag.Bool("console-only", false, "Skip file reports, console output only"),
		TradeLog:    flag.Bool("trade-log", true, "Stream executed trades to the console"),
		MetricsPort: flag.Int("metrics-port", 0, "Expose Prometheus metrics on this port (0 = disabled)"),

		// Help and version
		ShowVersion: flag.Bool("version", false, "Show version information"),
		ShowHelp:    flag.Bool("help", false, "Show detailed help"),
	}
}

// Validate checks flag combinations before the run starts
func (f *Flags) Validate() error {
	if *f.DataFile == "" && *f.Tickers == "" && !*f.ShowVersion && !*f.ShowHelp {
		return fmt.Errorf("either -data or -tickers is required")
	}
	if *f.DataFile != "" && *f.Tickers != "" && strings.Contains(*f.Tickers, ",") {
		return fmt.Errorf("-data only supports a single ticker; use -data-dir with -tickers for batches")
	}
	if *f.Workers < 0 {
		return fmt.Errorf("-workers must be >= 0")
	}
	if *f.MetricsPort < 0 || *f.MetricsPort > 65535 {
		return fmt.Errorf("-metrics-port must be a valid port number")
	}
	return nil
}

// PrintUsageExamples prints common invocations
func PrintUsageExamples() {
	fmt.Println("EXAMPLES:")
	fmt.Println("  # Single ticker from a CSV file")
	fmt.Println("  backtest -data data/AAPL.csv -tickers AAPL")
	fmt.Println()
	fmt.Println("  # Multiple tickers in parallel")
	fmt.Println("  backtest -tickers AAPL,MSFT,GOOG -data-dir data -workers 4")
	fmt.Println()
	fmt.Println("  # Last year only, custom config")
	fmt.Println("  backtest -config config.json -tickers AAPL -period 365d")
}
