package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ducminhle1904/equity-backtest/internal/backtest"
	"github.com/ducminhle1904/equity-backtest/internal/config"
	"github.com/ducminhle1904/equity-backtest/internal/logger"
	"github.com/ducminhle1904/equity-backtest/internal/monitoring"
	"github.com/ducminhle1904/equity-backtest/internal/strategy"
	"github.com/ducminhle1904/equity-backtest/pkg/data"
	"github.com/ducminhle1904/equity-backtest/pkg/reporting"
	"github.com/ducminhle1904/equity-backtest/pkg/types"
)

const (
	AppName    = "Equity Backtest"
	AppVersion = "1.0.0"
)

func main() {
	flags := NewFlags()
	flag.Parse()

	if *flags.ShowVersion {
		fmt.Printf("%s v%s\n", AppName, AppVersion)
		return
	}
	if *flags.ShowHelp {
		printUsageHelp()
		return
	}

	if err := flags.Validate(); err != nil {
		log.Fatalf("flag validation error: %v", err)
	}

	loadEnvironment(*flags.EnvFile)

	cfg, err := config.Load(*flags.ConfigFile)
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}
	applyFlagOverrides(cfg, flags)

	if *flags.MetricsPort > 0 {
		go func() {
			if err := monitoring.Serve(*flags.MetricsPort); err != nil {
				log.Printf("metrics server stopped: %v", err)
			}
		}()
	}

	tickers := parseTickers(*flags.Tickers)
	if len(tickers) <= 1 {
		runSingle(cfg, flags, tickers)
	} else {
		runBatch(cfg, flags, tickers)
	}
}

// runSingle runs one ticker with the full console surface attached
func runSingle(cfg *config.Config, flags *Flags, tickers []string) {
	ticker := "TICKER"
	if len(tickers) == 1 {
		ticker = tickers[0]
	}

	bars, err := loadBars(flags, ticker)
	if err != nil {
		log.Fatalf("data error: %v", err)
	}

	engine := backtest.NewEngine(cfg.EngineConfig(), strategy.NewMACrossRSI(cfg.StrategyConfig()))

	if *flags.TradeLog {
		engine.SetTradeLogger(reporting.NewTradeLogFormatter())
	}

	sessionLog, err := logger.NewLogger(ticker)
	if err != nil {
		log.Printf("could not open session log: %v", err)
	} else {
		engine.SetSessionLogger(sessionLog)
		defer sessionLog.Close()
	}

	results, err := engine.Run(ticker, bars)
	if err != nil {
		log.Fatalf("backtest failed: %v", err)
	}

	reportResults(results, flags)
}

// runBatch runs multiple tickers through the worker pool
func runBatch(cfg *config.Config, flags *Flags, tickers []string) {
	strategyCfg := cfg.StrategyConfig()
	engineCfg := cfg.EngineConfig()

	jobs := make([]backtest.Job, 0, len(tickers))
	for _, ticker := range tickers {
		bars, err := loadBars(flags, ticker)
		if err != nil {
			log.Printf("skipping %s: %v", ticker, err)
			continue
		}
		jobs = append(jobs, backtest.Job{
			Ticker:   ticker,
			Data:     bars,
			Config:   engineCfg,
			Strategy: strategy.NewMACrossRSI(strategyCfg),
		})
	}

	if len(jobs) == 0 {
		log.Fatalf("no usable tickers")
	}

	start := time.Now()
	results := backtest.RunAll(jobs, *flags.Workers)
	fmt.Printf("completed %d runs in %s\n\n", len(results), time.Since(start).Round(time.Millisecond))

	for _, jr := range results {
		if jr.Error != nil {
			log.Printf("%s failed: %v", jr.Ticker, jr.Error)
			continue
		}
		reportResults(jr.Results, flags)
	}
}

// reportResults renders console output and writes file reports
func reportResults(results *backtest.Results, flags *Flags) {
	console := reporting.NewConsoleReporter()
	console.PrintSummary(results)
	console.PrintOpenPositions(results)

	if *flags.ConsoleOnly {
		return
	}

	outDir := *flags.OutputDir
	if err := os.MkdirAll(outDir, 0755); err != nil {
		log.Printf("could not create output directory: %v", err)
		return
	}

	csvWriter := reporting.NewCSVWriter()
	portfolioPath := filepath.Join(outDir, results.Ticker+"_portfolio.csv")
	if err := csvWriter.Write(results, portfolioPath); err != nil {
		log.Printf("portfolio CSV failed: %v", err)
	}
	tradesPath := filepath.Join(outDir, results.Ticker+"_trades.csv")
	if err := csvWriter.WriteTrades(results, tradesPath); err != nil {
		log.Printf("trades CSV failed: %v", err)
	}

	excelPath := filepath.Join(outDir, results.Ticker+"_report.xlsx")
	if err := reporting.NewExcelWriter().Write(results, excelPath); err != nil {
		log.Printf("Excel report failed: %v", err)
	}
}

// loadBars loads, validates and filters the bar series for one ticker
func loadBars(flags *Flags, ticker string) ([]types.OHLCV, error) {
	path := *flags.DataFile
	if path == "" {
		path = filepath.Join(*flags.DataDir, ticker+".csv")
	}

	provider := data.NewCSVProvider()
	bars, err := provider.LoadData(path)
	if err != nil {
		return nil, err
	}
	if err := provider.ValidateData(bars); err != nil {
		return nil, err
	}

	filter := data.NewRangeFilter()

	if *flags.Period != "" {
		period, err := parseTrailingPeriod(*flags.Period)
		if err != nil {
			return nil, err
		}
		bars = filter.FilterByPeriod(bars, period)
	}

	start, end, err := parseDateRange(*flags.StartDate, *flags.EndDate)
	if err != nil {
		return nil, err
	}
	if !start.IsZero() || !end.IsZero() {
		bars = filter.FilterByDateRange(bars, start, end)
	}

	return bars, nil
}

// parseTrailingPeriod parses strings like "30d" into a duration
func parseTrailingPeriod(s string) (time.Duration, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if !strings.HasSuffix(s, "d") {
		return 0, fmt.Errorf("invalid period format %q (use 7d, 30d, 180d, 365d)", s)
	}
	var days int
	if _, err := fmt.Sscanf(s, "%dd", &days); err != nil || days <= 0 {
		return 0, fmt.Errorf("invalid period format %q (use 7d, 30d, 180d, 365d)", s)
	}
	return time.Duration(days) * 24 * time.Hour, nil
}

func parseDateRange(startStr, endStr string) (start, end time.Time, err error) {
	if startStr != "" {
		start, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			return start, end, fmt.Errorf("invalid start date %q: %w", startStr, err)
		}
	}
	if endStr != "" {
		end, err = time.Parse("2006-01-02", endStr)
		if err != nil {
			return start, end, fmt.Errorf("invalid end date %q: %w", endStr, err)
		}
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return start, end, fmt.Errorf("end date %s precedes start date %s", endStr, startStr)
	}
	return start, end, nil
}

func parseTickers(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tickers := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.ToUpper(strings.TrimSpace(p)); t != "" {
			tickers = append(tickers, t)
		}
	}
	return tickers
}

func applyFlagOverrides(cfg *config.Config, flags *Flags) {
	if *flags.InitialCash > 0 {
		cfg.InitialCash = *flags.InitialCash
	}
	if *flags.FastMA > 0 {
		cfg.Strategy.FastMA = *flags.FastMA
	}
	if *flags.SlowMA > 0 {
		cfg.Strategy.SlowMA = *flags.SlowMA
	}
}

func loadEnvironment(envFile string) {
	if err := godotenv.Load(envFile); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("could not load %s: %v", envFile, err)
		}
	}
}

func printUsageHelp() {
	fmt.Printf("%s v%s - Signal-driven equity strategy backtesting\n\n", AppName, AppVersion)
	fmt.Printf("USAGE:\n  %s [OPTIONS]\n\n", filepath.Base(os.Args[0]))
	PrintUsageExamples()
	fmt.Println()
	flag.PrintDefaults()
}
