package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/ducminhle1904/equity-backtest/internal/simerr"
	"github.com/ducminhle1904/equity-backtest/pkg/types"
)

// CSVProvider implements Provider for CSV files
type CSVProvider struct {
	format CSVColumnMapping
}

// NewCSVProvider creates a new CSV data provider with the default daily format
func NewCSVProvider() *CSVProvider {
	return &CSVProvider{
		format: DefaultCSVFormat,
	}
}

// NewCSVProviderWithFormat creates a new CSV data provider with custom format
func NewCSVProviderWithFormat(format CSVColumnMapping) *CSVProvider {
	return &CSVProvider{
		format: format,
	}
}

// GetName returns the name of the data provider
func (p *CSVProvider) GetName() string {
	return "CSV Provider"
}

// LoadData loads historical data from a CSV file. Malformed rows are skipped
// with a warning; a file yielding no usable rows is a structural data error.
func (p *CSVProvider) LoadData(source string) ([]types.OHLCV, error) {
	file, err := os.Open(source)
	if err != nil {
		return nil, simerr.Wrap(err, simerr.CategoryData, "data", "failed to open data file")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	format := p.format

	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, simerr.Wrap(err, simerr.CategoryData, "data", "failed to read header")
	}

	var data []types.OHLCV

	lineNum := 1 // Header already consumed
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, simerr.Wrap(err, simerr.CategoryData, "data",
				fmt.Sprintf("error reading CSV at line %d", lineNum))
		}
		lineNum++

		if len(record) < format.MinColumns {
			log.Printf("insufficient columns at line %d (expected %d, got %d), skipping",
				lineNum, format.MinColumns, len(record))
			continue
		}

		timestamp, err := time.Parse(format.DateFormat, record[format.TimestampCol])
		if err != nil {
			log.Printf("invalid timestamp %q at line %d, skipping: %v", record[format.TimestampCol], lineNum, err)
			continue
		}

		open, err := strconv.ParseFloat(record[format.OpenCol], 64)
		if err != nil {
			log.Printf("invalid open price %q at line %d, skipping: %v", record[format.OpenCol], lineNum, err)
			continue
		}

		high, err := strconv.ParseFloat(record[format.HighCol], 64)
		if err != nil {
			log.Printf("invalid high price %q at line %d, skipping: %v", record[format.HighCol], lineNum, err)
			continue
		}

		low, err := strconv.ParseFloat(record[format.LowCol], 64)
		if err != nil {
			log.Printf("invalid low price %q at line %d, skipping: %v", record[format.LowCol], lineNum, err)
			continue
		}

		closePrice, err := strconv.ParseFloat(record[format.CloseCol], 64)
		if err != nil {
			log.Printf("invalid close price %q at line %d, skipping: %v", record[format.CloseCol], lineNum, err)
			continue
		}

		volume, err := strconv.ParseFloat(record[format.VolumeCol], 64)
		if err != nil {
			log.Printf("invalid volume %q at line %d, skipping: %v", record[format.VolumeCol], lineNum, err)
			continue
		}

		if open <= 0 || high <= 0 || low <= 0 || closePrice <= 0 {
			log.Printf("non-positive price data at line %d, skipping", lineNum)
			continue
		}
		if high < open || high < closePrice || high < low {
			log.Printf("high below other prices at line %d, skipping", lineNum)
			continue
		}
		if low > open || low > closePrice {
			log.Printf("low above other prices at line %d, skipping", lineNum)
			continue
		}

		data = append(data, types.OHLCV{
			Timestamp: timestamp,
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closePrice,
			Volume:    volume,
		})
	}

	if len(data) == 0 {
		return nil, simerr.Newf(simerr.CategoryData, "data", "no usable rows in %s", source)
	}

	return data, nil
}

// ValidateData validates the integrity of loaded data
func (p *CSVProvider) ValidateData(data []types.OHLCV) error {
	if len(data) == 0 {
		return simerr.New(simerr.CategoryData, "data", "no data provided")
	}

	for i, candle := range data {
		if candle.Open <= 0 || candle.High <= 0 || candle.Low <= 0 || candle.Close <= 0 {
			return simerr.Newf(simerr.CategoryData, "data",
				"invalid price data at index %d: prices must be positive", i)
		}

		if candle.High < candle.Low {
			return simerr.Newf(simerr.CategoryData, "data",
				"invalid price data at index %d: high (%.4f) cannot be less than low (%.4f)",
				i, candle.High, candle.Low)
		}

		if candle.High < candle.Open || candle.High < candle.Close {
			return simerr.Newf(simerr.CategoryData, "data",
				"invalid price data at index %d: high (%.4f) must be >= open (%.4f) and close (%.4f)",
				i, candle.High, candle.Open, candle.Close)
		}

		if candle.Low > candle.Open || candle.Low > candle.Close {
			return simerr.Newf(simerr.CategoryData, "data",
				"invalid price data at index %d: low (%.4f) must be <= open (%.4f) and close (%.4f)",
				i, candle.Low, candle.Open, candle.Close)
		}

		if i > 0 && candle.Timestamp.Before(data[i-1].Timestamp) {
			return simerr.Newf(simerr.CategoryData, "data",
				"invalid timestamp sequence at index %d: timestamps must be in chronological order", i)
		}
	}

	return nil
}
