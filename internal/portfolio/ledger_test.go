package portfolio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/equity-backtest/internal/simerr"
)

func testTime() time.Time {
	return time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
}

// TestCommissionModel_Calculate tests both branches of the commission formula
func TestCommissionModel_Calculate(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		expected float64
	}{
		{"flat fee floor on small trade", 1000.0, 5.0},
		{"percentage on large trade", 15025.0, 15.025},
		{"exactly at crossover", 5000.0, 5.0},
		{"just above crossover", 5001.0, 5.001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, DefaultCommission.Calculate(tt.value), 1e-9)
		})
	}
}

// TestLedger_Buy tests a standard entry against known arithmetic
func TestLedger_Buy(t *testing.T) {
	ledger := NewLedger(100000.0, DefaultCommission)

	trade, err := ledger.ApplyTrade("AAPL", ActionBuy, 100, 150.25, testTime(), "signal")
	require.NoError(t, err)

	// 100 * 150.25 = 15025.00, commission = 15.025
	assert.InDelta(t, 15025.0, trade.Value, 1e-9)
	assert.InDelta(t, 15.025, trade.Commission, 1e-9)
	assert.InDelta(t, 84959.975, ledger.Cash(), 1e-9)

	pos, ok := ledger.Position("AAPL")
	require.True(t, ok)
	assert.Equal(t, 100, pos.Quantity)
	assert.InDelta(t, 150.25, pos.AvgPrice, 1e-9)
	assert.InDelta(t, 15025.0, pos.CostBasis, 1e-9)
	assert.Equal(t, DirectionLong, pos.Direction)

	// Successful trades append one trade and one snapshot
	assert.Len(t, ledger.Trades(), 1)
	assert.Len(t, ledger.History(), 2)
}

// TestLedger_Buy_AveragesIn tests cost basis accumulation across entries
func TestLedger_Buy_AveragesIn(t *testing.T) {
	ledger := NewLedger(100000.0, DefaultCommission)

	_, err := ledger.ApplyTrade("AAPL", ActionBuy, 100, 100.0, testTime(), "signal")
	require.NoError(t, err)
	_, err = ledger.ApplyTrade("AAPL", ActionBuy, 100, 120.0, testTime().Add(24*time.Hour), "signal")
	require.NoError(t, err)

	pos, ok := ledger.Position("AAPL")
	require.True(t, ok)
	assert.Equal(t, 200, pos.Quantity)
	assert.InDelta(t, 110.0, pos.AvgPrice, 1e-9)
	assert.InDelta(t, 22000.0, pos.CostBasis, 1e-9)
}

// TestLedger_Buy_InsufficientFunds tests that a rejected buy leaves no trace
func TestLedger_Buy_InsufficientFunds(t *testing.T) {
	ledger := NewLedger(1000.0, DefaultCommission)

	_, err := ledger.ApplyTrade("AAPL", ActionBuy, 100, 150.25, testTime(), "signal")
	require.Error(t, err)
	assert.Equal(t, simerr.CategoryInsufficientFunds, simerr.CategoryOf(err))
	assert.False(t, simerr.IsFatal(err))

	// No mutation on failure
	assert.InDelta(t, 1000.0, ledger.Cash(), 1e-9)
	assert.Equal(t, 0, ledger.NumOpenPositions())
	assert.Empty(t, ledger.Trades())
	assert.Len(t, ledger.History(), 1)
}

// TestLedger_InvalidQuantity tests the quantity guard on both sides
func TestLedger_InvalidQuantity(t *testing.T) {
	ledger := NewLedger(100000.0, DefaultCommission)

	for _, qty := range []int{0, -5} {
		_, err := ledger.ApplyTrade("AAPL", ActionBuy, qty, 150.25, testTime(), "signal")
		require.Error(t, err)
		assert.Equal(t, simerr.CategoryInvalidQuantity, simerr.CategoryOf(err))
	}
	assert.InDelta(t, 100000.0, ledger.Cash(), 1e-9)
}

// TestLedger_Sell_RealizedPnL tests average-cost P&L on a partial exit
func TestLedger_Sell_RealizedPnL(t *testing.T) {
	ledger := NewLedger(100000.0, DefaultCommission)

	_, err := ledger.ApplyTrade("AAPL", ActionBuy, 100, 100.0, testTime(), "signal")
	require.NoError(t, err)

	trade, err := ledger.ApplyTrade("AAPL", ActionSell, 40, 120.0, testTime().Add(24*time.Hour), "take_profit")
	require.NoError(t, err)

	// Proceeds 4800, cost basis 40*100 = 4000, commission max(5, 4.8) = 5
	require.True(t, trade.HasRealizedPnL)
	assert.InDelta(t, 795.0, trade.RealizedPnL, 1e-9)
	assert.InDelta(t, 795.0/4000.0*100, trade.RealizedPnLPct, 1e-9)

	pos, ok := ledger.Position("AAPL")
	require.True(t, ok)
	assert.Equal(t, 60, pos.Quantity)
	assert.InDelta(t, 6000.0, pos.CostBasis, 1e-9)
	assert.InDelta(t, 100.0, pos.AvgPrice, 1e-9)
}

// TestLedger_Sell_ClosesPosition tests full exit removal
func TestLedger_Sell_ClosesPosition(t *testing.T) {
	ledger := NewLedger(100000.0, DefaultCommission)

	_, err := ledger.ApplyTrade("AAPL", ActionBuy, 50, 100.0, testTime(), "signal")
	require.NoError(t, err)
	_, err = ledger.ApplyTrade("AAPL", ActionSell, 50, 110.0, testTime().Add(time.Hour), "take_profit")
	require.NoError(t, err)

	_, ok := ledger.Position("AAPL")
	assert.False(t, ok)
	assert.Equal(t, 0, ledger.NumOpenPositions())
}

// TestLedger_Sell_InsufficientPosition tests overselling and phantom tickers
func TestLedger_Sell_InsufficientPosition(t *testing.T) {
	ledger := NewLedger(100000.0, DefaultCommission)

	_, err := ledger.ApplyTrade("AAPL", ActionSell, 10, 100.0, testTime(), "signal")
	require.Error(t, err)
	assert.Equal(t, simerr.CategoryInsufficientPosition, simerr.CategoryOf(err))

	_, err = ledger.ApplyTrade("AAPL", ActionBuy, 10, 100.0, testTime(), "signal")
	require.NoError(t, err)
	cashBefore := ledger.Cash()

	_, err = ledger.ApplyTrade("AAPL", ActionSell, 20, 100.0, testTime(), "signal")
	require.Error(t, err)
	assert.Equal(t, simerr.CategoryInsufficientPosition, simerr.CategoryOf(err))

	assert.InDelta(t, cashBefore, ledger.Cash(), 1e-9)
	pos, _ := ledger.Position("AAPL")
	assert.Equal(t, 10, pos.Quantity)
}

// TestLedger_RecordRejected tests the audit trail for failed attempts
func TestLedger_RecordRejected(t *testing.T) {
	ledger := NewLedger(1000.0, DefaultCommission)

	trade := ledger.RecordRejected("AAPL", ActionBuy, 100, 150.25, testTime(), "insufficient_funds", "not enough cash")

	assert.Equal(t, StatusError, trade.Status)
	assert.Equal(t, "insufficient_funds", trade.Reason)
	assert.InDelta(t, 1000.0, ledger.Cash(), 1e-9)
	assert.Len(t, ledger.Trades(), 1)
	// Rejected trades never append snapshots
	assert.Len(t, ledger.History(), 1)
}

// TestLedger_MarkToMarket tests unrealized P&L refresh
func TestLedger_MarkToMarket(t *testing.T) {
	ledger := NewLedger(100000.0, DefaultCommission)

	_, err := ledger.ApplyTrade("AAPL", ActionBuy, 100, 100.0, testTime(), "signal")
	require.NoError(t, err)

	ledger.MarkToMarket(map[string]float64{"AAPL": 110.0, "MSFT": 400.0})

	pos, _ := ledger.Position("AAPL")
	assert.InDelta(t, 110.0, pos.CurrentPrice, 1e-9)
	assert.InDelta(t, 11000.0, pos.CurrentValue, 1e-9)
	assert.InDelta(t, 1000.0, pos.UnrealizedPnL, 1e-9)
	assert.InDelta(t, 10.0, pos.UnrealizedPnLPct, 1e-9)
}

// TestLedger_Value_CumulativeReturn tests that ReturnPct is measured against
// the initial snapshot, not the previous one
func TestLedger_Value_CumulativeReturn(t *testing.T) {
	ledger := NewLedger(100000.0, DefaultCommission)

	_, err := ledger.ApplyTrade("AAPL", ActionBuy, 100, 100.0, testTime(), "signal")
	require.NoError(t, err)
	ledger.MarkToMarket(map[string]float64{"AAPL": 150.0})

	v := ledger.Value()
	// Cash 100000 - 10010, positions 15000
	assert.InDelta(t, 89990.0, v.Cash, 1e-9)
	assert.InDelta(t, 15000.0, v.PositionsValue, 1e-9)
	assert.InDelta(t, 104990.0, v.TotalValue, 1e-9)
	assert.InDelta(t, 4.99, v.ReturnPct, 1e-9)
}

// TestLedger_SetRiskLevels tests level attachment and the missing-ticker error
func TestLedger_SetRiskLevels(t *testing.T) {
	ledger := NewLedger(100000.0, DefaultCommission)

	err := ledger.SetRiskLevels("AAPL", 95.0, 110.0)
	require.Error(t, err)
	assert.Equal(t, simerr.CategoryInsufficientPosition, simerr.CategoryOf(err))

	_, err = ledger.ApplyTrade("AAPL", ActionBuy, 10, 100.0, testTime(), "signal")
	require.NoError(t, err)
	require.NoError(t, ledger.SetRiskLevels("AAPL", 95.0, 110.0))

	pos, _ := ledger.Position("AAPL")
	assert.InDelta(t, 95.0, pos.StopLoss, 1e-9)
	assert.InDelta(t, 110.0, pos.TakeProfit, 1e-9)
}

// TestLedger_PositionCopies tests that handed-out positions are detached
func TestLedger_PositionCopies(t *testing.T) {
	ledger := NewLedger(100000.0, DefaultCommission)

	_, err := ledger.ApplyTrade("AAPL", ActionBuy, 10, 100.0, testTime(), "signal")
	require.NoError(t, err)

	pos, _ := ledger.Position("AAPL")
	pos.Quantity = 9999

	again, _ := ledger.Position("AAPL")
	assert.Equal(t, 10, again.Quantity)
}

// TestLedger_CashConservation tests that a buy/sell round trip only leaks
// commission, never principal
func TestLedger_CashConservation(t *testing.T) {
	ledger := NewLedger(100000.0, DefaultCommission)

	buy, err := ledger.ApplyTrade("AAPL", ActionBuy, 100, 100.0, testTime(), "signal")
	require.NoError(t, err)
	sell, err := ledger.ApplyTrade("AAPL", ActionSell, 100, 100.0, testTime().Add(time.Hour), "signal")
	require.NoError(t, err)

	expected := 100000.0 - buy.Commission - sell.Commission
	assert.InDelta(t, expected, ledger.Cash(), 1e-9)
	assert.GreaterOrEqual(t, ledger.Cash(), 0.0)
}
