package indicators

// MACD represents the Moving Average Convergence Divergence indicator
type MACD struct {
	fastPeriod   int
	slowPeriod   int
	signalPeriod int
}

// NewMACD creates a new MACD instance with specified fast, slow, and signal periods
func NewMACD(fast, slow, signal int) *MACD {
	return &MACD{
		fastPeriod:   fast,
		slowPeriod:   slow,
		signalPeriod: signal,
	}
}

// Calculate computes the MACD line, signal line, and histogram over the full
// price history.
func (m *MACD) Calculate(prices []float64) (macdLine, signalLine, histogram float64) {
	if len(prices) < m.slowPeriod {
		return 0, 0, 0
	}

	fastEMA := NewEMA(m.fastPeriod)
	slowEMA := NewEMA(m.slowPeriod)
	signalEMA := NewEMA(m.signalPeriod)

	for _, price := range prices {
		fast := fastEMA.UpdateSingle(price)
		slow := slowEMA.UpdateSingle(price)
		macdLine = fast - slow
		signalLine = signalEMA.UpdateSingle(macdLine)
	}

	histogram = macdLine - signalLine
	return macdLine, signalLine, histogram
}

// GetRequiredPeriods returns the minimum number of periods needed
func (m *MACD) GetRequiredPeriods() int {
	return m.slowPeriod
}
