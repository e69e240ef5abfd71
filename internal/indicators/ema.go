package indicators

// EMA represents an Exponential Moving Average, updated one value at a time.
type EMA struct {
	period      int
	multiplier  float64
	lastValue   float64
	initialized bool
}

// NewEMA creates a new EMA with the given period
func NewEMA(period int) *EMA {
	return &EMA{
		period:     period,
		multiplier: 2.0 / float64(period+1),
	}
}

// UpdateSingle feeds one value into the EMA and returns the updated value
func (e *EMA) UpdateSingle(value float64) float64 {
	if !e.initialized {
		e.lastValue = value
		e.initialized = true
		return e.lastValue
	}

	e.lastValue = (value-e.lastValue)*e.multiplier + e.lastValue
	return e.lastValue
}

// GetLastValue returns the last calculated EMA value
func (e *EMA) GetLastValue() float64 {
	return e.lastValue
}

// ResetState resets the EMA internal state for new data periods
func (e *EMA) ResetState() {
	e.lastValue = 0
	e.initialized = false
}
