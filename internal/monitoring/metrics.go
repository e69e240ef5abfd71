package monitoring

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Simulation metrics
	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backtester_runs_total",
			Help: "Total number of backtest runs completed",
		},
		[]string{"ticker"},
	)

	tradesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backtester_trades_total",
			Help: "Total number of trades executed",
		},
		[]string{"ticker", "action"},
	)

	tradeValue = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backtester_trade_value",
			Help:    "Distribution of gross trade values",
			Buckets: prometheus.ExponentialBuckets(100, 4, 8),
		},
		[]string{"ticker"},
	)

	finalReturn = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "backtester_final_return_pct",
			Help: "Total return of the most recent run per ticker",
		},
		[]string{"ticker"},
	)

	// Error metrics
	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backtester_errors_total",
			Help: "Total number of rejected or failed trades",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(runsTotal)
	prometheus.MustRegister(tradesTotal)
	prometheus.MustRegister(tradeValue)
	prometheus.MustRegister(finalReturn)
	prometheus.MustRegister(errorsTotal)
}

// RecordTrade records an executed trade
func RecordTrade(ticker, action string, value float64) {
	tradesTotal.WithLabelValues(ticker, action).Inc()
	tradeValue.WithLabelValues(ticker).Observe(value)
}

// RecordRun records a completed backtest run and its total return
func RecordRun(ticker string, returnPct float64) {
	runsTotal.WithLabelValues(ticker).Inc()
	finalReturn.WithLabelValues(ticker).Set(returnPct)
}

// RecordError records a rejected or failed trade
func RecordError(reason string) {
	errorsTotal.WithLabelValues(reason).Inc()
}

// Serve exposes the metrics endpoint on the given port. Intended for long
// multi-ticker batch runs; single runs normally skip it.
func Serve(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
}
