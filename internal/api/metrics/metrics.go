// Package metrics exposes Prometheus counters and gauges for the matching
// engine, adapted from luxfi-dex's pkg/metrics down to what this engine's
// harness (order submission, trade execution, book depth) emits.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	OrdersProcessed prometheus.Counter
	TradesExecuted  prometheus.Counter
	OrderBookDepth  *prometheus.GaugeVec
	MatchingLatency prometheus.Histogram
}

func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		OrdersProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_processed_total",
			Help:      "Total number of orders submitted to the engine",
		}),
		TradesExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trades_executed_total",
			Help:      "Total number of trades produced by matching",
		}),
		OrderBookDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "orderbook_depth",
			Help:      "Resting quantity at best price by symbol and side",
		}, []string{"symbol", "side"}),
		MatchingLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "matching_latency_nanoseconds",
			Help:      "Wall-clock time spent inside one AddLimit/AddMarket call",
			Buckets:   []float64{100, 500, 1000, 5000, 10000, 50000, 100000, 500000},
		}),
	}
	registry.MustRegister(m.OrdersProcessed, m.TradesExecuted, m.OrderBookDepth, m.MatchingLatency)
	return m
}

// Handler returns the HTTP handler to mount at /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveSubmit records one SubmitOrder call's trade count and latency;
// satisfies internal/core.Metrics without core importing prometheus.
func (m *Metrics) ObserveSubmit(tradeCount int, latencyNs float64) {
	m.OrdersProcessed.Inc()
	m.TradesExecuted.Add(float64(tradeCount))
	m.MatchingLatency.Observe(latencyNs)
}
