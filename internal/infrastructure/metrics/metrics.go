package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Transaction metrics
	TransactionsAccepted *prometheus.CounterVec
	TransactionsRejected *prometheus.CounterVec
	TransactionAmount    *prometheus.HistogramVec
	WalletBalance        prometheus.Gauge

	// Event metrics
	EventsPublished prometheus.Counter
	EventsDropped   prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Transaction metrics
		TransactionsAccepted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_transactions_accepted_total",
				Help: "Total number of accepted transactions by kind",
			},
			[]string{"kind"},
		),
		TransactionsRejected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_transactions_rejected_total",
				Help: "Total number of rejected transactions by kind and reason",
			},
			[]string{"kind", "reason"},
		),
		TransactionAmount: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gowallet_transaction_amount",
				Help:    "Accepted transaction amounts",
				Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
			},
			[]string{"kind"},
		),
		WalletBalance: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "gowallet_balance",
			Help: "Current wallet balance (approximate, for dashboards only)",
		}),

		// Event metrics
		EventsPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_events_published_total",
			Help: "Total number of transaction events delivered",
		}),
		EventsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_events_dropped_total",
			Help: "Total number of transaction events dropped or failed",
		}),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gowallet_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "gowallet_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),
	}
}
