package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coinfolio_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coinfolio_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Business metrics
	SellsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coinfolio_sells_total",
			Help: "Total number of sell transactions processed",
		},
		[]string{"status"},
	)

	RealizedPLAmount = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coinfolio_realized_pl_usd",
			Help:    "Realized profit/loss per sell in USD",
			Buckets: []float64{-10000, -1000, -100, -10, 0, 10, 100, 1000, 10000},
		},
		[]string{"coin_id"},
	)

	ValuationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "coinfolio_valuations_total",
			Help: "Total number of portfolio valuations computed",
		},
	)

	// Upstream metrics
	PriceFeedRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coinfolio_price_feed_requests_total",
			Help: "Total number of price feed API requests",
		},
		[]string{"endpoint", "outcome"}, // outcome: success, error, cache_hit, stale_hit
	)

	PriceFeedRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coinfolio_price_feed_request_duration_seconds",
			Help:    "Price feed API request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		},
		[]string{"endpoint"},
	)

	// System metrics
	DatabaseConnectionsGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "coinfolio_database_connections",
			Help: "Number of database connections",
		},
		[]string{"state"}, // open, idle, in_use
	)

	AlertsTriggeredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "coinfolio_alerts_triggered_total",
			Help: "Total number of price alerts triggered",
		},
	)
)
