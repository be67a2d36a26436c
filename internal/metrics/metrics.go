package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collectors are created at package load and registered explicitly by main,
// so tests can construct services repeatedly without duplicate registration.
var (
	UsecaseRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "usecase_requests_total",
			Help: "Total number of use case invocations.",
		},
		[]string{"use_case", "outcome"},
	)
	UsecaseDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "usecase_duration_seconds",
			Help:    "Duration of use case execution in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"use_case"},
	)
	ReservationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_reservation_failures_total",
			Help: "Stock reservations that were rejected or rolled back.",
		},
		[]string{"reason"},
	)
	PriceMismatches = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "order_price_mismatch_total",
			Help: "Orders whose client-supplied total differed from the recomputed total.",
		},
	)
	LowStockAlerts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "low_stock_alerts_total",
			Help: "Low-stock scans by outcome.",
		},
		[]string{"outcome"},
	)
	PaymentIntents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_intents_total",
			Help: "Payment intents created, by mode and outcome.",
		},
		[]string{"mode", "outcome"},
	)
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route pattern, method and status code.",
		},
		[]string{"route", "method", "code"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
)

// Register adds every collector to reg.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		UsecaseRequests,
		UsecaseDuration,
		ReservationFailures,
		PriceMismatches,
		LowStockAlerts,
		PaymentIntents,
		HTTPRequests,
		HTTPDuration,
	)
}
