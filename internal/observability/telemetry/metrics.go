package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "logdeltra_http_requests_total",
		Help: "HTTP requests by method, route and status code",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "logdeltra_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// kind is "login" or "token".
	AuthAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "logdeltra_auth_attempts_total",
		Help: "Login and token verification attempts by outcome",
	}, []string{"kind", "outcome"})

	LocationMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "logdeltra_location_mutations_total",
		Help: "Location add/remove/update operations by outcome",
	}, []string{"op", "outcome"})

	LocationVersionConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "logdeltra_location_version_conflicts_total",
		Help: "Location list writes that lost a version race and were re-applied",
	})

	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "logdeltra_orders_created_total",
		Help: "Orders accepted by order intake",
	})

	StoreLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "logdeltra_store_latency_seconds",
		Help:    "Latency of backing store operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"driver", "op"})
)

// ObserveStore records the time elapsed since start for a store operation.
// Use as: defer telemetry.ObserveStore("mongo", "users.find", time.Now())
func ObserveStore(driver, op string, start time.Time) {
	StoreLatency.WithLabelValues(driver, op).Observe(time.Since(start).Seconds())
}
