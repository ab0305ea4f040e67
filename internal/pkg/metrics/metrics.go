package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BackendCallsTotal counts facade dispatches per chain, operation and outcome.
	BackendCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_backend_calls_total",
			Help: "Total number of calls dispatched to chain backends",
		},
		[]string{"chain", "network", "operation", "status"},
	)

	// BackendLatency tracks backend call latency.
	BackendLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wallet_backend_latency_seconds",
			Help:    "Chain backend call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"chain", "operation"},
	)

	// BackendsInitialized counts backend constructions per chain.
	BackendsInitialized = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_backends_initialized_total",
			Help: "Total number of chain backends constructed",
		},
		[]string{"chain", "network"},
	)

	// CacheHitsTotal counts read-cache lookups by result.
	CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_cache_lookups_total",
			Help: "Read cache lookups by result",
		},
		[]string{"chain", "operation", "result"},
	)

	// HTTPRequestsTotal counts REST API requests.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_http_requests_total",
			Help: "Total number of REST API requests",
		},
		[]string{"method", "route", "code"},
	)
)

// ObserveBackendCall records the outcome and latency of one dispatch.
func ObserveBackendCall(chain, network, operation string, started time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	BackendCallsTotal.WithLabelValues(chain, network, operation, status).Inc()
	BackendLatency.WithLabelValues(chain, operation).Observe(time.Since(started).Seconds())
}
