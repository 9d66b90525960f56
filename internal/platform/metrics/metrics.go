package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapsearch",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mapsearch",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	// Remote provider metrics
	ProviderRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapsearch",
		Subsystem: "provider",
		Name:      "requests_total",
		Help:      "Remote search/routing calls by provider, endpoint and outcome",
	}, []string{"provider", "endpoint", "outcome"})

	ProviderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mapsearch",
		Subsystem: "provider",
		Name:      "request_duration_seconds",
		Help:      "Latency of remote search/routing calls",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"provider", "endpoint"})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapsearch",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"cache"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapsearch",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"cache"})

	// Session metrics
	StaleLookupsDiscarded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapsearch",
		Subsystem: "session",
		Name:      "stale_results_discarded_total",
		Help:      "Remote results dropped because a newer request superseded them",
	}, []string{"kind"})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "mapsearch",
		Subsystem: "session",
		Name:      "active",
		Help:      "Current number of live map sessions",
	})
)

// Handler serves the Prometheus /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
