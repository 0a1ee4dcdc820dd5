package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce               sync.Once
	httpRequestsTotal          *prometheus.CounterVec
	httpLatencySeconds         *prometheus.HistogramVec
	httpErrorsTotal            *prometheus.CounterVec
	eligibilityCalculations    *prometheus.CounterVec
	eligibilityDurationSeconds *prometheus.HistogramVec
	eligibilityCacheLookups    *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "edutrip_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "edutrip_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "edutrip_http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		eligibilityCalculations = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "edutrip_eligibility_calculations_total",
			Help: "Eligibility calculations by mode and outcome.",
		}, []string{"mode", "outcome"})

		eligibilityDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "edutrip_eligibility_calculation_seconds",
			Help:    "Duration of eligibility calculations including persistence.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		}, []string{"mode"})

		eligibilityCacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "edutrip_eligibility_cache_lookups_total",
			Help: "Eligibility list cache lookups by result.",
		}, []string{"result"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			eligibilityCalculations,
			eligibilityDurationSeconds,
			eligibilityCacheLookups,
		)
	})
}

// HTTPRequests exposes the request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the request latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// EligibilityCalculations counts calculations labelled by mode (single, bulk) and outcome.
func EligibilityCalculations() *prometheus.CounterVec {
	RegisterMetrics()
	return eligibilityCalculations
}

// EligibilityDuration exposes the calculation latency histogram.
func EligibilityDuration() *prometheus.HistogramVec {
	RegisterMetrics()
	return eligibilityDurationSeconds
}

// EligibilityCacheLookups counts hit, miss and error results of the list cache.
func EligibilityCacheLookups() *prometheus.CounterVec {
	RegisterMetrics()
	return eligibilityCacheLookups
}
