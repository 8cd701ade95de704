// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Forecast metrics
	ForecastFitsTotal   *prometheus.CounterVec
	ForecastFitDegraded *prometheus.CounterVec
	ForecastCacheHits   prometheus.Counter
	ForecastCacheMisses prometheus.Counter
	ForecastFitDuration *prometheus.HistogramVec

	// Projection metrics
	ProjectionsComputed *prometheus.CounterVec
	ProjectionErrors    *prometheus.CounterVec

	// Aggregation metrics
	AggregationRunsTotal prometheus.Counter
	HouseholdsTracked    prometheus.Gauge

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "hiei"
	}

	return &Metrics{
		ForecastFitsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "forecast",
			Name:      "fits_total",
			Help:      "Total number of seasonal-trend model fits by category",
		}, []string{"category"}),
		ForecastFitDegraded: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "forecast",
			Name:      "fits_degraded_total",
			Help:      "Total number of fits on insufficient history (widened bands)",
		}, []string{"category"}),
		ForecastCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "forecast",
			Name:      "cache_hits_total",
			Help:      "Total fitted-model cache hits",
		}),
		ForecastCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "forecast",
			Name:      "cache_misses_total",
			Help:      "Total fitted-model cache misses",
		}),
		ForecastFitDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "forecast",
			Name:      "fit_duration_seconds",
			Help:      "Seasonal-trend model fit duration",
			Buckets:   prometheus.DefBuckets,
		}, []string{"category"}),

		ProjectionsComputed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "projection",
			Name:      "computed_total",
			Help:      "Total projections computed by resulting status",
		}, []string{"status"}),
		ProjectionErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "projection",
			Name:      "errors_total",
			Help:      "Total rejected projection requests by reason",
		}, []string{"reason"}),

		AggregationRunsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "policy",
			Name:      "aggregation_runs_total",
			Help:      "Total cohort aggregation runs",
		}),
		HouseholdsTracked: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "policy",
			Name:      "households_tracked",
			Help:      "Households seen in the most recent aggregation run",
		}),

		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by route and status code",
		}, []string{"route", "code"}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Database query duration by engine and operation",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_errors_total",
			Help:      "Total database query errors by engine and operation",
		}, []string{"database", "operation"}),
	}
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordForecastFit records one model fit.
func RecordForecastFit(category string, degraded bool, seconds float64) {
	DefaultMetrics.ForecastFitsTotal.WithLabelValues(category).Inc()
	DefaultMetrics.ForecastFitDuration.WithLabelValues(category).Observe(seconds)
	if degraded {
		DefaultMetrics.ForecastFitDegraded.WithLabelValues(category).Inc()
	}
}

// RecordForecastCache records a fitted-model cache lookup.
func RecordForecastCache(hit bool) {
	if hit {
		DefaultMetrics.ForecastCacheHits.Inc()
	} else {
		DefaultMetrics.ForecastCacheMisses.Inc()
	}
}

// RecordProjection records a completed projection by status.
func RecordProjection(status string) {
	DefaultMetrics.ProjectionsComputed.WithLabelValues(status).Inc()
}

// RecordProjectionError records a rejected projection request.
func RecordProjectionError(reason string) {
	DefaultMetrics.ProjectionErrors.WithLabelValues(reason).Inc()
}

// RecordAggregation records a cohort aggregation run.
func RecordAggregation(householdsTracked int) {
	DefaultMetrics.AggregationRunsTotal.Inc()
	DefaultMetrics.HouseholdsTracked.Set(float64(householdsTracked))
}

// RecordHTTPRequest records one served HTTP request.
func RecordHTTPRequest(route, code string, seconds float64) {
	DefaultMetrics.HTTPRequestsTotal.WithLabelValues(route, code).Inc()
	DefaultMetrics.HTTPRequestDuration.WithLabelValues(route).Observe(seconds)
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
