package observability

import (
	"net/http"
	"time"

	dto "github.com/prometheus/client_model/go"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ResolutionsTotal counts dependency resolutions by result
	ResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gotctools_resolutions_total",
			Help: "Total number of dependency resolutions by result",
		},
		[]string{"result"}, // success, missing, error
	)

	// ResolveDuration tracks dependency resolution duration in seconds
	ResolveDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gotctools_resolve_duration_seconds",
			Help:    "Dependency resolution duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms to 16s
		},
	)

	// MissingLibrariesTotal counts library references without a candidate
	MissingLibrariesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gotctools_missing_libraries_total",
			Help: "Total number of unresolved library references",
		},
	)

	// BuildStepsTotal counts tcbuild invocations by operation and status
	BuildStepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gotctools_build_steps_total",
			Help: "Total number of tcbuild invocations by operation and status",
		},
		[]string{"operation", "status"}, // build|install, success|failure|error
	)

	// BuildStepDuration tracks tcbuild invocation duration in seconds
	BuildStepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gotctools_build_step_duration_seconds",
			Help:    "tcbuild invocation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12), // 500ms to 17min
		},
		[]string{"operation"},
	)

	// RepositoryLibraries tracks the number of libraries found in the last
	// library repository scan
	RepositoryLibraries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gotctools_repository_libraries",
			Help: "Number of libraries found in the last library repository scan",
		},
	)
)

// MetricsHandler returns an HTTP handler for Prometheus metrics
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// NewMetricsServer returns an HTTP server exposing Prometheus metrics on /metrics.
// The caller starts it with ListenAndServe and stops it with Shutdown.
func NewMetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler())
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// GetCounterValue retrieves the current value of a counter metric with the given labels
// This is primarily intended for testing
func GetCounterValue(counter *prometheus.CounterVec, labels ...string) (float64, error) {
	metric, err := counter.GetMetricWithLabelValues(labels...)
	if err != nil {
		return 0, err
	}

	var pb dto.Metric
	if err := metric.Write(&pb); err != nil {
		return 0, err
	}

	if pb.Counter != nil {
		return pb.Counter.GetValue(), nil
	}

	return 0, nil
}
