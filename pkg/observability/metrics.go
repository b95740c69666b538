package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal tracks total number of HTTP requests
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cnab_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "code"},
	)

	// RequestDuration tracks request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cnab_http_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)

	// ActiveRequests tracks currently active requests
	ActiveRequests = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cnab_http_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"path"},
	)

	// FilesProcessed counts decode-and-validate runs by format and outcome
	FilesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cnab_files_processed_total",
			Help: "Total number of CNAB files processed",
		},
		[]string{"format", "result"},
	)

	// ValidationFindings counts findings emitted by the validators
	ValidationFindings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cnab_validation_findings_total",
			Help: "Total number of validation findings by category and severity",
		},
		[]string{"category", "severity"},
	)
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// MetricsMiddleware collects Prometheus metrics for every request.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		ActiveRequests.WithLabelValues(path).Inc()
		defer ActiveRequests.WithLabelValues(path).Dec()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		start := time.Now()
		next.ServeHTTP(rec, r)
		RequestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())

		RequestsTotal.WithLabelValues(path, r.Method, strconv.Itoa(rec.status)).Inc()
	})
}
