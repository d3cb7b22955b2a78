package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lexmanager_http_requests_total",
		Help: "HTTP requests by method, path pattern and status.",
	}, []string{"method", "path", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lexmanager_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	AlertsEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lexmanager_prazo_alerts_enqueued_total",
		Help: "Alert tasks enqueued by the scheduler.",
	})

	AlertsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lexmanager_prazo_alerts_sent_total",
		Help: "Alerts delivered and recorded against a pending notification.",
	})

	AlertsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lexmanager_prazo_alerts_failed_total",
		Help: "Alert delivery attempts that failed.",
	})
)

func Handler() http.Handler {
	return promhttp.Handler()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and latency per route pattern.
func Middleware(pattern func(r *http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			p := pattern(r)
			HTTPRequests.WithLabelValues(r.Method, p, strconv.Itoa(rec.status)).Inc()
			HTTPDuration.WithLabelValues(r.Method, p).Observe(time.Since(start).Seconds())
		})
	}
}
