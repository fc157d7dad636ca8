package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "freightdesk_http_requests_total",
			Help: "HTTP requests by route, method and status",
		},
		[]string{"path", "method", "status"},
	)

	HTTPLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "freightdesk_http_request_duration_seconds",
			Help:    "HTTP request latency by route and method",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	RegistryCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "freightdesk_registry_calls_total",
			Help: "Outbound carrier registry calls by outcome",
		},
		[]string{"outcome"},
	)

	RegistryLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "freightdesk_registry_call_duration_seconds",
			Help:    "Outbound carrier registry call latency",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
	)

	LookupErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "freightdesk_lookup_errors_total",
			Help: "Lookup failures by endpoint and error kind",
		},
		[]string{"endpoint", "kind"},
	)
)

// ObserveRegistryCall records one outbound registry call.
func ObserveRegistryCall(outcome string, started time.Time) {
	RegistryCalls.WithLabelValues(outcome).Inc()
	RegistryLatency.Observe(time.Since(started).Seconds())
}

// Handler records request count and latency per matched route.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		HTTPLatency.WithLabelValues(path, c.Request.Method).Observe(time.Since(start).Seconds())
		HTTPRequests.WithLabelValues(path, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// Exposer serves the default Prometheus registry.
func Exposer() gin.HandlerFunc { return gin.WrapH(promhttp.Handler()) }
