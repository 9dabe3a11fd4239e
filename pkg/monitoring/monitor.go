package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// QuestionsGenerated counts generated questions by where they came
	// from: "llm", "retry" or "fallback".
	QuestionsGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_questions_generated_total",
			Help: "Questions generated, labeled by source",
		},
		[]string{"source"},
	)

	// RemoteStoreFailures distinguishes capacity problems from plain
	// connectivity failures so operators can tell them apart.
	RemoteStoreFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_remote_store_failures_total",
			Help: "Remote store failures, labeled by kind (quota or connectivity)",
		},
		[]string{"kind"},
	)

	SessionTruncations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quiz_session_truncations_total",
			Help: "Session histories truncated to fit the size bound",
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(QuestionsGenerated)
	prometheus.MustRegister(RemoteStoreFailures)
	prometheus.MustRegister(SessionTruncations)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
