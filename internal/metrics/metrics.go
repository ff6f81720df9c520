package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the service. Each instance
// owns its registry so tests can build several routers in one process.
type Metrics struct {
	registry *prometheus.Registry

	RequestCounter  *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RepliesCreated  prometheus.Counter
	RepliesRejected *prometheus.CounterVec

	QuestionsConcluded prometheus.Counter
}

// New creates a Metrics instance with every collector registered
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RequestCounter: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),

		RepliesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "replies_created_total",
			Help: "Replies accepted and persisted",
		}),

		RepliesRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "replies_rejected_total",
			Help: "Reply writes rejected by validation, by reason",
		}, []string{"reason"}), // duplicate, invalid_vote, invalid_prediction, concluded

		QuestionsConcluded: factory.NewCounter(prometheus.CounterOpts{
			Name: "questions_concluded_total",
			Help: "Questions seen concluding by the conclusion watcher",
		}),
	}
}

// IncReplyCreated records a persisted reply.
func (m *Metrics) IncReplyCreated() {
	if m != nil {
		m.RepliesCreated.Inc()
	}
}

// IncReplyRejected records a reply write refused for reason.
func (m *Metrics) IncReplyRejected(reason string) {
	if m != nil {
		m.RepliesRejected.WithLabelValues(reason).Inc()
	}
}

// IncQuestionConcluded records a question announced as concluded.
func (m *Metrics) IncQuestionConcluded() {
	if m != nil {
		m.QuestionsConcluded.Inc()
	}
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m != nil {
		m.RequestCounter.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		m.RequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
	}
}

// Middleware observes every request handled by the engine. Unmatched
// routes are grouped under "unmatched" to bound label cardinality.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
