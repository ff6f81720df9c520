package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplyCounters(t *testing.T) {
	m := New()
	m.IncReplyCreated()
	m.IncReplyCreated()
	m.IncReplyRejected("duplicate")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.RepliesCreated))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RepliesRejected.WithLabelValues("duplicate")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.RepliesRejected.WithLabelValues("concluded")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncReplyCreated()
		m.IncReplyRejected("duplicate")
		m.IncQuestionConcluded()
	})
}

func TestMiddlewareLabelsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/questions/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	for _, path := range []string{"/api/questions/1", "/api/questions/2", "/nope"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(m.RequestCounter.WithLabelValues("GET", "/api/questions/:id", "204")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RequestCounter.WithLabelValues("GET", "unmatched", "404")))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
