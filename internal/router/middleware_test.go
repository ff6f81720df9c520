package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vox-populi/internal/auth"
	"vox-populi/internal/logger"
	"vox-populi/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type acceptAll struct{}

func (acceptAll) Provision(context.Context, *services.Actor) error { return nil }

func TestRequestLoggerTagsAuthenticatedCaller(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens, err := auth.NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)
	token, err := tokens.GenerateToken(7, "ada", false)
	require.NoError(t, err)

	log, hook := logtest.NewNullLogger()
	r := gin.New()
	r.Use(RequestLogger(logrus.NewEntry(log)))
	r.Use(auth.Authenticate(tokens, acceptAll{}, logger.Discard()))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(requestIDHeader, "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "req-1", w.Header().Get(requestIDHeader))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, uint(7), entry.Data["user_id"])
	assert.Equal(t, "req-1", entry.Data["request_id"])
	assert.Equal(t, logrus.InfoLevel, entry.Level)
}

func TestRequestLoggerAnonymousCaller(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, hook := logtest.NewNullLogger()
	r := gin.New()
	r.Use(RequestLogger(logrus.NewEntry(log)))
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.NotContains(t, entry.Data, "user_id")
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
	assert.Equal(t, logrus.WarnLevel, entry.Level)
}
