// ABOUTME: Tests for metrics collectors and the exposition handler.
// ABOUTME: Verifies nil receivers are safe.

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveDispatch(t *testing.T) {
	m := New()
	m.ObserveDispatch("jsonrpc", "ok")
	m.ObserveDispatch("jsonrpc", "ok")
	m.ObserveDispatch("gateway", "error")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.dispatches.WithLabelValues("jsonrpc", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dispatches.WithLabelValues("gateway", "error")))
}

func TestObserveToolAndForward(t *testing.T) {
	m := New()
	m.ObserveTool("getCurrentTime", false, 5*time.Millisecond)
	m.ObserveTool("getCurrentTime", true, 5*time.Millisecond)
	m.ObserveForward("ok", time.Second)

	assert.Equal(t, 2, testutil.CollectAndCount(m.toolDuration))
	assert.Equal(t, 1, testutil.CollectAndCount(m.forwards))
}

func TestHandler_Exposition(t *testing.T) {
	m := New()
	m.ObserveDispatch("envelope", "ok")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `agentcore_bridge_dispatch_total{outcome="ok",path="envelope"} 1`)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveDispatch("x", "y")
		m.ObserveTool("x", false, time.Second)
		m.ObserveForward("ok", time.Second)
	})
	assert.Nil(t, m.Registry())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
