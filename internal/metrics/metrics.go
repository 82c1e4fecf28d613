// ABOUTME: Prometheus collectors for dispatch classification, tool runs and gateway forwards.
// ABOUTME: A nil *Metrics is valid and records nothing.

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "agentcore_bridge"

// Metrics owns a private registry so several instances can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	dispatches   *prometheus.CounterVec
	toolDuration *prometheus.HistogramVec
	forwards     *prometheus.HistogramVec
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		dispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dispatch_total",
				Help:      "Inbound events by classification path and outcome.",
			},
			[]string{"path", "outcome"},
		),
		toolDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "tool_duration_seconds",
				Help:      "Duration of local tool executions.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"tool_name", "is_error"},
		),
		forwards: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "forward_duration_seconds",
				Help:      "Duration of signed tools/call forwards to the gateway.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
	}
	m.registry.MustRegister(m.dispatches, m.toolDuration, m.forwards)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveDispatch counts one classified inbound event.
func (m *Metrics) ObserveDispatch(path, outcome string) {
	if m == nil {
		return
	}
	m.dispatches.WithLabelValues(path, outcome).Inc()
}

// ObserveTool records one local tool execution.
func (m *Metrics) ObserveTool(name string, isError bool, d time.Duration) {
	if m == nil {
		return
	}
	label := "false"
	if isError {
		label = "true"
	}
	m.toolDuration.WithLabelValues(name, label).Observe(d.Seconds())
}

// ObserveForward records one forward attempt to the gateway.
func (m *Metrics) ObserveForward(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.forwards.WithLabelValues(outcome).Observe(d.Seconds())
}
