// Package metrics exposes render graph activity as Prometheus metrics.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vk/passgraph/internal/graph"
)

// Metrics holds all Prometheus metrics for the render graph. It implements
// graph.Observer.
type Metrics struct {
	compilesTotal   *prometheus.CounterVec
	compileDuration prometheus.Histogram

	passExecutions *prometheus.CounterVec
	passDuration   *prometheus.HistogramVec

	framesTotal  *prometheus.CounterVec
	reloadsTotal *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates a metrics instance backed by its own registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		compilesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "passgraph_compiles_total",
				Help: "Total number of graph compiles by result",
			},
			[]string{"result"},
		),

		compileDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "passgraph_compile_duration_seconds",
				Help:    "Graph compile latency in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
		),

		passExecutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "passgraph_pass_executions_total",
				Help: "Total number of pass executions by pass and result",
			},
			[]string{"pass", "result"},
		),

		passDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "passgraph_pass_duration_seconds",
				Help:    "Pass execution latency in seconds",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"pass"},
		),

		framesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "passgraph_frames_total",
				Help: "Total number of executed frames by result",
			},
			[]string{"result"},
		),

		reloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "passgraph_document_reloads_total",
				Help: "Total number of document reloads by result",
			},
			[]string{"result"},
		),

		registry: registry,
	}

	registry.MustRegister(
		m.compilesTotal,
		m.compileDuration,
		m.passExecutions,
		m.passDuration,
		m.framesTotal,
		m.reloadsTotal,
	)
	return m
}

var _ graph.Observer = (*Metrics)(nil)

// CompileFinished records a compile attempt. Failures are split into
// invalid graphs and other compile errors.
func (m *Metrics) CompileFinished(d time.Duration, err error) {
	m.compilesTotal.WithLabelValues(compileResult(err)).Inc()
	m.compileDuration.Observe(d.Seconds())
}

// PassFinished records one pass execution.
func (m *Metrics) PassFinished(name string, d time.Duration, err error) {
	m.passExecutions.WithLabelValues(name, result(err)).Inc()
	m.passDuration.WithLabelValues(name).Observe(d.Seconds())
}

// FrameFinished records one full graph execution.
func (m *Metrics) FrameFinished(err error) {
	m.framesTotal.WithLabelValues(result(err)).Inc()
}

// ReloadFinished records a document reload attempt.
func (m *Metrics) ReloadFinished(err error) {
	m.reloadsTotal.WithLabelValues(result(err)).Inc()
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func compileResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, graph.ErrAllocationFailure), errors.Is(err, graph.ErrTypeMismatch):
		return "bind_error"
	default:
		return "invalid"
	}
}
