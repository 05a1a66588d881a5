// Package metrics owns the Prometheus registry for the service. A nil
// *Metrics is valid and records nothing.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/moodlog/internal/remote"
)

const namespace = "moodlog"

// Metrics groups the collectors exposed at /metrics.
type Metrics struct {
	registry     *prometheus.Registry
	requests     *prometheus.CounterVec
	durations    *prometheus.HistogramVec
	syncFailures *prometheus.CounterVec
	writes       *prometheus.CounterVec
	heavyCard    *prometheus.CounterVec
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests processed.",
		}, []string{"route", "method", "status"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		syncFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_failures_total",
			Help:      "Remote loads that fell back to cached data.",
		}, []string{"collection", "kind"}),
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "remote_writes_total",
			Help:      "Remote writes by record kind and outcome.",
		}, []string{"kind", "outcome"}),
		heavyCard: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "heavy_card_events_total",
			Help:      "Supportive prompt shown and dismissed events.",
		}, []string{"event"}),
	}
	registry.MustRegister(m.requests, m.durations, m.syncFailures, m.writes, m.heavyCard)
	return m
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency per matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.durations.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// SyncFailed counts a remote load that degraded to the cache.
func (m *Metrics) SyncFailed(collection string, err error) {
	if m == nil {
		return
	}
	m.syncFailures.WithLabelValues(collection, errorKind(err)).Inc()
}

// WriteCompleted counts a remote write; err nil means success.
func (m *Metrics) WriteCompleted(kind string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = errorKind(err)
	}
	m.writes.WithLabelValues(kind, outcome).Inc()
}

// HeavyCard counts a shown or dismissed prompt.
func (m *Metrics) HeavyCard(event string) {
	if m == nil {
		return
	}
	m.heavyCard.WithLabelValues(event).Inc()
}

func errorKind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, remote.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, remote.ErrUnavailable):
		return "unavailable"
	case errors.Is(err, remote.ErrNotFound):
		return "not_found"
	case errors.Is(err, remote.ErrLocked):
		return "locked"
	default:
		return "other"
	}
}
