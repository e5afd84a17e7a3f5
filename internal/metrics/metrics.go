// Package metrics collects and exposes Prometheus metrics for the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	registry       *prometheus.Registry
	requestsTotal  *prometheus.CounterVec
	requestSeconds *prometheus.HistogramVec
	loginsTotal    *prometheus.CounterVec
	refreshesTotal *prometheus.CounterVec
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vidtube_http_requests_total",
			Help: "HTTP requests by route, method and status code",
		}, []string{"route", "method", "status"}),
		requestSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vidtube_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		loginsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vidtube_logins_total",
			Help: "Login attempts by outcome",
		}, []string{"outcome"}),
		refreshesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vidtube_token_refreshes_total",
			Help: "Refresh token exchanges by outcome",
		}, []string{"outcome"}),
	}

	c.registry.MustRegister(
		c.requestsTotal,
		c.requestSeconds,
		c.loginsTotal,
		c.refreshesTotal,
	)

	return c
}

// Handler serves the /metrics endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) RecordLogin(ok bool) {
	c.loginsTotal.WithLabelValues(outcome(ok)).Inc()
}

func (c *Collector) RecordRefresh(ok bool) {
	c.refreshesTotal.WithLabelValues(outcome(ok)).Inc()
}

func outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

// Middleware records per-request counters and latency, labeled by the chi
// route pattern rather than the raw path so ids do not explode cardinality.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}

		c.requestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		c.requestSeconds.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
