package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "penbridge"

// Collector owns the proxy's Prometheus registry and the metrics recorded for
// inbound HTTP requests and outbound upstream calls.
//
// Metrics:
//   - penbridge_http_requests_total: inbound requests by method, route, status
//   - penbridge_http_request_duration_seconds: inbound request latency
//   - penbridge_upstream_requests_total: upstream calls by upstream, method, status
//   - penbridge_upstream_request_duration_seconds: upstream call latency
//   - penbridge_upstream_redirects_total: redirects replayed by the upstream client
type Collector struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	upstreamRequests  *prometheus.CounterVec
	upstreamDuration  *prometheus.HistogramVec
	upstreamRedirects *prometheus.CounterVec
}

// NewCollector creates a collector with its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),

		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of inbound proxy requests",
			},
			[]string{"method", "route", "status"},
		),

		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of inbound proxy requests in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
			},
			[]string{"method", "route"},
		),

		upstreamRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "upstream",
				Name:      "requests_total",
				Help:      "Total number of calls made to upstream services",
			},
			[]string{"upstream", "method", "status"},
		),

		upstreamDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "upstream",
				Name:      "request_duration_seconds",
				Help:      "Duration of upstream calls in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
			},
			[]string{"upstream", "method"},
		),

		upstreamRedirects: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "upstream",
				Name:      "redirects_total",
				Help:      "Redirect responses replayed with the original authorization",
			},
			[]string{"upstream"},
		),
	}

	c.registry.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.upstreamRequests,
		c.upstreamDuration,
		c.upstreamRedirects,
	)

	return c
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// RecordHTTP records a completed inbound request.
func (c *Collector) RecordHTTP(method, route string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordUpstream records one upstream call. A status of 0 means the call
// never produced a response.
func (c *Collector) RecordUpstream(upstream, method string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.upstreamRequests.WithLabelValues(upstream, method, strconv.Itoa(status)).Inc()
	c.upstreamDuration.WithLabelValues(upstream, method).Observe(duration.Seconds())
}

// RecordRedirect counts a redirect that was replayed.
func (c *Collector) RecordRedirect(upstream string) {
	if c == nil {
		return
	}
	c.upstreamRedirects.WithLabelValues(upstream).Inc()
}
