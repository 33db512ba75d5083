// Package metrics exposes Prometheus instruments for the API surface.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	reorders     *prometheus.CounterVec
	cacheLookups *prometheus.CounterVec
	exports      prometheus.Counter
}

// New registers and returns the application metrics.
func New() *Metrics {
	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sparklink_http_requests_total",
		Help: "Counts HTTP requests by method, route, and status.",
	}, []string{"method", "route", "status"})

	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sparklink_http_duration_seconds",
		Help:    "HTTP request latency per method/route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	reorders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sparklink_reorders_total",
		Help: "Reorder submissions by resource and outcome.",
	}, []string{"resource", "outcome"})

	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sparklink_publicsite_cache_lookups_total",
		Help: "Public site cache lookups by result.",
	}, []string{"result"})

	exports := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sparklink_resume_exports_total",
		Help: "Resume PDF exports.",
	})

	prometheus.MustRegister(
		httpRequests,
		httpDuration,
		reorders,
		cacheLookups,
		exports,
	)

	return &Metrics{
		httpRequests: httpRequests,
		httpDuration: httpDuration,
		reorders:     reorders,
		cacheLookups: cacheLookups,
		exports:      exports,
	}
}

func (m *Metrics) ObserveReorder(resource string, ok bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "rejected"
	}
	m.reorders.WithLabelValues(resource, outcome).Inc()
}

func (m *Metrics) ObserveCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveExport() {
	if m == nil {
		return
	}
	m.exports.Inc()
}

// GinMiddleware records request counts and latency. The route template is
// used as the label so path parameters do not explode cardinality.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, route).
			Observe(time.Since(start).Seconds())
	}
}
