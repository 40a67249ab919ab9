package router

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/cotisations/backend/internal/httputil"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cotisations"

// URLMiddleware sets the API base URL in the context so that handlers can build links.
func URLMiddleware(url *url.URL) gin.HandlerFunc {
	base := url.String()

	return func(c *gin.Context) {
		c.Set(string(httputil.ContextURL), base)
		c.Next()
	}
}

var requestCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "How many HTTP requests processed, partitioned by status code, HTTP method and route.",
	},
	[]string{"code", "method", "url"},
)

var requestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "request_duration_seconds",
		Help:      "The HTTP request latencies in seconds.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"code", "method", "url"},
)

var requestsInFlight = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being served.",
	},
)

var metrics = []prometheus.Collector{
	requestCount,
	requestDuration,
	requestsInFlight,
}

// registerPrometheusMetrics registers all Prometheus metrics
// with the default registry.
func registerPrometheusMetrics() error {
	for _, c := range metrics {
		if err := prometheus.Register(c); err != nil {
			return fmt.Errorf("could not register metric with Prometheus: %w", err)
		}
	}

	return nil
}

// unregisterPrometheusMetrics unregisters all Prometheus metrics.
// It reports whether all of them were registered.
func unregisterPrometheusMetrics() bool {
	ok := true
	for _, c := range metrics {
		ok = prometheus.Unregister(c) && ok
	}

	return ok
}

// MetricsMiddleware updates Prometheus metrics.
//
// Requests are labelled with the route template, e.g. /v1/neighbors/:id,
// so that IDs do not create new series. Requests that match no route share
// one label.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestsInFlight.Inc()
		start := time.Now()

		c.Next()

		requestsInFlight.Dec()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		status := strconv.Itoa(c.Writer.Status())
		requestDuration.WithLabelValues(status, c.Request.Method, route).Observe(time.Since(start).Seconds())
		requestCount.WithLabelValues(status, c.Request.Method, route).Inc()
	}
}
