// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "price_scraper"

// Fetch outcomes.
const (
	OutcomeSuccess          = "success"
	OutcomeUpstreamNotFound = "upstream_not_found"
	OutcomeTransportFailure = "transport_failure"
	OutcomeError            = "error"
)

// Refresh results.
const (
	RefreshFetched = "fetched"
	RefreshShared  = "shared"
	RefreshLocked  = "locked"
	RefreshFresh   = "fresh"
)

// PriceFetchTotal counts upstream price fetches by outcome.
var PriceFetchTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "price_source",
		Name:      "fetch_total",
		Help:      "Total number of price fetches against the price source",
	},
	[]string{"outcome"},
)

// PriceFetchDuration tracks upstream fetch latency.
var PriceFetchDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "price_source",
		Name:      "fetch_duration_seconds",
		Help:      "Latency of price fetches in seconds",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	},
)

// RefreshTotal counts refresh attempts by result.
// fetched: this caller fetched, shared: joined an in-flight fetch,
// locked: another instance holds the refresh lock, fresh: nothing to do.
var RefreshTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scrapers",
		Name:      "refresh_total",
		Help:      "Total number of scraper refresh attempts",
	},
	[]string{"result"},
)

var httpRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests",
	},
	[]string{"method", "route", "status"},
)

var httpRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// ObserveFetch records one price fetch.
func ObserveFetch(outcome string, took time.Duration) {
	PriceFetchTotal.WithLabelValues(outcome).Inc()
	PriceFetchDuration.Observe(took.Seconds())
}

// GinMiddleware records request counts and latency per matched route.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
