// Package metrics provides Prometheus metrics for almostcircle.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Labels stay low cardinality: no shape ids, request ids or raw paths.

var (
	// ShapeOperationsTotal counts shape operations by kind, operation and result.
	ShapeOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "circle_shape_operations_total",
		Help: "Total number of shape operations, by kind, operation and result.",
	}, []string{"kind", "op", "result"})

	// ShapesStored tracks how many shapes of each kind the store holds.
	ShapesStored = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "circle_shapes_stored",
		Help: "Current number of stored shapes, by kind.",
	}, []string{"kind"})

	// FileSyncTotal counts imports from and snapshots to the data directory.
	FileSyncTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "circle_file_sync_total",
		Help: "Total number of data directory syncs, by kind, direction and result.",
	}, []string{"kind", "direction", "result"})

	// HTTPRequestsTotal counts API requests by method, route pattern and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "circle_http_requests_total",
		Help: "Total number of HTTP requests, by method, route and status.",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration observes API latency by method and route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "circle_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds, by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// SSEClients tracks connected event stream clients.
	SSEClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "circle_sse_clients",
		Help: "Current number of connected server-sent event clients.",
	})
)

// RecordShapeOp counts one shape operation
func RecordShapeOp(kind, op string, err error) {
	ShapeOperationsTotal.WithLabelValues(kind, op, result(err)).Inc()
}

// RecordFileSync counts one import ("in") or snapshot ("out")
func RecordFileSync(kind, direction string, err error) {
	FileSyncTotal.WithLabelValues(kind, direction, result(err)).Inc()
}

// ObserveHTTP records one finished request
func ObserveHTTP(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Handler exposes the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
