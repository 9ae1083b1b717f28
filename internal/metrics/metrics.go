// Package metrics defines Prometheus metrics for traceops.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "traceops_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "traceops_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "traceops_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	ActivityQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "traceops_activity_queue_depth",
			Help: "Pending entries in the activity writer queue",
		},
	)

	ActivityRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "traceops_activity_records_total",
			Help: "Activity records written, by entity type",
		},
		[]string{"entity_type"},
	)

	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "traceops_websocket_connections",
			Help: "Active WebSocket connections",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		ActivityQueueDepth, ActivityRecordsTotal, WSConnections,
	)
}
