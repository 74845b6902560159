// Package metrics defines Prometheus metrics for the lineage service.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lineage_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lineage_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lineage_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	ResolveDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lineage_kinship_resolve_duration_seconds",
			Help:    "Kinship query duration including graph build, in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	GraphSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "lineage_kinship_graph_size",
			Help: "People in the most recently built kinship graph",
		},
	)

	PersonCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "lineage_people_total",
			Help: "Total person records (refreshed by the stats endpoint)",
		},
	)

	RelationshipCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "lineage_relationships_total",
			Help: "Total relationship records (refreshed by the stats endpoint)",
		},
	)

	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "lineage_websocket_connections",
			Help: "Active WebSocket connections",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		ResolveDuration, GraphSize, PersonCount, RelationshipCount,
		WSConnections,
	)
}
