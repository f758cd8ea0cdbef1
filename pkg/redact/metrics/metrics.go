package metrics

import (
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// System metrics
	SystemMemoryUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "system_memory_bytes",
		Help: "Current system memory usage",
	})

	SystemGoroutines = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "system_goroutines",
		Help: "Number of goroutines",
	})

	// Pipeline metrics
	DocumentsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redactor_documents_processed_total",
			Help: "Documents processed by final status",
		},
		[]string{"status"},
	)

	ScanDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "redactor_scan_duration_seconds",
			Help: "Time spent scanning document chunks",
		},
		[]string{"stage"},
	)

	DetectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redactor_detections_total",
			Help: "Accepted scan targets by detector",
		},
		[]string{"detector"},
	)

	RedactionActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redactor_actions_total",
			Help: "Per-occurrence redaction decisions",
		},
		[]string{"action"},
	)

	// Graph metrics
	GraphNodeCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "redactor_graph_nodes_total",
		Help: "Entities registered in the last document memory",
	})

	GraphEdgeCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "redactor_graph_edges_total",
		Help: "Co-occurrence edges in the last document memory",
	})

	// Validator cache metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redactor_cache_hits_total",
			Help: "Number of validator cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redactor_cache_misses_total",
			Help: "Number of validator cache misses",
		},
		[]string{"cache_type"},
	)
)

// UpdateSystemMetrics updates system-level metrics.
func UpdateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	SystemMemoryUsage.Set(float64(m.Alloc))
	SystemGoroutines.Set(float64(runtime.NumGoroutine()))
}
