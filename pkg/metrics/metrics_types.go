package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics of an analysis process
type Registry struct {
	// Run metrics
	RunsTotal        *prometheus.CounterVec
	RunDuration      prometheus.Histogram
	RecordsIngested  prometheus.Counter
	RecordsDropped   prometheus.Counter
	ReportsExported  *prometheus.CounterVec
	TaskPanicsTotal  prometheus.Counter
	GraphsInProgress prometheus.Gauge

	// Per-graph metrics
	GraphsAnalyzedTotal *prometheus.CounterVec
	GraphNodes          *prometheus.GaugeVec
	GraphEdges          *prometheus.GaugeVec
	GraphCommunities    *prometheus.GaugeVec
	GraphModularity     *prometheus.GaugeVec
	StageDuration       *prometheus.HistogramVec

	// Louvain metrics
	LouvainLevels         prometheus.Histogram
	LouvainPasses         prometheus.Histogram
	LouvainMoves          prometheus.Counter
	LouvainNotConverged   prometheus.Counter
	LouvainModularityGain prometheus.Histogram

	// System metrics
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process-wide registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a registry with every metric registered
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.initRunMetrics()
	r.initGraphMetrics()
	r.initLouvainMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
