package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initRunMetrics() {
	r.RunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "contactnet_runs_total",
			Help: "Total number of analysis runs",
		},
		[]string{"status"},
	)

	r.RunDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "contactnet_run_duration_seconds",
			Help:    "Wall time of a full analysis run",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		},
	)

	r.RecordsIngested = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "contactnet_records_ingested_total",
			Help: "Interaction records accepted by the aggregator",
		},
	)

	r.RecordsDropped = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "contactnet_records_dropped_total",
			Help: "Self-interaction records dropped by the aggregator",
		},
	)

	r.ReportsExported = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "contactnet_reports_exported_total",
			Help: "Reports written, by format",
		},
		[]string{"format"},
	)

	r.TaskPanicsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "contactnet_task_panics_total",
			Help: "Analysis tasks that panicked",
		},
	)

	r.GraphsInProgress = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "contactnet_graphs_in_progress",
			Help: "Graphs currently being analyzed",
		},
	)
}

func (r *Registry) initGraphMetrics() {
	r.GraphsAnalyzedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "contactnet_graphs_analyzed_total",
			Help: "Graphs analyzed, by kind (period or aggregate)",
		},
		[]string{"kind"},
	)

	r.GraphNodes = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "contactnet_graph_nodes",
			Help: "Node count of the last analyzed graph per label",
		},
		[]string{"graph"},
	)

	r.GraphEdges = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "contactnet_graph_edges",
			Help: "Edge count of the last analyzed graph per label",
		},
		[]string{"graph"},
	)

	r.GraphCommunities = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "contactnet_graph_communities",
			Help: "Communities found in the last analyzed graph per label",
		},
		[]string{"graph"},
	)

	r.GraphModularity = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "contactnet_graph_modularity",
			Help: "Modularity of the last partition per graph label",
		},
		[]string{"graph"},
	)

	r.StageDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "contactnet_stage_duration_seconds",
			Help:    "Duration of one analysis stage for one graph",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
		[]string{"stage"},
	)
}
