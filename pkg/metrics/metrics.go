package metrics

import (
	"fmt"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Graph kinds used as label values
const (
	KindPeriod    = "period"
	KindAggregate = "aggregate"
)

// Run statuses used as label values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// RecordRun records a finished analysis run
func (r *Registry) RecordRun(status string, duration time.Duration) {
	r.RunsTotal.WithLabelValues(status).Inc()
	r.RunDuration.Observe(duration.Seconds())
}

// RecordIngest records aggregator input volumes
func (r *Registry) RecordIngest(accepted, dropped int) {
	r.RecordsIngested.Add(float64(accepted))
	r.RecordsDropped.Add(float64(dropped))
}

// GraphObservation is what the pipeline reports for one analyzed graph.
// SingletonModularity is Q of the all-singletons partition.
type GraphObservation struct {
	Label               string
	Kind                string
	Nodes               int
	Edges               int
	Communities         int
	Modularity          float64
	SingletonModularity float64
	Levels              int
	Passes              int
	Moves               int
	Converged           bool
	LouvainDuration     time.Duration
	StatsDuration       time.Duration
}

// RecordGraph records the outcome of analyzing one graph
func (r *Registry) RecordGraph(obs GraphObservation) {
	r.GraphsAnalyzedTotal.WithLabelValues(obs.Kind).Inc()
	r.GraphNodes.WithLabelValues(obs.Label).Set(float64(obs.Nodes))
	r.GraphEdges.WithLabelValues(obs.Label).Set(float64(obs.Edges))
	r.GraphCommunities.WithLabelValues(obs.Label).Set(float64(obs.Communities))
	r.GraphModularity.WithLabelValues(obs.Label).Set(obs.Modularity)

	r.StageDuration.WithLabelValues("louvain").Observe(obs.LouvainDuration.Seconds())
	r.StageDuration.WithLabelValues("stats").Observe(obs.StatsDuration.Seconds())

	r.LouvainLevels.Observe(float64(obs.Levels))
	r.LouvainPasses.Observe(float64(obs.Passes))
	r.LouvainMoves.Add(float64(obs.Moves))
	r.LouvainModularityGain.Observe(obs.Modularity - obs.SingletonModularity)
	if !obs.Converged {
		r.LouvainNotConverged.Inc()
	}
}

// RecordExport records a written report
func (r *Registry) RecordExport(format string) {
	r.ReportsExported.WithLabelValues(format).Inc()
}

// UpdateSystemMetrics samples runtime statistics
func (r *Registry) UpdateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
	r.MemoryAllocBytes.Set(float64(m.Alloc))
}

// WriteTextfile writes all metrics in the Prometheus text format to path,
// for pickup by a node_exporter textfile collector.
func (r *Registry) WriteTextfile(path string) error {
	r.UpdateSystemMetrics()
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}
