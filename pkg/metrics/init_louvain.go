package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initLouvainMetrics() {
	r.LouvainLevels = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "contactnet_louvain_levels",
			Help:    "Aggregation levels recorded per Louvain run",
			Buckets: prometheus.LinearBuckets(1, 1, 8),
		},
	)

	r.LouvainPasses = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "contactnet_louvain_passes",
			Help:    "Local-moving passes summed over all levels of a run",
			Buckets: prometheus.ExponentialBuckets(1, 2, 8),
		},
	)

	r.LouvainMoves = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "contactnet_louvain_moves_total",
			Help: "Node moves accepted during local moving",
		},
	)

	r.LouvainNotConverged = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "contactnet_louvain_not_converged_total",
			Help: "Louvain runs stopped by a pass or level cap",
		},
	)

	r.LouvainModularityGain = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "contactnet_louvain_modularity_gain",
			Help:    "Modularity gained over the singleton partition",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)
}
