// Package pipeline runs the full analysis: records are aggregated into
// period graphs, then every graph is partitioned and described in parallel.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/dd0wney/cluso-contactnet/pkg/algorithms"
	"github.com/dd0wney/cluso-contactnet/pkg/config"
	"github.com/dd0wney/cluso-contactnet/pkg/contact"
	"github.com/dd0wney/cluso-contactnet/pkg/graph"
	"github.com/dd0wney/cluso-contactnet/pkg/logging"
	"github.com/dd0wney/cluso-contactnet/pkg/metrics"
	"github.com/dd0wney/cluso-contactnet/pkg/parallel"
	"github.com/google/uuid"
)

// OptionsFromConfig builds run options from a validated configuration
func OptionsFromConfig(cfg *config.Config, logger logging.Logger, reg *metrics.Registry) Options {
	return Options{
		Contact: cfg.ContactOptions(),
		Louvain: cfg.LouvainOptions(),
		Workers: cfg.WorkerCount(),
		Logger:  logger,
		Metrics: reg,
	}
}

// PeriodLabel names the row of a period graph
func PeriodLabel(period int) string {
	return fmt.Sprintf("Period %d", period)
}

// Run aggregates records and analyzes every graph. Cancellation is checked
// before each graph starts; graphs already running finish.
func Run(ctx context.Context, records []contact.Record, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}

	result := &Result{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Records:   len(records),
	}
	logger := opts.Logger.With(logging.RunID(result.RunID))
	timer := logging.StartTimer(logger, "analysis run finished", logging.Records(len(records)))

	err := run(ctx, records, opts, logger, result)
	result.Duration = timer.Elapsed()

	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
		timer.EndError(err)
	} else {
		timer.End(logging.Int("graphs", len(result.Graphs)))
	}
	if opts.Metrics != nil {
		opts.Metrics.RecordRun(status, result.Duration)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func run(ctx context.Context, records []contact.Record, opts Options, logger logging.Logger, result *Result) error {
	built, err := contact.BuildGraphs(records, opts.Contact)
	if err != nil {
		return fmt.Errorf("build graphs: %w", err)
	}
	result.Dropped = built.Dropped
	if opts.Metrics != nil {
		opts.Metrics.RecordIngest(len(records)-built.Dropped, built.Dropped)
	}
	if built.Dropped > 0 {
		logger.Warn("dropped self-interactions", logging.Int("dropped", built.Dropped))
	}
	if len(built.Periods) == 0 {
		logger.Warn("no period graphs; aggregate is empty")
	}

	for _, p := range built.PeriodKeys() {
		result.Graphs = append(result.Graphs, &GraphResult{
			Label:  PeriodLabel(p),
			Period: p,
			Graph:  built.Periods[p],
		})
	}
	result.Graphs = append(result.Graphs, &GraphResult{
		Label:     AggregateLabel,
		Aggregate: true,
		Graph:     built.Aggregate,
	})

	var (
		mu   sync.Mutex
		errs []error
	)
	fail := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	pool, err := parallel.NewWorkerPool(min(opts.Workers, len(result.Graphs)),
		parallel.WithLogger(logger),
		parallel.WithPanicHandler(func(p *parallel.PanicError) {
			if opts.Metrics != nil {
				opts.Metrics.TaskPanicsTotal.Inc()
			}
			fail(p)
		}),
	)
	if err != nil {
		return fmt.Errorf("start worker pool: %w", err)
	}

	for _, gr := range result.Graphs {
		task := func() {
			if ctx.Err() != nil {
				return
			}
			if err := analyze(gr, opts, logger); err != nil {
				fail(err)
			}
		}
		if err := pool.SubmitContext(ctx, task); err != nil {
			break
		}
	}
	pool.Close()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("analysis cancelled: %w", err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("analysis failed: %w", errors.Join(errs...))
	}
	return nil
}

// analyze runs Louvain and the statistics engine on one graph
func analyze(gr *GraphResult, opts Options, logger logging.Logger) error {
	if gr.Graph == nil {
		return fmt.Errorf("%s: missing graph", gr.Label)
	}
	log := logger.With(logging.GraphLabel(gr.Label))
	if opts.Metrics != nil {
		opts.Metrics.GraphsInProgress.Inc()
		defer opts.Metrics.GraphsInProgress.Dec()
	}

	start := time.Now()
	gr.Louvain = algorithms.Louvain(gr.Graph, opts.Louvain)
	louvainTime := time.Since(start)

	for _, lvl := range gr.Louvain.Levels {
		log.Debug("louvain level",
			logging.LouvainLevel(lvl.Level),
			logging.Communities(lvl.Communities),
			logging.Modularity(lvl.Modularity),
			logging.Int("passes", lvl.Passes),
			logging.Int("moves", lvl.Moves),
		)
	}
	if !gr.Louvain.Converged {
		log.Warn("louvain stopped at a cap; partition is best effort",
			logging.Int("max_passes", opts.Louvain.MaxPasses),
			logging.Int("max_levels", opts.Louvain.MaxLevels),
		)
	}

	start = time.Now()
	gr.Stats = algorithms.ComputeStats(gr.Graph, gr.Louvain.NodeCommunity, &gr.Louvain.Modularity)
	statsTime := time.Since(start)

	log.Info("graph analyzed",
		logging.Nodes(gr.Stats.NodeCount),
		logging.Edges(gr.Stats.EdgeCount),
		logging.Communities(gr.Stats.CommunityCount),
		logging.Modularity(gr.Stats.Modularity),
	)

	if opts.Metrics != nil {
		opts.Metrics.RecordGraph(observation(gr, louvainTime, statsTime))
	}
	return nil
}

func observation(gr *GraphResult, louvainTime, statsTime time.Duration) metrics.GraphObservation {
	kind := metrics.KindPeriod
	if gr.Aggregate {
		kind = metrics.KindAggregate
	}
	passes, moves := 0, 0
	for _, lvl := range gr.Louvain.Levels {
		passes += lvl.Passes
		moves += lvl.Moves
	}
	return metrics.GraphObservation{
		Label:               gr.Label,
		Kind:                kind,
		Nodes:               gr.Stats.NodeCount,
		Edges:               gr.Stats.EdgeCount,
		Communities:         gr.Stats.CommunityCount,
		Modularity:          gr.Stats.Modularity,
		SingletonModularity: algorithms.Modularity(gr.Graph, nil),
		Levels:              len(gr.Louvain.Levels),
		Passes:              passes,
		Moves:               moves,
		Converged:           gr.Louvain.Converged,
		LouvainDuration:     louvainTime,
		StatsDuration:       statsTime,
	}
}

// Stats returns the statistics records in row order
func (r *Result) Stats() []*algorithms.NetworkStats {
	stats := make([]*algorithms.NetworkStats, len(r.Graphs))
	for i, gr := range r.Graphs {
		stats[i] = gr.Stats
	}
	return stats
}

// Graph returns the result labelled label, or nil
func (r *Result) Graph(label string) *GraphResult {
	for _, gr := range r.Graphs {
		if gr.Label == label {
			return gr
		}
	}
	return nil
}

// AggregateGraph returns the aggregate graph of the run
func (r *Result) AggregateGraph() *graph.Graph {
	if gr := r.Graph(AggregateLabel); gr != nil {
		return gr.Graph
	}
	return nil
}
