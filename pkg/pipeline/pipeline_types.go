package pipeline

import (
	"time"

	"github.com/dd0wney/cluso-contactnet/pkg/algorithms"
	"github.com/dd0wney/cluso-contactnet/pkg/contact"
	"github.com/dd0wney/cluso-contactnet/pkg/graph"
	"github.com/dd0wney/cluso-contactnet/pkg/logging"
	"github.com/dd0wney/cluso-contactnet/pkg/metrics"
)

// AggregateLabel names the row of the all-periods graph
const AggregateLabel = "Aggregate"

// Options configures one analysis run. Workers bounds cross-graph
// parallelism; 0 means one per CPU. Logger and Metrics are optional.
type Options struct {
	Contact contact.Options
	Louvain algorithms.LouvainOptions
	Workers int
	Logger  logging.Logger
	Metrics *metrics.Registry
}

// GraphResult is the analysis of one graph
type GraphResult struct {
	Label     string
	Period    int // 0 for the aggregate
	Aggregate bool
	Graph     *graph.Graph
	Louvain   *algorithms.LouvainResult
	Stats     *algorithms.NetworkStats
}

// Result is the output of a run: one GraphResult per period in ascending
// order followed by the aggregate.
type Result struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	Records   int
	Dropped   int
	Graphs    []*GraphResult
}
