package contact

import (
	"fmt"
	"slices"

	"github.com/dd0wney/cluso-contactnet/pkg/graph"
	"github.com/dd0wney/cluso-contactnet/pkg/validation"
)

// Options configures graph construction
type Options struct {
	MinPeriod     int  `yaml:"min_period" validate:"min=1"`
	MaxPeriod     int  `yaml:"max_period" validate:"gtefield=MinPeriod"`
	DropSelfLoops bool `yaml:"drop_self_loops"`
}

// DefaultOptions returns the five-day school week configuration
func DefaultOptions() Options {
	return Options{
		MinPeriod: 1,
		MaxPeriod: 5,
	}
}

// Validate checks the option values
func (o Options) Validate() error {
	if err := validation.Struct(o); err != nil {
		return fmt.Errorf("contact options: %w", err)
	}
	return nil
}

// Result holds one graph per observed period plus their aggregate
type Result struct {
	Periods   map[int]*graph.Graph
	Aggregate *graph.Graph
	Dropped   int // self-interactions skipped when DropSelfLoops is set
}

// PeriodKeys returns the observed periods in ascending order
func (r *Result) PeriodKeys() []int {
	keys := make([]int, 0, len(r.Periods))
	for p := range r.Periods {
		keys = append(keys, p)
	}
	slices.Sort(keys)
	return keys
}

// BuildGraphs groups records by period and counts interactions per unordered
// node pair. The aggregate graph is derived from the period graphs only.
func BuildGraphs(records []Record, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, EmptyInputError{}
	}

	result := &Result{Periods: make(map[int]*graph.Graph)}

	for i, rec := range records {
		if rec.Period < opts.MinPeriod || rec.Period > opts.MaxPeriod {
			return nil, &MalformedRecordError{Index: i, Record: rec, Reason: ReasonPeriodRange}
		}
		if rec.Source == rec.Target {
			if opts.DropSelfLoops {
				result.Dropped++
				continue
			}
			return nil, &MalformedRecordError{Index: i, Record: rec, Reason: ReasonSelfInteraction}
		}

		// Nodes and edges enter each graph in first-seen order
		g, ok := result.Periods[rec.Period]
		if !ok {
			g = graph.New()
			result.Periods[rec.Period] = g
		}
		u, v := rec.pair()
		if err := g.IncrementEdge(u, v); err != nil {
			return nil, fmt.Errorf("period %d: %w", rec.Period, err)
		}
	}

	periodGraphs := make([]*graph.Graph, 0, len(result.Periods))
	for _, p := range result.PeriodKeys() {
		periodGraphs = append(periodGraphs, result.Periods[p])
	}
	result.Aggregate = graph.Merge(periodGraphs...)

	return result, nil
}
