// Package report turns pipeline results into exportable reports: CSV and
// JSON files, snappy-compressed JSON, S3 objects and terminal tables.
package report

import (
	"time"

	"github.com/dd0wney/cluso-contactnet/pkg/algorithms"
	"github.com/dd0wney/cluso-contactnet/pkg/config"
	"github.com/dd0wney/cluso-contactnet/pkg/pipeline"
)

// Columns is the header of the statistics table
var Columns = append([]string{"graph"}, algorithms.StatColumns...)

// Row is one line of the statistics table
type Row struct {
	Graph string                  `json:"graph"`
	Stats algorithms.NetworkStats `json:"stats"`
}

// Level summarizes one Louvain aggregation level
type Level struct {
	Level       int     `json:"level"`
	Passes      int     `json:"passes"`
	Moves       int     `json:"moves"`
	Communities int     `json:"communities"`
	Modularity  float64 `json:"modularity"`
}

// GraphDetail carries the partition and Louvain trace of one graph
type GraphDetail struct {
	Graph     string               `json:"graph"`
	Converged bool                 `json:"converged"`
	Partition algorithms.Partition `json:"partition"`
	Levels    []Level              `json:"levels"`
}

// Report is the complete output of one run
type Report struct {
	RunID       string             `json:"run_id"`
	GeneratedAt time.Time          `json:"generated_at"`
	Duration    string             `json:"duration"`
	Records     int                `json:"records"`
	Dropped     int                `json:"dropped"`
	Config      *config.Config     `json:"config,omitempty"`
	Rows        []Row              `json:"rows"`
	Correlation *CorrelationMatrix `json:"correlation,omitempty"`
	Graphs      []GraphDetail      `json:"graphs"`
}

// FromResult builds a report from a finished run. cfg may be nil.
func FromResult(res *pipeline.Result, cfg *config.Config) *Report {
	rep := &Report{
		RunID:       res.RunID,
		GeneratedAt: res.StartedAt.Add(res.Duration),
		Duration:    res.Duration.String(),
		Records:     res.Records,
		Dropped:     res.Dropped,
		Config:      cfg,
		Rows:        make([]Row, 0, len(res.Graphs)),
		Graphs:      make([]GraphDetail, 0, len(res.Graphs)),
	}

	for _, gr := range res.Graphs {
		rep.Rows = append(rep.Rows, Row{Graph: gr.Label, Stats: *gr.Stats})

		levels := make([]Level, len(gr.Louvain.Levels))
		for i, lvl := range gr.Louvain.Levels {
			levels[i] = Level{
				Level:       lvl.Level,
				Passes:      lvl.Passes,
				Moves:       lvl.Moves,
				Communities: lvl.Communities,
				Modularity:  lvl.Modularity,
			}
		}
		rep.Graphs = append(rep.Graphs, GraphDetail{
			Graph:     gr.Label,
			Converged: gr.Louvain.Converged,
			Partition: gr.Louvain.NodeCommunity,
			Levels:    levels,
		})
	}
	rep.Correlation = Correlation(rep.Rows)
	return rep
}

// Detail returns the graph detail labelled label, or nil
func (r *Report) Detail(label string) *GraphDetail {
	for i := range r.Graphs {
		if r.Graphs[i].Graph == label {
			return &r.Graphs[i]
		}
	}
	return nil
}
