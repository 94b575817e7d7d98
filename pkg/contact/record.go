package contact

import "github.com/dd0wney/cluso-contactnet/pkg/graph"

// Record is one observed proximity contact between two individuals
type Record struct {
	Source graph.NodeID `json:"source"`
	Target graph.NodeID `json:"target"`
	Period int          `json:"period"`
}

// pair returns the endpoints in canonical (low, high) order
func (r Record) pair() (graph.NodeID, graph.NodeID) {
	if r.Source < r.Target {
		return r.Source, r.Target
	}
	return r.Target, r.Source
}
