package pipeline

import "github.com/dd0wney/cluso-contactnet/pkg/graph"

func graphID(v uint64) graph.NodeID {
	return graph.NodeID(v)
}
