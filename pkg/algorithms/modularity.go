package algorithms

import (
	"slices"

	"github.com/dd0wney/cluso-contactnet/pkg/graph"
)

// Modularity computes Newman's weighted modularity of partition p on g:
//
//	Q = 1/(2m) * sum_ij [A_ij - k_i*k_j/(2m)] * delta(c_i, c_j)
//
// evaluated per community as sum_c [in_c/(2m) - (tot_c/(2m))^2].
// Nodes missing from p count as singletons. Q is 0 for a graph without weight.
func Modularity(g *graph.Graph, p Partition) float64 {
	m2 := 2 * g.TotalWeight()
	if m2 == 0 {
		return 0
	}

	nodes := g.Nodes()
	label := make(map[graph.NodeID]int, len(nodes))
	next := 0
	for _, c := range p {
		if c >= next {
			next = c + 1
		}
	}
	for _, id := range nodes {
		if c, ok := p[id]; ok {
			label[id] = c
		} else {
			label[id] = next
			next++
		}
	}

	in := make(map[int]float64)
	tot := make(map[int]float64)
	for _, e := range g.Edges() {
		if label[e.From] == label[e.To] {
			in[label[e.From]] += 2 * e.Weight
		}
	}
	for _, id := range nodes {
		tot[label[id]] += g.Strength(id)
	}

	comms := make([]int, 0, len(tot))
	for c := range tot {
		comms = append(comms, c)
	}
	slices.Sort(comms)

	q := 0.0
	for _, c := range comms {
		share := tot[c] / m2
		q += in[c]/m2 - share*share
	}
	return q
}
