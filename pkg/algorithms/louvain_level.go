package algorithms

import (
	"slices"

	"github.com/dd0wney/cluso-contactnet/pkg/graph"
)

// moveTolerance is the smallest modularity improvement accepted for a move
const moveTolerance = 1e-12

type arc struct {
	to     int
	weight float64
}

// levelGraph is the indexed graph one Louvain level works on. Unlike
// graph.Graph it carries self-loops: self[i] holds A_ii, which for a
// super-node is twice the intra-community weight it absorbed.
type levelGraph struct {
	n      int
	arcs   [][]arc // sorted by target, no self entries
	self   []float64
	degree []float64 // k_i = sum of arcs + self
	m2     float64   // 2m = sum of degrees
}

// newLevelGraph indexes g by ascending node ID
func newLevelGraph(g *graph.Graph) (*levelGraph, []graph.NodeID) {
	nodes := g.Nodes()
	index := make(map[graph.NodeID]int, len(nodes))
	for i, id := range nodes {
		index[id] = i
	}

	lg := &levelGraph{
		n:      len(nodes),
		arcs:   make([][]arc, len(nodes)),
		self:   make([]float64, len(nodes)),
		degree: make([]float64, len(nodes)),
	}
	for i, id := range nodes {
		nbrs := g.Neighbors(id)
		lg.arcs[i] = make([]arc, 0, len(nbrs))
		for _, nb := range nbrs {
			lg.arcs[i] = append(lg.arcs[i], arc{to: index[nb.ID], weight: nb.Weight})
			lg.degree[i] += nb.Weight
		}
		lg.m2 += lg.degree[i]
	}
	return lg, nodes
}

// modularity evaluates Q for a community assignment over this level's nodes
func (lg *levelGraph) modularity(comm []int, k int) float64 {
	if lg.m2 == 0 {
		return 0
	}
	in := make([]float64, k)
	tot := make([]float64, k)
	for i := 0; i < lg.n; i++ {
		c := comm[i]
		tot[c] += lg.degree[i]
		in[c] += lg.self[i]
		for _, a := range lg.arcs[i] {
			if comm[a.to] == c {
				in[c] += a.weight
			}
		}
	}
	q := 0.0
	for c := 0; c < k; c++ {
		share := tot[c] / lg.m2
		q += in[c]/lg.m2 - share*share
	}
	return q
}

// moveStats summarizes one local-moving phase
type moveStats struct {
	passes    int
	moves     int
	converged bool
}

// localMove runs phase 1 from singleton communities. Nodes are visited in
// the given order; each node joins the neighbouring community with the
// strictly greatest modularity gain, ties going to the lowest community ID.
// comm[i] is the community of node i, labelled by a founding node index.
func (lg *levelGraph) localMove(order []int, maxPasses int) ([]int, moveStats) {
	comm := make([]int, lg.n)
	tot := make([]float64, lg.n)
	for i := 0; i < lg.n; i++ {
		comm[i] = i
		tot[i] = lg.degree[i]
	}

	stats := moveStats{converged: true}
	if lg.m2 == 0 {
		return comm, stats
	}

	m := lg.m2 / 2
	linkWeight := make([]float64, lg.n) // k_{i,c} for the node being moved
	touched := make([]int, 0, 16)

	for stats.passes < maxPasses {
		stats.passes++
		passMoves := 0

		for _, i := range order {
			ki := lg.degree[i]
			current := comm[i]

			touched = touched[:0]
			for _, a := range lg.arcs[i] {
				c := comm[a.to]
				if linkWeight[c] == 0 {
					touched = append(touched, c)
				}
				linkWeight[c] += a.weight
			}

			// Take i out of its community before scoring candidates
			tot[current] -= ki
			gain := func(c int) float64 {
				return linkWeight[c]/m - tot[c]*ki/(2*m*m)
			}

			stayGain := gain(current)
			bestGain := stayGain
			for _, c := range touched {
				if c == current {
					continue
				}
				if g := gain(c); g > bestGain {
					bestGain = g
				}
			}

			target := current
			if bestGain-stayGain > moveTolerance {
				target = -1
				for _, c := range touched {
					if c != current && gain(c) == bestGain && (target < 0 || c < target) {
						target = c
					}
				}
			}

			tot[target] += ki
			if target != current {
				comm[i] = target
				passMoves++
			}

			for _, c := range touched {
				linkWeight[c] = 0
			}
		}

		stats.moves += passMoves
		if passMoves == 0 {
			return comm, stats
		}
	}

	// Pass cap reached while nodes were still moving
	stats.converged = false
	return comm, stats
}

// renumber maps community labels to 0..k-1 in order of first appearance by node index
func renumber(comm []int) ([]int, int) {
	relabel := make(map[int]int)
	out := make([]int, len(comm))
	for i, c := range comm {
		label, ok := relabel[c]
		if !ok {
			label = len(relabel)
			relabel[c] = label
		}
		out[i] = label
	}
	return out, len(relabel)
}

// aggregate collapses each community into a super-node (phase 2).
// comm must be renumbered 0..k-1.
func (lg *levelGraph) aggregate(comm []int, k int) *levelGraph {
	next := &levelGraph{
		n:      k,
		arcs:   make([][]arc, k),
		self:   make([]float64, k),
		degree: make([]float64, k),
		m2:     lg.m2,
	}

	cross := make([]map[int]float64, k)
	for c := range cross {
		cross[c] = make(map[int]float64)
	}

	for i := 0; i < lg.n; i++ {
		ci := comm[i]
		next.degree[ci] += lg.degree[i]
		next.self[ci] += lg.self[i]
		for _, a := range lg.arcs[i] {
			cj := comm[a.to]
			if ci == cj {
				// Visited from both endpoints, so intra weight lands twice
				next.self[ci] += a.weight
			} else {
				cross[ci][cj] += a.weight
			}
		}
	}

	for c := 0; c < k; c++ {
		targets := make([]int, 0, len(cross[c]))
		for d := range cross[c] {
			targets = append(targets, d)
		}
		slices.Sort(targets)
		next.arcs[c] = make([]arc, 0, len(targets))
		for _, d := range targets {
			next.arcs[c] = append(next.arcs[c], arc{to: d, weight: cross[c][d]})
		}
	}
	return next
}
