package graph

import (
	"fmt"
	"math"
	"slices"
)

// New creates an empty graph
func New() *Graph {
	return &Graph{
		index: make(map[NodeID]int),
	}
}

// AddNode adds a node if it does not exist yet and returns its dense index
func (g *Graph) AddNode(id NodeID) int {
	if idx, ok := g.index[id]; ok {
		return idx
	}
	idx := len(g.ids)
	g.ids = append(g.ids, id)
	g.adj = append(g.adj, make(map[int]float64))
	g.index[id] = idx
	return idx
}

// AddEdge adds weight to the undirected edge (u, v), creating the edge and
// its endpoints when needed. Adding an existing edge increments its weight.
func (g *Graph) AddEdge(u, v NodeID, weight float64) error {
	if u == v {
		return fmt.Errorf("edge (%d, %d): %w", u, v, ErrSelfLoop)
	}
	if weight <= 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return fmt.Errorf("edge (%d, %d) weight %v: %w", u, v, weight, ErrInvalidWeight)
	}

	ui := g.AddNode(u)
	vi := g.AddNode(v)

	if _, exists := g.adj[ui][vi]; !exists {
		g.edgeCount++
	}
	g.adj[ui][vi] += weight
	g.adj[vi][ui] += weight
	g.totalWeight += weight
	return nil
}

// IncrementEdge records one more interaction between u and v
func (g *Graph) IncrementEdge(u, v NodeID) error {
	return g.AddEdge(u, v, 1)
}

// HasNode reports whether id is part of the graph
func (g *Graph) HasNode(id NodeID) bool {
	_, ok := g.index[id]
	return ok
}

// HasEdge reports whether u and v are adjacent
func (g *Graph) HasEdge(u, v NodeID) bool {
	return g.Weight(u, v) > 0
}

// Weight returns the weight of edge (u, v), or 0 when absent
func (g *Graph) Weight(u, v NodeID) float64 {
	ui, ok := g.index[u]
	if !ok {
		return 0
	}
	vi, ok := g.index[v]
	if !ok {
		return 0
	}
	return g.adj[ui][vi]
}

// NodeCount returns the number of nodes
func (g *Graph) NodeCount() int {
	return len(g.ids)
}

// EdgeCount returns the number of distinct undirected edges
func (g *Graph) EdgeCount() int {
	return g.edgeCount
}

// TotalWeight returns the sum of all edge weights, each edge counted once
func (g *Graph) TotalWeight() float64 {
	return g.totalWeight
}

// Nodes returns all node IDs in ascending order
func (g *Graph) Nodes() []NodeID {
	nodes := slices.Clone(g.ids)
	slices.Sort(nodes)
	return nodes
}

// Neighbors returns the neighbours of id in ascending ID order
func (g *Graph) Neighbors(id NodeID) []Neighbor {
	idx, ok := g.index[id]
	if !ok {
		return nil
	}
	neighbors := make([]Neighbor, 0, len(g.adj[idx]))
	for vi, w := range g.adj[idx] {
		neighbors = append(neighbors, Neighbor{ID: g.ids[vi], Weight: w})
	}
	slices.SortFunc(neighbors, func(a, b Neighbor) int {
		return compareIDs(a.ID, b.ID)
	})
	return neighbors
}

// Degree returns the number of distinct neighbours of id
func (g *Graph) Degree(id NodeID) int {
	idx, ok := g.index[id]
	if !ok {
		return 0
	}
	return len(g.adj[idx])
}

// Strength returns the weighted degree of id (sum of incident edge weights)
func (g *Graph) Strength(id NodeID) float64 {
	idx, ok := g.index[id]
	if !ok {
		return 0
	}
	// Sum in neighbour order so the result does not depend on map layout
	sum := 0.0
	for _, n := range g.Neighbors(g.ids[idx]) {
		sum += n.Weight
	}
	return sum
}

// MaxWeight returns the largest edge weight, or 0 for an edgeless graph
func (g *Graph) MaxWeight() float64 {
	maxW := 0.0
	for _, nbrs := range g.adj {
		for _, w := range nbrs {
			if w > maxW {
				maxW = w
			}
		}
	}
	return maxW
}

// Edges returns every edge once with From < To, sorted by (From, To)
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, g.edgeCount)
	for ui, nbrs := range g.adj {
		u := g.ids[ui]
		for vi, w := range nbrs {
			v := g.ids[vi]
			if u < v {
				edges = append(edges, Edge{From: u, To: v, Weight: w})
			}
		}
	}
	slices.SortFunc(edges, func(a, b Edge) int {
		if c := compareIDs(a.From, b.From); c != 0 {
			return c
		}
		return compareIDs(a.To, b.To)
	})
	return edges
}

// Subgraph returns the induced subgraph on the given nodes. Unknown IDs are ignored.
func (g *Graph) Subgraph(nodes []NodeID) *Graph {
	sub := New()
	keep := make(map[NodeID]bool, len(nodes))
	for _, id := range nodes {
		if g.HasNode(id) {
			keep[id] = true
			sub.AddNode(id)
		}
	}
	for _, e := range g.Edges() {
		if keep[e.From] && keep[e.To] {
			_ = sub.AddEdge(e.From, e.To, e.Weight)
		}
	}
	return sub
}

// Clone returns a deep copy of the graph
func (g *Graph) Clone() *Graph {
	return g.Subgraph(g.Nodes())
}

func compareIDs(a, b NodeID) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
