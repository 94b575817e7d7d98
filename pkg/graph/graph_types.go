package graph

import "errors"

// NodeID identifies an individual in a contact graph
type NodeID uint64

// Edge is an undirected weighted edge. From < To for edges returned by a Graph.
type Edge struct {
	From   NodeID
	To     NodeID
	Weight float64
}

// Neighbor is an adjacent node together with the weight of the connecting edge
type Neighbor struct {
	ID     NodeID
	Weight float64
}

// Graph is an undirected simple graph with positive edge weights.
// Nodes live in a dense index table; adjacency is kept per index.
// A Graph is not safe for concurrent mutation, but concurrent reads are fine.
type Graph struct {
	ids         []NodeID
	index       map[NodeID]int
	adj         []map[int]float64
	edgeCount   int
	totalWeight float64
}

var (
	ErrSelfLoop      = errors.New("self-loop not allowed")
	ErrInvalidWeight = errors.New("edge weight must be positive and finite")
)
