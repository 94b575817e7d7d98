package algorithms

import (
	"testing"

	"github.com/dd0wney/cluso-contactnet/pkg/graph"
	gonumgraph "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/simple"
)

// buildGraph creates a graph from weighted edge triples
func buildGraph(t *testing.T, edges ...graph.Edge) *graph.Graph {
	t.Helper()
	g := graph.New()
	for _, e := range edges {
		if err := g.AddEdge(e.From, e.To, e.Weight); err != nil {
			t.Fatalf("AddEdge(%d, %d) failed: %v", e.From, e.To, err)
		}
	}
	return g
}

func unit(u, v graph.NodeID) graph.Edge {
	return graph.Edge{From: u, To: v, Weight: 1}
}

// bridgedTriangles is two triangles {1,2,3} and {4,5,6} joined by edge (3,4)
func bridgedTriangles(t *testing.T) *graph.Graph {
	return buildGraph(t,
		unit(1, 2), unit(1, 3), unit(2, 3),
		unit(4, 5), unit(4, 6), unit(5, 6),
		unit(3, 4),
	)
}

// ringOfCliques builds `count` K4 cliques joined in a ring by single edges
func ringOfCliques(t *testing.T, count int) *graph.Graph {
	t.Helper()
	g := graph.New()
	for c := 0; c < count; c++ {
		base := graph.NodeID(c*4 + 1)
		for i := graph.NodeID(0); i < 4; i++ {
			for j := i + 1; j < 4; j++ {
				g.AddEdge(base+i, base+j, 1)
			}
		}
		next := graph.NodeID(((c+1)%count)*4 + 1)
		g.AddEdge(base+3, next, 1)
	}
	return g
}

// gonumModularity evaluates Q with gonum as an independent oracle
func gonumModularity(g *graph.Graph, p Partition) float64 {
	wg := simple.NewWeightedUndirectedGraph(0, 0)
	for _, id := range g.Nodes() {
		wg.AddNode(simple.Node(int64(id)))
	}
	for _, e := range g.Edges() {
		wg.SetWeightedEdge(simple.WeightedEdge{
			F: simple.Node(int64(e.From)),
			T: simple.Node(int64(e.To)),
			W: e.Weight,
		})
	}

	groups := make([][]gonumgraph.Node, p.CommunityCount())
	for _, id := range g.Nodes() {
		c := p[id]
		groups[c] = append(groups[c], simple.Node(int64(id)))
	}
	return community.Q(wg, groups, 1)
}
