package algorithms

import (
	"slices"

	"github.com/dd0wney/cluso-contactnet/pkg/graph"
)

// DetectCommunities runs Louvain and returns the partition with its modularity
func DetectCommunities(g *graph.Graph, opts LouvainOptions) (Partition, float64) {
	result := Louvain(g, opts)
	return result.NodeCommunity, result.Modularity
}

// CommunityCount returns the number of distinct communities in p
func (p Partition) CommunityCount() int {
	seen := make(map[int]struct{}, len(p))
	for _, c := range p {
		seen[c] = struct{}{}
	}
	return len(seen)
}

// Members returns the nodes of community c in ascending order
func (p Partition) Members(c int) []graph.NodeID {
	members := make([]graph.NodeID, 0)
	for id, comm := range p {
		if comm == c {
			members = append(members, id)
		}
	}
	slices.Sort(members)
	return members
}

// Canonical relabels communities 0..k-1 ordered by their smallest member
func (p Partition) Canonical() Partition {
	ids := make([]graph.NodeID, 0, len(p))
	for id := range p {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	relabel := make(map[int]int)
	canonical := make(Partition, len(p))
	for _, id := range ids {
		c := p[id]
		label, ok := relabel[c]
		if !ok {
			label = len(relabel)
			relabel[c] = label
		}
		canonical[id] = label
	}
	return canonical
}

// buildCommunities groups a canonical partition into Community values
func buildCommunities(g *graph.Graph, p Partition) []*Community {
	k := p.CommunityCount()
	communities := make([]*Community, k)
	for i := range communities {
		communities[i] = &Community{ID: i, Nodes: make([]graph.NodeID, 0)}
	}
	for _, id := range g.Nodes() {
		c := communities[p[id]]
		c.Nodes = append(c.Nodes, id)
	}

	internal := make([]int, k)
	for _, e := range g.Edges() {
		if p[e.From] == p[e.To] {
			internal[p[e.From]]++
		}
	}

	for i, c := range communities {
		c.Size = len(c.Nodes)
		if c.Size > 1 {
			possible := c.Size * (c.Size - 1) / 2
			c.Density = float64(internal[i]) / float64(possible)
		}
	}
	return communities
}
