package graph

// Merge builds the union of the given graphs. The weight of (u, v) in the
// result is the sum of its weights across all inputs. Inputs are not modified.
func Merge(graphs ...*Graph) *Graph {
	merged := New()
	for _, g := range graphs {
		if g == nil {
			continue
		}
		for _, id := range g.Nodes() {
			merged.AddNode(id)
		}
		for _, e := range g.Edges() {
			// Inputs only hold valid edges, so this cannot fail
			_ = merged.AddEdge(e.From, e.To, e.Weight)
		}
	}
	return merged
}
