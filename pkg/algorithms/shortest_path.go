package algorithms

import (
	"container/list"

	"github.com/dd0wney/cluso-contactnet/pkg/graph"
)

// ShortestPathLengths returns the hop distance from source to every reachable node
func ShortestPathLengths(g *graph.Graph, sourceID graph.NodeID) map[graph.NodeID]int {
	distances := make(map[graph.NodeID]int)
	if !g.HasNode(sourceID) {
		return distances
	}
	distances[sourceID] = 0

	queue := list.New()
	queue.PushBack(sourceID)

	for queue.Len() > 0 {
		currentID := queue.Remove(queue.Front()).(graph.NodeID)
		currentDist := distances[currentID]

		for _, nb := range g.Neighbors(currentID) {
			if _, visited := distances[nb.ID]; !visited {
				distances[nb.ID] = currentDist + 1
				queue.PushBack(nb.ID)
			}
		}
	}

	return distances
}

// Diameter returns the largest hop distance between any two connected nodes.
// On a disconnected graph this is the largest diameter among its components.
func Diameter(g *graph.Graph) int {
	diameter := 0
	for _, id := range g.Nodes() {
		for _, d := range ShortestPathLengths(g, id) {
			if d > diameter {
				diameter = d
			}
		}
	}
	return diameter
}

// AverageShortestPathLength returns the mean hop distance over all ordered
// pairs of distinct reachable nodes. Graphs with fewer than two nodes give 0.
// Callers wanting the standard definition should pass a connected graph.
func AverageShortestPathLength(g *graph.Graph) float64 {
	n := g.NodeCount()
	if n < 2 {
		return 0
	}

	total := 0
	pairs := 0
	for _, id := range g.Nodes() {
		for target, d := range ShortestPathLengths(g, id) {
			if target != id {
				total += d
				pairs++
			}
		}
	}
	if pairs == 0 {
		return 0
	}
	return float64(total) / float64(pairs)
}
