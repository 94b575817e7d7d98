package algorithms

import (
	"math"

	"github.com/dd0wney/cluso-contactnet/pkg/graph"
	"gonum.org/v1/gonum/stat"
)

// ClusteringCoefficient computes the weighted local clustering coefficient
// for all nodes. Each triangle contributes the geometric mean of its three
// edge weights, normalized by the largest weight in the graph:
//
//	c_u = 2 / (deg(u)(deg(u)-1)) * sum_{v<w} (w_uv * w_uw * w_vw)^(1/3)
//
// Nodes with fewer than two neighbours get 0.
func ClusteringCoefficient(g *graph.Graph) map[graph.NodeID]float64 {
	nodeIDs := g.Nodes()
	coefficients := make(map[graph.NodeID]float64, len(nodeIDs))

	maxWeight := g.MaxWeight()
	if maxWeight == 0 {
		for _, nodeID := range nodeIDs {
			coefficients[nodeID] = 0.0
		}
		return coefficients
	}

	for _, nodeID := range nodeIDs {
		neighbors := g.Neighbors(nodeID)
		k := len(neighbors)
		if k < 2 {
			coefficients[nodeID] = 0.0
			continue
		}

		// Sum weighted triangle intensity over unordered neighbour pairs
		intensity := 0.0
		for i := 0; i < k; i++ {
			for j := i + 1; j < k; j++ {
				wvw := g.Weight(neighbors[i].ID, neighbors[j].ID)
				if wvw == 0 {
					continue
				}
				product := (neighbors[i].Weight / maxWeight) *
					(neighbors[j].Weight / maxWeight) *
					(wvw / maxWeight)
				intensity += math.Cbrt(product)
			}
		}

		possibleTriangles := k * (k - 1) / 2
		coefficients[nodeID] = intensity / float64(possibleTriangles)
	}

	return coefficients
}

// AverageClusteringCoefficient computes the mean clustering coefficient over all nodes
func AverageClusteringCoefficient(g *graph.Graph) float64 {
	nodeIDs := g.Nodes()
	if len(nodeIDs) == 0 {
		return 0.0
	}

	coefficients := ClusteringCoefficient(g)
	values := make([]float64, len(nodeIDs))
	for i, nodeID := range nodeIDs {
		values[i] = coefficients[nodeID]
	}
	return stat.Mean(values, nil)
}
