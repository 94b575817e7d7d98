package algorithms

import (
	"github.com/dd0wney/cluso-contactnet/pkg/graph"
	"gonum.org/v1/gonum/stat"
)

// NetworkStats holds the descriptive statistics of one graph
type NetworkStats struct {
	NodeCount         int     `json:"nodes"`
	EdgeCount         int     `json:"edges"`
	CommunityCount    int     `json:"communities"`
	Modularity        float64 `json:"modularity"`
	HasModularity     bool    `json:"has_modularity"`
	AvgDegree         float64 `json:"avg_degree"`
	AvgWeightedDegree float64 `json:"avg_weighted_degree"`
	Density           float64 `json:"density"`
	AvgClustering     float64 `json:"avg_clustering"`
	Diameter          int     `json:"diameter"`
	AvgPathLength     float64 `json:"avg_path_length"`
}

// StatColumns lists the metric names in table order
var StatColumns = []string{
	"nodes",
	"edges",
	"communities",
	"modularity",
	"avg_degree",
	"avg_weighted_degree",
	"density",
	"avg_clustering",
	"diameter",
	"avg_path_length",
}

// NamedValue is one metric of a NetworkStats record
type NamedValue struct {
	Name  string
	Value float64
}

// Values returns the metrics in StatColumns order
func (s *NetworkStats) Values() []NamedValue {
	values := []float64{
		float64(s.NodeCount),
		float64(s.EdgeCount),
		float64(s.CommunityCount),
		s.Modularity,
		s.AvgDegree,
		s.AvgWeightedDegree,
		s.Density,
		s.AvgClustering,
		float64(s.Diameter),
		s.AvgPathLength,
	}
	named := make([]NamedValue, len(StatColumns))
	for i, name := range StatColumns {
		named[i] = NamedValue{Name: name, Value: values[i]}
	}
	return named
}

// ComputeStats computes the statistics of g. The partition and modularity
// are optional; a nil partition gives a community count of 0. Path metrics
// use unweighted distances over the whole graph when it is connected and
// over its largest connected component otherwise. Inputs are not modified.
func ComputeStats(g *graph.Graph, partition Partition, modularity *float64) *NetworkStats {
	stats := &NetworkStats{
		NodeCount: g.NodeCount(),
		EdgeCount: g.EdgeCount(),
	}

	if partition != nil {
		stats.CommunityCount = partition.CommunityCount()
	}
	if modularity != nil {
		stats.Modularity = *modularity
		stats.HasModularity = true
	}

	n := stats.NodeCount
	if n == 0 {
		return stats
	}

	nodes := g.Nodes()
	degrees := make([]float64, n)
	strengths := make([]float64, n)
	for i, id := range nodes {
		degrees[i] = float64(g.Degree(id))
		strengths[i] = g.Strength(id)
	}
	stats.AvgDegree = stat.Mean(degrees, nil)
	stats.AvgWeightedDegree = stat.Mean(strengths, nil)

	if n > 1 {
		stats.Density = 2 * float64(stats.EdgeCount) / (float64(n) * float64(n-1))
	}

	stats.AvgClustering = AverageClusteringCoefficient(g)

	pathGraph := g
	if !IsConnected(g) {
		pathGraph = LargestComponent(g)
	}
	stats.Diameter = Diameter(pathGraph)
	stats.AvgPathLength = AverageShortestPathLength(pathGraph)

	return stats
}
