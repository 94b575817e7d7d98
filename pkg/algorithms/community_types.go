package algorithms

import "github.com/dd0wney/cluso-contactnet/pkg/graph"

// Partition maps every node to the ID of its community
type Partition map[graph.NodeID]int

// Community represents a detected community
type Community struct {
	ID      int
	Nodes   []graph.NodeID
	Size    int
	Density float64 // Edge density within community
}

// CommunityDetectionResult contains detected communities
type CommunityDetectionResult struct {
	Communities   []*Community
	Modularity    float64   // Quality measure of the partitioning
	NodeCommunity Partition // Node ID -> Community ID
}

// NodeOrder selects the order in which local moving visits nodes
type NodeOrder int

const (
	// AscendingOrder visits nodes by ascending ID (super-nodes by ascending community ID)
	AscendingOrder NodeOrder = iota
	// SeededOrder visits nodes in a permutation drawn from LouvainOptions.Seed
	SeededOrder
)

// String returns the name of the ordering policy
func (o NodeOrder) String() string {
	switch o {
	case AscendingOrder:
		return "ascending"
	case SeededOrder:
		return "seeded"
	default:
		return "unknown"
	}
}

// LouvainOptions configures the Louvain optimizer. Zero values fall back to
// the defaults from DefaultLouvainOptions.
type LouvainOptions struct {
	MaxPasses int     // local-moving passes per level
	MaxLevels int     // aggregation levels
	Epsilon   float64 // minimum modularity improvement per level
	Order     NodeOrder
	Seed      int64 // only used with SeededOrder
}

// DefaultLouvainOptions returns default Louvain configuration
func DefaultLouvainOptions() LouvainOptions {
	return LouvainOptions{
		MaxPasses: 100,
		MaxLevels: 32,
		Epsilon:   1e-7,
		Order:     AscendingOrder,
	}
}

// LouvainLevel records the state after one local-moving + aggregation cycle
type LouvainLevel struct {
	Level       int
	Passes      int
	Moves       int
	Communities int
	Modularity  float64
	Partition   Partition // over the original nodes
}

// LouvainResult contains the final partition and the per-level trace
type LouvainResult struct {
	CommunityDetectionResult
	Levels    []LouvainLevel
	Converged bool // false when a pass or level cap cut the search short
}
