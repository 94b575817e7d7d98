package algorithms

import (
	"math/rand"

	"github.com/dd0wney/cluso-contactnet/pkg/graph"
)

// Louvain partitions g into communities maximizing modularity using the
// two-phase Louvain method: local moving followed by aggregation, repeated
// until a level merges nothing or improves modularity by less than Epsilon.
//
// The result is deterministic for a given graph and options. The optimizer
// never fails: when a cap stops the search early the best partition found
// so far is returned with Converged set to false.
func Louvain(g *graph.Graph, opts LouvainOptions) *LouvainResult {
	opts = opts.withDefaults()

	if g.NodeCount() == 0 {
		return &LouvainResult{
			CommunityDetectionResult: CommunityDetectionResult{
				Communities:   []*Community{},
				NodeCommunity: Partition{},
			},
			Converged: true,
		}
	}

	current, nodes := newLevelGraph(g)

	// assignment[o] is the current-level node holding original node o
	assignment := make([]int, len(nodes))
	for i := range assignment {
		assignment[i] = i
	}

	var rng *rand.Rand
	if opts.Order == SeededOrder {
		rng = rand.New(rand.NewSource(opts.Seed))
	}

	identity := make([]int, current.n)
	for i := range identity {
		identity[i] = i
	}
	prevQ := current.modularity(identity, current.n)

	levels := make([]LouvainLevel, 0, 4)
	converged := true

	for level := 0; level < opts.MaxLevels; level++ {
		order := visitOrder(current.n, rng)
		comm, stats := current.localMove(order, opts.MaxPasses)
		if !stats.converged {
			converged = false
		}

		comm, k := renumber(comm)
		for o := range assignment {
			assignment[o] = comm[assignment[o]]
		}
		q := current.modularity(comm, k)

		merged := k < current.n
		if merged || level == 0 {
			levels = append(levels, LouvainLevel{
				Level:       level,
				Passes:      stats.passes,
				Moves:       stats.moves,
				Communities: k,
				Modularity:  q,
				Partition:   toPartition(nodes, assignment),
			})
		}

		if !merged || q-prevQ < opts.Epsilon {
			break
		}
		if level == opts.MaxLevels-1 {
			// Still merging when the level cap was hit
			converged = false
			break
		}

		prevQ = q
		current = current.aggregate(comm, k)
	}

	partition := toPartition(nodes, assignment).Canonical()
	return &LouvainResult{
		CommunityDetectionResult: CommunityDetectionResult{
			Communities:   buildCommunities(g, partition),
			Modularity:    Modularity(g, partition),
			NodeCommunity: partition,
		},
		Levels:    levels,
		Converged: converged,
	}
}

func (o LouvainOptions) withDefaults() LouvainOptions {
	defaults := DefaultLouvainOptions()
	if o.MaxPasses <= 0 {
		o.MaxPasses = defaults.MaxPasses
	}
	if o.MaxLevels <= 0 {
		o.MaxLevels = defaults.MaxLevels
	}
	if o.Epsilon <= 0 {
		o.Epsilon = defaults.Epsilon
	}
	return o
}

// visitOrder returns 0..n-1, shuffled when a seeded generator is given
func visitOrder(n int, rng *rand.Rand) []int {
	if rng != nil {
		return rng.Perm(n)
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

func toPartition(nodes []graph.NodeID, assignment []int) Partition {
	p := make(Partition, len(nodes))
	for o, id := range nodes {
		p[id] = assignment[o]
	}
	return p
}
