package algorithms

import (
	"math"
	"reflect"
	"testing"

	"github.com/dd0wney/cluso-contactnet/pkg/graph"
)

// TestLouvain_BridgedTriangles tests the canonical two-community case
func TestLouvain_BridgedTriangles(t *testing.T) {
	g := bridgedTriangles(t)

	result := Louvain(g, DefaultLouvainOptions())

	if len(result.Communities) != 2 {
		t.Fatalf("Expected 2 communities, got %d", len(result.Communities))
	}
	p := result.NodeCommunity
	if p[1] != p[2] || p[1] != p[3] {
		t.Errorf("Triangle 1-2-3 split: %v", p)
	}
	if p[4] != p[5] || p[4] != p[6] {
		t.Errorf("Triangle 4-5-6 split: %v", p)
	}
	if p[1] == p[4] {
		t.Error("Triangles share a community")
	}

	if math.Abs(result.Modularity-5.0/14.0) > 1e-12 {
		t.Errorf("Expected modularity 5/14, got %v", result.Modularity)
	}
	if !result.Converged {
		t.Error("Expected Converged=true")
	}

	// Canonical labels: community of node 1 is 0
	if p[1] != 0 || p[4] != 1 {
		t.Errorf("Expected canonical labels 0 and 1, got %d and %d", p[1], p[4])
	}
	if want := []graph.NodeID{1, 2, 3}; !reflect.DeepEqual(result.Communities[0].Nodes, want) {
		t.Errorf("Expected community 0 nodes %v, got %v", want, result.Communities[0].Nodes)
	}
	if result.Communities[0].Density != 1.0 {
		t.Errorf("Expected density 1, got %v", result.Communities[0].Density)
	}
}

// TestLouvain_EmptyGraph tests that the empty graph yields an empty partition
func TestLouvain_EmptyGraph(t *testing.T) {
	result := Louvain(graph.New(), DefaultLouvainOptions())

	if len(result.NodeCommunity) != 0 {
		t.Errorf("Expected empty partition, got %d entries", len(result.NodeCommunity))
	}
	if result.Modularity != 0 {
		t.Errorf("Expected modularity 0, got %v", result.Modularity)
	}
	if len(result.Communities) != 0 {
		t.Errorf("Expected no communities, got %d", len(result.Communities))
	}
	if !result.Converged {
		t.Error("Empty graph should count as converged")
	}
}

// TestLouvain_SingleNode tests the singleton case
func TestLouvain_SingleNode(t *testing.T) {
	g := graph.New()
	g.AddNode(42)

	result := Louvain(g, DefaultLouvainOptions())

	if len(result.Communities) != 1 {
		t.Fatalf("Expected 1 community, got %d", len(result.Communities))
	}
	if result.NodeCommunity[42] != 0 {
		t.Errorf("Expected node 42 in community 0, got %d", result.NodeCommunity[42])
	}
	if result.Modularity != 0 {
		t.Errorf("Expected modularity 0, got %v", result.Modularity)
	}
}

// TestLouvain_IsolatedNodesNeverMerge tests that degree-0 nodes stay alone
func TestLouvain_IsolatedNodesNeverMerge(t *testing.T) {
	g := bridgedTriangles(t)
	g.AddNode(10)
	g.AddNode(11)

	result := Louvain(g, DefaultLouvainOptions())
	p := result.NodeCommunity

	if len(result.Communities) != 4 {
		t.Fatalf("Expected 4 communities, got %d", len(result.Communities))
	}
	for _, id := range []graph.NodeID{1, 2, 3, 4, 5, 6} {
		if p[id] == p[10] || p[id] == p[11] {
			t.Errorf("Isolated node shares a community with node %d", id)
		}
	}
	if p[10] == p[11] {
		t.Error("Isolated nodes must not merge with each other")
	}

	isolatedOnly := graph.New()
	isolatedOnly.AddNode(1)
	isolatedOnly.AddNode(2)
	isolatedOnly.AddNode(3)
	r := Louvain(isolatedOnly, DefaultLouvainOptions())
	if len(r.Communities) != 3 || r.Modularity != 0 {
		t.Errorf("Expected 3 singleton communities with Q=0, got %d and %v", len(r.Communities), r.Modularity)
	}
}

// TestLouvain_RingOfCliques tests multi-level aggregation on clear structure
func TestLouvain_RingOfCliques(t *testing.T) {
	g := ringOfCliques(t, 4)

	result := Louvain(g, DefaultLouvainOptions())
	p := result.NodeCommunity

	if len(result.Communities) != 4 {
		t.Fatalf("Expected 4 communities, got %d", len(result.Communities))
	}
	for c := 0; c < 4; c++ {
		base := graph.NodeID(c*4 + 1)
		for i := graph.NodeID(1); i < 4; i++ {
			if p[base] != p[base+i] {
				t.Errorf("Clique %d split at node %d", c, base+i)
			}
		}
	}
	want := 4 * (12.0/56.0 - math.Pow(14.0/56.0, 2))
	if math.Abs(result.Modularity-want) > 1e-12 {
		t.Errorf("Expected modularity %v, got %v", want, result.Modularity)
	}
}

// TestLouvain_EpsilonStop tests that a level gaining less than Epsilon ends
// the search with that level's partition
func TestLouvain_EpsilonStop(t *testing.T) {
	g := ringOfCliques(t, 16)

	if full := Louvain(g, DefaultLouvainOptions()); len(full.Levels) < 2 {
		t.Fatalf("Expected the default run to aggregate past level 0, got %d levels", len(full.Levels))
	}

	// Level 0 gains less than 1 over the singleton partition
	result := Louvain(g, LouvainOptions{Epsilon: 1.0})

	if len(result.Levels) != 1 {
		t.Fatalf("Expected 1 level, got %d", len(result.Levels))
	}
	level := result.Levels[0]
	if !reflect.DeepEqual(level.Partition.Canonical(), result.NodeCommunity) {
		t.Errorf("Returned partition differs from level 0:\n%v\n%v", result.NodeCommunity, level.Partition)
	}
	if level.Communities != len(result.Communities) {
		t.Errorf("Level 0 has %d communities, result has %d", level.Communities, len(result.Communities))
	}
	direct := Modularity(g, result.NodeCommunity)
	if math.Abs(result.Modularity-direct) > 1e-12 {
		t.Errorf("Modularity %v does not match its partition (%v)", result.Modularity, direct)
	}
	if math.Abs(level.Modularity-direct) > 1e-9 {
		t.Errorf("Level 0 modularity %v, want %v", level.Modularity, direct)
	}
	if !result.Converged {
		t.Error("An Epsilon stop is convergence, not a cap")
	}
}

// TestLouvain_Deterministic tests bit-identical results across runs
func TestLouvain_Deterministic(t *testing.T) {
	g := ringOfCliques(t, 6)
	g.AddEdge(1, 9, 2)
	g.AddEdge(6, 20, 3)

	for _, opts := range []LouvainOptions{
		DefaultLouvainOptions(),
		{Order: SeededOrder, Seed: 7},
		{Order: SeededOrder, Seed: 99},
	} {
		first := Louvain(g, opts)
		for run := 0; run < 5; run++ {
			again := Louvain(g, opts)
			if !reflect.DeepEqual(first.NodeCommunity, again.NodeCommunity) {
				t.Errorf("Order %s: partition changed between runs", opts.Order)
			}
			if first.Modularity != again.Modularity {
				t.Errorf("Order %s: modularity %v then %v", opts.Order, first.Modularity, again.Modularity)
			}
			if len(first.Levels) != len(again.Levels) {
				t.Errorf("Order %s: %d levels then %d", opts.Order, len(first.Levels), len(again.Levels))
			}
		}
	}
}

// TestLouvain_ModularityConsistency tests that the returned Q matches both the
// direct formula and the last level's bookkeeping
func TestLouvain_ModularityConsistency(t *testing.T) {
	graphs := map[string]*graph.Graph{
		"bridged triangles": bridgedTriangles(t),
		"ring of cliques":   ringOfCliques(t, 5),
		"weighted": buildGraph(t,
			graph.Edge{From: 1, To: 2, Weight: 5},
			graph.Edge{From: 2, To: 3, Weight: 1},
			graph.Edge{From: 3, To: 4, Weight: 4},
			graph.Edge{From: 4, To: 1, Weight: 1},
			graph.Edge{From: 5, To: 1, Weight: 2},
		),
	}

	for name, g := range graphs {
		t.Run(name, func(t *testing.T) {
			result := Louvain(g, DefaultLouvainOptions())
			direct := Modularity(g, result.NodeCommunity)

			if math.Abs(direct-result.Modularity) > 1e-12 {
				t.Errorf("Modularity %v, direct formula gives %v", result.Modularity, direct)
			}
			if oracle := gonumModularity(g, result.NodeCommunity); math.Abs(oracle-result.Modularity) > 1e-9 {
				t.Errorf("Modularity %v, gonum gives %v", result.Modularity, oracle)
			}

			if len(result.Levels) == 0 {
				t.Fatal("Expected at least one level")
			}
			last := result.Levels[len(result.Levels)-1]
			if math.Abs(direct-last.Modularity) > 1e-9 {
				t.Errorf("Last level modularity %v, want %v", last.Modularity, direct)
			}
			if last.Partition.CommunityCount() != len(result.Communities) {
				t.Errorf("Last level has %d communities, result has %d", last.Partition.CommunityCount(), len(result.Communities))
			}
		})
	}
}

// TestLouvain_LevelsNonDecreasing tests the per-level trace
func TestLouvain_LevelsNonDecreasing(t *testing.T) {
	g := ringOfCliques(t, 8)

	result := Louvain(g, DefaultLouvainOptions())

	for i := 1; i < len(result.Levels); i++ {
		prev, cur := result.Levels[i-1], result.Levels[i]
		if cur.Modularity < prev.Modularity {
			t.Errorf("Level %d modularity %v dropped below %v", cur.Level, cur.Modularity, prev.Modularity)
		}
		if cur.Communities >= prev.Communities {
			t.Errorf("Level %d did not merge communities (%d -> %d)", cur.Level, prev.Communities, cur.Communities)
		}
	}
	for _, level := range result.Levels {
		if len(level.Partition) != g.NodeCount() {
			t.Errorf("Level %d partition covers %d of %d nodes", level.Level, len(level.Partition), g.NodeCount())
		}
	}
}

// TestLouvain_PassCapBestEffort tests that a pass cap still yields a valid partition
func TestLouvain_PassCapBestEffort(t *testing.T) {
	g := bridgedTriangles(t)

	result := Louvain(g, LouvainOptions{MaxPasses: 1})

	if result.Converged {
		t.Error("Expected Converged=false when the pass cap cuts local moving short")
	}
	if len(result.NodeCommunity) != g.NodeCount() {
		t.Fatalf("Partition covers %d of %d nodes", len(result.NodeCommunity), g.NodeCount())
	}
	if math.Abs(result.Modularity-Modularity(g, result.NodeCommunity)) > 1e-12 {
		t.Error("Best-effort modularity does not match its partition")
	}
	if result.Modularity <= 0 {
		t.Errorf("Expected positive best-effort modularity, got %v", result.Modularity)
	}
}

// TestLouvain_LevelCap tests that MaxLevels bounds aggregation
func TestLouvain_LevelCap(t *testing.T) {
	g := ringOfCliques(t, 16)

	result := Louvain(g, LouvainOptions{MaxLevels: 1})

	if len(result.Levels) != 1 {
		t.Fatalf("Expected exactly 1 level, got %d", len(result.Levels))
	}
	if len(result.NodeCommunity) != g.NodeCount() {
		t.Errorf("Partition covers %d of %d nodes", len(result.NodeCommunity), g.NodeCount())
	}
}

// TestLocalMove_PassesNonDecreasing tests phase 1 modularity pass by pass
func TestLocalMove_PassesNonDecreasing(t *testing.T) {
	g := ringOfCliques(t, 6)
	g.AddEdge(2, 10, 1)
	g.AddEdge(3, 15, 1)
	lg, _ := newLevelGraph(g)

	order := visitOrder(lg.n, nil)
	prev := math.Inf(-1)
	for passes := 1; passes <= 6; passes++ {
		comm, _ := lg.localMove(order, passes)
		comm, k := renumber(comm)
		q := lg.modularity(comm, k)
		if q < prev-1e-15 {
			t.Errorf("Modularity decreased after pass %d: %v < %v", passes, q, prev)
		}
		prev = q
	}
}

// TestLocalMove_TieBreakLowestCommunity tests the deterministic tie-break
func TestLocalMove_TieBreakLowestCommunity(t *testing.T) {
	// Star: centre 1 with leaves 2 and 3 of equal weight. Node 1 sees two
	// candidates with identical gain and must pick the lower label.
	g := buildGraph(t, unit(1, 2), unit(1, 3))
	lg, _ := newLevelGraph(g)

	comm, stats := lg.localMove([]int{0, 1, 2}, 10)
	if comm[0] != 1 {
		t.Errorf("Expected node 1 to join community 1 (node 2), got %d", comm[0])
	}
	if stats.moves == 0 {
		t.Error("Expected at least one move")
	}
}

// TestAggregate_SelfLoopsDoubleIntraWeight tests the super-node bookkeeping
func TestAggregate_SelfLoopsDoubleIntraWeight(t *testing.T) {
	g := bridgedTriangles(t)
	lg, _ := newLevelGraph(g)

	comm := []int{0, 0, 0, 1, 1, 1}
	next := lg.aggregate(comm, 2)

	if next.n != 2 {
		t.Fatalf("Expected 2 super-nodes, got %d", next.n)
	}
	if next.self[0] != 6 || next.self[1] != 6 {
		t.Errorf("Expected self-loops of 6 (2x intra weight 3), got %v", next.self)
	}
	if len(next.arcs[0]) != 1 || next.arcs[0][0].weight != 1 {
		t.Errorf("Expected single crossing arc of weight 1, got %+v", next.arcs[0])
	}
	if next.m2 != lg.m2 {
		t.Errorf("Total weight must be preserved: %v vs %v", next.m2, lg.m2)
	}

	identity := []int{0, 1}
	if math.Abs(next.modularity(identity, 2)-lg.modularity(comm, 2)) > 1e-12 {
		t.Error("Aggregated graph modularity differs from original partition modularity")
	}
}

// TestDetectCommunities tests the two-value wrapper
func TestDetectCommunities(t *testing.T) {
	g := bridgedTriangles(t)

	partition, q := DetectCommunities(g, DefaultLouvainOptions())
	if partition.CommunityCount() != 2 {
		t.Errorf("Expected 2 communities, got %d", partition.CommunityCount())
	}
	if q <= 0.35 {
		t.Errorf("Expected modularity > 0.35, got %v", q)
	}
}

func TestNodeOrderString(t *testing.T) {
	if AscendingOrder.String() != "ascending" || SeededOrder.String() != "seeded" {
		t.Error("Unexpected NodeOrder names")
	}
	if NodeOrder(9).String() != "unknown" {
		t.Error("Expected unknown for out-of-range order")
	}
}
