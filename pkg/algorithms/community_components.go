package algorithms

import (
	"container/list"

	"github.com/dd0wney/cluso-contactnet/pkg/graph"
)

// ConnectedComponents finds all connected components in the graph.
// Components are numbered in order of their smallest node ID.
func ConnectedComponents(g *graph.Graph) *CommunityDetectionResult {
	nodeIDs := g.Nodes()

	visited := make(map[graph.NodeID]bool, len(nodeIDs))
	nodeCommunity := make(Partition, len(nodeIDs))
	communities := make([]*Community, 0)
	communityID := 0

	// BFS to find each component
	for _, startNode := range nodeIDs {
		if visited[startNode] {
			continue
		}

		// New component found
		component := &Community{
			ID:    communityID,
			Nodes: make([]graph.NodeID, 0),
		}

		queue := list.New()
		queue.PushBack(startNode)
		visited[startNode] = true

		for queue.Len() > 0 {
			nodeID := queue.Remove(queue.Front()).(graph.NodeID)
			component.Nodes = append(component.Nodes, nodeID)
			nodeCommunity[nodeID] = communityID

			for _, nb := range g.Neighbors(nodeID) {
				if !visited[nb.ID] {
					visited[nb.ID] = true
					queue.PushBack(nb.ID)
				}
			}
		}

		component.Size = len(component.Nodes)
		communities = append(communities, component)
		communityID++
	}

	return &CommunityDetectionResult{
		Communities:   communities,
		NodeCommunity: nodeCommunity,
		Modularity:    Modularity(g, nodeCommunity),
	}
}

// IsConnected reports whether g has exactly one component. The empty graph is not connected.
func IsConnected(g *graph.Graph) bool {
	return len(ConnectedComponents(g).Communities) == 1
}

// LargestComponent returns the induced subgraph of the component with the
// most nodes. Ties go to the component holding the smallest node ID.
func LargestComponent(g *graph.Graph) *graph.Graph {
	result := ConnectedComponents(g)
	var largest *Community
	for _, c := range result.Communities {
		if largest == nil || c.Size > largest.Size {
			largest = c
		}
	}
	if largest == nil {
		return graph.New()
	}
	return g.Subgraph(largest.Nodes)
}
