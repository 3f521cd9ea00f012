package algorithms

import "github.com/nodeql/nodeql/internal/graph"

// ConnectedComponents partitions every node reachable through edges of
// the given types (any if empty), treated as undirected, into weakly
// connected components. Components appear in the order g.NodesByType("")
// enumerates their first node; nodes within a component appear in BFS
// discovery order from that first node.
func ConnectedComponents(g graph.Graph, types []string) [][]graph.NodeID {
	visited := make(map[graph.NodeID]bool)
	var components [][]graph.NodeID

	for _, n := range g.NodesByType("") {
		if visited[n.ID] {
			continue
		}
		var component []graph.NodeID
		queue := []graph.NodeID{n.ID}
		visited[n.ID] = true
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			component = append(component, current)
			for _, ref := range g.OutFrom(current, types...) {
				if !visited[ref.Other] {
					visited[ref.Other] = true
					queue = append(queue, ref.Other)
				}
			}
			for _, ref := range g.InTo(current, types...) {
				if !visited[ref.Other] {
					visited[ref.Other] = true
					queue = append(queue, ref.Other)
				}
			}
		}
		components = append(components, component)
	}
	return components
}
