// Package algorithms holds graph utilities adjacent to, but never
// invoked by, the pattern-matching engine: reachability, shortest path,
// connected components and topological sort. They consume only the
// graph.Graph interface, mirroring the traversal idioms of the teacher's
// internal/inference package (there: probabilistic reachability over a
// ProbabilisticGraphModel; here: plain BFS/DFS over a typed multigraph).
package algorithms

import (
	"fmt"

	"github.com/nodeql/nodeql/internal/graph"
)

// Error reports an invalid traversal argument: a start or end node that
// does not exist, or (for ApproximateReachability) a non-positive trial
// count.
type Error struct {
	Kind    string
	Message string
}

func (e Error) Error() string { return fmt.Sprintf("algorithms error (%s): %s", e.Kind, e.Message) }

// Reachable reports whether end is reachable from start by following
// edges of the given types (any type if types is empty) in the given
// direction. The caller must hold at least a read lock on g.
func Reachable(g graph.Graph, start, end graph.NodeID, types []string, forward bool) (bool, error) {
	if _, ok := g.GetNode(start); !ok {
		return false, Error{Kind: "NodeMissing", Message: fmt.Sprintf("start node %s does not exist", start)}
	}
	if _, ok := g.GetNode(end); !ok {
		return false, Error{Kind: "NodeMissing", Message: fmt.Sprintf("end node %s does not exist", end)}
	}

	visited := map[graph.NodeID]bool{start: true}
	queue := []graph.NodeID{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == end {
			return true, nil
		}
		for _, ref := range neighbors(g, current, types, forward) {
			if !visited[ref.Other] {
				visited[ref.Other] = true
				queue = append(queue, ref.Other)
			}
		}
	}
	return false, nil
}

func neighbors(g graph.Graph, id graph.NodeID, types []string, forward bool) []graph.EdgeRef {
	if forward {
		return g.OutFrom(id, types...)
	}
	return g.InTo(id, types...)
}
