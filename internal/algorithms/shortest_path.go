package algorithms

import (
	"fmt"

	"github.com/nodeql/nodeql/internal/graph"
)

// ShortestPath returns the unweighted shortest sequence of node IDs from
// start to end (inclusive of both endpoints), following edges of the
// given types (any if empty) forward. Returns ok=false if no path exists.
func ShortestPath(g graph.Graph, start, end graph.NodeID, types []string) (path []graph.NodeID, ok bool, err error) {
	if _, exists := g.GetNode(start); !exists {
		return nil, false, Error{Kind: "NodeMissing", Message: fmt.Sprintf("start node %s does not exist", start)}
	}
	if _, exists := g.GetNode(end); !exists {
		return nil, false, Error{Kind: "NodeMissing", Message: fmt.Sprintf("end node %s does not exist", end)}
	}

	prev := map[graph.NodeID]graph.NodeID{start: start}
	queue := []graph.NodeID{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == end {
			return reconstructPath(prev, start, end), true, nil
		}
		for _, ref := range g.OutFrom(current, types...) {
			if _, seen := prev[ref.Other]; seen {
				continue
			}
			prev[ref.Other] = current
			queue = append(queue, ref.Other)
		}
	}
	return nil, false, nil
}

func reconstructPath(prev map[graph.NodeID]graph.NodeID, start, end graph.NodeID) []graph.NodeID {
	var rev []graph.NodeID
	for cur := end; ; {
		rev = append(rev, cur)
		if cur == start {
			break
		}
		cur = prev[cur]
	}
	out := make([]graph.NodeID, len(rev))
	for i, id := range rev {
		out[len(rev)-1-i] = id
	}
	return out
}
