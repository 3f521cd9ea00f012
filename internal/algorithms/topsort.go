package algorithms

import "github.com/nodeql/nodeql/internal/graph"

// CycleError reports that TopologicalSort found a cycle through the node
// named, making a total order impossible.
type CycleError struct{ Node graph.NodeID }

func (e CycleError) Error() string { return "cycle detected at node " + string(e.Node) }

// TopologicalSort orders every node reachable via edges of the given
// types (any if empty) such that every edge points from an earlier node
// to a later one. Returns a CycleError if the restricted subgraph is not
// a DAG.
func TopologicalSort(g graph.Graph, types []string) ([]graph.NodeID, error) {
	const (
		white = iota
		gray
		black
	)
	color := make(map[graph.NodeID]int)
	var order []graph.NodeID

	var visit func(id graph.NodeID) error
	visit = func(id graph.NodeID) error {
		color[id] = gray
		for _, ref := range g.OutFrom(id, types...) {
			switch color[ref.Other] {
			case white:
				if err := visit(ref.Other); err != nil {
					return err
				}
			case gray:
				return CycleError{Node: ref.Other}
			}
		}
		color[id] = black
		order = append(order, id)
		return nil
	}

	for _, n := range g.NodesByType("") {
		if color[n.ID] == white {
			if err := visit(n.ID); err != nil {
				return nil, err
			}
		}
	}

	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order, nil
}
