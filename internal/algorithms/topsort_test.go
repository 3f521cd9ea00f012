package algorithms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeql/nodeql/internal/graph"
)

func TestTopologicalSortOrdersDAG(t *testing.T) {
	g := graph.New()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, g.UpsertNode(graph.Node{ID: graph.NodeID(id), Type: "N", Label: id}))
	}
	require.NoError(t, g.AddEdge("a", "DEP", "b", nil))
	require.NoError(t, g.AddEdge("b", "DEP", "c", nil))

	order, err := TopologicalSort(g, nil)
	require.NoError(t, err)
	require.Len(t, order, 3)

	pos := make(map[graph.NodeID]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	assert.Less(t, pos["a"], pos["b"])
	assert.Less(t, pos["b"], pos["c"])
}

func TestTopologicalSortDetectsCycle(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.UpsertNode(graph.Node{ID: "a", Type: "N", Label: "a"}))
	require.NoError(t, g.UpsertNode(graph.Node{ID: "b", Type: "N", Label: "b"}))
	require.NoError(t, g.AddEdge("a", "DEP", "b", nil))
	require.NoError(t, g.AddEdge("b", "DEP", "a", nil))

	_, err := TopologicalSort(g, nil)
	require.Error(t, err)
	var cycleErr CycleError
	require.ErrorAs(t, err, &cycleErr)
}
