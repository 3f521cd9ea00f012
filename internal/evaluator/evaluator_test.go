package evaluator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeql/nodeql/internal/graph"
	"github.com/nodeql/nodeql/internal/pattern"
)

// buildSocialGraph: alice -FOLLOWS-> bob -FOLLOWS-> carl -FOLLOWS-> dave,
// and alice -FOLLOWS-> carl directly, per a small fan-out/variable-length
// fixture used across several tests.
func buildSocialGraph(t *testing.T) *graph.AdjacencyListMultigraph {
	t.Helper()
	g := graph.New()
	for _, id := range []string{"alice", "bob", "carl", "dave"} {
		require.NoError(t, g.UpsertNode(graph.Node{ID: graph.NodeID(id), Type: "Person", Label: id}))
	}
	require.NoError(t, g.AddEdge("alice", "FOLLOWS", "bob", nil))
	require.NoError(t, g.AddEdge("bob", "FOLLOWS", "carl", nil))
	require.NoError(t, g.AddEdge("carl", "FOLLOWS", "dave", nil))
	require.NoError(t, g.AddEdge("alice", "FOLLOWS", "carl", nil))
	return g
}

func opts() Options { return Options{DefaultVarLengthCap: 10} }

func TestEvaluateSeedAndSingleHop(t *testing.T) {
	g := buildSocialGraph(t)
	p := pattern.Pattern{
		Nodes: []pattern.NodeElem{{Variable: "a", Type: "Person"}, {Variable: "b", Type: "Person"}},
		Edges: []pattern.EdgeElem{{Variable: "r", Types: []string{"FOLLOWS"}, Direction: pattern.Right}},
	}
	rows, err := Evaluate(context.Background(), g, p, nil, opts())
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestEvaluateStartIDsAnchorSeed(t *testing.T) {
	g := buildSocialGraph(t)
	p := pattern.Pattern{
		Nodes: []pattern.NodeElem{{Variable: "a"}, {Variable: "b"}},
		Edges: []pattern.EdgeElem{{Variable: "r", Types: []string{"FOLLOWS"}, Direction: pattern.Right}},
	}
	rows, err := Evaluate(context.Background(), g, p, []graph.NodeID{"alice"}, opts())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, graph.NodeID("alice"), r.Nodes["a"])
	}
}

func TestEvaluateReverseDirection(t *testing.T) {
	g := buildSocialGraph(t)
	p := pattern.Pattern{
		Nodes: []pattern.NodeElem{{Variable: "a"}, {Variable: "b"}},
		Edges: []pattern.EdgeElem{{Variable: "r", Types: []string{"FOLLOWS"}, Direction: pattern.Left}},
	}
	rows, err := Evaluate(context.Background(), g, p, []graph.NodeID{"carl"}, opts())
	require.NoError(t, err)
	// Anchored at a: carl is followed by bob and by alice. Anchored at b:
	// carl follows dave, giving a third row with b = carl.
	require.Len(t, rows, 3)
	seen := map[graph.NodeID]bool{}
	for _, r := range rows {
		seen[r.Nodes["b"]] = true
	}
	assert.True(t, seen["bob"])
	assert.True(t, seen["alice"])
}

func TestEvaluateVariableLengthEnumeratesEveryHopCount(t *testing.T) {
	g := buildSocialGraph(t)
	p := pattern.Pattern{
		Nodes: []pattern.NodeElem{{Variable: "a"}, {Variable: "b"}},
		Edges: []pattern.EdgeElem{{
			Variable: "r", Types: []string{"FOLLOWS"}, Direction: pattern.Right,
			Quant: &pattern.Quantifier{Bounded: true, Min: 1, Max: 3},
		}},
	}
	rows, err := Evaluate(context.Background(), g, p, []graph.NodeID{"alice"}, opts())
	require.NoError(t, err)
	// alice->bob, alice->carl (direct), alice->bob->carl, alice->carl->dave,
	// alice->bob->carl->dave.
	require.True(t, len(rows) >= 4)
	for _, r := range rows {
		assert.Equal(t, graph.NodeID("alice"), r.Nodes["a"])
		assert.NotEmpty(t, r.Edges["r"].Hops)
	}
}

func TestEvaluateNoEdgeReuseWithinOnePath(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.UpsertNode(graph.Node{ID: "a", Type: "N", Label: "a"}))
	require.NoError(t, g.UpsertNode(graph.Node{ID: "b", Type: "N", Label: "b"}))
	require.NoError(t, g.AddEdge("a", "LINK", "b", nil))
	require.NoError(t, g.AddEdge("b", "LINK", "a", nil))

	p := pattern.Pattern{
		Nodes: []pattern.NodeElem{{Variable: "x"}, {Variable: "y"}},
		Edges: []pattern.EdgeElem{{
			Variable: "r", Types: []string{"LINK"}, Direction: pattern.Either,
			Quant: &pattern.Quantifier{Bounded: true, Min: 1, Max: 5},
		}},
	}
	rows, err := Evaluate(context.Background(), g, p, []graph.NodeID{"a"}, opts())
	require.NoError(t, err)
	for _, r := range rows {
		hops := r.Edges["r"].Hops
		seen := map[string]bool{}
		for _, h := range hops {
			key := string(h.From) + "|" + h.Type + "|" + string(h.To)
			assert.False(t, seen[key], "edge reused within one path")
			seen[key] = true
		}
	}
}

func TestEvaluateDedupesIdenticalRows(t *testing.T) {
	g := buildSocialGraph(t)
	p := pattern.Pattern{
		Nodes: []pattern.NodeElem{{Variable: "a"}, {Variable: "b"}},
		Edges: []pattern.EdgeElem{{Types: []string{"FOLLOWS"}, Direction: pattern.Right}},
	}
	rows, err := Evaluate(context.Background(), g, p, []graph.NodeID{"alice"}, opts())
	require.NoError(t, err)
	keys := map[string]bool{}
	for _, r := range rows {
		key := r.DedupKey()
		assert.False(t, keys[key])
		keys[key] = true
	}
}

func TestEvaluateCancelledContext(t *testing.T) {
	g := buildSocialGraph(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := pattern.Pattern{
		Nodes: []pattern.NodeElem{{Variable: "a"}, {Variable: "b"}},
		Edges: []pattern.EdgeElem{{Types: []string{"FOLLOWS"}, Direction: pattern.Right}},
	}
	_, err := Evaluate(ctx, g, p, nil, opts())
	assert.ErrorIs(t, err, Cancelled)
}

func TestEvaluateRowCeilingExceeded(t *testing.T) {
	g := buildSocialGraph(t)
	p := pattern.Pattern{
		Nodes: []pattern.NodeElem{{Variable: "a"}, {Variable: "b"}},
		Edges: []pattern.EdgeElem{{Types: []string{"FOLLOWS"}, Direction: pattern.Right}},
	}
	_, err := Evaluate(context.Background(), g, p, nil, Options{DefaultVarLengthCap: 10, RowCeiling: 1})
	require.Error(t, err)
	var tooLarge *ResultTooLarge
	assert.ErrorAs(t, err, &tooLarge)
}
