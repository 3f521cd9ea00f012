package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeql/nodeql/internal/config"
	"github.com/nodeql/nodeql/internal/graph"
)

func newTestEngine(t *testing.T) (*Engine, *graph.AdjacencyListMultigraph) {
	t.Helper()
	g := graph.New()
	require.NoError(t, g.UpsertNode(graph.Node{ID: "alice", Type: "Person", Label: "Alice", Props: map[string]graph.Value{"name": graph.String("alice"), "city": graph.String("nyc")}}))
	require.NoError(t, g.UpsertNode(graph.Node{ID: "bob", Type: "Person", Label: "Bob", Props: map[string]graph.Value{"name": graph.String("bob"), "city": graph.String("sf")}}))
	require.NoError(t, g.UpsertNode(graph.Node{ID: "carl", Type: "Person", Label: "Carl", Props: map[string]graph.Value{"name": graph.String("carl"), "city": graph.String("sf")}}))
	require.NoError(t, g.AddEdge("alice", "FOLLOWS", "bob", nil))
	require.NoError(t, g.AddEdge("bob", "FOLLOWS", "carl", nil))
	return New(g, config.Default(), nil), g
}

func TestMatchGroupsDistinctBindingsPerVariable(t *testing.T) {
	e, _ := newTestEngine(t)
	res, err := e.Match(context.Background(), "MATCH a:Person-[:FOLLOWS]->b:Person RETURN a, b")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "bob"}, res.Bindings["a"])
	assert.ElementsMatch(t, []string{"bob", "carl"}, res.Bindings["b"])
}

func TestMatchRowsAppliesWhereAndReturn(t *testing.T) {
	e, _ := newTestEngine(t)
	res, err := e.MatchRows(context.Background(), `MATCH a:Person-[:FOLLOWS]->b:Person WHERE b.city = "sf" RETURN a.name AS from, b.name AS to`)
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	for _, row := range res.Rows {
		assert.Equal(t, "sf", mustCity(t, e, row["to"].(string)))
	}
}

func mustCity(t *testing.T, e *Engine, name string) string {
	t.Helper()
	for _, id := range []graph.NodeID{"alice", "bob", "carl"} {
		n, ok := e.g.GetNode(id)
		if ok && n.Props["name"].S == name {
			return n.Props["city"].S
		}
	}
	return ""
}

func TestMatchRowsOrderBySkipLimit(t *testing.T) {
	e, _ := newTestEngine(t)
	res, err := e.MatchRows(context.Background(), "MATCH a:Person RETURN a.name ORDER BY a.name LIMIT 2")
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "alice", res.Rows[0]["a.name"])
	assert.Equal(t, "bob", res.Rows[1]["a.name"])
}

func TestMatchPathsReturnsFullTrace(t *testing.T) {
	e, _ := newTestEngine(t)
	res, err := e.MatchPaths(context.Background(), "MATCH a:Person-[:FOLLOWS]->b:Person")
	require.NoError(t, err)
	require.Len(t, res.Paths, 2)
	for _, p := range res.Paths {
		require.Len(t, p.Edges, 1)
		assert.Equal(t, "FOLLOWS", p.Edges[0].Type)
	}
}

func TestMatchRejectsUnboundVariable(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.Match(context.Background(), "MATCH a:Person RETURN ghost")
	require.Error(t, err)
	engineErr, ok := err.(Error)
	require.True(t, ok)
	assert.Equal(t, KindUnknownVariable, engineErr.Kind)
}

func TestMatchRejectsInvalidStartType(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.Match(context.Background(), "MATCH a:Vehicle RETURN a", "alice")
	require.Error(t, err)
	engineErr, ok := err.(Error)
	require.True(t, ok)
	assert.Equal(t, KindInvalidStartType, engineErr.Kind)
}

func TestMatchManyRunsAllRequestsInOrder(t *testing.T) {
	e, _ := newTestEngine(t)
	reqs := []ManyRequest{
		{Query: "MATCH a:Person RETURN a.name ORDER BY a.name"},
		{Query: "MATCH a:Person-[:FOLLOWS]->b:Person RETURN a.name, b.name"},
	}
	out, err := e.MatchMany(context.Background(), reqs)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.NoError(t, out[0].Err)
	require.NoError(t, out[1].Err)
	assert.Len(t, out[0].Rows.Rows, 3)
	assert.Len(t, out[1].Rows.Rows, 2)
}
