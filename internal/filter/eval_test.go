package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeql/nodeql/internal/graph"
	"github.com/nodeql/nodeql/internal/result"
)

func newGraphForFilter(t *testing.T) *graph.AdjacencyListMultigraph {
	t.Helper()
	g := graph.New()
	require.NoError(t, g.UpsertNode(graph.Node{ID: "alice", Type: "Person", Label: "Alice", Props: map[string]graph.Value{
		"name": graph.String("alice"),
		"age":  graph.Int(30),
	}}))
	require.NoError(t, g.UpsertNode(graph.Node{ID: "bob", Type: "Person", Label: "Bob", Props: map[string]graph.Value{
		"name": graph.String("bob"),
		"age":  graph.Int(25),
	}}))
	require.NoError(t, g.AddEdge("alice", "FOLLOWS", "bob", map[string]graph.Value{"since": graph.Int(2020)}))
	return g
}

func rowFor(g *graph.AdjacencyListMultigraph) result.Row {
	row := result.NewRow()
	row.Nodes["a"] = "alice"
	row.Nodes["b"] = "bob"
	row.Edges["r"] = result.EdgeBinding{Hops: []result.PathEdge{{
		From: "alice", To: "bob", Type: "FOLLOWS", FromVariable: "a", ToVariable: "b",
		Props: map[string]graph.Value{"since": graph.Int(2020)},
	}}}
	return row
}

func TestEvalComparisonOperators(t *testing.T) {
	g := newGraphForFilter(t)
	row := rowFor(g)

	tests := []struct {
		name string
		expr Expr
		want bool
	}{
		{"eq true", Expr{Comparison: &ComparisonExpr{Left: PropertyOf("a", "name"), Op: Eq, Right: Literal("alice")}}, true},
		{"eq false", Expr{Comparison: &ComparisonExpr{Left: PropertyOf("a", "name"), Op: Eq, Right: Literal("bob")}}, false},
		{"neq", Expr{Comparison: &ComparisonExpr{Left: PropertyOf("a", "name"), Op: Neq, Right: Literal("bob")}}, true},
		{"lt", Expr{Comparison: &ComparisonExpr{Left: PropertyOf("b", "age"), Op: Lt, Right: PropertyOf("a", "age")}}, true},
		{"gte equal", Expr{Comparison: &ComparisonExpr{Left: PropertyOf("a", "age"), Op: Gte, Right: Literal(int64(30))}}, true},
		{"contains", Expr{Comparison: &ComparisonExpr{Left: PropertyOf("a", "name"), Op: Contains, Right: Literal("lic")}}, true},
		{"starts with", Expr{Comparison: &ComparisonExpr{Left: PropertyOf("a", "name"), Op: StartsWith, Right: Literal("ali")}}, true},
		{"starts with false", Expr{Comparison: &ComparisonExpr{Left: PropertyOf("a", "name"), Op: StartsWith, Right: Literal("bo")}}, false},
		{"type of", Expr{Comparison: &ComparisonExpr{Left: TypeOf("r"), Op: Eq, Right: Literal("FOLLOWS")}}, true},
		{"edge prop", Expr{Comparison: &ComparisonExpr{Left: PropertyOf("r", "since"), Op: Eq, Right: Literal(int64(2020))}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Eval(tt.expr, row, g))
		})
	}
}

func TestEvalMissingOperandIsFalseNeverPanics(t *testing.T) {
	g := newGraphForFilter(t)
	row := rowFor(g)

	assert.False(t, Eval(Expr{Comparison: &ComparisonExpr{
		Left: PropertyOf("a", "nickname"), Op: Eq, Right: Literal("x"),
	}}, row, g))

	assert.False(t, Eval(Expr{Comparison: &ComparisonExpr{
		Left: PropertyOf("nobody", "name"), Op: Eq, Right: Literal("x"),
	}}, row, g))

	assert.False(t, Eval(Expr{Comparison: &ComparisonExpr{
		Left: TypeOf("missing"), Op: Eq, Right: Literal("FOLLOWS"),
	}}, row, g))
}

func TestEvalAndOrShortCircuit(t *testing.T) {
	g := newGraphForFilter(t)
	row := rowFor(g)

	trueExpr := Expr{Comparison: &ComparisonExpr{Left: PropertyOf("a", "name"), Op: Eq, Right: Literal("alice")}}
	falseExpr := Expr{Comparison: &ComparisonExpr{Left: PropertyOf("a", "name"), Op: Eq, Right: Literal("bob")}}

	assert.True(t, Eval(Expr{And: []Expr{trueExpr, trueExpr}}, row, g))
	assert.False(t, Eval(Expr{And: []Expr{trueExpr, falseExpr}}, row, g))
	assert.True(t, Eval(Expr{Or: []Expr{falseExpr, trueExpr}}, row, g))
	assert.False(t, Eval(Expr{Or: []Expr{falseExpr, falseExpr}}, row, g))
}

func TestEvalEmptyExprIsTrue(t *testing.T) {
	g := newGraphForFilter(t)
	row := rowFor(g)
	assert.True(t, Eval(Expr{}, row, g))
}
