package serialization

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeql/nodeql/internal/graph"
)

func buildSampleGraph(t *testing.T) *graph.AdjacencyListMultigraph {
	t.Helper()
	g := graph.New()
	require.NoError(t, g.UpsertNode(graph.Node{ID: "alice", Type: "Person", Label: "Alice", Props: map[string]graph.Value{
		"age":  graph.Int(30),
		"tags": graph.List([]graph.Value{graph.String("admin"), graph.String("vip")}),
		"meta": graph.Map(map[string]graph.Value{"verified": graph.Bool(true)}),
	}}))
	require.NoError(t, g.UpsertNode(graph.Node{ID: "bob", Type: "Person", Label: "Bob"}))
	require.NoError(t, g.AddEdge("alice", "FOLLOWS", "bob", map[string]graph.Value{"since": graph.Float(2020.5)}))
	return g
}

func TestWriteReadJSONRoundTrip(t *testing.T) {
	g := buildSampleGraph(t)
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(g, &buf))

	g2, err := ReadJSON(&buf)
	require.NoError(t, err)

	alice, ok := g2.GetNode("alice")
	require.True(t, ok)
	assert.Equal(t, "Person", alice.Type)
	age, ok := alice.Prop("age")
	require.True(t, ok)
	assert.Equal(t, int64(30), age.I)

	tags, ok := alice.Prop("tags")
	require.True(t, ok)
	require.Equal(t, graph.ListVal, tags.Kind)
	assert.Len(t, tags.L, 2)

	meta, ok := alice.Prop("meta")
	require.True(t, ok)
	require.Equal(t, graph.MapVal, meta.Kind)
	assert.True(t, meta.M["verified"].B)

	assert.True(t, g2.HasEdge("alice", "FOLLOWS", "bob"))
	props, ok := g2.EdgeProps("alice", "FOLLOWS", "bob")
	require.True(t, ok)
	assert.Equal(t, 2020.5, props["since"].F)
}

func TestSaveLoadJSONFile(t *testing.T) {
	g := buildSampleGraph(t)
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, SaveJSON(g, path))

	g2, err := LoadJSON(path)
	require.NoError(t, err)
	_, ok := g2.GetNode("bob")
	assert.True(t, ok)
}

func TestReadJSONRejectsEdgeWithMissingEndpoint(t *testing.T) {
	raw := `{"nodes":[{"id":"a","type":"N","label":"a"}],"edges":[{"from":"a","type":"LINK","to":"ghost"}]}`
	_, err := ReadJSON(bytes.NewReader([]byte(raw)))
	assert.Error(t, err)
}
