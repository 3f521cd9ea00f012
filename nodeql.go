// Package nodeql is an embedded typed directed multigraph with a
// Cypher-subset pattern query engine: build a graph, then MATCH/WHERE/
// RETURN/ORDER BY/SKIP/LIMIT queries against it through four typed
// operations (Match, MatchRows, MatchPaths, MatchMany), or through the
// generic Query convenience for tooling that wants one result shape.
package nodeql

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/nodeql/nodeql/internal/config"
	"github.com/nodeql/nodeql/internal/engine"
	"github.com/nodeql/nodeql/internal/graph"
	"github.com/nodeql/nodeql/internal/logging"
	"github.com/nodeql/nodeql/internal/result"
	"github.com/nodeql/nodeql/internal/serialization"
)

type (
	Result         = result.Result
	GroupedResult  = result.GroupedResult
	RowsResult     = result.RowsResult
	PathsResult    = result.PathsResult
	PathMatch      = result.PathMatch
	Config         = config.Config
	NodeID         = graph.NodeID
	Node           = graph.Node
	Value          = graph.Value
	ManyRequest    = engine.ManyRequest
	ManyResponse   = engine.ManyResponse
)

// Graph is an embedded typed directed multigraph queryable through the
// Cypher subset of spec.md §6.
type Graph struct {
	store  *graph.AdjacencyListMultigraph
	engine *engine.Engine
	log    *logging.Logger
}

// New creates an empty Graph using config.Default().
func New(opts ...config.Option) *Graph {
	return newWithStore(graph.New(), config.Default(opts...))
}

func newWithStore(store *graph.AdjacencyListMultigraph, cfg config.Config) *Graph {
	log := logging.Default
	return &Graph{store: store, engine: engine.New(store, cfg, log), log: log}
}

// Load reads a graph snapshot from r.
func Load(r io.Reader, opts ...config.Option) (*Graph, error) {
	store, err := serialization.ReadJSON(r)
	if err != nil {
		return nil, err
	}
	return newWithStore(store, config.Default(opts...)), nil
}

// LoadFile reads a graph snapshot from a JSON file at path.
func LoadFile(path string, opts ...config.Option) (*Graph, error) {
	store, err := serialization.LoadJSON(path)
	if err != nil {
		return nil, err
	}
	return newWithStore(store, config.Default(opts...)), nil
}

// Save writes a graph snapshot to w.
func (g *Graph) Save(w io.Writer) error {
	g.store.RLock()
	defer g.store.RUnlock()
	return serialization.WriteJSON(g.store, w)
}

// SaveFile writes a graph snapshot to a JSON file at path.
func (g *Graph) SaveFile(path string) error {
	g.store.RLock()
	defer g.store.RUnlock()
	return serialization.SaveJSON(g.store, path)
}

// UpsertNode adds or replaces a node.
func (g *Graph) UpsertNode(n Node) error { return g.store.UpsertNode(n) }

// RemoveNode deletes a node and every edge incident to it.
func (g *Graph) RemoveNode(id NodeID) error { return g.store.RemoveNode(id) }

// AddEdge adds or replaces the (from, type, to) edge.
func (g *Graph) AddEdge(from NodeID, typ string, to NodeID, props map[string]Value) error {
	return g.store.AddEdge(from, typ, to, props)
}

// RemoveEdge deletes the (from, type, to) edge.
func (g *Graph) RemoveEdge(from NodeID, typ string, to NodeID) error {
	return g.store.RemoveEdge(from, typ, to)
}

// GetNode reads a node by ID.
func (g *Graph) GetNode(id NodeID) (*Node, bool) {
	g.store.RLock()
	defer g.store.RUnlock()
	return g.store.GetNode(id)
}

// Match runs query and returns each bound variable's set of distinct
// node IDs across every matching row.
func (g *Graph) Match(ctx context.Context, query string, startIDs ...NodeID) (GroupedResult, error) {
	return g.engine.Match(ctx, query, startIDs...)
}

// MatchRows runs query and returns one projected row per distinct match.
func (g *Graph) MatchRows(ctx context.Context, query string, startIDs ...NodeID) (RowsResult, error) {
	return g.engine.MatchRows(ctx, query, startIDs...)
}

// MatchPaths runs query and returns the full bound path per distinct
// match.
func (g *Graph) MatchPaths(ctx context.Context, query string, startIDs ...NodeID) (PathsResult, error) {
	return g.engine.MatchPaths(ctx, query, startIDs...)
}

// MatchMany runs a batch of queries concurrently.
func (g *Graph) MatchMany(ctx context.Context, requests []ManyRequest) ([]ManyResponse, error) {
	return g.engine.MatchMany(ctx, requests)
}

// Query is a generic convenience for callers (cmd/cli's REPL) that want
// one result shape regardless of which typed operation ran: it always
// runs MatchRows and wraps the outcome as a Result.
func (g *Graph) Query(ctx context.Context, query string) (Result, error) {
	rows, err := g.MatchRows(ctx, query)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type jsonResult struct {
	Kind string `json:"kind"`
	Data any    `json:"data"`
}

// MarshalResultJSON encodes any Result for transport (used by cmd/server).
func MarshalResultJSON(r Result) ([]byte, error) {
	var jr jsonResult
	switch v := r.(type) {
	case GroupedResult:
		jr = jsonResult{Kind: "grouped", Data: v.Bindings}
	case RowsResult:
		jr = jsonResult{Kind: "rows", Data: v.Rows}
	case PathsResult:
		jr = jsonResult{Kind: "paths", Data: v.Paths}
	default:
		jr = jsonResult{Kind: "unknown", Data: fmt.Sprintf("%v", r)}
	}
	return json.Marshal(jr)
}
