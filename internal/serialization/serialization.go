// Package serialization persists a graph.Graph snapshot to and from
// JSON, adapted from the teacher's internal/serialization/serialization.go
// for the typed multigraph model (an edge is keyed by (from, type, to),
// not a standalone ID, and values carry list/map kinds).
package serialization

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/nodeql/nodeql/internal/graph"
)

type serializedValue struct {
	Kind  string `json:"kind"`
	Value any    `json:"value,omitempty"`
}

type serializedNode struct {
	ID    string                     `json:"id"`
	Type  string                     `json:"type"`
	Label string                     `json:"label"`
	Props map[string]serializedValue `json:"props,omitempty"`
}

type serializedEdge struct {
	From  string                     `json:"from"`
	Type  string                     `json:"type"`
	To    string                     `json:"to"`
	Props map[string]serializedValue `json:"props,omitempty"`
}

type serializedGraph struct {
	Nodes []serializedNode `json:"nodes"`
	Edges []serializedEdge `json:"edges"`
}

func marshalValue(v graph.Value) serializedValue {
	switch v.Kind {
	case graph.IntVal:
		return serializedValue{Kind: "int", Value: v.I}
	case graph.FloatVal:
		return serializedValue{Kind: "float", Value: v.F}
	case graph.StringVal:
		return serializedValue{Kind: "string", Value: v.S}
	case graph.BoolVal:
		return serializedValue{Kind: "bool", Value: v.B}
	case graph.ListVal:
		out := make([]serializedValue, len(v.L))
		for i, e := range v.L {
			out[i] = marshalValue(e)
		}
		return serializedValue{Kind: "list", Value: out}
	case graph.MapVal:
		out := make(map[string]serializedValue, len(v.M))
		for k, e := range v.M {
			out[k] = marshalValue(e)
		}
		return serializedValue{Kind: "map", Value: out}
	default:
		return serializedValue{Kind: "null"}
	}
}

func unmarshalValue(sv serializedValue) (graph.Value, error) {
	switch sv.Kind {
	case "int":
		f, ok := sv.Value.(float64)
		if !ok {
			return graph.Value{}, fmt.Errorf("expected number for int, got %T", sv.Value)
		}
		return graph.Int(int64(f)), nil
	case "float":
		f, ok := sv.Value.(float64)
		if !ok {
			return graph.Value{}, fmt.Errorf("expected number for float, got %T", sv.Value)
		}
		return graph.Float(f), nil
	case "string":
		s, ok := sv.Value.(string)
		if !ok {
			return graph.Value{}, fmt.Errorf("expected string, got %T", sv.Value)
		}
		return graph.String(s), nil
	case "bool":
		b, ok := sv.Value.(bool)
		if !ok {
			return graph.Value{}, fmt.Errorf("expected bool, got %T", sv.Value)
		}
		return graph.Bool(b), nil
	case "list":
		raw, ok := sv.Value.([]any)
		if !ok {
			return graph.Value{}, fmt.Errorf("expected array for list, got %T", sv.Value)
		}
		items := make([]graph.Value, 0, len(raw))
		for _, r := range raw {
			item, err := unmarshalValue(reencode(r))
			if err != nil {
				return graph.Value{}, err
			}
			items = append(items, item)
		}
		return graph.List(items), nil
	case "map":
		raw, ok := sv.Value.(map[string]any)
		if !ok {
			return graph.Value{}, fmt.Errorf("expected object for map, got %T", sv.Value)
		}
		items := make(map[string]graph.Value, len(raw))
		for k, r := range raw {
			item, err := unmarshalValue(reencode(r))
			if err != nil {
				return graph.Value{}, err
			}
			items[k] = item
		}
		return graph.Map(items), nil
	case "null", "":
		return graph.Null(), nil
	default:
		return graph.Value{}, fmt.Errorf("unknown serialized value kind %q", sv.Kind)
	}
}

// reencode round-trips a decoded any (itself the result of decoding a
// nested serializedValue with json.Unmarshal into `any`) back into a
// serializedValue, since encoding/json decodes nested objects into
// map[string]any rather than our typed struct.
func reencode(v any) serializedValue {
	m, ok := v.(map[string]any)
	if !ok {
		return serializedValue{}
	}
	kind, _ := m["kind"].(string)
	return serializedValue{Kind: kind, Value: m["value"]}
}

func toSerializedGraph(g graph.Graph) serializedGraph {
	var sNodes []serializedNode
	var sEdges []serializedEdge
	for _, n := range g.NodesByType("") {
		sProps := make(map[string]serializedValue, len(n.Props))
		for k, v := range n.Props {
			sProps[k] = marshalValue(v)
		}
		sNodes = append(sNodes, serializedNode{ID: string(n.ID), Type: n.Type, Label: n.Label, Props: sProps})

		for _, ref := range g.OutFrom(n.ID) {
			props, _ := g.EdgeProps(n.ID, ref.Type, ref.Other)
			sProps := make(map[string]serializedValue, len(props))
			for k, v := range props {
				sProps[k] = marshalValue(v)
			}
			sEdges = append(sEdges, serializedEdge{From: string(n.ID), Type: ref.Type, To: string(ref.Other), Props: sProps})
		}
	}
	return serializedGraph{Nodes: sNodes, Edges: sEdges}
}

func fromSerializedGraph(sg serializedGraph) (*graph.AdjacencyListMultigraph, error) {
	g := graph.New()

	for _, sn := range sg.Nodes {
		props := make(map[string]graph.Value, len(sn.Props))
		for k, sv := range sn.Props {
			v, err := unmarshalValue(sv)
			if err != nil {
				return nil, fmt.Errorf("node %s prop %s: %w", sn.ID, k, err)
			}
			props[k] = v
		}
		if err := g.UpsertNode(graph.Node{ID: graph.NodeID(sn.ID), Type: sn.Type, Label: sn.Label, Props: props}); err != nil {
			return nil, fmt.Errorf("adding node %s: %w", sn.ID, err)
		}
	}

	for _, se := range sg.Edges {
		props := make(map[string]graph.Value, len(se.Props))
		for k, sv := range se.Props {
			v, err := unmarshalValue(sv)
			if err != nil {
				return nil, fmt.Errorf("edge %s-%s->%s prop %s: %w", se.From, se.Type, se.To, k, err)
			}
			props[k] = v
		}
		if err := g.AddEdge(graph.NodeID(se.From), se.Type, graph.NodeID(se.To), props); err != nil {
			return nil, fmt.Errorf("adding edge %s-%s->%s: %w", se.From, se.Type, se.To, err)
		}
	}

	return g, nil
}

// WriteJSON encodes a graph snapshot to w. The caller must hold at least
// a read lock on g for the duration of the call.
func WriteJSON(g graph.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toSerializedGraph(g))
}

// ReadJSON decodes a graph snapshot from r into a fresh graph.
func ReadJSON(r io.Reader) (*graph.AdjacencyListMultigraph, error) {
	var sg serializedGraph
	if err := json.NewDecoder(r).Decode(&sg); err != nil {
		return nil, fmt.Errorf("decoding graph JSON: %w", err)
	}
	return fromSerializedGraph(sg)
}

// SaveJSON writes a graph snapshot to a JSON file at path.
func SaveJSON(g graph.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}

// LoadJSON reads a graph snapshot from a JSON file at path.
func LoadJSON(path string) (*graph.AdjacencyListMultigraph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
