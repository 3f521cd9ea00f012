// Package project implements the RETURN projection, ORDER BY sort, and
// SKIP/LIMIT pagination stages of spec.md §4.5, run over the evaluator's
// deduplicated result.Row set.
package project

import (
	"sort"

	"github.com/nodeql/nodeql/internal/graph"
	"github.com/nodeql/nodeql/internal/result"
)

// RefKind is what a RETURN or ORDER BY item refers to.
type RefKind int

const (
	VarRef RefKind = iota
	PropRef
	TypeOfRef
)

// Item is one RETURN or ORDER BY reference: a bare variable, a
// `var.prop` property access, or a `type(edgeVar)` call.
type Item struct {
	Kind     RefKind
	Variable string
	Prop     string
	Alias    string // RETURN only; ignored for ORDER BY
	Desc     bool   // ORDER BY only
}

// Key is the column name an Item projects under: its alias if one was
// given with AS, else a synthesized label.
func (it Item) Key() string {
	if it.Alias != "" {
		return it.Alias
	}
	switch it.Kind {
	case TypeOfRef:
		return "type(" + it.Variable + ")"
	case PropRef:
		return it.Variable + "." + it.Prop
	default:
		return it.Variable
	}
}

// Project turns each row into a plain map keyed by each item's Key(),
// per spec.md §4.5. A property read from an edge binding with more than
// one hop projects as a list, one entry per hop (nil where a hop lacks
// the property). A binding with a single hop projects as a single value,
// including a variable-length segment that matched exactly one hop.
func Project(rows []result.Row, items []Item, g graph.Graph) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		m := make(map[string]any, len(items))
		for _, it := range items {
			m[it.Key()] = projectOne(it, row, g)
		}
		out = append(out, m)
	}
	return out
}

func projectOne(it Item, row result.Row, g graph.Graph) any {
	switch it.Kind {
	case TypeOfRef:
		binding, ok := row.Edges[it.Variable]
		if !ok {
			return nil
		}
		edge, ok := binding.Canonical()
		if !ok {
			return nil
		}
		return edge.Type
	case PropRef:
		if nodeID, ok := row.Nodes[it.Variable]; ok {
			node, ok := g.GetNode(nodeID)
			if !ok {
				return nil
			}
			v, ok := node.Prop(it.Prop)
			if !ok {
				return nil
			}
			return toGo(v)
		}
		if binding, ok := row.Edges[it.Variable]; ok {
			if len(binding.Hops) > 1 {
				vals := make([]any, len(binding.Hops))
				for i, hop := range binding.Hops {
					if v, ok := hop.Props[it.Prop]; ok {
						vals[i] = toGo(v)
					}
				}
				return vals
			}
			edge, ok := binding.Canonical()
			if !ok {
				return nil
			}
			v, ok := edge.Props[it.Prop]
			if !ok {
				return nil
			}
			return toGo(v)
		}
		return nil
	default: // VarRef
		if nodeID, ok := row.Nodes[it.Variable]; ok {
			return string(nodeID)
		}
		if binding, ok := row.Edges[it.Variable]; ok {
			if len(binding.Hops) > 1 {
				types := make([]any, len(binding.Hops))
				for i, hop := range binding.Hops {
					types[i] = hop.Type
				}
				return types
			}
			edge, ok := binding.Canonical()
			if !ok {
				return nil
			}
			return edge.Type
		}
		return nil
	}
}

func toGo(v graph.Value) any {
	switch v.Kind {
	case graph.NullVal:
		return nil
	case graph.IntVal:
		return v.I
	case graph.FloatVal:
		return v.F
	case graph.BoolVal:
		return v.B
	case graph.StringVal:
		return v.S
	case graph.ListVal:
		out := make([]any, len(v.L))
		for i, e := range v.L {
			out[i] = toGo(e)
		}
		return out
	case graph.MapVal:
		out := make(map[string]any, len(v.M))
		for k, e := range v.M {
			out[k] = toGo(e)
		}
		return out
	default:
		return nil
	}
}

// Sort stably reorders rows in place per the ORDER BY item list. Rows for
// which a key cannot be resolved (unbound reference, missing property)
// sort after every row for which it can in ASC, and before every row for
// which it can in DESC, per spec.md §4.5.
func Sort(rows []result.Row, items []Item, g graph.Graph) {
	if len(items) == 0 {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, it := range items {
			vi, oki := resolveSortValue(it, rows[i], g)
			vj, okj := resolveSortValue(it, rows[j], g)
			if !oki && !okj {
				continue
			}
			if !oki {
				return it.Desc
			}
			if !okj {
				return !it.Desc
			}
			if vi.Equal(vj) {
				continue
			}
			less, ok := vi.Less(vj)
			if !ok {
				continue
			}
			if it.Desc {
				return !less
			}
			return less
		}
		return false
	})
}

func resolveSortValue(it Item, row result.Row, g graph.Graph) (graph.Value, bool) {
	switch it.Kind {
	case TypeOfRef:
		binding, ok := row.Edges[it.Variable]
		if !ok {
			return graph.Value{}, false
		}
		edge, ok := binding.Canonical()
		if !ok {
			return graph.Value{}, false
		}
		return graph.String(edge.Type), true
	case PropRef:
		if nodeID, ok := row.Nodes[it.Variable]; ok {
			node, ok := g.GetNode(nodeID)
			if !ok {
				return graph.Value{}, false
			}
			return node.Prop(it.Prop)
		}
		if binding, ok := row.Edges[it.Variable]; ok {
			edge, ok := binding.Canonical()
			if !ok {
				return graph.Value{}, false
			}
			v, ok := edge.Props[it.Prop]
			return v, ok
		}
		return graph.Value{}, false
	default: // VarRef
		if nodeID, ok := row.Nodes[it.Variable]; ok {
			return graph.String(string(nodeID)), true
		}
		if binding, ok := row.Edges[it.Variable]; ok {
			edge, ok := binding.Canonical()
			if !ok {
				return graph.Value{}, false
			}
			return graph.String(edge.Type), true
		}
		return graph.Value{}, false
	}
}

// Paginate applies SKIP then LIMIT. Negative values are rejected by the
// caller before reaching here; Paginate itself just slices.
func Paginate(rows []result.Row, skip, limit int) []result.Row {
	if skip >= len(rows) {
		return nil
	}
	rows = rows[skip:]
	if limit >= 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}
