// Package evaluator performs the row-wise pattern match of spec.md §4.3:
// seed candidate rows (from the first pattern element, or from every
// position an explicit start ID can anchor), then expand outward across
// each edge element (fixed-length or variable-length), applying inline
// property filters as it goes and de-duplicating the final row set.
package evaluator

import (
	"context"
	"fmt"
	"strings"

	"github.com/nodeql/nodeql/internal/graph"
	"github.com/nodeql/nodeql/internal/pattern"
	"github.com/nodeql/nodeql/internal/result"
)

// Options bounds the evaluator's work, per spec.md §5.
type Options struct {
	DefaultVarLengthCap int // hop ceiling for an unbounded '*' quantifier
	RowCeiling          int // 0 means unlimited
}

// Cancelled is returned when ctx is done mid-evaluation.
var Cancelled = fmt.Errorf("evaluation cancelled")

// ResultTooLarge is returned when the row ceiling is exceeded.
type ResultTooLarge struct{ Ceiling int }

func (e *ResultTooLarge) Error() string {
	return fmt.Sprintf("result exceeds row ceiling of %d", e.Ceiling)
}

// Evaluate runs p against g and returns every distinct matching row, per
// spec.md §4.3's seed-then-expand algorithm. g must already be read-locked
// by the caller for the duration of the call.
//
// Per spec.md §4.3.1, an explicit startIDs list may anchor any pattern
// position whose declared type (if any) matches the id's node, not just
// the first: every position is tried, each contributing rows seeded at
// that position and expanded outward in both directions; the results are
// unioned and de-duplicated. With no startIDs, the first pattern element
// seeds from a full type scan, as before.
func Evaluate(ctx context.Context, g graph.Graph, p pattern.Pattern, startIDs []graph.NodeID, opts Options) ([]result.Row, error) {
	if len(p.Nodes) == 0 {
		return nil, nil
	}

	var all []result.Row
	if len(startIDs) == 0 {
		rows, err := evaluateFromAnchor(ctx, g, p, 0, nil, opts)
		if err != nil {
			return nil, err
		}
		all = rows
	} else {
		for pos := range p.Nodes {
			if err := checkCancel(ctx); err != nil {
				return nil, err
			}
			rows, err := evaluateFromAnchor(ctx, g, p, pos, startIDs, opts)
			if err != nil {
				return nil, err
			}
			all = append(all, rows...)
		}
	}

	deduped := dedup(all)
	if opts.RowCeiling > 0 && len(deduped) > opts.RowCeiling {
		return nil, &ResultTooLarge{Ceiling: opts.RowCeiling}
	}
	return deduped, nil
}

// evaluateFromAnchor seeds pattern position pos (a type/filter-matching
// scan of startIDs, or a full type scan when startIDs is empty and pos is
// 0), then expands leftward to the start of the pattern and rightward to
// its end. The two expansions bind disjoint variables, so for each seed
// row they're run independently and merged by cross product.
func evaluateFromAnchor(ctx context.Context, g graph.Graph, p pattern.Pattern, pos int, startIDs []graph.NodeID, opts Options) ([]result.Row, error) {
	seeds, err := seed(g, p.Nodes[pos], startIDs)
	if err != nil {
		return nil, err
	}

	var out []result.Row
	for _, s := range seeds {
		rightRows := []result.Row{s}
		for i := pos; i < len(p.Edges); i++ {
			if err := checkCancel(ctx); err != nil {
				return nil, err
			}
			rightRows, err = expand(ctx, g, rightRows, p.Edges[i], p.Nodes[i+1], opts, false)
			if err != nil {
				return nil, err
			}
			if len(rightRows) == 0 {
				break
			}
		}
		if len(rightRows) == 0 {
			continue
		}

		leftRows := []result.Row{s}
		for i := pos - 1; i >= 0; i-- {
			if err := checkCancel(ctx); err != nil {
				return nil, err
			}
			leftRows, err = expand(ctx, g, leftRows, p.Edges[i], p.Nodes[i], opts, true)
			if err != nil {
				return nil, err
			}
			if len(leftRows) == 0 {
				break
			}
		}
		if len(leftRows) == 0 {
			continue
		}

		for _, l := range leftRows {
			for _, r := range rightRows {
				out = append(out, mergeRows(l, r))
			}
		}
	}
	return out, nil
}

// mergeRows combines a leftward expansion and a rightward expansion that
// share the same anchor seed row into one row spanning the full pattern.
// l's trace was recorded walking backward from the anchor, so it is
// reversed to restore left-to-right textual order before r's trace (which
// was recorded walking forward from the anchor, in order) is appended.
func mergeRows(l, r result.Row) result.Row {
	out := l.Clone()
	for k, v := range r.Nodes {
		out.Nodes[k] = v
	}
	for k, v := range r.Edges {
		out.Edges[k] = v
	}
	reversed := make([]result.PathEdge, len(l.Trace))
	for i, hop := range l.Trace {
		reversed[len(l.Trace)-1-i] = hop
	}
	out.Trace = append(reversed, r.Trace...)
	return out
}

func checkCancel(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return Cancelled
	default:
		return nil
	}
}

// seed produces one row per node satisfying the given pattern element's
// type and inline filters, drawn from startIDs when any are given, else
// from a full type scan (or full node scan if the element is untyped),
// per spec.md §4.3.1.
func seed(g graph.Graph, n pattern.NodeElem, startIDs []graph.NodeID) ([]result.Row, error) {
	var candidates []*graph.Node
	if len(startIDs) > 0 {
		for _, id := range startIDs {
			if node, ok := g.GetNode(id); ok {
				candidates = append(candidates, node)
			}
		}
	} else {
		candidates = g.NodesByType(n.Type)
	}

	rows := make([]result.Row, 0, len(candidates))
	for _, node := range candidates {
		if !matchesNodeType(node, n) || !matchesNodeFilters(node, n.Filters) {
			continue
		}
		row := result.NewRow()
		if n.Variable != "" {
			row.Nodes[n.Variable] = node.ID
		} else {
			row.Nodes[anonKey(node.ID)] = node.ID
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// anonKey gives an anonymous node element a private binding key so later
// pattern elements referencing the same textual position still resolve,
// without colliding with any real variable name (which cypher idents
// cannot contain '#').
func anonKey(id graph.NodeID) string { return "#" + string(id) }

func matchesNodeFilters(n *graph.Node, filters []pattern.PropFilter) bool {
	for _, f := range filters {
		v, ok := n.Prop(f.Key)
		if !ok || !matchesFilter(v, f) {
			return false
		}
	}
	return true
}

func matchesEdgeFilters(e *graph.Edge, filters []pattern.PropFilter) bool {
	for _, f := range filters {
		v, ok := e.Prop(f.Key)
		if !ok || !matchesFilter(v, f) {
			return false
		}
	}
	return true
}

func matchesFilter(v graph.Value, f pattern.PropFilter) bool {
	switch f.Op {
	case "~":
		s, ok := f.Value.(string)
		return ok && v.Kind == graph.StringVal && strings.Contains(strings.ToLower(v.S), strings.ToLower(s))
	default: // "="
		return v.Equal(literalValue(f.Value))
	}
}

func literalValue(v any) graph.Value {
	switch t := v.(type) {
	case string:
		return graph.String(t)
	case int64:
		return graph.Int(t)
	case float64:
		return graph.Float(t)
	case bool:
		return graph.Bool(t)
	default:
		return graph.Null()
	}
}

// expand advances every row across one pattern edge element, branching
// once per matching candidate edge (or once per accepted path, for a
// variable-length element). reverse walks the edge element backward
// (anchored at its textually-later node, binding its textually-earlier
// one), used when expanding leftward from a startIds anchor position;
// it flips Right/Left adjacency direction but leaves Either alone.
func expand(ctx context.Context, g graph.Graph, rows []result.Row, e pattern.EdgeElem, next pattern.NodeElem, opts Options, reverse bool) ([]result.Row, error) {
	dir := effectiveDirection(e.Direction, reverse)
	var out []result.Row
	for _, row := range rows {
		if err := checkCancel(ctx); err != nil {
			return nil, err
		}
		fromID, fromKey := anchorFor(row, e)
		if e.Quant != nil {
			paths, err := expandVarLength(ctx, g, fromID, e, opts, reverse)
			if err != nil {
				return nil, err
			}
			for _, p := range paths {
				// hops carry the graph edge's own direction, so follow
				// them from fromID to find the far end of the walk.
				endID := fromID
				for _, hop := range p {
					if hop.From == endID {
						endID = hop.To
					} else {
						endID = hop.From
					}
				}
				endNode, ok := g.GetNode(endID)
				if !ok || !matchesNodeType(endNode, next) || !matchesNodeFilters(endNode, next.Filters) {
					continue
				}
				out = append(out, extendRowVarLength(row, e, next, p, endID))
			}
			continue
		}
		for _, ref := range candidateRefs(g, fromID, dir, e.Types) {
			other, ok := g.GetNode(ref.Other)
			if !ok || !matchesNodeType(other, next) || !matchesNodeFilters(other, next.Filters) {
				continue
			}
			edge := lookupEdge(g, fromID, ref, dir)
			if edge == nil || !matchesEdgeFilters(edge, e.Filters) {
				continue
			}
			out = append(out, extendRow(row, e, next, fromID, fromKey, ref.Other, edge))
		}
	}
	return out, nil
}

// effectiveDirection flips Right/Left when walking an edge element
// backward; Either is direction-agnostic and passes through unchanged.
func effectiveDirection(d pattern.Direction, reverse bool) pattern.Direction {
	if !reverse || d == pattern.Either {
		return d
	}
	if d == pattern.Right {
		return pattern.Left
	}
	return pattern.Right
}

func anchorFor(row result.Row, e pattern.EdgeElem) (graph.NodeID, string) {
	// the evaluator always anchors on the most recently bound node, which
	// the caller tracks implicitly via pattern order; expand is only ever
	// called with rows already carrying that node's binding.
	return lastBoundNode(row)
}

func lastBoundNode(row result.Row) (graph.NodeID, string) {
	// Trace carries the ordered hop history; its last hop's ToVariable
	// names the frontier binding.
	if len(row.Trace) > 0 {
		last := row.Trace[len(row.Trace)-1]
		return row.Nodes[last.ToVariable], last.ToVariable
	}
	for k, v := range row.Nodes {
		return v, k
	}
	return "", ""
}

func matchesNodeType(n *graph.Node, elem pattern.NodeElem) bool {
	return elem.Type == "" || n.Type == elem.Type
}

func candidateRefs(g graph.Graph, from graph.NodeID, dir pattern.Direction, types []string) []graph.EdgeRef {
	switch dir {
	case pattern.Right:
		return g.OutFrom(from, types...)
	case pattern.Left:
		return g.InTo(from, types...)
	default:
		refs := append([]graph.EdgeRef{}, g.OutFrom(from, types...)...)
		return append(refs, g.InTo(from, types...)...)
	}
}

func lookupEdge(g graph.Graph, from graph.NodeID, ref graph.EdgeRef, dir pattern.Direction) *graph.Edge {
	if props, ok := g.EdgeProps(from, ref.Type, ref.Other); ok {
		return &graph.Edge{From: from, To: ref.Other, Type: ref.Type, Props: props}
	}
	if props, ok := g.EdgeProps(ref.Other, ref.Type, from); ok {
		return &graph.Edge{From: ref.Other, To: from, Type: ref.Type, Props: props}
	}
	return nil
}

func extendRow(row result.Row, e pattern.EdgeElem, next pattern.NodeElem, from graph.NodeID, fromKey string, to graph.NodeID, edge *graph.Edge) result.Row {
	out := row.Clone()
	toKey := next.Variable
	if toKey == "" {
		toKey = anonKey(to)
	}
	out.Nodes[toKey] = to
	hop := result.PathEdge{
		From: edge.From, To: edge.To, Type: edge.Type,
		FromVariable: directedVar(fromKey, toKey, edge, from),
		ToVariable:   directedVar(toKey, fromKey, edge, from),
		Props:        edge.Props,
	}
	out.Trace = append(out.Trace, result.PathEdge{From: from, To: to, Type: edge.Type, FromVariable: fromKey, ToVariable: toKey, Props: edge.Props})
	if e.Variable != "" {
		out.Edges[e.Variable] = result.EdgeBinding{Hops: []result.PathEdge{hop}}
	}
	return out
}

// directedVar resolves which pattern variable a graph-directed edge
// endpoint corresponds to, independent of which way the pattern was
// walked (Either-direction matches may traverse a reverse edge).
func directedVar(primary, secondary string, edge *graph.Edge, node graph.NodeID) string {
	if edge.From == node {
		return primary
	}
	return secondary
}

func extendRowVarLength(row result.Row, e pattern.EdgeElem, next pattern.NodeElem, path []result.PathEdge, endID graph.NodeID) result.Row {
	out := row.Clone()
	toKey := next.Variable
	if toKey == "" {
		toKey = anonKey(endID)
	}
	out.Nodes[toKey] = endID
	for i := range path {
		path[i].ToVariable = toKey
		if i == 0 {
			path[i].FromVariable = lastKeyOf(row)
		}
	}
	out.Trace = append(out.Trace, path...)
	if e.Variable != "" {
		out.Edges[e.Variable] = result.EdgeBinding{Hops: path}
	}
	return out
}

func lastKeyOf(row result.Row) string {
	_, key := lastBoundNode(row)
	return key
}

// dedup removes rows with identical node and edge bindings, per spec.md
// §4.3.4, preserving first-seen order for determinism.
func dedup(rows []result.Row) []result.Row {
	seen := make(map[string]bool, len(rows))
	out := make([]result.Row, 0, len(rows))
	for _, r := range rows {
		key := r.DedupKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}
