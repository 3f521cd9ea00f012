package evaluator

import (
	"context"
	"fmt"

	"github.com/nodeql/nodeql/internal/graph"
	"github.com/nodeql/nodeql/internal/pattern"
	"github.com/nodeql/nodeql/internal/result"
)

// expandVarLength enumerates every distinct path from `from` whose hop
// count falls in the quantifier's [min, max] range, per spec.md §4.3.3.
// A path may not reuse the same directed (from, type, to) edge twice.
// An explicit or default-resolved max bounds the search depth. reverse
// walks the segment backward, as in expand.
func expandVarLength(ctx context.Context, g graph.Graph, from graph.NodeID, e pattern.EdgeElem, opts Options, reverse bool) ([][]result.PathEdge, error) {
	dir := effectiveDirection(e.Direction, reverse)
	min := e.Quant.Min
	if min < 0 {
		min = 1
	}
	max := e.Quant.Max
	if max < 0 {
		max = opts.DefaultVarLengthCap
		if max <= 0 {
			max = 10
		}
	}

	var out [][]result.PathEdge
	visited := make(map[string]bool)
	var path []result.PathEdge

	var walk func(cur graph.NodeID) error
	walk = func(cur graph.NodeID) error {
		if err := checkCancel(ctx); err != nil {
			return err
		}
		if len(path) >= min {
			cp := make([]result.PathEdge, len(path))
			copy(cp, path)
			out = append(out, cp)
		}
		if len(path) >= max {
			return nil
		}
		for _, ref := range candidateRefs(g, cur, dir, e.Types) {
			edge := lookupEdge(g, cur, ref, dir)
			if edge == nil || !matchesEdgeFilters(edge, e.Filters) {
				continue
			}
			edgeKey := fmt.Sprintf("%s|%s|%s", edge.From, edge.Type, edge.To)
			if visited[edgeKey] {
				continue
			}
			visited[edgeKey] = true
			path = append(path, result.PathEdge{From: edge.From, To: edge.To, Type: edge.Type, Props: edge.Props})
			if err := walk(ref.Other); err != nil {
				path = path[:len(path)-1]
				delete(visited, edgeKey)
				return err
			}
			path = path[:len(path)-1]
			delete(visited, edgeKey)
		}
		return nil
	}

	if err := walk(from); err != nil {
		return nil, err
	}
	return out, nil
}
