package filter

import (
	"strings"

	"github.com/nodeql/nodeql/internal/graph"
	"github.com/nodeql/nodeql/internal/result"
)

// Eval evaluates a WHERE expression tree against one candidate row.
// Short-circuits And/Or left to right. A comparison whose operand cannot
// be resolved (unbound variable, missing property, non-comparable types)
// evaluates to false rather than erroring, per spec.md §4.4.
func Eval(expr Expr, row result.Row, g graph.Graph) bool {
	switch {
	case len(expr.And) > 0:
		for _, sub := range expr.And {
			if !Eval(sub, row, g) {
				return false
			}
		}
		return true
	case len(expr.Or) > 0:
		for _, sub := range expr.Or {
			if Eval(sub, row, g) {
				return true
			}
		}
		return false
	case expr.Comparison != nil:
		return evalComparison(*expr.Comparison, row, g)
	default:
		return true
	}
}

func evalComparison(c ComparisonExpr, row result.Row, g graph.Graph) bool {
	left, ok := resolveOperand(c.Left, row, g)
	if !ok {
		return false
	}
	right, ok := resolveOperand(c.Right, row, g)
	if !ok {
		return false
	}
	switch c.Op {
	case Eq:
		return left.Equal(right)
	case Neq:
		_, lnum := left.Numeric()
		_, rnum := right.Numeric()
		if left.Kind != right.Kind && !(lnum && rnum) {
			return false
		}
		return !left.Equal(right)
	case Lt:
		less, ok := left.Less(right)
		return ok && less
	case Lte:
		less, ok := left.Less(right)
		return ok && (less || left.Equal(right))
	case Gt:
		less, ok := right.Less(left)
		return ok && less
	case Gte:
		less, ok := right.Less(left)
		return ok && (less || left.Equal(right))
	case Contains:
		ls, lok := asString(left)
		rs, rok := asString(right)
		return lok && rok && strings.Contains(ls, rs)
	case StartsWith:
		ls, lok := asString(left)
		rs, rok := asString(right)
		return lok && rok && strings.HasPrefix(ls, rs)
	default:
		return false
	}
}

func asString(v graph.Value) (string, bool) {
	if v.Kind != graph.StringVal {
		return "", false
	}
	return v.S, true
}

func resolveOperand(op Operand, row result.Row, g graph.Graph) (graph.Value, bool) {
	if op.IsLiteral {
		return literalToValue(op.Literal), true
	}
	if op.IsTypeOf {
		binding, ok := row.Edges[op.Variable]
		if !ok {
			return graph.Value{}, false
		}
		edge, ok := binding.Canonical()
		if !ok {
			return graph.Value{}, false
		}
		return graph.String(edge.Type), true
	}
	if nodeID, ok := row.Nodes[op.Variable]; ok {
		node, ok := g.GetNode(nodeID)
		if !ok {
			return graph.Value{}, false
		}
		return node.Prop(op.Prop)
	}
	if binding, ok := row.Edges[op.Variable]; ok {
		edge, ok := binding.Canonical()
		if !ok {
			return graph.Value{}, false
		}
		v, ok := edge.Props[op.Prop]
		return v, ok
	}
	return graph.Value{}, false
}

func literalToValue(v any) graph.Value {
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
