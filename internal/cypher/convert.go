package cypher

import (
	"fmt"
	"strings"

	"github.com/nodeql/nodeql/internal/filter"
	"github.com/nodeql/nodeql/internal/pattern"
	"github.com/nodeql/nodeql/internal/project"
)

// Converted is the clean, library-agnostic form of a parsed query: a
// compiled pattern, an optional filter expression, the RETURN/ORDER BY
// item lists, and the resolved SKIP/LIMIT, ready for internal/evaluator,
// internal/filter and internal/project to consume.
type Converted struct {
	Pattern pattern.Pattern
	Where   *filter.Expr
	Return  []project.Item
	OrderBy []project.Item
	Skip    int
	Limit   int // -1 means unlimited
}

// Convert walks the raw participle AST into a Converted query.
func Convert(q *QueryAST) (Converted, error) {
	var out Converted

	pat, err := convertPattern(q.Pattern)
	if err != nil {
		return out, err
	}
	out.Pattern = pat

	if q.Where != nil {
		expr, err := convertOrExpr(q.Where)
		if err != nil {
			return out, err
		}
		out.Where = &expr
	}

	if q.Return != nil {
		for _, item := range q.Return.Items {
			converted, err := convertReturnItem(item)
			if err != nil {
				return out, err
			}
			out.Return = append(out.Return, converted)
		}
	}

	if q.Order != nil {
		for _, item := range q.Order.Items {
			converted, err := convertSortItem(item)
			if err != nil {
				return out, err
			}
			out.OrderBy = append(out.OrderBy, converted)
		}
	}

	out.Skip = 0
	if q.Skip != nil {
		if *q.Skip < 0 {
			return out, &SyntaxError{Message: "SKIP must not be negative"}
		}
		out.Skip = int(*q.Skip)
	}

	out.Limit = -1
	if q.Limit != nil {
		if *q.Limit < 0 {
			return out, &SyntaxError{Message: "LIMIT must not be negative"}
		}
		out.Limit = int(*q.Limit)
	}

	return out, nil
}

func convertPattern(p *PatternAST) (pattern.Pattern, error) {
	var out pattern.Pattern
	out.Nodes = append(out.Nodes, convertNode(p.First))
	for _, step := range p.Rest {
		edge, err := convertEdge(step.Edge)
		if err != nil {
			return out, err
		}
		out.Edges = append(out.Edges, edge)
		out.Nodes = append(out.Nodes, convertNode(step.Node))
	}
	return out, nil
}

func convertNode(n *NodeElemAST) pattern.NodeElem {
	var out pattern.NodeElem
	if n.Variable != nil {
		out.Variable = *n.Variable
	}
	if n.Type != nil {
		out.Type = *n.Type
	}
	out.Filters, _ = convertPropFilters(n.Props)
	return out
}

func convertPropFilters(props []*PropFilterAST) ([]pattern.PropFilter, error) {
	if len(props) == 0 {
		return nil, nil
	}
	out := make([]pattern.PropFilter, 0, len(props))
	for _, p := range props {
		v, err := convertLiteral(p.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, pattern.PropFilter{Key: p.Key, Op: p.Op, Value: v})
	}
	return out, nil
}

func convertLiteral(l *LiteralAST) (any, error) {
	switch {
	case l.Str != nil:
		return strings.Trim(*l.Str, `"`), nil
	case l.Float != nil:
		return *l.Float, nil
	case l.Int != nil:
		return *l.Int, nil
	case l.True:
		return true, nil
	case l.False:
		return false, nil
	case l.Ident != nil:
		return *l.Ident, nil
	default:
		return nil, &SyntaxError{Message: "empty literal"}
	}
}

func convertEdge(e *EdgeElemAST) (pattern.EdgeElem, error) {
	var out pattern.EdgeElem
	switch {
	case e.Bracketed != nil:
		b := e.Bracketed
		dir, err := directionFromBracket(b.Lead, b.Trail)
		if err != nil {
			return out, err
		}
		out.Direction = dir
		if b.Alias != nil {
			out.Variable = *b.Alias
		}
		out.Types = b.Types
		if b.Quant != nil {
			quant, err := convertQuant(b.Quant)
			if err != nil {
				return out, err
			}
			out.Quant = quant
		}
		filters, err := convertPropFilters(b.Props)
		if err != nil {
			return out, err
		}
		out.Filters = filters
		return out, nil
	case e.Bare != nil:
		out.Direction = directionFromBare(e.Bare.Token)
		return out, nil
	default:
		return out, &SyntaxError{Message: "empty edge element"}
	}
}

func directionFromBracket(lead, trail string) (pattern.Direction, error) {
	switch {
	case lead == "<-" && trail == "-":
		return pattern.Left, nil
	case lead == "-" && trail == "->":
		return pattern.Right, nil
	case lead == "-" && trail == "-":
		return pattern.Either, nil
	default:
		return 0, &SyntaxError{Message: fmt.Sprintf("contradictory edge arrows %q/%q", lead, trail)}
	}
}

func directionFromBare(tok string) pattern.Direction {
	switch tok {
	case "<-":
		return pattern.Left
	case "->":
		return pattern.Right
	default:
		return pattern.Either
	}
}

// convertQuant resolves a '*' quantifier. Max of -1 signals "unbounded",
// left for the evaluator to resolve against its configured default cap.
// A quantifier whose min exceeds an explicit max (e.g. *5..2) is a parse
// error, per spec.md §4.2/§7.
func convertQuant(q *QuantAST) (*pattern.Quantifier, error) {
	out := &pattern.Quantifier{Bounded: true, Min: 1, Max: -1}
	switch {
	case q.Range:
		if q.Min != nil {
			out.Min = int(*q.Min)
		}
		if q.Max != nil {
			out.Max = int(*q.Max)
		}
	case q.Min != nil:
		out.Min = int(*q.Min)
		out.Max = int(*q.Min)
	default:
		// bare '*': unbounded in both directions, min defaults to 1
	}
	if out.Max >= 0 && out.Min > out.Max {
		return nil, &SyntaxError{Message: fmt.Sprintf("variable-length quantifier min %d exceeds max %d", out.Min, out.Max)}
	}
	return out, nil
}

func convertOrExpr(o *OrExprAST) (filter.Expr, error) {
	first, err := convertAndExpr(o.Left)
	if err != nil {
		return filter.Expr{}, err
	}
	if len(o.Rest) == 0 {
		return first, nil
	}
	ors := []filter.Expr{first}
	for _, a := range o.Rest {
		e, err := convertAndExpr(a)
		if err != nil {
			return filter.Expr{}, err
		}
		ors = append(ors, e)
	}
	return filter.Expr{Or: ors}, nil
}

func convertAndExpr(a *AndExprAST) (filter.Expr, error) {
	first, err := convertAtom(a.Left)
	if err != nil {
		return filter.Expr{}, err
	}
	if len(a.Rest) == 0 {
		return first, nil
	}
	ands := []filter.Expr{first}
	for _, at := range a.Rest {
		e, err := convertAtom(at)
		if err != nil {
			return filter.Expr{}, err
		}
		ands = append(ands, e)
	}
	return filter.Expr{And: ands}, nil
}

func convertAtom(a *AtomAST) (filter.Expr, error) {
	switch {
	case a.Paren != nil:
		return convertOrExpr(a.Paren)
	case a.Comparison != nil:
		cmp, err := convertComparison(a.Comparison)
		if err != nil {
			return filter.Expr{}, err
		}
		return filter.Expr{Comparison: &cmp}, nil
	default:
		return filter.Expr{}, &SyntaxError{Message: "empty WHERE atom"}
	}
}

func convertComparison(c *ComparisonAST) (filter.ComparisonExpr, error) {
	left, err := convertOperand(c.Left)
	if err != nil {
		return filter.ComparisonExpr{}, err
	}
	right, err := convertOperand(c.Right)
	if err != nil {
		return filter.ComparisonExpr{}, err
	}
	return filter.ComparisonExpr{Left: left, Op: convertOp(c.Op), Right: right}, nil
}

func convertOp(o *OpAST) filter.Op {
	switch {
	case o.Eq:
		return filter.Eq
	case o.Neq:
		return filter.Neq
	case o.Lte:
		return filter.Lte
	case o.Gte:
		return filter.Gte
	case o.Lt:
		return filter.Lt
	case o.Gt:
		return filter.Gt
	case o.Contains:
		return filter.Contains
	case o.StartsWith:
		return filter.StartsWith
	default:
		return filter.Eq
	}
}

func convertOperand(o *OperandAST) (filter.Operand, error) {
	switch {
	case o.TypeOf != nil:
		return filter.TypeOf(*o.TypeOf), nil
	case o.PropertyOf != nil:
		return filter.PropertyOf(o.PropertyOf.Variable, o.PropertyOf.Prop), nil
	case o.Literal != nil:
		v, err := convertLiteral(o.Literal)
		if err != nil {
			return filter.Operand{}, err
		}
		return filter.Literal(v), nil
	default:
		return filter.Operand{}, &SyntaxError{Message: "empty operand"}
	}
}

func convertReturnItem(r *ReturnItemAST) (project.Item, error) {
	alias := ""
	if r.Alias != nil {
		alias = *r.Alias
	}
	switch {
	case r.TypeOf != nil:
		return project.Item{Kind: project.TypeOfRef, Variable: *r.TypeOf, Alias: alias}, nil
	case r.Ref != nil:
		if r.Ref.Prop != nil {
			return project.Item{Kind: project.PropRef, Variable: r.Ref.Variable, Prop: *r.Ref.Prop, Alias: alias}, nil
		}
		return project.Item{Kind: project.VarRef, Variable: r.Ref.Variable, Alias: alias}, nil
	default:
		return project.Item{}, &SyntaxError{Message: "empty RETURN item"}
	}
}

func convertSortItem(s *SortItemAST) (project.Item, error) {
	desc := s.Dir != nil && strings.EqualFold(*s.Dir, "DESC")
	switch {
	case s.TypeOf != nil:
		return project.Item{Kind: project.TypeOfRef, Variable: *s.TypeOf, Desc: desc}, nil
	case s.Ref != nil:
		if s.Ref.Prop != nil {
			return project.Item{Kind: project.PropRef, Variable: s.Ref.Variable, Prop: *s.Ref.Prop, Desc: desc}, nil
		}
		return project.Item{Kind: project.VarRef, Variable: s.Ref.Variable, Desc: desc}, nil
	default:
		return project.Item{}, &SyntaxError{Message: "empty ORDER BY item"}
	}
}
