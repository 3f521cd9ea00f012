// Package filter implements the WHERE expression tree and its short
// circuiting evaluator, per spec.md §4.4. Missing properties and type
// mismatched comparisons resolve to false rather than erroring.
package filter

// Op is a comparison operator.
type Op int

const (
	Eq Op = iota
	Neq
	Lt
	Lte
	Gt
	Gte
	Contains
	StartsWith
)

// Operand is one side of a comparison: either a literal, a node/edge
// property access (`var.prop`), or a `type(edgeVar)` call.
type Operand struct {
	IsLiteral bool
	Literal   any // string, int64, float64, bool

	IsTypeOf bool
	Variable string // var in `var.prop` or edgeVar in `type(edgeVar)`
	Prop     string // prop in `var.prop`, empty for type(...)
}

// Expr is the WHERE expression sum type: exactly one of And, Or, or
// Comparison is non-nil/zero for any given node, mirroring the teacher's
// dispatch-by-nil-field AST shape.
type Expr struct {
	And        []Expr
	Or         []Expr
	Comparison *ComparisonExpr
}

// ComparisonExpr compares two operands. When Right.IsTypeOf is set this is
// the `type(r) = type(s)` form of spec.md §4.4.
type ComparisonExpr struct {
	Left  Operand
	Op    Op
	Right Operand
}

func Literal(v any) Operand { return Operand{IsLiteral: true, Literal: v} }

func PropertyOf(variable, prop string) Operand { return Operand{Variable: variable, Prop: prop} }

func TypeOf(edgeVar string) Operand { return Operand{IsTypeOf: true, Variable: edgeVar} }
