// Package cypher hosts the participle-based lexer and grammar for the
// Cypher subset of spec.md §6, plus the conversion from the raw parsed
// AST into the clean internal/pattern, internal/filter and
// internal/project types the rest of the engine consumes. The shape —
// a participle simple lexer plus struct-tag grammar, with nil-field
// dispatch on a sum-type AST — is carried over from the teacher's
// internal/dsl/grammar.go.
package cypher

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var cypherLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Keyword", Pattern: `(?i)\b(MATCH|WHERE|RETURN|ORDER|BY|SKIP|LIMIT|AS|AND|OR|CONTAINS|STARTS|WITH|ASC|DESC|TRUE|FALSE|TYPE)\b`},
	{Name: "Float", Pattern: `-?\d+\.\d+`},
	{Name: "Int", Pattern: `-?\d+`},
	{Name: "String", Pattern: `"([^"\\]|\\.)*"`},
	{Name: "Arrow", Pattern: `<-|->`},
	{Name: "Op", Pattern: `<=|>=|!=|=|<|>`},
	{Name: "DotDot", Pattern: `\.\.`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Punct", Pattern: `[(){}\[\],.:~*|-]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// QueryAST is the top-level parsed node: an optional leading MATCH, a
// pattern, then the optional WHERE / RETURN / ORDER BY / SKIP / LIMIT
// clauses, in that fixed order, per spec.md §4.2.
type QueryAST struct {
	Pattern *PatternAST       `parser:"\"MATCH\"? @@"`
	Where   *OrExprAST        `parser:"( \"WHERE\" @@ )?"`
	Return  *ReturnClauseAST  `parser:"( \"RETURN\" @@ )?"`
	Order   *OrderByClauseAST `parser:"( \"ORDER\" \"BY\" @@ )?"`
	Skip    *int64            `parser:"( \"SKIP\" @Int )?"`
	Limit   *int64            `parser:"( \"LIMIT\" @Int )?"`
}

// PatternAST: NodeElem (EdgeElem NodeElem)*
type PatternAST struct {
	First *NodeElemAST      `parser:"@@"`
	Rest  []*PatternStepAST `parser:"@@*"`
}

type PatternStepAST struct {
	Edge *EdgeElemAST `parser:"@@"`
	Node *NodeElemAST `parser:"@@"`
}

// NodeElemAST: Ident? (':' Ident)? ('{' PropFilter (',' PropFilter)* '}')?
// No surrounding parens — spec.md §6's BNF writes NodeElem bare.
type NodeElemAST struct {
	Variable *string          `parser:"@Ident?"`
	Type     *string          `parser:"( \":\" @Ident )?"`
	Props    []*PropFilterAST `parser:"( \"{\" @@ ( \",\" @@ )* \"}\" )?"`
}

// PropFilterAST: Key ('=' | ':' | '~') Value
type PropFilterAST struct {
	Key   string      `parser:"@Ident"`
	Op    string      `parser:"@( \"=\" | \":\" | \"~\" )"`
	Value *LiteralAST `parser:"@@"`
}

// LiteralAST: a signed integer, decimal, true/false, double-quoted
// string, or a bare identifier matched as a string per spec.md §4.2
// "Unquoted values are matched as strings". The same form is used for
// WHERE operands, so a bare identifier is accepted there as a string too.
type LiteralAST struct {
	Str   *string  `parser:"  @String"`
	Float *float64 `parser:"| @Float"`
	Int   *int64   `parser:"| @Int"`
	True  bool     `parser:"| @\"TRUE\""`
	False bool     `parser:"| @\"FALSE\""`
	Ident *string  `parser:"| @Ident"`
}

// EdgeElemAST dispatches on whether the edge carries a bracketed body.
// Bracketed is tried first: a bare dash/arrow with no following '[' makes
// Bracketed's required body fail to match, so participle backtracks to
// Bare.
type EdgeElemAST struct {
	Bracketed *BracketEdgeAST `parser:"  @@"`
	Bare      *BareEdgeAST    `parser:"| @@"`
}

// BareEdgeAST: '-' | '->' | '<-' with no brackets — any type, per
// spec.md §4.2 "- without brackets denotes any-type; -> / <- determine
// direction."
type BareEdgeAST struct {
	Token string `parser:"@( \"<-\" | \"->\" | \"-\" )"`
}

// BracketEdgeAST: ('<-'|'-') '[' Ident? (':' TypeList)? Quant? PropMap? ']' ('-'|'->')
type BracketEdgeAST struct {
	Lead       string           `parser:"@( \"<-\" | \"-\" )"`
	Alias      *string          `parser:"\"[\" @Ident?"`
	Types      []string         `parser:"( \":\" @Ident ( \"|\" @Ident )* )?"`
	Quant      *QuantAST        `parser:"@@?"`
	Props      []*PropFilterAST `parser:"( \"{\" @@ ( \",\" @@ )* \"}\" )? \"]\""`
	Trail      string           `parser:"@( \"-\" | \"->\" )"`
}

// QuantAST: '*' | '*' Int | '*' Int '..' Int? | '*' '..' Int
type QuantAST struct {
	Min   *int64 `parser:"\"*\" @Int?"`
	Range bool   `parser:"@\"..\"?"`
	Max   *int64 `parser:"@Int?"`
}

// OrExprAST / AndExprAST: OR binds looser than AND, per spec.md §4.2.
type OrExprAST struct {
	Left *AndExprAST   `parser:"@@"`
	Rest []*AndExprAST `parser:"( \"OR\" @@ )*"`
}

type AndExprAST struct {
	Left *AtomAST   `parser:"@@"`
	Rest []*AtomAST `parser:"( \"AND\" @@ )*"`
}

// AtomAST: '(' Expr ')' | Comparison
type AtomAST struct {
	Paren      *OrExprAST     `parser:"  \"(\" @@ \")\""`
	Comparison *ComparisonAST `parser:"| @@"`
}

// ComparisonAST: LHS Op RHS
type ComparisonAST struct {
	Left  *OperandAST `parser:"@@"`
	Op    *OpAST      `parser:"@@"`
	Right *OperandAST `parser:"@@"`
}

// OpAST: one of the comparison operators of spec.md §6. StartsWith is the
// one two-token keyword ("STARTS" "WITH").
type OpAST struct {
	Eq         bool `parser:"  @\"=\""`
	Neq        bool `parser:"| @\"!=\""`
	Lte        bool `parser:"| @\"<=\""`
	Gte        bool `parser:"| @\">=\""`
	Lt         bool `parser:"| @\"<\""`
	Gt         bool `parser:"| @\">\""`
	Contains   bool `parser:"| @\"CONTAINS\""`
	StartsWith bool `parser:"| @\"STARTS\" \"WITH\""`
}

// OperandAST: 'type' '(' Ident ')' | Ident '.' Ident | Literal
type OperandAST struct {
	TypeOf     *string         `parser:"\"type\" \"(\" @Ident \")\""`
	PropertyOf *PropertyRefAST `parser:"| @@"`
	Literal    *LiteralAST     `parser:"| @@"`
}

// PropertyRefAST: Ident '.' Ident
type PropertyRefAST struct {
	Variable string `parser:"@Ident"`
	Prop     string `parser:"\".\" @Ident"`
}

// PropertyOrVarAST: Ident ('.' Ident)? — used by RETURN/ORDER BY items,
// which may reference a bare variable or a property.
type PropertyOrVarAST struct {
	Variable string  `parser:"@Ident"`
	Prop     *string `parser:"( \".\" @Ident )?"`
}

// ReturnClauseAST: comma-separated ReturnItem list.
type ReturnClauseAST struct {
	Items []*ReturnItemAST `parser:"@@ ( \",\" @@ )*"`
}

// ReturnItemAST: ( Ident | Ident '.' Ident | 'type' '(' Ident ')' ) ('AS' Ident)?
type ReturnItemAST struct {
	TypeOf *string           `parser:"\"type\" \"(\" @Ident \")\""`
	Ref    *PropertyOrVarAST `parser:"| @@"`
	Alias  *string           `parser:"( \"AS\" @Ident )?"`
}

// OrderByClauseAST: comma-separated SortItem list.
type OrderByClauseAST struct {
	Items []*SortItemAST `parser:"@@ ( \",\" @@ )*"`
}

// SortItemAST: ReturnItem ('ASC' | 'DESC')?
type SortItemAST struct {
	TypeOf *string           `parser:"\"type\" \"(\" @Ident \")\""`
	Ref    *PropertyOrVarAST `parser:"| @@"`
	Dir    *string           `parser:"@( \"ASC\" | \"DESC\" )?"`
}

var cypherParser = participle.MustBuild[QueryAST](
	participle.Lexer(cypherLexer),
	participle.CaseInsensitive("Keyword"),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)
