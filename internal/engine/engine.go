// Package engine wires internal/cypher, internal/evaluator,
// internal/filter and internal/project together behind the four typed
// operations of spec.md §4.6: Match, MatchRows, MatchPaths and
// MatchMany. It owns reader/writer exclusion over the graph store.
package engine

import (
	"context"

	"github.com/nodeql/nodeql/internal/config"
	"github.com/nodeql/nodeql/internal/cypher"
	"github.com/nodeql/nodeql/internal/evaluator"
	"github.com/nodeql/nodeql/internal/filter"
	"github.com/nodeql/nodeql/internal/graph"
	"github.com/nodeql/nodeql/internal/logging"
	"github.com/nodeql/nodeql/internal/pattern"
	"github.com/nodeql/nodeql/internal/project"
	"github.com/nodeql/nodeql/internal/result"
)

// Engine executes Cypher-subset queries against a graph store.
type Engine struct {
	g   *graph.AdjacencyListMultigraph
	cfg config.Config
	log *logging.Logger
}

// New builds an Engine over g. A nil logger falls back to
// logging.Default.
func New(g *graph.AdjacencyListMultigraph, cfg config.Config, log *logging.Logger) *Engine {
	if log == nil {
		log = logging.Default
	}
	return &Engine{g: g, cfg: cfg, log: log}
}

func (e *Engine) evalOptions() evaluator.Options {
	return evaluator.Options{DefaultVarLengthCap: e.cfg.DefaultVarLengthCap, RowCeiling: e.cfg.RowCeiling}
}

// compile parses a query and validates its variable references: every
// variable referenced in WHERE/RETURN/ORDER BY must be bound somewhere in
// the MATCH pattern, per spec.md §6. It does not read the graph.
func (e *Engine) compile(query string) (cypher.Converted, error) {
	parsed, err := cypher.Parse(query)
	if err != nil {
		return parsed, Error{Kind: KindParseError, Message: err.Error()}
	}
	if err := validateBindings(parsed); err != nil {
		return parsed, err
	}
	return parsed, nil
}

func validateBindings(q cypher.Converted) error {
	bound := make(map[string]bool)
	for _, n := range q.Pattern.Nodes {
		if n.Variable != "" {
			bound[n.Variable] = true
		}
	}
	for _, ed := range q.Pattern.Edges {
		if ed.Variable != "" {
			bound[ed.Variable] = true
		}
	}
	var missing string
	checkOperand := func(op filter.Operand) {
		if op.IsLiteral {
			return
		}
		if !bound[op.Variable] {
			missing = op.Variable
		}
	}
	var walk func(expr filter.Expr)
	walk = func(expr filter.Expr) {
		switch {
		case len(expr.And) > 0:
			for _, sub := range expr.And {
				walk(sub)
			}
		case len(expr.Or) > 0:
			for _, sub := range expr.Or {
				walk(sub)
			}
		case expr.Comparison != nil:
			checkOperand(expr.Comparison.Left)
			checkOperand(expr.Comparison.Right)
		}
	}
	if q.Where != nil {
		walk(*q.Where)
	}
	for _, item := range q.Return {
		if !bound[item.Variable] {
			missing = item.Variable
		}
	}
	for _, item := range q.OrderBy {
		if !bound[item.Variable] {
			missing = item.Variable
		}
	}
	if missing != "" {
		return Error{Kind: KindUnknownVariable, Message: "unbound variable: " + missing}
	}
	return nil
}

// validateStartIDs checks every explicit start ID exists and matches the
// declared type of at least one node position in the pattern — per
// spec.md §4.3.1, a startId may anchor any position whose type it
// matches, not just the first.
func validateStartIDs(g graph.Graph, startIDs []graph.NodeID, positions []pattern.NodeElem) error {
	for _, id := range startIDs {
		node, ok := g.GetNode(id)
		if !ok {
			return Error{Kind: KindInvalidStartType, Message: "unknown start node: " + string(id)}
		}
		if !matchesAnyPosition(node, positions) {
			return Error{Kind: KindInvalidStartType, Message: "start node " + string(id) + " has type " + node.Type + ", which matches no position in the pattern"}
		}
	}
	return nil
}

func matchesAnyPosition(n *graph.Node, positions []pattern.NodeElem) bool {
	for _, p := range positions {
		if p.Type == "" || p.Type == n.Type {
			return true
		}
	}
	return false
}

func (e *Engine) runRows(ctx context.Context, query string, startIDs []graph.NodeID) ([]result.Row, cypher.Converted, error) {
	parsed, err := e.compile(query)
	if err != nil {
		return nil, parsed, err
	}
	if len(parsed.Pattern.Nodes) == 0 {
		return nil, parsed, Error{Kind: KindInternalError, Message: "empty pattern"}
	}

	if e.cfg.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.QueryTimeout)
		defer cancel()
	}

	e.g.RLock()
	defer e.g.RUnlock()

	if err := validateStartIDs(e.g, startIDs, parsed.Pattern.Nodes); err != nil {
		return nil, parsed, err
	}

	rows, err := evaluator.Evaluate(ctx, e.g, parsed.Pattern, startIDs, e.evalOptions())
	if err != nil {
		return nil, parsed, translateEvalError(err)
	}
	if parsed.Where != nil {
		filtered := make([]result.Row, 0, len(rows))
		for _, r := range rows {
			if filter.Eval(*parsed.Where, r, e.g) {
				filtered = append(filtered, r)
			}
		}
		rows = filtered
	}
	return rows, parsed, nil
}

func translateEvalError(err error) error {
	switch err.(type) {
	case *evaluator.ResultTooLarge:
		return Error{Kind: KindResultTooLarge, Message: err.Error()}
	}
	if err == evaluator.Cancelled {
		return Error{Kind: KindCancelled, Message: err.Error()}
	}
	return Error{Kind: KindInternalError, Message: err.Error()}
}

// Match runs query and returns, for each variable bound anywhere in the
// pattern, the set of distinct node IDs it was bound to across all
// matching rows — the grouped form of spec.md §4.6.
func (e *Engine) Match(ctx context.Context, query string, startIDs ...graph.NodeID) (result.GroupedResult, error) {
	rows, _, err := e.runRows(ctx, query, startIDs)
	if err != nil {
		return result.GroupedResult{}, err
	}
	bindings := make(map[string][]string)
	seen := make(map[string]map[string]bool)
	for _, row := range rows {
		for variable, id := range row.Nodes {
			if isAnon(variable) {
				continue
			}
			if seen[variable] == nil {
				seen[variable] = make(map[string]bool)
			}
			if seen[variable][string(id)] {
				continue
			}
			seen[variable][string(id)] = true
			bindings[variable] = append(bindings[variable], string(id))
		}
	}
	return result.GroupedResult{Bindings: bindings}, nil
}

func isAnon(variable string) bool { return len(variable) > 0 && variable[0] == '#' }

// MatchRows runs query and returns one projected row per distinct match,
// applying RETURN, ORDER BY and SKIP/LIMIT.
func (e *Engine) MatchRows(ctx context.Context, query string, startIDs ...graph.NodeID) (result.RowsResult, error) {
	rows, parsed, err := e.runRows(ctx, query, startIDs)
	if err != nil {
		return result.RowsResult{}, err
	}
	rows = finishRows(rows, parsed, e.g)
	items := parsed.Return
	if len(items) == 0 {
		items = defaultReturnItems(parsed.Pattern)
	}
	return result.RowsResult{Rows: project.Project(rows, items, e.g)}, nil
}

// MatchPaths runs query and returns the full bound path (nodes and every
// edge hop, including unaliased and variable-length hops) for each
// distinct match.
func (e *Engine) MatchPaths(ctx context.Context, query string, startIDs ...graph.NodeID) (result.PathsResult, error) {
	rows, parsed, err := e.runRows(ctx, query, startIDs)
	if err != nil {
		return result.PathsResult{}, err
	}
	rows = finishRows(rows, parsed, e.g)
	paths := make([]result.PathMatch, 0, len(rows))
	for _, row := range rows {
		paths = append(paths, result.PathMatch{Nodes: row.Nodes, Edges: row.Trace})
	}
	return result.PathsResult{Paths: paths}, nil
}

func finishRows(rows []result.Row, parsed cypher.Converted, g graph.Graph) []result.Row {
	if len(parsed.OrderBy) > 0 {
		project.Sort(rows, parsed.OrderBy, g)
	}
	return project.Paginate(rows, parsed.Skip, parsed.Limit)
}

func defaultReturnItems(p pattern.Pattern) []project.Item {
	var items []project.Item
	for _, n := range p.Nodes {
		if n.Variable != "" {
			items = append(items, project.Item{Kind: project.VarRef, Variable: n.Variable})
		}
	}
	for _, ed := range p.Edges {
		if ed.Variable != "" {
			items = append(items, project.Item{Kind: project.VarRef, Variable: ed.Variable})
		}
	}
	return items
}

// ManyRequest is one query in a MatchMany batch.
type ManyRequest struct {
	Query    string
	StartIDs []graph.NodeID
}

// ManyResponse is one query's outcome in a MatchMany batch.
type ManyResponse struct {
	Rows result.RowsResult
	Err  error
}

// MatchMany runs every request concurrently (each taking its own brief
// read lock on the graph store) and returns one response per request, in
// request order. Modeled on the teacher's executeConcurrent fan-out.
func (e *Engine) MatchMany(ctx context.Context, requests []ManyRequest) ([]ManyResponse, error) {
	if len(requests) == 0 {
		return nil, Error{Kind: KindInternalError, Message: "MatchMany requires at least one query"}
	}

	type indexed struct {
		index int
		resp  ManyResponse
	}

	ch := make(chan indexed, len(requests))
	for i, req := range requests {
		go func(i int, req ManyRequest) {
			rows, err := e.MatchRows(ctx, req.Query, req.StartIDs...)
			ch <- indexed{index: i, resp: ManyResponse{Rows: rows, Err: err}}
		}(i, req)
	}

	out := make([]ManyResponse, len(requests))
	for range requests {
		r := <-ch
		out[r.index] = r.resp
	}
	return out, nil
}
