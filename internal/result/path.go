package result

import (
	"fmt"
	"strings"

	"github.com/nodeql/nodeql/internal/graph"
)

// PathEdge is a bound edge in a result path, per spec.md §3. Equality is
// structural over every field.
type PathEdge struct {
	From, To             graph.NodeID
	Type                 string
	FromVariable         string
	ToVariable           string
	Props                map[string]graph.Value
}

func (e PathEdge) Equal(other PathEdge) bool {
	if e.From != other.From || e.To != other.To || e.Type != other.Type {
		return false
	}
	if e.FromVariable != other.FromVariable || e.ToVariable != other.ToVariable {
		return false
	}
	if len(e.Props) != len(other.Props) {
		return false
	}
	for k, v := range e.Props {
		ov, ok := other.Props[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// EdgeBinding is what an edge alias resolves to in a Row: one hop for a
// fixed-length edge element, or the full ordered sequence of hops for a
// variable-length segment. Hops[0] is the canonical edge used by type(r)
// and property access per spec.md §4.3.2.
type EdgeBinding struct {
	Hops []PathEdge
}

func (b EdgeBinding) Canonical() (PathEdge, bool) {
	if len(b.Hops) == 0 {
		return PathEdge{}, false
	}
	return b.Hops[0], true
}

// Row is one assignment of pattern variables (and edge aliases) to
// concrete graph entities, plus the ordered trace of every edge hop
// (including unaliased ones and every hop of a variable-length segment)
// needed to build a PathMatch.
type Row struct {
	Nodes map[string]graph.NodeID
	Edges map[string]EdgeBinding
	Trace []PathEdge
}

func NewRow() Row {
	return Row{Nodes: make(map[string]graph.NodeID), Edges: make(map[string]EdgeBinding)}
}

// Clone returns a deep-enough copy safe to extend independently of the
// original (used when branching the evaluator's row set).
func (r Row) Clone() Row {
	nodes := make(map[string]graph.NodeID, len(r.Nodes))
	for k, v := range r.Nodes {
		nodes[k] = v
	}
	edges := make(map[string]EdgeBinding, len(r.Edges))
	for k, v := range r.Edges {
		edges[k] = v
	}
	trace := make([]PathEdge, len(r.Trace))
	copy(trace, r.Trace)
	return Row{Nodes: nodes, Edges: edges, Trace: trace}
}

// DedupKey is the tuple final rows are de-duplicated on: all node
// bindings plus all edge bindings (spec.md §4.3.4).
func (r Row) DedupKey() string {
	var b strings.Builder
	for _, v := range sortedKeys(r.Nodes) {
		fmt.Fprintf(&b, "n:%s=%s;", v, r.Nodes[v])
	}
	for _, e := range r.Trace {
		fmt.Fprintf(&b, "e:%s-%s->%s(%s->%s);", e.From, e.Type, e.To, e.FromVariable, e.ToVariable)
	}
	return b.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// simple insertion sort: these maps are small (one entry per pattern
	// variable), and importing sort here for a handful of strings is
	// not worth the extra symbol.
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}

// PathMatch is an ordered record: node bindings plus the full ordered
// edge trace, per spec.md §3.
type PathMatch struct {
	Nodes map[string]graph.NodeID
	Edges []PathEdge
}

func (p PathMatch) String() string {
	var b strings.Builder
	for i, e := range p.Edges {
		if i == 0 {
			fmt.Fprintf(&b, "%s", e.From)
		}
		fmt.Fprintf(&b, " -[%s]-> %s", e.Type, e.To)
	}
	if len(p.Edges) == 0 {
		for _, id := range p.Nodes {
			fmt.Fprintf(&b, "%s", id)
			break
		}
	}
	return b.String()
}
