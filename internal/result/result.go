package result

import (
	"fmt"
	"strings"
)

// Result is the polymorphic output of the top-level facade's generic
// Query(dsl string) convenience (used by cmd/cli's REPL), mirroring the
// teacher's Kind()/String() Result interface. The typed engine methods
// (Match/MatchRows/MatchPaths/MatchMany) do not go through this type —
// it exists only for callers that want one shape for "whatever a DSL
// line produced."
type Result interface {
	Kind() Kind
	String() string
}

type Kind int

const (
	GroupedResultKind Kind = iota
	RowsResultKind
	PathsResultKind
)

// GroupedResult wraps Match's output: variable name -> set of node IDs.
type GroupedResult struct {
	Bindings map[string][]string
}

func (r GroupedResult) Kind() Kind { return GroupedResultKind }

func (r GroupedResult) String() string {
	var b strings.Builder
	for _, v := range sortedKeys(r.Bindings) {
		fmt.Fprintf(&b, "%s: %v\n", v, r.Bindings[v])
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// RowsResult wraps MatchRows's output.
type RowsResult struct {
	Rows []map[string]any
}

func (r RowsResult) Kind() Kind { return RowsResultKind }

func (r RowsResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d row(s)", len(r.Rows))
	for _, row := range r.Rows {
		fmt.Fprintf(&b, "\n  %v", row)
	}
	return b.String()
}

// PathsResult wraps MatchPaths's output.
type PathsResult struct {
	Paths []PathMatch
}

func (r PathsResult) Kind() Kind { return PathsResultKind }

func (r PathsResult) String() string {
	if len(r.Paths) == 0 {
		return "no paths found"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d path(s):", len(r.Paths))
	for i, p := range r.Paths {
		fmt.Fprintf(&b, "\n  %d. %s", i+1, p.String())
	}
	return b.String()
}
