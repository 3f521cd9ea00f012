package graph

import (
	"maps"
	"slices"
	"sync"
)

// adjacency tracks one node's edges in one direction: order is the
// insertion-ordered list of (neighbor, type) pairs — the source of
// deterministic iteration — and byType indexes the same edges by type for
// O(1) existence/property lookups.
type adjacency struct {
	order  []EdgeRef
	byType map[string]map[NodeID]*Edge
}

func newAdjacency() *adjacency {
	return &adjacency{byType: make(map[string]map[NodeID]*Edge)}
}

func (a *adjacency) add(other NodeID, typ string, e *Edge) {
	byDst, ok := a.byType[typ]
	if !ok {
		byDst = make(map[NodeID]*Edge)
		a.byType[typ] = byDst
	}
	if _, exists := byDst[other]; !exists {
		a.order = append(a.order, EdgeRef{Other: other, Type: typ})
	}
	byDst[other] = e
}

func (a *adjacency) remove(other NodeID, typ string) {
	if byDst, ok := a.byType[typ]; ok {
		delete(byDst, other)
		if len(byDst) == 0 {
			delete(a.byType, typ)
		}
	}
	for i, ref := range a.order {
		if ref.Other == other && ref.Type == typ {
			a.order = slices.Delete(a.order, i, i+1)
			break
		}
	}
}

func (a *adjacency) refs(types []string) []EdgeRef {
	if len(types) == 0 {
		out := make([]EdgeRef, len(a.order))
		copy(out, a.order)
		return out
	}
	wanted := make(map[string]struct{}, len(types))
	for _, t := range types {
		wanted[t] = struct{}{}
	}
	var out []EdgeRef
	for _, ref := range a.order {
		if _, ok := wanted[ref.Type]; ok {
			out = append(out, ref)
		}
	}
	return out
}

// AdjacencyListMultigraph is the concrete Graph implementation: unique
// nodes keyed by ID, directed typed multi-edges, forward (out) and
// reverse (in) adjacency maintained in lockstep, plus a type→[]NodeID
// index for O(1) seeding by type. A single RWMutex enforces the
// reader-writer exclusion spec.md §5 mandates: queries take RLock for
// their whole evaluation, mutations take Lock.
type AdjacencyListMultigraph struct {
	mu sync.RWMutex

	nodes     map[NodeID]*Node
	typeIndex map[string][]NodeID

	out map[NodeID]*adjacency
	in  map[NodeID]*adjacency
}

func New() *AdjacencyListMultigraph {
	return &AdjacencyListMultigraph{
		nodes:     make(map[NodeID]*Node),
		typeIndex: make(map[string][]NodeID),
		out:       make(map[NodeID]*adjacency),
		in:        make(map[NodeID]*adjacency),
	}
}

// RLock/RUnlock are exported so a caller can hold a single read lock for
// the duration of a whole read-only sequence (one query's evaluation,
// filter, projection and sort) instead of locking per graph call. Every
// read accessor below (GetNode, NodesByType, HasEdge, EdgeProps, OutFrom,
// InTo) assumes the caller already holds at least RLock — they do not
// lock internally, since sync.RWMutex's docs warn that recursive RLock
// from one goroutine can deadlock against a blocked writer. Only Clone
// (which takes its own RLock) and the mutating methods (UpsertNode,
// RemoveNode, AddEdge, RemoveEdge, which take an exclusive Lock) lock
// themselves, since they are always one-shot calls.
func (g *AdjacencyListMultigraph) RLock()   { g.mu.RLock() }
func (g *AdjacencyListMultigraph) RUnlock() { g.mu.RUnlock() }

func (g *AdjacencyListMultigraph) UpsertNode(n Node) error {
	if n.ID == "" || n.Type == "" || n.Label == "" {
		return ErrInvalidNode("node ID, Type and Label must all be non-empty")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if existing, ok := g.nodes[n.ID]; ok {
		g.removeFromTypeIndex(existing.Type, n.ID)
	} else {
		g.out[n.ID] = newAdjacency()
		g.in[n.ID] = newAdjacency()
	}

	stored := Node{ID: n.ID, Type: n.Type, Label: n.Label, Props: maps.Clone(n.Props)}
	g.nodes[n.ID] = &stored
	g.typeIndex[n.Type] = append(g.typeIndex[n.Type], n.ID)
	return nil
}

func (g *AdjacencyListMultigraph) removeFromTypeIndex(typ string, id NodeID) {
	ids := g.typeIndex[typ]
	for i, existing := range ids {
		if existing == id {
			g.typeIndex[typ] = slices.Delete(ids, i, i+1)
			break
		}
	}
	if len(g.typeIndex[typ]) == 0 {
		delete(g.typeIndex, typ)
	}
}

func (g *AdjacencyListMultigraph) RemoveNode(id NodeID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	node, ok := g.nodes[id]
	if !ok {
		return ErrNodeMissing(id)
	}

	for _, ref := range g.out[id].refs(nil) {
		g.in[ref.Other].remove(id, ref.Type)
	}
	for _, ref := range g.in[id].refs(nil) {
		g.out[ref.Other].remove(id, ref.Type)
	}
	delete(g.out, id)
	delete(g.in, id)

	g.removeFromTypeIndex(node.Type, id)
	delete(g.nodes, id)
	return nil
}

func (g *AdjacencyListMultigraph) GetNode(id NodeID) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

func (g *AdjacencyListMultigraph) NodesByType(typ string) []*Node {
	if typ == "" {
		out := make([]*Node, 0, len(g.nodes))
		for _, ids := range g.typeIndexOrdered() {
			out = append(out, g.nodes[ids])
		}
		return out
	}

	ids := g.typeIndex[typ]
	out := make([]*Node, 0, len(ids))
	for _, id := range ids {
		out = append(out, g.nodes[id])
	}
	return out
}

// typeIndexOrdered flattens the type index deterministically: by type name,
// then by insertion order within a type.
func (g *AdjacencyListMultigraph) typeIndexOrdered() []NodeID {
	types := slices.Sorted(maps.Keys(g.typeIndex))
	var out []NodeID
	for _, t := range types {
		out = append(out, g.typeIndex[t]...)
	}
	return out
}

func (g *AdjacencyListMultigraph) AddEdge(from NodeID, typ string, to NodeID, props map[string]Value) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[from]; !ok {
		return ErrNodeMissing(from)
	}
	if _, ok := g.nodes[to]; !ok {
		return ErrNodeMissing(to)
	}

	e := &Edge{From: from, To: to, Type: typ, Props: maps.Clone(props)}
	g.out[from].add(to, typ, e)
	g.in[to].add(from, typ, e)
	return nil
}

func (g *AdjacencyListMultigraph) RemoveEdge(from NodeID, typ string, to NodeID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.hasEdgeLocked(from, typ, to) {
		return ErrEdgeMissing(from, to, typ)
	}
	g.out[from].remove(to, typ)
	g.in[to].remove(from, typ)
	return nil
}

func (g *AdjacencyListMultigraph) hasEdgeLocked(from NodeID, typ string, to NodeID) bool {
	bucket, ok := g.out[from]
	if !ok {
		return false
	}
	byDst, ok := bucket.byType[typ]
	if !ok {
		return false
	}
	_, ok = byDst[to]
	return ok
}

func (g *AdjacencyListMultigraph) HasEdge(from NodeID, typ string, to NodeID) bool {
	return g.hasEdgeLocked(from, typ, to)
}

func (g *AdjacencyListMultigraph) EdgeProps(from NodeID, typ string, to NodeID) (map[string]Value, bool) {
	bucket, ok := g.out[from]
	if !ok {
		return nil, false
	}
	byDst, ok := bucket.byType[typ]
	if !ok {
		return nil, false
	}
	e, ok := byDst[to]
	if !ok {
		return nil, false
	}
	return e.Props, true
}

func (g *AdjacencyListMultigraph) OutFrom(id NodeID, types ...string) []EdgeRef {
	bucket, ok := g.out[id]
	if !ok {
		return nil
	}
	return bucket.refs(types)
}

func (g *AdjacencyListMultigraph) InTo(id NodeID, types ...string) []EdgeRef {
	bucket, ok := g.in[id]
	if !ok {
		return nil
	}
	return bucket.refs(types)
}

func (g *AdjacencyListMultigraph) Clone() Graph {
	g.mu.RLock()
	defer g.mu.RUnlock()

	clone := New()
	for id, n := range g.nodes {
		clone.nodes[id] = &Node{ID: n.ID, Type: n.Type, Label: n.Label, Props: maps.Clone(n.Props)}
	}
	for typ, ids := range g.typeIndex {
		clone.typeIndex[typ] = slices.Clone(ids)
	}
	for id, bucket := range g.out {
		clone.out[id] = cloneAdjacency(bucket)
	}
	for id, bucket := range g.in {
		clone.in[id] = cloneAdjacency(bucket)
	}
	return clone
}

func cloneAdjacency(a *adjacency) *adjacency {
	na := newAdjacency()
	na.order = slices.Clone(a.order)
	for typ, byDst := range a.byType {
		cloned := make(map[NodeID]*Edge, len(byDst))
		for dst, e := range byDst {
			cloned[dst] = &Edge{From: e.From, To: e.To, Type: e.Type, Props: maps.Clone(e.Props)}
		}
		na.byType[typ] = cloned
	}
	return na
}
