package graph

import "testing"

func testNode(id, typ string) Node {
	return Node{ID: NodeID(id), Type: typ, Label: id}
}

func TestAddEdgeRejectsMissingEndpoints(t *testing.T) {
	g := New()
	g.UpsertNode(testNode("a", "Person"))

	if err := g.AddEdge("a", "KNOWS", "b", nil); err == nil {
		t.Fatal("expected error adding edge to missing node")
	}
}

func TestMultiEdgeDistinctTypesAllowed(t *testing.T) {
	g := New()
	g.UpsertNode(testNode("a", "Person"))
	g.UpsertNode(testNode("b", "Person"))

	if err := g.AddEdge("a", "KNOWS", "b", nil); err != nil {
		t.Fatalf("AddEdge KNOWS: %v", err)
	}
	if err := g.AddEdge("a", "WORKS_WITH", "b", nil); err != nil {
		t.Fatalf("AddEdge WORKS_WITH: %v", err)
	}

	out := g.OutFrom("a")
	if len(out) != 2 {
		t.Fatalf("expected 2 distinct-typed edges, got %d", len(out))
	}
}

func TestAddEdgeDuplicateSameTypeDeduplicates(t *testing.T) {
	g := New()
	g.UpsertNode(testNode("a", "Person"))
	g.UpsertNode(testNode("b", "Person"))

	g.AddEdge("a", "KNOWS", "b", map[string]Value{"weight": Int(1)})
	g.AddEdge("a", "KNOWS", "b", map[string]Value{"weight": Int(2)})

	out := g.OutFrom("a", "KNOWS")
	if len(out) != 1 {
		t.Fatalf("expected single deduplicated edge, got %d", len(out))
	}
	props, ok := g.EdgeProps("a", "KNOWS", "b")
	if !ok || props["weight"].I != 2 {
		t.Fatalf("expected replaced props with weight=2, got %+v", props)
	}
}

func TestAdjacencyCoherence(t *testing.T) {
	g := New()
	g.UpsertNode(testNode("a", "Person"))
	g.UpsertNode(testNode("b", "Person"))
	g.AddEdge("a", "KNOWS", "b", nil)

	if !g.HasEdge("a", "KNOWS", "b") {
		t.Fatal("expected forward edge to exist")
	}
	in := g.InTo("b", "KNOWS")
	if len(in) != 1 || in[0].Other != "a" {
		t.Fatalf("expected reverse adjacency to contain a, got %+v", in)
	}
}

func TestRemoveNodeClearsIncidentEdges(t *testing.T) {
	g := New()
	g.UpsertNode(testNode("a", "Person"))
	g.UpsertNode(testNode("b", "Person"))
	g.AddEdge("a", "KNOWS", "b", nil)

	if err := g.RemoveNode("b"); err != nil {
		t.Fatalf("RemoveNode: %v", err)
	}
	if g.HasEdge("a", "KNOWS", "b") {
		t.Fatal("expected edge to b to be gone after removing b")
	}
	if len(g.OutFrom("a")) != 0 {
		t.Fatal("expected no outgoing edges from a after removing b")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := New()
	g.UpsertNode(testNode("a", "Person"))
	g.UpsertNode(testNode("b", "Person"))
	g.AddEdge("a", "KNOWS", "b", nil)

	cloned := g.Clone()
	if err := cloned.RemoveNode("a"); err != nil {
		t.Fatalf("RemoveNode on clone: %v", err)
	}

	if _, ok := g.GetNode("a"); !ok {
		t.Fatal("original graph should be unaffected by mutation of clone")
	}
	if _, ok := cloned.GetNode("a"); ok {
		t.Fatal("cloned graph should have node a removed")
	}
}

func TestUpsertReplacesExistingNode(t *testing.T) {
	g := New()
	g.UpsertNode(Node{ID: "a", Type: "Person", Label: "Alice", Props: map[string]Value{"age": Int(30)}})
	g.UpsertNode(Node{ID: "a", Type: "Person", Label: "Alice", Props: map[string]Value{"age": Int(31)}})

	n, _ := g.GetNode("a")
	if n.Props["age"].I != 31 {
		t.Fatalf("expected replaced props, got %+v", n.Props)
	}
	if len(g.NodesByType("Person")) != 1 {
		t.Fatal("upsert of an existing ID must not duplicate the type index")
	}
}

func TestNodesByTypeScansAllWhenEmpty(t *testing.T) {
	g := New()
	g.UpsertNode(testNode("a", "Person"))
	g.UpsertNode(testNode("w", "Team"))

	if len(g.NodesByType("")) != 2 {
		t.Fatal("expected NodesByType(\"\") to return every node")
	}
}
