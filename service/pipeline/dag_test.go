package pipeline

import (
	"errors"
	"testing"
)

func buildDAG(t *testing.T, graph map[string][]string) *DAG {
	t.Helper()
	dag, err := FromMap(graph)
	if err != nil {
		t.Fatalf("FromMap failed: %v", err)
	}
	return dag
}

func TestAddNodeDuplicate(t *testing.T) {
	dag := NewDAG()
	if err := dag.AddNode("a"); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	if err := dag.AddNode("a"); err == nil {
		t.Fatal("expected error on duplicate node")
	}
}

func TestAddEdgeUnknownNode(t *testing.T) {
	dag := NewDAG()
	_ = dag.AddNode("a")
	if err := dag.AddEdge("a", "missing"); err == nil {
		t.Fatal("expected error on unknown successor")
	}
	if err := dag.AddEdge("missing", "a"); err == nil {
		t.Fatal("expected error on unknown predecessor")
	}
}

func TestAddEdgeCycleRollback(t *testing.T) {
	dag := buildDAG(t, map[string][]string{
		"a": {"b"},
		"b": {"c"},
		"c": {},
	})
	if err := dag.AddEdge("c", "a"); err == nil {
		t.Fatal("expected cycle to be rejected")
	}
	// The rejected edge must have been rolled back.
	if err := dag.Validate(); err != nil {
		t.Fatalf("graph invalid after rollback: %v", err)
	}
	succs, err := dag.Successors("c")
	if err != nil {
		t.Fatalf("Successors failed: %v", err)
	}
	if len(succs) != 0 {
		t.Fatalf("expected no successors on c, got %v", succs)
	}
}

func TestRootNodesAndLeaves(t *testing.T) {
	dag := buildDAG(t, map[string][]string{
		"a": {"b"},
		"b": {"c", "d"},
		"c": {},
		"d": {},
		"e": {},
	})
	roots, err := dag.RootNodes()
	if err != nil {
		t.Fatalf("RootNodes failed: %v", err)
	}
	if len(roots) != 2 || roots[0] != "a" || roots[1] != "e" {
		t.Fatalf("unexpected roots: %v", roots)
	}
	leaves := dag.Leaves()
	if len(leaves) != 3 {
		t.Fatalf("unexpected leaves: %v", leaves)
	}
}

func TestToposortOrder(t *testing.T) {
	dag := buildDAG(t, map[string][]string{
		"a": {"b"},
		"b": {"c", "d"},
		"c": {"e"},
		"d": {"e"},
		"e": {},
	})
	order, err := dag.Toposort()
	if err != nil {
		t.Fatalf("Toposort failed: %v", err)
	}
	pos := make(map[string]int, len(order))
	for i, node := range order {
		pos[node] = i
	}
	for _, edge := range dag.Edges() {
		if pos[edge[0]] >= pos[edge[1]] {
			t.Fatalf("edge %v violated by order %v", edge, order)
		}
	}
}

func TestToposortDetectsCycle(t *testing.T) {
	dag := NewDAG()
	for _, n := range []string{"a", "b", "c"} {
		_ = dag.AddNode(n)
	}
	// Bypass AddEdge validation to build a cyclic graph directly.
	dag.graph["a"]["b"] = struct{}{}
	dag.graph["b"]["c"] = struct{}{}
	dag.graph["c"]["a"] = struct{}{}

	if _, err := dag.Toposort(); !errors.Is(err, ErrNoRoot) && !errors.Is(err, ErrNotAcyclic) {
		t.Fatalf("expected cycle detection error, got %v", err)
	}
}

func TestDeleteNodeRemovesEdges(t *testing.T) {
	dag := buildDAG(t, map[string][]string{
		"a": {"b"},
		"b": {},
	})
	if err := dag.DeleteNode("b"); err != nil {
		t.Fatalf("DeleteNode failed: %v", err)
	}
	succs, err := dag.Successors("a")
	if err != nil {
		t.Fatalf("Successors failed: %v", err)
	}
	if len(succs) != 0 {
		t.Fatalf("expected dangling edge removed, got %v", succs)
	}
}

func TestPredecessors(t *testing.T) {
	dag := buildDAG(t, map[string][]string{
		"a": {"c"},
		"b": {"c"},
		"c": {},
	})
	preds, err := dag.Predecessors("c")
	if err != nil {
		t.Fatalf("Predecessors failed: %v", err)
	}
	if len(preds) != 2 || preds[0] != "a" || preds[1] != "b" {
		t.Fatalf("unexpected predecessors: %v", preds)
	}
}
