// Package pipeline provides a DAG of named steps and a runner that executes
// them in dependency order.
package pipeline

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrNoRoot is returned when a graph has no node without predecessors.
	ErrNoRoot = errors.New("no root node found")
	// ErrNotAcyclic is returned when a graph contains at least one cycle.
	ErrNotAcyclic = errors.New("graph is not acyclic")
)

// DAG is a directed acyclic graph backed by an adjacency set.
type DAG struct {
	graph map[string]map[string]struct{}
}

// NewDAG creates an empty DAG.
func NewDAG() *DAG {
	return &DAG{graph: make(map[string]map[string]struct{})}
}

// AddNode adds a new node to the graph.
func (d *DAG) AddNode(id string) error {
	if _, ok := d.graph[id]; ok {
		return fmt.Errorf("node %q already exists", id)
	}
	d.graph[id] = make(map[string]struct{})
	return nil
}

// DeleteNode removes a node and every edge referencing it.
func (d *DAG) DeleteNode(id string) error {
	if _, ok := d.graph[id]; !ok {
		return fmt.Errorf("node %q does not exist", id)
	}
	delete(d.graph, id)
	for _, edges := range d.graph {
		delete(edges, id)
	}
	return nil
}

// AddEdge adds a directed edge from predecessor to successor. The edge is
// rolled back if it would break acyclicity.
func (d *DAG) AddEdge(predecessor, successor string) error {
	if _, ok := d.graph[predecessor]; !ok {
		return fmt.Errorf("node %q does not exist", predecessor)
	}
	if _, ok := d.graph[successor]; !ok {
		return fmt.Errorf("node %q does not exist", successor)
	}
	d.graph[predecessor][successor] = struct{}{}
	if err := d.Validate(); err != nil {
		delete(d.graph[predecessor], successor)
		return err
	}
	return nil
}

// DeleteEdge removes an edge from the graph.
func (d *DAG) DeleteEdge(predecessor, successor string) error {
	edges, ok := d.graph[predecessor]
	if !ok {
		return fmt.Errorf("edge %q -> %q does not exist", predecessor, successor)
	}
	if _, ok := edges[successor]; !ok {
		return fmt.Errorf("edge %q -> %q does not exist", predecessor, successor)
	}
	delete(edges, successor)
	return nil
}

// Predecessors returns all direct predecessors of the given node.
func (d *DAG) Predecessors(id string) ([]string, error) {
	if _, ok := d.graph[id]; !ok {
		return nil, fmt.Errorf("node %q does not exist", id)
	}
	var preds []string
	for node, edges := range d.graph {
		if _, ok := edges[id]; ok {
			preds = append(preds, node)
		}
	}
	sort.Strings(preds)
	return preds, nil
}

// Successors returns all direct successors of the given node.
func (d *DAG) Successors(id string) ([]string, error) {
	edges, ok := d.graph[id]
	if !ok {
		return nil, fmt.Errorf("node %q does not exist", id)
	}
	succs := make([]string, 0, len(edges))
	for node := range edges {
		succs = append(succs, node)
	}
	sort.Strings(succs)
	return succs, nil
}

// Leaves returns all nodes without successors.
func (d *DAG) Leaves() []string {
	var leaves []string
	for node, edges := range d.graph {
		if len(edges) == 0 {
			leaves = append(leaves, node)
		}
	}
	sort.Strings(leaves)
	return leaves
}

// RootNodes returns all nodes without predecessors.
func (d *DAG) RootNodes() ([]string, error) {
	successors := make(map[string]struct{})
	for _, edges := range d.graph {
		for node := range edges {
			successors[node] = struct{}{}
		}
	}
	var roots []string
	for node := range d.graph {
		if _, ok := successors[node]; !ok {
			roots = append(roots, node)
		}
	}
	if len(roots) == 0 {
		return nil, ErrNoRoot
	}
	sort.Strings(roots)
	return roots, nil
}

// Nodes returns all node IDs in the graph.
func (d *DAG) Nodes() []string {
	nodes := make([]string, 0, len(d.graph))
	for node := range d.graph {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	return nodes
}

// Validate checks the graph has at least one root node and no cycle.
func (d *DAG) Validate() error {
	if _, err := d.RootNodes(); err != nil {
		return err
	}
	if _, err := d.Toposort(); err != nil {
		return err
	}
	return nil
}

// Toposort returns a topological ordering of the graph using Kahn's
// algorithm, which also detects cycles.
func (d *DAG) Toposort() ([]string, error) {
	indegree := make(map[string]int, len(d.graph))
	for node := range d.graph {
		indegree[node] = 0
	}
	for _, edges := range d.graph {
		for node := range edges {
			indegree[node]++
		}
	}

	var ready []string
	for node, deg := range indegree {
		if deg == 0 {
			ready = append(ready, node)
		}
	}
	if len(ready) == 0 && len(d.graph) > 0 {
		return nil, ErrNoRoot
	}
	sort.Strings(ready)

	sorted := make([]string, 0, len(d.graph))
	for len(ready) > 0 {
		node := ready[0]
		ready = ready[1:]
		sorted = append(sorted, node)
		succs, _ := d.Successors(node)
		for _, succ := range succs {
			indegree[succ]--
			if indegree[succ] == 0 {
				ready = append(ready, succ)
			}
		}
		sort.Strings(ready)
	}
	if len(sorted) != len(d.graph) {
		return nil, ErrNotAcyclic
	}
	return sorted, nil
}

// Edges returns every edge of the graph as predecessor/successor pairs.
func (d *DAG) Edges() [][2]string {
	var edges [][2]string
	for node, succs := range d.graph {
		for succ := range succs {
			edges = append(edges, [2]string{node, succ})
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i][0] != edges[j][0] {
			return edges[i][0] < edges[j][0]
		}
		return edges[i][1] < edges[j][1]
	})
	return edges
}

// FromMap builds a DAG from an adjacency map of node -> successors.
func FromMap(graph map[string][]string) (*DAG, error) {
	dag := NewDAG()
	for node := range graph {
		if err := dag.AddNode(node); err != nil {
			return nil, err
		}
	}
	nodes := make([]string, 0, len(graph))
	for node := range graph {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	for _, node := range nodes {
		for _, succ := range graph[node] {
			if err := dag.AddEdge(node, succ); err != nil {
				return nil, err
			}
		}
	}
	return dag, nil
}
