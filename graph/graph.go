package graph

import (
	"errors"
	"fmt"
	"sort"
)

// NodeNotFoundError signals that an edge or simulation referenced a node id
// absent from the graph. It indicates a contract violation by an extractor or
// caller and is never swallowed by the core.
type NodeNotFoundError struct {
	ID string
}

func (e *NodeNotFoundError) Error() string {
	return fmt.Sprintf("node %q not found", e.ID)
}

// IsNodeNotFound reports whether err wraps a NodeNotFoundError.
func IsNodeNotFound(err error) bool {
	var notFound *NodeNotFoundError
	return errors.As(err, &notFound)
}

// Graph is an in-memory structural dependency graph. It owns nodes, edges and
// both adjacency directions. Iteration order over nodes and edges is insertion
// order, which is stable within a single process run.
//
// Graph provides no internal locking: a single goroutine must own all
// mutation (workers emit plain node/edge lists and a driver merges them
// sequentially).
type Graph struct {
	nodes map[string]*Node
	order []string
	edges []*Edge
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
	}
}

// AddNode inserts a node or, when the id already exists, replaces its
// attributes. Previously recorded adjacency for the id survives the
// replacement so edges referencing the id stay valid. Adjacency is derived
// exclusively from AddEdge: whatever sets the caller populated are discarded.
func (g *Graph) AddNode(node *Node) {
	node.Dependencies = make(map[string]bool)
	node.Dependents = make(map[string]bool)
	if prev, ok := g.nodes[node.ID]; ok {
		for id := range prev.Dependencies {
			node.Dependencies[id] = true
		}
		for id := range prev.Dependents {
			node.Dependents[id] = true
		}
		g.nodes[node.ID] = node
		return
	}
	g.nodes[node.ID] = node
	g.order = append(g.order, node.ID)
}

// AddEdge appends a directed edge and updates both adjacency sets. Both
// endpoints must already exist; otherwise a NodeNotFoundError naming the
// missing endpoint is returned and the graph is left unchanged.
func (g *Graph) AddEdge(from, to, edgeType string, metadata map[string]interface{}) error {
	fromNode, ok := g.nodes[from]
	if !ok {
		return &NodeNotFoundError{ID: from}
	}
	toNode, ok := g.nodes[to]
	if !ok {
		return &NodeNotFoundError{ID: to}
	}
	g.edges = append(g.edges, &Edge{From: from, To: to, Type: edgeType, Metadata: metadata})
	fromNode.Dependencies[to] = true
	toNode.Dependents[from] = true
	return nil
}

// GetNode returns the node for the given id, or nil when unknown.
func (g *Graph) GetNode(id string) *Node {
	return g.nodes[id]
}

// GetDependencies returns the sorted ids the node points to. An unknown id
// yields an empty result; absence is a valid query outcome, not an error.
func (g *Graph) GetDependencies(id string) []string {
	node, ok := g.nodes[id]
	if !ok {
		return nil
	}
	return sortedIDs(node.Dependencies)
}

// GetDependents returns the sorted ids pointing to the node, or empty when the
// id is unknown.
func (g *Graph) GetDependents(id string) []string {
	node, ok := g.nodes[id]
	if !ok {
		return nil
	}
	return sortedIDs(node.Dependents)
}

// AllNodes returns every node in insertion order.
func (g *Graph) AllNodes() []*Node {
	result := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		result = append(result, g.nodes[id])
	}
	return result
}

// SortedNodes returns every node ordered by id. Reports should iterate this
// rather than AllNodes: insertion order is an artifact of extraction
// scheduling.
func (g *Graph) SortedNodes() []*Node {
	result := g.AllNodes()
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// AllEdges returns every edge in insertion order.
func (g *Graph) AllEdges() []*Edge {
	result := make([]*Edge, len(g.edges))
	copy(result, g.edges)
	return result
}

// SortedEdges returns every edge ordered by key for reproducible reports.
func (g *Graph) SortedEdges() []*Edge {
	result := g.AllEdges()
	sort.Slice(result, func(i, j int) bool {
		return result[i].Key() < result[j].Key()
	})
	return result
}

// Size returns the node count.
func (g *Graph) Size() int {
	return len(g.nodes)
}

func sortedIDs(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	result := make([]string, 0, len(set))
	for id := range set {
		result = append(result, id)
	}
	sort.Strings(result)
	return result
}
