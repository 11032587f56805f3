package graph

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] for an empty ID.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when the ID is taken.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when From is not a node.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when To is not a node.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// Metadata stores arbitrary key-value pairs attached to nodes or the graph.
// Metadata maps are never nil once added to a Graph.
type Metadata map[string]any

// Node is a resolved coordinate in the resolution graph.
type Node struct {
	ID   string   // Coordinate string, also used as the display label
	Meta Metadata // e.g. "source", "packaging", "status"
}

// Edge is a dependency from one coordinate to another.
type Edge struct {
	From string
	To   string
}

// Graph is a directed dependency graph that keeps insertion order, so
// exports are deterministic. Cycles are allowed: they are broken during
// traversal, not by the graph.
//
// The zero value is not usable; use [New]. Graph is not safe for concurrent use.
type Graph struct {
	order []string
	nodes map[string]*Node
	edges []Edge
	links map[Edge]bool
	out   map[string][]string
	meta  Metadata
}

// New creates an empty Graph with optional graph-level metadata.
func New(meta Metadata) *Graph {
	if meta == nil {
		meta = Metadata{}
	}
	return &Graph{
		nodes: make(map[string]*Node),
		links: make(map[Edge]bool),
		out:   make(map[string][]string),
		meta:  meta,
	}
}

// Meta returns the graph-level metadata map.
func (g *Graph) Meta() Metadata { return g.meta }

// AddNode adds n to the graph.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	g.nodes[n.ID] = &n
	g.order = append(g.order, n.ID)
	return nil
}

// AddEdge adds a directed edge between two existing nodes. Adding an edge
// that already exists is a no-op.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	if g.links[e] {
		return nil
	}
	g.links[e] = true
	g.edges = append(g.edges, e)
	g.out[e.From] = append(g.out[e.From], e.To)
	return nil
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order. The pointers refer to the
// graph's own nodes.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, len(g.order))
	for i, id := range g.order {
		nodes[i] = g.nodes[id]
	}
	return nodes
}

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// Children returns the IDs the node has edges to, in insertion order.
func (g *Graph) Children(id string) []string { return slices.Clone(g.out[id]) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }
