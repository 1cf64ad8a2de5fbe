package concept

import (
	"errors"
	"slices"
)

var (
	// ErrUnknownNode is returned by [Graph.AddEdge] when an endpoint ID is
	// not in the arena.
	ErrUnknownNode = errors.New("unknown node")

	// ErrSelfLoop is returned by [Graph.AddEdge] when both endpoints are the
	// same node or share the same key.
	ErrSelfLoop = errors.New("edge endpoints have identical text")

	// ErrInvalidCount is returned by [Graph.Validate] when a node has a
	// count below 1.
	ErrInvalidCount = errors.New("node count must be at least 1")

	// ErrEmptyKey is returned by [Graph.Validate] when a node has no key.
	ErrEmptyKey = errors.New("node key must not be empty")
)

// ID addresses a node inside its graph's arena. IDs are dense, starting at 0,
// in creation order.
type ID int

// Point is a position in logical canvas coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is one concept. Identity is its ID; Key is the normalized text used
// for comparisons and Text the surface form shown to users.
type Node struct {
	ID    ID     `json:"id"`
	Text  string `json:"text"`
	Key   string `json:"key"`
	Count int    `json:"count"`
	Pos   Point  `json:"pos"`
}

// Edge is an unordered pair of distinct nodes, stored with A < B.
type Edge struct {
	A ID `json:"a"`
	B ID `json:"b"`
}

// NewEdge returns the canonical (A < B) form of the pair.
func NewEdge(a, b ID) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{A: a, B: b}
}

// Other returns the endpoint opposite to id.
func (e Edge) Other(id ID) ID {
	if e.A == id {
		return e.B
	}
	return e.A
}

// Graph is the node arena plus the derived edge set for one submission.
// The zero value is not usable; call New.
type Graph struct {
	nodes []Node
	edges []Edge
	index map[Edge]struct{}
	adj   map[ID][]ID
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		index: make(map[Edge]struct{}),
		adj:   make(map[ID][]ID),
	}
}

// AddNode appends a node with count 1 and returns its ID.
func (g *Graph) AddNode(text, key string) ID {
	id := ID(len(g.nodes))
	g.nodes = append(g.nodes, Node{ID: id, Text: text, Key: key, Count: 1})
	return id
}

// Increment adds one occurrence to the node. Unknown IDs are ignored.
func (g *Graph) Increment(id ID) {
	if n := g.node(id); n != nil {
		n.Count++
	}
}

// AddEdge connects a and b. Adding an existing edge is a no-op.
// Returns ErrUnknownNode if either endpoint is missing, or ErrSelfLoop if
// the endpoints are the same node or carry the same key.
func (g *Graph) AddEdge(a, b ID) error {
	na, nb := g.node(a), g.node(b)
	if na == nil || nb == nil {
		return ErrUnknownNode
	}
	if a == b || na.Key == nb.Key {
		return ErrSelfLoop
	}
	e := NewEdge(a, b)
	if _, ok := g.index[e]; ok {
		return nil
	}
	g.index[e] = struct{}{}
	g.edges = append(g.edges, e)
	g.adj[a] = append(g.adj[a], b)
	g.adj[b] = append(g.adj[b], a)
	return nil
}

// Node returns the node with the given ID and true, or a zero Node and
// false if not found.
func (g *Graph) Node(id ID) (Node, bool) {
	if n := g.node(id); n != nil {
		return *n, true
	}
	return Node{}, false
}

func (g *Graph) node(id ID) *Node {
	if id < 0 || int(id) >= len(g.nodes) {
		return nil
	}
	return &g.nodes[id]
}

// Nodes returns a copy of all nodes in creation order.
func (g *Graph) Nodes() []Node { return slices.Clone(g.nodes) }

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Empty reports whether the graph has no nodes.
func (g *Graph) Empty() bool { return len(g.nodes) == 0 }

// Neighbors returns the IDs connected to id. The slice must not be modified.
func (g *Graph) Neighbors(id ID) []ID { return g.adj[id] }

// Degree returns the number of edges incident to id.
func (g *Graph) Degree(id ID) int { return len(g.adj[id]) }

// Connected reports whether an edge joins a and b, in either order.
func (g *Graph) Connected(a, b ID) bool {
	_, ok := g.index[NewEdge(a, b)]
	return ok
}

// SetPos assigns the logical position of a node. Unknown IDs are ignored.
func (g *Graph) SetPos(id ID, p Point) {
	if n := g.node(id); n != nil {
		n.Pos = p
	}
}

// MaxCount returns the largest occurrence count, or 0 for an empty graph.
func (g *Graph) MaxCount() int {
	maxCount := 0
	for _, n := range g.nodes {
		maxCount = max(maxCount, n.Count)
	}
	return maxCount
}

// Bounds returns the bounding box of all node positions. ok is false for an
// empty graph.
func (g *Graph) Bounds() (minPt, maxPt Point, ok bool) {
	if len(g.nodes) == 0 {
		return Point{}, Point{}, false
	}
	minPt, maxPt = g.nodes[0].Pos, g.nodes[0].Pos
	for _, n := range g.nodes[1:] {
		minPt.X = min(minPt.X, n.Pos.X)
		minPt.Y = min(minPt.Y, n.Pos.Y)
		maxPt.X = max(maxPt.X, n.Pos.X)
		maxPt.Y = max(maxPt.Y, n.Pos.Y)
	}
	return minPt, maxPt, true
}

// Validate checks graph integrity and returns nil if valid.
//
//  1. Every node has a non-empty key and a count >= 1
//  2. Every edge joins two existing nodes with different keys
//  3. Adjacency is symmetric and matches the edge set
func (g *Graph) Validate() error {
	for _, n := range g.nodes {
		if n.Key == "" {
			return ErrEmptyKey
		}
		if n.Count < 1 {
			return ErrInvalidCount
		}
	}
	for _, e := range g.edges {
		na, nb := g.node(e.A), g.node(e.B)
		if na == nil || nb == nil {
			return ErrUnknownNode
		}
		if e.A == e.B || na.Key == nb.Key {
			return ErrSelfLoop
		}
		if !slices.Contains(g.adj[e.A], e.B) || !slices.Contains(g.adj[e.B], e.A) {
			return errors.New("asymmetric adjacency")
		}
	}
	return nil
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		nodes: slices.Clone(g.nodes),
		edges: slices.Clone(g.edges),
		index: make(map[Edge]struct{}, len(g.index)),
		adj:   make(map[ID][]ID, len(g.adj)),
	}
	for e := range g.index {
		c.index[e] = struct{}{}
	}
	for id, ns := range g.adj {
		c.adj[id] = slices.Clone(ns)
	}
	return c
}
