package concept

import (
	"encoding/json"
	"fmt"
)

// Snapshot is the serialization format of a Graph, used for caching and API
// responses. Nodes are listed in ID order.
type Snapshot struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Snapshot exports the graph.
func (g *Graph) Snapshot() Snapshot {
	return Snapshot{Nodes: g.Nodes(), Edges: g.Edges()}
}

// FromSnapshot rebuilds a graph. Node IDs must be dense and in order.
// Returns an error if the snapshot violates graph invariants.
func FromSnapshot(s Snapshot) (*Graph, error) {
	g := New()
	for i, n := range s.Nodes {
		if int(n.ID) != i {
			return nil, fmt.Errorf("node %d: id %d out of order", i, n.ID)
		}
		g.nodes = append(g.nodes, n)
	}
	for _, e := range s.Edges {
		if err := g.AddEdge(e.A, e.B); err != nil {
			return nil, fmt.Errorf("add edge %d-%d: %w", e.A, e.B, err)
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// MarshalJSON encodes the graph as its Snapshot.
func (g *Graph) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.Snapshot())
}

// UnmarshalGraph decodes JSON bytes produced by MarshalJSON.
func UnmarshalGraph(data []byte) (*Graph, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return FromSnapshot(s)
}
