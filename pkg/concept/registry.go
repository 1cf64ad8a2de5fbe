package concept

import (
	"fmt"

	"github.com/matzehuels/conceptmap/pkg/text"
)

// Policy selects how tokens become nodes.
type Policy string

const (
	// PolicyDeduplicate creates one node per distinct key and counts repeats.
	PolicyDeduplicate Policy = "dedup"
	// PolicyPerOccurrence creates one node per token, each with count 1.
	PolicyPerOccurrence Policy = "per-occurrence"
)

// ParsePolicy converts a configuration string to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyDeduplicate, PolicyPerOccurrence:
		return Policy(s), nil
	default:
		return "", fmt.Errorf("invalid registry policy: %q (must be %q or %q)", s, PolicyDeduplicate, PolicyPerOccurrence)
	}
}

// Registry accumulates tokens into a graph's node arena.
type Registry interface {
	// Add registers one token occurrence and returns the ID of the node
	// that now represents it.
	Add(tok text.Token) ID
	// Graph returns the graph under construction.
	Graph() *Graph
	// Policy reports which policy the registry implements.
	Policy() Policy
}

// NewRegistry returns an empty registry for p.
func NewRegistry(p Policy) (Registry, error) {
	switch p {
	case PolicyDeduplicate:
		return NewDeduplicatingRegistry(), nil
	case PolicyPerOccurrence:
		return NewPerOccurrenceRegistry(), nil
	default:
		return nil, fmt.Errorf("invalid registry policy: %q", p)
	}
}

// Collect registers every token with r and returns the resulting graph.
func Collect(r Registry, tokens []text.Token) *Graph {
	for _, tok := range tokens {
		r.Add(tok)
	}
	return r.Graph()
}

// =============================================================================
// Deduplicating
// =============================================================================

// DeduplicatingRegistry maps each normalized key to a single node.
// The first occurrence's surface text becomes the node's Text.
type DeduplicatingRegistry struct {
	g     *Graph
	byKey map[string]ID
}

// NewDeduplicatingRegistry creates an empty deduplicating registry.
func NewDeduplicatingRegistry() *DeduplicatingRegistry {
	return &DeduplicatingRegistry{g: New(), byKey: make(map[string]ID)}
}

// Add increments the existing node for tok.Key or creates a new one.
func (r *DeduplicatingRegistry) Add(tok text.Token) ID {
	if id, ok := r.byKey[tok.Key]; ok {
		r.g.Increment(id)
		return id
	}
	id := r.g.AddNode(tok.Text, tok.Key)
	r.byKey[tok.Key] = id
	return id
}

// Lookup returns the node registered for key.
func (r *DeduplicatingRegistry) Lookup(key string) (ID, bool) {
	id, ok := r.byKey[key]
	return id, ok
}

func (r *DeduplicatingRegistry) Graph() *Graph  { return r.g }
func (r *DeduplicatingRegistry) Policy() Policy { return PolicyDeduplicate }

// =============================================================================
// Per-occurrence
// =============================================================================

// PerOccurrenceRegistry creates a fresh node for every token.
type PerOccurrenceRegistry struct {
	g *Graph
}

// NewPerOccurrenceRegistry creates an empty per-occurrence registry.
func NewPerOccurrenceRegistry() *PerOccurrenceRegistry {
	return &PerOccurrenceRegistry{g: New()}
}

// Add always creates a new node with count 1.
func (r *PerOccurrenceRegistry) Add(tok text.Token) ID {
	return r.g.AddNode(tok.Text, tok.Key)
}

func (r *PerOccurrenceRegistry) Graph() *Graph  { return r.g }
func (r *PerOccurrenceRegistry) Policy() Policy { return PolicyPerOccurrence }

var (
	_ Registry = (*DeduplicatingRegistry)(nil)
	_ Registry = (*PerOccurrenceRegistry)(nil)
)
