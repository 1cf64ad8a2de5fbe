// Package concept provides the undirected, count-weighted concept graph
// built from one text submission.
//
// # Overview
//
// Nodes live in an arena and are addressed by integer [ID]. Edges are
// stored separately as unordered pairs of IDs, so nodes never hold
// references to each other. This keeps the graph free of reference cycles
// and trivially serializable.
//
//	g := concept.New()
//	a := g.AddNode("gato", "gato")
//	b := g.AddNode("perro", "perro")
//	_ = g.AddEdge(a, b)
//	g.Connected(b, a) // true: edges are symmetric
//
// # Registries
//
// A [Registry] turns a token stream into nodes. Two policies exist:
//
//   - [PolicyDeduplicate]: one node per distinct normalized key; repeated
//     tokens increment [Node.Count]. Node order is first-occurrence order.
//   - [PolicyPerOccurrence]: one node per token occurrence, Count fixed at 1.
//
// Pick one with [NewRegistry]; the pipeline derives the policy from the
// layout strategy unless configured explicitly.
//
// # Invariants
//
// Node counts are always >= 1. Edges are symmetric, never duplicated, and
// never connect two nodes with the same key (self-similarity is excluded
// even across distinct per-occurrence nodes). [Graph.Validate] checks all of
// these.
//
// # Concurrency
//
// Graph is not safe for concurrent mutation. Read-only use after
// construction is safe from multiple goroutines.
package concept
