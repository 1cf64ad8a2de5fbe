// Package linker forms the edges of a concept graph by querying a
// similarity oracle for every unordered pair of nodes.
//
// Each pair is visited exactly once in (i, j>i) order, so edge insertion
// order is deterministic. Pairs whose nodes share the same normalized text
// are skipped without a query. An edge is added only when the oracle knows
// both terms and the score is strictly greater than the threshold.
//
// Oracle failures abort linking: a partially linked graph would silently
// misrepresent the text, so the error is returned and the graph must be
// discarded.
package linker

import (
	"context"
	"fmt"

	"github.com/matzehuels/conceptmap/pkg/concept"
	cerrors "github.com/matzehuels/conceptmap/pkg/errors"
	"github.com/matzehuels/conceptmap/pkg/similarity"
)

// DefaultThreshold is the score a pair must exceed to be linked.
const DefaultThreshold = 0.5

// Options configures Link.
type Options struct {
	// Threshold is an exclusive lower bound: equal scores do not link.
	Threshold float64 `toml:"threshold" json:"threshold"`
}

// DefaultOptions returns Options with DefaultThreshold.
func DefaultOptions() Options {
	return Options{Threshold: DefaultThreshold}
}

// Validate checks that the threshold lies in [0, 1].
func (o Options) Validate() error {
	if o.Threshold < 0 || o.Threshold > 1 {
		return cerrors.New(cerrors.ErrCodeInvalidConfig, "threshold %v out of range [0,1]", o.Threshold)
	}
	return nil
}

// Stats summarizes one Link call.
type Stats struct {
	Pairs   int `json:"pairs"`   // unordered pairs visited
	Skipped int `json:"skipped"` // pairs with identical text
	Queries int `json:"queries"` // oracle calls made
	Unknown int `json:"unknown"` // answers where a term had no senses
	Edges   int `json:"edges"`   // edges added
}

// Link adds an edge to g for every pair the oracle scores above the
// threshold. It returns the first oracle error, wrapped with the pair.
func Link(ctx context.Context, g *concept.Graph, oracle similarity.Oracle, opts Options) (Stats, error) {
	var stats Stats
	nodes := g.Nodes()
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
			a, b := nodes[i], nodes[j]
			stats.Pairs++
			if a.Key == b.Key {
				stats.Skipped++
				continue
			}

			stats.Queries++
			score, err := oracle.Similarity(ctx, a.Text, b.Text)
			if err != nil {
				return stats, fmt.Errorf("similarity of %q and %q: %w", a.Text, b.Text, err)
			}
			if !score.Known {
				stats.Unknown++
				continue
			}
			if !Related(score.Value, opts.Threshold) {
				continue
			}
			if err := g.AddEdge(a.ID, b.ID); err != nil {
				return stats, fmt.Errorf("link %d-%d: %w", a.ID, b.ID, err)
			}
			stats.Edges++
		}
	}
	return stats, nil
}

// Related reports whether score passes the strict threshold.
func Related(score, threshold float64) bool {
	return score > threshold
}
