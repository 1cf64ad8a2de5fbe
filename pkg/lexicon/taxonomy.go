package lexicon

import (
	"context"
	"errors"

	"github.com/matzehuels/conceptmap/pkg/text"
)

// DefaultMaxDepth bounds the hypernym walk. Real taxonomies are shallower;
// the bound protects against malformed data with very long chains.
const DefaultMaxDepth = 32

// Taxonomy resolves terms to senses through a Store and scores senses by
// their hypernym path. It holds no mutable state and is safe for concurrent
// use if the Store is.
type Taxonomy struct {
	store    Store
	maxDepth int
}

// NewTaxonomy creates a Taxonomy over store.
func NewTaxonomy(store Store) *Taxonomy {
	return &Taxonomy{store: store, maxDepth: DefaultMaxDepth}
}

// Store returns the underlying backend.
func (t *Taxonomy) Store() Store { return t.store }

// Senses lowercases term, looks up its synsets, and resolves each one's
// ancestor distances. Order follows the store's synset order.
func (t *Taxonomy) Senses(ctx context.Context, term string) ([]Sense, error) {
	ids, err := t.store.SynsetsFor(ctx, text.Normalize(term))
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	senses := make([]Sense, 0, len(ids))
	for _, id := range ids {
		s, err := t.resolve(ctx, id)
		if err != nil {
			return nil, err
		}
		senses = append(senses, s)
	}
	return senses, nil
}

// resolve walks hypernyms breadth-first. Each synset is visited once, so
// cycles and diamonds terminate with the shortest distance recorded.
func (t *Taxonomy) resolve(ctx context.Context, id string) (Sense, error) {
	ancestors := map[string]int{id: 0}
	frontier := []string{id}
	for depth := 1; len(frontier) > 0 && depth <= t.maxDepth; depth++ {
		var next []string
		for _, cur := range frontier {
			syn, err := t.store.Synset(ctx, cur)
			if errors.Is(err, ErrNotFound) {
				// Dangling reference: the chain simply ends here.
				continue
			}
			if err != nil {
				return Sense{}, err
			}
			for _, h := range syn.Hypernyms {
				if _, seen := ancestors[h]; seen {
					continue
				}
				ancestors[h] = depth
				next = append(next, h)
			}
		}
		frontier = next
	}
	return Sense{ID: id, Ancestors: ancestors}, nil
}

// PathSimilarity returns 1/(1+d) where d is the shortest path between the
// two senses through a common ancestor.
func (t *Taxonomy) PathSimilarity(a, b Sense) (float64, bool) {
	return PathSimilarity(a, b)
}

// PathSimilarity is the store-independent scoring used by [Taxonomy].
func PathSimilarity(a, b Sense) (float64, bool) {
	if a.ID == b.ID {
		return 1, true
	}
	small, large := a.Ancestors, b.Ancestors
	if len(small) > len(large) {
		small, large = large, small
	}
	best := -1
	for id, d1 := range small {
		d2, ok := large[id]
		if !ok {
			continue
		}
		if best < 0 || d1+d2 < best {
			best = d1 + d2
		}
	}
	if best < 0 {
		return 0, false
	}
	return 1 / float64(1+best), true
}

var _ Source = (*Taxonomy)(nil)
