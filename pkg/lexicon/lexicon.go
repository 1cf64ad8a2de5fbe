package lexicon

import (
	"context"
	"errors"
	"fmt"

	cerrors "github.com/matzehuels/conceptmap/pkg/errors"
)

// ErrNotFound is returned by [Store.Synset] when no synset has the given ID.
var ErrNotFound = errors.New("synset not found")

// Synset is a group of synonymous lemmas sharing one meaning.
type Synset struct {
	ID        string   `toml:"id" json:"id" bson:"_id"`
	Lemmas    []string `toml:"lemmas" json:"lemmas" bson:"lemmas"`
	Hypernyms []string `toml:"hypernyms,omitempty" json:"hypernyms,omitempty" bson:"hypernyms,omitempty"`
	Gloss     string   `toml:"gloss,omitempty" json:"gloss,omitempty" bson:"gloss,omitempty"`
}

// Sense is one meaning of a term, resolved against the hypernym hierarchy.
// Ancestors maps every reachable synset ID, including the sense's own, to
// its minimum hypernym distance.
type Sense struct {
	ID        string         `json:"id"`
	Ancestors map[string]int `json:"ancestors"`
}

// Store is a backend holding synsets.
type Store interface {
	// SynsetsFor returns the IDs of synsets containing lemma, which is
	// already normalized. An unknown lemma yields an empty result.
	SynsetsFor(ctx context.Context, lemma string) ([]string, error)
	// Synset returns one synset or ErrNotFound.
	Synset(ctx context.Context, id string) (Synset, error)
	// Close releases backend resources.
	Close() error
}

// Source is the interface consumed by the similarity oracle.
type Source interface {
	// Senses returns every sense of term. An unknown term yields no senses
	// and no error.
	Senses(ctx context.Context, term string) ([]Sense, error)
	// PathSimilarity scores two senses in [0,1]. ok is false when the
	// senses share no ancestor.
	PathSimilarity(a, b Sense) (score float64, ok bool)
}

// Probe performs one lookup so that an unreachable backend is reported
// before any text is processed.
func Probe(ctx context.Context, src Source) error {
	if _, err := src.Senses(ctx, "probe"); err != nil {
		return cerrors.Wrap(cerrors.ErrCodeLexiconUnavailable, err, "lexicon probe failed")
	}
	return nil
}

// Unavailable wraps a backend failure with the lexicon error code. Backends
// use it so callers can tell a broken store from an unknown term.
func Unavailable(backend string, err error) error {
	if err == nil {
		return nil
	}
	return cerrors.Wrap(cerrors.ErrCodeLexiconUnavailable, err, "%s lexicon", backend)
}

// Validate checks that a synset can be stored.
func (s Synset) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("synset has no id")
	}
	if len(s.Lemmas) == 0 {
		return fmt.Errorf("synset %s has no lemmas", s.ID)
	}
	for _, h := range s.Hypernyms {
		if h == s.ID {
			return fmt.Errorf("synset %s is its own hypernym", s.ID)
		}
	}
	return nil
}
