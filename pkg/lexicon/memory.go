package lexicon

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/conceptmap/pkg/text"
)

//go:embed data/es.toml
var defaultTaxonomy []byte

// File is the on-disk TOML layout of a lexicon.
type File struct {
	Synsets []Synset `toml:"synset"`
}

// MemoryStore keeps synsets in maps. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	synsets map[string]Synset
	byLemma map[string][]string
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		synsets: make(map[string]Synset),
		byLemma: make(map[string][]string),
	}
}

// Default returns a store loaded with the embedded Spanish taxonomy.
func Default() *MemoryStore {
	s, err := Decode(defaultTaxonomy)
	if err != nil {
		panic(fmt.Sprintf("lexicon: embedded taxonomy: %v", err))
	}
	return s
}

// DefaultData returns the raw embedded taxonomy in TOML form.
func DefaultData() []byte { return slices.Clone(defaultTaxonomy) }

// LoadFile reads a TOML lexicon from path.
func LoadFile(path string) (*MemoryStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Load reads a TOML lexicon from r.
func Load(r io.Reader) (*MemoryStore, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Decode parses TOML lexicon data into a new store.
func Decode(data []byte) (*MemoryStore, error) {
	f, err := DecodeFile(data)
	if err != nil {
		return nil, err
	}
	s := NewMemoryStore()
	for _, syn := range f.Synsets {
		if err := s.Add(syn); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// DecodeFile parses TOML lexicon data without building a store. Importers
// for other backends use it.
func DecodeFile(data []byte) (File, error) {
	var f File
	if _, err := toml.Decode(string(data), &f); err != nil {
		return File{}, fmt.Errorf("decode lexicon: %w", err)
	}
	return f, nil
}

// Add inserts a synset. Lemmas are normalized; duplicate IDs are rejected.
func (s *MemoryStore) Add(syn Synset) error {
	if err := syn.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.synsets[syn.ID]; dup {
		return fmt.Errorf("duplicate synset %s", syn.ID)
	}
	syn.Lemmas = slices.Clone(syn.Lemmas)
	for i, l := range syn.Lemmas {
		key := text.Normalize(l)
		syn.Lemmas[i] = key
		if !slices.Contains(s.byLemma[key], syn.ID) {
			s.byLemma[key] = append(s.byLemma[key], syn.ID)
		}
	}
	syn.Hypernyms = slices.Clone(syn.Hypernyms)
	s.synsets[syn.ID] = syn
	return nil
}

// SynsetsFor returns synset IDs in insertion order.
func (s *MemoryStore) SynsetsFor(_ context.Context, lemma string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.byLemma[lemma]), nil
}

// Synset returns the synset with the given ID.
func (s *MemoryStore) Synset(_ context.Context, id string) (Synset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	syn, ok := s.synsets[id]
	if !ok {
		return Synset{}, ErrNotFound
	}
	return syn, nil
}

// All returns every synset sorted by ID.
func (s *MemoryStore) All() []Synset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Synset, 0, len(s.synsets))
	for _, syn := range s.synsets {
		out = append(out, syn)
	}
	slices.SortFunc(out, func(a, b Synset) int { return strings.Compare(a.ID, b.ID) })
	return out
}

// Len returns the number of synsets.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.synsets)
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
