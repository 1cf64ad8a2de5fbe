package similarity

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/matzehuels/conceptmap/pkg/cache"
	cerrors "github.com/matzehuels/conceptmap/pkg/errors"
	"github.com/matzehuels/conceptmap/pkg/lexicon"
)

// countingSource wraps a Taxonomy and counts Senses calls per term.
type countingSource struct {
	*lexicon.Taxonomy
	mu    sync.Mutex
	calls map[string]int
	total atomic.Int64
	err   error
}

func newSource(t *testing.T) *countingSource {
	t.Helper()
	store, err := lexicon.Decode([]byte(`
[[synset]]
id = "animal"
lemmas = ["animal"]

[[synset]]
id = "perro"
lemmas = ["perro", "chucho"]
hypernyms = ["animal"]

[[synset]]
id = "gato"
lemmas = ["gato"]
hypernyms = ["animal"]

[[synset]]
id = "roca"
lemmas = ["roca", "perro"]
`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return &countingSource{Taxonomy: lexicon.NewTaxonomy(store), calls: map[string]int{}}
}

func (s *countingSource) Senses(ctx context.Context, term string) ([]lexicon.Sense, error) {
	s.total.Add(1)
	s.mu.Lock()
	s.calls[term]++
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.Taxonomy.Senses(ctx, term)
}

func TestSimilarity(t *testing.T) {
	ctx := context.Background()
	a := NewAdapter(newSource(t), Options{})

	tests := []struct {
		x, y string
		want Score
	}{
		{"perro", "chucho", Score{Value: 1, Known: true}},
		{"gato", "animal", Score{Value: 0.5, Known: true}},
		{"Gato", "CHUCHO", Score{Value: 1.0 / 3, Known: true}},
		{"roca", "gato", Score{Value: 0, Known: true}},
		{"perro", "gato", Score{Value: 1.0 / 3, Known: true}},
		{"perro", "zzzz", Unknown},
		{"zzzz", "perro", Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.x+"/"+tt.y, func(t *testing.T) {
			got, err := a.Similarity(ctx, tt.x, tt.y)
			if err != nil {
				t.Fatalf("Similarity: %v", err)
			}
			if got != tt.want {
				t.Errorf("Similarity(%q, %q) = %+v, want %+v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestSimilarityMemoizesSenses(t *testing.T) {
	ctx := context.Background()
	src := newSource(t)
	a := NewAdapter(src, Options{})

	terms := []string{"perro", "gato", "animal", "Perro"}
	for i := range terms {
		for j := i + 1; j < len(terms); j++ {
			if _, err := a.Similarity(ctx, terms[i], terms[j]); err != nil {
				t.Fatal(err)
			}
		}
	}
	for term, n := range src.calls {
		if n != 1 {
			t.Errorf("term %q looked up %d times, want 1", term, n)
		}
	}
	if got := a.Stats().Lookups; got != 3 {
		t.Errorf("Lookups = %d, want 3", got)
	}
}

func TestSimilarityConcurrent(t *testing.T) {
	ctx := context.Background()
	src := newSource(t)
	a := NewAdapter(src, Options{})

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = a.Similarity(ctx, "perro", "gato")
		}()
	}
	wg.Wait()
	if got := src.total.Load(); got != 2 {
		t.Errorf("lexicon calls = %d, want 2", got)
	}
}

func TestSimilarityUsesCache(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryCache()

	first := NewAdapter(newSource(t), Options{Cache: c, Lexicon: "test"})
	if _, err := first.Similarity(ctx, "perro", "gato"); err != nil {
		t.Fatal(err)
	}

	src := newSource(t)
	second := NewAdapter(src, Options{Cache: c, Lexicon: "test"})
	got, err := second.Similarity(ctx, "perro", "gato")
	if err != nil {
		t.Fatal(err)
	}
	if got.Value != 1.0/3 {
		t.Errorf("cached score = %v, want 1/3", got.Value)
	}
	if src.total.Load() != 0 {
		t.Errorf("lexicon calls = %d, want 0 with warm cache", src.total.Load())
	}
	if second.Stats().CacheHits != 2 {
		t.Errorf("CacheHits = %d, want 2", second.Stats().CacheHits)
	}
}

func TestSimilarityMalformedTermIsUnknown(t *testing.T) {
	src := newSource(t)
	a := NewAdapter(src, Options{})
	long := "https://example.com/" + strings.Repeat("a", cerrors.MaxTermRunes)
	for _, term := range []string{"", "dos palabras", "tab\tbed", long} {
		score, err := a.Similarity(context.Background(), "perro", term)
		if err != nil {
			t.Errorf("Similarity(%q) error = %v, want nil", term, err)
		}
		if score.Known {
			t.Errorf("Similarity(%q) = %+v, want Unknown", term, score)
		}
	}
}

func TestSimilarityBackendFailure(t *testing.T) {
	src := newSource(t)
	src.err = lexicon.Unavailable("test", errors.New("connection refused"))
	a := NewAdapter(src, Options{})

	_, err := a.Similarity(context.Background(), "perro", "gato")
	if !cerrors.Is(err, cerrors.ErrCodeOracleFailure) {
		t.Fatalf("error = %v, want ORACLE_FAILURE", err)
	}
	if !cerrors.IsFatal(err) {
		t.Error("backend failure should be fatal")
	}
	// Failures are not memoized.
	src.err = nil
	if _, err := a.Similarity(context.Background(), "perro", "gato"); err != nil {
		t.Errorf("retry after recovery: %v", err)
	}
}

func TestFunc(t *testing.T) {
	var o Oracle = Func(func(_ context.Context, a, b string) (Score, error) {
		return Score{Value: 0.7, Known: a != b}, nil
	})
	got, _ := o.Similarity(context.Background(), "x", "y")
	if got != (Score{Value: 0.7, Known: true}) {
		t.Errorf("Func = %+v", got)
	}
}
