package linker

import (
	"context"
	"errors"
	"testing"

	"github.com/matzehuels/conceptmap/pkg/concept"
	cerrors "github.com/matzehuels/conceptmap/pkg/errors"
	"github.com/matzehuels/conceptmap/pkg/similarity"
)

func constant(v float64) similarity.Oracle {
	return similarity.Func(func(context.Context, string, string) (similarity.Score, error) {
		return similarity.Score{Value: v, Known: true}, nil
	})
}

func graphOf(words ...string) *concept.Graph {
	g := concept.New()
	for _, w := range words {
		g.AddNode(w, w)
	}
	return g
}

func TestLinkThresholdIsStrict(t *testing.T) {
	tests := []struct {
		score float64
		edges int
	}{
		{0.5, 0},
		{0.5000001, 1},
		{0.49, 0},
		{1, 1},
	}
	for _, tt := range tests {
		g := graphOf("gato", "perro")
		stats, err := Link(context.Background(), g, constant(tt.score), DefaultOptions())
		if err != nil {
			t.Fatalf("Link: %v", err)
		}
		if g.EdgeCount() != tt.edges || stats.Edges != tt.edges {
			t.Errorf("score %v: edges = %d (stats %d), want %d", tt.score, g.EdgeCount(), stats.Edges, tt.edges)
		}
	}
}

func TestLinkVisitsEachPairOnce(t *testing.T) {
	seen := map[[2]string]int{}
	oracle := similarity.Func(func(_ context.Context, a, b string) (similarity.Score, error) {
		seen[[2]string{a, b}]++
		return similarity.Score{Value: 0.9, Known: true}, nil
	})
	g := graphOf("uno1", "dos2", "tres", "cuatro")

	stats, err := Link(context.Background(), g, oracle, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Pairs != 6 || stats.Queries != 6 || len(seen) != 6 {
		t.Errorf("pairs %d queries %d distinct %d, want 6", stats.Pairs, stats.Queries, len(seen))
	}
	for pair, n := range seen {
		if n != 1 {
			t.Errorf("pair %v queried %d times", pair, n)
		}
		if seen[[2]string{pair[1], pair[0]}] != 0 {
			t.Errorf("pair %v queried in both orders", pair)
		}
	}
	// Complete graph: every node connects to every other, symmetrically.
	for _, n := range g.Nodes() {
		if g.Degree(n.ID) != 3 {
			t.Errorf("node %s degree = %d, want 3", n.Text, g.Degree(n.ID))
		}
		for _, m := range g.Neighbors(n.ID) {
			if !g.Connected(m, n.ID) {
				t.Errorf("edge %d-%d not symmetric", n.ID, m)
			}
		}
	}
}

func TestLinkSkipsIdenticalText(t *testing.T) {
	g := concept.New()
	g.AddNode("gato", "gato")
	g.AddNode("perro", "perro")
	g.AddNode("Gato", "gato")

	queried := 0
	oracle := similarity.Func(func(context.Context, string, string) (similarity.Score, error) {
		queried++
		return similarity.Score{Value: 1, Known: true}, nil
	})
	stats, err := Link(context.Background(), g, oracle, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Skipped != 1 || queried != 2 {
		t.Errorf("skipped %d queried %d, want 1 and 2", stats.Skipped, queried)
	}
	if g.Connected(0, 2) {
		t.Error("nodes with identical text must not be linked")
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount = %d, want 2", g.EdgeCount())
	}
}

func TestLinkUnknownIsNoEdge(t *testing.T) {
	g := graphOf("gato", "xyzw")
	oracle := similarity.Func(func(context.Context, string, string) (similarity.Score, error) {
		return similarity.Unknown, nil
	})
	stats, err := Link(context.Background(), g, oracle, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Unknown != 1 || g.EdgeCount() != 0 {
		t.Errorf("unknown %d edges %d, want 1 and 0", stats.Unknown, g.EdgeCount())
	}
}

func TestLinkPropagatesFailure(t *testing.T) {
	boom := cerrors.New(cerrors.ErrCodeOracleFailure, "lexicon down")
	calls := 0
	oracle := similarity.Func(func(context.Context, string, string) (similarity.Score, error) {
		calls++
		return similarity.Score{}, boom
	})
	g := graphOf("gato", "perro", "casa")

	_, err := Link(context.Background(), g, oracle, DefaultOptions())
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if !cerrors.IsFatal(err) {
		t.Error("oracle failure should be fatal")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want linking to stop at the first failure", calls)
	}
}

func TestLinkEmptyGraph(t *testing.T) {
	stats, err := Link(context.Background(), concept.New(), constant(1), DefaultOptions())
	if err != nil || stats != (Stats{}) {
		t.Errorf("Link(empty) = %+v, %v", stats, err)
	}
}

func TestLinkCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Link(ctx, graphOf("gato", "perro"), constant(1), DefaultOptions()); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestOptionsValidate(t *testing.T) {
	for _, th := range []float64{-0.1, 1.5} {
		if err := (Options{Threshold: th}).Validate(); !cerrors.Is(err, cerrors.ErrCodeInvalidConfig) {
			t.Errorf("Validate(%v) = %v, want INVALID_CONFIG", th, err)
		}
	}
	if err := DefaultOptions().Validate(); err != nil {
		t.Errorf("DefaultOptions().Validate() = %v", err)
	}
}
