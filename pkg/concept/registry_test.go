package concept

import (
	"testing"

	"github.com/matzehuels/conceptmap/pkg/text"
)

func tokens(s string) []text.Token {
	return text.NewFilter(text.DefaultOptions()).Tokens(s)
}

func TestDeduplicatingRegistry(t *testing.T) {
	g := Collect(NewDeduplicatingRegistry(), tokens("gato perro gato"))

	if g.NodeCount() != 2 {
		t.Fatalf("NodeCount = %d, want 2", g.NodeCount())
	}
	nodes := g.Nodes()
	if nodes[0].Text != "gato" || nodes[0].Count != 2 {
		t.Errorf("node 0 = %+v, want gato x2", nodes[0])
	}
	if nodes[1].Text != "perro" || nodes[1].Count != 1 {
		t.Errorf("node 1 = %+v, want perro x1", nodes[1])
	}
}

func TestDeduplicatingRegistryIgnoresCase(t *testing.T) {
	r := NewDeduplicatingRegistry()
	g := Collect(r, tokens("Gato GATO gato"))
	if g.NodeCount() != 1 {
		t.Fatalf("NodeCount = %d, want 1", g.NodeCount())
	}
	n, _ := g.Node(0)
	if n.Count != 3 || n.Text != "Gato" {
		t.Errorf("node = %+v, want first surface form with count 3", n)
	}
	if id, ok := r.Lookup("gato"); !ok || id != 0 {
		t.Errorf("Lookup = %d, %v", id, ok)
	}
}

func TestPerOccurrenceRegistry(t *testing.T) {
	g := Collect(NewPerOccurrenceRegistry(), tokens("gato perro gato"))

	if g.NodeCount() != 3 {
		t.Fatalf("NodeCount = %d, want 3", g.NodeCount())
	}
	for _, n := range g.Nodes() {
		if n.Count != 1 {
			t.Errorf("node %d count = %d, want 1", n.ID, n.Count)
		}
	}
	// Distinct instances with equal text may never be linked.
	if err := g.AddEdge(0, 2); err != ErrSelfLoop {
		t.Errorf("AddEdge(gato, gato) = %v, want %v", err, ErrSelfLoop)
	}
}

func TestEmptyTokens(t *testing.T) {
	for _, p := range []Policy{PolicyDeduplicate, PolicyPerOccurrence} {
		r, err := NewRegistry(p)
		if err != nil {
			t.Fatalf("NewRegistry(%q): %v", p, err)
		}
		g := Collect(r, tokens("y de la"))
		if !g.Empty() || g.EdgeCount() != 0 {
			t.Errorf("%s: graph not empty", p)
		}
		if r.Policy() != p {
			t.Errorf("Policy() = %q, want %q", r.Policy(), p)
		}
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"dedup", false},
		{"per-occurrence", false},
		{"", true},
		{"grid", true},
	}
	for _, tt := range tests {
		if _, err := ParsePolicy(tt.in); (err != nil) != tt.wantErr {
			t.Errorf("ParsePolicy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}
