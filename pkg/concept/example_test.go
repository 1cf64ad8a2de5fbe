package concept_test

import (
	"fmt"

	"github.com/matzehuels/conceptmap/pkg/concept"
	"github.com/matzehuels/conceptmap/pkg/text"
)

func ExampleDeduplicatingRegistry() {
	f := text.NewFilter(text.DefaultOptions())
	g := concept.Collect(concept.NewDeduplicatingRegistry(), f.Tokens("gato perro gato"))

	for _, n := range g.Nodes() {
		fmt.Printf("%d %s (%d)\n", n.ID, n.Text, n.Count)
	}
	// Output:
	// 0 gato (2)
	// 1 perro (1)
}
