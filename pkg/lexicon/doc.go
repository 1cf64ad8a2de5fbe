// Package lexicon is the lexical knowledge source consulted by the
// similarity oracle.
//
// # Model
//
// Meanings are stored as synsets: a set of synonymous lemmas plus links to
// more general synsets (hypernyms). A [Store] answers two questions, which
// synsets contain a lemma and what a synset looks like, and is implemented
// by [MemoryStore] here and by the sqlite and mongo subpackages.
//
// # Senses and path similarity
//
// [Taxonomy] turns store lookups into [Sense] values. A Sense carries the
// hypernym distance from its synset to every ancestor, which makes
// [Taxonomy.PathSimilarity] a map intersection:
//
//	sim(a, b) = 1 / (1 + min over common ancestors c of (dist(a,c) + dist(b,c)))
//
// Two senses of the same synset score 1. Synonyms share a synset, a parent
// and child score 0.5, siblings 1/3. Senses without a common ancestor have
// no path; PathSimilarity reports ok=false and callers treat that as 0.
//
// # Default data
//
// [Default] loads a small embedded Spanish taxonomy so the binary works
// without any external database. Larger data sets are imported from TOML
// files with [LoadFile]:
//
//	[[synset]]
//	id        = "perro.n.01"
//	lemmas    = ["perro", "can"]
//	hypernyms = ["canino.n.01"]
//	gloss     = "mamífero doméstico de la familia de los cánidos"
package lexicon
