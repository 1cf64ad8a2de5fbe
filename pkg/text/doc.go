// Package text turns a raw text block into the ordered sequence of
// significant tokens that become concept nodes.
//
// # Filtering
//
// Input is split on Unicode whitespace. A token survives when:
//
//   - it has at least [Options.MinLength] characters (runes, not bytes)
//   - its lowercased form is not a stopword
//   - it does not end with one of [Options.Suffixes] (gerund-like forms
//     such as "cantando" or "comiendo")
//
// Surviving tokens keep their original order and repetition. Each token
// carries both its surface text and a normalized key (NFC, lowercased)
// used for deduplication and self-similarity checks.
//
//	f := text.NewFilter(text.DefaultOptions())
//	for _, tok := range f.Tokens("El gato persigue al gato") {
//	    fmt.Println(tok.Text, tok.Key)
//	}
//
// A text that yields zero tokens is a normal, empty result.
package text
