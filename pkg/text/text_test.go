package text

import (
	"slices"
	"testing"
)

func TestTokens(t *testing.T) {
	f := NewFilter(DefaultOptions())

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"only whitespace", " \t\n ", nil},
		{"short words dropped", "el sol y la luna", []string{"luna"}},
		{"stopwords dropped", "hasta mediante durante casa", []string{"casa"}},
		{"stopword case-insensitive", "Hasta CASA", []string{"CASA"}},
		{"gerunds dropped", "cantando comiendo canción", []string{"canción"}},
		{"repetition preserved", "gato perro gato", []string{"gato", "perro", "gato"}},
		{"accented stopword", "según árbol", []string{"árbol"}},
		{"multiple whitespace", "gato\n\nperro\tcasa", []string{"gato", "perro", "casa"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, tok := range f.Tokens(tt.in) {
				got = append(got, tok.Text)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Tokens(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTokensKeyIsLowercase(t *testing.T) {
	f := NewFilter(DefaultOptions())
	toks := f.Tokens("Gato GATO gato")
	if len(toks) != 3 {
		t.Fatalf("len = %d, want 3", len(toks))
	}
	for _, tok := range toks {
		if tok.Key != "gato" {
			t.Errorf("Key = %q, want %q", tok.Key, "gato")
		}
	}
	if toks[0].Text != "Gato" {
		t.Errorf("Text = %q, want surface form %q", toks[0].Text, "Gato")
	}
}

func TestMinLengthCountsRunes(t *testing.T) {
	f := NewFilter(DefaultOptions())
	// "añño" is four runes but six bytes.
	if !f.Keep("añño") {
		t.Error("four-rune word should be kept")
	}
	// "vía" is three runes and also a stopword; "ñoñ" is three runes.
	if f.Keep("ñoñ") {
		t.Error("three-rune word should be dropped")
	}
}

func TestSuffixIsCaseSensitive(t *testing.T) {
	f := NewFilter(DefaultOptions())
	if f.Keep("cantando") {
		t.Error("lowercase gerund should be dropped")
	}
	if !f.Keep("CANTANDO") {
		t.Error("uppercase gerund is kept (suffix matches surface form)")
	}
}

func TestNormalizeComposesAccents(t *testing.T) {
	decomposed := "segu\u0301n" // u + combining acute
	if got := Normalize(decomposed); got != "según" {
		t.Errorf("Normalize(%q) = %q, want %q", decomposed, got, "según")
	}
	f := NewFilter(DefaultOptions())
	if f.Keep(decomposed) {
		t.Error("decomposed stopword should still be filtered")
	}
}

func TestCustomOptions(t *testing.T) {
	f := NewFilter(Options{MinLength: 2, StopWords: []string{"the"}, Suffixes: []string{"ing"}})
	got := Keys(f.Tokens("The cat is running to me"))
	want := []string{"cat", "is", "to", "me"}
	if !slices.Equal(got, want) {
		t.Errorf("Keys = %v, want %v", got, want)
	}
}
