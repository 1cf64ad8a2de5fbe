package text

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// DefaultMinLength is the shortest token kept by the filter.
const DefaultMinLength = 4

// DefaultStopWords is the fixed Spanish stopword list (prepositions,
// conjunctions, interrogatives and a few high-frequency verbs).
var DefaultStopWords = []string{
	"a", "ante", "bajo", "con", "contra", "de", "desde", "en", "entre", "hacia",
	"hasta", "para", "por", "según", "sin", "sobre", "tras", "durante", "mediante",
	"versus", "vía", "y", "o", "u", "pero", "aunque", "si", "porque", "como",
	"que", "qué", "quien", "cómo", "cuando", "donde", "cual", "cuál", "cuanto", "cuánto",
	"estas", "tiene", "siendo",
}

// DefaultSuffixes are the endings that mark gerund/continuous verb forms.
var DefaultSuffixes = []string{"ando", "iendo"}

// Options configures a Filter.
type Options struct {
	MinLength int      `toml:"min_length" json:"min_length"`
	StopWords []string `toml:"stopwords" json:"stopwords"`
	Suffixes  []string `toml:"suffixes" json:"suffixes"`
}

// DefaultOptions returns the filter configuration used by the CLI.
func DefaultOptions() Options {
	return Options{
		MinLength: DefaultMinLength,
		StopWords: append([]string(nil), DefaultStopWords...),
		Suffixes:  append([]string(nil), DefaultSuffixes...),
	}
}

// Token is one surviving occurrence of a word in the input.
type Token struct {
	Text string // Surface form (NFC-normalized, original case)
	Key  string // Lowercased form used for identity comparisons
}

// Filter applies the token retention rules. It is immutable after
// construction and safe for concurrent use.
type Filter struct {
	minLength int
	stop      map[string]struct{}
	suffixes  []string
}

// NewFilter builds a Filter from opts. Stopwords are normalized the same
// way tokens are, so "según" matches regardless of composition form.
func NewFilter(opts Options) *Filter {
	f := &Filter{
		minLength: opts.MinLength,
		stop:      make(map[string]struct{}, len(opts.StopWords)),
		suffixes:  make([]string, 0, len(opts.Suffixes)),
	}
	for _, w := range opts.StopWords {
		f.stop[Normalize(w)] = struct{}{}
	}
	for _, s := range opts.Suffixes {
		f.suffixes = append(f.suffixes, norm.NFC.String(s))
	}
	return f
}

// Tokens splits s on whitespace and returns the surviving tokens in order.
// Returns nil when nothing survives.
func (f *Filter) Tokens(s string) []Token {
	var out []Token
	for _, word := range Split(s) {
		if tok, ok := f.token(word); ok {
			out = append(out, tok)
		}
	}
	return out
}

// Keep reports whether a single word survives the filter.
func (f *Filter) Keep(word string) bool {
	_, ok := f.token(word)
	return ok
}

func (f *Filter) token(word string) (Token, bool) {
	surface := norm.NFC.String(word)
	if utf8.RuneCountInString(surface) < f.minLength {
		return Token{}, false
	}
	key := Normalize(surface)
	if _, stop := f.stop[key]; stop {
		return Token{}, false
	}
	// Suffixes match the surface form, so "CANTANDO" is kept.
	for _, suffix := range f.suffixes {
		if strings.HasSuffix(surface, suffix) {
			return Token{}, false
		}
	}
	return Token{Text: surface, Key: key}, true
}

// Split returns the maximal whitespace-delimited substrings of s.
func Split(s string) []string {
	return strings.Fields(s)
}

// Normalize returns the identity key of a word: NFC-composed and lowercased
// with Spanish casing rules.
func Normalize(word string) string {
	// cases.Caser is stateful; one per call keeps Filter goroutine-safe.
	return cases.Lower(language.Spanish).String(norm.NFC.String(word))
}

// Keys extracts the normalized keys of tokens, preserving order.
func Keys(tokens []Token) []string {
	keys := make([]string, len(tokens))
	for i, t := range tokens {
		keys[i] = t.Key
	}
	return keys
}
