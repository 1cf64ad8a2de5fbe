package cache

import "fmt"

// Keyer generates cache keys.
type Keyer interface {
	// SenseKey addresses the resolved senses of one term in one lexicon.
	SenseKey(lexicon, term string) string
	// GraphKey addresses a laid-out, linked graph built from text.
	GraphKey(textHash string, opts GraphKeyOpts) string
}

// GraphKeyOpts lists every option that changes the built graph.
type GraphKeyOpts struct {
	Lexicon   string  `json:"lexicon"`
	Policy    string  `json:"policy"`
	Strategy  string  `json:"strategy"`
	Seed      uint64  `json:"seed"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Threshold float64 `json:"threshold"`
	Filter    string  `json:"filter"` // hash of the filter options

	Margin         int `json:"margin"`
	Padding        int `json:"padding"`
	MaxRadius      int `json:"max_radius"`
	ScatterPadding int `json:"scatter_padding"`
}

// DefaultKeyer is the standard key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard key scheme.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SenseKey returns "sense:<lexicon>:<term>".
func (DefaultKeyer) SenseKey(lexicon, term string) string {
	return fmt.Sprintf("sense:%s:%s", lexicon, term)
}

// GraphKey hashes the text hash together with all graph options.
func (DefaultKeyer) GraphKey(textHash string, opts GraphKeyOpts) string {
	return hashKey("graph", textHash, opts)
}

var _ Keyer = DefaultKeyer{}
