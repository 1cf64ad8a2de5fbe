package cache

// ScopedKeyer wraps a Keyer with a prefix. Bumping the prefix when the
// cached encoding changes orphans old entries instead of misreading them.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "v1:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// SenseKey generates a prefixed sense key.
func (k *ScopedKeyer) SenseKey(lexicon, term string) string {
	return k.prefix + k.inner.SenseKey(lexicon, term)
}

// GraphKey generates a prefixed graph key.
func (k *ScopedKeyer) GraphKey(textHash string, opts GraphKeyOpts) string {
	return k.prefix + k.inner.GraphKey(textHash, opts)
}
