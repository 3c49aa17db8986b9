package cache

// ScopedKeyer wraps a Keyer with a prefix so several tenants, or several
// servers, can share one backend.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "team:design:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer selects
// the DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// BundleKey returns the prefixed bundle key.
func (k *ScopedKeyer) BundleKey(documentHash string, opts BundleKeyOpts) string {
	return k.prefix + k.inner.BundleKey(documentHash, opts)
}

// AssetKey returns the prefixed asset key.
func (k *ScopedKeyer) AssetKey(imageHash string, opts AssetKeyOpts) string {
	return k.prefix + k.inner.AssetKey(imageHash, opts)
}
