// Package cache stores build results and asset metadata between runs.
//
// Three backends implement [Cache]: [FileCache] for the CLI, [RedisCache]
// for the HTTP server and [NullCache] when caching is disabled. Keys are
// derived by a [Keyer] so every entry point hashes options identically.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored data and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	// Clear removes all entries and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

// Default time-to-live per entry type.
const (
	TTLBundle = 7 * 24 * time.Hour
	TTLAsset  = 30 * 24 * time.Hour
)

// BundleKeyOpts holds the build settings that change the generated bundle.
type BundleKeyOpts struct {
	ExportMarked  bool   `json:"export_marked,omitempty"`
	PrototypeFlow bool   `json:"prototype_flow,omitempty"`
	CenterPivots  bool   `json:"center_pivots,omitempty"`
	KeepSourceIDs bool   `json:"keep_source_ids,omitempty"`
	Namespace     string `json:"namespace,omitempty"`
	FontsHash     string `json:"fonts_hash,omitempty"`
}

// AssetKeyOpts holds the settings that change a sized asset.
type AssetKeyOpts struct {
	MaxSize int `json:"max_size,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// BundleKey is the key of a bundle built from a document with the
	// given content hash.
	BundleKey(documentHash string, opts BundleKeyOpts) string
	// AssetKey is the key of the metadata of a bitmap with the given
	// content hash.
	AssetKey(imageHash string, opts AssetKeyOpts) string
}

// DefaultKeyer hashes options into fixed-prefix keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// BundleKey returns "bundle:<sha256>".
func (DefaultKeyer) BundleKey(documentHash string, opts BundleKeyOpts) string {
	return hashKey("bundle", documentHash, opts)
}

// AssetKey returns "asset:<sha256>".
func (DefaultKeyer) AssetKey(imageHash string, opts AssetKeyOpts) string {
	return hashKey("asset", imageHash, opts)
}
