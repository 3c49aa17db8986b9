package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/figtree/pkg/flow"
)

// AssetKind distinguishes screen assets from component assets.
type AssetKind string

const (
	AssetScreen    AssetKind = "screen"
	AssetComponent AssetKind = "component"
)

// Asset is a named, standalone scene tree.
type Asset struct {
	Name     string    `json:"name" bson:"name"`
	Kind     AssetKind `json:"kind" bson:"kind"`
	SourceID string    `json:"sourceId" bson:"source_id"`
	Root     *Node     `json:"root" bson:"root"`
}

// Bundle is the output of one build.
type Bundle struct {
	BuildID    string      `json:"buildId,omitempty" bson:"build_id,omitempty"`
	Document   string      `json:"document" bson:"document"`
	Screens    []Asset     `json:"screens" bson:"screens"`
	Components []Asset     `json:"components" bson:"components"`
	Flow       *flow.Graph `json:"flow,omitempty" bson:"flow,omitempty"`
	Warnings   int         `json:"warnings" bson:"warnings"`
}

// Asset returns the asset with the given name, searching screens first.
func (b *Bundle) Asset(name string) (Asset, bool) {
	for _, list := range [][]Asset{b.Screens, b.Components} {
		for _, a := range list {
			if a.Name == name {
				return a, true
			}
		}
	}
	return Asset{}, false
}

// NodeCount returns the number of scene nodes across all assets.
func (b *Bundle) NodeCount() int {
	n := 0
	for _, list := range [][]Asset{b.Screens, b.Components} {
		for _, a := range list {
			n += Count(a.Root)
		}
	}
	return n
}

// MarshalBundle encodes a bundle as indented JSON.
func MarshalBundle(b *Bundle) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteBundle(b, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteBundle writes a bundle as indented JSON.
func WriteBundle(b *Bundle, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteBundleFile writes a bundle to path with 0644 permissions.
func WriteBundleFile(b *Bundle, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteBundle(b, f)
}

// ReadBundle decodes a bundle from JSON.
func ReadBundle(r io.Reader) (*Bundle, error) {
	var b Bundle
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &b, nil
}

// ReadBundleFile reads a bundle from a JSON file.
func ReadBundleFile(path string) (*Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadBundle(f)
}
