package design

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// ComponentMeta is an entry of the document's component side table.
type ComponentMeta struct {
	Key            string `json:"key"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	ComponentSetID string `json:"componentSetId,omitempty"`
	Remote         bool   `json:"remote,omitempty"`
}

// ComponentSetMeta is an entry of the document's component-set side table.
type ComponentSetMeta struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// StyleMeta is an entry of the document's shared style table.
type StyleMeta struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	StyleType string `json:"styleType"`
}

// Document is a decoded design file.
type Document struct {
	Name          string                      `json:"name"`
	Root          *Node                       `json:"document"`
	Components    map[string]ComponentMeta    `json:"components,omitempty"`
	ComponentSets map[string]ComponentSetMeta `json:"componentSets,omitempty"`
	Styles        map[string]StyleMeta        `json:"styles,omitempty"`
	SchemaVersion int                         `json:"schemaVersion"`
	Version       string                      `json:"version,omitempty"`
	LastModified  string                      `json:"lastModified,omitempty"`
}

// Canvases returns the canvas nodes directly below the document root.
func (d *Document) Canvases() []*Node {
	if d == nil || d.Root == nil {
		return nil
	}
	var out []*Node
	for _, c := range d.Root.Children {
		if c.Kind == KindCanvas {
			out = append(out, c)
		}
	}
	return out
}

// ComponentName returns the side-table name of a component definition, or
// the empty string if the id is not listed.
func (d *Document) ComponentName(id string) string {
	if d == nil {
		return ""
	}
	return d.Components[id].Name
}

// UnmarshalDocument decodes a document from JSON bytes.
func UnmarshalDocument(data []byte) (*Document, error) {
	return readDocumentFrom(bytes.NewReader(data))
}

// ReadDocumentFile reads and decodes a document from a JSON file.
// The result is not validated; call Validate before building.
func ReadDocumentFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readDocumentFrom(f)
}

// ReadDocument decodes a document from an io.Reader.
func ReadDocument(r io.Reader) (*Document, error) {
	return readDocumentFrom(r)
}

// WriteDocument encodes a document as indented JSON.
func WriteDocument(doc *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readDocumentFrom(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	normalize(doc.Root)
	return &doc, nil
}

// normalize turns empty child lists into nil so "absent" and "empty" are
// the same thing for every consumer.
func normalize(n *Node) {
	if n == nil {
		return
	}
	if len(n.Children) == 0 {
		n.Children = nil
		return
	}
	for _, c := range n.Children {
		normalize(c)
	}
}
