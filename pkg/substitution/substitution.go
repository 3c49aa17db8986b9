// Package substitution decides which design nodes are replaced by
// server-rendered bitmaps instead of being rebuilt as live scene nodes.
package substitution

import (
	"github.com/matzehuels/figtree/pkg/design"
)

// Reason explains why a node is substituted.
type Reason int

const (
	// ReasonExport marks nodes with explicit export settings.
	ReasonExport Reason = iota + 1
	// ReasonVector marks complex vector shapes.
	ReasonVector
	// ReasonVectorContainer marks frames and groups made only of vectors.
	ReasonVectorContainer
)

// String returns a short description of the reason.
func (r Reason) String() string {
	switch r {
	case ReasonExport:
		return "export"
	case ReasonVector:
		return "vector"
	case ReasonVectorContainer:
		return "vector-container"
	default:
		return "none"
	}
}

// Set maps substituted node ids to the reason. It is computed once per
// document and only read afterwards.
type Set map[string]Reason

// Contains reports whether the node is substituted.
func (s Set) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the substituted ids in document order of root.
func (s Set) IDs(root *design.Node) []string {
	var out []string
	design.Walk(root, func(n, _ *design.Node) bool {
		if s.Contains(n.ID) {
			out = append(out, n.ID)
			return false
		}
		return true
	})
	return out
}

// Options controls Compute.
type Options struct {
	// ExportMarked substitutes every node that carries export settings.
	ExportMarked bool
}

// Compute walks the document and returns the substitution set. Instances
// are never substituted automatically, and the walk does not descend into
// substituted nodes.
func Compute(doc *design.Document, opts Options) Set {
	set := make(Set)
	if doc == nil || doc.Root == nil {
		return set
	}
	design.Walk(doc.Root, func(n, _ *design.Node) bool {
		if !n.Kind.Emits() {
			return true
		}
		if r, ok := reason(n, opts); ok {
			set[n.ID] = r
			return false
		}
		return true
	})
	return set
}

func reason(n *design.Node, opts Options) (Reason, bool) {
	if opts.ExportMarked && len(n.ExportSettings) > 0 {
		return ReasonExport, true
	}
	if n.Kind == design.KindInstance {
		return 0, false
	}
	if n.Kind.IsVectorShape() {
		return ReasonVector, true
	}
	if (n.Kind == design.KindFrame || n.Kind == design.KindGroup) && onlyVectors(n) {
		return ReasonVectorContainer, true
	}
	return 0, false
}

// onlyVectors reports whether n has descendants and every one of them is a
// vector shape or a container of vector shapes.
func onlyVectors(n *design.Node) bool {
	if !n.HasChildren() {
		return false
	}
	for _, c := range n.Children {
		switch {
		case c.Kind.IsVectorShape():
		case (c.Kind == design.KindFrame || c.Kind == design.KindGroup) && onlyVectors(c):
		default:
			return false
		}
	}
	return true
}
