package design

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/matzehuels/figtree/pkg/errors"
)

// Validate rejects documents the generator cannot build: a missing root,
// invalid or duplicate node ids, nodes listing themselves as children,
// emitting nodes without geometry, out-of-range opacity, and instances
// nested inside the definition of the component they instantiate.
//
// Every problem is collected. The returned error has code
// errors.ErrCodeInvalidDocument and wraps an *errors.ValidationErrors.
func Validate(doc *Document) error {
	var problems errors.ValidationErrors
	if doc == nil || doc.Root == nil {
		problems.Add("document has no root node")
		return problems.Err(errors.ErrCodeInvalidDocument, "document validation failed")
	}
	if doc.Root.Kind != KindDocument {
		problems.Add("root node %s has type %s, want %s", doc.Root.ID, doc.Root.Kind, KindDocument)
	}

	seen := make(map[string]bool)
	var visit func(n *Node, ancestors []string)
	visit = func(n *Node, ancestors []string) {
		if err := errors.ValidateNodeID(n.ID); err != nil {
			problems.Add("node %q: %s", n.Name, errors.UserMessage(err))
		} else if seen[n.ID] {
			problems.Add("duplicate node id %s", n.ID)
		}
		seen[n.ID] = true

		if n.Kind.Emits() {
			if err := validateGeometry(n); err != nil {
				problems.Add("node %s: %v", n.ID, err)
			}
		}
		if n.Kind == KindInstance && n.ComponentID != "" {
			for _, a := range ancestors {
				if a == n.ComponentID {
					problems.Add("instance %s is nested inside its own component %s", n.ID, a)
					break
				}
			}
		}

		path := append(ancestors, n.ID)
		for _, c := range n.Children {
			if c == nil {
				problems.Add("node %s has a null child", n.ID)
				continue
			}
			if c.ID == n.ID {
				problems.Add("node %s lists itself as a child", n.ID)
				continue
			}
			visit(c, path[:len(path):len(path)])
		}
	}
	visit(doc.Root, nil)
	return problems.Err(errors.ErrCodeInvalidDocument, "document validation failed")
}

func validateGeometry(n *Node) error {
	return validation.ValidateStruct(n,
		validation.Field(&n.Size, validation.NotNil),
		validation.Field(&n.RelativeTransform, validation.NotNil),
		validation.Field(&n.Opacity, validation.Min(0.0), validation.Max(1.0)),
	)
}
