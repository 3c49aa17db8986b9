// Package component holds the template arena used to deduplicate reusable
// sub-trees.
//
// Every component definition and every screen is built once into a
// [Template]. Templates are stored in registration order and addressed by
// arena index; a definition id maps to at most one template. Placeholders
// in scene trees refer to templates by definition id, and [Registry.Instantiate]
// deep-copies a template root for each of them.
package component

import (
	"fmt"
	"strconv"

	"github.com/matzehuels/figtree/pkg/design"
	"github.com/matzehuels/figtree/pkg/scene"
)

// Kind distinguishes screen templates from component templates.
type Kind int

const (
	KindComponent Kind = iota
	KindScreen
)

// String returns "component" or "screen".
func (k Kind) String() string {
	if k == KindScreen {
		return "screen"
	}
	return "component"
}

// AssetKind maps the template kind to the bundle asset kind.
func (k Kind) AssetKind() scene.AssetKind {
	if k == KindScreen {
		return scene.AssetScreen
	}
	return scene.AssetComponent
}

// Template is a registered reusable scene tree.
type Template struct {
	Index     int
	ID        string // origin design node id
	Name      string // unique within its kind
	Kind      Kind
	Design    *design.Node
	Root      *scene.Node
	Finalized bool
}

// Key identifies the template across kinds. A top-level component is both
// a screen and a component, so ids alone are not unique.
func (t *Template) Key() string { return Key(t.Kind, t.ID) }

// Key builds a template key from a kind and a design node id.
func Key(kind Kind, id string) string { return kind.String() + ":" + id }

// Asset returns the template as a bundle asset.
func (t *Template) Asset() scene.Asset {
	return scene.Asset{Name: t.Name, Kind: t.Kind.AssetKind(), SourceID: t.ID, Root: t.Root}
}

// Registry is the template arena. The zero value is not usable; use
// NewRegistry. Registry is not safe for concurrent use.
type Registry struct {
	templates []*Template
	byKey     map[string]int
	names     map[Kind]*nameSet
}

// nameSet tracks used names and the last collision suffix per base name.
type nameSet struct {
	taken map[string]bool
	next  map[string]int
}

func newNameSet() *nameSet {
	return &nameSet{taken: make(map[string]bool), next: make(map[string]int)}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byKey: make(map[string]int),
		names: map[Kind]*nameSet{KindComponent: newNameSet(), KindScreen: newNameSet()},
	}
}

// Register adds a template for the design node. The name is derived from
// name and made unique within the kind: the first use keeps the name, later
// ones get "_1", "_2", ... suffixes. Registering the same kind and id twice
// is an error.
func (r *Registry) Register(kind Kind, name string, node *design.Node, root *scene.Node) (*Template, error) {
	key := Key(kind, node.ID)
	if _, ok := r.byKey[key]; ok {
		return nil, fmt.Errorf("%s template for %s already registered", kind, node.ID)
	}
	t := &Template{
		Index:  len(r.templates),
		ID:     node.ID,
		Name:   r.uniqueName(kind, name),
		Kind:   kind,
		Design: node,
		Root:   root,
	}
	r.templates = append(r.templates, t)
	r.byKey[key] = t.Index
	return t, nil
}

func (r *Registry) uniqueName(kind Kind, name string) string {
	if name == "" {
		name = kind.String()
	}
	ns := r.names[kind]
	if !ns.taken[name] {
		ns.taken[name] = true
		return name
	}
	for i := ns.next[name] + 1; ; i++ {
		candidate := name + "_" + strconv.Itoa(i)
		if !ns.taken[candidate] {
			ns.taken[candidate] = true
			ns.next[name] = i
			return candidate
		}
	}
}

// Lookup returns the component template registered for a definition id.
func (r *Registry) Lookup(id string) (*Template, bool) {
	return r.LookupKey(Key(KindComponent, id))
}

// LookupKey returns the template with the given key.
func (r *Registry) LookupKey(key string) (*Template, bool) {
	i, ok := r.byKey[key]
	if !ok {
		return nil, false
	}
	return r.templates[i], true
}

// At returns the template at an arena index.
func (r *Registry) At(i int) *Template { return r.templates[i] }

// Len returns the number of templates.
func (r *Registry) Len() int { return len(r.templates) }

// All returns every template in arena order.
func (r *Registry) All() []*Template { return r.templates }

// OfKind returns the templates of one kind in arena order.
func (r *Registry) OfKind(kind Kind) []*Template {
	var out []*Template
	for _, t := range r.templates {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	return out
}

// Instantiate returns a deep copy of the template root for id.
func (r *Registry) Instantiate(id string) (*scene.Node, *Template, bool) {
	t, ok := r.Lookup(id)
	if !ok || t.Root == nil {
		return nil, nil, false
	}
	clone := t.Root.Clone()
	clone.InstanceOf = t.Name
	return clone, t, true
}
