// Package behavior binds runtime behaviors to generated templates.
//
// Behaviors are registered explicitly under a namespace and a key. The key
// is either a template's design node id or its name; ids take precedence.
// After a build, every template whose id or name has a registered behavior
// in the active namespace is bound: the binder runs on the template root
// and the behavior name is recorded on it.
//
//	reg := behavior.NewRegistry()
//	reg.Register("app", "Button", behavior.Named("PressEffect", nil))
//	bound, err := reg.Bind("app", tpl.ID, tpl.Name, tpl.Root)
package behavior

import (
	"fmt"
	"sort"
	"sync"

	"github.com/matzehuels/figtree/pkg/scene"
)

// Binder attaches a behavior to a template root.
type Binder interface {
	// Name is recorded in the root's behavior list.
	Name() string
	// Bind prepares root for the behavior.
	Bind(root *scene.Node) error
}

type named struct {
	name string
	fn   func(root *scene.Node) error
}

func (n named) Name() string { return n.name }

func (n named) Bind(root *scene.Node) error {
	if n.fn == nil {
		return nil
	}
	return n.fn(root)
}

// Named returns a Binder with the given name. fn may be nil.
func Named(name string, fn func(root *scene.Node) error) Binder {
	return named{name: name, fn: fn}
}

type key struct{ namespace, key string }

// Registry maps (namespace, key) pairs to binders. It is safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	binders map[key][]Binder
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{binders: make(map[key][]Binder)}
}

// Register adds a binder for a template id or name in a namespace.
// Several binders may share a key; they run in registration order.
func (r *Registry) Register(namespace, k string, b Binder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kk := key{namespace, k}
	r.binders[kk] = append(r.binders[kk], b)
}

// Lookup returns the binders for a template, trying its id first and its
// name second.
func (r *Registry) Lookup(namespace, id, name string) []Binder {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if b := r.binders[key{namespace, id}]; len(b) > 0 {
		return b
	}
	return r.binders[key{namespace, name}]
}

// Bind runs the binders registered for a template and records their names
// on root. It returns the number of binders applied.
func (r *Registry) Bind(namespace, id, name string, root *scene.Node) (int, error) {
	binders := r.Lookup(namespace, id, name)
	for _, b := range binders {
		if err := b.Bind(root); err != nil {
			return 0, fmt.Errorf("bind %s to %s: %w", b.Name(), name, err)
		}
		root.Behaviors = append(root.Behaviors, b.Name())
	}
	return len(binders), nil
}

// Keys returns the registered keys of a namespace, sorted.
func (r *Registry) Keys(namespace string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for k := range r.binders {
		if k.namespace == namespace {
			out = append(out, k.key)
		}
	}
	sort.Strings(out)
	return out
}
