package generate

import (
	"strings"

	"github.com/matzehuels/figtree/pkg/anchor"
	"github.com/matzehuels/figtree/pkg/autolayout"
	"github.com/matzehuels/figtree/pkg/component"
	"github.com/matzehuels/figtree/pkg/dag"
	"github.com/matzehuels/figtree/pkg/design"
	"github.com/matzehuels/figtree/pkg/errors"
	"github.com/matzehuels/figtree/pkg/scene"
)

// barrier checks that every placeholder belongs to a registered template
// and builds the template dependency graph.
func (b *builder) barrier() error {
	g := dag.New()
	for _, t := range b.reg.All() {
		kind := dag.NodeKindComponent
		if t.Kind == component.KindScreen {
			kind = dag.NodeKindScreen
		}
		if err := g.AddNode(dag.Node{ID: t.Key(), Label: t.Name, Kind: kind, Meta: dag.Metadata{"source": t.ID}}); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "graph node %s", t.Key())
		}
	}
	for _, m := range b.markers {
		if _, ok := b.reg.LookupKey(m.owner); !ok {
			return errors.New(errors.ErrCodeInternal, "placeholder %s belongs to unregistered template %s", m.node.Placeholder.InstanceID, m.owner)
		}
		def := component.Key(component.KindComponent, m.node.Placeholder.DefinitionID)
		if _, ok := g.Node(def); !ok {
			_ = g.AddNode(dag.Node{ID: def, Label: m.node.Name, Kind: dag.NodeKindMissing, Meta: dag.Metadata{"source": m.node.Placeholder.DefinitionID}})
		}
		if err := g.AddEdge(dag.Edge{From: m.owner, To: def}); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "graph edge %s -> %s", m.owner, def)
		}
	}
	if cycle := g.FindCycle(); cycle != nil {
		names := make([]string, len(cycle))
		for i, key := range cycle {
			n, _ := g.Node(key)
			names[i] = n.Label
		}
		return errors.New(errors.ErrCodeInvalidDocument, "cyclic component reference: %s", strings.Join(names, " -> "))
	}
	b.graph = g
	return nil
}

// instantiate resolves placeholders template by template: components in
// dependency order (leaves first), then screens.
func (b *builder) instantiate() error {
	order, err := b.graph.TopologicalOrder()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "order templates")
	}
	byOwner := make(map[string][]*marker)
	for _, m := range b.markers {
		byOwner[m.owner] = append(byOwner[m.owner], m)
	}
	var screens []*component.Template
	for _, key := range order {
		t, ok := b.reg.LookupKey(key)
		if !ok {
			continue
		}
		if t.Kind == component.KindScreen {
			screens = append(screens, t)
			continue
		}
		b.resolveAll(t, byOwner[key])
	}
	for _, t := range screens {
		b.resolveAll(t, byOwner[t.Key()])
	}
	return nil
}

func (b *builder) resolveAll(owner *component.Template, markers []*marker) {
	for _, m := range markers {
		b.resolve(owner, m)
	}
}

func (b *builder) resolve(owner *component.Template, m *marker) {
	ph := m.node.Placeholder
	clone, tpl, ok := b.reg.Instantiate(ph.DefinitionID)
	if !ok {
		b.warn("component definition not found, leaving orphan",
			"instance", ph.InstanceID, "component", ph.DefinitionID, "template", owner.Name)
		m.orphan = true
		return
	}
	clone.Rect = m.node.Rect
	clone.Name = m.node.Name
	clone.SourceID = m.node.SourceID
	// Siblings masked by the placeholder move onto the copy.
	clone.Children = append(clone.Children, m.node.Children...)

	if m.parent == nil {
		owner.Root = clone
	} else if i := m.parent.IndexOf(m.node); i >= 0 {
		m.parent.Replace(i, clone)
	} else {
		b.warn("placeholder detached from its parent", "instance", ph.InstanceID, "template", owner.Name)
		return
	}
	for _, other := range b.markers {
		if other.parent == m.node {
			other.parent = clone
		}
	}
	b.logger.Debug("instantiated", "instance", ph.InstanceID, "component", tpl.Name, "template", owner.Name)

	if m.design.Kind == design.KindInstance {
		b.reapply(m.design, clone, owner)
	}
}

// reapply applies the instance's design properties to the copied template,
// walking both trees in lockstep. Design children are matched to scene
// nodes by the trailing segment of their ids.
func (b *builder) reapply(n *design.Node, node *scene.Node, owner *component.Template) {
	if b.subs.Contains(n.ID) {
		if node.Image != nil && node.Image.Source == scene.ImageServerRender {
			node.Image.NodeID = n.ID
		}
		return
	}
	b.style.Apply(n, node)
	b.style.ApplyEffects(n, node)
	if b.opts.BuildPrototypeFlow && n.TransitionNodeID != "" && owner.Kind == component.KindScreen {
		b.flow.AddTransition(owner.ID, n.ID, n.TransitionNodeID)
	}
	if !n.Kind.IsContainer() {
		return
	}
	autolayout.Apply(n, node)
	var mask *design.Node
	for _, c := range n.Children {
		if !c.Kind.Emits() {
			continue
		}
		match := findLocal(node, design.LocalID(c.ID))
		if match == nil {
			b.warn("override target not found in component", "node", c.ID, "name", c.Name, "template", owner.Name)
			continue
		}
		if mask != nil {
			match.Rect = anchor.ResolveMasked(c, mask, b.opts.CenterPivots)
		} else {
			match.Rect = anchor.Resolve(c, n, b.opts.CenterPivots)
		}
		if c.IsMask {
			mask = c
		}
		// Orphans have no template content to override.
		if match.Placeholder != nil {
			continue
		}
		b.reapply(c, match, owner)
	}
	autolayout.FitContent(node)
}

// findLocal searches the descendants of n breadth-first for a node whose
// source id ends in the given local id.
func findLocal(n *scene.Node, local string) *scene.Node {
	queue := append([]*scene.Node(nil), n.Children...)
	for len(queue) > 0 {
		x := queue[0]
		queue = queue[1:]
		if x.SourceID != "" && design.LocalID(x.SourceID) == local {
			return x
		}
		queue = append(queue, x.Children...)
	}
	return nil
}
