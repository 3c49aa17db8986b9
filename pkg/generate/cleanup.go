package generate

import (
	"github.com/matzehuels/figtree/pkg/component"
	"github.com/matzehuels/figtree/pkg/errors"
	"github.com/matzehuels/figtree/pkg/scene"
)

// orphanColor fills orphan nodes so they stand out in the editor.
var orphanColor = scene.Color{R: 1, G: 0, B: 1, A: 1}

// cleanup turns unresolved placeholders into orphan nodes, strips source
// ids and verifies that no placeholder remains. Orphans are found by
// scanning every template, because templates copied into others carry
// their unresolved placeholders along.
func (b *builder) cleanup() error {
	missing := make(map[string]bool)
	for _, m := range b.markers {
		if m.orphan {
			missing[m.node.Placeholder.DefinitionID] = true
		}
	}
	for _, t := range b.reg.All() {
		scene.Walk(t.Root, func(n, _ *scene.Node) bool {
			if n.Placeholder != nil && missing[n.Placeholder.DefinitionID] {
				markOrphan(n)
				b.orphans = append(b.orphans, n)
			}
			if !b.opts.KeepSourceIDs {
				n.SourceID = ""
			}
			return true
		})
	}
	for _, t := range b.reg.All() {
		if leftover := scene.Find(t.Root, func(n *scene.Node) bool { return n.Placeholder != nil }); leftover != nil {
			return errors.New(errors.ErrCodeInternal, "placeholder %s survived cleanup in %s", leftover.Placeholder.InstanceID, t.Name)
		}
	}
	return nil
}

func markOrphan(n *scene.Node) {
	ph := n.Placeholder
	n.Orphan = &scene.Orphan{InstanceID: ph.InstanceID, DefinitionID: ph.DefinitionID}
	n.Placeholder = nil
	n.Name += " (missing component)"
	n.Shape = &scene.Shape{Kind: scene.ShapeRect, Fill: &scene.Fill{Type: scene.FillSolid, Color: orphanColor}}
}

// finish binds behaviors and hands every template to the persistence hook.
func (b *builder) finish() error {
	if b.opts.Behaviors != nil {
		for _, t := range b.reg.All() {
			n, err := b.opts.Behaviors.Bind(b.opts.BehaviorNamespace, t.ID, t.Name, t.Root)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "bind behaviors")
			}
			if n > 0 {
				b.logger.Debug("bound behaviors", "template", t.Name, "count", n)
				b.stats.Bound += n
			}
		}
	}
	ordered := append(b.reg.OfKind(component.KindScreen), b.reg.OfKind(component.KindComponent)...)
	for _, t := range ordered {
		t.Finalized = true
		if b.opts.Persist == nil {
			continue
		}
		if err := b.opts.Persist(t); err != nil {
			return errors.Wrap(errors.ErrCodeStorage, err, "persist %s %s", t.Kind, t.Name)
		}
	}
	return nil
}

func (b *builder) result() *Result {
	screens := b.reg.OfKind(component.KindScreen)
	components := b.reg.OfKind(component.KindComponent)
	warnings := b.warnings + b.style.Warnings()
	stats := b.stats
	stats.Screens = len(screens)
	stats.Components = len(components)
	stats.Orphans = len(b.orphans)
	stats.Warnings = warnings
	return &Result{
		Registry:   b.reg,
		Screens:    screens,
		Components: components,
		Orphans:    b.orphans,
		Graph:      b.graph,
		Flow:       b.flow,
		Warnings:   warnings,
		Stats:      stats,
	}
}
