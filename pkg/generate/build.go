package generate

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/figtree/pkg/anchor"
	"github.com/matzehuels/figtree/pkg/autolayout"
	"github.com/matzehuels/figtree/pkg/component"
	"github.com/matzehuels/figtree/pkg/dag"
	"github.com/matzehuels/figtree/pkg/design"
	"github.com/matzehuels/figtree/pkg/errors"
	"github.com/matzehuels/figtree/pkg/flow"
	"github.com/matzehuels/figtree/pkg/scene"
	"github.com/matzehuels/figtree/pkg/style"
	"github.com/matzehuels/figtree/pkg/substitution"
)

// marker is a placeholder awaiting instancing.
type marker struct {
	node   *scene.Node  // placeholder scene node
	parent *scene.Node  // scene parent, nil for a template root
	design *design.Node // instance node, or the definition itself
	owner  string       // key of the template containing the placeholder
	orphan bool
}

type builder struct {
	opts   Options
	logger *log.Logger
	phase  Phase

	subs     substitution.Set
	reg      *component.Registry
	style    *style.Applier
	flow     *flow.Graph
	graph    *dag.DAG
	markers  []*marker
	orphans  []*scene.Node
	warnings int
	stats    Stats
}

// walkCtx is the position of the walk inside the template being built.
type walkCtx struct {
	owner  string // key of the enclosing template
	screen string // id of the enclosing screen, empty inside components
}

// Build generates screen and component templates for doc. The document must
// have passed design.Validate; structural problems found here (cyclic
// component references) are reported with errors.ErrCodeInvalidDocument.
func Build(doc *design.Document, opts Options) (*Result, error) {
	if doc == nil || doc.Root == nil {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "document has no root node")
	}
	b := newBuilder(opts)
	steps := []struct {
		phase Phase
		run   func() error
	}{
		{PhaseWalking, func() error { return b.walkDocument(doc) }},
		{PhaseAwaitingInstancing, b.barrier},
		{PhaseInstancing, b.instantiate},
		{PhaseCleaningUp, b.cleanup},
	}
	for i, s := range steps {
		if i > 0 {
			if err := b.advance(s.phase); err != nil {
				return nil, err
			}
		}
		if err := s.run(); err != nil {
			return nil, err
		}
	}
	if err := b.advance(PhaseDone); err != nil {
		return nil, err
	}
	if err := b.finish(); err != nil {
		return nil, err
	}
	return b.result(), nil
}

func newBuilder(opts Options) *builder {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	subs := opts.Substitutions
	if subs == nil {
		subs = substitution.Set{}
	}
	styleOpts := []style.Option{
		style.WithTransitions(opts.BuildPrototypeFlow),
		style.WithLogger(logger),
	}
	if opts.Fonts != nil {
		styleOpts = append(styleOpts, style.WithFonts(opts.Fonts))
	}
	return &builder{
		opts:   opts,
		logger: logger,
		phase:  PhaseWalking,
		subs:   subs,
		reg:    component.NewRegistry(),
		style:  style.New(styleOpts...),
		flow:   &flow.Graph{},
	}
}

func (b *builder) warn(msg string, keyvals ...any) {
	b.warnings++
	b.logger.Warn(msg, keyvals...)
}

// =============================================================================
// Walking
// =============================================================================

func (b *builder) walkDocument(doc *design.Document) error {
	for _, canvas := range doc.Canvases() {
		b.logger.Debug("canvas", "node", canvas.ID, "name", canvas.Name)
		for _, n := range canvas.Children {
			if err := b.walkTop(n, ""); err != nil {
				return err
			}
		}
		for _, sp := range canvas.FlowStartingPoints {
			b.flow.AddStartingPoint(sp.NodeID, sp.Name)
		}
	}
	return nil
}

func (b *builder) report(e flow.Entry) {
	b.flow.Record(e)
	if b.opts.OnScreen != nil {
		b.opts.OnScreen(e)
	}
}

// walkTop handles nodes directly below a canvas or a section.
func (b *builder) walkTop(n *design.Node, section string) error {
	switch {
	case n.Kind == design.KindSection:
		b.report(flow.Entry{Kind: flow.EntrySection, ID: n.ID, Name: n.Name, SectionID: section})
		for _, c := range n.Children {
			if err := b.walkTop(c, n.ID); err != nil {
				return err
			}
		}
		return nil
	case n.Kind.IsFrameLike():
		b.report(flow.Entry{Kind: flow.EntryScreen, ID: n.ID, Name: n.Name, SectionID: section})
		ctx := walkCtx{owner: component.Key(component.KindScreen, n.ID), screen: n.ID}
		root, err := b.walk(n, nil, nil, ctx)
		if err != nil {
			return err
		}
		if _, err := b.reg.Register(component.KindScreen, n.Name, n, root); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDocument, err, "register screen %s", n.ID)
		}
		return nil
	default:
		b.logger.Debug("skipping top-level node", "node", n.ID, "type", n.Kind)
		return nil
	}
}

// walk builds the scene node for n. parent is the design parent used for
// anchoring; sceneParent is the scene node the result will be attached to.
func (b *builder) walk(n, parent *design.Node, sceneParent *scene.Node, ctx walkCtx) (*scene.Node, error) {
	b.stats.Nodes++
	node := scene.NewNode(n.Name)
	node.SourceID = n.ID
	node.Rect = anchor.Resolve(n, parent, b.opts.CenterPivots)

	if b.subs.Contains(n.ID) {
		node.Active = n.IsVisible()
		node.Image = &scene.Image{Source: scene.ImageServerRender, NodeID: n.ID}
		if n.Kind == design.KindComponent {
			return b.define(n, parent, sceneParent, node, ctx)
		}
		return node, nil
	}

	if n.Kind == design.KindInstance && n.ComponentID != "" {
		b.stats.Instances++
		node.Placeholder = &scene.Placeholder{InstanceID: n.ID, ParentID: idOf(parent), DefinitionID: n.ComponentID}
		b.markers = append(b.markers, &marker{node: node, parent: sceneParent, design: n, owner: ctx.owner})
		return node, nil
	}

	inner := ctx
	if n.Kind == design.KindComponent {
		inner = walkCtx{owner: component.Key(component.KindComponent, n.ID)}
	}

	b.style.Apply(n, node)
	b.style.ApplyEffects(n, node)
	if b.opts.BuildPrototypeFlow && n.TransitionNodeID != "" && inner.screen != "" {
		b.flow.AddTransition(inner.screen, n.ID, n.TransitionNodeID)
	}

	if n.Kind.IsContainer() {
		if err := b.walkChildren(n, node, inner); err != nil {
			return nil, err
		}
	}

	if n.Kind == design.KindComponent {
		return b.define(n, parent, sceneParent, node, ctx)
	}
	return node, nil
}

// walkChildren attaches the children of n below node. A mask child takes
// all its following siblings as children, in order, positioned relative to
// the mask.
func (b *builder) walkChildren(n *design.Node, node *scene.Node, ctx walkCtx) error {
	host := autolayout.Apply(n, node)
	target := host
	var mask *design.Node
	for _, c := range n.Children {
		if !c.Kind.Emits() {
			continue
		}
		child, err := b.walk(c, n, target, ctx)
		if err != nil {
			return err
		}
		if mask != nil {
			child.Rect = anchor.ResolveMasked(c, mask, b.opts.CenterPivots)
		}
		target.Append(child)
		if c.IsMask {
			target, mask = child, c
		}
	}
	autolayout.FitContent(node)
	return nil
}

// define registers a component template built from n and returns the
// placeholder left at the definition's location.
func (b *builder) define(n, parent *design.Node, sceneParent, root *scene.Node, ctx walkCtx) (*scene.Node, error) {
	if _, err := b.reg.Register(component.KindComponent, n.Name, n, root); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "register component %s", n.ID)
	}
	b.logger.Debug("component", "node", n.ID, "name", n.Name)
	placeholder := scene.NewNode(n.Name)
	placeholder.SourceID = n.ID
	placeholder.Rect = root.Rect
	placeholder.Placeholder = &scene.Placeholder{InstanceID: n.ID, ParentID: idOf(parent), DefinitionID: n.ID}
	b.markers = append(b.markers, &marker{node: placeholder, parent: sceneParent, design: n, owner: ctx.owner})
	return placeholder, nil
}

func idOf(n *design.Node) string {
	if n == nil {
		return ""
	}
	return n.ID
}
