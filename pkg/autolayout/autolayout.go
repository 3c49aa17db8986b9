// Package autolayout emulates the single-axis auto-layout and scroll
// behavior of design frames on scene nodes.
//
// [Apply] runs before a node's children are built. It attaches a scroll
// container (with a synthesized content child) and a layout group, and
// returns the node under which children must be placed. [FitContent] runs
// after the children are placed and sizes scroll content that has no layout
// group to the union of its children.
package autolayout

import (
	"math"
	"slices"

	"github.com/matzehuels/figtree/pkg/design"
	"github.com/matzehuels/figtree/pkg/scene"
)

// Apply configures scrolling and auto-layout of target from the design
// node and returns the node children should be attached to: the scroll
// content when the node scrolls, target otherwise. Applying twice replaces
// the previous configuration instead of stacking it.
func Apply(node *design.Node, target *scene.Node) *scene.Node {
	host := target
	if node.Kind.IsFrameLike() && node.IsScrolling() {
		host = attachScroll(node, target)
		target.Layout = nil
	} else {
		unwrapScroll(target)
	}
	if node.HasAutoLayout() {
		host.Layout = layoutGroup(node, host != target)
	} else {
		host.Layout = nil
	}
	return host
}

// unwrapScroll turns a scroll container back into a plain node, moving the
// content's children into its place.
func unwrapScroll(target *scene.Node) {
	content := target.ScrollContent()
	target.Scroll = nil
	if content == nil {
		return
	}
	i := target.IndexOf(content)
	target.Children = slices.Concat(target.Children[:i], content.Children, target.Children[i+1:])
}

func attachScroll(node *design.Node, target *scene.Node) *scene.Node {
	target.Scroll = &scene.Scroll{
		Horizontal: node.OverflowDirection == design.OverflowHorizontal || node.OverflowDirection == design.OverflowBoth,
		Vertical:   node.OverflowDirection == design.OverflowVertical || node.OverflowDirection == design.OverflowBoth,
	}
	target.Clip = node.ClipsContent
	content := target.ScrollContent()
	if content == nil {
		content = scene.NewNode(scene.ScrollContentName)
		target.Children = append([]*scene.Node{content}, target.Children...)
	}
	size := node.SizeOrZero()
	content.Rect = scene.DefaultRect()
	content.Rect.SizeDelta = scene.Vec2{X: size.X, Y: size.Y}
	return content
}

func layoutGroup(node *design.Node, scrolling bool) *scene.LayoutGroup {
	g := &scene.LayoutGroup{
		Axis: scene.AxisHorizontal,
		Padding: scene.Padding{
			Left:   round(node.PaddingLeft),
			Right:  round(node.PaddingRight),
			Top:    round(node.PaddingTop),
			Bottom: round(node.PaddingBottom),
		},
		Spacing:      node.ItemSpacing,
		SpaceBetween: node.PrimaryAxisAlignItems == design.AlignSpaceBetween,
		FitContent:   scrolling,
	}
	if node.LayoutMode == design.LayoutVertical {
		g.Axis = scene.AxisVertical
	}
	g.Alignment = alignment(g.Axis, node.PrimaryAxisAlignItems, node.CounterAxisAlignItems)
	return g
}

func round(v float64) int { return int(math.Round(v)) }

// alignment names the child alignment of a layout group as
// "<Vertical><Horizontal>", e.g. "UpperLeft" or "MiddleCenter".
func alignment(axis scene.Axis, primary, counter design.AxisAlign) string {
	h, v := primary, counter
	if axis == scene.AxisVertical {
		h, v = counter, primary
	}
	vertical := map[design.AxisAlign]string{design.AlignCenter: "Middle", design.AlignMax: "Lower"}
	horizontal := map[design.AxisAlign]string{design.AlignCenter: "Center", design.AlignMax: "Right"}
	vs, ok := vertical[v]
	if !ok {
		vs = "Upper"
	}
	hs, ok := horizontal[h]
	if !ok {
		hs = "Left"
	}
	return vs + hs
}

// FitContent sizes the scroll content of target to the far corner of the
// union of its children's rotated bounds, measured from the content's
// top-left corner. Content driven by a layout group, and nodes without
// scroll content, are left unchanged.
func FitContent(target *scene.Node) {
	content := target.ScrollContent()
	if content == nil || content.Layout != nil || len(content.Children) == 0 {
		return
	}
	size := content.Rect.Size(scene.Vec2{})
	b := scene.EmptyBounds()
	for _, c := range content.Children {
		for _, p := range c.Rect.Corners(size) {
			// Relative to the content's top-left corner.
			b = b.Extend(scene.Vec2{X: p.X, Y: p.Y - size.Y})
		}
	}
	content.Rect.SizeDelta = scene.Vec2{
		X: math.Max(b.Max.X, 0),
		Y: math.Max(-b.Min.Y, 0),
	}
}
