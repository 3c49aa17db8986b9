// Package anchor converts design-space geometry into anchored scene
// rectangles.
//
// Design nodes are positioned by an affine transform relative to their
// parent, with the vertical axis pointing down, and carry resizing
// constraints. [Resolve] turns that into a [scene.Rect] whose anchors encode
// the constraints, so the result keeps its relationship to the parent when
// the parent is resized. The conversion depends only on the node and its
// parent, never on traversal order.
package anchor

import (
	"github.com/matzehuels/figtree/pkg/design"
	"github.com/matzehuels/figtree/pkg/scene"
)

// Resolve computes the anchored rectangle of node inside parent. A nil
// parent, or a parent without a size, counts as a zero-size parent. With
// centerPivot the pivot is moved to the middle of the node without moving
// the node on screen.
func Resolve(node, parent *design.Node, centerPivot bool) scene.Rect {
	m := node.TransformOrIdentity()
	r := scene.DefaultRect()
	r.AnchoredPosition = scene.Vec2{X: m[0][2], Y: -m[1][2]}
	r.Rotation = m.RotationDegrees()
	size := node.SizeOrZero()
	r.SizeDelta = scene.Vec2{X: size.X, Y: size.Y}

	// Groups do not establish a coordinate space in the source format, so
	// their children are stored relative to the group's own parent.
	if parent != nil && parent.Kind == design.KindGroup {
		offset := parent.TransformOrIdentity().Translation()
		r.AnchoredPosition = r.AnchoredPosition.Sub(scene.Vec2{X: offset.X, Y: -offset.Y})
	}

	ps := parent.SizeOrZero()
	var h, v design.Constraint
	if c := node.EffectiveConstraints(); c != nil {
		h, v = c.Horizontal, c.Vertical
	}
	applyHorizontal(&r, h, ps.X)
	applyVertical(&r, v, ps.Y)

	if centerPivot {
		r = r.WithPivot(scene.Center, scene.Vec2{X: ps.X, Y: ps.Y})
	}
	return r
}

// ResolveMasked computes the anchored rectangle of node when it is drawn
// inside mask, a preceding sibling that masks it. The rectangle is relative
// to the mask and constraints resolve against the mask's size, so the node
// stays where it was drawn.
func ResolveMasked(node, mask *design.Node, centerPivot bool) scene.Rect {
	local := *node
	t := mask.TransformOrIdentity().Inverse().Then(node.TransformOrIdentity())
	local.RelativeTransform = &t
	return Resolve(&local, &design.Node{ID: mask.ID, Kind: design.KindFrame, Size: mask.Size}, centerPivot)
}

func applyHorizontal(r *scene.Rect, c design.Constraint, width float64) {
	switch c {
	case design.ConstraintRight:
		r.AnchorMin.X, r.AnchorMax.X = 1, 1
		r.AnchoredPosition.X -= width
	case design.ConstraintCenter:
		r.AnchorMin.X, r.AnchorMax.X = 0.5, 0.5
		r.AnchoredPosition.X -= width / 2
	case design.ConstraintLeftRight, design.ConstraintScale:
		r.AnchorMin.X, r.AnchorMax.X = 0, 1
		r.SizeDelta.X -= width
	default:
		r.AnchorMin.X, r.AnchorMax.X = 0, 0
	}
}

func applyVertical(r *scene.Rect, c design.Constraint, height float64) {
	switch c {
	case design.ConstraintBottom:
		r.AnchorMin.Y, r.AnchorMax.Y = 0, 0
		r.AnchoredPosition.Y += height
	case design.ConstraintCenter:
		r.AnchorMin.Y, r.AnchorMax.Y = 0.5, 0.5
		r.AnchoredPosition.Y += height / 2
	case design.ConstraintTopBottom, design.ConstraintScale:
		r.AnchorMin.Y, r.AnchorMax.Y = 0, 1
		r.SizeDelta.Y -= height
	default:
		r.AnchorMin.Y, r.AnchorMax.Y = 1, 1
	}
}
