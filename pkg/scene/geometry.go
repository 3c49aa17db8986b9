package scene

import "math"

// Vec2 is a 2D vector.
type Vec2 struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Mul returns the component-wise product.
func (v Vec2) Mul(o Vec2) Vec2 { return Vec2{v.X * o.X, v.Y * o.Y} }

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Rotate rotates v counter-clockwise by deg degrees.
func (v Vec2) Rotate(deg float64) Vec2 {
	if deg == 0 {
		return v
	}
	s, c := math.Sincos(deg * math.Pi / 180)
	return Vec2{c*v.X - s*v.Y, s*v.X + c*v.Y}
}

// Lerp interpolates component-wise between a and b by t.
func Lerp(a, b, t Vec2) Vec2 {
	return Vec2{a.X + (b.X-a.X)*t.X, a.Y + (b.Y-a.Y)*t.Y}
}

// Common anchor and pivot points.
var (
	TopLeft = Vec2{0, 1}
	Center  = Vec2{0.5, 0.5}
)

// Rect is an anchored rectangle. See the package documentation for the
// coordinate model.
type Rect struct {
	AnchorMin        Vec2    `json:"anchorMin" bson:"anchor_min"`
	AnchorMax        Vec2    `json:"anchorMax" bson:"anchor_max"`
	Pivot            Vec2    `json:"pivot" bson:"pivot"`
	AnchoredPosition Vec2    `json:"anchoredPosition" bson:"anchored_position"`
	SizeDelta        Vec2    `json:"sizeDelta" bson:"size_delta"`
	Rotation         float64 `json:"rotation,omitempty" bson:"rotation,omitempty"`
}

// DefaultRect returns a zero-size rectangle anchored and pivoted at the
// parent's top-left corner.
func DefaultRect() Rect {
	return Rect{AnchorMin: TopLeft, AnchorMax: TopLeft, Pivot: TopLeft}
}

// Size returns the rectangle's size inside a parent of the given size.
func (r Rect) Size(parent Vec2) Vec2 {
	return r.AnchorMax.Sub(r.AnchorMin).Mul(parent).Add(r.SizeDelta)
}

// PivotPoint returns the pivot position in parent coordinates (origin at
// the parent's bottom-left corner).
func (r Rect) PivotPoint(parent Vec2) Vec2 {
	return Lerp(r.AnchorMin, r.AnchorMax, r.Pivot).Mul(parent).Add(r.AnchoredPosition)
}

// Layout returns the unrotated min and max corners in parent coordinates.
func (r Rect) Layout(parent Vec2) (min, max Vec2) {
	offsetMin := r.AnchoredPosition.Sub(r.SizeDelta.Mul(r.Pivot))
	offsetMax := r.AnchoredPosition.Add(r.SizeDelta.Mul(Vec2{1 - r.Pivot.X, 1 - r.Pivot.Y}))
	return parent.Mul(r.AnchorMin).Add(offsetMin), parent.Mul(r.AnchorMax).Add(offsetMax)
}

// Corners returns the four corners (bottom-left, top-left, top-right,
// bottom-right) in parent coordinates, rotated around the pivot.
func (r Rect) Corners(parent Vec2) [4]Vec2 {
	size := r.Size(parent)
	p := r.PivotPoint(parent)
	local := [4]Vec2{{0, 0}, {0, 1}, {1, 1}, {1, 0}}
	var out [4]Vec2
	for i, c := range local {
		out[i] = p.Add(c.Sub(r.Pivot).Mul(size).Rotate(r.Rotation))
	}
	return out
}

// WorldCenter returns the rectangle's center in parent coordinates.
func (r Rect) WorldCenter(parent Vec2) Vec2 {
	size := r.Size(parent)
	return r.PivotPoint(parent).Add(Center.Sub(r.Pivot).Mul(size).Rotate(r.Rotation))
}

// WithPivot moves the pivot to p without moving the rectangle on screen.
// Setting the pivot it already has is a no-op.
func (r Rect) WithPivot(p, parent Vec2) Rect {
	if r.Pivot == p {
		return r
	}
	delta := p.Sub(r.Pivot)
	size := r.Size(parent)
	span := r.AnchorMax.Sub(r.AnchorMin).Mul(parent)
	r.AnchoredPosition = r.AnchoredPosition.
		Add(delta.Mul(size).Rotate(r.Rotation)).
		Sub(delta.Mul(span))
	r.Pivot = p
	return r
}

// Bounds is an axis-aligned box.
type Bounds struct {
	Min, Max Vec2
}

// EmptyBounds returns bounds that any Extend call replaces.
func EmptyBounds() Bounds {
	inf := math.Inf(1)
	return Bounds{Min: Vec2{inf, inf}, Max: Vec2{-inf, -inf}}
}

// IsEmpty reports whether no point has been added.
func (b Bounds) IsEmpty() bool { return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y }

// Extend grows b to contain p.
func (b Bounds) Extend(p Vec2) Bounds {
	b.Min = Vec2{math.Min(b.Min.X, p.X), math.Min(b.Min.Y, p.Y)}
	b.Max = Vec2{math.Max(b.Max.X, p.X), math.Max(b.Max.Y, p.Y)}
	return b
}
