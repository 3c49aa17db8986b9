package design

import "math"

// Constraint is a horizontal or vertical resizing constraint.
type Constraint string

// Horizontal constraints.
const (
	ConstraintLeft      Constraint = "LEFT"
	ConstraintRight     Constraint = "RIGHT"
	ConstraintLeftRight Constraint = "LEFT_RIGHT"
)

// Vertical constraints.
const (
	ConstraintTop       Constraint = "TOP"
	ConstraintBottom    Constraint = "BOTTOM"
	ConstraintTopBottom Constraint = "TOP_BOTTOM"
)

// Constraints shared by both axes.
const (
	ConstraintCenter Constraint = "CENTER"
	ConstraintScale  Constraint = "SCALE"
)

// Constraints is the (horizontal, vertical) constraint pair of a node.
type Constraints struct {
	Horizontal Constraint `json:"horizontal"`
	Vertical   Constraint `json:"vertical"`
}

// LayoutMode is the auto-layout direction of a frame.
type LayoutMode string

const (
	LayoutNone       LayoutMode = "NONE"
	LayoutHorizontal LayoutMode = "HORIZONTAL"
	LayoutVertical   LayoutMode = "VERTICAL"
)

// AxisAlign is an auto-layout alignment along the primary or counter axis.
type AxisAlign string

const (
	AlignMin          AxisAlign = "MIN"
	AlignCenter       AxisAlign = "CENTER"
	AlignMax          AxisAlign = "MAX"
	AlignSpaceBetween AxisAlign = "SPACE_BETWEEN"
	AlignBaseline     AxisAlign = "BASELINE"
)

// OverflowDirection is the scroll behavior of a frame in prototypes.
type OverflowDirection string

const (
	OverflowNone       OverflowDirection = "NONE"
	OverflowHorizontal OverflowDirection = "HORIZONTAL_SCROLLING"
	OverflowVertical   OverflowDirection = "VERTICAL_SCROLLING"
	OverflowBoth       OverflowDirection = "HORIZONTAL_AND_VERTICAL_SCROLLING"
)

// Vector is a 2D value, used for sizes and offsets.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned box in absolute document coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Transform is a 2x3 affine matrix: rotation/scale in the upper-left 2x2
// block and translation in the third column.
type Transform [2][3]float64

// Translation returns the third column.
func (t Transform) Translation() Vector { return Vector{X: t[0][2], Y: t[1][2]} }

// Then returns the transform applying o first and t after it.
func (t Transform) Then(o Transform) Transform {
	var out Transform
	for r := range 2 {
		out[r][0] = t[r][0]*o[0][0] + t[r][1]*o[1][0]
		out[r][1] = t[r][0]*o[0][1] + t[r][1]*o[1][1]
		out[r][2] = t[r][0]*o[0][2] + t[r][1]*o[1][2] + t[r][2]
	}
	return out
}

// Inverse returns the inverse transform. A singular transform only has its
// translation undone.
func (t Transform) Inverse() Transform {
	det := t[0][0]*t[1][1] - t[0][1]*t[1][0]
	if det == 0 {
		return Transform{{1, 0, -t[0][2]}, {0, 1, -t[1][2]}}
	}
	a, b := t[1][1]/det, -t[0][1]/det
	c, d := -t[1][0]/det, t[0][0]/det
	return Transform{
		{a, b, -(a*t[0][2] + b*t[1][2])},
		{c, d, -(c*t[0][2] + d*t[1][2])},
	}
}

// RotationDegrees returns the rotation encoded in the 2x2 block, in degrees,
// measured counter-clockwise with the vertical axis pointing up.
func (t Transform) RotationDegrees() float64 {
	return math.Atan2(-t[1][0], t[0][0]) * 180 / math.Pi
}

// Color is an RGBA color with channels in [0,1].
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// PaintType identifies the kind of a fill or stroke paint.
type PaintType string

const (
	PaintSolid           PaintType = "SOLID"
	PaintGradientLinear  PaintType = "GRADIENT_LINEAR"
	PaintGradientRadial  PaintType = "GRADIENT_RADIAL"
	PaintGradientAngular PaintType = "GRADIENT_ANGULAR"
	PaintGradientDiamond PaintType = "GRADIENT_DIAMOND"
	PaintImage           PaintType = "IMAGE"
	PaintEmoji           PaintType = "EMOJI"
	PaintVideo           PaintType = "VIDEO"
)

// ColorStop is a gradient stop.
type ColorStop struct {
	Position float64 `json:"position"`
	Color    Color   `json:"color"`
}

// Paint is one entry of a fill or stroke list.
type Paint struct {
	Type                    PaintType   `json:"type"`
	Visible                 *bool       `json:"visible,omitempty"`
	Opacity                 *float64    `json:"opacity,omitempty"`
	Color                   Color       `json:"color"`
	GradientHandlePositions []Vector    `json:"gradientHandlePositions,omitempty"`
	GradientStops           []ColorStop `json:"gradientStops,omitempty"`
	ScaleMode               string      `json:"scaleMode,omitempty"`
	ImageRef                string      `json:"imageRef,omitempty"`
}

// IsVisible reports the paint visibility (default true).
func (p Paint) IsVisible() bool { return p.Visible == nil || *p.Visible }

// Alpha returns the paint opacity (default 1).
func (p Paint) Alpha() float64 {
	if p.Opacity == nil {
		return 1
	}
	return *p.Opacity
}

// EffectType identifies a visual effect.
type EffectType string

const (
	EffectDropShadow     EffectType = "DROP_SHADOW"
	EffectInnerShadow    EffectType = "INNER_SHADOW"
	EffectLayerBlur      EffectType = "LAYER_BLUR"
	EffectBackgroundBlur EffectType = "BACKGROUND_BLUR"
)

// Effect is a shadow or blur applied to a node.
type Effect struct {
	Type    EffectType `json:"type"`
	Visible *bool      `json:"visible,omitempty"`
	Radius  float64    `json:"radius"`
	Color   Color      `json:"color"`
	Offset  Vector     `json:"offset"`
	Spread  float64    `json:"spread,omitempty"`
}

// IsVisible reports the effect visibility (default true).
func (e Effect) IsVisible() bool { return e.Visible == nil || *e.Visible }

// TypeStyle is the character style of a text node.
type TypeStyle struct {
	FontFamily          string  `json:"fontFamily"`
	FontPostScriptName  string  `json:"fontPostScriptName,omitempty"`
	FontWeight          int     `json:"fontWeight"`
	FontSize            float64 `json:"fontSize"`
	Italic              bool    `json:"italic,omitempty"`
	TextAlignHorizontal string  `json:"textAlignHorizontal,omitempty"`
	TextAlignVertical   string  `json:"textAlignVertical,omitempty"`
	TextCase            string  `json:"textCase,omitempty"`
	TextDecoration      string  `json:"textDecoration,omitempty"`
	TextAutoResize      string  `json:"textAutoResize,omitempty"`
	LetterSpacing       float64 `json:"letterSpacing,omitempty"`
	LineHeightPx        float64 `json:"lineHeightPx,omitempty"`
}

// ExportSetting marks a node for export as an image.
type ExportSetting struct {
	Suffix string `json:"suffix"`
	Format string `json:"format"`
}

// FlowStartingPoint marks a prototype entry screen on a canvas.
type FlowStartingPoint struct {
	NodeID string `json:"nodeId"`
	Name   string `json:"name"`
}

// Node is a node of the design document tree.
type Node struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Kind    Kind   `json:"type"`
	Visible *bool  `json:"visible,omitempty"`
	Locked  bool   `json:"locked,omitempty"`

	// Geometry
	AbsoluteBoundingBox *Rect      `json:"absoluteBoundingBox,omitempty"`
	RelativeTransform   *Transform `json:"relativeTransform,omitempty"`
	Size                *Vector    `json:"size,omitempty"`
	Constraints         *Constraints `json:"constraints,omitempty"`

	// Styling
	Fills                []Paint    `json:"fills,omitempty"`
	Strokes              []Paint    `json:"strokes,omitempty"`
	StrokeWeight         float64    `json:"strokeWeight,omitempty"`
	StrokeAlign          string     `json:"strokeAlign,omitempty"`
	CornerRadius         float64    `json:"cornerRadius,omitempty"`
	RectangleCornerRadii []float64  `json:"rectangleCornerRadii,omitempty"`
	Effects              []Effect   `json:"effects,omitempty"`
	Opacity              *float64   `json:"opacity,omitempty"`
	IsMask               bool       `json:"isMask,omitempty"`
	ClipsContent         bool       `json:"clipsContent,omitempty"`

	// Auto-layout and scrolling
	LayoutMode            LayoutMode        `json:"layoutMode,omitempty"`
	PaddingLeft           float64           `json:"paddingLeft,omitempty"`
	PaddingRight          float64           `json:"paddingRight,omitempty"`
	PaddingTop            float64           `json:"paddingTop,omitempty"`
	PaddingBottom         float64           `json:"paddingBottom,omitempty"`
	ItemSpacing           float64           `json:"itemSpacing,omitempty"`
	PrimaryAxisAlignItems AxisAlign         `json:"primaryAxisAlignItems,omitempty"`
	CounterAxisAlignItems AxisAlign         `json:"counterAxisAlignItems,omitempty"`
	OverflowDirection     OverflowDirection `json:"overflowDirection,omitempty"`

	// Components and prototyping
	ComponentID        string              `json:"componentId,omitempty"`
	TransitionNodeID   string              `json:"transitionNodeID,omitempty"`
	ExportSettings     []ExportSetting     `json:"exportSettings,omitempty"`
	FlowStartingPoints []FlowStartingPoint `json:"flowStartingPoints,omitempty"`

	// Text
	Characters string     `json:"characters,omitempty"`
	Style      *TypeStyle `json:"style,omitempty"`

	Children []*Node `json:"children,omitempty"`
}

// IsVisible reports the node visibility (default true).
func (n *Node) IsVisible() bool { return n.Visible == nil || *n.Visible }

// Alpha returns the node opacity (default 1).
func (n *Node) Alpha() float64 {
	if n.Opacity == nil {
		return 1
	}
	return *n.Opacity
}

// SizeOrZero returns the node size, or the zero vector when the node (or
// the receiver itself) carries none.
func (n *Node) SizeOrZero() Vector {
	if n == nil || n.Size == nil {
		return Vector{}
	}
	return *n.Size
}

// TransformOrIdentity returns the relative transform, or the identity when
// absent.
func (n *Node) TransformOrIdentity() Transform {
	if n == nil || n.RelativeTransform == nil {
		return Transform{{1, 0, 0}, {0, 1, 0}}
	}
	return *n.RelativeTransform
}

// HasChildren reports whether the node has at least one child.
func (n *Node) HasChildren() bool { return len(n.Children) > 0 }

// IsScrolling reports whether the node scrolls in at least one direction.
func (n *Node) IsScrolling() bool {
	return n.OverflowDirection != "" && n.OverflowDirection != OverflowNone
}

// HasAutoLayout reports whether the node declares a single-axis auto-layout.
func (n *Node) HasAutoLayout() bool {
	return n.LayoutMode == LayoutHorizontal || n.LayoutMode == LayoutVertical
}

// EffectiveConstraints returns the constraints used for anchoring. A group
// carries no constraints of its own and takes those of its first child.
func (n *Node) EffectiveConstraints() *Constraints {
	if n.Kind == KindGroup && n.HasChildren() {
		return n.Children[0].Constraints
	}
	return n.Constraints
}
