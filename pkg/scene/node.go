package scene

// ScrollContentName is the name of the content child synthesized under a
// scroll container.
const ScrollContentName = "ScrollContent"

// FillType identifies how a shape is filled.
type FillType string

const (
	FillSolid          FillType = "solid"
	FillLinearGradient FillType = "linear"
	FillRadialGradient FillType = "radial"
	FillImage          FillType = "image"
)

// ShapeKind selects the primitive drawn by a Shape.
type ShapeKind string

const (
	ShapeRect    ShapeKind = "rect"
	ShapeEllipse ShapeKind = "ellipse"
)

// Color is an RGBA color with channels in [0,1].
type Color struct {
	R float64 `json:"r" bson:"r"`
	G float64 `json:"g" bson:"g"`
	B float64 `json:"b" bson:"b"`
	A float64 `json:"a" bson:"a"`
}

// GradientStop is a color at a normalized position along a gradient.
type GradientStop struct {
	Position float64 `json:"position" bson:"position"`
	Color    Color   `json:"color" bson:"color"`
}

// Fill paints the interior of a shape.
type Fill struct {
	Type     FillType       `json:"type" bson:"type"`
	Color    Color          `json:"color" bson:"color"`
	Stops    []GradientStop `json:"stops,omitempty" bson:"stops,omitempty"`
	Start    Vec2           `json:"start,omitzero" bson:"start,omitempty"`
	End      Vec2           `json:"end,omitzero" bson:"end,omitempty"`
	ImageRef string         `json:"imageRef,omitempty" bson:"image_ref,omitempty"`
}

// Stroke outlines a shape.
type Stroke struct {
	Color  Color   `json:"color" bson:"color"`
	Weight float64 `json:"weight" bson:"weight"`
	Align  string  `json:"align,omitempty" bson:"align,omitempty"`
}

// Shape is live vector geometry: a rectangle with optional rounded corners,
// or an ellipse.
type Shape struct {
	Kind ShapeKind `json:"kind" bson:"kind"`
	Fill *Fill     `json:"fill,omitempty" bson:"fill,omitempty"`
	// Corner radii: top-left, top-right, bottom-right, bottom-left.
	CornerRadii [4]float64 `json:"cornerRadii" bson:"corner_radii"`
	Stroke      *Stroke    `json:"stroke,omitempty" bson:"stroke,omitempty"`
}

// Material selects the text shader variant.
type Material string

const (
	MaterialPlain           Material = "plain"
	MaterialOutline         Material = "outline"
	MaterialUnderlay        Material = "underlay"
	MaterialOutlineUnderlay Material = "outline+underlay"
)

// Underlay is a soft offset copy of text glyphs, used for text shadows.
type Underlay struct {
	Color    Color   `json:"color" bson:"color"`
	Offset   Vec2    `json:"offset" bson:"offset"`
	Softness float64 `json:"softness" bson:"softness"`
}

// Text is a text label.
type Text struct {
	Characters      string    `json:"characters" bson:"characters"`
	Font            string    `json:"font" bson:"font"`
	FontSize        float64   `json:"fontSize" bson:"font_size"`
	Color           Color     `json:"color" bson:"color"`
	HorizontalAlign string    `json:"horizontalAlign,omitempty" bson:"horizontal_align,omitempty"`
	VerticalAlign   string    `json:"verticalAlign,omitempty" bson:"vertical_align,omitempty"`
	Case            string    `json:"case,omitempty" bson:"case,omitempty"`
	Decoration      string    `json:"decoration,omitempty" bson:"decoration,omitempty"`
	Italic          bool      `json:"italic,omitempty" bson:"italic,omitempty"`
	AutoSize        bool      `json:"autoSize,omitempty" bson:"auto_size,omitempty"`
	Wrap            bool      `json:"wrap,omitempty" bson:"wrap,omitempty"`
	LetterSpacing   float64   `json:"letterSpacing,omitempty" bson:"letter_spacing,omitempty"`
	LineHeight      float64   `json:"lineHeight,omitempty" bson:"line_height,omitempty"`
	Material        Material  `json:"material" bson:"material"`
	OutlineWidth    float64   `json:"outlineWidth,omitempty" bson:"outline_width,omitempty"`
	OutlineColor    Color     `json:"outlineColor,omitzero" bson:"outline_color,omitempty"`
	Underlay        *Underlay `json:"underlay,omitempty" bson:"underlay,omitempty"`
}

// ImageSource tells where a bitmap comes from.
type ImageSource string

const (
	// ImageServerRender is a bitmap rendered by the design server in place
	// of a live sub-tree.
	ImageServerRender ImageSource = "server-render"
	// ImageFill is an image paint of a live node.
	ImageFill ImageSource = "fill"
)

// Image displays a bitmap.
type Image struct {
	Source    ImageSource `json:"source" bson:"source"`
	NodeID    string      `json:"nodeId,omitempty" bson:"node_id,omitempty"`
	ImageRef  string      `json:"imageRef,omitempty" bson:"image_ref,omitempty"`
	ScaleMode string      `json:"scaleMode,omitempty" bson:"scale_mode,omitempty"`
	// Pixel size of the resolved bitmap, set by the asset stage.
	Width  int `json:"width,omitempty" bson:"width,omitempty"`
	Height int `json:"height,omitempty" bson:"height,omitempty"`
}

// Shadow is a drop shadow behind a node.
type Shadow struct {
	Color  Color   `json:"color" bson:"color"`
	Offset Vec2    `json:"offset" bson:"offset"`
	Radius float64 `json:"radius" bson:"radius"`
	Spread float64 `json:"spread,omitempty" bson:"spread,omitempty"`
}

// Group controls the alpha of a node and its whole sub-tree.
type Group struct {
	Alpha float64 `json:"alpha" bson:"alpha"`
}

// Axis is a layout direction.
type Axis string

const (
	AxisHorizontal Axis = "horizontal"
	AxisVertical   Axis = "vertical"
)

// Padding is an integer inset.
type Padding struct {
	Left   int `json:"left" bson:"left"`
	Right  int `json:"right" bson:"right"`
	Top    int `json:"top" bson:"top"`
	Bottom int `json:"bottom" bson:"bottom"`
}

// LayoutGroup arranges children along one axis.
type LayoutGroup struct {
	Axis         Axis    `json:"axis" bson:"axis"`
	Padding      Padding `json:"padding" bson:"padding"`
	Spacing      float64 `json:"spacing" bson:"spacing"`
	Alignment    string  `json:"alignment" bson:"alignment"`
	SpaceBetween bool    `json:"spaceBetween,omitempty" bson:"space_between,omitempty"`
	FitContent   bool    `json:"fitContent,omitempty" bson:"fit_content,omitempty"`
}

// Scroll makes a node a scroll container over its ScrollContent child.
type Scroll struct {
	Horizontal bool `json:"horizontal" bson:"horizontal"`
	Vertical   bool `json:"vertical" bson:"vertical"`
}

// Transition navigates to another screen when the node is activated.
type Transition struct {
	TargetID string `json:"targetId" bson:"target_id"`
}

// Placeholder stands in for a component instance until templates are
// instantiated.
type Placeholder struct {
	InstanceID   string `json:"instanceId" bson:"instance_id"`
	ParentID     string `json:"parentId" bson:"parent_id"`
	DefinitionID string `json:"definitionId" bson:"definition_id"`
}

// Orphan marks an instance whose component definition was not available.
type Orphan struct {
	InstanceID   string `json:"instanceId" bson:"instance_id"`
	DefinitionID string `json:"definitionId" bson:"definition_id"`
}

// Node is a scene graph node.
type Node struct {
	Name     string  `json:"name" bson:"name"`
	Rect     Rect    `json:"rect" bson:"rect"`
	Active   bool    `json:"active" bson:"active"`
	SourceID string  `json:"sourceId,omitempty" bson:"source_id,omitempty"`
	Children []*Node `json:"children,omitempty" bson:"children,omitempty"`

	Shape      *Shape       `json:"shape,omitempty" bson:"shape,omitempty"`
	Text       *Text        `json:"text,omitempty" bson:"text,omitempty"`
	Image      *Image       `json:"image,omitempty" bson:"image,omitempty"`
	Shadow     *Shadow      `json:"shadow,omitempty" bson:"shadow,omitempty"`
	Mask       bool         `json:"mask,omitempty" bson:"mask,omitempty"`
	Clip       bool         `json:"clip,omitempty" bson:"clip,omitempty"`
	Group      *Group       `json:"group,omitempty" bson:"group,omitempty"`
	Layout     *LayoutGroup `json:"layout,omitempty" bson:"layout,omitempty"`
	Scroll     *Scroll      `json:"scroll,omitempty" bson:"scroll,omitempty"`
	Transition *Transition  `json:"transition,omitempty" bson:"transition,omitempty"`
	Behaviors  []string     `json:"behaviors,omitempty" bson:"behaviors,omitempty"`

	// InstanceOf names the template this node was instantiated from.
	InstanceOf  string       `json:"instanceOf,omitempty" bson:"instance_of,omitempty"`
	Placeholder *Placeholder `json:"placeholder,omitempty" bson:"placeholder,omitempty"`
	Orphan      *Orphan      `json:"orphan,omitempty" bson:"orphan,omitempty"`
}

// NewNode returns an active node with the default rectangle.
func NewNode(name string) *Node {
	return &Node{Name: name, Rect: DefaultRect(), Active: true}
}

// Append adds children at the end.
func (n *Node) Append(children ...*Node) {
	n.Children = append(n.Children, children...)
}

// IndexOf returns the index of child c, or -1.
func (n *Node) IndexOf(c *Node) int {
	for i, x := range n.Children {
		if x == c {
			return i
		}
	}
	return -1
}

// Replace swaps the child at index i for c.
func (n *Node) Replace(i int, c *Node) {
	n.Children[i] = c
}

// ScrollContent returns the content child of a scroll container, or nil.
func (n *Node) ScrollContent() *Node {
	if n.Scroll == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == ScrollContentName {
			return c
		}
	}
	return nil
}

// Walk visits n and its descendants depth-first. If fn returns false the
// node's children are skipped.
func Walk(n *Node, fn func(n, parent *Node) bool) {
	walk(n, nil, fn)
}

func walk(n, parent *Node, fn func(n, parent *Node) bool) {
	if n == nil || !fn(n, parent) {
		return
	}
	for _, c := range n.Children {
		walk(c, n, fn)
	}
}

// Count returns the number of nodes in the sub-tree rooted at n.
func Count(n *Node) int {
	count := 0
	Walk(n, func(*Node, *Node) bool {
		count++
		return true
	})
	return count
}

// Find returns the first node in depth-first order for which match
// returns true.
func Find(n *Node, match func(*Node) bool) *Node {
	var found *Node
	Walk(n, func(x, _ *Node) bool {
		if found != nil {
			return false
		}
		if match(x) {
			found = x
			return false
		}
		return true
	})
	return found
}

// Clone returns a deep copy of the sub-tree rooted at n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	c.Shape = clonePtr(n.Shape)
	if c.Shape != nil {
		c.Shape.Fill = clonePtr(n.Shape.Fill)
		c.Shape.Stroke = clonePtr(n.Shape.Stroke)
		if c.Shape.Fill != nil {
			c.Shape.Fill.Stops = append([]GradientStop(nil), n.Shape.Fill.Stops...)
		}
	}
	c.Text = clonePtr(n.Text)
	if c.Text != nil {
		c.Text.Underlay = clonePtr(n.Text.Underlay)
	}
	c.Image = clonePtr(n.Image)
	c.Shadow = clonePtr(n.Shadow)
	c.Group = clonePtr(n.Group)
	c.Layout = clonePtr(n.Layout)
	c.Scroll = clonePtr(n.Scroll)
	c.Transition = clonePtr(n.Transition)
	c.Placeholder = clonePtr(n.Placeholder)
	c.Orphan = clonePtr(n.Orphan)
	if n.Behaviors != nil {
		c.Behaviors = append([]string(nil), n.Behaviors...)
	}
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
