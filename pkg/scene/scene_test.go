package scene

import (
	"bytes"
	"math"
	"reflect"
	"testing"
)

func near(a, b Vec2) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestRectLayout(t *testing.T) {
	parent := Vec2{200, 100}
	tests := []struct {
		name             string
		rect             Rect
		wantMin, wantMax Vec2
	}{
		{
			name: "TopLeft",
			rect: Rect{AnchorMin: TopLeft, AnchorMax: TopLeft, Pivot: TopLeft,
				AnchoredPosition: Vec2{10, -20}, SizeDelta: Vec2{30, 40}},
			wantMin: Vec2{10, 40},
			wantMax: Vec2{40, 80},
		},
		{
			name: "StretchX",
			rect: Rect{AnchorMin: Vec2{0, 1}, AnchorMax: Vec2{1, 1}, Pivot: TopLeft,
				AnchoredPosition: Vec2{10, 0}, SizeDelta: Vec2{-20, 10}},
			wantMin: Vec2{10, 90},
			wantMax: Vec2{190, 100},
		},
		{
			name: "CenterPivot",
			rect: Rect{AnchorMin: Center, AnchorMax: Center, Pivot: Center,
				SizeDelta: Vec2{20, 20}},
			wantMin: Vec2{90, 40},
			wantMax: Vec2{110, 60},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			min, max := tt.rect.Layout(parent)
			if !near(min, tt.wantMin) || !near(max, tt.wantMax) {
				t.Errorf("Layout = %v..%v, want %v..%v", min, max, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestWithPivotPreservesCenter(t *testing.T) {
	parent := Vec2{320, 480}
	rects := []Rect{
		{AnchorMin: TopLeft, AnchorMax: TopLeft, Pivot: TopLeft, AnchoredPosition: Vec2{12, -30}, SizeDelta: Vec2{50, 20}, Rotation: 33},
		{AnchorMin: Vec2{0, 0}, AnchorMax: Vec2{1, 1}, Pivot: TopLeft, AnchoredPosition: Vec2{5, -5}, SizeDelta: Vec2{-10, -10}, Rotation: -75},
		{AnchorMin: Vec2{1, 0}, AnchorMax: Vec2{1, 0}, Pivot: TopLeft, AnchoredPosition: Vec2{-40, 60}, SizeDelta: Vec2{30, 30}},
	}
	for i, r := range rects {
		before := r.WorldCenter(parent)
		moved := r.WithPivot(Center, parent)
		if after := moved.WorldCenter(parent); math.Hypot(after.X-before.X, after.Y-before.Y) > 1e-4 {
			t.Errorf("rect %d: center moved from %v to %v", i, before, after)
		}
		if again := moved.WithPivot(Center, parent); again != moved {
			t.Errorf("rect %d: re-centering changed the rect", i)
		}
		if moved.Size(parent) != r.Size(parent) {
			t.Errorf("rect %d: size changed", i)
		}
	}
}

func TestCornersRotation(t *testing.T) {
	r := Rect{AnchorMin: Vec2{}, AnchorMax: Vec2{}, Pivot: Vec2{}, SizeDelta: Vec2{10, 0}, Rotation: 90}
	c := r.Corners(Vec2{})
	// The bottom-right corner swings to the top.
	if !near(c[3], Vec2{0, 10}) {
		t.Errorf("corner = %v, want (0,10)", c[3])
	}
}

func TestBounds(t *testing.T) {
	b := EmptyBounds()
	if !b.IsEmpty() {
		t.Fatal("EmptyBounds should be empty")
	}
	b = b.Extend(Vec2{1, 2}).Extend(Vec2{-3, 5})
	if b.Min != (Vec2{-3, 2}) || b.Max != (Vec2{1, 5}) {
		t.Errorf("bounds = %+v", b)
	}
}

func sampleTree() *Node {
	root := NewNode("Root")
	child := NewNode("Child")
	child.Shape = &Shape{Kind: ShapeRect, Fill: &Fill{Type: FillLinearGradient, Stops: []GradientStop{{Position: 0}, {Position: 1}}}}
	child.Text = &Text{Characters: "hi", Underlay: &Underlay{Softness: 0.5}}
	child.Behaviors = []string{"tap"}
	leaf := NewNode("Leaf")
	leaf.Placeholder = &Placeholder{InstanceID: "1:2"}
	child.Append(leaf)
	root.Append(child)
	return root
}

func TestCloneIsDeep(t *testing.T) {
	orig := sampleTree()
	clone := orig.Clone()
	if !reflect.DeepEqual(orig, clone) {
		t.Fatal("clone differs from original")
	}
	c := clone.Children[0]
	c.Shape.Fill.Stops[0].Position = 0.7
	c.Text.Underlay.Softness = 1
	c.Behaviors[0] = "hold"
	c.Children[0].Placeholder.InstanceID = "x"
	c.Name = "Changed"
	o := orig.Children[0]
	if o.Shape.Fill.Stops[0].Position != 0 || o.Text.Underlay.Softness != 0.5 ||
		o.Behaviors[0] != "tap" || o.Children[0].Placeholder.InstanceID != "1:2" || o.Name != "Child" {
		t.Error("mutating the clone changed the original")
	}
	var nilNode *Node
	if nilNode.Clone() != nil {
		t.Error("nil clone should be nil")
	}
}

func TestWalkFindCount(t *testing.T) {
	root := sampleTree()
	if Count(root) != 3 {
		t.Errorf("Count = %d, want 3", Count(root))
	}
	leaf := Find(root, func(n *Node) bool { return n.Placeholder != nil })
	if leaf == nil || leaf.Name != "Leaf" {
		t.Errorf("Find = %v", leaf)
	}
	if root.IndexOf(root.Children[0]) != 0 || root.IndexOf(leaf) != -1 {
		t.Error("IndexOf wrong")
	}
}

func TestScrollContent(t *testing.T) {
	n := NewNode("List")
	if n.ScrollContent() != nil {
		t.Error("non-scrolling node has no content")
	}
	n.Scroll = &Scroll{Vertical: true}
	content := NewNode(ScrollContentName)
	n.Append(content)
	if n.ScrollContent() != content {
		t.Error("ScrollContent not found")
	}
}

func TestBundleRoundTrip(t *testing.T) {
	b := &Bundle{
		Document:   "Doc",
		Screens:    []Asset{{Name: "Home", Kind: AssetScreen, SourceID: "1:1", Root: sampleTree()}},
		Components: []Asset{{Name: "Button", Kind: AssetComponent, SourceID: "2:1", Root: NewNode("Button")}},
	}
	data, err := MarshalBundle(b)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ReadBundle(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, b) {
		t.Errorf("round trip mismatch")
	}
	if a, ok := got.Asset("Button"); !ok || a.Kind != AssetComponent {
		t.Errorf("Asset(Button) = %+v, %v", a, ok)
	}
	if got.NodeCount() != 4 {
		t.Errorf("NodeCount = %d, want 4", got.NodeCount())
	}
}
