package style

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/figtree/pkg/design"
	"github.com/matzehuels/figtree/pkg/fonts"
	"github.com/matzehuels/figtree/pkg/scene"
)

func ptr[T any](v T) *T { return &v }

func textNode() *design.Node {
	return &design.Node{
		ID:         "1:1",
		Kind:       design.KindText,
		Characters: "Hello",
		Style: &design.TypeStyle{
			FontFamily:          "Inter",
			FontWeight:          400,
			FontSize:            20,
			TextAlignHorizontal: "CENTER",
			TextAlignVertical:   "BOTTOM",
			TextCase:            "UPPER",
			TextDecoration:      "UNDERLINE",
			TextAutoResize:      "HEIGHT",
		},
		Fills: []design.Paint{{Type: design.PaintSolid, Color: design.Color{R: 1, A: 1}}},
	}
}

var interTable = fonts.NewTable("", fonts.Entry{Family: "Inter", Weight: 400, Handle: "Inter-Regular"})

func TestTextOutlineWidth(t *testing.T) {
	n := textNode()
	n.StrokeWeight = 2
	n.Strokes = []design.Paint{{Type: design.PaintSolid, Color: design.Color{B: 1, A: 1}}}
	target := scene.NewNode("t")
	New(WithFonts(interTable)).Apply(n, target)

	txt := target.Text
	if txt == nil {
		t.Fatal("no text part")
	}
	if math.Abs(txt.OutlineWidth-0.4) > 1e-12 {
		t.Errorf("OutlineWidth = %v, want 0.4", txt.OutlineWidth)
	}
	if txt.Material != scene.MaterialOutline {
		t.Errorf("Material = %v, want outline", txt.Material)
	}
	if txt.OutlineColor != (scene.Color{B: 1, A: 1}) {
		t.Errorf("OutlineColor = %v", txt.OutlineColor)
	}
}

func TestOutlineWidthClamp(t *testing.T) {
	tests := []struct{ weight, size, want float64 }{
		{2, 20, 0.4},
		{10, 20, 0.5},
		{-1, 20, 0},
		{1, 0, 0},
	}
	for _, tt := range tests {
		if got := OutlineWidth(tt.weight, tt.size); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("OutlineWidth(%v, %v) = %v, want %v", tt.weight, tt.size, got, tt.want)
		}
	}
}

func TestTextStyling(t *testing.T) {
	target := scene.NewNode("t")
	a := New(WithFonts(interTable))
	a.Apply(textNode(), target)
	txt := target.Text
	if txt.Font != "Inter-Regular" || a.Warnings() != 0 {
		t.Errorf("Font = %q warnings = %d", txt.Font, a.Warnings())
	}
	if txt.HorizontalAlign != "center" || txt.VerticalAlign != "bottom" {
		t.Errorf("align = %s/%s", txt.HorizontalAlign, txt.VerticalAlign)
	}
	if txt.Case != "upper" || txt.Decoration != "underline" || !txt.Wrap || txt.AutoSize {
		t.Errorf("text = %+v", txt)
	}
	if txt.Color != (scene.Color{R: 1, A: 1}) || txt.Material != scene.MaterialPlain {
		t.Errorf("color = %v material = %v", txt.Color, txt.Material)
	}
	if target.Shape != nil {
		t.Error("text nodes get no shape")
	}
}

func TestMissingFontWarns(t *testing.T) {
	var buf bytes.Buffer
	n := textNode()
	n.Style.FontFamily = "Papyrus"
	a := New(WithLogger(log.New(&buf)))
	target := scene.NewNode("t")
	a.Apply(n, target)
	if target.Text.Font != fonts.DefaultHandle {
		t.Errorf("Font = %q", target.Text.Font)
	}
	if a.Warnings() != 1 || !strings.Contains(buf.String(), "Papyrus") {
		t.Errorf("warnings = %d log = %q", a.Warnings(), buf.String())
	}
}

func TestTextShadowUsesUnderlay(t *testing.T) {
	n := textNode()
	n.Effects = []design.Effect{
		{Type: design.EffectDropShadow, Visible: ptr(false), Radius: 99},
		{Type: design.EffectDropShadow, Offset: design.Vector{X: 4, Y: 50}, Radius: 10, Color: design.Color{A: 0.5}},
	}
	n.StrokeWeight = 1
	n.Strokes = []design.Paint{{Type: design.PaintSolid, Color: design.Color{A: 1}}}
	target := scene.NewNode("t")
	a := New(WithFonts(interTable))
	a.Apply(n, target)
	a.ApplyEffects(n, target)

	u := target.Text.Underlay
	if u == nil {
		t.Fatal("no underlay")
	}
	if u.Offset != (scene.Vec2{X: 0.2, Y: -1}) || u.Softness != 0.5 {
		t.Errorf("underlay = %+v", u)
	}
	if target.Text.Material != scene.MaterialOutlineUnderlay {
		t.Errorf("Material = %v", target.Text.Material)
	}
	if target.Shadow != nil {
		t.Error("text must not get a shadow part")
	}
}

func TestShapeFill(t *testing.T) {
	tests := []struct {
		name  string
		fills []design.Paint
		want  scene.FillType
		none  bool
	}{
		{
			name:  "FirstVisibleWins",
			fills: []design.Paint{{Type: design.PaintSolid, Visible: ptr(false)}, {Type: design.PaintGradientRadial}},
			want:  scene.FillRadialGradient,
		},
		{
			name:  "UnsupportedSkipped",
			fills: []design.Paint{{Type: design.PaintGradientAngular}, {Type: design.PaintImage, ImageRef: "abc"}},
			want:  scene.FillImage,
		},
		{
			name:  "NothingSupported",
			fills: []design.Paint{{Type: design.PaintEmoji}},
			none:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &design.Node{ID: "1", Kind: design.KindRectangle, Fills: tt.fills}
			target := scene.NewNode("r")
			New().Apply(n, target)
			if target.Shape == nil || target.Shape.Kind != scene.ShapeRect {
				t.Fatalf("shape = %+v", target.Shape)
			}
			if tt.none {
				if target.Shape.Fill != nil {
					t.Errorf("fill = %+v, want none", target.Shape.Fill)
				}
				return
			}
			if target.Shape.Fill == nil || target.Shape.Fill.Type != tt.want {
				t.Errorf("fill = %+v, want %v", target.Shape.Fill, tt.want)
			}
		})
	}
}

func TestSolidFillAlpha(t *testing.T) {
	n := &design.Node{ID: "1", Kind: design.KindEllipse, Fills: []design.Paint{
		{Type: design.PaintSolid, Opacity: ptr(0.5), Color: design.Color{G: 1, A: 0.8}},
	}}
	target := scene.NewNode("e")
	New().Apply(n, target)
	if target.Shape.Kind != scene.ShapeEllipse {
		t.Errorf("kind = %v", target.Shape.Kind)
	}
	if got := target.Shape.Fill.Color; math.Abs(got.A-0.4) > 1e-12 || got.G != 1 {
		t.Errorf("color = %+v", got)
	}
}

func TestGradientHandles(t *testing.T) {
	n := &design.Node{ID: "1", Kind: design.KindRectangle, Fills: []design.Paint{{
		Type:                    design.PaintGradientLinear,
		GradientHandlePositions: []design.Vector{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}},
		GradientStops:           []design.ColorStop{{Position: 0, Color: design.Color{A: 1}}, {Position: 1, Color: design.Color{R: 1, A: 1}}},
	}}}
	target := scene.NewNode("r")
	New().Apply(n, target)
	f := target.Shape.Fill
	if f.Start != (scene.Vec2{X: 0, Y: 1}) || f.End != (scene.Vec2{X: 1, Y: 0}) || len(f.Stops) != 2 {
		t.Errorf("gradient = %+v", f)
	}
}

func TestCornerRadii(t *testing.T) {
	n := &design.Node{ID: "1", Kind: design.KindRectangle, CornerRadius: 8}
	target := scene.NewNode("r")
	a := New()
	a.Apply(n, target)
	if target.Shape.CornerRadii != [4]float64{8, 8, 8, 8} {
		t.Errorf("radii = %v", target.Shape.CornerRadii)
	}
	n.RectangleCornerRadii = []float64{1, 2, 3, 4}
	a.Apply(n, target)
	if target.Shape.CornerRadii != [4]float64{1, 2, 3, 4} {
		t.Errorf("per-corner radii = %v", target.Shape.CornerRadii)
	}
}

func TestStroke(t *testing.T) {
	n := &design.Node{ID: "1", Kind: design.KindRectangle, StrokeWeight: 2, StrokeAlign: "INSIDE", Strokes: []design.Paint{
		{Type: design.PaintGradientLinear},
		{Type: design.PaintSolid, Color: design.Color{R: 1, A: 1}},
	}}
	target := scene.NewNode("r")
	New().Apply(n, target)
	s := target.Shape.Stroke
	if s == nil || s.Weight != 2 || s.Align != "INSIDE" || s.Color.R != 1 {
		t.Errorf("stroke = %+v", s)
	}
}

func TestFrameShapeOnlyWithPaint(t *testing.T) {
	n := &design.Node{ID: "1", Kind: design.KindFrame}
	target := scene.NewNode("f")
	New().Apply(n, target)
	if target.Shape != nil {
		t.Error("frame without paint should have no shape")
	}
	n.Fills = []design.Paint{{Type: design.PaintSolid, Color: design.Color{A: 1}}}
	New().Apply(n, target)
	if target.Shape == nil {
		t.Error("filled frame should get a background shape")
	}
	group := &design.Node{ID: "2", Kind: design.KindGroup, Fills: n.Fills}
	New().Apply(group, target)
	if target.Shape != nil {
		t.Error("groups never draw a shape")
	}
}

func TestFlags(t *testing.T) {
	n := &design.Node{ID: "1", Kind: design.KindFrame, Visible: ptr(false), Opacity: ptr(0.5),
		ClipsContent: true, IsMask: true, TransitionNodeID: "9:9"}
	target := scene.NewNode("f")
	New().Apply(n, target)
	if target.Active || !target.Clip || !target.Mask {
		t.Errorf("flags = %+v", target)
	}
	if target.Group == nil || target.Group.Alpha != 0.5 {
		t.Errorf("group = %+v", target.Group)
	}
	if target.Transition != nil {
		t.Error("transition set without prototype flow")
	}
	New(WithTransitions(true)).Apply(n, target)
	if target.Transition == nil || target.Transition.TargetID != "9:9" {
		t.Errorf("transition = %+v", target.Transition)
	}
	n.ClipsContent, n.IsMask = false, false
	New().Apply(n, target)
	if target.Clip || target.Mask {
		t.Errorf("re-applying should clear clip and mask, got %+v", target)
	}
}

func TestTransparencyGroupOnlyWhenNeeded(t *testing.T) {
	n := &design.Node{ID: "1", Kind: design.KindRectangle}
	target := scene.NewNode("r")
	New().Apply(n, target)
	if target.Group != nil {
		t.Error("opaque node got a transparency group")
	}
	target.Group = &scene.Group{Alpha: 0.3}
	New().Apply(n, target)
	if target.Group == nil || target.Group.Alpha != 1 {
		t.Errorf("existing group should be updated, got %+v", target.Group)
	}
}

func TestEffects(t *testing.T) {
	n := &design.Node{ID: "1", Kind: design.KindRectangle, Effects: []design.Effect{
		{Type: design.EffectInnerShadow, Radius: 1},
		{Type: design.EffectLayerBlur, Radius: 2},
		{Type: design.EffectDropShadow, Offset: design.Vector{X: 2, Y: 3}, Radius: 4, Spread: 1, Color: design.Color{A: 0.25}},
		{Type: design.EffectDropShadow, Radius: 99},
	}}
	target := scene.NewNode("r")
	a := New()
	a.ApplyEffects(n, target)
	s := target.Shadow
	if s == nil || s.Offset != (scene.Vec2{X: 2, Y: -3}) || s.Radius != 4 || s.Spread != 1 || s.Color.A != 0.25 {
		t.Errorf("shadow = %+v", s)
	}
	n.Effects = n.Effects[:2]
	a.ApplyEffects(n, target)
	if target.Shadow != nil {
		t.Error("shadow should be removed when the node has none")
	}
}
