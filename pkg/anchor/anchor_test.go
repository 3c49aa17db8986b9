package anchor

import (
	"math"
	"testing"

	"github.com/matzehuels/figtree/pkg/design"
	"github.com/matzehuels/figtree/pkg/scene"
)

func node(x, y, w, h float64, hc, vc design.Constraint) *design.Node {
	return &design.Node{
		ID:                "1:2",
		Kind:              design.KindRectangle,
		RelativeTransform: &design.Transform{{1, 0, x}, {0, 1, y}},
		Size:              &design.Vector{X: w, Y: h},
		Constraints:       &design.Constraints{Horizontal: hc, Vertical: vc},
	}
}

var screen = &design.Node{
	ID:   "1:1",
	Kind: design.KindFrame,
	Size: &design.Vector{X: 400, Y: 800},
}

func TestResolveConstraints(t *testing.T) {
	tests := []struct {
		name                 string
		h, v                 design.Constraint
		wantMin, wantMax     scene.Vec2
		wantPos, wantSizeDel scene.Vec2
	}{
		{
			name: "LeftTop", h: design.ConstraintLeft, v: design.ConstraintTop,
			wantMin: scene.Vec2{X: 0, Y: 1}, wantMax: scene.Vec2{X: 0, Y: 1},
			wantPos: scene.Vec2{X: 10, Y: -20}, wantSizeDel: scene.Vec2{X: 100, Y: 50},
		},
		{
			name: "RightBottom", h: design.ConstraintRight, v: design.ConstraintBottom,
			wantMin: scene.Vec2{X: 1, Y: 0}, wantMax: scene.Vec2{X: 1, Y: 0},
			wantPos: scene.Vec2{X: -390, Y: 780}, wantSizeDel: scene.Vec2{X: 100, Y: 50},
		},
		{
			name: "Center", h: design.ConstraintCenter, v: design.ConstraintCenter,
			wantMin: scene.Vec2{X: 0.5, Y: 0.5}, wantMax: scene.Vec2{X: 0.5, Y: 0.5},
			wantPos: scene.Vec2{X: -190, Y: 380}, wantSizeDel: scene.Vec2{X: 100, Y: 50},
		},
		{
			name: "Stretch", h: design.ConstraintLeftRight, v: design.ConstraintTopBottom,
			wantMin: scene.Vec2{X: 0, Y: 0}, wantMax: scene.Vec2{X: 1, Y: 1},
			wantPos: scene.Vec2{X: 10, Y: -20}, wantSizeDel: scene.Vec2{X: -300, Y: -750},
		},
		{
			name: "Scale", h: design.ConstraintScale, v: design.ConstraintScale,
			wantMin: scene.Vec2{X: 0, Y: 0}, wantMax: scene.Vec2{X: 1, Y: 1},
			wantPos: scene.Vec2{X: 10, Y: -20}, wantSizeDel: scene.Vec2{X: -300, Y: -750},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := node(10, 20, 100, 50, tt.h, tt.v)
			r := Resolve(n, screen, false)
			if r.AnchorMin != tt.wantMin || r.AnchorMax != tt.wantMax {
				t.Errorf("anchors = %v..%v, want %v..%v", r.AnchorMin, r.AnchorMax, tt.wantMin, tt.wantMax)
			}
			if r.AnchoredPosition != tt.wantPos {
				t.Errorf("position = %v, want %v", r.AnchoredPosition, tt.wantPos)
			}
			if r.SizeDelta != tt.wantSizeDel {
				t.Errorf("sizeDelta = %v, want %v", r.SizeDelta, tt.wantSizeDel)
			}
			if r.Pivot != scene.TopLeft {
				t.Errorf("pivot = %v, want top-left", r.Pivot)
			}
			// Whatever the constraints, the node lands where it was drawn.
			min, max := r.Layout(scene.Vec2{X: 400, Y: 800})
			if min != (scene.Vec2{X: 10, Y: 730}) || max != (scene.Vec2{X: 110, Y: 780}) {
				t.Errorf("layout = %v..%v", min, max)
			}
		})
	}
}

func TestResolveWithoutParent(t *testing.T) {
	n := node(10, 20, 100, 50, design.ConstraintRight, design.ConstraintBottom)
	for _, parent := range []*design.Node{nil, {ID: "p", Kind: design.KindFrame}} {
		r := Resolve(n, parent, false)
		if r.AnchoredPosition != (scene.Vec2{X: 10, Y: -20}) {
			t.Errorf("position = %v, want (10,-20)", r.AnchoredPosition)
		}
	}
}

func TestResolveMissingConstraints(t *testing.T) {
	n := node(5, 5, 10, 10, "", "")
	n.Constraints = nil
	r := Resolve(n, screen, false)
	if r.AnchorMin != scene.TopLeft || r.AnchorMax != scene.TopLeft {
		t.Errorf("anchors = %v..%v, want top-left", r.AnchorMin, r.AnchorMax)
	}
}

func TestResolveGroupUsesFirstChildConstraints(t *testing.T) {
	child := node(0, 0, 10, 10, design.ConstraintRight, design.ConstraintBottom)
	group := node(50, 60, 10, 10, design.ConstraintLeft, design.ConstraintTop)
	group.Kind = design.KindGroup
	group.Children = []*design.Node{child}
	r := Resolve(group, screen, false)
	if r.AnchorMin != (scene.Vec2{X: 1, Y: 0}) {
		t.Errorf("anchorMin = %v, want (1,0)", r.AnchorMin)
	}
}

func TestResolveGroupChildIsLocal(t *testing.T) {
	group := node(50, 60, 100, 100, design.ConstraintLeft, design.ConstraintTop)
	group.Kind = design.KindGroup
	child := node(70, 90, 10, 10, design.ConstraintLeft, design.ConstraintTop)
	group.Children = []*design.Node{child}
	r := Resolve(child, group, false)
	if r.AnchoredPosition != (scene.Vec2{X: 20, Y: -30}) {
		t.Errorf("position = %v, want (20,-30)", r.AnchoredPosition)
	}
}

func TestResolveMasked(t *testing.T) {
	screenSize := scene.Vec2{X: 400, Y: 800}
	mask := node(100, 50, 80, 40, design.ConstraintLeft, design.ConstraintTop)
	maskMin, maskMax := Resolve(mask, screen, false).Layout(screenSize)

	tests := []struct {
		name    string
		h, v    design.Constraint
		wantMin scene.Vec2
		wantPos scene.Vec2
	}{
		{
			name: "LeftTop", h: design.ConstraintLeft, v: design.ConstraintTop,
			wantMin: scene.Vec2{X: 0, Y: 1}, wantPos: scene.Vec2{X: 20, Y: -10},
		},
		{
			name: "RightBottom", h: design.ConstraintRight, v: design.ConstraintBottom,
			wantMin: scene.Vec2{X: 1, Y: 0}, wantPos: scene.Vec2{X: -60, Y: 30},
		},
		{
			name: "Center", h: design.ConstraintCenter, v: design.ConstraintCenter,
			wantMin: scene.Vec2{X: 0.5, Y: 0.5}, wantPos: scene.Vec2{X: -20, Y: 10},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := node(120, 60, 20, 10, tt.h, tt.v)
			r := ResolveMasked(n, mask, false)
			if r.AnchorMin != tt.wantMin || r.AnchoredPosition != tt.wantPos {
				t.Errorf("anchorMin = %v position = %v, want %v %v", r.AnchorMin, r.AnchoredPosition, tt.wantMin, tt.wantPos)
			}
			// Inside the mask the node keeps its place on screen.
			local, _ := r.Layout(maskMax.Sub(maskMin))
			want, _ := Resolve(n, screen, false).Layout(screenSize)
			if got := maskMin.Add(local); got != want {
				t.Errorf("world min = %v, want %v", got, want)
			}
		})
	}
}

func TestResolveRotation(t *testing.T) {
	s, c := math.Sincos(math.Pi / 4)
	n := node(0, 0, 10, 10, design.ConstraintLeft, design.ConstraintTop)
	n.RelativeTransform = &design.Transform{{c, s, 0}, {-s, c, 0}}
	r := Resolve(n, screen, false)
	if math.Abs(r.Rotation-45) > 1e-9 {
		t.Errorf("rotation = %v, want 45", r.Rotation)
	}
}

func TestCenterPivot(t *testing.T) {
	parentSize := scene.Vec2{X: 400, Y: 800}
	s, c := math.Sincos(0.6)
	constraints := []design.Constraint{design.ConstraintLeft, design.ConstraintRight, design.ConstraintCenter, design.ConstraintLeftRight, design.ConstraintScale}
	vertical := []design.Constraint{design.ConstraintTop, design.ConstraintBottom, design.ConstraintCenter, design.ConstraintTopBottom, design.ConstraintScale}
	for i, h := range constraints {
		n := node(30, 40, 120, 60, h, vertical[i])
		n.RelativeTransform = &design.Transform{{c, s, 30}, {-s, c, 40}}
		plain := Resolve(n, screen, false)
		centered := Resolve(n, screen, true)
		if centered.Pivot != scene.Center {
			t.Fatalf("pivot = %v", centered.Pivot)
		}
		a, b := plain.WorldCenter(parentSize), centered.WorldCenter(parentSize)
		if math.Hypot(a.X-b.X, a.Y-b.Y) > 1e-4 {
			t.Errorf("%s/%s: center moved from %v to %v", h, vertical[i], a, b)
		}
		if again := centered.WithPivot(scene.Center, parentSize); again != centered {
			t.Errorf("%s: re-centering is not a no-op", h)
		}
	}
}
