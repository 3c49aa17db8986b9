// Package style copies visual properties of design nodes onto scene nodes.
//
// Application never fails: unsupported kinds, paints and effects are
// skipped silently. The only recoverable problem that is reported is a
// missing font face, which is logged and counted as a warning.
//
// Applying a design node to a scene node overwrites every property the
// package manages, so re-applying the properties of an instance on top of a
// copied component template yields the instance's look.
package style

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/figtree/pkg/design"
	"github.com/matzehuels/figtree/pkg/fonts"
	"github.com/matzehuels/figtree/pkg/scene"
)

// Applier applies design properties to scene nodes.
type Applier struct {
	fonts       fonts.Mapper
	transitions bool
	logger      *log.Logger
	warnings    int
}

// Option configures an Applier.
type Option func(*Applier)

// WithFonts sets the font mapper. The default maps every font to
// fonts.DefaultHandle.
func WithFonts(m fonts.Mapper) Option {
	return func(a *Applier) { a.fonts = m }
}

// WithTransitions enables prototype transitions.
func WithTransitions(enabled bool) Option {
	return func(a *Applier) { a.transitions = enabled }
}

// WithLogger sets the logger for warnings.
func WithLogger(l *log.Logger) Option {
	return func(a *Applier) { a.logger = l }
}

// New returns an Applier.
func New(opts ...Option) *Applier {
	a := &Applier{fonts: fonts.Default(), logger: log.New(io.Discard)}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Warnings returns the number of warnings logged so far.
func (a *Applier) Warnings() int { return a.warnings }

// Apply copies the properties of n onto target.
func (a *Applier) Apply(n *design.Node, target *scene.Node) {
	target.Active = n.IsVisible()

	switch {
	case n.Kind == design.KindText:
		target.Shape = nil
		target.Text = a.text(n)
	default:
		target.Text = nil
		target.Shape = shape(n)
	}

	if n.Alpha() < 1 || target.Group != nil {
		target.Group = &scene.Group{Alpha: n.Alpha()}
	}
	target.Clip = n.Kind.IsFrameLike() && n.ClipsContent
	target.Mask = n.IsMask

	target.Transition = nil
	if a.transitions && n.TransitionNodeID != "" {
		target.Transition = &scene.Transition{TargetID: n.TransitionNodeID}
	}
}

// ApplyEffects maps the first visible drop shadow of a non-text node onto
// target. Inner shadows and blurs have no scene equivalent and are dropped.
// Text shadows are handled by the text material in Apply.
func (a *Applier) ApplyEffects(n *design.Node, target *scene.Node) {
	target.Shadow = nil
	if n.Kind == design.KindText {
		return
	}
	if e, ok := firstDropShadow(n.Effects); ok {
		target.Shadow = &scene.Shadow{
			Color:  color(e.Color, 1),
			Offset: scene.Vec2{X: e.Offset.X, Y: -e.Offset.Y},
			Radius: e.Radius,
			Spread: e.Spread,
		}
	}
}

func firstDropShadow(effects []design.Effect) (design.Effect, bool) {
	for _, e := range effects {
		if e.Type == design.EffectDropShadow && e.IsVisible() {
			return e, true
		}
	}
	return design.Effect{}, false
}

func shape(n *design.Node) *scene.Shape {
	fill := firstFill(n.Fills)
	stroke := firstStroke(n)
	var kind scene.ShapeKind
	switch {
	case n.Kind == design.KindEllipse:
		kind = scene.ShapeEllipse
	case n.Kind == design.KindRectangle:
		kind = scene.ShapeRect
	case (n.Kind.IsFrameLike() || n.Kind == design.KindSection) && (fill != nil || stroke != nil):
		kind = scene.ShapeRect
	default:
		return nil
	}
	return &scene.Shape{Kind: kind, Fill: fill, Stroke: stroke, CornerRadii: cornerRadii(n)}
}

func cornerRadii(n *design.Node) [4]float64 {
	if len(n.RectangleCornerRadii) == 4 {
		return [4]float64(n.RectangleCornerRadii)
	}
	r := n.CornerRadius
	return [4]float64{r, r, r, r}
}

func firstFill(paints []design.Paint) *scene.Fill {
	for _, p := range paints {
		if !p.IsVisible() {
			continue
		}
		switch p.Type {
		case design.PaintSolid:
			return &scene.Fill{Type: scene.FillSolid, Color: color(p.Color, p.Alpha())}
		case design.PaintGradientLinear, design.PaintGradientRadial:
			return gradient(p)
		case design.PaintImage:
			return &scene.Fill{Type: scene.FillImage, Color: scene.Color{R: 1, G: 1, B: 1, A: p.Alpha()}, ImageRef: p.ImageRef}
		}
	}
	return nil
}

func gradient(p design.Paint) *scene.Fill {
	f := &scene.Fill{Type: scene.FillLinearGradient}
	if p.Type == design.PaintGradientRadial {
		f.Type = scene.FillRadialGradient
	}
	for _, s := range p.GradientStops {
		f.Stops = append(f.Stops, scene.GradientStop{Position: s.Position, Color: color(s.Color, p.Alpha())})
	}
	// Handle positions are normalized with the vertical axis pointing down.
	if len(p.GradientHandlePositions) >= 2 {
		h := p.GradientHandlePositions
		f.Start = scene.Vec2{X: h[0].X, Y: 1 - h[0].Y}
		f.End = scene.Vec2{X: h[1].X, Y: 1 - h[1].Y}
	}
	return f
}

func firstStroke(n *design.Node) *scene.Stroke {
	if n.StrokeWeight <= 0 {
		return nil
	}
	for _, p := range n.Strokes {
		if p.IsVisible() && p.Type == design.PaintSolid {
			return &scene.Stroke{Color: color(p.Color, p.Alpha()), Weight: n.StrokeWeight, Align: n.StrokeAlign}
		}
	}
	return nil
}

func color(c design.Color, alpha float64) scene.Color {
	return scene.Color{R: c.R, G: c.G, B: c.B, A: c.A * alpha}
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
