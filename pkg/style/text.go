package style

import (
	"github.com/matzehuels/figtree/pkg/design"
	"github.com/matzehuels/figtree/pkg/scene"
)

var (
	horizontalAlign = map[string]string{"LEFT": "left", "CENTER": "center", "RIGHT": "right", "JUSTIFIED": "justified"}
	verticalAlign   = map[string]string{"TOP": "top", "CENTER": "middle", "BOTTOM": "bottom"}
	textCase        = map[string]string{"UPPER": "upper", "LOWER": "lower", "TITLE": "title", "SMALL_CAPS": "small-caps", "SMALL_CAPS_FORCED": "small-caps"}
	textDecoration  = map[string]string{"UNDERLINE": "underline", "STRIKETHROUGH": "strikethrough"}
)

// OutlineWidth converts a stroke weight to a normalized outline width:
// 4 × strokeWeight / fontSize clamped to [0, 0.5].
func OutlineWidth(strokeWeight, fontSize float64) float64 {
	if fontSize <= 0 {
		return 0
	}
	return Clamp(4*strokeWeight/fontSize, 0, 0.5)
}

func (a *Applier) text(n *design.Node) *scene.Text {
	st := design.TypeStyle{FontSize: 12, FontWeight: 400}
	if n.Style != nil {
		st = *n.Style
	}
	t := &scene.Text{
		Characters:      n.Characters,
		FontSize:        st.FontSize,
		Color:           scene.Color{A: 1},
		HorizontalAlign: orDefault(horizontalAlign[st.TextAlignHorizontal], "left"),
		VerticalAlign:   orDefault(verticalAlign[st.TextAlignVertical], "top"),
		Case:            textCase[st.TextCase],
		Decoration:      textDecoration[st.TextDecoration],
		Italic:          st.Italic,
		LetterSpacing:   st.LetterSpacing,
		LineHeight:      st.LineHeightPx,
		Material:        scene.MaterialPlain,
	}
	switch st.TextAutoResize {
	case "WIDTH_AND_HEIGHT":
		t.AutoSize = true
	case "HEIGHT":
		t.Wrap = true
	}

	handle, exact := a.fonts.Lookup(st.FontFamily, st.FontWeight, st.Italic)
	if !exact {
		a.warnings++
		a.logger.Warn("font not available, using closest match",
			"node", n.ID, "family", st.FontFamily, "weight", st.FontWeight, "font", handle)
	}
	t.Font = handle

	if f := firstFill(n.Fills); f != nil && f.Type == scene.FillSolid {
		t.Color = f.Color
	}

	outline := firstStroke(n)
	if outline != nil {
		t.OutlineWidth = OutlineWidth(n.StrokeWeight, st.FontSize)
		t.OutlineColor = outline.Color
	}
	shadow, hasShadow := firstDropShadow(n.Effects)
	if hasShadow && st.FontSize > 0 {
		t.Underlay = &scene.Underlay{
			Color: color(shadow.Color, 1),
			Offset: scene.Vec2{
				X: Clamp(shadow.Offset.X/st.FontSize, -1, 1),
				Y: Clamp(-shadow.Offset.Y/st.FontSize, -1, 1),
			},
			Softness: Clamp(shadow.Radius/st.FontSize, 0, 1),
		}
	}

	switch {
	case outline != nil && t.Underlay != nil:
		t.Material = scene.MaterialOutlineUnderlay
	case outline != nil:
		t.Material = scene.MaterialOutline
	case t.Underlay != nil:
		t.Material = scene.MaterialUnderlay
	}
	return t
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
