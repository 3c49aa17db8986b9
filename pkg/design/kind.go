package design

import (
	"encoding/json"
	"fmt"
)

// Kind is the closed set of design node kinds.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindDocument
	KindCanvas
	KindFrame
	KindGroup
	KindSection
	KindVector
	KindBooleanOperation
	KindStar
	KindLine
	KindEllipse
	KindRegularPolygon
	KindRectangle
	KindText
	KindSlice
	KindComponent
	KindComponentSet
	KindInstance

	kindCount
)

// traits describes how the generator treats a kind.
type traits struct {
	wire      string // JSON "type" value
	container bool   // children are walked
	frameLike bool   // may scroll, auto-layout and clip
	vector    bool   // complex vector geometry, rendered by the server
	shape     bool   // simple live geometry (rect, ellipse)
	emits     bool   // produces a scene node
}

var kindTraits = [...]traits{
	KindUnknown:          {wire: "UNKNOWN", emits: true},
	KindDocument:         {wire: "DOCUMENT", container: true},
	KindCanvas:           {wire: "CANVAS", container: true},
	KindFrame:            {wire: "FRAME", container: true, frameLike: true, emits: true},
	KindGroup:            {wire: "GROUP", container: true, emits: true},
	KindSection:          {wire: "SECTION", container: true, emits: true},
	KindVector:           {wire: "VECTOR", vector: true, emits: true},
	KindBooleanOperation: {wire: "BOOLEAN_OPERATION", container: true, vector: true, emits: true},
	KindStar:             {wire: "STAR", vector: true, emits: true},
	KindLine:             {wire: "LINE", vector: true, emits: true},
	KindEllipse:          {wire: "ELLIPSE", shape: true, emits: true},
	KindRegularPolygon:   {wire: "REGULAR_POLYGON", vector: true, emits: true},
	KindRectangle:        {wire: "RECTANGLE", shape: true, emits: true},
	KindText:             {wire: "TEXT", emits: true},
	KindSlice:            {wire: "SLICE"},
	KindComponent:        {wire: "COMPONENT", container: true, frameLike: true, emits: true},
	KindComponentSet:     {wire: "COMPONENT_SET", container: true, frameLike: true, emits: true},
	KindInstance:         {wire: "INSTANCE", container: true, frameLike: true, emits: true},
}

// Compile-time check that every kind has a trait entry.
var _ = [1]struct{}{}[len(kindTraits)-int(kindCount)]

var kindByWire = func() map[string]Kind {
	m := make(map[string]Kind, kindCount)
	for k := KindUnknown; k < kindCount; k++ {
		m[kindTraits[k].wire] = k
	}
	return m
}()

// ParseKind maps a wire type name to a Kind. Unrecognized names map to
// KindUnknown.
func ParseKind(s string) Kind {
	if k, ok := kindByWire[s]; ok {
		return k
	}
	return KindUnknown
}

// String returns the wire type name.
func (k Kind) String() string {
	if k >= kindCount {
		return fmt.Sprintf("Kind(%d)", k)
	}
	return kindTraits[k].wire
}

// IsContainer reports whether children of this kind are walked.
func (k Kind) IsContainer() bool { return k < kindCount && kindTraits[k].container }

// IsFrameLike reports whether the kind supports scrolling, auto-layout and
// clipping.
func (k Kind) IsFrameLike() bool { return k < kindCount && kindTraits[k].frameLike }

// IsVectorShape reports whether the kind holds complex vector geometry.
func (k Kind) IsVectorShape() bool { return k < kindCount && kindTraits[k].vector }

// IsShape reports whether the kind is simple live geometry.
func (k Kind) IsShape() bool { return k < kindCount && kindTraits[k].shape }

// Emits reports whether the kind produces a scene node at all.
func (k Kind) Emits() bool { return k < kindCount && kindTraits[k].emits }

// MarshalJSON encodes the kind as its wire name.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a wire name. Unknown names decode to KindUnknown.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("node type: %w", err)
	}
	*k = ParseKind(s)
	return nil
}
