package design

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/figtree/pkg/errors"
)

const sampleDoc = `{
  "name": "Sample",
  "schemaVersion": 0,
  "document": {
    "id": "0:0", "name": "Document", "type": "DOCUMENT",
    "children": [{
      "id": "0:1", "name": "Page 1", "type": "CANVAS",
      "flowStartingPoints": [{"nodeId": "1:1", "name": "Flow 1"}],
      "children": [{
        "id": "1:1", "name": "Home", "type": "FRAME",
        "size": {"x": 375, "y": 812},
        "relativeTransform": [[1, 0, 0], [0, 1, 0]],
        "children": [],
        "overflowDirection": "VERTICAL_SCROLLING",
        "clipsContent": true
      }, {
        "id": "2:1", "name": "Sparkle", "type": "HOLOGRAM",
        "size": {"x": 10, "y": 10},
        "relativeTransform": [[1, 0, 400], [0, 1, 0]]
      }]
    }]
  },
  "components": {"3:1": {"key": "abc", "name": "Button"}}
}`

func TestReadDocument(t *testing.T) {
	doc, err := ReadDocument(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("ReadDocument: %v", err)
	}
	if doc.Name != "Sample" {
		t.Errorf("Name = %q, want Sample", doc.Name)
	}
	canvases := doc.Canvases()
	if len(canvases) != 1 {
		t.Fatalf("len(Canvases) = %d, want 1", len(canvases))
	}
	page := canvases[0]
	if got := page.FlowStartingPoints; len(got) != 1 || got[0].NodeID != "1:1" {
		t.Errorf("FlowStartingPoints = %+v", got)
	}
	home := page.Children[0]
	if home.Kind != KindFrame {
		t.Errorf("Kind = %v, want FRAME", home.Kind)
	}
	if home.Children != nil {
		t.Errorf("empty children should normalize to nil, got %#v", home.Children)
	}
	if !home.IsScrolling() || !home.ClipsContent {
		t.Errorf("scroll flags not decoded: %+v", home)
	}
	if !home.IsVisible() || home.Alpha() != 1 {
		t.Errorf("defaults: visible=%v alpha=%v", home.IsVisible(), home.Alpha())
	}
	if got := page.Children[1].Kind; got != KindUnknown {
		t.Errorf("unknown type decoded as %v, want UNKNOWN", got)
	}
	if doc.ComponentName("3:1") != "Button" {
		t.Errorf("ComponentName = %q", doc.ComponentName("3:1"))
	}
}

func TestReadDocumentMalformed(t *testing.T) {
	if _, err := ReadDocument(strings.NewReader(`{"document": [`)); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestReadDocumentFileMissing(t *testing.T) {
	if _, err := ReadDocumentFile("/nonexistent/file.json"); err == nil {
		t.Fatal("expected open error")
	}
}

func TestWriteDocumentRoundTrip(t *testing.T) {
	doc, err := UnmarshalDocument([]byte(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteDocument(doc, &buf); err != nil {
		t.Fatal(err)
	}
	again, err := ReadDocument(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if again.Root.Children[0].Children[0].Name != "Home" {
		t.Errorf("round trip lost nodes")
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"FRAME", KindFrame},
		{"BOOLEAN_OPERATION", KindBooleanOperation},
		{"INSTANCE", KindInstance},
		{"COMPONENT_SET", KindComponentSet},
		{"frame", KindUnknown},
		{"", KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseKind(tt.in); got != tt.want {
				t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestKindTraits(t *testing.T) {
	for k := KindUnknown; k < kindCount; k++ {
		if ParseKind(k.String()) != k {
			t.Errorf("%v does not round trip", k)
		}
	}
	if !KindInstance.IsFrameLike() || KindGroup.IsFrameLike() {
		t.Error("frame-like traits wrong")
	}
	if KindCanvas.Emits() || KindSlice.Emits() || !KindText.Emits() {
		t.Error("emit traits wrong")
	}
	if !KindStar.IsVectorShape() || KindRectangle.IsVectorShape() {
		t.Error("vector traits wrong")
	}
	if Kind(200).String() != "Kind(200)" || Kind(200).Emits() {
		t.Error("out of range kind should be inert")
	}
}

func TestTransform(t *testing.T) {
	c, s := math.Cos(math.Pi/6), math.Sin(math.Pi/6)
	// Rotation by 30 degrees counter-clockwise in y-up space is clockwise in
	// the y-down source space.
	tr := Transform{{c, s, 10}, {-s, c, 20}}
	if got := tr.RotationDegrees(); math.Abs(got-30) > 1e-9 {
		t.Errorf("RotationDegrees = %v, want 30", got)
	}
	if got := tr.Translation(); got != (Vector{X: 10, Y: 20}) {
		t.Errorf("Translation = %v", got)
	}
	var n *Node
	if n.TransformOrIdentity() != (Transform{{1, 0, 0}, {0, 1, 0}}) {
		t.Error("nil node should yield identity")
	}
	if n.SizeOrZero() != (Vector{}) {
		t.Error("nil node should yield zero size")
	}
}

func TestTransformInverse(t *testing.T) {
	c, s := math.Cos(0.4), math.Sin(0.4)
	tests := []struct {
		name string
		tr   Transform
	}{
		{"translation", Transform{{1, 0, 100}, {0, 1, 50}}},
		{"rotation", Transform{{c, s, 10}, {-s, c, 20}}},
		{"scale", Transform{{2, 0, 4}, {0, 0.5, -8}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.tr.Inverse().Then(tt.tr)
			want := Transform{{1, 0, 0}, {0, 1, 0}}
			for r := range 2 {
				for k := range 3 {
					if math.Abs(got[r][k]-want[r][k]) > 1e-9 {
						t.Fatalf("inverse then transform = %v, want identity", got)
					}
				}
			}
		})
	}

	singular := Transform{{0, 0, 3}, {0, 0, 4}}
	if got := singular.Inverse(); got != (Transform{{1, 0, -3}, {0, 1, -4}}) {
		t.Errorf("singular inverse = %v", got)
	}
}

func TestTransformThen(t *testing.T) {
	move := Transform{{1, 0, 100}, {0, 1, 50}}
	local := Transform{{1, 0, 20}, {0, 1, 10}}
	if got := move.Then(local).Translation(); got != (Vector{X: 120, Y: 60}) {
		t.Errorf("Then translation = %v, want (120,60)", got)
	}
}

func TestEffectiveConstraints(t *testing.T) {
	child := &Node{ID: "2", Constraints: &Constraints{Horizontal: ConstraintRight, Vertical: ConstraintBottom}}
	group := &Node{ID: "1", Kind: KindGroup, Constraints: &Constraints{Horizontal: ConstraintLeft}, Children: []*Node{child}}
	if got := group.EffectiveConstraints(); got != child.Constraints {
		t.Errorf("group constraints = %+v, want first child's", got)
	}
	empty := &Node{ID: "3", Kind: KindGroup, Constraints: &Constraints{Horizontal: ConstraintCenter}}
	if got := empty.EffectiveConstraints(); got.Horizontal != ConstraintCenter {
		t.Errorf("childless group should keep its own constraints")
	}
}

func TestLocalID(t *testing.T) {
	tests := []struct{ in, want string }{
		{"1:2", "1:2"},
		{"I1:2;3:4", "3:4"},
		{"I1:2;3:4;5:6", "5:6"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := LocalID(tt.in); got != tt.want {
			t.Errorf("LocalID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIndex(t *testing.T) {
	doc, err := UnmarshalDocument([]byte(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}
	ix := NewIndex(doc.Root)
	if ix.Len() != 4 {
		t.Errorf("Len = %d, want 4", ix.Len())
	}
	p, ok := ix.Parent("1:1")
	if !ok || p.ID != "0:1" {
		t.Errorf("Parent(1:1) = %v, %v", p, ok)
	}
	anc := ix.Ancestors("1:1")
	if len(anc) != 2 || anc[0].ID != "0:1" || anc[1].ID != "0:0" {
		t.Errorf("Ancestors = %v", anc)
	}
	if _, ok := ix.Node("9:9"); ok {
		t.Error("unexpected node")
	}
}

func TestWalkSkipsChildren(t *testing.T) {
	doc, _ := UnmarshalDocument([]byte(sampleDoc))
	var visited []string
	Walk(doc.Root, func(n, _ *Node) bool {
		visited = append(visited, n.ID)
		return n.Kind != KindCanvas
	})
	if strings.Join(visited, ",") != "0:0,0:1" {
		t.Errorf("visited = %v", visited)
	}
}

func frame(id string, children ...*Node) *Node {
	return &Node{
		ID: id, Name: id, Kind: KindFrame,
		Size:              &Vector{X: 100, Y: 100},
		RelativeTransform: &Transform{{1, 0, 0}, {0, 1, 0}},
		Children:          children,
	}
}

func wrap(children ...*Node) *Document {
	return &Document{Root: &Node{ID: "0:0", Kind: KindDocument, Children: []*Node{
		{ID: "0:1", Kind: KindCanvas, Children: children},
	}}}
}

func TestValidate(t *testing.T) {
	half, over := 0.5, 1.5
	tests := []struct {
		name    string
		doc     *Document
		wantErr string
	}{
		{name: "Valid", doc: wrap(frame("1:1", frame("1:2")))},
		{name: "NilDocument", doc: nil, wantErr: "no root"},
		{name: "DuplicateID", doc: wrap(frame("1:1"), frame("1:1")), wantErr: "duplicate node id 1:1"},
		{name: "EmptyID", doc: wrap(frame("")), wantErr: "cannot be empty"},
		{
			name: "SelfChild",
			doc: func() *Document {
				f := frame("1:1")
				f.Children = []*Node{f}
				return wrap(f)
			}(),
			wantErr: "lists itself as a child",
		},
		{
			name: "MissingGeometry",
			doc: wrap(&Node{ID: "1:1", Kind: KindRectangle}),
			wantErr: "relativeTransform: is required",
		},
		{
			name: "OpacityRange",
			doc: func() *Document {
				f := frame("1:1")
				f.Opacity = &over
				return wrap(f)
			}(),
			wantErr: "opacity",
		},
		{
			name: "OpacityInRange",
			doc: func() *Document {
				f := frame("1:1")
				f.Opacity = &half
				return wrap(f)
			}(),
		},
		{
			name: "SelfInstancingComponent",
			doc: func() *Document {
				inst := frame("1:2")
				inst.Kind = KindInstance
				inst.ComponentID = "1:1"
				c := frame("1:1", inst)
				c.Kind = KindComponent
				return wrap(c)
			}(),
			wantErr: "nested inside its own component",
		},
		{
			name: "SliceNeedsNoGeometry",
			doc:  wrap(&Node{ID: "1:1", Kind: KindSlice}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.doc)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !errors.Is(err, errors.ErrCodeInvalidDocument) {
				t.Errorf("code = %q, want INVALID_DOCUMENT", errors.GetCode(err))
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}
