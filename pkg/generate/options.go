package generate

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/figtree/pkg/behavior"
	"github.com/matzehuels/figtree/pkg/component"
	"github.com/matzehuels/figtree/pkg/dag"
	"github.com/matzehuels/figtree/pkg/flow"
	"github.com/matzehuels/figtree/pkg/fonts"
	"github.com/matzehuels/figtree/pkg/scene"
	"github.com/matzehuels/figtree/pkg/substitution"
)

// Options configures a build.
type Options struct {
	// Substitutions lists nodes replaced by server-rendered bitmaps.
	Substitutions substitution.Set

	// Fonts maps design fonts to scene font handles.
	Fonts fonts.Mapper

	// BuildPrototypeFlow records transitions and wires them onto scene nodes.
	BuildPrototypeFlow bool

	// CenterPivots moves every pivot to the middle of its node.
	CenterPivots bool

	// KeepSourceIDs keeps design node ids on scene nodes after the build.
	KeepSourceIDs bool

	// Behaviors, when set, binds behaviors registered under
	// BehaviorNamespace to matching templates.
	Behaviors         *behavior.Registry
	BehaviorNamespace string

	// OnScreen is called for every screen and section in document order.
	OnScreen func(flow.Entry)

	// Persist is called once per finalized template, screens first, then
	// components, each in registration order. An error aborts the build.
	Persist func(*component.Template) error

	// Logger receives warnings and debug output. Defaults to discarding.
	Logger *log.Logger
}

// Stats summarizes a build.
type Stats struct {
	Nodes      int `json:"nodes"`
	Screens    int `json:"screens"`
	Components int `json:"components"`
	Instances  int `json:"instances"`
	Orphans    int `json:"orphans"`
	Bound      int `json:"bound"`
	Warnings   int `json:"warnings"`
}

// Result is the output of Build.
type Result struct {
	Registry   *component.Registry
	Screens    []*component.Template
	Components []*component.Template
	// Orphans are the visibly-marked nodes standing in for instances of
	// definitions missing from the document.
	Orphans []*scene.Node
	// Graph is the template dependency graph.
	Graph    *dag.DAG
	Flow     *flow.Graph
	Warnings int
	Stats    Stats
}

// Bundle packages the result for serialization.
func (r *Result) Bundle(document string) *scene.Bundle {
	b := &scene.Bundle{
		Document:   document,
		Screens:    make([]scene.Asset, 0, len(r.Screens)),
		Components: make([]scene.Asset, 0, len(r.Components)),
		Flow:       r.Flow,
		Warnings:   r.Warnings,
	}
	for _, t := range r.Screens {
		b.Screens = append(b.Screens, t.Asset())
	}
	for _, t := range r.Components {
		b.Components = append(b.Components, t.Asset())
	}
	return b
}
