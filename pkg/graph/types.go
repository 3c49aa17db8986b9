package graph

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/matzehuels/figtree/pkg/dag"
)

// Node kinds as they appear in the wire format.
const (
	KindScreen    = "screen"
	KindComponent = "component"
	KindMissing   = "missing"
)

// Graph is the serialized template dependency graph.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Node is a template of the graph.
type Node struct {
	ID    string         `json:"id" bson:"id"`
	Label string         `json:"label,omitempty" bson:"label,omitempty"` // Display name (defaults to ID)
	Kind  string         `json:"kind" bson:"kind"`
	Meta  map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is a directed dependency: From contains an instance of To.
type Edge struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
}

// FromDAG converts a DAG to its serialization format. Nodes are sorted by
// ID; edges keep insertion order.
func FromDAG(g *dag.DAG) Graph {
	nodes := g.Nodes()
	slices.SortFunc(nodes, func(a, b *dag.Node) int { return cmp.Compare(a.ID, b.ID) })

	out := Graph{
		Nodes: make([]Node, len(nodes)),
		Edges: make([]Edge, 0, g.EdgeCount()),
	}
	for i, n := range nodes {
		out.Nodes[i] = Node{ID: n.ID, Label: n.Label, Kind: kindName(n.Kind)}
		if len(n.Meta) > 0 {
			out.Nodes[i].Meta = n.Meta
		}
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, Edge(e))
	}
	return out
}

// ToDAG rebuilds a DAG from its serialization format. Unknown kinds,
// dangling edges and cycles are errors.
func ToDAG(data Graph) (*dag.DAG, error) {
	g := dag.New()
	for _, n := range data.Nodes {
		kind, err := parseKind(n.Kind)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
		if err := g.AddNode(dag.Node{ID: n.ID, Label: n.Label, Kind: kind, Meta: n.Meta}); err != nil {
			return nil, fmt.Errorf("node %q: %w", n.ID, err)
		}
	}
	for _, e := range data.Edges {
		if err := g.AddEdge(dag.Edge(e)); err != nil {
			return nil, fmt.Errorf("edge %s -> %s: %w", e.From, e.To, err)
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func kindName(k dag.NodeKind) string {
	switch k {
	case dag.NodeKindScreen:
		return KindScreen
	case dag.NodeKindMissing:
		return KindMissing
	default:
		return KindComponent
	}
}

func parseKind(s string) (dag.NodeKind, error) {
	switch s {
	case KindScreen:
		return dag.NodeKindScreen, nil
	case KindComponent, "":
		return dag.NodeKindComponent, nil
	case KindMissing:
		return dag.NodeKindMissing, nil
	default:
		return 0, fmt.Errorf("unknown kind %q", s)
	}
}
