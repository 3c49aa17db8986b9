package dag

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [DAG.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [DAG.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [DAG.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [DAG.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrGraphHasCycle is returned by [DAG.Validate] and [DAG.TopologicalOrder]
	// when a cycle is detected. Cycles are found by depth-first search with
	// white/gray/black coloring.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Metadata stores arbitrary key-value pairs attached to nodes.
type Metadata map[string]any

// NodeKind distinguishes the templates a node stands for.
type NodeKind int

const (
	// NodeKindComponent is a component definition.
	NodeKindComponent NodeKind = iota
	// NodeKindScreen is a top-level screen.
	NodeKindScreen
	// NodeKindMissing is a referenced definition with no template.
	NodeKindMissing
)

// Node is a vertex of the dependency graph.
type Node struct {
	ID    string   // Definition id of the template
	Label string   // Display name
	Kind  NodeKind // Screen, component or missing definition
	Meta  Metadata // Arbitrary metadata (never nil after AddNode)
}

// Edge is a directed dependency: From contains an instance of To.
type Edge struct {
	From string
	To   string
}

// DAG is a directed graph of template dependencies. Iteration order is
// insertion order, so every traversal is deterministic.
//
// The zero value is not usable - use New. DAG is not safe for concurrent
// use without external synchronization.
type DAG struct {
	nodes    map[string]*Node
	order    []string
	edges    []Edge
	outgoing map[string][]string
	incoming map[string][]string
}

// New creates an empty graph.
func New() *DAG {
	return &DAG{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddNode adds a node. Returns ErrInvalidNodeID for an empty ID and
// ErrDuplicateNodeID if the ID is taken.
func (d *DAG) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := d.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	d.nodes[n.ID] = &n
	d.order = append(d.order, n.ID)
	return nil
}

// AddEdge adds a directed edge between two existing nodes. Adding an edge
// that already exists is a no-op.
func (d *DAG) AddEdge(e Edge) error {
	if _, ok := d.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := d.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	if slices.Contains(d.outgoing[e.From], e.To) {
		return nil
	}
	d.edges = append(d.edges, e)
	d.outgoing[e.From] = append(d.outgoing[e.From], e.To)
	d.incoming[e.To] = append(d.incoming[e.To], e.From)
	return nil
}

// Node returns the node with the given ID.
func (d *DAG) Node(id string) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (d *DAG) Nodes() []*Node {
	out := make([]*Node, len(d.order))
	for i, id := range d.order {
		out[i] = d.nodes[id]
	}
	return out
}

// Edges returns a copy of all edges in insertion order.
func (d *DAG) Edges() []Edge { return slices.Clone(d.edges) }

// NodeCount returns the number of nodes.
func (d *DAG) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges.
func (d *DAG) EdgeCount() int { return len(d.edges) }

// Children returns the IDs this node depends on. The slice is a read-only
// view.
func (d *DAG) Children(id string) []string { return d.outgoing[id] }

// Parents returns the IDs depending on this node. The slice is a read-only
// view.
func (d *DAG) Parents(id string) []string { return d.incoming[id] }

// Sources returns nodes nothing depends on, in insertion order.
func (d *DAG) Sources() []*Node {
	var out []*Node
	for _, id := range d.order {
		if len(d.incoming[id]) == 0 {
			out = append(out, d.nodes[id])
		}
	}
	return out
}

// Sinks returns nodes without dependencies, in insertion order.
func (d *DAG) Sinks() []*Node {
	var out []*Node
	for _, id := range d.order {
		if len(d.outgoing[id]) == 0 {
			out = append(out, d.nodes[id])
		}
	}
	return out
}

// Validate returns ErrGraphHasCycle if the graph has a cycle.
func (d *DAG) Validate() error {
	if d.FindCycle() != nil {
		return ErrGraphHasCycle
	}
	return nil
}

const (
	white = iota
	gray
	black
)

// FindCycle returns the node IDs of one cycle, first node repeated at the
// end, or nil if the graph is acyclic.
func (d *DAG) FindCycle() []string {
	color := make(map[string]int, len(d.nodes))
	var stack, cycle []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		color[id] = gray
		stack = append(stack, id)
		for _, child := range d.outgoing[id] {
			switch color[child] {
			case white:
				if dfs(child) {
					return true
				}
			case gray:
				start := slices.Index(stack, child)
				cycle = append(slices.Clone(stack[start:]), child)
				return true
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
		return false
	}

	for _, id := range d.order {
		if color[id] == white && dfs(id) {
			return cycle
		}
	}
	return nil
}

// TopologicalOrder returns every node ID such that each node comes after
// all of its dependencies (leaves first). Ties keep insertion order.
// Returns ErrGraphHasCycle for cyclic graphs.
func (d *DAG) TopologicalOrder() ([]string, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	visited := make(map[string]bool, len(d.nodes))
	out := make([]string, 0, len(d.nodes))
	var visit func(id string)
	visit = func(id string) {
		visited[id] = true
		for _, child := range d.outgoing[id] {
			if !visited[child] {
				visit(child)
			}
		}
		out = append(out, id)
	}
	for _, id := range d.order {
		if !visited[id] {
			visit(id)
		}
	}
	return out, nil
}
