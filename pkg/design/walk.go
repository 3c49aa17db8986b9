package design

import "strings"

// Walk visits n and its descendants depth-first in painter's order. If fn
// returns false the node's children are skipped.
func Walk(n *Node, fn func(n, parent *Node) bool) {
	walk(n, nil, fn)
}

func walk(n, parent *Node, fn func(n, parent *Node) bool) {
	if n == nil || !fn(n, parent) {
		return
	}
	for _, c := range n.Children {
		walk(c, n, fn)
	}
}

// Index maps node ids to nodes and to their parents.
type Index struct {
	nodes   map[string]*Node
	parents map[string]*Node
}

// NewIndex indexes every node below root. Later duplicates of an id
// overwrite earlier ones; Validate rejects such documents.
func NewIndex(root *Node) *Index {
	ix := &Index{
		nodes:   make(map[string]*Node),
		parents: make(map[string]*Node),
	}
	Walk(root, func(n, parent *Node) bool {
		ix.nodes[n.ID] = n
		if parent != nil {
			ix.parents[n.ID] = parent
		}
		return true
	})
	return ix
}

// Node returns the node with the given id.
func (ix *Index) Node(id string) (*Node, bool) {
	n, ok := ix.nodes[id]
	return n, ok
}

// Parent returns the parent of the node with the given id.
func (ix *Index) Parent(id string) (*Node, bool) {
	p, ok := ix.parents[id]
	return p, ok
}

// Len returns the number of indexed nodes.
func (ix *Index) Len() int { return len(ix.nodes) }

// Ancestors returns the ancestors of id, nearest first.
func (ix *Index) Ancestors(id string) []*Node {
	var out []*Node
	for p, ok := ix.parents[id]; ok; p, ok = ix.parents[p.ID] {
		out = append(out, p)
	}
	return out
}

// LocalID returns the last ';'-separated segment of an id. Nodes inside an
// instance carry compound ids ("I1:2;3:4"); the trailing segment names the
// matching node of the component definition.
func LocalID(id string) string {
	if i := strings.LastIndexByte(id, ';'); i >= 0 {
		return id[i+1:]
	}
	return id
}
