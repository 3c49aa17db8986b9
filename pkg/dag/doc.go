// Package dag provides the dependency graph between reusable templates.
//
// # Overview
//
// Screens and component definitions may contain instances of other
// components. Each template is a node, and an edge From → To means the From
// template contains at least one instance of To. Instances are resolved
// leaves first: a template can only be copied after every placeholder
// inside it has been replaced, which is exactly a topological order of this
// graph.
//
// # Basic Usage
//
//	g := dag.New()
//	g.AddNode(dag.Node{ID: "1:1", Label: "Home", Kind: dag.NodeKindScreen})
//	g.AddNode(dag.Node{ID: "2:1", Label: "Button"})
//	g.AddEdge(dag.Edge{From: "1:1", To: "2:1"})
//
//	order, err := g.TopologicalOrder() // ["2:1", "1:1"]
//
// # Cycles
//
// A component that (transitively) contains an instance of itself cannot be
// expanded. [DAG.FindCycle] returns one offending cycle for error reporting
// and [DAG.TopologicalOrder] refuses cyclic graphs with [ErrGraphHasCycle].
//
// # Determinism
//
// Nodes, edges, sources, sinks and the topological order all follow
// insertion order, so building the same document twice processes templates
// in the same sequence.
package dag
