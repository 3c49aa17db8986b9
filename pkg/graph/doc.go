// Package graph provides the JSON wire format of the template dependency
// graph.
//
// A build records which screens and components contain instances of which
// components in a [dag.DAG]. This package converts that graph to and from
// a node-link document:
//
//	{
//	  "nodes": [
//	    {"id": "1:1", "label": "Home", "kind": "screen"},
//	    {"id": "2:1", "label": "Button", "kind": "component"}
//	  ],
//	  "edges": [{"from": "1:1", "to": "2:1"}]
//	}
//
// Use [FromDAG] and [ToDAG] to convert, and [WriteGraph] or [ReadGraph] to
// serialize. Nodes are sorted by id, so equal graphs encode identically.
package graph
