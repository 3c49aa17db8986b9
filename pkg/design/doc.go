// Package design provides the typed model of a vector-design document.
//
// # Overview
//
// A design document is a tree of [Node] values rooted at a document node,
// with canvases (pages) directly below it. Canvases hold screens (top-level
// frames), sections, and component definitions. Side tables on [Document]
// describe components, component sets and shared styles.
//
// The JSON shape follows the Figma REST "file" response, so a downloaded
// file can be decoded directly:
//
//	doc, err := design.ReadDocumentFile("file.json")
//	if err != nil {
//	    return err
//	}
//	if err := design.Validate(doc); err != nil {
//	    return err // malformed input is rejected before any generation
//	}
//
// # Node kinds
//
// [Kind] is a closed enumeration. Every kind has an entry in the package's
// trait table (container, frame-like, vector shape, ...), and unrecognized
// kinds decode to [KindUnknown] instead of failing, so newer documents still
// build with degraded fidelity.
//
// # Immutability
//
// Nodes are constructed once by decoding and are treated as read-only by
// every other package. Optional fields whose absence carries a default
// (visibility, opacity) are pointers and are read through accessor methods.
package design
