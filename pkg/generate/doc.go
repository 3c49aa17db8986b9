// Package generate builds scene graphs from design documents.
//
// # Overview
//
// [Build] turns a validated [design.Document] into screen and component
// templates. It runs as a phase machine:
//
//	Walking → AwaitingInstancing → Instancing → CleaningUp → Done
//
// Walking descends every canvas. Frames (and components) directly below a
// canvas or a section become screens. Nodes in the substitution set become
// single bitmap nodes. Component definitions are built once and registered
// as templates, and their location in the enclosing tree, like every
// component instance, is left as a placeholder.
//
// AwaitingInstancing is a barrier: it builds the dependency graph between
// templates and rejects cyclic component references.
//
// Instancing replaces placeholders with deep copies of their templates,
// leaves first, and re-applies the instance's own properties to the copy by
// matching design children on the trailing ';' segment of their ids.
// Placeholders whose definition is not in the document become orphans.
//
// CleaningUp marks orphans visibly, strips source ids and checks that no
// placeholder survived. Behaviors are then bound and every template is
// handed to the persistence hook.
//
// # Determinism
//
// The build is single-threaded and every traversal follows document order,
// so building the same document twice yields structurally identical trees.
package generate
