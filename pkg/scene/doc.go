// Package scene defines the UI scene graph produced by the generator.
//
// # Coordinates
//
// Scene nodes are positioned by an anchored rectangle ([Rect]) relative to
// their parent, with the vertical axis pointing up. A rectangle is described
// by normalized anchors into the parent (AnchorMin, AnchorMax), a normalized
// Pivot inside the node, the AnchoredPosition of the pivot relative to the
// anchor reference point, a SizeDelta added to the anchored span, and a
// Rotation in degrees (counter-clockwise) around the pivot.
//
// For a parent of size P:
//
//	offsetMin = AnchoredPosition - SizeDelta * Pivot
//	min       = P * AnchorMin + offsetMin
//	max       = P * AnchorMax + AnchoredPosition + SizeDelta * (1 - Pivot)
//
// [Rect.Layout] evaluates these equations; [Rect.Corners] additionally
// applies the rotation.
//
// # Ownership
//
// A [Node] exclusively owns its children. Optional parts (shape, text,
// image, layout, scroll, ...) are nil when absent. [Node.Clone] produces a
// fully independent deep copy, which is how templates are instantiated.
//
// # Bundles
//
// A [Bundle] is the serialized output of one build: named screen and
// component assets plus the prototype flow. Bundles are written as JSON with
// [WriteBundle] and read back with [ReadBundle].
package scene
