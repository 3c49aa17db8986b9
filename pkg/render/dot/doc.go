// Package dot renders the structure of a build as Graphviz diagrams.
//
// Two views are available:
//
//   - [Templates]: the template dependency graph. Screens are bold boxes,
//     components rounded boxes and missing definitions dashed magenta boxes.
//     An edge A -> B means A contains an instance of B.
//   - [Flow]: the prototype flow. Screens are grouped into one cluster per
//     section, transitions become edges and flow starting points are marked
//     with an entry arrow.
//
// Both return DOT source that [RenderSVG] turns into SVG in-process using
// [github.com/goccy/go-graphviz]:
//
//	src := dot.Templates(res.Graph, dot.Options{})
//	svg, err := dot.RenderSVG(ctx, src)
package dot
