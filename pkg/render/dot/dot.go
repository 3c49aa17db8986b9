package dot

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/figtree/pkg/dag"
	"github.com/matzehuels/figtree/pkg/flow"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds node metadata to template labels and source node ids
	// to transition edges.
	Detailed bool
}

func header(buf *bytes.Buffer, rankdir string) {
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")
}

// Templates converts a template dependency graph to DOT.
func Templates(g *dag.DAG, opts Options) string {
	var buf bytes.Buffer
	header(&buf, "TB")

	for _, n := range g.Nodes() {
		attrs := []string{fmt.Sprintf("label=%q", templateLabel(*n, opts.Detailed))}
		switch n.Kind {
		case dag.NodeKindScreen:
			attrs = append(attrs, "style=\"filled,bold\"", "fillcolor=lightblue")
		case dag.NodeKindMissing:
			attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=\"#ffccff\"", "color=magenta")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func templateLabel(n dag.Node, detailed bool) string {
	label := n.Label
	if label == "" {
		label = n.ID
	}
	if !detailed {
		return label
	}
	parts := []string{n.ID}
	for _, k := range slices.Sorted(maps.Keys(n.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Meta[k]))
	}
	return label + "\n" + strings.Join(parts, "\n")
}

// Flow converts a prototype flow to DOT.
func Flow(f *flow.Graph, opts Options) string {
	var buf bytes.Buffer
	header(&buf, "LR")

	children := make(map[string][]flow.Entry)
	for _, s := range f.Sections {
		children[s.SectionID] = append(children[s.SectionID], s)
	}

	var cluster func(section string, indent string)
	cluster = func(section string, indent string) {
		for _, s := range f.ScreensIn(section) {
			fmt.Fprintf(&buf, "%s%q [label=%q];\n", indent, s.ID, s.Name)
		}
		for _, sub := range children[section] {
			fmt.Fprintf(&buf, "%ssubgraph %q {\n", indent, "cluster_"+sub.ID)
			fmt.Fprintf(&buf, "%s  label=%q;\n", indent, sub.Name)
			fmt.Fprintf(&buf, "%s  style=\"rounded,dashed\";\n", indent)
			cluster(sub.ID, indent+"  ")
			fmt.Fprintf(&buf, "%s}\n", indent)
		}
	}
	cluster("", "  ")

	if len(f.StartingPoints) > 0 {
		buf.WriteString("\n")
	}
	for i, sp := range f.StartingPoints {
		if _, ok := f.Screen(sp.ScreenID); !ok {
			continue
		}
		start := fmt.Sprintf("start_%d", i)
		fmt.Fprintf(&buf, "  %q [shape=plaintext, style=\"\", label=%q];\n", start, sp.Name)
		fmt.Fprintf(&buf, "  %q -> %q [style=bold];\n", start, sp.ScreenID)
	}

	buf.WriteString("\n")
	if opts.Detailed {
		for _, t := range f.Transitions {
			if _, ok := f.Screen(t.TargetID); !ok {
				continue
			}
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", t.ScreenID, t.TargetID, t.SourceID)
		}
	} else {
		for _, e := range f.Edges() {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
		}
	}
	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz svg tag with one whose viewBox
// starts at the origin and whose size matches it, so the image scales.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
