package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/nodecanvas/pkg/fold"
	"github.com/matzehuels/nodecanvas/pkg/graph"
)

// Layout engines accepted by [Options].
const (
	LayoutPinned = "pinned" // canvas coordinates, pinned under neato
	LayoutDot    = "dot"    // hierarchical re-layout by Graphviz
)

// pointsPerInch converts canvas units (treated as points) to DOT sizes.
const pointsPerInch = 72.0

// Options configures DOT generation.
type Options struct {
	// Layout selects how positions are chosen. LayoutPinned (the default)
	// keeps the canvas coordinates; LayoutDot lets Graphviz arrange nodes.
	Layout string

	// Clusters draws each area as a labelled cluster.
	Clusters bool
}

// SetDefaults fills in unset fields.
func (o *Options) SetDefaults() {
	if o.Layout == "" {
		o.Layout = LayoutPinned
	}
}

// Validate reports an unknown layout.
func (o Options) Validate() error {
	switch o.Layout {
	case "", LayoutPinned, LayoutDot:
		return nil
	}
	return fmt.Errorf("unknown layout %q (want %s or %s)", o.Layout, LayoutPinned, LayoutDot)
}

// ToDOT converts a canvas graph to Graphviz DOT source.
//
// Nodes are emitted in id order so equal graphs produce equal output. The
// focused node gets a thick outline, selected nodes a tinted fill and
// collapsed roots a "(+n)" suffix with the number of hidden descendants.
// Parent-child edges are solid, normal edges dashed.
func ToDOT(g graph.Graph, opts Options) string {
	opts.SetDefaults()

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if opts.Layout == LayoutPinned {
		buf.WriteString("  layout=neato;\n")
	} else {
		buf.WriteString("  rankdir=LR;\n")
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, fixedsize=true];\n")
	buf.WriteString("  edge [arrowsize=0.6];\n")
	buf.WriteString("\n")

	if opts.Clusters {
		for _, a := range g.Areas() {
			fmt.Fprintf(&buf, "  subgraph %q {\n", "cluster_"+string(a.ID))
			fmt.Fprintf(&buf, "    label=%q; style=dashed; color=grey;\n", fmt.Sprintf("%s (%s)", a.ID, a.Mode))
			for _, id := range a.MemberIDs() {
				n, ok := g.Node(id)
				if !ok {
					continue
				}
				fmt.Fprintf(&buf, "    %q [%s];\n", n.ID, strings.Join(nodeAttrs(g, n, opts), ", "))
			}
			buf.WriteString("  }\n")
		}
	} else {
		for _, n := range g.Nodes() {
			fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(g, n, opts), ", "))
		}
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q", e.From, e.To)
		if attrs := edgeAttrs(e); len(attrs) > 0 {
			fmt.Fprintf(&buf, " [%s]", strings.Join(attrs, ", "))
		}
		buf.WriteString(";\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(g graph.Graph, n graph.Node, opts Options) []string {
	attrs := []string{
		fmt.Sprintf("label=%q", label(g, n)),
		fmt.Sprintf("width=%s", inches(n.Bounds.Width)),
		fmt.Sprintf("height=%s", inches(n.Bounds.Height)),
	}
	if opts.Layout == LayoutPinned {
		// Graphviz grows y upwards; the canvas grows it downwards.
		c := n.Bounds.Center()
		attrs = append(attrs, fmt.Sprintf("pos=\"%s,%s!\"", num(c.X), num(-c.Y)))
	}
	if f, ok := g.Focused(); ok && f == n.ID {
		attrs = append(attrs, "penwidth=3")
	}
	if g.IsSelected(n.ID) {
		attrs = append(attrs, "fillcolor=lightyellow")
	}
	if n.Kind == graph.KindGroup {
		attrs = append(attrs, "style=\"rounded,dashed\"")
	}
	return attrs
}

func label(g graph.Graph, n graph.Node) string {
	text := n.Text
	if text == "" {
		text = string(n.ID)
	}
	if g.IsCollapsed(n.ID) {
		text = fmt.Sprintf("%s (+%d)", text, len(fold.Descendants(g, n.ID)))
	}
	return text
}

func edgeAttrs(e graph.Edge) []string {
	var attrs []string
	if !e.IsParentChild() {
		attrs = append(attrs, "style=dashed")
	}
	if e.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Label))
	}
	return attrs
}

func inches(v float64) string { return num(v / pointsPerInch) }

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// RenderSVG renders DOT source to SVG using the embedded Graphviz.
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

	if strings.Contains(dot, "layout=neato;") {
		gv.SetLayout(graphviz.NEATO)
	}

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

// normalizeViewBox rewrites the root svg element so the drawing scales with
// its container.
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

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
