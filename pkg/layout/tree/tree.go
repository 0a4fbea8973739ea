// Package tree lays out parent-child hierarchies as left-to-right trees.
//
// Each parent-child connected component is laid out on its own: children
// sit to the right of their parent, siblings are stacked vertically and every
// parent is vertically centered on the span of its children. The result is
// translated rigidly so the component's first root keeps its original
// position; only relative structure changes, which makes the layout
// idempotent.
//
// All traversals are iterative with explicit visited sets, so deep and cyclic
// inputs are safe.
package tree

import (
	"fmt"
	"math"

	"github.com/matzehuels/nodecanvas/pkg/geom"
	"github.com/matzehuels/nodecanvas/pkg/graph"
)

// Default spacings, in canvas units.
const (
	DefaultHorizontalSpacing = 48.0
	DefaultVerticalSpacing   = 16.0
	DefaultRootSpacing       = 32.0
)

// Options configures tree layout.
type Options struct {
	// HorizontalSpacing is the gap between a parent's right edge and its
	// children's left edge.
	HorizontalSpacing float64 `toml:"horizontal_spacing"`
	// VerticalSpacing is the minimum gap between sibling subtrees.
	VerticalSpacing float64 `toml:"vertical_spacing"`
	// RootSpacing is the gap between stacked roots of one component.
	RootSpacing float64 `toml:"root_spacing"`
}

// SetDefaults fills zero spacings with the defaults.
func (o *Options) SetDefaults() {
	if o.HorizontalSpacing == 0 {
		o.HorizontalSpacing = DefaultHorizontalSpacing
	}
	if o.VerticalSpacing == 0 {
		o.VerticalSpacing = DefaultVerticalSpacing
	}
	if o.RootSpacing == 0 {
		o.RootSpacing = DefaultRootSpacing
	}
}

// Validate rejects negative or non-finite spacings.
func (o Options) Validate() error {
	for name, v := range map[string]float64{
		"horizontal_spacing": o.HorizontalSpacing,
		"vertical_spacing":   o.VerticalSpacing,
		"root_spacing":       o.RootSpacing,
	} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("invalid %s: %v", name, v)
		}
	}
	return nil
}

// Layout recomputes bounds for the components containing any of seeds, or
// for every component when seeds is empty. It returns the new bounds of the
// nodes that moved; nodes outside the laid-out components never appear in
// the result. Widths and heights are never changed.
func Layout(g graph.Graph, seeds []graph.NodeID, opts Options) map[graph.NodeID]geom.Rect {
	opts.SetDefaults()
	out := make(map[graph.NodeID]geom.Rect)
	for _, c := range Components(g) {
		if !touches(c, seeds) {
			continue
		}
		for id, r := range layoutComponent(g, c, opts) {
			if n, _ := g.Node(id); n.Bounds != r {
				out[id] = r
			}
		}
	}
	return out
}

// Apply runs Layout and returns g with the new bounds.
func Apply(g graph.Graph, seeds []graph.NodeID, opts Options) graph.Graph {
	return g.WithBounds(Layout(g, seeds, opts))
}

func touches(c Component, seeds []graph.NodeID) bool {
	if len(seeds) == 0 {
		return true
	}
	for _, s := range seeds {
		if c.Contains(s) {
			return true
		}
	}
	return false
}

func layoutComponent(g graph.Graph, c Component, opts Options) map[graph.NodeID]geom.Rect {
	f := buildForest(g, c)
	size := make(map[graph.NodeID]geom.Rect, len(c.Nodes))
	for _, id := range c.Nodes {
		n, _ := g.Node(id)
		size[id] = n.Bounds
	}

	// Post-order extents: f.order lists parents before children.
	extent := make(map[graph.NodeID]float64, len(f.order))
	for i := len(f.order) - 1; i >= 0; i-- {
		id := f.order[i]
		extent[id] = math.Max(childSpan(f.kids[id], extent, opts.VerticalSpacing), size[id].Height)
	}

	placed := make(map[graph.NodeID]geom.Rect, len(f.order))
	top := 0.0
	for _, root := range f.roots {
		r := size[root]
		placed[root] = geom.Rect{X: 0, Y: top + (extent[root]-r.Height)/2, Width: r.Width, Height: r.Height}
		blockTop := map[graph.NodeID]float64{root: top}

		queue := []graph.NodeID{root}
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			kids := f.kids[id]
			if len(kids) == 0 {
				continue
			}
			p := placed[id]
			span := childSpan(kids, extent, opts.VerticalSpacing)
			y := blockTop[id] + (extent[id]-span)/2
			x := p.MaxX() + opts.HorizontalSpacing
			for _, k := range kids {
				kr := size[k]
				blockTop[k] = y
				placed[k] = geom.Rect{X: x, Y: y + (extent[k]-kr.Height)/2, Width: kr.Width, Height: kr.Height}
				y += extent[k] + opts.VerticalSpacing
				queue = append(queue, k)
			}
		}
		top += extent[root] + opts.RootSpacing
	}

	anchor := f.roots[0]
	orig := size[anchor]
	delta := geom.Vector{DX: orig.X - placed[anchor].X, DY: orig.Y - placed[anchor].Y}
	for id, r := range placed {
		placed[id] = r.Translate(delta)
	}
	return placed
}

// childSpan is the vertical extent of a sibling list including spacing.
func childSpan(kids []graph.NodeID, extent map[graph.NodeID]float64, spacing float64) float64 {
	if len(kids) == 0 {
		return 0
	}
	span := spacing * float64(len(kids)-1)
	for _, k := range kids {
		span += extent[k]
	}
	return span
}
