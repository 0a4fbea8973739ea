// Package area moves whole node clusters apart after structural edits.
//
// A [NodeArea] is a parent-child connected component (or a single node with
// no parent-child edges) together with its outline. [ResolveOverlaps] starts
// from the seed area, the cluster that was just edited, and pushes
// overlapping clusters apart with axis-aligned moves, propagating
// breadth-first until nothing overlaps or the iteration budget runs out.
package area

import (
	"fmt"
	"math"
	"slices"

	"github.com/matzehuels/nodecanvas/pkg/geom"
	"github.com/matzehuels/nodecanvas/pkg/graph"
	"github.com/matzehuels/nodecanvas/pkg/layout/tree"
)

// Defaults for overlap resolution.
const (
	DefaultMinimumSpacing = 40.0
	DefaultMaxIterations  = 128
)

// Options configures overlap resolution.
type Options struct {
	// MinimumSpacing is the smallest allowed gap between two areas.
	MinimumSpacing float64
	// MaxIterations bounds the number of pushes.
	MaxIterations int
	// DefaultDirection decides where to push when two areas share a center.
	// The zero value is geom.Up.
	DefaultDirection geom.Direction
	// Shape selects the outline used for overlap tests.
	Shape geom.ShapeKind
}

// SetDefaults fills zero fields with the defaults. DefaultDirection and
// Shape have meaningful zero values and are left alone.
func (o *Options) SetDefaults() {
	if o.MinimumSpacing == 0 {
		o.MinimumSpacing = DefaultMinimumSpacing
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = DefaultMaxIterations
	}
}

// Validate rejects negative spacing or budget.
func (o Options) Validate() error {
	if o.MinimumSpacing < 0 || math.IsNaN(o.MinimumSpacing) || math.IsInf(o.MinimumSpacing, 0) {
		return fmt.Errorf("invalid minimum_spacing: %v", o.MinimumSpacing)
	}
	if o.MaxIterations < 0 {
		return fmt.Errorf("invalid max_iterations: %d", o.MaxIterations)
	}
	return nil
}

// NodeArea is a cluster of nodes that moves as one unit.
type NodeArea struct {
	// ID is the smallest member id. It identifies the area within one
	// extraction and orders areas deterministically.
	ID      graph.NodeID
	Members []graph.NodeID
	Bounds  geom.Rect
	Shape   geom.Shape
}

// Translate returns a moved by v.
func (a NodeArea) Translate(v geom.Vector) NodeArea {
	a.Bounds = a.Bounds.Translate(v)
	a.Shape = a.Shape.Translate(v)
	return a
}

// Contains reports whether id is a member of a.
func (a NodeArea) Contains(id graph.NodeID) bool {
	_, found := slices.BinarySearch(a.Members, id)
	return found
}

// Extract builds one NodeArea per parent-child component of g plus one per
// node outside every component. The result is sorted by ID.
func Extract(g graph.Graph, kind geom.ShapeKind) []NodeArea {
	var out []NodeArea
	inComponent := make(map[graph.NodeID]bool, g.NodeCount())
	for _, c := range tree.Components(g) {
		for _, id := range c.Nodes {
			inComponent[id] = true
		}
		out = append(out, newNodeArea(g, c.Nodes, kind))
	}
	for _, id := range g.NodeIDs() {
		if !inComponent[id] {
			out = append(out, newNodeArea(g, []graph.NodeID{id}, kind))
		}
	}
	slices.SortFunc(out, func(a, b NodeArea) int { return compareIDs(a.ID, b.ID) })
	return out
}

// Find returns the area containing id.
func Find(areas []NodeArea, id graph.NodeID) (NodeArea, bool) {
	for _, a := range areas {
		if a.Contains(id) {
			return a, true
		}
	}
	return NodeArea{}, false
}

func newNodeArea(g graph.Graph, ids []graph.NodeID, kind geom.ShapeKind) NodeArea {
	members := slices.Clone(ids)
	slices.Sort(members)
	rects := make([]geom.Rect, len(members))
	for i, id := range members {
		n, _ := g.Node(id)
		rects[i] = n.Bounds
	}
	shape := geom.NewShape(kind, rects)
	return NodeArea{ID: members[0], Members: members, Bounds: shape.Bounds, Shape: shape}
}

// Overlaps reports whether a and b are closer than spacing.
func Overlaps(a, b NodeArea, spacing float64) bool {
	return a.Shape.Overlaps(b.Shape, spacing)
}

// ResolveOverlaps pushes areas apart starting from seed.
//
// The first area colliding with the seed, in ascending id order, is
// separated from it with the push split 50/50. Every moved area is then
// re-tested against all others in breadth-first order, and each collision
// moves only the other area by the full separation. Resolution stops when a
// pass finds no collision or after opts.MaxIterations pushes.
//
// The result maps area ids to their net translation. Areas that did not move
// are omitted; the map is empty when the seed collides with nothing.
func ResolveOverlaps(areas []NodeArea, seed graph.NodeID, opts Options) map[graph.NodeID]geom.Vector {
	opts.SetDefaults()
	out := make(map[graph.NodeID]geom.Vector)

	work := slices.Clone(areas)
	slices.SortFunc(work, func(a, b NodeArea) int { return compareIDs(a.ID, b.ID) })
	index := make(map[graph.NodeID]int, len(work))
	for i, a := range work {
		index[a.ID] = i
	}
	si, ok := index[seed]
	if !ok {
		return out
	}

	first := -1
	for i := range work {
		if i != si && Overlaps(work[si], work[i], opts.MinimumSpacing) {
			first = i
			break
		}
	}
	if first < 0 {
		return out
	}

	total := make([]geom.Vector, len(work))
	move := func(i int, v geom.Vector) {
		work[i] = work[i].Translate(v)
		total[i] = total[i].Plus(v)
	}

	push := separation(work[si], work[first], opts)
	move(si, push.Scale(-0.5))
	move(first, push.Scale(0.5))

	iterations := 1
	queue := []int{si, first}
	for len(queue) > 0 && iterations < opts.MaxIterations {
		m := queue[0]
		queue = queue[1:]
		for i := range work {
			if i == m || !Overlaps(work[m], work[i], opts.MinimumSpacing) {
				continue
			}
			if iterations >= opts.MaxIterations {
				break
			}
			move(i, separation(work[m], work[i], opts))
			iterations++
			queue = append(queue, i)
		}
	}

	for i, v := range total {
		if !v.IsZero() {
			out[work[i].ID] = v
		}
	}
	return out
}

// separation returns the translation that moves b clear of a by the
// minimum spacing.
//
// The axis is the one along which the centers are further apart, so the
// push follows the direction b already lies in. Equal distances pick x when
// a's id sorts first and y otherwise; coincident centers use the default
// direction.
func separation(a, b NodeArea, opts Options) geom.Vector {
	ca, cb := a.Bounds.Center(), b.Bounds.Center()
	d := cb.Sub(ca)
	s := opts.MinimumSpacing

	var dir geom.Direction
	switch ax, ay := math.Abs(d.DX), math.Abs(d.DY); {
	case ax == 0 && ay == 0:
		dir = opts.DefaultDirection
	case ax > ay || (ax == ay && a.ID < b.ID):
		dir = geom.Right
		if d.DX < 0 {
			dir = geom.Left
		}
	default:
		dir = geom.Down
		if d.DY < 0 {
			dir = geom.Up
		}
	}

	var need float64
	switch dir {
	case geom.Right:
		need = a.Bounds.MaxX() + s - b.Bounds.MinX()
	case geom.Left:
		need = b.Bounds.MaxX() + s - a.Bounds.MinX()
	case geom.Down:
		need = a.Bounds.MaxY() + s - b.Bounds.MinY()
	case geom.Up:
		need = b.Bounds.MaxY() + s - a.Bounds.MinY()
	}
	if need < 0 {
		need = 0
	}
	return dir.Unit().Scale(need)
}

// Apply moves the members of every translated area.
func Apply(g graph.Graph, areas []NodeArea, translations map[graph.NodeID]geom.Vector) graph.Graph {
	for _, a := range areas {
		if v, ok := translations[a.ID]; ok {
			g = g.Translate(a.Members, v)
		}
	}
	return g
}

func compareIDs(a, b graph.NodeID) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
