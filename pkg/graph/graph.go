package graph

import (
	"maps"
	"slices"

	"github.com/matzehuels/nodecanvas/pkg/geom"
)

// =============================================================================
// Graph - Immutable Aggregate
// =============================================================================

// Graph is the immutable aggregate root of the canvas: nodes and edges keyed
// by id, the focused node, the selection, collapsed subtree roots and the
// area partition.
//
// A Graph is a value. Every operation that changes it returns a new Graph and
// leaves the receiver untouched. Maps that an operation does not modify are
// shared between the old and the new value, so keeping many versions alive
// (for undo history) costs one map copy per changed field, not a deep copy.
// Maps held by a Graph are never written after construction.
//
// The zero value is an empty graph ready to use.
type Graph struct {
	nodes     map[NodeID]Node
	edges     map[EdgeID]Edge
	focused   NodeID
	selected  map[NodeID]struct{}
	collapsed map[NodeID]struct{}
	areas     map[AreaID]Area
}

// New returns an empty graph.
func New() Graph { return Graph{} }

// =============================================================================
// Nodes
// =============================================================================

// Node returns the node with the given id.
func (g Graph) Node(id NodeID) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// HasNode reports whether a node with the given id exists.
func (g Graph) HasNode(id NodeID) bool {
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns all nodes sorted by id.
func (g Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.nodes))
	for _, id := range g.NodeIDs() {
		out = append(out, g.nodes[id])
	}
	return out
}

// NodeIDs returns all node ids in ascending order.
func (g Graph) NodeIDs() []NodeID {
	return slices.Sorted(maps.Keys(g.nodes))
}

// NodeCount returns the number of nodes.
func (g Graph) NodeCount() int { return len(g.nodes) }

// IsEmpty reports whether the graph has no nodes.
func (g Graph) IsEmpty() bool { return len(g.nodes) == 0 }

// =============================================================================
// Edges
// =============================================================================

// Edge returns the edge with the given id.
func (g Graph) Edge(id EdgeID) (Edge, bool) {
	e, ok := g.edges[id]
	return e, ok
}

// Edges returns all edges sorted by id.
func (g Graph) Edges() []Edge {
	ids := slices.Sorted(maps.Keys(g.edges))
	out := make([]Edge, len(ids))
	for i, id := range ids {
		out[i] = g.edges[id]
	}
	return out
}

// EdgeCount returns the number of edges.
func (g Graph) EdgeCount() int { return len(g.edges) }

// EdgesOf returns every edge with id as an endpoint, sorted by edge id.
func (g Graph) EdgesOf(id NodeID) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.Touches(id) {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b Edge) int { return compareStrings(a.ID, b.ID) })
	return out
}

// =============================================================================
// Focus, Selection, Collapse
// =============================================================================

// Focused returns the focused node id, if any.
func (g Graph) Focused() (NodeID, bool) {
	return g.focused, g.focused != ""
}

// FocusedNode returns the focused node, if focus is set and the node exists.
func (g Graph) FocusedNode() (Node, bool) {
	if g.focused == "" {
		return Node{}, false
	}
	return g.Node(g.focused)
}

// Selected returns the selected node ids in ascending order.
func (g Graph) Selected() []NodeID { return slices.Sorted(maps.Keys(g.selected)) }

// IsSelected reports whether id is selected.
func (g Graph) IsSelected(id NodeID) bool {
	_, ok := g.selected[id]
	return ok
}

// Collapsed returns the collapsed subtree roots in ascending order. Roots are
// stored as given; use package fold to obtain the valid ones.
func (g Graph) Collapsed() []NodeID { return slices.Sorted(maps.Keys(g.collapsed)) }

// IsCollapsed reports whether id is stored as a collapsed root.
func (g Graph) IsCollapsed(id NodeID) bool {
	_, ok := g.collapsed[id]
	return ok
}

// WithFocus returns a copy of g focused on id. An empty id clears focus. The
// id is not validated; callers normalize with package fold.
func (g Graph) WithFocus(id NodeID) Graph {
	g.focused = id
	return g
}

// WithSelection returns a copy of g with exactly ids selected.
func (g Graph) WithSelection(ids ...NodeID) Graph {
	g.selected = setOf(ids)
	return g
}

// WithCollapsed returns a copy of g with exactly ids stored as collapsed
// roots.
func (g Graph) WithCollapsed(ids ...NodeID) Graph {
	g.collapsed = setOf(ids)
	return g
}

// =============================================================================
// Areas
// =============================================================================

// Area returns a copy of the area with the given id.
func (g Graph) Area(id AreaID) (Area, bool) {
	a, ok := g.areas[id]
	if !ok {
		return Area{}, false
	}
	return a.Clone(), true
}

// Areas returns all areas sorted by id.
func (g Graph) Areas() []Area {
	ids := slices.Sorted(maps.Keys(g.areas))
	out := make([]Area, len(ids))
	for i, id := range ids {
		out[i] = g.areas[id].Clone()
	}
	return out
}

// AreaOf returns the id of the first area, in id order, that contains the
// node. Use package area for partition-aware lookups.
func (g Graph) AreaOf(id NodeID) (AreaID, bool) {
	for _, aid := range slices.Sorted(maps.Keys(g.areas)) {
		if g.areas[aid].Contains(id) {
			return aid, true
		}
	}
	return "", false
}

// AreaCount returns the number of areas.
func (g Graph) AreaCount() int { return len(g.areas) }

// WithArea returns a copy of g with a inserted or replaced. The member set is
// copied.
func (g Graph) WithArea(a Area) Graph {
	areas := cloneMap(g.areas)
	areas[a.ID] = a.Clone()
	g.areas = areas
	return g
}

// WithoutArea returns a copy of g without the area id.
func (g Graph) WithoutArea(id AreaID) Graph {
	if _, ok := g.areas[id]; !ok {
		return g
	}
	areas := cloneMap(g.areas)
	delete(areas, id)
	g.areas = areas
	return g
}

// WithAreas returns a copy of g whose areas are exactly areas.
func (g Graph) WithAreas(areas ...Area) Graph {
	m := make(map[AreaID]Area, len(areas))
	for _, a := range areas {
		m[a.ID] = a.Clone()
	}
	g.areas = m
	return g
}

// =============================================================================
// Bulk Operations
// =============================================================================

// WithBounds returns a copy of g with node bounds replaced from bounds.
// Unknown ids are ignored. The node map is shared when nothing changes.
func (g Graph) WithBounds(bounds map[NodeID]geom.Rect) Graph {
	var nodes map[NodeID]Node
	for id, r := range bounds {
		n, ok := g.nodes[id]
		if !ok || n.Bounds == r {
			continue
		}
		if nodes == nil {
			nodes = cloneMap(g.nodes)
		}
		n.Bounds = r
		nodes[id] = n
	}
	if nodes != nil {
		g.nodes = nodes
	}
	return g
}

// Translate returns a copy of g with every node in ids moved by v.
func (g Graph) Translate(ids []NodeID, v geom.Vector) Graph {
	if v.IsZero() {
		return g
	}
	bounds := make(map[NodeID]geom.Rect, len(ids))
	for _, id := range ids {
		if n, ok := g.nodes[id]; ok {
			bounds[id] = n.Bounds.Translate(v)
		}
	}
	return g.WithBounds(bounds)
}

// Restrict returns the subgraph of nodes for which keep returns true. Edges
// survive only when both endpoints are kept. Focus is cleared when it points
// at a dropped node; selection, collapsed roots and area members are
// filtered.
func (g Graph) Restrict(keep func(NodeID) bool) Graph {
	out := Graph{
		nodes:     make(map[NodeID]Node, len(g.nodes)),
		edges:     make(map[EdgeID]Edge, len(g.edges)),
		selected:  make(map[NodeID]struct{}, len(g.selected)),
		collapsed: make(map[NodeID]struct{}, len(g.collapsed)),
		areas:     make(map[AreaID]Area, len(g.areas)),
	}
	for id, n := range g.nodes {
		if keep(id) {
			out.nodes[id] = n
		}
	}
	for id, e := range g.edges {
		if out.HasNode(e.From) && out.HasNode(e.To) {
			out.edges[id] = e
		}
	}
	if out.HasNode(g.focused) {
		out.focused = g.focused
	}
	for id := range g.selected {
		if out.HasNode(id) {
			out.selected[id] = struct{}{}
		}
	}
	for id := range g.collapsed {
		if out.HasNode(id) {
			out.collapsed[id] = struct{}{}
		}
	}
	for id, a := range g.areas {
		members := make(map[NodeID]struct{}, len(a.Members))
		for m := range a.Members {
			if out.HasNode(m) {
				members[m] = struct{}{}
			}
		}
		out.areas[id] = Area{ID: a.ID, Mode: a.Mode, Members: members}
	}
	return out
}

// =============================================================================
// Equality
// =============================================================================

// ContentEqual reports whether g and o have identical nodes, edges, areas and
// collapsed roots. Focus and selection are ignored: they are navigation state
// and do not count as content.
func (g Graph) ContentEqual(o Graph) bool {
	return maps.EqualFunc(g.nodes, o.nodes, Node.Equal) &&
		maps.EqualFunc(g.edges, o.edges, Edge.Equal) &&
		maps.EqualFunc(g.areas, o.areas, Area.Equal) &&
		maps.Equal(g.collapsed, o.collapsed)
}

// Equal reports whether g and o are identical including focus and selection.
func (g Graph) Equal(o Graph) bool {
	return g.focused == o.focused && maps.Equal(g.selected, o.selected) && g.ContentEqual(o)
}

// =============================================================================
// Internal Helpers
// =============================================================================

// cloneMap copies m into a new non-nil map.
func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m)+1)
	maps.Copy(out, m)
	return out
}

func setOf(ids []NodeID) map[NodeID]struct{} {
	m := make(map[NodeID]struct{}, len(ids))
	for _, id := range ids {
		if id != "" {
			m[id] = struct{}{}
		}
	}
	return m
}

func compareStrings[T ~string](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
