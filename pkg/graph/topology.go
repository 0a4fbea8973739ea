package graph

import (
	"cmp"
	"slices"
)

// CompareEdges orders edges canonically: by destination id, then source id,
// then edge id. Parent resolution and child ordering rely on this order
// being total.
func CompareEdges(a, b Edge) int {
	if c := cmp.Compare(a.To, b.To); c != 0 {
		return c
	}
	if c := cmp.Compare(a.From, b.From); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// ParentChildEdges returns the parent-child edges whose endpoints both exist,
// in canonical order.
func (g Graph) ParentChildEdges() []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.IsParentChild() && g.HasNode(e.From) && g.HasNode(e.To) {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, CompareEdges)
	return out
}

// ParentEdge returns the edge naming the parent of id: the first incoming
// parent-child edge in canonical order.
func (g Graph) ParentEdge(id NodeID) (Edge, bool) {
	var best Edge
	found := false
	for _, e := range g.edges {
		if !e.IsParentChild() || e.To != id || !g.HasNode(e.From) {
			continue
		}
		if !found || CompareEdges(e, best) < 0 {
			best, found = e, true
		}
	}
	return best, found
}

// Parent returns the parent of id, if any.
func (g Graph) Parent(id NodeID) (NodeID, bool) {
	e, ok := g.ParentEdge(id)
	return e.From, ok
}

// ChildEdges returns the parent-child edges from parent that actually name
// parent as their child's parent, sorted in sibling order.
func (g Graph) ChildEdges(parent NodeID) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if !e.IsParentChild() || e.From != parent || !g.HasNode(e.To) {
			continue
		}
		if pe, ok := g.ParentEdge(e.To); ok && pe.ID == e.ID {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, g.CompareSiblings)
	return out
}

// Children returns the children of parent in sibling order: explicit Order
// first, then canonical edge order, then position and id.
func (g Graph) Children(parent NodeID) []NodeID {
	edges := g.ChildEdges(parent)
	out := make([]NodeID, len(edges))
	for i, e := range edges {
		out[i] = e.To
	}
	return out
}

// CompareSiblings orders two parent-child edges from the same parent.
// Explicitly ordered children precede unordered ones.
func (g Graph) CompareSiblings(a, b Edge) int {
	ao, aok := a.OrderValue()
	bo, bok := b.OrderValue()
	switch {
	case aok && bok:
		if c := cmp.Compare(ao, bo); c != 0 {
			return c
		}
	case aok:
		return -1
	case bok:
		return 1
	}
	if c := CompareEdges(a, b); c != 0 {
		return c
	}
	return ComparePosition(g.nodes[a.To], g.nodes[b.To])
}

// ComparePosition orders nodes top to bottom, then left to right, then by
// id. It is the tie breaker wherever a deterministic spatial order is needed.
func ComparePosition(a, b Node) int {
	if c := cmp.Compare(a.Bounds.Y, b.Bounds.Y); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Bounds.X, b.Bounds.X); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// NextChildOrder returns one more than the largest explicit order among the
// children of parent, or 0 when none is set.
func (g Graph) NextChildOrder(parent NodeID) int {
	next := 0
	for _, e := range g.ChildEdges(parent) {
		if o, ok := e.OrderValue(); ok && o >= next {
			next = o + 1
		}
	}
	return next
}
