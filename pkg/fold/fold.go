// Package fold computes which nodes are hidden by collapsed subtrees.
//
// A collapsed root hides every node reachable from it over parent-child
// edges. Collapsed roots stored in a graph are never trusted: a root is only
// valid while it exists and still has at least one descendant, and validity
// is recomputed on every call.
package fold

import (
	"slices"

	"github.com/matzehuels/nodecanvas/pkg/graph"
)

// Descendants returns every node reachable from root over parent-child
// edges, excluding root itself, in breadth-first order. Cycles are handled
// with a visited set.
func Descendants(g graph.Graph, root graph.NodeID) []graph.NodeID {
	adj := childIndex(g)
	visited := map[graph.NodeID]bool{root: true}
	queue := []graph.NodeID{root}
	var out []graph.NodeID
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, c := range adj[id] {
			if visited[c] {
				continue
			}
			visited[c] = true
			out = append(out, c)
			queue = append(queue, c)
		}
	}
	return out
}

// HasDescendants reports whether root has at least one child.
func HasDescendants(g graph.Graph, root graph.NodeID) bool {
	for _, e := range g.ParentChildEdges() {
		if e.From == root && e.To != root {
			return true
		}
	}
	return false
}

// ValidCollapsed returns the stored collapsed roots that exist and have at
// least one descendant, in ascending order.
func ValidCollapsed(g graph.Graph) []graph.NodeID {
	var out []graph.NodeID
	for _, id := range g.Collapsed() {
		if g.HasNode(id) && HasDescendants(g, id) {
			out = append(out, id)
		}
	}
	return out
}

// Hidden returns the union of the descendants of all valid collapsed roots.
func Hidden(g graph.Graph) map[graph.NodeID]bool {
	hidden := make(map[graph.NodeID]bool)
	for _, root := range ValidCollapsed(g) {
		for _, id := range Descendants(g, root) {
			hidden[id] = true
		}
	}
	return hidden
}

// IsHidden reports whether id is hidden by a collapsed ancestor.
func IsHidden(g graph.Graph, id graph.NodeID) bool {
	return Hidden(g)[id]
}

// Visible restricts g to its visible nodes. Edges touching hidden nodes are
// dropped, focus is cleared if it became hidden and the selection is
// renormalized.
func Visible(g graph.Graph) graph.Graph {
	hidden := Hidden(g)
	if len(hidden) == 0 {
		return normalizeSelection(g, nil)
	}
	v := g.Restrict(func(id graph.NodeID) bool { return !hidden[id] })
	return normalizeSelection(v, nil)
}

// Normalize prunes invalid collapsed roots, clears focus when it points at a
// missing or hidden node and sets the selection to {focused} ∪ (selection ∩
// visible).
func Normalize(g graph.Graph) graph.Graph {
	valid := ValidCollapsed(g)
	if len(valid) != len(g.Collapsed()) {
		g = g.WithCollapsed(valid...)
	}
	hidden := Hidden(g)
	if id, ok := g.Focused(); ok && (!g.HasNode(id) || hidden[id]) {
		g = g.WithFocus("")
	}
	return normalizeSelection(g, hidden)
}

// Toggle collapses root if it is expanded and expands it if it is
// collapsed. Toggling a node without descendants returns g unchanged.
func Toggle(g graph.Graph, root graph.NodeID) graph.Graph {
	if !g.HasNode(root) || !HasDescendants(g, root) {
		return g
	}
	ids := g.Collapsed()
	if i := slices.Index(ids, root); i >= 0 {
		ids = slices.Delete(ids, i, i+1)
	} else {
		ids = append(ids, root)
	}
	return Normalize(g.WithCollapsed(ids...))
}

// Expand removes root from the collapsed set, if present.
func Expand(g graph.Graph, root graph.NodeID) graph.Graph {
	if !g.IsCollapsed(root) {
		return g
	}
	ids := g.Collapsed()
	ids = slices.DeleteFunc(ids, func(id graph.NodeID) bool { return id == root })
	return g.WithCollapsed(ids...)
}

// ExpandAncestors expands every collapsed ancestor of id so that id becomes
// visible.
func ExpandAncestors(g graph.Graph, id graph.NodeID) graph.Graph {
	seen := map[graph.NodeID]bool{id: true}
	for {
		p, ok := g.Parent(id)
		if !ok || seen[p] {
			return g
		}
		seen[p] = true
		g = Expand(g, p)
		id = p
	}
}

func normalizeSelection(g graph.Graph, hidden map[graph.NodeID]bool) graph.Graph {
	var sel []graph.NodeID
	for _, id := range g.Selected() {
		if g.HasNode(id) && !hidden[id] {
			sel = append(sel, id)
		}
	}
	if id, ok := g.Focused(); ok && !slices.Contains(sel, id) {
		sel = append(sel, id)
	}
	if slices.Equal(sel, g.Selected()) {
		return g
	}
	return g.WithSelection(sel...)
}

func childIndex(g graph.Graph) map[graph.NodeID][]graph.NodeID {
	adj := make(map[graph.NodeID][]graph.NodeID)
	for _, e := range g.ParentChildEdges() {
		adj[e.From] = append(adj[e.From], e.To)
	}
	for id := range adj {
		slices.Sort(adj[id])
	}
	return adj
}
