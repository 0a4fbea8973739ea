package tree

import (
	"cmp"
	"slices"

	"github.com/matzehuels/nodecanvas/pkg/graph"
)

// Component is a set of nodes connected by parent-child edges, ignoring
// edge direction.
type Component struct {
	// Nodes in breadth-first discovery order.
	Nodes []graph.NodeID
	// Edges are the parent-child edges inside the component, canonical order.
	Edges []graph.Edge
}

// Contains reports whether id is in the component.
func (c Component) Contains(id graph.NodeID) bool { return slices.Contains(c.Nodes, id) }

// Components extracts the parent-child connected components of g.
//
// Only parent-child edges whose endpoints both exist are considered, and
// nodes without such an edge are not part of any component. Traversal starts
// from the smallest unvisited id and visits neighbours in ascending id order,
// so the result depends only on graph content.
func Components(g graph.Graph) []Component {
	edges := g.ParentChildEdges()
	adj := make(map[graph.NodeID][]graph.NodeID)
	for _, e := range edges {
		adj[e.From] = append(adj[e.From], e.To)
		adj[e.To] = append(adj[e.To], e.From)
	}
	for id, ns := range adj {
		slices.Sort(ns)
		adj[id] = slices.Compact(ns)
	}

	starts := make([]graph.NodeID, 0, len(adj))
	for id := range adj {
		starts = append(starts, id)
	}
	slices.Sort(starts)

	compOf := make(map[graph.NodeID]int, len(adj))
	var comps []Component
	for _, start := range starts {
		if _, seen := compOf[start]; seen {
			continue
		}
		idx := len(comps)
		compOf[start] = idx
		order := []graph.NodeID{start}
		for i := 0; i < len(order); i++ {
			for _, n := range adj[order[i]] {
				if _, seen := compOf[n]; seen {
					continue
				}
				compOf[n] = idx
				order = append(order, n)
			}
		}
		comps = append(comps, Component{Nodes: order})
	}

	for _, e := range edges {
		i := compOf[e.From]
		comps[i].Edges = append(comps[i].Edges, e)
	}
	return comps
}

// forest is the rooted view of one component.
type forest struct {
	roots  []graph.NodeID
	kids   map[graph.NodeID][]graph.NodeID
	parent map[graph.NodeID]graph.NodeID
	// order lists every node once, parents before children.
	order []graph.NodeID
}

// buildForest roots a component.
//
// Each node's parent is named by its first incoming edge in canonical order.
// Parentless nodes are roots, ordered top to bottom. Nodes not reachable from
// any root (cycles) are rooted at the left-most unreached node, repeatedly,
// until every node is placed.
func buildForest(g graph.Graph, c Component) forest {
	parentEdge := make(map[graph.NodeID]graph.Edge, len(c.Nodes))
	for _, e := range c.Edges {
		if _, ok := parentEdge[e.To]; !ok {
			parentEdge[e.To] = e
		}
	}

	byParent := make(map[graph.NodeID][]graph.Edge)
	for _, e := range parentEdge {
		byParent[e.From] = append(byParent[e.From], e)
	}
	children := make(map[graph.NodeID][]graph.NodeID, len(byParent))
	for p, es := range byParent {
		slices.SortFunc(es, g.CompareSiblings)
		ids := make([]graph.NodeID, len(es))
		for i, e := range es {
			ids[i] = e.To
		}
		children[p] = ids
	}

	f := forest{
		kids:   make(map[graph.NodeID][]graph.NodeID),
		parent: make(map[graph.NodeID]graph.NodeID),
	}
	for _, id := range c.Nodes {
		if _, ok := parentEdge[id]; !ok {
			f.roots = append(f.roots, id)
		}
	}
	slices.SortFunc(f.roots, func(a, b graph.NodeID) int {
		na, _ := g.Node(a)
		nb, _ := g.Node(b)
		return graph.ComparePosition(na, nb)
	})

	visited := make(map[graph.NodeID]bool, len(c.Nodes))
	walk := func(root graph.NodeID) {
		visited[root] = true
		start := len(f.order)
		f.order = append(f.order, root)
		for i := start; i < len(f.order); i++ {
			id := f.order[i]
			for _, k := range children[id] {
				if visited[k] {
					continue
				}
				visited[k] = true
				f.kids[id] = append(f.kids[id], k)
				f.parent[k] = id
				f.order = append(f.order, k)
			}
		}
	}
	for _, r := range f.roots {
		walk(r)
	}
	for len(f.order) < len(c.Nodes) {
		r, _ := leftmostUnvisited(g, c.Nodes, visited)
		f.roots = append(f.roots, r)
		walk(r)
	}
	return f
}

// leftmostUnvisited picks the synthetic root of an unreached cycle: smallest
// x, then y, then id. Children always sit right of their parent but may sit
// above it, so ordering x first keeps the same root across repeated layouts
// where graph.ComparePosition would not.
func leftmostUnvisited(g graph.Graph, ids []graph.NodeID, visited map[graph.NodeID]bool) (graph.NodeID, bool) {
	var best graph.Node
	found := false
	for _, id := range ids {
		if visited[id] {
			continue
		}
		n, _ := g.Node(id)
		if !found || compareLeftmost(n, best) < 0 {
			best, found = n, true
		}
	}
	return best.ID, found
}

func compareLeftmost(a, b graph.Node) int {
	if c := cmp.Compare(a.Bounds.X, b.Bounds.X); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Bounds.Y, b.Bounds.Y); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}
