package command

import (
	"slices"

	"github.com/matzehuels/nodecanvas/pkg/area"
	errs "github.com/matzehuels/nodecanvas/pkg/errors"
	"github.com/matzehuels/nodecanvas/pkg/focus"
	"github.com/matzehuels/nodecanvas/pkg/fold"
	"github.com/matzehuels/nodecanvas/pkg/geom"
	"github.com/matzehuels/nodecanvas/pkg/graph"
)

// moveNode restructures tree areas and translates diagram nodes.
//
// In a tree area Up and Down swap the node with its previous or next
// sibling, Left outdents it to follow its parent, and Right indents it under
// its previous sibling. Moves with no target (a first child moving up, a root
// moving left) are no-ops.
func moveNode(env Env, g graph.Graph, c MoveNode) (Mutation, error) {
	n, a, ok, err := focusContext(g)
	if err != nil || !ok {
		return noop(nil, g), err
	}
	if a.Mode == graph.ModeDiagram {
		return translateFocused(g, n.ID, c.Dir.Unit().Scale(env.MoveStep), true), nil
	}

	pe, hasParent := g.ParentEdge(n.ID)
	if !hasParent {
		return noop(nil, g), nil
	}
	parent := pe.From
	kids := g.Children(parent)
	idx := slices.Index(kids, n.ID)

	var (
		out   graph.Graph
		seeds = []graph.NodeID{n.ID}
	)
	switch c.Dir {
	case geom.Up, geom.Down:
		j := idx - 1
		if c.Dir == geom.Down {
			j = idx + 1
		}
		if j < 0 || j >= len(kids) {
			return noop(nil, g), nil
		}
		kids[idx], kids[j] = kids[j], kids[idx]
		out, err = renumber(g, parent, kids)

	case geom.Left:
		out, err = outdent(env, g, pe)
		seeds = append(seeds, parent)

	case geom.Right:
		if idx <= 0 {
			return noop(nil, g), nil
		}
		out, err = reparent(env, g, pe, kids[idx-1])
	}
	if err != nil {
		return Mutation{}, err
	}

	return Mutation{
		After:   out,
		Effects: structural,
		Seeds:   seeds,
	}, nil
}

// outdent moves the child of pe to follow its parent among the grandparent's
// children. A child of a root becomes a root.
func outdent(env Env, g graph.Graph, pe graph.Edge) (graph.Graph, error) {
	out, err := graph.DeleteEdge(g, pe.ID)
	if err != nil {
		return g, err
	}
	gpe, ok := out.ParentEdge(pe.From)
	if !ok {
		return out, nil
	}

	kids := out.Children(gpe.From)
	at := slices.Index(kids, pe.From) + 1
	e := graph.Edge{ID: env.IDs.EdgeID(), From: gpe.From, To: pe.To, Relation: graph.RelationParentChild}
	if out, err = graph.CreateEdge(out, e.WithOrder(len(kids))); err != nil {
		return g, err
	}
	return renumber(out, gpe.From, slices.Insert(kids, at, pe.To))
}

// reparent makes the child of pe the last child of parent, expanding parent
// so the moved node stays visible.
func reparent(env Env, g graph.Graph, pe graph.Edge, parent graph.NodeID) (graph.Graph, error) {
	out, err := graph.DeleteEdge(g, pe.ID)
	if err != nil {
		return g, err
	}
	e := graph.Edge{ID: env.IDs.EdgeID(), From: parent, To: pe.To, Relation: graph.RelationParentChild}
	if out, err = graph.CreateEdge(out, e.WithOrder(out.NextChildOrder(parent))); err != nil {
		return g, err
	}
	return fold.Expand(out, parent), nil
}

func translateFocused(g graph.Graph, id graph.NodeID, v geom.Vector, resolve bool) Mutation {
	return Mutation{
		After:   g.Translate([]graph.NodeID{id}, v),
		Effects: Effects{Mutated: true, AreaLayout: resolve},
		Seeds:   []graph.NodeID{id},
	}
}

func nudgeNode(env Env, g graph.Graph, c NudgeNode) (Mutation, error) {
	n, a, ok, err := focusContext(g)
	if err != nil || !ok {
		return noop(nil, g), err
	}
	if err := area.CheckMode(a, graph.ModeDiagram, c.Name()); err != nil {
		return Mutation{}, err
	}
	return translateFocused(g, n.ID, c.Dir.Unit().Scale(env.NudgeStep), false), nil
}

// deleteFocusedNode removes the focused node, and its whole subtree in tree
// areas. Focus moves to the previous sibling, the next sibling, the parent,
// or else the nearest remaining visible node.
func deleteFocusedNode(g graph.Graph, _ DeleteFocusedNode) (Mutation, error) {
	n, a, ok, err := focusContext(g)
	if err != nil || !ok {
		return noop(nil, g), err
	}

	targets := []graph.NodeID{n.ID}
	if a.Mode == graph.ModeTree {
		targets = append(targets, fold.Descendants(g, n.ID)...)
	}

	out := g
	for _, id := range targets {
		if !out.HasNode(id) {
			continue
		}
		if out, err = graph.DeleteNode(out, id); err != nil {
			return Mutation{}, err
		}
	}

	next := successor(g, out, n)
	out = out.WithFocus(next)
	if next != "" {
		out = out.WithSelection(next)
	}

	var seeds []graph.NodeID
	if p, ok := g.Parent(n.ID); ok && out.HasNode(p) {
		seeds = append(seeds, p)
	} else if next != "" {
		seeds = append(seeds, next)
	}

	eff := structural
	eff.TreeLayout = a.Mode == graph.ModeTree
	return Mutation{
		After:   out,
		Effects: eff,
		Seeds:   seeds,
	}, nil
}

func successor(before, after graph.Graph, n graph.Node) graph.NodeID {
	if p, ok := before.Parent(n.ID); ok {
		kids := before.Children(p)
		idx := slices.Index(kids, n.ID)
		for _, j := range []int{idx - 1, idx + 1} {
			if j >= 0 && j < len(kids) && after.HasNode(kids[j]) && !fold.IsHidden(after, kids[j]) {
				return kids[j]
			}
		}
		if after.HasNode(p) && !fold.IsHidden(after, p) {
			return p
		}
	}
	id, _ := focus.Nearest(fold.Visible(after), n.Bounds.Center(), "")
	return id
}

// setNodeText replaces the text of a node. A measured height that differs
// from the current one resizes the node and asks for a relayout.
func setNodeText(g graph.Graph, c SetNodeText) (Mutation, error) {
	id := c.NodeID
	if id == "" {
		var ok bool
		if id, ok = g.Focused(); !ok {
			return noop(nil, g), nil
		}
	}
	n, ok := g.Node(id)
	if !ok {
		return Mutation{}, errs.New(errs.ErrCodeNodeNotFound, "node %q not found", id)
	}

	upd := n
	upd.Text = c.Text
	resized := c.MeasuredHeight > 0 && c.MeasuredHeight != n.Bounds.Height
	if resized {
		upd.Bounds.Height = c.MeasuredHeight
	}
	if !resized && upd.Text == n.Text {
		return noop(nil, g), nil
	}

	out, err := graph.UpdateNode(g, upd)
	if err != nil {
		return Mutation{}, err
	}

	eff := Effects{Mutated: true}
	if resized {
		a, err := area.Of(g, id)
		if err != nil {
			return Mutation{}, err
		}
		eff.TreeLayout = a.Mode == graph.ModeTree
		eff.AreaLayout = true
	}
	return Mutation{
		After:   out,
		Effects: eff,
		Seeds:   []graph.NodeID{id},
	}, nil
}
