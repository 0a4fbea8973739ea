package command

import (
	"slices"

	"github.com/matzehuels/nodecanvas/pkg/area"
	errs "github.com/matzehuels/nodecanvas/pkg/errors"
	"github.com/matzehuels/nodecanvas/pkg/fold"
	"github.com/matzehuels/nodecanvas/pkg/geom"
	"github.com/matzehuels/nodecanvas/pkg/graph"
	arealayout "github.com/matzehuels/nodecanvas/pkg/layout/area"
)

// Handle applies cmd to g.
//
// Handlers are pure. Commands that have nothing to act on (no focus, no
// candidate, folding a leaf) return an unchanged Mutation and no error.
// Invalid commands return the CRUD or area policy error and an unchanged
// Mutation.
func Handle(env Env, g graph.Graph, cmd Command) (Mutation, error) {
	env.SetDefaults()

	var (
		m   Mutation
		err error
	)
	switch c := cmd.(type) {
	case AddNode:
		m, err = addNode(env, g, c)
	case AddChildNode:
		m, err = addChildNode(env, g, c)
	case AddSiblingNode:
		m, err = addSiblingNode(env, g, c)
	case MoveFocus:
		m, err = moveFocus(g, c)
	case MoveNode:
		m, err = moveNode(env, g, c)
	case NudgeNode:
		m, err = nudgeNode(env, g, c)
	case DeleteFocusedNode:
		m, err = deleteFocusedNode(g, c)
	case SetNodeText:
		m, err = setNodeText(g, c)
	case ToggleFoldFocusedSubtree:
		m, err = toggleFold(g, c)
	case CenterFocusedNode:
		m, err = centerFocusedNode(g, c)
	case ConvertFocusedAreaMode:
		m, err = convertFocusedAreaMode(g, c)
	case CreateArea:
		m, err = createArea(g, c)
	case AssignNodesToArea:
		m, err = assignNodesToArea(g, c)
	default:
		return noop(cmd, g), errs.New(errs.ErrCodeUnknownCommand, "unknown command %T", cmd)
	}
	if err != nil {
		return noop(cmd, g), err
	}
	m.Command = cmd
	m.Before = g
	return m, nil
}

// focusContext resolves the focused node and its area. ok is false when
// there is nothing to act on.
func focusContext(g graph.Graph) (n graph.Node, a graph.Area, ok bool, err error) {
	n, ok = g.FocusedNode()
	if !ok {
		return graph.Node{}, graph.Area{}, false, nil
	}
	a, err = area.Focused(g)
	if err != nil {
		return graph.Node{}, graph.Area{}, false, err
	}
	return n, a, true, nil
}

// =============================================================================
// Node Creation
// =============================================================================

func addNode(env Env, g graph.Graph, _ AddNode) (Mutation, error) {
	n, a, ok, err := focusContext(g)
	if err != nil {
		return Mutation{}, err
	}

	var at geom.Point
	if ok {
		b := membersBounds(g, a.MemberIDs(), n.Bounds)
		at = geom.Point{X: b.X, Y: b.MaxY() + env.Gap}
	} else if b, found := geom.Bounds(allRects(g)); found {
		at = geom.Point{X: b.X, Y: b.MaxY() + env.Gap}
	}

	node := env.newNode(at)
	out, err := graph.CreateNode(g, node)
	if err != nil {
		return Mutation{}, err
	}
	if ok {
		out, err = area.Assign(out, []graph.NodeID{node.ID}, a.ID)
	} else {
		out, err = area.Create(out, env.IDs.AreaID(), env.DefaultMode, []graph.NodeID{node.ID})
	}
	if err != nil {
		return Mutation{}, err
	}

	return Mutation{
		After:     out.WithFocus(node.ID).WithSelection(node.ID),
		Effects:   Effects{Mutated: true, AreaLayout: true, FocusNormalization: true},
		Seeds:     []graph.NodeID{node.ID},
		AddedNode: node.ID,
	}, nil
}

func addChildNode(env Env, g graph.Graph, _ AddChildNode) (Mutation, error) {
	parent, a, ok, err := focusContext(g)
	if err != nil || !ok {
		return noop(nil, g), err
	}

	tree := a.Mode == graph.ModeTree
	child := env.newNode(geom.Point{X: parent.Bounds.MaxX() + env.Gap, Y: parent.Bounds.Y})
	out, err := graph.CreateNode(fold.Expand(g, parent.ID), child)
	if err != nil {
		return Mutation{}, err
	}

	e := graph.Edge{ID: env.IDs.EdgeID(), From: parent.ID, To: child.ID, Relation: graph.RelationNormal}
	if tree {
		e.Relation = graph.RelationParentChild
		e = e.WithOrder(out.NextChildOrder(parent.ID))
	}
	if out, err = graph.CreateEdge(out, e); err != nil {
		return Mutation{}, err
	}
	if out, err = area.Assign(out, []graph.NodeID{child.ID}, a.ID); err != nil {
		return Mutation{}, err
	}

	eff := structural
	eff.TreeLayout = tree
	return Mutation{
		After:     out.WithFocus(child.ID).WithSelection(child.ID),
		Effects:   eff,
		Seeds:     []graph.NodeID{child.ID},
		AddedNode: child.ID,
	}, nil
}

func addSiblingNode(env Env, g graph.Graph, c AddSiblingNode) (Mutation, error) {
	n, a, ok, err := focusContext(g)
	if err != nil || !ok {
		return noop(nil, g), err
	}
	if err := area.CheckMode(a, graph.ModeTree, c.Name()); err != nil {
		return Mutation{}, err
	}

	pe, hasParent := g.ParentEdge(n.ID)

	// Siblings of a child go next to it; a sibling of a root is a new root
	// placed clear of the whole tree.
	ref := n.Bounds
	if !hasParent {
		if cl, found := arealayout.Find(arealayout.Extract(g, geom.ShapeRectangle), n.ID); found {
			ref = cl.Bounds
		}
	}
	at := geom.Point{X: n.Bounds.X, Y: ref.MaxY() + env.Gap}
	if c.Position == Above {
		at.Y = ref.MinY() - env.Gap - env.NodeHeight
	}

	sib := env.newNode(at)
	out, err := graph.CreateNode(g, sib)
	if err != nil {
		return Mutation{}, err
	}

	if hasParent {
		kids := out.Children(pe.From)
		idx := slices.Index(kids, n.ID)
		if c.Position == Below {
			idx++
		}
		e := graph.Edge{ID: env.IDs.EdgeID(), From: pe.From, To: sib.ID, Relation: graph.RelationParentChild}
		if out, err = graph.CreateEdge(out, e.WithOrder(len(kids))); err != nil {
			return Mutation{}, err
		}
		if out, err = renumber(out, pe.From, slices.Insert(kids, idx, sib.ID)); err != nil {
			return Mutation{}, err
		}
	}
	if out, err = area.Assign(out, []graph.NodeID{sib.ID}, a.ID); err != nil {
		return Mutation{}, err
	}

	return Mutation{
		After:     out.WithFocus(sib.ID).WithSelection(sib.ID),
		Effects:   structural,
		Seeds:     []graph.NodeID{sib.ID},
		AddedNode: sib.ID,
	}, nil
}

// =============================================================================
// Helpers
// =============================================================================

// renumber gives the children of parent explicit orders matching order.
func renumber(g graph.Graph, parent graph.NodeID, order []graph.NodeID) (graph.Graph, error) {
	for i, id := range order {
		e, ok := g.ParentEdge(id)
		if !ok || e.From != parent {
			continue
		}
		if o, set := e.OrderValue(); set && o == i {
			continue
		}
		var err error
		if g, err = graph.UpdateEdge(g, e.WithOrder(i)); err != nil {
			return g, err
		}
	}
	return g, nil
}

func membersBounds(g graph.Graph, ids []graph.NodeID, fallback geom.Rect) geom.Rect {
	rects := make([]geom.Rect, 0, len(ids))
	for _, id := range ids {
		if n, ok := g.Node(id); ok {
			rects = append(rects, n.Bounds)
		}
	}
	if b, ok := geom.Bounds(rects); ok {
		return b
	}
	return fallback
}

func allRects(g graph.Graph) []geom.Rect {
	nodes := g.Nodes()
	rects := make([]geom.Rect, len(nodes))
	for i, n := range nodes {
		rects[i] = n.Bounds
	}
	return rects
}
