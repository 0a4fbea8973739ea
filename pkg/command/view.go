package command

import (
	"github.com/matzehuels/nodecanvas/pkg/area"
	"github.com/matzehuels/nodecanvas/pkg/focus"
	"github.com/matzehuels/nodecanvas/pkg/fold"
	"github.com/matzehuels/nodecanvas/pkg/graph"
)

// moveFocus navigates among visible nodes. The focused node becomes the sole
// selection.
func moveFocus(g graph.Graph, c MoveFocus) (Mutation, error) {
	next, ok := focus.Next(fold.Visible(g), c.Dir)
	if !ok {
		return noop(nil, g), nil
	}
	if cur, has := g.Focused(); has && cur == next {
		return noop(nil, g), nil
	}
	return Mutation{
		After:   g.WithFocus(next).WithSelection(next),
		Effects: Effects{Mutated: true, FocusNormalization: true},
	}, nil
}

func toggleFold(g graph.Graph, _ ToggleFoldFocusedSubtree) (Mutation, error) {
	n, ok := g.FocusedNode()
	if !ok {
		return noop(nil, g), nil
	}
	out := fold.Toggle(g, n.ID)
	if out.Equal(g) {
		return noop(nil, g), nil
	}
	return Mutation{
		After:   out,
		Effects: structural,
		Seeds:   []graph.NodeID{n.ID},
	}, nil
}

func centerFocusedNode(g graph.Graph, _ CenterFocusedNode) (Mutation, error) {
	id, ok := g.Focused()
	if !ok || !g.HasNode(id) {
		return noop(nil, g), nil
	}
	m := noop(nil, g)
	m.Viewport = &ViewportIntent{Kind: ViewportCenter, Node: id}
	return m, nil
}

// =============================================================================
// Areas
// =============================================================================

func convertFocusedAreaMode(g graph.Graph, c ConvertFocusedAreaMode) (Mutation, error) {
	_, a, ok, err := focusContext(g)
	if err != nil || !ok {
		return noop(nil, g), err
	}
	out, err := area.SetMode(g, a.ID, c.Mode)
	if err != nil {
		return Mutation{}, err
	}
	if a.Mode == c.Mode {
		return noop(nil, g), nil
	}
	return Mutation{
		After:   out,
		Effects: Effects{Mutated: true, TreeLayout: c.Mode == graph.ModeTree, AreaLayout: true},
		Seeds:   a.MemberIDs(),
	}, nil
}

func createArea(g graph.Graph, c CreateArea) (Mutation, error) {
	out, err := area.Create(g, c.ID, c.Mode, c.NodeIDs)
	if err != nil {
		return Mutation{}, err
	}
	return Mutation{
		After:   out,
		Effects: Effects{Mutated: true, TreeLayout: c.Mode == graph.ModeTree},
		Seeds:   c.NodeIDs,
	}, nil
}

func assignNodesToArea(g graph.Graph, c AssignNodesToArea) (Mutation, error) {
	out, err := area.Assign(g, c.NodeIDs, c.AreaID)
	if err != nil {
		return Mutation{}, err
	}
	if out.ContentEqual(g) {
		return noop(nil, g), nil
	}
	target, _ := out.Area(c.AreaID)
	return Mutation{
		After:   out,
		Effects: Effects{Mutated: true, TreeLayout: target.Mode == graph.ModeTree},
		Seeds:   c.NodeIDs,
	}, nil
}
