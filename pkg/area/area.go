// Package area maintains the partition of canvas nodes into mode-tagged
// areas.
//
// Every node belongs to exactly one area, every member of an area exists,
// and no edge connects nodes of different areas. [Validate] and
// [ValidateEdges] check those rules; [Create], [Assign] and [SetMode] change
// the partition transactionally: they build a candidate graph, validate it
// fully and return either the candidate or the unchanged input together with
// the single violated rule.
package area

import (
	"slices"

	errs "github.com/matzehuels/nodecanvas/pkg/errors"
	"github.com/matzehuels/nodecanvas/pkg/graph"
)

// Validate checks the partition invariant.
//
// Checks run in a fixed order so the reported failure is deterministic:
//   - AREA_DATA_MISSING: the graph has nodes but no areas
//   - NODE_WITHOUT_AREA / NODE_ASSIGNED_TO_MULTIPLE_AREAS: per node, in id order
//   - AREA_CONTAINS_MISSING_NODE: per area member, in id order
func Validate(g graph.Graph) error {
	if g.NodeCount() > 0 && g.AreaCount() == 0 {
		return errs.New(errs.ErrCodeAreaDataMissing, "graph has %d nodes but no areas", g.NodeCount())
	}

	areas := g.Areas()
	counts := make(map[graph.NodeID]int, g.NodeCount())
	for _, a := range areas {
		for id := range a.Members {
			counts[id]++
		}
	}
	for _, id := range g.NodeIDs() {
		switch n := counts[id]; {
		case n == 0:
			return errs.New(errs.ErrCodeNodeWithoutArea, "node %q is not assigned to an area", id)
		case n > 1:
			return errs.New(errs.ErrCodeNodeAssignedToMultipleAreas, "node %q is assigned to %d areas", id, n)
		}
	}

	for _, a := range areas {
		for _, id := range a.MemberIDs() {
			if !g.HasNode(id) {
				return errs.New(errs.ErrCodeAreaContainsMissingNode, "area %q contains missing node %q", a.ID, id)
			}
		}
	}
	return nil
}

// ValidateEdges checks that no edge crosses areas. Endpoints without an area
// are left to Validate.
func ValidateEdges(g graph.Graph) error {
	idx := Index(g)
	for _, e := range g.Edges() {
		from, fok := idx[e.From]
		to, tok := idx[e.To]
		if fok && tok && from != to {
			return errs.New(errs.ErrCodeCrossAreaEdgeForbidden,
				"edge %q connects area %q to area %q", e.ID, from, to)
		}
	}
	return nil
}

// Index maps every assigned node to its area. When a node is in several
// areas the lowest area id wins.
func Index(g graph.Graph) map[graph.NodeID]graph.AreaID {
	idx := make(map[graph.NodeID]graph.AreaID, g.NodeCount())
	for _, a := range g.Areas() {
		for id := range a.Members {
			if _, ok := idx[id]; !ok {
				idx[id] = a.ID
			}
		}
	}
	return idx
}

// Of returns the area containing id.
func Of(g graph.Graph, id graph.NodeID) (graph.Area, error) {
	if !g.HasNode(id) {
		return graph.Area{}, errs.New(errs.ErrCodeNodeNotFound, "node %q not found", id)
	}
	aid, ok := g.AreaOf(id)
	if !ok {
		return graph.Area{}, errs.New(errs.ErrCodeNodeWithoutArea, "node %q is not assigned to an area", id)
	}
	a, _ := g.Area(aid)
	return a, nil
}

// Focused returns the area containing the focused node. It fails with
// FOCUSED_NODE_NOT_FOUND when nothing is focused or the focused node is
// gone, and FOCUSED_NODE_NOT_ASSIGNED_TO_AREA when the node has no area.
func Focused(g graph.Graph) (graph.Area, error) {
	id, ok := g.Focused()
	if !ok || !g.HasNode(id) {
		return graph.Area{}, errs.New(errs.ErrCodeFocusedNodeNotFound, "focused node %q not found", id)
	}
	aid, ok := g.AreaOf(id)
	if !ok {
		return graph.Area{}, errs.New(errs.ErrCodeFocusedNodeNotAssignedToArea,
			"focused node %q is not assigned to an area", id)
	}
	a, _ := g.Area(aid)
	return a, nil
}

// Create adds an area holding ids, removing those ids from every other area.
//
// Fails with INVALID_AREA_ID, MODE_MISMATCH for an unknown mode,
// AREA_ALREADY_EXISTS, AREA_CONTAINS_MISSING_NODE for unknown ids, and then
// CROSS_AREA_EDGE_FORBIDDEN or any partition error from Validate for the
// resulting graph. Areas emptied by the move are kept.
func Create(g graph.Graph, id graph.AreaID, mode graph.Mode, ids []graph.NodeID) (graph.Graph, error) {
	if err := errs.ValidateID(errs.ErrCodeInvalidAreaID, "area", string(id)); err != nil {
		return g, err
	}
	if !mode.Valid() {
		return g, errs.New(errs.ErrCodeModeMismatch, "unknown area mode %q", mode)
	}
	if _, ok := g.Area(id); ok {
		return g, errs.New(errs.ErrCodeAreaAlreadyExists, "area %q already exists", id)
	}
	if err := requireNodes(g, id, ids); err != nil {
		return g, err
	}

	candidate := strip(g, ids).WithArea(graph.NewArea(id, mode, ids...))
	if err := validateAll(candidate); err != nil {
		return g, err
	}
	return candidate, nil
}

// Assign moves ids into the existing area to.
//
// Fails with AREA_NOT_FOUND, AREA_CONTAINS_MISSING_NODE, and the same
// post-move validation as Create.
func Assign(g graph.Graph, ids []graph.NodeID, to graph.AreaID) (graph.Graph, error) {
	target, ok := g.Area(to)
	if !ok {
		return g, errs.New(errs.ErrCodeAreaNotFound, "area %q not found", to)
	}
	if err := requireNodes(g, to, ids); err != nil {
		return g, err
	}

	for _, id := range ids {
		target.Members[id] = struct{}{}
	}
	candidate := strip(g, ids).WithArea(target)
	if err := validateAll(candidate); err != nil {
		return g, err
	}
	return candidate, nil
}

// SetMode changes the editing mode of an area.
func SetMode(g graph.Graph, id graph.AreaID, mode graph.Mode) (graph.Graph, error) {
	a, ok := g.Area(id)
	if !ok {
		return g, errs.New(errs.ErrCodeAreaNotFound, "area %q not found", id)
	}
	if !mode.Valid() {
		return g, errs.New(errs.ErrCodeModeMismatch, "unknown area mode %q", mode)
	}
	if a.Mode == mode {
		return g, nil
	}
	a.Mode = mode
	return g.WithArea(a), nil
}

// CheckMode fails with MODE_MISMATCH when a is not in mode want. op names
// the rejected operation in the message.
func CheckMode(a graph.Area, want graph.Mode, op string) error {
	if a.Mode != want {
		return errs.New(errs.ErrCodeModeMismatch, "%s requires a %s area, %q is %s", op, want, a.ID, a.Mode)
	}
	return nil
}

func requireNodes(g graph.Graph, aid graph.AreaID, ids []graph.NodeID) error {
	for _, id := range ids {
		if !g.HasNode(id) {
			return errs.New(errs.ErrCodeAreaContainsMissingNode, "area %q would contain missing node %q", aid, id)
		}
	}
	return nil
}

// strip removes ids from every area that holds them.
func strip(g graph.Graph, ids []graph.NodeID) graph.Graph {
	for _, a := range g.Areas() {
		changed := false
		for id := range a.Members {
			if slices.Contains(ids, id) {
				delete(a.Members, id)
				changed = true
			}
		}
		if changed {
			g = g.WithArea(a)
		}
	}
	return g
}

func validateAll(g graph.Graph) error {
	if err := ValidateEdges(g); err != nil {
		return err
	}
	return Validate(g)
}
