package graph

import (
	errs "github.com/matzehuels/nodecanvas/pkg/errors"
)

// =============================================================================
// Node CRUD
// =============================================================================

// CreateNode returns g with n added.
//
// Fails with INVALID_NODE_ID for an empty or malformed id, INVALID_NODE_BOUNDS
// when width or height is not positive, and NODE_ALREADY_EXISTS when the id
// is taken. An empty Kind defaults to KindText. Meta is copied.
func CreateNode(g Graph, n Node) (Graph, error) {
	if err := validateNode(n); err != nil {
		return g, err
	}
	if g.HasNode(n.ID) {
		return g, errs.New(errs.ErrCodeNodeAlreadyExists, "node %q already exists", n.ID)
	}
	return g.putNode(normalizeNode(n)), nil
}

// UpdateNode returns g with the node n.ID replaced by n. Validation matches
// CreateNode; a missing node fails with NODE_NOT_FOUND.
func UpdateNode(g Graph, n Node) (Graph, error) {
	if err := validateNode(n); err != nil {
		return g, err
	}
	if !g.HasNode(n.ID) {
		return g, errs.New(errs.ErrCodeNodeNotFound, "node %q not found", n.ID)
	}
	return g.putNode(normalizeNode(n)), nil
}

// DeleteNode returns g without the node id.
//
// The delete cascades: every edge with id as an endpoint is removed, focus is
// cleared if it pointed at id, and id is dropped from the selection, the
// collapsed roots and its area.
func DeleteNode(g Graph, id NodeID) (Graph, error) {
	if !g.HasNode(id) {
		return g, errs.New(errs.ErrCodeNodeNotFound, "node %q not found", id)
	}

	nodes := cloneMap(g.nodes)
	delete(nodes, id)
	g.nodes = nodes

	var edges map[EdgeID]Edge
	for eid, e := range g.edges {
		if !e.Touches(id) {
			continue
		}
		if edges == nil {
			edges = cloneMap(g.edges)
		}
		delete(edges, eid)
	}
	if edges != nil {
		g.edges = edges
	}

	if g.focused == id {
		g.focused = ""
	}
	if _, ok := g.selected[id]; ok {
		g.selected = cloneMap(g.selected)
		delete(g.selected, id)
	}
	if _, ok := g.collapsed[id]; ok {
		g.collapsed = cloneMap(g.collapsed)
		delete(g.collapsed, id)
	}
	for aid, a := range g.areas {
		if !a.Contains(id) {
			continue
		}
		a = a.Clone()
		delete(a.Members, id)
		areas := cloneMap(g.areas)
		areas[aid] = a
		g.areas = areas
	}
	return g, nil
}

func validateNode(n Node) error {
	if err := errs.ValidateID(errs.ErrCodeInvalidNodeID, "node", string(n.ID)); err != nil {
		return err
	}
	if !n.Bounds.IsValid() {
		return errs.New(errs.ErrCodeInvalidNodeBounds,
			"node %q has invalid size %gx%g", n.ID, n.Bounds.Width, n.Bounds.Height)
	}
	return nil
}

func normalizeNode(n Node) Node {
	if n.Kind == "" {
		n.Kind = KindText
	}
	n.Meta = copyMeta(n.Meta)
	return n
}

func (g Graph) putNode(n Node) Graph {
	nodes := cloneMap(g.nodes)
	nodes[n.ID] = n
	g.nodes = nodes
	return g
}

// =============================================================================
// Edge CRUD
// =============================================================================

// CreateEdge returns g with e added.
//
// Fails with INVALID_EDGE_ID, EDGE_ALREADY_EXISTS, or
// EDGE_ENDPOINT_NOT_FOUND when either endpoint is missing. An empty relation
// defaults to RelationNormal; Order is dropped from normal edges.
func CreateEdge(g Graph, e Edge) (Graph, error) {
	if err := validateEdge(g, e); err != nil {
		return g, err
	}
	if _, ok := g.edges[e.ID]; ok {
		return g, errs.New(errs.ErrCodeEdgeAlreadyExists, "edge %q already exists", e.ID)
	}
	return g.putEdge(normalizeEdge(e)), nil
}

// UpdateEdge returns g with the edge e.ID replaced by e. Validation matches
// CreateEdge; a missing edge fails with EDGE_NOT_FOUND.
func UpdateEdge(g Graph, e Edge) (Graph, error) {
	if err := validateEdge(g, e); err != nil {
		return g, err
	}
	if _, ok := g.edges[e.ID]; !ok {
		return g, errs.New(errs.ErrCodeEdgeNotFound, "edge %q not found", e.ID)
	}
	return g.putEdge(normalizeEdge(e)), nil
}

// DeleteEdge returns g without the edge id.
func DeleteEdge(g Graph, id EdgeID) (Graph, error) {
	if _, ok := g.edges[id]; !ok {
		return g, errs.New(errs.ErrCodeEdgeNotFound, "edge %q not found", id)
	}
	edges := cloneMap(g.edges)
	delete(edges, id)
	g.edges = edges
	return g, nil
}

func validateEdge(g Graph, e Edge) error {
	if err := errs.ValidateID(errs.ErrCodeInvalidEdgeID, "edge", string(e.ID)); err != nil {
		return err
	}
	if !g.HasNode(e.From) {
		return errs.New(errs.ErrCodeEdgeEndpointNotFound, "edge %q: source %q not found", e.ID, e.From)
	}
	if !g.HasNode(e.To) {
		return errs.New(errs.ErrCodeEdgeEndpointNotFound, "edge %q: target %q not found", e.ID, e.To)
	}
	return nil
}

func normalizeEdge(e Edge) Edge {
	if e.Relation == "" {
		e.Relation = RelationNormal
	}
	if e.IsParentChild() && e.Order != nil {
		o := *e.Order
		e.Order = &o
	} else {
		e.Order = nil
	}
	e.Meta = copyMeta(e.Meta)
	return e
}

func (g Graph) putEdge(e Edge) Graph {
	edges := cloneMap(g.edges)
	edges[e.ID] = e
	g.edges = edges
	return g
}

// =============================================================================
// Bulk Construction
// =============================================================================

// Build creates a graph from nodes, edges and areas in one step, running the
// same validation as CreateNode and CreateEdge. Areas are inserted as given;
// validate the partition with package area.
func Build(nodes []Node, edges []Edge, areas ...Area) (Graph, error) {
	g := New()
	var err error
	for _, n := range nodes {
		if g, err = CreateNode(g, n); err != nil {
			return Graph{}, err
		}
	}
	for _, e := range edges {
		if g, err = CreateEdge(g, e); err != nil {
			return Graph{}, err
		}
	}
	if len(areas) > 0 {
		g = g.WithAreas(areas...)
	}
	return g, nil
}
