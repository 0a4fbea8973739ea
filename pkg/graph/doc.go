// Package graph provides the immutable canvas graph model and its CRUD
// service.
//
// # Core Types
//
//   - [Node]: a rectangular canvas item (text, file, link or group)
//   - [Edge]: a directed connection, either normal or parent-child
//   - [Area]: a mode-tagged (tree or diagram) group of nodes
//   - [Graph]: the aggregate of nodes, edges, focus, selection, collapsed
//     roots and areas
//
// Node, edge and area ids are distinct string types ([NodeID], [EdgeID],
// [AreaID]) and cannot be mixed up at compile time.
//
// # Immutability
//
// A [Graph] is never modified in place. [CreateNode], [UpdateNode],
// [DeleteNode], [CreateEdge], [UpdateEdge], [DeleteEdge] and every With…
// method return a new Graph; the input stays valid and unchanged. Maps that
// an operation does not touch are shared between versions:
//
//	g, err := graph.CreateNode(g, graph.Node{ID: "a", Bounds: r})
//	if err != nil {
//	    // g is still the previous graph
//	}
//
// Failures carry codes from package errors (INVALID_NODE_ID,
// INVALID_NODE_BOUNDS, NODE_ALREADY_EXISTS, NODE_NOT_FOUND, INVALID_EDGE_ID,
// EDGE_ENDPOINT_NOT_FOUND, EDGE_ALREADY_EXISTS, EDGE_NOT_FOUND).
//
// # Hierarchy
//
// Parent-child edges form the hierarchy used by tree layout and folding.
// When several parent-child edges point at the same node, the first one in
// canonical order ([CompareEdges]: destination, source, edge id) names the
// parent. Siblings are ordered by explicit [Edge.Order], then canonical edge
// order, then position ([ComparePosition]).
//
// # Snapshots
//
// [WriteSnapshot], [Marshal] and [ReadSnapshot] convert graphs to and from a
// deterministic JSON form for inspection and fixtures:
//
//	{
//	  "nodes": [{"id": "a", "bounds": {"x": 0, "y": 0, "width": 10, "height": 10}}],
//	  "edges": [],
//	  "areas": [{"id": "main", "mode": "tree", "members": ["a"]}],
//	  "focused": "a"
//	}
package graph
