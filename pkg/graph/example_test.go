package graph_test

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/nodecanvas/pkg/geom"
	"github.com/matzehuels/nodecanvas/pkg/graph"
)

func ExampleCreateNode() {
	g := graph.New()

	g, err := graph.CreateNode(g, graph.Node{
		ID:     "root",
		Text:   "Ideas",
		Bounds: geom.Rect{Width: 160, Height: 40},
	})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	// The zero-width node is rejected and g is unchanged.
	_, err = graph.CreateNode(g, graph.Node{ID: "bad"})
	fmt.Println(err)
	fmt.Println("nodes:", g.NodeCount())
	// Output:
	// INVALID_NODE_BOUNDS: node "bad" has invalid size 0x0
	// nodes: 1
}

func ExampleDeleteNode() {
	g, _ := graph.Build(
		[]graph.Node{
			{ID: "a", Bounds: geom.Rect{Width: 10, Height: 10}},
			{ID: "b", Bounds: geom.Rect{Y: 20, Width: 10, Height: 10}},
		},
		[]graph.Edge{{ID: "e", From: "a", To: "b", Relation: graph.RelationParentChild}},
	)

	g, _ = graph.DeleteNode(g.WithFocus("b"), "b")

	_, focused := g.Focused()
	fmt.Println("nodes:", g.NodeCount(), "edges:", g.EdgeCount(), "focused:", focused)
	// Output:
	// nodes: 1 edges: 0 focused: false
}

func ExampleWriteSnapshot() {
	g, _ := graph.Build(
		[]graph.Node{
			{ID: "a", Bounds: geom.Rect{Width: 10, Height: 10}},
			{ID: "b", Text: "child", Bounds: geom.Rect{X: 20, Width: 10, Height: 10}},
		},
		[]graph.Edge{{ID: "e1", From: "a", To: "b", Relation: graph.RelationParentChild}},
		graph.NewArea("main", graph.ModeTree, "a", "b"),
	)

	var buf bytes.Buffer
	if err := graph.WriteSnapshot(g.WithFocus("b"), &buf); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Print(buf.String())
	// Output:
	// {
	//   "nodes": [
	//     {
	//       "id": "a",
	//       "bounds": {
	//         "x": 0,
	//         "y": 0,
	//         "width": 10,
	//         "height": 10
	//       }
	//     },
	//     {
	//       "id": "b",
	//       "text": "child",
	//       "bounds": {
	//         "x": 20,
	//         "y": 0,
	//         "width": 10,
	//         "height": 10
	//       }
	//     }
	//   ],
	//   "edges": [
	//     {
	//       "id": "e1",
	//       "from": "a",
	//       "to": "b",
	//       "relation": "parent-child"
	//     }
	//   ],
	//   "areas": [
	//     {
	//       "id": "main",
	//       "mode": "tree",
	//       "members": [
	//         "a",
	//         "b"
	//       ]
	//     }
	//   ],
	//   "focused": "b"
	// }
}
