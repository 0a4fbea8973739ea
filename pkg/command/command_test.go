package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/nodecanvas/pkg/errors"
	"github.com/matzehuels/nodecanvas/pkg/geom"
	"github.com/matzehuels/nodecanvas/pkg/graph"
)

func testEnv() Env {
	return Env{IDs: graph.NewSequentialGenerator()}
}

func rect(x, y float64) geom.Rect { return geom.Rect{X: x, Y: y, Width: 100, Height: 40} }

func pc(id, from, to string, order int) graph.Edge {
	return graph.Edge{
		ID:       graph.EdgeID(id),
		From:     graph.NodeID(from),
		To:       graph.NodeID(to),
		Relation: graph.RelationParentChild,
	}.WithOrder(order)
}

// treeGraph builds root -> (a, b, c), a -> a1 in a single tree area.
func treeGraph(t *testing.T, mode graph.Mode) graph.Graph {
	t.Helper()
	ns := []graph.Node{
		{ID: "root", Bounds: rect(0, 100)},
		{ID: "a", Bounds: rect(200, 0)},
		{ID: "b", Bounds: rect(200, 100)},
		{ID: "c", Bounds: rect(200, 200)},
		{ID: "a1", Bounds: rect(400, 0)},
	}
	es := []graph.Edge{
		pc("e1", "root", "a", 0),
		pc("e2", "root", "b", 1),
		pc("e3", "root", "c", 2),
		pc("e4", "a", "a1", 0),
	}
	g, err := graph.Build(ns, es, graph.NewArea("main", mode, "root", "a", "b", "c", "a1"))
	require.NoError(t, err)
	return g
}

func handle(t *testing.T, env Env, g graph.Graph, cmd Command) Mutation {
	t.Helper()
	m, err := Handle(env, g, cmd)
	require.NoError(t, err)
	return m
}

func TestHandleUnknownCommand(t *testing.T) {
	g := graph.New()
	m, err := Handle(testEnv(), g, &AddNode{})
	assert.True(t, errs.Is(err, errs.ErrCodeUnknownCommand))
	assert.False(t, m.Changed())
	assert.True(t, m.After.Equal(g))
}

func TestAddNodeOnEmptyGraph(t *testing.T) {
	m := handle(t, testEnv(), graph.New(), AddNode{})

	require.True(t, m.Changed())
	assert.Equal(t, graph.NodeID("node-1"), m.AddedNode)
	assert.Equal(t, []graph.NodeID{"node-1"}, m.Seeds)
	assert.True(t, m.Effects.AreaLayout)
	assert.False(t, m.Effects.TreeLayout)

	n, ok := m.After.Node("node-1")
	require.True(t, ok)
	assert.Equal(t, geom.Rect{Width: DefaultNodeWidth, Height: DefaultNodeHeight}, n.Bounds)

	id, _ := m.After.Focused()
	assert.Equal(t, graph.NodeID("node-1"), id)
	assert.Equal(t, []graph.NodeID{"node-1"}, m.After.Selected())

	a, ok := m.After.Area("area-1")
	require.True(t, ok)
	assert.Equal(t, graph.ModeTree, a.Mode)
	assert.True(t, a.Contains("node-1"))
}

func TestAddNodeJoinsFocusedArea(t *testing.T) {
	g := treeGraph(t, graph.ModeTree).WithFocus("b")
	m := handle(t, testEnv(), g, AddNode{})

	aid, ok := m.After.AreaOf(m.AddedNode)
	require.True(t, ok)
	assert.Equal(t, graph.AreaID("main"), aid)

	n, _ := m.After.Node(m.AddedNode)
	assert.Equal(t, 0.0, n.Bounds.X)
	assert.Equal(t, 240+DefaultGap, n.Bounds.Y)
	_, hasParent := m.After.Parent(m.AddedNode)
	assert.False(t, hasParent)
}

func TestAddChildNode(t *testing.T) {
	t.Run("Tree", func(t *testing.T) {
		g := treeGraph(t, graph.ModeTree).WithFocus("root").WithCollapsed("root")
		m := handle(t, testEnv(), g, AddChildNode{})

		assert.Equal(t, structural, m.Effects)
		pe, ok := m.After.ParentEdge(m.AddedNode)
		require.True(t, ok)
		assert.Equal(t, graph.NodeID("root"), pe.From)
		o, _ := pe.OrderValue()
		assert.Equal(t, 3, o)
		assert.False(t, m.After.IsCollapsed("root"), "parent must be expanded")

		id, _ := m.After.Focused()
		assert.Equal(t, m.AddedNode, id)
	})

	t.Run("Diagram", func(t *testing.T) {
		g := treeGraph(t, graph.ModeDiagram).WithFocus("c")
		m := handle(t, testEnv(), g, AddChildNode{})

		assert.False(t, m.Effects.TreeLayout)
		assert.True(t, m.Effects.AreaLayout)
		es := m.After.EdgesOf(m.AddedNode)
		require.Len(t, es, 1)
		assert.Equal(t, graph.RelationNormal, es[0].Relation)
		assert.Equal(t, graph.NodeID("c"), es[0].From)
	})

	t.Run("WithoutFocus", func(t *testing.T) {
		g := treeGraph(t, graph.ModeTree)
		m := handle(t, testEnv(), g, AddChildNode{})
		assert.False(t, m.Changed())
	})
}

func TestAddSiblingNode(t *testing.T) {
	tests := []struct {
		name string
		pos  Position
		want []graph.NodeID
	}{
		{"Below", Below, []graph.NodeID{"a", "b", "node-1", "c"}},
		{"Above", Above, []graph.NodeID{"a", "node-1", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := treeGraph(t, graph.ModeTree).WithFocus("b")
			m := handle(t, testEnv(), g, AddSiblingNode{Position: tt.pos})

			assert.Equal(t, tt.want, m.After.Children("root"))
			for i, e := range m.After.ChildEdges("root") {
				o, ok := e.OrderValue()
				assert.True(t, ok)
				assert.Equal(t, i, o)
			}
		})
	}

	t.Run("OfRoot", func(t *testing.T) {
		g := treeGraph(t, graph.ModeTree).WithFocus("root")
		m := handle(t, testEnv(), g, AddSiblingNode{})
		_, hasParent := m.After.Parent(m.AddedNode)
		assert.False(t, hasParent)
		n, _ := m.After.Node(m.AddedNode)
		assert.Equal(t, 240+DefaultGap, n.Bounds.Y, "placed below the whole tree")
	})

	t.Run("DiagramRejected", func(t *testing.T) {
		g := treeGraph(t, graph.ModeDiagram).WithFocus("b")
		m, err := Handle(testEnv(), g, AddSiblingNode{})
		assert.True(t, errs.Is(err, errs.ErrCodeModeMismatch))
		assert.True(t, m.After.Equal(g))
	})
}

func TestMoveFocus(t *testing.T) {
	g := treeGraph(t, graph.ModeTree).WithFocus("a")

	m := handle(t, testEnv(), g, MoveFocus{Dir: geom.Down})
	id, _ := m.After.Focused()
	assert.Equal(t, graph.NodeID("b"), id)
	assert.Equal(t, []graph.NodeID{"b"}, m.After.Selected())
	assert.Equal(t, Effects{Mutated: true, FocusNormalization: true}, m.Effects)

	// Nothing above a.
	m = handle(t, testEnv(), g, MoveFocus{Dir: geom.Up})
	assert.False(t, m.Changed())

	// a1 is hidden once a is collapsed.
	m = handle(t, testEnv(), g.WithCollapsed("a"), MoveFocus{Dir: geom.Right})
	assert.False(t, m.Changed())
}

func TestMoveNodeTree(t *testing.T) {
	tests := []struct {
		name     string
		focus    graph.NodeID
		dir      geom.Direction
		parent   graph.NodeID
		children []graph.NodeID
		changed  bool
	}{
		{"Down swaps with next", "a", geom.Down, "root", []graph.NodeID{"b", "a", "c"}, true},
		{"Up swaps with previous", "c", geom.Up, "root", []graph.NodeID{"a", "c", "b"}, true},
		{"Up on first child", "a", geom.Up, "root", []graph.NodeID{"a", "b", "c"}, false},
		{"Right indents", "b", geom.Right, "a", []graph.NodeID{"a1", "b"}, true},
		{"Right on first child", "a", geom.Right, "root", []graph.NodeID{"a", "b", "c"}, false},
		{"Left outdents after parent", "a1", geom.Left, "root", []graph.NodeID{"a", "a1", "b", "c"}, true},
		{"Root does not move", "root", geom.Left, "root", []graph.NodeID{"a", "b", "c"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := treeGraph(t, graph.ModeTree).WithFocus(tt.focus)
			m := handle(t, testEnv(), g, MoveNode{Dir: tt.dir})
			assert.Equal(t, tt.changed, m.Changed())
			assert.Equal(t, tt.children, m.After.Children(tt.parent))
		})
	}

	t.Run("LeftFromRootChild", func(t *testing.T) {
		g := treeGraph(t, graph.ModeTree).WithFocus("b")
		m := handle(t, testEnv(), g, MoveNode{Dir: geom.Left})
		_, hasParent := m.After.Parent("b")
		assert.False(t, hasParent)
		assert.Equal(t, []graph.NodeID{"b", "root"}, m.Seeds)
	})
}

func TestMoveAndNudgeDiagram(t *testing.T) {
	g := treeGraph(t, graph.ModeDiagram).WithFocus("b")

	m := handle(t, testEnv(), g, MoveNode{Dir: geom.Right})
	n, _ := m.After.Node("b")
	assert.Equal(t, 200+DefaultMoveStep, n.Bounds.X)
	assert.True(t, m.Effects.AreaLayout)

	m = handle(t, testEnv(), g, NudgeNode{Dir: geom.Up})
	n, _ = m.After.Node("b")
	assert.Equal(t, 100-DefaultNudgeStep, n.Bounds.Y)
	assert.Equal(t, Effects{Mutated: true}, m.Effects)

	_, err := Handle(testEnv(), treeGraph(t, graph.ModeTree).WithFocus("b"), NudgeNode{Dir: geom.Up})
	assert.True(t, errs.Is(err, errs.ErrCodeModeMismatch))
}

func TestDeleteFocusedNode(t *testing.T) {
	tests := []struct {
		name      string
		mode      graph.Mode
		focus     graph.NodeID
		nextFocus graph.NodeID
		gone      []graph.NodeID
		remaining int
	}{
		{"Tree removes subtree", graph.ModeTree, "a", "b", []graph.NodeID{"a", "a1"}, 3},
		{"Prefers previous sibling", graph.ModeTree, "c", "b", []graph.NodeID{"c"}, 4},
		{"Falls back to parent", graph.ModeTree, "a1", "a", []graph.NodeID{"a1"}, 4},
		{"Diagram keeps descendants", graph.ModeDiagram, "a", "b", []graph.NodeID{"a"}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := treeGraph(t, tt.mode).WithFocus(tt.focus)
			m := handle(t, testEnv(), g, DeleteFocusedNode{})
			for _, id := range tt.gone {
				assert.False(t, m.After.HasNode(id), id)
			}
			assert.Equal(t, tt.remaining, m.After.NodeCount())
			id, _ := m.After.Focused()
			assert.Equal(t, tt.nextFocus, id)
		})
	}

	t.Run("LastNode", func(t *testing.T) {
		g, err := graph.Build([]graph.Node{{ID: "x", Bounds: rect(0, 0)}}, nil, graph.NewArea("m", graph.ModeTree, "x"))
		require.NoError(t, err)
		m := handle(t, testEnv(), g.WithFocus("x"), DeleteFocusedNode{})
		assert.True(t, m.After.IsEmpty())
		_, ok := m.After.Focused()
		assert.False(t, ok)
	})
}

func TestSetNodeText(t *testing.T) {
	g := treeGraph(t, graph.ModeTree).WithFocus("b")

	m := handle(t, testEnv(), g, SetNodeText{Text: "hello"})
	n, _ := m.After.Node("b")
	assert.Equal(t, "hello", n.Text)
	assert.Equal(t, Effects{Mutated: true}, m.Effects)

	m = handle(t, testEnv(), g, SetNodeText{NodeID: "c", Text: "", MeasuredHeight: 80})
	n, _ = m.After.Node("c")
	assert.Equal(t, 80.0, n.Bounds.Height)
	assert.True(t, m.Effects.TreeLayout)
	assert.True(t, m.Effects.AreaLayout)

	m = handle(t, testEnv(), g, SetNodeText{NodeID: "c", MeasuredHeight: 40})
	assert.False(t, m.Changed())

	_, err := Handle(testEnv(), g, SetNodeText{NodeID: "missing", Text: "x"})
	assert.True(t, errs.Is(err, errs.ErrCodeNodeNotFound))
}

func TestToggleFoldAndCenter(t *testing.T) {
	g := treeGraph(t, graph.ModeTree).WithFocus("a")

	m := handle(t, testEnv(), g, ToggleFoldFocusedSubtree{})
	assert.True(t, m.After.IsCollapsed("a"))
	assert.Equal(t, structural, m.Effects)

	m = handle(t, testEnv(), g.WithFocus("b"), ToggleFoldFocusedSubtree{})
	assert.False(t, m.Changed(), "leaf cannot fold")

	m = handle(t, testEnv(), g, CenterFocusedNode{})
	assert.False(t, m.Changed())
	require.NotNil(t, m.Viewport)
	assert.Equal(t, ViewportIntent{Kind: ViewportCenter, Node: "a"}, *m.Viewport)
}

func TestAreaCommands(t *testing.T) {
	g := treeGraph(t, graph.ModeTree).WithFocus("a")

	m := handle(t, testEnv(), g, ConvertFocusedAreaMode{Mode: graph.ModeDiagram})
	a, _ := m.After.Area("main")
	assert.Equal(t, graph.ModeDiagram, a.Mode)
	assert.False(t, m.Effects.TreeLayout)

	m = handle(t, testEnv(), g, ConvertFocusedAreaMode{Mode: graph.ModeTree})
	assert.False(t, m.Changed())

	// Splitting a connected tree across areas is forbidden.
	_, err := Handle(testEnv(), g, CreateArea{ID: "side", Mode: graph.ModeTree, NodeIDs: []graph.NodeID{"a1"}})
	assert.True(t, errs.Is(err, errs.ErrCodeCrossAreaEdgeForbidden))

	m = handle(t, testEnv(), g, CreateArea{ID: "empty", Mode: graph.ModeDiagram})
	_, ok := m.After.Area("empty")
	assert.True(t, ok)

	_, err = Handle(testEnv(), m.After, AssignNodesToArea{NodeIDs: []graph.NodeID{"a"}, AreaID: "empty"})
	assert.True(t, errs.Is(err, errs.ErrCodeCrossAreaEdgeForbidden))

	_, err = Handle(testEnv(), g, AssignNodesToArea{NodeIDs: []graph.NodeID{"a"}, AreaID: "nope"})
	assert.True(t, errs.Is(err, errs.ErrCodeAreaNotFound))
}

func TestParsePosition(t *testing.T) {
	p, err := ParsePosition("above")
	require.NoError(t, err)
	assert.Equal(t, Above, p)

	_, err = ParsePosition("sideways")
	assert.Error(t, err)
}
