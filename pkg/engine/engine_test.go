package engine

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/nodecanvas/pkg/command"
	errs "github.com/matzehuels/nodecanvas/pkg/errors"
	"github.com/matzehuels/nodecanvas/pkg/geom"
	"github.com/matzehuels/nodecanvas/pkg/graph"
)

func newEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	if cfg.Env.IDs == nil {
		cfg.Env.IDs = graph.NewSequentialGenerator()
	}
	e, err := New(cfg)
	require.NoError(t, err)
	return e
}

func apply(t *testing.T, e *Engine, cmds ...command.Command) Result {
	t.Helper()
	res, err := e.Apply(context.Background(), cmds)
	require.NoError(t, err)
	return res
}

func TestEndToEnd(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, Config{})

	apply(t, e, command.AddNode{})
	apply(t, e, command.AddChildNode{})
	res := apply(t, e, command.AddSiblingNode{Position: command.Below})

	g := res.Graph
	require.Equal(t, 3, g.NodeCount())
	require.Equal(t, 2, g.EdgeCount())
	assert.True(t, res.CanUndo)
	assert.False(t, res.CanRedo)
	assert.True(t, res.DidAddNode)
	assert.Equal(t, graph.NodeID("node-3"), res.AddedNode)

	// The sibling shares its parent and is stacked below the first child.
	assert.Equal(t, []graph.NodeID{"node-2", "node-3"}, g.Children("node-1"))
	first, _ := g.Node("node-2")
	second, _ := g.Node("node-3")
	assert.Equal(t, first.Bounds.X, second.Bounds.X)
	assert.GreaterOrEqual(t, second.Bounds.MinY(), first.Bounds.MaxY())

	// Every node is in the single tree area.
	a, ok := g.Area("area-1")
	require.True(t, ok)
	assert.Equal(t, 3, a.Len())

	res = e.Undo(ctx)
	assert.Equal(t, 2, res.Graph.NodeCount())
	assert.True(t, res.CanRedo)

	res = e.Undo(ctx)
	res = e.Undo(ctx)
	assert.True(t, res.Graph.IsEmpty())
	assert.False(t, res.CanUndo)

	res = e.Undo(ctx)
	assert.True(t, res.Graph.IsEmpty(), "undo on empty history is a no-op")

	res = e.Redo(ctx)
	assert.Equal(t, 1, res.Graph.NodeCount())
	assert.True(t, e.Snapshot().Equal(res.Graph))
}

func TestApplyIsAllOrNothing(t *testing.T) {
	e := newEngine(t, Config{})

	res, err := e.Apply(context.Background(), []command.Command{
		command.AddNode{},
		command.NudgeNode{Dir: geom.Up}, // tree areas reject nudges
	})
	assert.True(t, errs.Is(err, errs.ErrCodeModeMismatch))
	assert.True(t, res.Graph.IsEmpty())
	assert.False(t, res.CanUndo)
	assert.True(t, e.Snapshot().IsEmpty())
}

func TestApplyUnknownCommand(t *testing.T) {
	e := newEngine(t, Config{})
	_, err := e.Apply(context.Background(), []command.Command{&command.AddNode{}})
	assert.True(t, errs.Is(err, errs.ErrCodeUnknownCommand))
}

func TestApplyNilCommand(t *testing.T) {
	e := newEngine(t, Config{})
	before := apply(t, e, command.AddNode{}).Graph

	res, err := e.Apply(context.Background(), []command.Command{command.AddChildNode{}, nil})
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrCodeUnknownCommand))
	assert.True(t, res.Graph.Equal(before))
	assert.True(t, e.Snapshot().Equal(before))
	assert.False(t, e.CanRedo())
}

func TestFocusOnlyChangeSkipsHistory(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, Config{})
	apply(t, e, command.AddNode{})
	apply(t, e, command.AddChildNode{})

	res := apply(t, e, command.MoveFocus{Dir: geom.Left})
	id, _ := res.Graph.Focused()
	assert.Equal(t, graph.NodeID("node-1"), id)
	require.NotNil(t, res.Viewport)
	assert.Equal(t, command.ViewportRecenter, res.Viewport.Kind)

	// One undo takes back the child, not the focus move.
	res = e.Undo(ctx)
	assert.Equal(t, 1, res.Graph.NodeCount())
}

func TestNoopBatchCommitsNothing(t *testing.T) {
	e := newEngine(t, Config{})
	res := apply(t, e, command.AddChildNode{}, command.DeleteFocusedNode{})
	assert.True(t, res.Graph.IsEmpty())
	assert.False(t, res.CanUndo)
	assert.False(t, res.DidAddNode)

	res = apply(t, e)
	assert.False(t, res.CanUndo)
}

func TestCenterFocusedNode(t *testing.T) {
	e := newEngine(t, Config{})
	apply(t, e, command.AddNode{})
	res := apply(t, e, command.CenterFocusedNode{})
	require.NotNil(t, res.Viewport)
	assert.Equal(t, command.ViewportIntent{Kind: command.ViewportCenter, Node: "node-1"}, *res.Viewport)
}

func TestHistoryIsBounded(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, Config{HistoryCapacity: 2})
	for range 3 {
		apply(t, e, command.AddNode{})
	}

	e.Undo(ctx)
	res := e.Undo(ctx)
	assert.Equal(t, 1, res.Graph.NodeCount())
	assert.False(t, res.CanUndo, "oldest entry was evicted")
}

func TestNewChangeClearsRedo(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, Config{})
	apply(t, e, command.AddNode{})
	e.Undo(ctx)
	require.True(t, e.CanRedo())

	res := apply(t, e, command.AddNode{})
	assert.False(t, res.CanRedo)
	assert.False(t, e.CanRedo())
}

func TestNewWithGraphValidatesAreas(t *testing.T) {
	g, err := graph.Build([]graph.Node{{ID: "a", Bounds: geom.Rect{Width: 10, Height: 10}}}, nil)
	require.NoError(t, err)

	_, err = NewWithGraph(g, Config{})
	assert.True(t, errs.Is(err, errs.ErrCodeAreaDataMissing))

	_, err = NewWithGraph(g.WithArea(graph.NewArea("other", graph.ModeTree)), Config{})
	assert.True(t, errs.Is(err, errs.ErrCodeNodeWithoutArea))

	_, err = New(Config{HistoryCapacity: -1})
	assert.Error(t, err)
}

// scriptedIDs hands out the queued area ids before falling back to a
// sequential generator.
type scriptedIDs struct {
	*graph.SequentialGenerator
	areas []graph.AreaID
	calls int
}

func (s *scriptedIDs) AreaID() graph.AreaID {
	s.calls++
	if len(s.areas) > 0 {
		id := s.areas[0]
		s.areas = s.areas[1:]
		return id
	}
	return s.SequentialGenerator.AreaID()
}

// seeded returns an engine over a focused root in tree area "main".
func seeded(t *testing.T, ids *scriptedIDs) *Engine {
	t.Helper()
	g, err := graph.Build(
		[]graph.Node{{ID: "root", Bounds: geom.Rect{Width: 200, Height: 40}}},
		nil,
		graph.NewArea("main", graph.ModeTree, "root"),
	)
	require.NoError(t, err)
	e, err := NewWithGraph(g.WithFocus("root"), Config{Env: command.Env{IDs: ids}})
	require.NoError(t, err)
	return e
}

func TestAddNodeFromModeSelection(t *testing.T) {
	ctx := context.Background()

	t.Run("ReusesMatchingArea", func(t *testing.T) {
		ids := &scriptedIDs{SequentialGenerator: graph.NewSequentialGenerator()}
		e := seeded(t, ids)
		res, err := e.AddNodeFromModeSelection(ctx, graph.ModeTree)
		require.NoError(t, err)
		assert.True(t, res.DidAddNode)
		assert.Equal(t, 1, res.Graph.AreaCount())
		assert.Zero(t, ids.calls)
	})

	t.Run("ConvertsSoleMemberArea", func(t *testing.T) {
		e := newEngine(t, Config{})
		res, err := e.AddNodeFromModeSelection(ctx, graph.ModeDiagram)
		require.NoError(t, err)
		a, ok := res.Graph.Area("area-1")
		require.True(t, ok)
		assert.Equal(t, graph.ModeDiagram, a.Mode)
		assert.Equal(t, 1, res.Graph.AreaCount())

		// The composite is a single history entry.
		res = e.Undo(ctx)
		assert.True(t, res.Graph.IsEmpty())
	})

	t.Run("RetriesAreaIDCollision", func(t *testing.T) {
		ids := &scriptedIDs{
			SequentialGenerator: graph.NewSequentialGenerator(),
			areas:               []graph.AreaID{"main", "fresh"},
		}
		e := seeded(t, ids)
		res, err := e.AddNodeFromModeSelection(ctx, graph.ModeDiagram)
		require.NoError(t, err)
		assert.Equal(t, 2, ids.calls)

		aid, ok := res.Graph.AreaOf(res.AddedNode)
		require.True(t, ok)
		assert.Equal(t, graph.AreaID("fresh"), aid)
		a, _ := res.Graph.Area("fresh")
		assert.Equal(t, graph.ModeDiagram, a.Mode)
	})

	t.Run("FallsBackToPlainAdd", func(t *testing.T) {
		ids := &scriptedIDs{
			SequentialGenerator: graph.NewSequentialGenerator(),
			areas:               []graph.AreaID{"main", "main", "main", "main"},
		}
		e := seeded(t, ids)
		res, err := e.AddNodeFromModeSelection(ctx, graph.ModeDiagram)
		require.NoError(t, err)
		assert.Equal(t, MaxAreaRetries, ids.calls)
		assert.True(t, res.DidAddNode)

		aid, _ := res.Graph.AreaOf(res.AddedNode)
		assert.Equal(t, graph.AreaID("main"), aid)
		assert.True(t, res.CanUndo)
	})

	t.Run("RejectsUnknownMode", func(t *testing.T) {
		e := newEngine(t, Config{})
		_, err := e.AddNodeFromModeSelection(ctx, graph.Mode("mindmap"))
		assert.True(t, errs.Is(err, errs.ErrCodeModeMismatch))
		assert.True(t, e.Snapshot().IsEmpty())
	})
}

func TestConcurrentReaders(t *testing.T) {
	e := newEngine(t, Config{})
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for range 50 {
			_, _ = e.Apply(ctx, []command.Command{command.AddNode{}})
		}
	}()
	go func() {
		defer wg.Done()
		for range 50 {
			g := e.Visible()
			_ = g.NodeCount()
		}
	}()
	wg.Wait()

	assert.Equal(t, 50, e.Snapshot().NodeCount())
}
