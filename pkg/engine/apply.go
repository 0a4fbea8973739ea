package engine

import (
	"context"
	"time"

	"github.com/matzehuels/nodecanvas/pkg/area"
	"github.com/matzehuels/nodecanvas/pkg/command"
	errs "github.com/matzehuels/nodecanvas/pkg/errors"
	"github.com/matzehuels/nodecanvas/pkg/graph"
	"github.com/matzehuels/nodecanvas/pkg/observability"
)

// batch accumulates the outcome of commands applied to a staged graph.
type batch struct {
	graph    graph.Graph
	viewport *command.ViewportIntent
	added    graph.NodeID
}

// step applies one command to the staged graph.
func (e *Engine) step(ctx context.Context, b *batch, cmd command.Command) (command.Mutation, error) {
	m, err := command.Handle(e.env, b.graph, cmd)
	if err != nil {
		return m, err
	}
	res, err := e.coord.Run(ctx, m)
	if err != nil {
		return m, err
	}
	b.graph = res.Graph
	if res.Viewport != nil {
		b.viewport = res.Viewport
	}
	if m.AddedNode != "" {
		b.added = m.AddedNode
	}
	return m, nil
}

// Apply runs cmds in order and commits the final graph.
//
// The batch is all-or-nothing: on the first error nothing is committed and
// the error is returned unmodified alongside the current state. An empty
// batch or a batch of no-ops commits nothing.
func (e *Engine) Apply(ctx context.Context, cmds []command.Command) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	before := e.Snapshot()
	b := &batch{graph: before}
	for _, cmd := range cmds {
		if _, err := e.step(ctx, b, cmd); err != nil {
			e.logger.Warn("command rejected", "command", commandName(cmd), "error", err)
			observability.Engine().OnApply(ctx, len(cmds), false, time.Since(start), err)
			return e.result(), err
		}
	}

	committed := e.commit(before, b.graph)
	observability.Engine().OnApply(ctx, len(cmds), committed, time.Since(start), nil)
	e.logger.Debug("batch applied", "commands", len(cmds), "committed", committed, "duration", time.Since(start))
	return e.finish(b), nil
}

// commit publishes after. A history entry is pushed only when content
// changed. It reports whether anything was published.
func (e *Engine) commit(before, after graph.Graph) bool {
	if after.Equal(before) {
		return false
	}
	if !after.ContentEqual(before) {
		e.undo.push(before)
		e.redo.clear()
	}
	e.current.Store(&after)
	return true
}

func (e *Engine) finish(b *batch) Result {
	res := e.result()
	res.Viewport = b.viewport
	if b.added != "" && res.Graph.HasNode(b.added) {
		res.DidAddNode = true
		res.AddedNode = b.added
	}
	return res
}

// Undo restores the graph before the last content change. With an empty
// history it returns the current state.
func (e *Engine) Undo(ctx context.Context) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev, ok := e.undo.pop()
	observability.Engine().OnUndo(ctx, ok)
	if !ok {
		return e.result()
	}
	cur := e.Snapshot()
	e.redo.push(cur)
	e.current.Store(&prev)
	e.logger.Debug("undo", "remaining", e.undo.size())
	return e.restored(cur, prev)
}

// Redo reapplies the last undone change. With an empty redo history it
// returns the current state.
func (e *Engine) Redo(ctx context.Context) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	next, ok := e.redo.pop()
	observability.Engine().OnRedo(ctx, ok)
	if !ok {
		return e.result()
	}
	cur := e.Snapshot()
	e.undo.push(cur)
	e.current.Store(&next)
	e.logger.Debug("redo", "remaining", e.redo.size())
	return e.restored(cur, next)
}

func (e *Engine) restored(from, to graph.Graph) Result {
	res := e.result()
	before, _ := from.Focused()
	if after, ok := to.Focused(); ok && after != before {
		res.Viewport = &command.ViewportIntent{Kind: command.ViewportRecenter, Node: after}
	}
	return res
}

// AddNodeFromModeSelection adds a node and makes sure it lives in an area of
// the given mode.
//
// The node is added as by AddNode. If its area already has the mode nothing
// else happens; if the node is alone in its area the area is converted;
// otherwise a new area is created for it. Area id collisions are retried up
// to MaxAreaRetries times with fresh ids. When no area can be arranged the
// plain add is committed and no error is returned.
func (e *Engine) AddNodeFromModeSelection(ctx context.Context, mode graph.Mode) (Result, error) {
	if !mode.Valid() {
		return e.resultLocked(), errs.New(errs.ErrCodeModeMismatch, "unknown area mode %q", mode)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	before := e.Snapshot()
	b := &batch{graph: before}
	m, err := e.step(ctx, b, command.AddNode{})
	if err != nil {
		observability.Engine().OnApply(ctx, 1, false, time.Since(start), err)
		return e.result(), err
	}

	added := m.AddedNode
	if err := e.arrangeArea(ctx, b, added, mode); err != nil {
		e.logger.Warn("keeping plain add", "node", added, "mode", mode, "error", err)
	}

	committed := e.commit(before, b.graph)
	observability.Engine().OnApply(ctx, 1, committed, time.Since(start), nil)
	return e.finish(b), nil
}

// arrangeArea moves id into an area of mode. On failure b is left as it was.
func (e *Engine) arrangeArea(ctx context.Context, b *batch, id graph.NodeID, mode graph.Mode) error {
	current, err := area.Of(b.graph, id)
	if err != nil {
		return err
	}
	if current.Mode == mode {
		return nil
	}

	staged := *b
	if current.Len() == 1 {
		if _, err := e.step(ctx, &staged, command.ConvertFocusedAreaMode{Mode: mode}); err != nil {
			return err
		}
		*b = staged
		return nil
	}

	for attempt := 1; ; attempt++ {
		staged = *b
		cmd := command.CreateArea{ID: e.env.IDs.AreaID(), Mode: mode, NodeIDs: []graph.NodeID{id}}
		_, err = e.step(ctx, &staged, cmd)
		if err == nil {
			*b = staged
			return nil
		}
		if !errs.Is(err, errs.ErrCodeAreaAlreadyExists) || attempt >= MaxAreaRetries {
			return err
		}
		e.logger.Debug("area id collision", "area", cmd.ID, "attempt", attempt)
	}
}

// commandName names cmd for logs. Handle rejects nil commands, so the
// rejection path must not call methods on them.
func commandName(cmd command.Command) string {
	if cmd == nil {
		return "<nil>"
	}
	return cmd.Name()
}

func (e *Engine) resultLocked() Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.result()
}
