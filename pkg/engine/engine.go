// Package engine owns the current graph of one editing session.
//
// An [Engine] applies command batches through the pure handlers in
// [command] and the [pipeline.Coordinator], keeps bounded undo and redo
// histories, and publishes every committed graph atomically so readers never
// wait for a writer.
//
// # Usage
//
//	eng, err := engine.New(engine.Config{Logger: logger})
//	if err != nil {
//	    return err
//	}
//	res, err := eng.Apply(ctx, []command.Command{
//	    command.AddNode{},
//	    command.AddChildNode{},
//	})
//	if err != nil {
//	    // the committed graph is unchanged
//	}
//	visible := eng.Visible()
//
// # Batches
//
// A batch is all-or-nothing: every command sees the graph produced by the
// previous one, and the first failure discards the whole batch. A history
// entry is recorded only when graph content changed; moving focus alone is
// committed without one.
package engine

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodecanvas/pkg/area"
	"github.com/matzehuels/nodecanvas/pkg/command"
	"github.com/matzehuels/nodecanvas/pkg/fold"
	"github.com/matzehuels/nodecanvas/pkg/graph"
	"github.com/matzehuels/nodecanvas/pkg/pipeline"
)

// DefaultHistoryCapacity is the number of undo steps kept.
const DefaultHistoryCapacity = 100

// MaxAreaRetries bounds the area id collisions AddNodeFromModeSelection
// tolerates before keeping the plain add.
const MaxAreaRetries = 3

// Config configures an Engine.
type Config struct {
	// HistoryCapacity is the maximum number of undo (and redo) entries.
	HistoryCapacity int `toml:"history_capacity" json:"history_capacity,omitempty"`

	// Env carries node defaults and the id generator for handlers.
	Env command.Env `toml:"-" json:"-"`

	// Pipeline configures layout stages.
	Pipeline pipeline.Options `toml:"-" json:"-"`

	// Logger receives batch outcomes. Defaults to a discard logger.
	Logger *log.Logger `toml:"-" json:"-"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.HistoryCapacity == 0 {
		c.HistoryCapacity = DefaultHistoryCapacity
	}
	c.Env.SetDefaults()
	if c.Logger == nil {
		c.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if c.Pipeline.Logger == nil {
		c.Pipeline.Logger = c.Logger
	}
	c.Pipeline.SetDefaults()
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.HistoryCapacity < 0 {
		return fmt.Errorf("invalid history_capacity: %d", c.HistoryCapacity)
	}
	if err := c.Env.Validate(); err != nil {
		return fmt.Errorf("node defaults: %w", err)
	}
	return c.Pipeline.Validate()
}

// Result is the outcome of an engine operation.
type Result struct {
	Graph      graph.Graph
	CanUndo    bool
	CanRedo    bool
	Viewport   *command.ViewportIntent
	DidAddNode bool
	// AddedNode is the last node created by the batch, if any.
	AddedNode graph.NodeID
}

// Engine is the single writer of a session's graph. It is safe for
// concurrent use: mutations are serialized, and Snapshot and Visible read the
// last committed graph without locking.
type Engine struct {
	mu      sync.Mutex
	current atomic.Pointer[graph.Graph]
	undo    *history
	redo    *history

	env    command.Env
	coord  *pipeline.Coordinator
	logger *log.Logger
}

// New creates an engine with an empty graph.
func New(cfg Config) (*Engine, error) {
	return NewWithGraph(graph.New(), cfg)
}

// NewWithGraph creates an engine starting from g. The graph must satisfy the
// area partition rules; history starts empty.
func NewWithGraph(g graph.Graph, cfg Config) (*Engine, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := area.ValidateEdges(g); err != nil {
		return nil, err
	}
	if err := area.Validate(g); err != nil {
		return nil, err
	}

	coord, err := pipeline.New(cfg.Pipeline)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		undo:   newHistory(cfg.HistoryCapacity),
		redo:   newHistory(cfg.HistoryCapacity),
		env:    cfg.Env,
		coord:  coord,
		logger: cfg.Logger,
	}
	g = fold.Normalize(g)
	e.current.Store(&g)
	return e, nil
}

// Snapshot returns the last committed graph.
func (e *Engine) Snapshot() graph.Graph {
	return *e.current.Load()
}

// Visible returns the committed graph without nodes hidden by folding.
func (e *Engine) Visible() graph.Graph {
	return fold.Visible(e.Snapshot())
}

// CanUndo reports whether Undo would change the graph.
func (e *Engine) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.undo.size() > 0
}

// CanRedo reports whether Redo would change the graph.
func (e *Engine) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.redo.size() > 0
}

// result builds a Result for the committed graph. Callers hold e.mu.
func (e *Engine) result() Result {
	return Result{
		Graph:   e.Snapshot(),
		CanUndo: e.undo.size() > 0,
		CanRedo: e.redo.size() > 0,
	}
}
