package command

import (
	"fmt"

	"github.com/matzehuels/nodecanvas/pkg/geom"
	"github.com/matzehuels/nodecanvas/pkg/graph"
)

// Effects tell the pipeline which stages must run after a handler. A stage
// runs only when Mutated and its own flag are both set.
type Effects struct {
	Mutated            bool
	TreeLayout         bool
	AreaLayout         bool
	FocusNormalization bool
}

// structural is the effect set of an edit that changes hierarchy or
// geometry.
var structural = Effects{Mutated: true, TreeLayout: true, AreaLayout: true, FocusNormalization: true}

// ViewportKind is the kind of viewport hint.
type ViewportKind int

const (
	// ViewportRecenter asks the view to bring the node into sight after focus
	// moved as a side effect.
	ViewportRecenter ViewportKind = iota
	// ViewportCenter asks the view to center exactly on the node.
	ViewportCenter
)

// String returns "recenter" or "center".
func (k ViewportKind) String() string {
	if k == ViewportCenter {
		return "center"
	}
	return "recenter"
}

// ViewportIntent is a hint for the rendering collaborator.
type ViewportIntent struct {
	Kind ViewportKind
	Node graph.NodeID
}

// String implements fmt.Stringer.
func (v ViewportIntent) String() string { return fmt.Sprintf("%s(%s)", v.Kind, v.Node) }

// Mutation is the result of handling one command.
type Mutation struct {
	Command Command
	Before  graph.Graph
	After   graph.Graph
	Effects Effects
	// Seeds are the nodes whose hierarchy or geometry changed. Tree layout is
	// limited to their components; the first seed's cluster is the origin of
	// overlap resolution.
	Seeds []graph.NodeID
	// Viewport is an explicit viewport request from the command itself.
	Viewport *ViewportIntent
	// AddedNode is the id of a node created by the command, if any.
	AddedNode graph.NodeID
}

// Changed reports whether the handler produced a different graph.
func (m Mutation) Changed() bool { return m.Effects.Mutated }

// noop returns an unchanged mutation.
func noop(cmd Command, g graph.Graph) Mutation {
	return Mutation{Command: cmd, Before: g, After: g}
}

// Env carries the settings and id source handlers depend on.
type Env struct {
	IDs graph.IDGenerator
	// NodeWidth and NodeHeight size newly created nodes.
	NodeWidth  float64
	NodeHeight float64
	// Gap separates newly placed nodes from their neighbours.
	Gap float64
	// MoveStep is the distance moveNode travels in diagram areas.
	MoveStep float64
	// NudgeStep is the distance nudgeNode travels.
	NudgeStep float64
	// DefaultMode is the mode of areas created implicitly by addNode.
	DefaultMode graph.Mode
}

// Default Env values.
const (
	DefaultNodeWidth  = 200.0
	DefaultNodeHeight = 40.0
	DefaultGap        = 48.0
	DefaultMoveStep   = 40.0
	DefaultNudgeStep  = 8.0
)

// SetDefaults fills zero fields.
func (e *Env) SetDefaults() {
	if e.IDs == nil {
		e.IDs = graph.UUIDGenerator{}
	}
	if e.NodeWidth == 0 {
		e.NodeWidth = DefaultNodeWidth
	}
	if e.NodeHeight == 0 {
		e.NodeHeight = DefaultNodeHeight
	}
	if e.Gap == 0 {
		e.Gap = DefaultGap
	}
	if e.MoveStep == 0 {
		e.MoveStep = DefaultMoveStep
	}
	if e.NudgeStep == 0 {
		e.NudgeStep = DefaultNudgeStep
	}
	if e.DefaultMode == "" {
		e.DefaultMode = graph.ModeTree
	}
}

// Validate rejects unusable sizes.
func (e Env) Validate() error {
	if e.NodeWidth <= 0 || e.NodeHeight <= 0 {
		return fmt.Errorf("invalid node size %gx%g", e.NodeWidth, e.NodeHeight)
	}
	if e.Gap < 0 || e.MoveStep <= 0 || e.NudgeStep <= 0 {
		return fmt.Errorf("invalid gap or step (gap=%g move=%g nudge=%g)", e.Gap, e.MoveStep, e.NudgeStep)
	}
	if !e.DefaultMode.Valid() {
		return fmt.Errorf("invalid default mode %q", e.DefaultMode)
	}
	return nil
}

func (e Env) newNode(at geom.Point) graph.Node {
	return graph.Node{
		ID:     e.IDs.NodeID(),
		Kind:   graph.KindText,
		Bounds: geom.Rect{X: at.X, Y: at.Y, Width: e.NodeWidth, Height: e.NodeHeight},
	}
}
