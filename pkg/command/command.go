// Package command defines the editing commands and their pure handlers.
//
// [Command] is a closed set: every variant is declared in this package and
// [Handle] dispatches over all of them with an exhaustive type switch. A
// handler only edits the graph and reports which follow-up stages the edit
// requires through [Effects]; it never runs layout itself. Re-running layout
// is left to the pipeline coordinator.
package command

import (
	"fmt"

	"github.com/matzehuels/nodecanvas/pkg/geom"
	"github.com/matzehuels/nodecanvas/pkg/graph"
)

// Command is an editing command. The set of implementations is closed.
type Command interface {
	// Name returns the command's script name, e.g. "addChildNode".
	Name() string
	command()
}

// Position places a new sibling relative to the focused node.
type Position int

const (
	Below Position = iota
	Above
)

// String returns "below" or "above".
func (p Position) String() string {
	if p == Above {
		return "above"
	}
	return "below"
}

// ParsePosition maps "above" and "below" to a Position.
func ParsePosition(s string) (Position, error) {
	switch s {
	case "below", "":
		return Below, nil
	case "above":
		return Above, nil
	}
	return Below, fmt.Errorf("invalid position %q (must be above or below)", s)
}

// AddNode adds an unlinked node to the focused node's area, or to a new
// area when nothing is focused.
type AddNode struct{}

// AddChildNode adds a child of the focused node.
type AddChildNode struct{}

// AddSiblingNode adds a sibling above or below the focused node.
type AddSiblingNode struct {
	Position Position
}

// MoveFocus moves focus to the best node in a direction.
type MoveFocus struct {
	Dir geom.Direction
}

// MoveNode reorders or re-parents the focused node in tree areas and moves
// it by a step in diagram areas.
type MoveNode struct {
	Dir geom.Direction
}

// NudgeNode moves the focused node by a small step. Diagram areas only.
type NudgeNode struct {
	Dir geom.Direction
}

// DeleteFocusedNode deletes the focused node (with its subtree in tree
// areas).
type DeleteFocusedNode struct{}

// SetNodeText replaces a node's text. A positive MeasuredHeight also
// replaces the node's height. An empty NodeID targets the focused node.
type SetNodeText struct {
	NodeID         graph.NodeID
	Text           string
	MeasuredHeight float64
}

// ToggleFoldFocusedSubtree collapses or expands the focused subtree.
type ToggleFoldFocusedSubtree struct{}

// CenterFocusedNode asks the viewport to center on the focused node.
type CenterFocusedNode struct{}

// ConvertFocusedAreaMode switches the focused node's area to Mode.
type ConvertFocusedAreaMode struct {
	Mode graph.Mode
}

// CreateArea creates an area holding NodeIDs.
type CreateArea struct {
	ID      graph.AreaID
	Mode    graph.Mode
	NodeIDs []graph.NodeID
}

// AssignNodesToArea moves NodeIDs into an existing area.
type AssignNodesToArea struct {
	NodeIDs []graph.NodeID
	AreaID  graph.AreaID
}

func (AddNode) command()                  {}
func (AddChildNode) command()             {}
func (AddSiblingNode) command()           {}
func (MoveFocus) command()                {}
func (MoveNode) command()                 {}
func (NudgeNode) command()                {}
func (DeleteFocusedNode) command()        {}
func (SetNodeText) command()              {}
func (ToggleFoldFocusedSubtree) command() {}
func (CenterFocusedNode) command()        {}
func (ConvertFocusedAreaMode) command()   {}
func (CreateArea) command()               {}
func (AssignNodesToArea) command()        {}

func (AddNode) Name() string                  { return "addNode" }
func (AddChildNode) Name() string             { return "addChildNode" }
func (AddSiblingNode) Name() string           { return "addSiblingNode" }
func (MoveFocus) Name() string                { return "moveFocus" }
func (MoveNode) Name() string                 { return "moveNode" }
func (NudgeNode) Name() string                { return "nudgeNode" }
func (DeleteFocusedNode) Name() string        { return "deleteFocusedNode" }
func (SetNodeText) Name() string              { return "setNodeText" }
func (ToggleFoldFocusedSubtree) Name() string { return "toggleFoldFocusedSubtree" }
func (CenterFocusedNode) Name() string        { return "centerFocusedNode" }
func (ConvertFocusedAreaMode) Name() string   { return "convertFocusedAreaMode" }
func (CreateArea) Name() string               { return "createArea" }
func (AssignNodesToArea) Name() string        { return "assignNodesToArea" }
