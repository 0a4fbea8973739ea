// Package pipeline runs the follow-up stages of a command.
//
// Command handlers only edit the graph and flag which stages the edit
// requires. The [Coordinator] is the single place that re-applies layout:
//
//  1. Tree: lay out the parent-child components touched by the edit, inside
//     tree-mode areas only
//  2. Area: push overlapping clusters apart, starting from the edited one
//  3. Focus: prune stale collapsed roots, clear a hidden focus and
//     renormalize the selection
//
// A stage runs only when the mutation changed the graph and the stage's own
// flag is set. Layout stages see only visible nodes; hidden descendants of a
// collapsed node travel with it when its cluster is pushed.
//
// # Usage
//
//	coord, err := pipeline.New(pipeline.Options{Logger: logger})
//	if err != nil {
//	    return err
//	}
//	m, err := command.Handle(env, g, command.AddChildNode{})
//	if err != nil {
//	    return err
//	}
//	res, err := coord.Run(ctx, m)
package pipeline

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodecanvas/pkg/geom"
	arealayout "github.com/matzehuels/nodecanvas/pkg/layout/area"
	"github.com/matzehuels/nodecanvas/pkg/layout/tree"
)

// =============================================================================
// Default Values
// =============================================================================

// DefaultShape is the outline used for overlap tests.
const DefaultShape = geom.ShapeRectangle

// Stage names, as reported to logs and hooks.
const (
	StageTree  = "tree"
	StageArea  = "area"
	StageFocus = "focus"
)

// =============================================================================
// Options
// =============================================================================

// Options configures the coordinator.
type Options struct {
	// Tree configures tree layout spacing.
	Tree tree.Options

	// Area configures overlap resolution.
	Area arealayout.Options

	// Logger receives stage timings at debug level.
	Logger *log.Logger
}

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	o.Tree.SetDefaults()
	o.Area.SetDefaults()
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks the layout settings.
func (o Options) Validate() error {
	if err := o.Tree.Validate(); err != nil {
		return fmt.Errorf("tree layout: %w", err)
	}
	if err := o.Area.Validate(); err != nil {
		return fmt.Errorf("area layout: %w", err)
	}
	return nil
}

// ParseShape maps an outline name ("rectangle", "hull") to its kind.
func ParseShape(s string) (geom.ShapeKind, error) {
	if s == "" {
		return DefaultShape, nil
	}
	k, ok := geom.ParseShapeKind(s)
	if !ok {
		return DefaultShape, fmt.Errorf("invalid shape: %q (must be one of: rectangle, hull)", s)
	}
	return k, nil
}
