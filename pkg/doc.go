// Package pkg provides the core libraries for nodecanvas, a keyboard-driven
// editor for infinite node canvases.
//
// # Overview
//
// A canvas is a graph of rectangular nodes joined by edges. Nodes are
// partitioned into areas, and every area is either a tree (positions come
// from a hierarchical layout) or a diagram (positions are free). The pkg
// directory is organized as follows:
//
//  1. [graph] and [geom] - The immutable canvas model and its geometry
//  2. [command] - Editing commands as pure functions over a graph
//  3. [area], [focus] and [fold] - Area bookkeeping, spatial navigation, folding
//  4. [layout/tree] and [layout/area] - Tree placement and area separation
//  5. [pipeline] - Post-command layout coordination
//  6. [engine] - Command dispatch, batching and undo/redo history
//  7. [session] - Multiple engines by id and on-disk session storage
//  8. [render/dot] - Graphviz export
//  9. [cache], [errors], [observability], [buildinfo] - Shared infrastructure
//
// # Architecture
//
// A user edit flows through the packages like this:
//
//	key press / script step
//	         ↓
//	    [engine] (serializes commands, batches them, records history)
//	         ↓
//	    [command] (returns the next graph plus layout effects)
//	         ↓
//	    [pipeline] (tree layout, then area separation)
//	         ↓
//	    new snapshot + viewport intent
//
// Graphs are values. Every command returns a new graph and leaves its input
// untouched, which is what makes history a plain list of snapshots.
//
// # Quick Start
//
//	eng, err := engine.New(engine.Config{})
//	if err != nil {
//		return err
//	}
//	res, err := eng.Apply(ctx, []command.Command{
//		command.AddNode{},
//		command.AddChildNode{},
//		command.SetNodeText{Text: "hello"},
//	})
//	if err != nil {
//		return err
//	}
//	fmt.Println(res.Graph.NodeCount()) // 2
//
//	res = eng.Undo(ctx)
//
// [graph]: github.com/matzehuels/nodecanvas/pkg/graph
// [geom]: github.com/matzehuels/nodecanvas/pkg/geom
// [command]: github.com/matzehuels/nodecanvas/pkg/command
// [area]: github.com/matzehuels/nodecanvas/pkg/area
// [focus]: github.com/matzehuels/nodecanvas/pkg/focus
// [fold]: github.com/matzehuels/nodecanvas/pkg/fold
// [layout/tree]: github.com/matzehuels/nodecanvas/pkg/layout/tree
// [layout/area]: github.com/matzehuels/nodecanvas/pkg/layout/area
// [pipeline]: github.com/matzehuels/nodecanvas/pkg/pipeline
// [engine]: github.com/matzehuels/nodecanvas/pkg/engine
// [session]: github.com/matzehuels/nodecanvas/pkg/session
// [render/dot]: github.com/matzehuels/nodecanvas/pkg/render/dot
// [cache]: github.com/matzehuels/nodecanvas/pkg/cache
// [errors]: github.com/matzehuels/nodecanvas/pkg/errors
// [observability]: github.com/matzehuels/nodecanvas/pkg/observability
// [buildinfo]: github.com/matzehuels/nodecanvas/pkg/buildinfo
package pkg
