// Package dot exports canvas graphs as Graphviz diagrams.
//
// # Usage
//
// Convert a graph to DOT source, then render it to SVG:
//
//	src := dot.ToDOT(g, dot.Options{Clusters: true})
//	svg, err := dot.RenderSVG(ctx, src)
//
// By default nodes keep their canvas positions (the "pinned" layout, drawn
// by neato). Set Options.Layout to "dot" to let Graphviz arrange the nodes
// left to right instead.
//
// Pass the visible subgraph (see package fold) to export what the editor
// shows; collapsed roots are labelled with their hidden descendant count
// either way.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. No Graphviz installation is needed.
package dot
