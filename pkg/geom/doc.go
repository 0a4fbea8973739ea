// Package geom provides the planar geometry used by the canvas layout
// services.
//
// Coordinates follow screen conventions: X grows to the right and Y grows
// downward. Rectangles are anchored at their top-left corner.
//
// # Shapes
//
// A [Shape] is a tagged outline of a group of rectangles, either the
// bounding [Rect] or a convex hull built with [ConvexHull] (Andrew's
// monotone chain). [Shape.Polygon] always materializes a concrete convex
// polygon, so overlap tests share a single Separating Axis Theorem
// implementation ([PolygonsOverlap]) regardless of kind.
//
// # Concurrency
//
// All functions are pure and safe for concurrent use.
package geom
