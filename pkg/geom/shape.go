package geom

// ShapeKind selects how an area's outline is represented.
type ShapeKind int

const (
	// ShapeRectangle uses the bounding rectangle as the outline.
	ShapeRectangle ShapeKind = iota
	// ShapeConvexHull uses the convex hull of member corner points.
	ShapeConvexHull
)

// String returns the configuration name of the kind.
func (k ShapeKind) String() string {
	switch k {
	case ShapeConvexHull:
		return "hull"
	default:
		return "rectangle"
	}
}

// ParseShapeKind maps a configuration name to a ShapeKind. Unknown names
// return false.
func ParseShapeKind(s string) (ShapeKind, bool) {
	switch s {
	case "rectangle", "rect":
		return ShapeRectangle, true
	case "hull", "convex-hull":
		return ShapeConvexHull, true
	}
	return ShapeRectangle, false
}

// Shape is the outline of a group of rectangles: either its bounding
// rectangle or a convex hull. Bounds is always populated; Hull only for
// ShapeConvexHull.
type Shape struct {
	Kind   ShapeKind
	Bounds Rect
	Hull   []Point
}

// RectShape returns a rectangle shape.
func RectShape(r Rect) Shape {
	return Shape{Kind: ShapeRectangle, Bounds: r}
}

// HullShape builds a convex hull shape over the corners of rects. It
// returns a zero Shape when rects is empty.
func HullShape(rects []Rect) Shape {
	b, ok := Bounds(rects)
	if !ok {
		return Shape{}
	}
	pts := make([]Point, 0, 4*len(rects))
	for _, r := range rects {
		pts = append(pts, r.Corners()...)
	}
	return Shape{Kind: ShapeConvexHull, Bounds: b, Hull: ConvexHull(pts)}
}

// NewShape builds a shape of the requested kind over rects.
func NewShape(kind ShapeKind, rects []Rect) Shape {
	if kind == ShapeConvexHull {
		return HullShape(rects)
	}
	b, _ := Bounds(rects)
	return RectShape(b)
}

// Polygon materializes the outline as a convex polygon so callers never
// special-case the kind.
func (s Shape) Polygon() []Point {
	if s.Kind == ShapeConvexHull && len(s.Hull) > 0 {
		return s.Hull
	}
	return s.Bounds.Corners()
}

// Translate returns s moved by v.
func (s Shape) Translate(v Vector) Shape {
	out := Shape{Kind: s.Kind, Bounds: s.Bounds.Translate(v)}
	if len(s.Hull) > 0 {
		out.Hull = make([]Point, len(s.Hull))
		for i, p := range s.Hull {
			out.Hull[i] = p.Add(v)
		}
	}
	return out
}

// Overlaps reports whether s and o are closer than spacing. Bounds are
// expanded by spacing/2 each and rejected with an interval test first; if
// both shapes are hulls the result is confirmed with SAT.
func (s Shape) Overlaps(o Shape, spacing float64) bool {
	half := spacing / 2
	if !s.Bounds.Expand(half).Overlaps(o.Bounds.Expand(half)) {
		return false
	}
	if s.Kind == ShapeConvexHull && o.Kind == ShapeConvexHull {
		return PolygonsOverlap(s.Polygon(), o.Polygon(), spacing)
	}
	return true
}
