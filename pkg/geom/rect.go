package geom

import "math"

// Point is a position in canvas coordinates. Y grows downward.
type Point struct {
	X, Y float64
}

// Add returns p translated by v.
func (p Point) Add(v Vector) Point { return Point{X: p.X + v.DX, Y: p.Y + v.DY} }

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Vector { return Vector{DX: p.X - q.X, DY: p.Y - q.Y} }

// Vector is a translation or direction in canvas coordinates.
type Vector struct {
	DX, DY float64
}

// IsZero reports whether both components are exactly zero.
func (v Vector) IsZero() bool { return v.DX == 0 && v.DY == 0 }

// Plus returns the component-wise sum of v and w.
func (v Vector) Plus(w Vector) Vector { return Vector{DX: v.DX + w.DX, DY: v.DY + w.DY} }

// Scale returns v multiplied by k.
func (v Vector) Scale(k float64) Vector { return Vector{DX: v.DX * k, DY: v.DY * k} }

// Dot returns the dot product of v and w.
func (v Vector) Dot(w Vector) float64 { return v.DX*w.DX + v.DY*w.DY }

// Len returns the Euclidean length of v.
func (v Vector) Len() float64 { return math.Hypot(v.DX, v.DY) }

// Rect is an axis-aligned rectangle anchored at its top-left corner.
//
// A Rect with non-positive Width or Height is considered degenerate; node
// bounds must never be degenerate, but intermediate geometry may be.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// MinX returns the left edge.
func (r Rect) MinX() float64 { return r.X }

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.Width }

// MinY returns the top edge.
func (r Rect) MinY() float64 { return r.Y }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// IsValid reports whether the rectangle has a positive area.
func (r Rect) IsValid() bool { return r.Width > 0 && r.Height > 0 }

// Translate returns r moved by v.
func (r Rect) Translate(v Vector) Rect {
	r.X += v.DX
	r.Y += v.DY
	return r
}

// Expand grows r by d on every side. Negative d shrinks it.
func (r Rect) Expand(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, Width: r.Width + 2*d, Height: r.Height + 2*d}
}

// Overlaps reports whether r and o share interior area. Touching edges do
// not count as overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.MinX() < o.MaxX() && o.MinX() < r.MaxX() &&
		r.MinY() < o.MaxY() && o.MinY() < r.MaxY()
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	minX := math.Min(r.MinX(), o.MinX())
	minY := math.Min(r.MinY(), o.MinY())
	maxX := math.Max(r.MaxX(), o.MaxX())
	maxY := math.Max(r.MaxY(), o.MaxY())
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Corners returns the four corners in clockwise order starting top-left.
func (r Rect) Corners() []Point {
	return []Point{
		{X: r.MinX(), Y: r.MinY()},
		{X: r.MaxX(), Y: r.MinY()},
		{X: r.MaxX(), Y: r.MaxY()},
		{X: r.MinX(), Y: r.MaxY()},
	}
}

// Bounds returns the bounding rectangle of rects. ok is false when rects is
// empty.
func Bounds(rects []Rect) (r Rect, ok bool) {
	if len(rects) == 0 {
		return Rect{}, false
	}
	r = rects[0]
	for _, o := range rects[1:] {
		r = r.Union(o)
	}
	return r, true
}
