package geom

import "math"

// edgeNormals returns the unit normals of each polygon edge. Zero-length
// edges contribute no axis.
func edgeNormals(poly []Point) []Vector {
	n := len(poly)
	if n < 2 {
		return nil
	}
	axes := make([]Vector, 0, n)
	for i := range poly {
		a, b := poly[i], poly[(i+1)%n]
		edge := b.Sub(a)
		l := edge.Len()
		if l == 0 {
			continue
		}
		axes = append(axes, Vector{DX: -edge.DY / l, DY: edge.DX / l})
	}
	return axes
}

// project returns the min and max scalar projection of poly onto axis.
func project(poly []Point, axis Vector) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, p := range poly {
		d := p.X*axis.DX + p.Y*axis.DY
		lo = math.Min(lo, d)
		hi = math.Max(hi, d)
	}
	return lo, hi
}

// PolygonsOverlap tests two convex polygons with the Separating Axis
// Theorem, checking every edge normal of both polygons. gap inflates the
// test: the polygons count as overlapping unless some axis separates their
// projections by at least gap. With gap == 0, touching polygons do not
// overlap.
//
// Inflating projections approximates the Minkowski sum of each polygon with
// a disk of radius gap/2; vertex-to-vertex diagonals are not tested, so the
// result can be conservative near corners.
func PolygonsOverlap(a, b []Point, gap float64) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	for _, axes := range [][]Vector{edgeNormals(a), edgeNormals(b)} {
		for _, axis := range axes {
			aLo, aHi := project(a, axis)
			bLo, bHi := project(b, axis)
			if aHi+gap <= bLo || bHi+gap <= aLo {
				return false
			}
		}
	}
	return true
}
