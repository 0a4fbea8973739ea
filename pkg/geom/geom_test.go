package geom

import (
	"slices"
	"testing"
)

func TestRectOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want bool
	}{
		{"disjoint", Rect{0, 0, 10, 10}, Rect{20, 0, 10, 10}, false},
		{"touching", Rect{0, 0, 10, 10}, Rect{10, 0, 10, 10}, false},
		{"overlapping", Rect{0, 0, 10, 10}, Rect{5, 5, 10, 10}, true},
		{"contained", Rect{0, 0, 100, 100}, Rect{10, 10, 5, 5}, true},
		{"vertical gap", Rect{0, 0, 10, 10}, Rect{0, 11, 10, 10}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("Overlaps() not symmetric: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectUnionAndBounds(t *testing.T) {
	got := Rect{0, 0, 10, 10}.Union(Rect{20, 5, 10, 20})
	want := Rect{0, 0, 30, 25}
	if got != want {
		t.Errorf("Union() = %+v, want %+v", got, want)
	}

	if _, ok := Bounds(nil); ok {
		t.Error("Bounds(nil) should report ok=false")
	}
	b, ok := Bounds([]Rect{{5, 5, 1, 1}, {-5, 0, 2, 2}})
	if !ok || b != (Rect{-5, 0, 11, 6}) {
		t.Errorf("Bounds() = %+v, %v", b, ok)
	}
}

func TestConvexHull(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
		want   []Point
	}{
		{
			name:   "square with interior point",
			points: []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {5, 5}},
			want:   []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}},
		},
		{
			name:   "collinear points dropped",
			points: []Point{{0, 0}, {5, 0}, {10, 0}, {10, 10}, {0, 10}},
			want:   []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}},
		},
		{
			name:   "duplicates",
			points: []Point{{1, 1}, {1, 1}},
			want:   []Point{{1, 1}},
		},
		{
			name:   "empty",
			points: nil,
			want:   []Point{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConvexHull(tt.points)
			if len(got) != len(tt.want) {
				t.Fatalf("ConvexHull() = %v, want %v", got, tt.want)
			}
			for _, p := range tt.want {
				if !slices.Contains(got, p) {
					t.Errorf("ConvexHull() = %v, missing %v", got, p)
				}
			}
		})
	}
}

func TestConvexHullOfLShape(t *testing.T) {
	// Two rectangles forming an L: the hull cuts the inner corner.
	s := HullShape([]Rect{{0, 0, 10, 30}, {0, 20, 30, 10}})
	if s.Kind != ShapeConvexHull {
		t.Fatalf("Kind = %v, want hull", s.Kind)
	}
	if slices.Contains(s.Hull, Point{10, 20}) {
		t.Errorf("hull %v should not contain the concave corner", s.Hull)
	}
	if len(s.Hull) != 5 {
		t.Errorf("hull has %d points, want 5: %v", len(s.Hull), s.Hull)
	}
}

func TestPolygonsOverlap(t *testing.T) {
	square := func(x, y, s float64) []Point { return Rect{x, y, s, s}.Corners() }
	triangle := []Point{{0, 0}, {10, 0}, {0, 10}}

	tests := []struct {
		name string
		a, b []Point
		gap  float64
		want bool
	}{
		{"separate", square(0, 0, 10), square(20, 0, 10), 0, false},
		{"overlap", square(0, 0, 10), square(5, 5, 10), 0, true},
		{"within gap", square(0, 0, 10), square(15, 0, 10), 8, true},
		{"beyond gap", square(0, 0, 10), square(15, 0, 10), 4, false},
		// Bounding boxes overlap but the diagonal separates them.
		{"diagonal separation", triangle, square(6, 6, 10), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PolygonsOverlap(tt.a, tt.b, tt.gap); got != tt.want {
				t.Errorf("PolygonsOverlap() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShapeOverlaps(t *testing.T) {
	l1 := HullShape([]Rect{{0, 0, 10, 10}, {0, 90, 10, 10}, {90, 90, 10, 10}})
	// Sits inside l1's bounding box but outside its hull.
	corner := HullShape([]Rect{{85, 0, 15, 15}})

	if !l1.Bounds.Overlaps(corner.Bounds) {
		t.Fatal("test setup: bounds should overlap")
	}
	if l1.Overlaps(corner, 0) {
		t.Error("hull shapes should not overlap")
	}

	rect := RectShape(l1.Bounds)
	if !rect.Overlaps(corner, 0) {
		t.Error("rectangle shape should overlap by bounds")
	}
}

func TestShapeTranslate(t *testing.T) {
	s := HullShape([]Rect{{0, 0, 10, 10}})
	moved := s.Translate(Vector{DX: 5, DY: -5})
	if moved.Bounds != (Rect{5, -5, 10, 10}) {
		t.Errorf("Bounds = %+v", moved.Bounds)
	}
	if !slices.Contains(moved.Hull, Point{5, -5}) {
		t.Errorf("Hull = %v, want translated corner", moved.Hull)
	}
	if slices.Contains(s.Hull, Point{5, -5}) {
		t.Error("Translate must not mutate the receiver")
	}
}

func TestParseShapeKind(t *testing.T) {
	if k, ok := ParseShapeKind("hull"); !ok || k != ShapeConvexHull {
		t.Errorf("ParseShapeKind(hull) = %v, %v", k, ok)
	}
	if k, ok := ParseShapeKind("rectangle"); !ok || k != ShapeRectangle {
		t.Errorf("ParseShapeKind(rectangle) = %v, %v", k, ok)
	}
	if _, ok := ParseShapeKind("circle"); ok {
		t.Error("ParseShapeKind(circle) should fail")
	}
}

func TestDirection(t *testing.T) {
	for _, d := range []Direction{Up, Right, Down, Left} {
		got, ok := ParseDirection(d.String())
		if !ok || got != d {
			t.Errorf("ParseDirection(%q) = %v, %v", d.String(), got, ok)
		}
		if sum := d.Unit().Plus(d.Opposite().Unit()); !sum.IsZero() {
			t.Errorf("%v and its opposite do not cancel: %+v", d, sum)
		}
	}
	if _, ok := ParseDirection("north"); ok {
		t.Error("ParseDirection(north) should fail")
	}
}
