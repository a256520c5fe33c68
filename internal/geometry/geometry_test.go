package geometry

import (
	"math"
	"testing"
)

const eps = 1e-9

func approxEqual(a, b Point) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps
}

func TestPointRotate(t *testing.T) {
	cases := []struct {
		in   Point
		rad  float64
		want Point
	}{
		{Point{1, 0}, 0, Point{1, 0}},
		{Point{1, 0}, math.Pi / 2, Point{0, 1}},
		{Point{1, 0}, math.Pi, Point{-1, 0}},
		{Point{0, 2}, math.Pi / 2, Point{-2, 0}},
	}
	for _, c := range cases {
		if got := c.in.Rotate(c.rad); !approxEqual(got, c.want) {
			t.Errorf("%+v.Rotate(%v) = %+v, want %+v", c.in, c.rad, got, c.want)
		}
	}
}

func TestTransformRotatesThenTranslates(t *testing.T) {
	p := Polygon{Vertices: []Point{{1, 0}}}
	got := p.Transform(Point{10, 20}, math.Pi/2)
	if !approxEqual(got.Vertices[0], Point{10, 21}) {
		t.Fatalf("Transform = %+v, want {10 21}", got.Vertices[0])
	}

	// The original polygon is untouched.
	if p.Vertices[0] != (Point{1, 0}) {
		t.Fatalf("Transform mutated its receiver: %+v", p.Vertices[0])
	}
}

func TestRectBounds(t *testing.T) {
	min, max := Rect(10, 4).Bounds()
	if min != (Point{-5, -2}) || max != (Point{5, 2}) {
		t.Fatalf("Bounds = %+v %+v, want {-5 -2} {5 2}", min, max)
	}
}

func TestContains(t *testing.T) {
	square := Rect(10, 10)
	inside := []Point{{0, 0}, {4, 4}, {-4, -4}}
	outside := []Point{{6, 0}, {0, -6}, {100, 100}}

	for _, pt := range inside {
		if !square.Contains(pt) {
			t.Errorf("Contains(%+v) = false, want true", pt)
		}
	}
	for _, pt := range outside {
		if square.Contains(pt) {
			t.Errorf("Contains(%+v) = true, want false", pt)
		}
	}

	// Non-convex shape: an L made of six vertices.
	ell := Polygon{Vertices: []Point{{0, 0}, {4, 0}, {4, 2}, {2, 2}, {2, 4}, {0, 4}}}
	if !ell.Contains(Point{1, 3}) {
		t.Error("point in the L's upright not contained")
	}
	if ell.Contains(Point{3, 3}) {
		t.Error("point in the L's notch contained")
	}
}

func TestRegularPolygon(t *testing.T) {
	hex := RegularPolygon(6, 2)
	if len(hex.Vertices) != 6 {
		t.Fatalf("vertex count = %d, want 6", len(hex.Vertices))
	}
	for i, v := range hex.Vertices {
		if d := v.Dist(Point{}); math.Abs(d-2) > eps {
			t.Errorf("vertex %d at radius %v, want 2", i, d)
		}
	}
	if !approxEqual(hex.Vertices[0], Point{2, 0}) {
		t.Errorf("first vertex = %+v, want {2 0}", hex.Vertices[0])
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 10); got != 5 {
		t.Errorf("Clamp(5,0,10) = %v", got)
	}
	if got := Clamp(-1, 0, 10); got != 0 {
		t.Errorf("Clamp(-1,0,10) = %v", got)
	}
	if got := Clamp(11, 0, 10); got != 10 {
		t.Errorf("Clamp(11,0,10) = %v", got)
	}
}
