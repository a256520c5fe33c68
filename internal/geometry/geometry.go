package geometry

import "math"

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (a Point) Add(b Point) Point     { return Point{a.X + b.X, a.Y + b.Y} }
func (a Point) Sub(b Point) Point     { return Point{a.X - b.X, a.Y - b.Y} }
func (a Point) Scale(s float64) Point { return Point{a.X * s, a.Y * s} }
func (a Point) Dist(b Point) float64  { return math.Hypot(a.X-b.X, a.Y-b.Y) }
func (a Point) Rotate(rad float64) Point {
	sin, cos := math.Sincos(rad)
	return Point{a.X*cos - a.Y*sin, a.X*sin + a.Y*cos}
}

// Polygon is a closed shape described by its vertices in local space,
// relative to the owning object's location.
type Polygon struct {
	Vertices []Point `json:"vertices"`
}

func (p Polygon) Equal(o Polygon) bool {
	if len(p.Vertices) != len(o.Vertices) {
		return false
	}
	for i, v := range p.Vertices {
		if v != o.Vertices[i] {
			return false
		}
	}
	return true
}

// Transform maps the polygon's local vertices into world space: rotate
// around the local origin, then translate to location.
func (p Polygon) Transform(location Point, rotation float64) Polygon {
	out := Polygon{Vertices: make([]Point, len(p.Vertices))}
	for i, v := range p.Vertices {
		out.Vertices[i] = v.Rotate(rotation).Add(location)
	}
	return out
}

// Bounds returns the axis-aligned bounding box as (min, max).
func (p Polygon) Bounds() (Point, Point) {
	if len(p.Vertices) == 0 {
		return Point{}, Point{}
	}
	min, max := p.Vertices[0], p.Vertices[0]
	for _, v := range p.Vertices[1:] {
		min.X = math.Min(min.X, v.X)
		min.Y = math.Min(min.Y, v.Y)
		max.X = math.Max(max.X, v.X)
		max.Y = math.Max(max.Y, v.Y)
	}
	return min, max
}

// Contains reports whether pt lies inside the polygon, using the even-odd
// ray casting rule. Points exactly on an edge may fall on either side.
func (p Polygon) Contains(pt Point) bool {
	inside := false
	n := len(p.Vertices)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := p.Vertices[i], p.Vertices[j]
		if (vi.Y > pt.Y) != (vj.Y > pt.Y) &&
			pt.X < (vj.X-vi.X)*(pt.Y-vi.Y)/(vj.Y-vi.Y)+vi.X {
			inside = !inside
		}
	}
	return inside
}

// Rect builds an axis-aligned rectangle centered on the local origin.
func Rect(width, height float64) Polygon {
	w, h := width/2, height/2
	return Polygon{Vertices: []Point{{-w, -h}, {w, -h}, {w, h}, {-w, h}}}
}

// RegularPolygon builds an n-gon with the given circumradius, first vertex
// pointing along +X.
func RegularPolygon(n int, radius float64) Polygon {
	verts := make([]Point, n)
	for i := range verts {
		angle := 2 * math.Pi * float64(i) / float64(n)
		sin, cos := math.Sincos(angle)
		verts[i] = Point{radius * cos, radius * sin}
	}
	return Polygon{Vertices: verts}
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
