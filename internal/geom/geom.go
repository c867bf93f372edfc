// Package geom holds the pure geometry used by the editor: distances,
// containment tests, square construction from a drag, affine matrices and
// color parsing. Nothing here knows about shapes or editor state.
package geom

import "math"

// Point is a 2D coordinate in whatever space the caller is working in.
type Point struct {
	X float64
	Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Distance returns the Euclidean distance between two points.
func Distance(ax, ay, bx, by float64) float64 {
	return math.Hypot(bx-ax, by-ay)
}

// degenerateRatio bounds how short a segment may be, relative to the
// distances from the query point, before Heron's formula loses all precision.
const degenerateRatio = 1e-9

// PointSegmentDistance returns the distance from (px, py) to the finite
// segment A-B.
//
// The triangle P, A, B is measured by its side lengths. When the angle at A
// or B is obtuse the perpendicular foot lies outside the segment and the
// nearer endpoint wins; otherwise the height of the triangle over base AB is
// twice its area (Heron) divided by the base. A segment too short to resolve
// against P's distances collapses to the nearer endpoint.
func PointSegmentDistance(px, py, ax, ay, bx, by float64) float64 {
	a := Distance(px, py, ax, ay)
	b := Distance(px, py, bx, by)
	c := Distance(ax, ay, bx, by)

	if c <= degenerateRatio*math.Max(a, b) {
		return math.Min(a, b)
	}

	a2, b2, c2 := a*a, b*b, c*c
	if b2 > a2+c2 {
		return a
	}
	if a2 > b2+c2 {
		return b
	}

	s := (a + b + c) / 2
	area2 := s * (s - a) * (s - b) * (s - c)
	if area2 <= 0 {
		// Rounding lost the area; measure the height with the cross product.
		cross := (bx-ax)*(py-ay) - (by-ay)*(px-ax)
		return math.Abs(cross) / c
	}
	return 2 / c * math.Sqrt(area2)
}

// PointInPolygon reports whether (px, py) lies inside the polygon described
// by vertices, closed from the last vertex back to the first.
//
// Every edge's cross product with the point must share one sign; a zero
// cross product (the point sits on an edge line) does not disqualify. The
// result is only meaningful for convex polygons. Fewer than 3 vertices is
// never inside.
//
// Points outside the bounding box are rejected first, otherwise a polygon
// with all vertices on one line would claim every point on that line.
func PointInPolygon(px, py float64, vertices []Point) bool {
	n := len(vertices)
	if n < 3 {
		return false
	}
	if !BoundsOf(vertices).Contains(px, py) {
		return false
	}

	var positive, negative bool
	for i := 0; i < n; i++ {
		a := vertices[i]
		b := vertices[(i+1)%n]

		cross := (b.X-a.X)*(py-a.Y) - (b.Y-a.Y)*(px-a.X)
		if cross > 0 {
			positive = true
		} else if cross < 0 {
			negative = true
		}
		if positive && negative {
			return false
		}
	}
	return true
}

// PointNear reports whether (px, py) is within radius of (qx, qy), inclusive.
func PointNear(px, py, qx, qy, radius float64) bool {
	dx := px - qx
	dy := py - qy
	return dx*dx+dy*dy <= radius*radius
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
