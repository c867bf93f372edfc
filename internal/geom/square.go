package geom

import "math"

// Square is an axis-aligned square occupying [X, X+Size] x [Y, Y+Size].
type Square struct {
	X    float64
	Y    float64
	Size float64
}

// Quadrant returns which quarter-turn around anchor the pointer falls in,
// 1 through 4, counting angles in [0, 360) from the positive x axis towards
// positive y. Ranges are half-open: [0,90) is 1, [90,180) is 2, [180,270) is
// 3 and [270,360) is 4. A pointer on the anchor is quadrant 1.
func Quadrant(anchor, pointer Point) int {
	dx := pointer.X - anchor.X
	dy := pointer.Y - anchor.Y
	if dx == 0 && dy == 0 {
		return 1
	}

	deg := math.Atan2(dy, dx) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	switch {
	case deg < 90:
		return 1
	case deg < 180:
		return 2
	case deg < 270:
		return 3
	default:
		return 4
	}
}

// SquareFromDrag builds the square that keeps anchor as one of its corners
// and extends towards pointer. The side is the larger of the two axis
// distances, so the pointer always lies on or inside the result.
func SquareFromDrag(anchor, pointer Point) Square {
	size := math.Max(math.Abs(pointer.X-anchor.X), math.Abs(pointer.Y-anchor.Y))

	switch Quadrant(anchor, pointer) {
	case 2:
		return Square{X: anchor.X - size, Y: anchor.Y, Size: size}
	case 3:
		return Square{X: anchor.X - size, Y: anchor.Y - size, Size: size}
	case 4:
		return Square{X: anchor.X, Y: anchor.Y - size, Size: size}
	default:
		return Square{X: anchor.X, Y: anchor.Y, Size: size}
	}
}

// Corners returns the four corners in triangle-strip order:
// (x,y), (x+s,y), (x,y+s), (x+s,y+s).
func (s Square) Corners() [4]Point {
	return [4]Point{
		{s.X, s.Y},
		{s.X + s.Size, s.Y},
		{s.X, s.Y + s.Size},
		{s.X + s.Size, s.Y + s.Size},
	}
}

// Ring returns the corners in perimeter order, suitable for PointInPolygon.
func (s Square) Ring() []Point {
	c := s.Corners()
	return []Point{c[0], c[1], c[3], c[2]}
}

// Bounds returns the square as a Rect.
func (s Square) Bounds() Rect {
	return Rect{X: s.X, Y: s.Y, Width: s.Size, Height: s.Size}
}
