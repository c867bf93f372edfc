package shape

import "github.com/rzkyif/webgl2d/internal/geom"

// Square is axis-aligned; (X, Y) is the corner with the smallest
// coordinates and Size is never negative.
type Square struct {
	style
	X, Y float64
	Size float64
}

// NewSquare returns a square in the default color. A negative size is
// treated as zero.
func NewSquare(x, y, size float64) *Square {
	return &Square{style: newStyle(), X: x, Y: y, Size: max(size, 0)}
}

func (s *Square) Kind() Kind           { return KindSquare }
func (s *Square) Primitive() Primitive { return PrimitiveTriangleStrip }
func (s *Square) VertexCount() int     { return 4 }

func (s *Square) geometry() geom.Square {
	return geom.Square{X: s.X, Y: s.Y, Size: s.Size}
}

// Vertices returns the corners in strip order:
// (x,y), (x+size,y), (x,y+size), (x+size,y+size).
func (s *Square) Vertices() []float64 {
	c := s.geometry().Corners()
	return flatten(c[:])
}

// Handles returns the corners in the same order as Vertices.
func (s *Square) Handles() []geom.Point {
	c := s.geometry().Corners()
	return c[:]
}

// OppositeCorner returns the corner diagonally across from handle i.
func (s *Square) OppositeCorner(i int) geom.Point {
	c := s.geometry().Corners()
	return c[3-i]
}

// Resize rebuilds the square from a fixed anchor corner and the pointer.
func (s *Square) Resize(anchor, pointer geom.Point) {
	g := geom.SquareFromDrag(anchor, pointer)
	s.X, s.Y, s.Size = g.X, g.Y, g.Size
}

func (s *Square) HitBody(p geom.Point, _ float64) bool {
	if s.Size <= 0 {
		return false
	}
	return geom.PointInPolygon(p.X, p.Y, s.geometry().Ring())
}

func (s *Square) Translate(dx, dy float64) {
	s.X += dx
	s.Y += dy
}

func (s *Square) Bounds() geom.Rect {
	return s.geometry().Bounds()
}
