package shape

import (
	"github.com/rzkyif/webgl2d/internal/geom"
)

// MinPolygonPoints is the smallest vertex count of a finished polygon.
const MinPolygonPoints = 3

// Point is a polygon vertex. It keeps its own color attribute so documents
// round-trip unchanged, but vertices are drawn in the polygon's color.
type Point struct {
	X, Y  float64
	Color string
}

// Polygon is closed implicitly from the last point back to the first.
// Point order is edge order.
type Polygon struct {
	style
	Points []Point
}

// NewPolygon returns a polygon in the default color.
func NewPolygon(points ...geom.Point) *Polygon {
	p := &Polygon{style: newStyle()}
	for _, pt := range points {
		p.AddPoint(pt)
	}
	return p
}

// AddPoint appends a vertex in the default color.
func (p *Polygon) AddPoint(pt geom.Point) {
	p.Points = append(p.Points, Point{X: pt.X, Y: pt.Y, Color: DefaultColor})
}

func (p *Polygon) Kind() Kind           { return KindPolygon }
func (p *Polygon) Primitive() Primitive { return PrimitiveTriangleFan }
func (p *Polygon) VertexCount() int     { return len(p.Points) }

func (p *Polygon) Vertices() []float64 {
	return flatten(p.Handles())
}

// Handles returns the vertices in edge order.
func (p *Polygon) Handles() []geom.Point {
	out := make([]geom.Point, len(p.Points))
	for i, pt := range p.Points {
		out[i] = geom.Point{X: pt.X, Y: pt.Y}
	}
	return out
}

// SetHandle moves vertex i. Out of range indexes are ignored.
func (p *Polygon) SetHandle(i int, pt geom.Point) {
	if i < 0 || i >= len(p.Points) {
		return
	}
	p.Points[i].X = pt.X
	p.Points[i].Y = pt.Y
}

func (p *Polygon) HitBody(pt geom.Point, _ float64) bool {
	return geom.PointInPolygon(pt.X, pt.Y, p.Handles())
}

func (p *Polygon) Translate(dx, dy float64) {
	for i := range p.Points {
		p.Points[i].X += dx
		p.Points[i].Y += dy
	}
}

func (p *Polygon) Bounds() geom.Rect {
	return geom.BoundsOf(p.Handles())
}
