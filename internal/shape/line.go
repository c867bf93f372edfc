package shape

import "github.com/rzkyif/webgl2d/internal/geom"

// Line is a segment from A to B. The endpoint order only matters for
// rendering.
type Line struct {
	style
	AX, AY float64
	BX, BY float64
}

// NewLine returns a line in the default color.
func NewLine(ax, ay, bx, by float64) *Line {
	return &Line{style: newStyle(), AX: ax, AY: ay, BX: bx, BY: by}
}

func (l *Line) Kind() Kind           { return KindLine }
func (l *Line) Primitive() Primitive { return PrimitiveLines }
func (l *Line) VertexCount() int     { return 2 }

func (l *Line) Vertices() []float64 {
	return []float64{l.AX, l.AY, l.BX, l.BY}
}

// Handles returns A then B.
func (l *Line) Handles() []geom.Point {
	return []geom.Point{{X: l.AX, Y: l.AY}, {X: l.BX, Y: l.BY}}
}

// SetHandle moves endpoint A (i == 0) or B (i == 1).
func (l *Line) SetHandle(i int, p geom.Point) {
	switch i {
	case 0:
		l.AX, l.AY = p.X, p.Y
	case 1:
		l.BX, l.BY = p.X, p.Y
	}
}

func (l *Line) HitBody(p geom.Point, tolerance float64) bool {
	return geom.PointSegmentDistance(p.X, p.Y, l.AX, l.AY, l.BX, l.BY) <= tolerance
}

func (l *Line) Translate(dx, dy float64) {
	l.AX += dx
	l.AY += dy
	l.BX += dx
	l.BY += dy
}

func (l *Line) Bounds() geom.Rect {
	return geom.BoundsOf(l.Handles())
}
